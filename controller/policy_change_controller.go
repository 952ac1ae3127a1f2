// api/controller/policy_change_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	aegis_errors "github.com/lumafin/aegis/api/errors"
	logger "github.com/lumafin/aegis/api/logging"
	"github.com/lumafin/aegis/api/model"
	"github.com/lumafin/aegis/api/util"
)

// PolicyChangeController receives change notifications from the
// policy-administration service and fans them out on the event bus so cached
// candidate lists are invalidated.
type PolicyChangeController struct {
	eventBus *util.EventBus
}

func NewPolicyChangeController(eventBus *util.EventBus) *PolicyChangeController {
	return &PolicyChangeController{eventBus: eventBus}
}

// RegisterRoutes registers the API routes
func (pc *PolicyChangeController) RegisterRoutes(r *gin.RouterGroup) {
	policies := r.Group("/policies")
	{
		policies.POST("/changed", pc.NotifyChanged)
	}
}

// NotifyChanged endpoint: called by the administration service after a policy
// create, update or delete.
func (pc *PolicyChangeController) NotifyChanged(c *gin.Context) {
	var policy model.Policy
	if err := c.ShouldBindJSON(&policy); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid policy change notification", err)
		return
	}
	if policy.ResourceType == "" || policy.Action == "" {
		util.RespondWithError(c, http.StatusBadRequest, "resourceType and action are required", aegis_errors.ErrInvalidDecisionRequest)
		return
	}

	logger.Info("Policy change notification received",
		zap.String("policyID", policy.ID),
		zap.String("resourceType", policy.ResourceType),
		zap.String("action", policy.Action),
		zap.String("caller", util.GetCallerService(c)))

	pc.eventBus.Publish(c, util.EventPolicyChanged, policy)
	c.Status(http.StatusAccepted)
}
