// api/controller/decision_controller.go
package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumafin/aegis/api/audit"
	aegis_errors "github.com/lumafin/aegis/api/errors"
	"github.com/lumafin/aegis/api/model"
	"github.com/lumafin/aegis/api/service"
	"github.com/lumafin/aegis/api/util"
)

type DecisionController struct {
	evaluationService service.IEvaluationService
	auditService      audit.Service
	validationUtil    *util.ValidationUtil
}

func NewDecisionController(evaluationService service.IEvaluationService, auditService audit.Service, validationUtil *util.ValidationUtil) *DecisionController {
	return &DecisionController{
		evaluationService: evaluationService,
		auditService:      auditService,
		validationUtil:    validationUtil,
	}
}

// RegisterRoutes registers the API routes
func (dc *DecisionController) RegisterRoutes(r *gin.RouterGroup) {
	decisions := r.Group("/decisions")
	{
		decisions.POST("/evaluate", dc.Evaluate)
		decisions.POST("/evaluate/dry-run", dc.EvaluateDryRun)
		decisions.GET("/records", dc.QueryRecords)
	}
}

// Evaluate endpoint: the audited decision path every caller service uses.
func (dc *DecisionController) Evaluate(c *gin.Context) {
	dc.evaluate(c, dc.evaluationService.Evaluate)
}

// EvaluateDryRun endpoint: same decision, no audit side effect.
func (dc *DecisionController) EvaluateDryRun(c *gin.Context) {
	dc.evaluate(c, dc.evaluationService.EvaluateDryRun)
}

func (dc *DecisionController) evaluate(c *gin.Context, decide func(ctx context.Context, request *model.DecisionRequest) (*model.DecisionResponse, error)) {
	var request model.DecisionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid decision request", aegis_errors.ErrInvalidDecisionRequest)
		return
	}
	if err := dc.validationUtil.ValidateDecisionRequest(request); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, err.Error(), aegis_errors.ErrInvalidDecisionRequest)
		return
	}

	if caller := util.GetCallerService(c); caller != "" {
		if request.Environment == nil {
			request.Environment = map[string]interface{}{}
		}
		request.Environment["callerService"] = caller
	}

	response, err := decide(c, &request)
	if err != nil {
		if errors.Is(err, aegis_errors.ErrCatalogUnavailable) {
			util.RespondWithError(c, http.StatusServiceUnavailable, "Policy catalog unavailable", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to evaluate request", aegis_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusOK, response)
}

// QueryRecords endpoint: compliance lookup over recorded decisions.
func (dc *DecisionController) QueryRecords(c *gin.Context) {
	to := time.Now()
	from := to.Add(-24 * time.Hour)

	var err error
	if v := c.Query("from"); v != "" {
		if from, err = time.Parse(time.RFC3339, v); err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid 'from' timestamp", err)
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = time.Parse(time.RFC3339, v); err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid 'to' timestamp", err)
			return
		}
	}

	records, err := dc.auditService.QueryDecisions(c, from, to, c.Query("subjectId"), c.Query("resourceId"))
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to query decision records", err)
		return
	}

	c.JSON(http.StatusOK, records)
}
