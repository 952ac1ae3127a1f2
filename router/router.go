// api/router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumafin/aegis/api/controller"
	"github.com/lumafin/aegis/api/middleware"
)

func SetupRouter(
	decisionController *controller.DecisionController,
	policyChangeController *controller.PolicyChangeController,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))

	api := router.Group("/api/v1")

	decisionController.RegisterRoutes(api)
	policyChangeController.RegisterRoutes(api)

	return router
}
