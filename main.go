package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumafin/aegis/api/audit"
	"github.com/lumafin/aegis/api/catalog"
	"github.com/lumafin/aegis/api/config"
	"github.com/lumafin/aegis/api/controller"
	"github.com/lumafin/aegis/api/db"
	logger "github.com/lumafin/aegis/api/logging"
	"github.com/lumafin/aegis/api/pdp/dao"
	"github.com/lumafin/aegis/api/pdp/engine"
	"github.com/lumafin/aegis/api/router"
	"github.com/lumafin/aegis/api/service"
	"github.com/lumafin/aegis/api/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize Neo4j
	if err := db.InitNeo4j(); err != nil {
		logger.Fatal("Failed to initialize Neo4j", zap.Error(err))
	}
	defer db.CloseNeo4j()

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Initialize audit sink
	auditRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
	if err != nil {
		logger.Fatal("Failed to initialize audit repository", zap.Error(err))
	}
	auditService := audit.NewService(auditRepository, config.GetDuration("audit.writeTimeout"))
	defer auditService.Close()

	// Initialize the policy catalog: Neo4j retrieval behind a Redis
	// read-through cache invalidated on policy.changed events.
	catalogDAO := dao.NewPolicyCatalogDAO(db.Neo4jDriver)
	policyCatalog := catalog.NewCachedCatalog(catalogDAO, eventBus)

	// Initialize the engine and evaluation service
	evaluator := engine.NewPolicyEvaluator(policyCatalog)
	evaluationService := service.NewEvaluationService(evaluator, auditService, eventBus)

	// Initialize controllers
	validationUtil := util.NewValidationUtil()
	decisionController := controller.NewDecisionController(evaluationService, auditService, validationUtil)
	policyChangeController := controller.NewPolicyChangeController(eventBus)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engineRouter := router.SetupRouter(decisionController, policyChangeController, 1000, time.Minute)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engineRouter,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
