// Package server assembles services, handlers and middleware into the HTTP API.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "buildledger/internal/docs" // swagger docs
	"buildledger/internal/handlers"
	"buildledger/internal/metrics"
	"buildledger/internal/middleware"
	"buildledger/internal/models"
	"buildledger/internal/repository"
	"buildledger/internal/services"
)

// Services is the business layer behind the API.
type Services struct {
	Ledger     services.LedgerServicer
	Commitment services.CommitmentServicer
	Phase      services.PhaseServicer
	Contract   services.ContractServicer
	Audit      services.AuditServicer
}

// NewServices builds every service over one repository. Contracts share the
// ledger so that cost changes rebuild phases in the same transaction.
func NewServices(repo repository.CommitmentRepository) *Services {
	ledger := services.NewLedgerService(repo)
	return &Services{
		Ledger:     ledger,
		Commitment: services.NewCommitmentService(repo),
		Phase:      services.NewPhaseService(repo),
		Contract:   services.NewContractService(repo, ledger),
		Audit:      services.NewAuditService(repo),
	}
}

// Options configures authentication of the router.
type Options struct {
	JWTSecret      string
	PipelineAPIKey string
}

// NewRouter wires every route of the API.
func NewRouter(svc *Services, opts Options) *gin.Engine {
	calculatorHandler := handlers.NewCalculatorHandler()
	commitmentHandler := handlers.NewCommitmentHandler(svc.Commitment, svc.Audit)
	paymentHandler := handlers.NewPaymentHandler(svc.Ledger, svc.Commitment, svc.Contract, svc.Audit)
	phaseHandler := handlers.NewPhaseHandler(svc.Phase, svc.Ledger, svc.Audit)
	contractHandler := handlers.NewContractHandler(svc.Contract, svc.Audit)
	pipelineHandler := handlers.NewPipelineHandler(svc.Ledger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(opts.PipelineAPIKey))
	pipeline.POST("/ledger/recompute", pipelineHandler.RecomputeAll)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(opts.JWTSecret))

	calculator := protected.Group("/calculator")
	calculator.POST("/quote", calculatorHandler.Quote)
	calculator.POST("/schedule", calculatorHandler.Schedule)

	projects := protected.Group("/projects/:projectId")
	projects.POST("/commitments", commitmentHandler.CreateCommitment)
	projects.GET("/commitments", commitmentHandler.ListCommitments)
	projects.GET("/finance-summary", commitmentHandler.GetFinanceSummary)
	projects.POST("/phases", phaseHandler.CreatePhase)
	projects.GET("/phases", phaseHandler.ListPhases)
	projects.POST("/contracts", contractHandler.CreateContract)
	projects.GET("/contracts", contractHandler.ListContracts)

	commitments := protected.Group("/commitments")
	commitments.GET("/:id", commitmentHandler.GetCommitment)
	commitments.PUT("/:id", commitmentHandler.UpdateCommitment)
	commitments.DELETE("/:id", commitmentHandler.DeleteCommitment)
	commitments.GET("/:id/summary", commitmentHandler.GetCommitmentSummary)
	commitments.POST("/:id/payments", paymentHandler.RecordCommitmentPayment)
	commitments.GET("/:id/payments", paymentHandler.ListCommitmentPayments)
	commitments.GET("/:id/ledger-check", paymentHandler.CheckLedger(models.PaymentOwnerCommitment))

	payments := protected.Group("/payments")
	payments.PUT("/:id", paymentHandler.EditPayment)
	payments.DELETE("/:id", paymentHandler.DeletePayment)

	phases := protected.Group("/phases")
	phases.GET("/:id", phaseHandler.GetPhase)
	phases.PUT("/:id", phaseHandler.UpdatePhase)
	phases.DELETE("/:id", phaseHandler.DeletePhase)
	phases.GET("/:id/budget", phaseHandler.GetPhaseBudget)
	phases.POST("/:id/recompute", phaseHandler.RecomputePhase)

	contracts := protected.Group("/contracts")
	contracts.GET("/:id", contractHandler.GetContract)
	contracts.PUT("/:id", contractHandler.UpdateContract)
	contracts.DELETE("/:id", contractHandler.DeleteContract)
	contracts.PUT("/:id/phase", contractHandler.ReassignContract)
	contracts.POST("/:id/payments", paymentHandler.RecordContractPayment)
	contracts.GET("/:id/payments", paymentHandler.ListContractPayments)
	contracts.GET("/:id/ledger-check", paymentHandler.CheckLedger(models.PaymentOwnerCostAssignment))

	return router
}
