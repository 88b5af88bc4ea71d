package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/exam-generation-service/internal/auth"
	"github.com/SAP-F-2025/exam-generation-service/internal/services"
	"github.com/SAP-F-2025/exam-generation-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HandlerManager struct {
	examHandler *ExamHandler
	authHandler *AuthHandler
	verifier    auth.TokenVerifier
	logger      utils.Logger
	gatherer    prometheus.Gatherer
}

// NewHandlerManager wires the HTTP handlers. gatherer may be nil to skip the
// /metrics route.
func NewHandlerManager(
	examService services.ExamService,
	exportService services.ExportService,
	authService services.AuthService,
	verifier auth.TokenVerifier,
	gatherer prometheus.Gatherer,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		examHandler: NewExamHandler(examService, exportService, logger),
		authHandler: NewAuthHandler(authService, logger),
		verifier:    verifier,
		logger:      logger,
		gatherer:    gatherer,
	}
}

// NewRouter builds the engine with the shared middleware and all routes.
func (hm *HandlerManager) NewRouter() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		utils.RequestID(),
		utils.LoggerMiddleware(hm.logger),
		utils.ContextLogger(hm.logger),
		CORS(),
	)
	hm.SetupRoutes(router)
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)
	if hm.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(hm.gatherer, promhttp.HandlerOpts{})))
	}

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/signup", hm.authHandler.Signup)
		authRoutes.POST("/login", hm.authHandler.Login)
	}

	exams := router.Group("/Exam", AuthMiddleware(hm.verifier))
	{
		exams.POST("/generate-exam", hm.examHandler.GenerateExam)
		exams.GET("/exam_history", hm.examHandler.GetExamHistory)
		exams.GET("/:id/export", hm.examHandler.ExportExam)
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "exam-generation-service",
	})
}
