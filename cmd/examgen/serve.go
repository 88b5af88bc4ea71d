package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/exam-generation-service/internal/auth"
	"github.com/SAP-F-2025/exam-generation-service/internal/cache"
	"github.com/SAP-F-2025/exam-generation-service/internal/handlers"
	"github.com/SAP-F-2025/exam-generation-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/exam-generation-service/internal/services"
	"github.com/SAP-F-2025/exam-generation-service/internal/utils"
	"github.com/SAP-F-2025/exam-generation-service/internal/validator"
	"github.com/SAP-F-2025/exam-generation-service/pkg"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API: signup and login under /auth, exam generation, history and
export under /Exam, plus /health and /metrics.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := newCore(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if c.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := pkg.InitDatabase(c.cfg)
	if err != nil {
		return err
	}
	if err := pkg.Migrate(db); err != nil {
		return err
	}

	redisClient, err := pkg.NewRedisClient(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	publisher, err := c.cfg.Events.CreateEventPublisher(utils.ToSlogLogger(c.logger))
	if err != nil {
		return fmt.Errorf("creating event publisher: %w", err)
	}
	defer publisher.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	examPipeline, err := c.newPipeline(registry)
	if err != nil {
		return err
	}

	examRepo := postgres.NewExamPostgreSQL(db)
	userRepo := postgres.NewUserPostgreSQL(db)
	historyCache := cache.NewRedisCache(redisClient, c.zap)
	validate := validator.New()
	slogger := utils.ToSlogLogger(c.logger)

	jwtManager := auth.NewJWTManager(c.cfg.Auth.JWTSecret, c.cfg.Auth.TokenExpiry)
	verifier, err := auth.NewVerifier(c.cfg.Auth, jwtManager, userRepo)
	if err != nil {
		return err
	}

	examService := services.NewExamService(
		examPipeline,
		examRepo,
		historyCache,
		publisher,
		validate,
		services.NewServiceLogger(slogger, services.LogConfig{Service: "exam-generation-service", Component: "exams"}),
		services.ExamServiceConfig{
			K:               c.cfg.Pipeline.RetrievalK,
			TopN:            c.cfg.Pipeline.RerankTopN,
			MaxQuestions:    c.cfg.Pipeline.MaxQuestionsPerRun,
			HistoryCacheTTL: c.cfg.HistoryCacheTTL,
		},
	)
	exportService := services.NewExportService(
		examService,
		validate,
		services.NewServiceLogger(slogger, services.LogConfig{Service: "exam-generation-service", Component: "export"}),
	)
	authService := services.NewAuthService(
		userRepo,
		jwtManager,
		publisher,
		validate,
		services.NewServiceLogger(slogger, services.LogConfig{Service: "exam-generation-service", Component: "auth"}),
	)

	manager := handlers.NewHandlerManager(examService, exportService, authService, verifier, registry, c.logger)
	server := &http.Server{
		Addr:              ":" + c.cfg.Port,
		Handler:           manager.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.logger.Info("Starting HTTP server", "addr", server.Addr, "environment", c.cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	c.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
