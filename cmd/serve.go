package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/duynhne/account-service/config"
	logicv1 "github.com/duynhne/account-service/internal/logic/v1"
	"github.com/duynhne/account-service/internal/state"
	"github.com/duynhne/account-service/internal/web/account"
	"github.com/duynhne/account-service/internal/web/profileform"
	"github.com/duynhne/account-service/internal/web/routepath"
	v1 "github.com/duynhne/account-service/internal/web/v1"
	"github.com/duynhne/account-service/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	logger.Info("Service starting",
		zap.String("service", cfg.Service.Name),
		zap.String("version", cfg.Service.Version),
		zap.String("env", cfg.Service.Env),
		zap.String("port", cfg.Service.Port),
		zap.String("storage", cfg.Storage.Driver),
	)

	var tp interface{ Shutdown(context.Context) error }
	if cfg.Tracing.Enabled {
		provider, err := middleware.InitTracing(cfg)
		if err != nil {
			logger.Warn("Failed to initialize tracing", zap.Error(err))
		} else {
			tp = provider
			logger.Info("Tracing initialized",
				zap.String("endpoint", cfg.Tracing.Endpoint),
				zap.Float64("sample_rate", cfg.Tracing.SampleRate),
			)
		}
	} else {
		logger.Info("Tracing disabled (TRACING_ENABLED=false)")
	}

	if cfg.Profiling.Enabled {
		if err := middleware.InitProfiling(cfg.Profiling); err != nil {
			logger.Warn("Failed to initialize profiling", zap.Error(err))
		} else {
			logger.Info("Profiling initialized", zap.String("endpoint", cfg.Profiling.Endpoint))
			defer middleware.StopProfiling()
		}
	} else {
		logger.Info("Profiling disabled (PROFILING_ENABLED=false)")
	}

	repo, err := openRepository(parent, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()
	if err := repo.Migrate(parent); err != nil {
		return err
	}
	logger.Info("Repository ready", zap.String("driver", cfg.Storage.Driver))

	svc := logicv1.NewAccountService(repo)
	if err := seedDemoUser(parent, cfg, svc, logger); err != nil {
		return err
	}
	actions := state.NewActions(state.NewStore(), svc, logger)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	var isShuttingDown atomic.Bool
	authClient := middleware.NewAuthClient(cfg.AuthServiceURL)
	r := newRouter(cfg, logger, svc, actions, authClient, &isShuttingDown)

	srv := &http.Server{
		Addr:              ":" + cfg.Service.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting account service", zap.String("port", cfg.Service.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serveErr:
		logger.Error("HTTP server failed", zap.Error(err))
		return err
	}

	// fail readiness first so routing stops sending traffic
	isShuttingDown.Store(true)
	if drainDelay := cfg.GetReadinessDrainDelayDuration(); drainDelay > 0 {
		logger.Info("Readiness drain delay started", zap.Duration("delay", drainDelay))
		time.Sleep(drainDelay)
	}

	shutdownTimeout := cfg.GetShutdownTimeoutDuration()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("Shutting down server...", zap.Duration("timeout", shutdownTimeout))

	// order: HTTP server, repository (deferred), tracer
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		logger.Info("HTTP server shutdown complete")
	}

	if tp != nil {
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("Tracer shutdown error", zap.Error(err))
		} else {
			logger.Info("Tracer shutdown complete")
		}
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

// newRouter wires middleware, infra endpoints, the profile page and the API.
func newRouter(
	cfg *config.Config,
	logger *zap.Logger,
	svc *logicv1.AccountService,
	actions *state.Actions,
	verifier middleware.TokenVerifier,
	isShuttingDown *atomic.Bool,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// tracing first for context propagation, logging before metrics
	if cfg.Tracing.Enabled {
		r.Use(middleware.TracingMiddleware())
	}
	r.Use(middleware.LoggingMiddleware(logger))
	if cfg.Metrics.Enabled {
		r.Use(middleware.PrometheusMiddleware())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	r.GET(routepath.Health, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET(routepath.Ready, func(c *gin.Context) {
		if isShuttingDown.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	fallbackUserID := ""
	if cfg.AuthAllowUnauthenticatedFallback {
		fallbackUserID = cfg.Web.DemoUserID
	}
	auth := middleware.AuthMiddleware(verifier, logger, fallbackUserID)

	pages := r.Group("", auth)
	account.NewHandler(actions, profileform.Links{
		ChangePassword: cfg.Web.ChangePasswordPath,
		ResetPassword:  cfg.Web.ResetPasswordPath,
	}).Register(pages)

	v1.NewUserHandler(svc, actions).Register(r.Group(routepath.APIV1), auth)

	return r
}
