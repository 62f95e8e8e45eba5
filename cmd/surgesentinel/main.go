package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/surge-sentinel/platform/internal/adapters/his"
	"github.com/surge-sentinel/platform/internal/advisory"
	"github.com/surge-sentinel/platform/internal/ai"
	"github.com/surge-sentinel/platform/internal/alert"
	"github.com/surge-sentinel/platform/internal/assistant"
	"github.com/surge-sentinel/platform/internal/audit"
	"github.com/surge-sentinel/platform/internal/auth"
	"github.com/surge-sentinel/platform/internal/dashboard"
	"github.com/surge-sentinel/platform/internal/hospital"
	"github.com/surge-sentinel/platform/internal/notification"
	"github.com/surge-sentinel/platform/internal/session"
	"github.com/surge-sentinel/platform/internal/simulation"
	"github.com/surge-sentinel/platform/internal/shared/config"
	"github.com/surge-sentinel/platform/internal/shared/database"
	"github.com/surge-sentinel/platform/internal/shared/events"
	"github.com/surge-sentinel/platform/internal/shared/logging"
	"github.com/surge-sentinel/platform/internal/shared/metrics"
	secmiddleware "github.com/surge-sentinel/platform/internal/shared/middleware"
)

// App holds all application dependencies
type App struct {
	Config *config.Config
	Log    *zap.Logger
	DB     *database.DB
	Bus    *events.Bus
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Server.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	app := &App{Config: cfg, Log: log}

	// Database (optional - the advisory and assistant surfaces still work
	// without it)
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		log.Warn("database not available, running in limited mode", zap.Error(err))
	} else {
		app.DB = db
		defer db.Close()

		if err := database.Migrate(ctx, db.Pool); err != nil {
			log.Warn("migration failed", zap.Error(err))
		}
	}

	// Event store (optional)
	if cfg.EventStore.Enabled {
		bus, err := events.NewBus(ctx, cfg.EventStore)
		if err != nil {
			log.Warn("event store not available, running without event streaming", zap.Error(err))
		} else {
			app.Bus = bus
			defer bus.Close()
			log.Info("event bus initialized")
		}
	}

	// AI provider (optional - a nil provider means every AI surface serves
	// its fallback)
	provider, err := ai.New(ctx, cfg.AI)
	if err != nil {
		log.Warn("AI provider misconfigured, running fallback-only", zap.Error(err))
		provider = nil
	}
	if provider == nil {
		log.Info("no AI credentials configured, serving fallback content")
	} else {
		log.Info("AI provider initialized", zap.String("provider", provider.Name()))
	}

	// Services
	var hospitalRepo *hospital.Repository
	var alertRepo *alert.Repository
	if app.DB != nil {
		hospitalRepo = hospital.NewRepository(app.DB.Pool)
		alertRepo = alert.NewRepository(app.DB.Pool)
	}

	hospitalSvc := hospital.NewService(hospitalRepo, app.DB, app.Bus, log)
	alertSvc := alert.NewService(alertRepo, app.DB, app.Bus, log)
	advisorySvc := advisory.NewService(provider, hospitalSvc, app.Bus, log, cfg.AI.RequestTimeout)
	assistantSvc := assistant.NewService(provider, log, cfg.AI.RequestTimeout)
	sessionStore := session.NewStore(cfg.Auth.TokenTTL)

	var webhook notification.Provider
	if cfg.Notify.WebhookURL != "" {
		webhook = notification.NewWebhookProvider(cfg.Notify.WebhookURL)
	}
	center := notification.NewCenter(webhook, log)
	alertSvc.SetSink(center)

	recorder := audit.NewRecorder(log)
	if err := recorder.Start(ctx, app.Bus); err != nil {
		log.Warn("activity trail disabled", zap.Error(err))
	}

	go hospitalSvc.Watch(ctx)
	go alertSvc.Watch(ctx)

	// Legacy HIS import (optional)
	if cfg.HIS.Enabled {
		adapter := his.New(cfg.HIS, hospitalSvc, log)
		if err := adapter.Start(ctx); err != nil {
			log.Warn("HIS adapter failed to start", zap.Error(err))
		} else {
			defer adapter.Stop()
			log.Info("HIS adapter started", zap.String("hospital", cfg.HIS.HospitalName))
		}
	}

	// Handlers
	sessionHandler := session.NewHandler(sessionStore, cfg.Auth)
	hospitalHandler := hospital.NewHandler(hospitalSvc)
	alertHandler := alert.NewHandler(alertSvc)
	advisoryHandler := advisory.NewHandler(advisorySvc)
	assistantHandler := assistant.NewHandler(assistantSvc)
	dashboardHandler := dashboard.NewHandler()
	notificationHandler := notification.NewHandler(center)
	auditHandler := audit.NewHandler(recorder)
	simulationHandler := simulation.NewHandler(hospitalSvc, alertSvc, log)

	aiRateLimiter := secmiddleware.NewIPRateLimiter(1, 5)

	r := chi.NewRouter()

	// Global middleware. The request timeout is applied per group below so
	// the SSE streams are not cut off at the deadline.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(secmiddleware.SecurityHeaders)
	r.Use(secmiddleware.CORS)
	r.Use(metrics.Middleware)

	requestTimeout := middleware.Timeout(60 * time.Second)

	// Health checks (unauthenticated)
	r.Group(func(r chi.Router) {
		r.Use(requestTimeout)
		r.Get("/health", healthHandler)
		r.Get("/ready", readyHandler(app))
		r.Handle("/metrics", metrics.Handler())
		r.Get("/", infoHandler)
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Role selection is the login; it cannot require a token
		r.With(requestTimeout).Mount("/", sessionHandler.PublicRoutes())

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(cfg.Auth))

			// Long-lived streams; no request deadline
			r.Get("/hospitals/stream", hospitalHandler.Stream)
			r.Get("/alerts/stream", alertHandler.Stream)

			r.Group(func(r chi.Router) {
				r.Use(requestTimeout)

				r.Mount("/session", sessionHandler.Routes())
				r.Mount("/hospitals", hospitalHandler.Routes())
				r.Mount("/alerts", alertHandler.Routes())
				r.Mount("/dashboard", dashboardHandler.Routes())
				r.Mount("/notifications", notificationHandler.Routes())
				r.Mount("/audit", auditHandler.Routes())

				// Demo scenarios write through the hospital sync path, so they
				// carry the same permission as direct upserts
				r.With(auth.RequirePermission(auth.PermHospitalUpsert)).
					Mount("/simulation", simulationHandler.Routes())

				// AI-backed surfaces get per-IP rate limiting on top of auth
				r.Group(func(r chi.Router) {
					r.Use(aiRateLimiter.Middleware)
					r.Mount("/advisories", advisoryHandler.Routes())
					r.Mount("/assistant", assistantHandler.Routes())
				})
			})
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE streams stay open indefinitely
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
		close(done)
	}()

	log.Info("SurgeSentinel started",
		zap.String("env", cfg.Server.Env),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("database", app.DB != nil),
		zap.Bool("event_bus", app.Bus != nil),
		zap.Bool("live_ai", provider != nil))

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server error", zap.Error(err))
	}

	<-done
	log.Info("server stopped")
}

func infoHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"name":    "SurgeSentinel",
		"version": "0.1.0",
		"docs":    "/api/v1",
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func readyHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"server": "ready",
		}

		if app.DB != nil {
			if err := app.DB.Health(r.Context()); err != nil {
				checks["database"] = "not ready: " + err.Error()
			} else {
				checks["database"] = "ready"
			}
		} else {
			checks["database"] = "not configured"
		}

		if app.Bus != nil {
			if err := app.Bus.Health(); err != nil {
				checks["eventstore"] = "not ready: " + err.Error()
			} else {
				checks["eventstore"] = "ready"
			}
		} else {
			checks["eventstore"] = "not configured"
		}

		allReady := true
		for _, status := range checks {
			if status != "ready" && status != "not configured" {
				allReady = false
				break
			}
		}

		status := http.StatusOK
		if !allReady {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"status": map[bool]string{true: "ready", false: "not ready"}[allReady],
			"checks": checks,
		})
	}
}
