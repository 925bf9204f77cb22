package web

import (
	"context"
	"log/slog"
	"time"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"velora.studio/velora/cmd/web/auth"
	authhandlers "velora.studio/velora/cmd/web/handlers/auth"

	"velora.studio/velora/cmd/web/handlers/api/generation_api"
	"velora.studio/velora/cmd/web/handlers/api/ingest_api"
	"velora.studio/velora/cmd/web/handlers/api/payment_api"
	"velora.studio/velora/cmd/web/handlers/api/proxy_api"
	"velora.studio/velora/cmd/web/handlers/api/reaper_api"
	"velora.studio/velora/cmd/web/handlers/api/template_api"

	"velora.studio/velora/internal/billing"
	"velora.studio/velora/internal/config"
	"velora.studio/velora/internal/db"
	"velora.studio/velora/internal/generation"
	"velora.studio/velora/internal/ingest"
	"velora.studio/velora/internal/otp"
	"velora.studio/velora/internal/reaper"
	"velora.studio/velora/internal/workflow"
)

type Webserver struct {
	*echo.Echo
	conf           *config.Config
	sessionManager *auth.SessionManager
	dbc            *db.DatabaseConnection

	billingClient   *billing.Client
	verifier        *billing.Verifier
	workflowClient  *workflow.Client
	otpClient       *otp.Client
	generationSvc   *generation.Service
	ingestor        *ingest.Ingestor
	reaperInstance  *reaper.Reaper
	sentryInstalled bool
}

// Deps carries the wired service components into the webserver.
type Deps struct {
	BillingClient  *billing.Client
	Verifier       *billing.Verifier
	WorkflowClient *workflow.Client
	OTPClient      *otp.Client
	GenerationSvc  *generation.Service
	Ingestor       *ingest.Ingestor
	Reaper         *reaper.Reaper
	SentryEnabled  bool
}

func NewWebserver(ctx context.Context, conf *config.Config, dbc *db.DatabaseConnection, sessionManager *auth.SessionManager, deps Deps) (*Webserver, error) {
	e := echo.New()

	webserver := &Webserver{
		Echo:            e,
		conf:            conf,
		sessionManager:  sessionManager,
		dbc:             dbc,
		billingClient:   deps.BillingClient,
		verifier:        deps.Verifier,
		workflowClient:  deps.WorkflowClient,
		otpClient:       deps.OTPClient,
		generationSvc:   deps.GenerationSvc,
		ingestor:        deps.Ingestor,
		reaperInstance:  deps.Reaper,
		sentryInstalled: deps.SentryEnabled,
	}

	if err := webserver.setupMiddleware(); err != nil {
		return nil, err
	}

	webserver.registerRoutes()

	return webserver, nil
}

func (s *Webserver) setupMiddleware() error {
	s.HideBanner = true
	s.HidePort = true
	// Uploads carry whole rendered videos.
	s.Use(middleware.BodyLimit("512M"))
	s.Use(middleware.Recover())
	s.Use(middleware.RequestID())
	s.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
	s.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			slog.Info("request", fields...)
			return nil
		},
	}))

	if s.sentryInstalled {
		s.Use(sentryecho.New(sentryecho.Options{
			Repanic: true,
			Timeout: 3 * time.Second,
		}))
	}

	return nil
}

func (s *Webserver) registerRoutes() {
	s.GET("/healthz", func(c echo.Context) error {
		if err := s.dbc.Ping(c.Request().Context()); err != nil {
			return c.JSON(503, map[string]any{"status": "degraded"})
		}
		return c.JSON(200, map[string]any{"status": "ok"})
	})

	authGroup := s.Group("/auth")
	authGroup.POST("/register", authhandlers.HandleRegister(s.sessionManager, s.dbc))
	authGroup.POST("/login", authhandlers.HandleLogin(s.sessionManager, s.dbc))
	authGroup.POST("/logout", authhandlers.HandleLogout(s.sessionManager))
	authGroup.GET("/me", authhandlers.HandleMe(s.sessionManager, s.dbc))
	authGroup.POST("/phone/start", authhandlers.HandlePhoneStart(s.sessionManager, s.otpClient))
	authGroup.POST("/phone/check", authhandlers.HandlePhoneCheck(s.sessionManager, s.otpClient, s.dbc))

	apiGroup := s.Group("/api")
	apiGroup.POST("/generations", generation_api.HandleCreate(s.sessionManager, s.generationSvc))
	apiGroup.GET("/generations", generation_api.HandleIndex(s.sessionManager, s.dbc))
	apiGroup.GET("/generations/:id", generation_api.HandleGet(s.sessionManager, s.dbc))
	apiGroup.DELETE("/generations/:id", generation_api.HandleDelete(s.sessionManager, s.dbc))

	apiGroup.GET("/templates", template_api.HandleIndex())

	apiGroup.POST("/payments/checkout", payment_api.HandleCheckout(s.sessionManager, s.billingClient))
	apiGroup.POST("/payments/verify", payment_api.HandleVerify(s.sessionManager, s.verifier))
	apiGroup.GET("/payments/packs", payment_api.HandlePacks())

	apiGroup.POST("/videos/store", ingest_api.HandleStore(s.ingestor))

	apiGroup.POST("/reaper/run", reaper_api.HandleRun(s.conf.ReaperToken, s.reaperInstance))

	// The proxy is called from browser contexts on other origins during
	// development, so it gets its own permissive CORS scope.
	proxyGroup := s.Group("/api/proxy")
	proxyGroup.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))
	proxyGroup.POST("/webhook", proxy_api.HandleForward(s.workflowClient))
}
