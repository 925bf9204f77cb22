package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"velora.studio/velora/cmd/web/auth"
	"velora.studio/velora/cmd/web/internal/web"
	"velora.studio/velora/internal/application"
	"velora.studio/velora/internal/billing"
	"velora.studio/velora/internal/config"
	"velora.studio/velora/internal/db"
	"velora.studio/velora/internal/generation"
	"velora.studio/velora/internal/ingest"
	"velora.studio/velora/internal/otp"
	"velora.studio/velora/internal/reaper"
	"velora.studio/velora/internal/storage"
	"velora.studio/velora/internal/workflow"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	slog.Info("Starting web service")

	conf, err := config.LoadConfig(ctx)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if conf.DatabaseRetries <= 0 {
		conf.DatabaseRetries = 10
	}

	flushSentry, err := application.InitSentry(conf.SentryDSN)
	if err != nil {
		slog.Error("failed to initialize sentry", "error", err)
		os.Exit(1)
	}
	defer flushSentry()

	pool, err := application.OpenDBPoolWithRetry(ctx, *conf)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	dbc, err := db.NewDatabaseConnection(ctx, pool)
	if err != nil {
		slog.Error("failed to create database connection", "error", err)
		os.Exit(1)
	}
	defer dbc.Close()

	if err := dbc.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	sessionMgr := auth.NewSessionManager(conf.SessionSecret)

	billingClient := billing.NewClient(conf.StripeSecretKey, conf.CheckoutSuccessURL, conf.CheckoutCancelURL)
	verifier := billing.NewVerifier(billingClient, dbc)

	workflowClient := workflow.NewClient(map[workflow.Category]string{
		workflow.CategoryUGCProduct:      conf.WebhookUGCProduct,
		workflow.CategoryServiceBusiness: conf.WebhookServiceBusiness,
		workflow.CategorySoftwareUI:      conf.WebhookSoftwareUI,
	})

	uploader, err := storage.NewUploader(storage.Config{
		Endpoint:      conf.S3Endpoint,
		Region:        conf.S3Region,
		AccessKey:     conf.S3AccessKey,
		SecretKey:     conf.S3SecretKey,
		Bucket:        conf.S3Bucket,
		PublicBaseURL: conf.S3PublicBaseURL,
		UsePathStyle:  conf.S3UsePathStyle,
	})
	if err != nil {
		slog.Error("failed to initialize video storage", "error", err)
		os.Exit(1)
	}

	otpClient := otp.NewClient(conf.OTPBaseURL, conf.OTPAPIKey)

	generationSvc := generation.NewService(dbc, workflowClient)
	ingestor := ingest.New(uploader, storage.RemoteFetcher{}, dbc)

	threshold := time.Duration(conf.ReaperThresholdMinutes) * time.Minute
	stuckReaper := reaper.New(dbc, threshold)

	e, err := web.NewWebserver(ctx, conf, dbc, sessionMgr, web.Deps{
		BillingClient:  billingClient,
		Verifier:       verifier,
		WorkflowClient: workflowClient,
		OTPClient:      otpClient,
		GenerationSvc:  generationSvc,
		Ingestor:       ingestor,
		Reaper:         stuckReaper,
		SentryEnabled:  conf.SentryDSN != "",
	})
	if err != nil {
		slog.Error("failed to create webserver", "error", err)
		os.Exit(1)
	}

	addr := ":" + strconv.Itoa(conf.WebServerPort)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening", "addr", addr)
	if err := e.Start(addr); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		// Echo returns an error on Shutdown; treat it as normal if context is done.
		if ctx.Err() != nil {
			return
		}
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
