package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	// WebServer Configuration
	WebServerPort int `mapstructure:"WEBSERVER_PORT"`

	// Database Configuration
	DatabaseDSN     string `mapstructure:"DATABASE_DSN" validate:"required"`
	DatabaseRetries int    `mapstructure:"DATABASE_RETRIES"`

	// Session Configuration
	SessionSecret string `mapstructure:"SESSION_SECRET"`

	// Stripe Configuration
	StripeSecretKey    string `mapstructure:"STRIPE_SECRET_KEY"`
	CheckoutSuccessURL string `mapstructure:"CHECKOUT_SUCCESS_URL"`
	CheckoutCancelURL  string `mapstructure:"CHECKOUT_CANCEL_URL"`

	// Object Storage Configuration
	S3Endpoint      string `mapstructure:"S3_ENDPOINT"`
	S3Region        string `mapstructure:"S3_REGION"`
	S3AccessKey     string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey     string `mapstructure:"S3_SECRET_KEY"`
	S3Bucket        string `mapstructure:"S3_BUCKET"`
	S3PublicBaseURL string `mapstructure:"S3_PUBLIC_BASE_URL"`
	S3UsePathStyle  bool   `mapstructure:"S3_USE_PATH_STYLE"`

	// Workflow webhook URLs, one per category
	WebhookUGCProduct      string `mapstructure:"WORKFLOW_WEBHOOK_UGC_PRODUCT"`
	WebhookServiceBusiness string `mapstructure:"WORKFLOW_WEBHOOK_SERVICE_BUSINESS"`
	WebhookSoftwareUI      string `mapstructure:"WORKFLOW_WEBHOOK_SOFTWARE_UI"`

	// Reaper Configuration
	ReaperToken            string `mapstructure:"REAPER_TOKEN"`
	ReaperThresholdMinutes int    `mapstructure:"REAPER_THRESHOLD_MINUTES"`

	// Phone verification provider
	OTPBaseURL string `mapstructure:"OTP_BASE_URL"`
	OTPAPIKey  string `mapstructure:"OTP_API_KEY"`

	// Observability
	SentryDSN string `mapstructure:"SENTRY_DSN"`
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	val := reflect.ValueOf(c)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag != "" {
			viper.BindEnv(tag)
		}

		// Handle nested structs
		if field.Type.Kind() == reflect.Struct && tag == "" {
			nestedTyp := fieldVal.Type()
			for j := 0; j < fieldVal.NumField(); j++ {
				nestedField := nestedTyp.Field(j)
				nestedTag := nestedField.Tag.Get("mapstructure")
				if nestedTag != "" {
					viper.BindEnv(nestedTag)
				}
			}
		}
	}
}

func LoadConfig(ctx context.Context) (*Config, error) {
	bindEnv(Config{})
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("WEBSERVER_PORT", 8080)
	viper.SetDefault("DATABASE_RETRIES", 10)
	viper.SetDefault("REAPER_THRESHOLD_MINUTES", 15)

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	slog.Info("Loaded configuration", "port", cfg.WebServerPort, "reaper_threshold_minutes", cfg.ReaperThresholdMinutes)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
