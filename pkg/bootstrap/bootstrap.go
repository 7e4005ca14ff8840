package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"

	shared "github.com/versionsup/server/pkg"
	"github.com/versionsup/server/pkg/infrastructure/ai"
	infraauth "github.com/versionsup/server/pkg/infrastructure/auth"
	"github.com/versionsup/server/pkg/infrastructure/database"
)

// Config holds standard configuration for the service
type Config struct {
	ProjectID          string
	Addr               string
	StravaClientID     string
	StravaClientSecret string
	StravaRedirectURI  string
	GeminiAPIKey       string
	AllowedOrigins     []string
}

// Service holds initialized dependencies
type Service struct {
	DB     shared.Database
	Auth   shared.TokenVerifier
	AI     shared.TextGenerator
	Config *Config
}

// LoadConfig reads configuration from environment variables
func LoadConfig() *Config {
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = shared.ProjectID // Fallback
	}

	addr := os.Getenv("ADDR")
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}

	var origins []string
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return &Config{
		ProjectID:          projectID,
		Addr:               addr,
		StravaClientID:     os.Getenv("STRAVA_CLIENT_ID"),
		StravaClientSecret: os.Getenv("STRAVA_CLIENT_SECRET"),
		StravaRedirectURI:  os.Getenv("STRAVA_REDIRECT_URI"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		AllowedOrigins:     origins,
	}
}

// Validate fails fast when a required integration credential is missing.
func (c *Config) Validate() error {
	if c.StravaClientID == "" || c.StravaClientSecret == "" || c.StravaRedirectURI == "" {
		return fmt.Errorf("strava environment variables are not properly set")
	}
	return nil
}

// GetSlogHandlerOptions returns standard handler options for GCP
func GetSlogHandlerOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Map standard keys to Cloud Logging keys
			if a.Key == slog.MessageKey {
				return slog.Attr{Key: "message", Value: a.Value}
			}
			if a.Key == slog.LevelKey {
				return slog.Attr{Key: "severity", Value: a.Value}
			}
			return a
		},
	}
}

func logLevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger configures structured logging with Cloud Logging compatible keys
func InitLogger() {
	opts := GetSlogHandlerOptions(logLevelFromEnv())
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, opts)))
}

// NewLogger creates a configured logger instance
func NewLogger(serviceName string) *slog.Logger {
	opts := GetSlogHandlerOptions(logLevelFromEnv())
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler).With("service", serviceName)
}

// NewService initializes all standard dependencies
func NewService(ctx context.Context) (*Service, error) {
	InitLogger()
	cfg := LoadConfig()

	slog.Info("Initializing service", "project_id", cfg.ProjectID)

	// Firebase (identity verification)
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID})
	if err != nil {
		slog.Error("Firebase init failed", "error", err)
		return nil, fmt.Errorf("firebase init: %w", err)
	}
	verifier, err := infraauth.NewFirebaseVerifier(ctx, app)
	if err != nil {
		slog.Error("Firebase auth init failed", "error", err)
		return nil, fmt.Errorf("firebase auth init: %w", err)
	}

	// Firestore
	fsClient, err := firestore.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		slog.Error("Firestore init failed", "error", err)
		return nil, fmt.Errorf("firestore init: %w", err)
	}

	return &Service{
		DB:     database.NewFirestoreAdapter(fsClient),
		Auth:   verifier,
		AI:     ai.NewGenerator(cfg.GeminiAPIKey),
		Config: cfg,
	}, nil
}
