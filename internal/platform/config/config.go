package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"
	defaultRateLimit = "100-M"
)

// Config holds the backend's configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	CORSAllowedOrigins []string
	RateLimit          string // ulule/limiter formatted rate, e.g. "100-M"

	PosthogAPIKey   string
	PosthogEndpoint string

	// Trial balance import. Either an API key for link-shared sheets or a
	// service account credentials file.
	GoogleSheetsAPIKey          string
	GoogleSheetsCredentialsFile string
}

// ParticipantConfig holds what a participant process needs to follow one
// engagement against a running backend.
type ParticipantConfig struct {
	APIBaseURL           string
	WebsocketURL         string
	AccessToken          string
	EngagementID         string
	StatsRefreshInterval time.Duration

	// Used to mint a development token when AccessToken is empty.
	JWTSecret    string
	JWTIssuer    string
	DevUserID    string
	IsProduction bool
}

func loadEnv() {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "pbc-workflow-app")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", defaultRateLimit)
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "")
	viper.SetDefault("GOOGLE_SHEETS_API_KEY", "")
	viper.SetDefault("GOOGLE_SHEETS_CREDENTIALS_FILE", "")

	viper.SetDefault("PBC_API_BASE_URL", "http://localhost:8080/api/v1")
	viper.SetDefault("PBC_WS_URL", "ws://localhost:8080/ws")
	viper.SetDefault("PBC_ACCESS_TOKEN", "")
	viper.SetDefault("PBC_ENGAGEMENT_ID", "")
	viper.SetDefault("PBC_DEV_USER_ID", "")
	viper.SetDefault("STATS_REFRESH_INTERVAL", "5m")

	// Environment variables override .env values, which override defaults.
	viper.AutomaticEnv()
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// LoadConfig loads the backend configuration from environment variables and
// a .env file if present.
func LoadConfig() (*Config, error) {
	loadEnv()

	cfg := &Config{
		DatabaseURL:                 viper.GetString("PGSQL_URL"),
		Port:                        viper.GetString("PORT"),
		IsProduction:                viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:               viper.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:                   viper.GetString("JWT_SECRET"),
		JWTExpiryDuration:           parseDuration("JWT_EXPIRY_DURATION", time.Hour),
		JWTIssuer:                   viper.GetString("JWT_ISSUER"),
		CORSAllowedOrigins:          splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		RateLimit:                   viper.GetString("RATE_LIMIT"),
		PosthogAPIKey:               viper.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:             viper.GetString("POSTHOG_ENDPOINT"),
		GoogleSheetsAPIKey:          viper.GetString("GOOGLE_SHEETS_API_KEY"),
		GoogleSheetsCredentialsFile: viper.GetString("GOOGLE_SHEETS_CREDENTIALS_FILE"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.RateLimit == "" {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.GoogleSheetsAPIKey == "" && cfg.GoogleSheetsCredentialsFile == "" {
		log.Println("Warning: No Google Sheets credentials set. Trial balance import will not function.")
	}

	return cfg, nil
}

// LoadParticipantConfig loads the participant process configuration.
func LoadParticipantConfig() (*ParticipantConfig, error) {
	loadEnv()

	cfg := &ParticipantConfig{
		APIBaseURL:           viper.GetString("PBC_API_BASE_URL"),
		WebsocketURL:         viper.GetString("PBC_WS_URL"),
		AccessToken:          viper.GetString("PBC_ACCESS_TOKEN"),
		EngagementID:         viper.GetString("PBC_ENGAGEMENT_ID"),
		StatsRefreshInterval: parseDuration("STATS_REFRESH_INTERVAL", 5*time.Minute),
		JWTSecret:            viper.GetString("JWT_SECRET"),
		JWTIssuer:            viper.GetString("JWT_ISSUER"),
		DevUserID:            viper.GetString("PBC_DEV_USER_ID"),
		IsProduction:         viper.GetBool("IS_PRODUCTION"),
	}
	if cfg.AccessToken == "" && cfg.DevUserID == "" {
		log.Println("Warning: Neither PBC_ACCESS_TOKEN nor PBC_DEV_USER_ID set. Requests will be unauthenticated.")
	}
	return cfg, nil
}
