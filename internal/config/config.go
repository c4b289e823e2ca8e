package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	SessionSecret          string
	SessionCookieName      string
	SessionTTL             time.Duration
	NewsCacheTTL           time.Duration
	LoginPath              string
	DashboardPrefix        string
	AdminBootstrapEnabled  bool
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads configuration values from environment variables and an
// optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SGL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "SmartGridLab API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("session.cookie", "sgl_session")
	v.SetDefault("session.ttl", "720h")
	v.SetDefault("news.cache_ttl", "5m")
	v.SetDefault("login.path", "/paitrabalhou")
	v.SetDefault("dashboard.prefix", "/dashboard")
	v.SetDefault("cloudinary.folder", "smartgridlab/news")

	sessionTTL, err := time.ParseDuration(v.GetString("session.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid session ttl: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("news.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid news cache ttl: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		SessionSecret:          v.GetString("session.secret"),
		SessionCookieName:      v.GetString("session.cookie"),
		SessionTTL:             sessionTTL,
		NewsCacheTTL:           cacheTTL,
		LoginPath:              v.GetString("login.path"),
		DashboardPrefix:        v.GetString("dashboard.prefix"),
		AdminBootstrapEnabled:  v.GetBool("admin.bootstrap"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
	}

	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("session secret must be provided")
	}

	// The bootstrap route never runs in production regardless of the flag.
	if cfg.IsProduction() {
		cfg.AdminBootstrapEnabled = false
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * 24 * time.Hour
	}

	return cfg, nil
}
