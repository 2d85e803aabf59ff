package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	ImageBackendFunction   = "function"
	ImageBackendCloudinary = "cloudinary"
)

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`

	SupabaseURL       string `yaml:"supabase_url"`
	SupabaseAnonKey   string `yaml:"supabase_anon_key"`
	SupabaseJWTSecret string `yaml:"supabase_jwt_secret"`

	MongoDBURI      string `yaml:"mongodb_uri"`
	MongoDBPassword string `yaml:"mongodb_password"`

	ImageBackend        string `yaml:"image_backend"`
	UploadFunction      string `yaml:"upload_function"`
	CloudinaryCloudName string `yaml:"cloudinary_cloud_name"`
	CloudinaryAPIKey    string `yaml:"cloudinary_api_key"`
	CloudinaryAPISecret string `yaml:"cloudinary_api_secret"`

	EventTimezone  string        `yaml:"event_timezone"`
	JoinTabRecheck string        `yaml:"join_tab_recheck"`
	JoinTabGrace   time.Duration `yaml:"join_tab_grace"`

	AllowedOrigins []string `yaml:"allowed_origins"`
}

func defaults() *Config {
	return &Config{
		Port:           "8080",
		Environment:    "development",
		LogLevel:       "info",
		ImageBackend:   ImageBackendFunction,
		UploadFunction: "upload-to-b2",
		EventTimezone:  "UTC",
		JoinTabRecheck: "@every 1s",
		JoinTabGrace:   time.Hour,
		AllowedOrigins: []string{"http://localhost:3000"},
	}
}

// LoadConfig builds the configuration from defaults, then the YAML file named
// by CONFIG_FILE if any, then environment variables.
func LoadConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	overrideString(&cfg.Port, "PORT")
	overrideString(&cfg.Environment, "ENVIRONMENT")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideString(&cfg.SupabaseURL, "SUPABASE_URL")
	overrideString(&cfg.SupabaseAnonKey, "SUPABASE_URL_ANON_KEY")
	overrideString(&cfg.SupabaseJWTSecret, "SUPABASE_JWT_SECRET")
	overrideString(&cfg.MongoDBURI, "MONGODB_URI")
	overrideString(&cfg.MongoDBPassword, "MONGODB_PASSWORD")
	overrideString(&cfg.ImageBackend, "IMAGE_BACKEND")
	overrideString(&cfg.UploadFunction, "UPLOAD_FUNCTION")
	overrideString(&cfg.CloudinaryCloudName, "CLOUDINARY_CLOUD_NAME")
	overrideString(&cfg.CloudinaryAPIKey, "CLOUDINARY_API_KEY")
	overrideString(&cfg.CloudinaryAPISecret, "CLOUDINARY_API_SECRET")
	overrideString(&cfg.EventTimezone, "EVENT_TIMEZONE")
	overrideString(&cfg.JoinTabRecheck, "JOIN_TAB_RECHECK")

	if v := os.Getenv("JOIN_TAB_GRACE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("JOIN_TAB_GRACE: %w", err)
		}
		cfg.JoinTabGrace = d
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseAnonKey == "" {
		return fmt.Errorf("SUPABASE_URL_ANON_KEY is required")
	}
	if c.MongoDBURI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}
	if c.MongoDBPassword == "" {
		return fmt.Errorf("MONGODB_PASSWORD is required")
	}

	switch c.ImageBackend {
	case ImageBackendFunction:
	case ImageBackendCloudinary:
		if c.CloudinaryCloudName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "" {
			return fmt.Errorf("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required for the cloudinary image backend")
		}
	default:
		return fmt.Errorf("unsupported IMAGE_BACKEND %q (expected %s or %s)", c.ImageBackend, ImageBackendFunction, ImageBackendCloudinary)
	}

	if _, err := time.LoadLocation(c.EventTimezone); err != nil {
		return fmt.Errorf("EVENT_TIMEZONE: %w", err)
	}
	if _, err := cron.ParseStandard(c.JoinTabRecheck); err != nil {
		return fmt.Errorf("JOIN_TAB_RECHECK: %w", err)
	}
	if c.JoinTabGrace < 0 {
		return fmt.Errorf("JOIN_TAB_GRACE must not be negative")
	}
	return nil
}

// Location is the timezone event dates and times are interpreted in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.EventTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func overrideString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
