package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override, e.g. STATUSGO_APP__JWT_SECRET.
	EnvPrefix = "STATUSGO_"
	// ConfigPathEnv points at an explicit yaml config file.
	ConfigPathEnv = "STATUSGO_CONFIG"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via the config file or the environment.
type AppConfig struct {
	App      AppSection      `koanf:"app"`
	Database DatabaseSection `koanf:"database"`
	Redis    RedisSection    `koanf:"redis"`
	Log      LogSection      `koanf:"log"`
	Upload   UploadSection   `koanf:"upload"`
	Feed     FeedSection     `koanf:"feed"`
}

type AppSection struct {
	Port               string        `koanf:"port"`
	JWTSecret          string        `koanf:"jwt_secret"`
	TokenTTL           time.Duration `koanf:"token_ttl"`
	RateLimitPerMinute int           `koanf:"rate_limit_per_minute"`
	AllowedOrigins     []string      `koanf:"allowed_origins"`
	AdminEmails        []string      `koanf:"admin_emails"`
	GinMode            string        `koanf:"gin_mode"`
}

type DatabaseSection struct {
	DSN          string `koanf:"dsn"`
	Host         string `koanf:"host"`
	Port         string `koanf:"port"`
	User         string `koanf:"user"`
	Password     string `koanf:"password"`
	Name         string `koanf:"name"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxOpenConns int    `koanf:"max_open_conns"`
}

// RedisSection is optional; an empty Addr disables redis and the in-memory fallbacks are used.
type RedisSection struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type LogSection struct {
	Level      string `koanf:"level"`
	Path       string `koanf:"path"`
	GinPath    string `koanf:"gin_path"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

// UploadSection selects the attachment sink. Driver is "local" or "s3".
type UploadSection struct {
	Driver         string `koanf:"driver"`
	Dir            string `koanf:"dir"`
	PublicBaseURL  string `koanf:"public_base_url"`
	MaxSizeMB      int    `koanf:"max_size_mb"`
	S3Bucket       string `koanf:"s3_bucket"`
	S3Region       string `koanf:"s3_region"`
	S3Endpoint     string `koanf:"s3_endpoint"`
	S3AccessKey    string `koanf:"s3_access_key"`
	S3SecretKey    string `koanf:"s3_secret_key"`
	S3UsePathStyle bool   `koanf:"s3_use_path_style"`
}

type FeedSection struct {
	SuggestedWindowHours int `koanf:"suggested_window_hours"`
}

// SuggestedWindow is the look-back window of the trending feed.
func (f FeedSection) SuggestedWindow() time.Duration {
	return time.Duration(f.SuggestedWindowHours) * time.Hour
}

func defaults() AppConfig {
	return AppConfig{
		App: AppSection{
			Port:               "3000",
			TokenTTL:           24 * time.Hour,
			RateLimitPerMinute: 120,
			AllowedOrigins:     []string{"*"},
			GinMode:            "release",
		},
		Database: DatabaseSection{
			Host:         "127.0.0.1",
			Port:         "3306",
			MaxIdleConns: 5,
			MaxOpenConns: 20,
		},
		Log: LogSection{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Upload: UploadSection{
			Driver:        "local",
			Dir:           filepath.Join("static", "uploads"),
			PublicBaseURL: "/static/uploads",
			MaxSizeMB:     50,
			S3Region:      "auto",
		},
		Feed: FeedSection{
			SuggestedWindowHours: 7 * 24,
		},
	}
}

// sliceKeys are accepted as comma separated strings when they come from the environment.
var sliceKeys = []string{"app.allowed_origins", "app.admin_emails"}

// Load builds the configuration. Precedence: defaults -> yaml file -> environment variables.
// An empty path falls back to $STATUSGO_CONFIG and then config/config.yaml; a missing file is ignored.
func Load(path string) (AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return AppConfig{}, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	if path == "" {
		path = filepath.Join("config", "config.yaml")
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return AppConfig{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return AppConfig{}, fmt.Errorf("load env: %w", err)
	}

	for _, key := range sliceKeys {
		if s, ok := k.Get(key).(string); ok {
			parts := splitList(s)
			if err := k.Set(key, parts); err != nil {
				return AppConfig{}, fmt.Errorf("set %s: %w", key, err)
			}
		}
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c AppConfig) Validate() error {
	if strings.TrimSpace(c.App.JWTSecret) == "" {
		return errors.New("app.jwt_secret must be set (STATUSGO_APP__JWT_SECRET)")
	}
	switch c.Upload.Driver {
	case "local":
	case "s3":
		if c.Upload.S3Bucket == "" {
			return errors.New("upload.s3_bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown upload driver %q", c.Upload.Driver)
	}
	if c.Feed.SuggestedWindowHours <= 0 {
		return errors.New("feed.suggested_window_hours must be positive")
	}
	return nil
}

// envKey maps STATUSGO_APP__JWT_SECRET to app.jwt_secret.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
