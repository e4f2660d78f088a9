package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up in the working directory and its parents
const ConfigFileName = "portal.yaml"

// Config holds all configuration for the portal binaries
type Config struct {
	// Backend endpoints consumed by the client
	API APIConfig `yaml:"api"`

	// Persisted credential storage
	Keyring KeyringConfig `yaml:"keyring"`

	// Server-rendered public pages
	Web WebConfig `yaml:"web"`

	// Development fake of the backend
	DevAPI DevAPIConfig `yaml:"devapi"`

	// Logging Configuration
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig holds the backend base URLs
type APIConfig struct {
	AuthURL   string        `yaml:"auth_url" validate:"required,url"`
	PublicURL string        `yaml:"public_url" validate:"required,url"`
	Timeout   time.Duration `yaml:"timeout" validate:"gte=0"` // 0 disables the client timeout
}

// KeyringConfig names the OS keyring service the token is stored under
type KeyringConfig struct {
	Service string `yaml:"service" validate:"required"`
}

// WebConfig holds web front configuration
type WebConfig struct {
	Addr         string   `yaml:"addr" validate:"required"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// DevAPIConfig holds configuration of the development API
type DevAPIConfig struct {
	Addr           string `yaml:"addr" validate:"required"`
	JWTSecret      string `yaml:"jwt_secret" validate:"required,min=16"`
	Envelope       string `yaml:"envelope" validate:"oneof=enveloped bare mixed"`
	AdminEmail     string `yaml:"admin_email" validate:"required,email"`
	AdminPassword  string `yaml:"admin_password" validate:"required"`
	EditorEmail    string `yaml:"editor_email" validate:"required,email"`
	EditorPassword string `yaml:"editor_password" validate:"required"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		API: APIConfig{
			AuthURL:   "http://localhost:8080/api/auth",
			PublicURL: "http://localhost:8080/api",
		},
		Keyring: KeyringConfig{
			Service: "traffic-portal",
		},
		Web: WebConfig{
			Addr:         ":3000",
			AllowOrigins: []string{"http://localhost:5173"},
		},
		DevAPI: DevAPIConfig{
			Addr:           ":8080",
			JWTSecret:      "dev-secret-change-me-please",
			Envelope:       "enveloped",
			AdminEmail:     "admin@example.com",
			AdminPassword:  "admin",
			EditorEmail:    "editor@example.com",
			EditorPassword: "editor",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load loads .env files, the nearest portal.yaml (if any) and environment overrides
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	path, err := FindConfigFile()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	return LoadFile(path)
}

// LoadFile builds the configuration from defaults, the YAML file at path
// (skipped when path is empty) and environment variables, in that order.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration against its struct tags
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.API.AuthURL, "PORTAL_AUTH_URL")
	setString(&cfg.API.PublicURL, "PORTAL_PUBLIC_URL")
	if v := os.Getenv("PORTAL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid PORTAL_TIMEOUT %q: %w", v, err)
		}
		cfg.API.Timeout = d
	}

	setString(&cfg.Keyring.Service, "PORTAL_KEYRING_SERVICE")

	setString(&cfg.Web.Addr, "PORTAL_WEB_ADDR")
	if v := os.Getenv("PORTAL_WEB_ALLOW_ORIGINS"); v != "" {
		cfg.Web.AllowOrigins = strings.Split(v, ",")
	}

	setString(&cfg.DevAPI.Addr, "DEVAPI_ADDR")
	setString(&cfg.DevAPI.JWTSecret, "DEVAPI_JWT_SECRET")
	setString(&cfg.DevAPI.Envelope, "DEVAPI_ENVELOPE")
	setString(&cfg.DevAPI.AdminEmail, "DEVAPI_ADMIN_EMAIL")
	setString(&cfg.DevAPI.AdminPassword, "DEVAPI_ADMIN_PASSWORD")
	setString(&cfg.DevAPI.EditorEmail, "DEVAPI_EDITOR_EMAIL")
	setString(&cfg.DevAPI.EditorPassword, "DEVAPI_EDITOR_PASSWORD")

	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.Format, "LOG_FORMAT")

	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// FindConfigFile searches for portal.yaml in current directory and parent directories.
// It returns an error wrapping os.ErrNotExist when no file is found.
func FindConfigFile() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	dir := currentDir
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%s not found in %s or any parent directory: %w", ConfigFileName, currentDir, os.ErrNotExist)
}
