// Package config resolves server settings from a .env file, an optional YAML
// file and the process environment, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/terraincognita07/jobtrack/internal/ai"
	"github.com/terraincognita07/jobtrack/internal/storage"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigFile = "config.yaml"
	minSecretKeyBytes = 32
)

var (
	ErrSecretKeyMissing = errors.New("SECRET_KEY is required")
	ErrSecretKeyWeak    = errors.New("SECRET_KEY must be at least 32 characters and not a placeholder")
	ErrInvalidPort      = errors.New("PORT must be a number between 1 and 65535")
)

var placeholderSecrets = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
	"your-secret-key":                            {},
	"secret":                                     {},
}

type Config struct {
	Port     string `yaml:"port"`
	DBPath   string `yaml:"db_path"`
	Secret   string `yaml:"secret_key"`
	TimeZone string `yaml:"tz"`

	UploadDir   string `yaml:"upload_dir"`
	MaxUploadMB int    `yaml:"max_upload_mb"`

	StorageType        string `yaml:"storage_type"`
	S3Bucket           string `yaml:"aws_s3_bucket"`
	S3Region           string `yaml:"aws_region"`
	S3Endpoint         string `yaml:"aws_s3_endpoint"`
	AWSAccessKeyID     string `yaml:"aws_access_key_id"`
	AWSSecretAccessKey string `yaml:"aws_secret_access_key"`

	OpenRegistration *bool `yaml:"open_registration"`
	TokenTTLHours    int   `yaml:"token_ttl_hours"`

	GeminiModel     string `yaml:"gemini_model"`
	BlackboxBaseURL string `yaml:"blackbox_base_url"`
	BlackboxModel   string `yaml:"blackbox_model"`

	JobSearchCountries []string `yaml:"job_search_countries"`
	JobSearchWorkers   int      `yaml:"job_search_workers"`
	JobSearchLimit     int      `yaml:"job_search_limit"`

	CORSOrigins string `yaml:"cors_origins"`
}

// Load reads the configuration and validates everything the server needs.
func Load() (Config, error) {
	cfg, err := Read()
	if err != nil {
		return Config{}, err
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read loads .env (optional), the YAML file named by CONFIG_FILE or
// config.yaml when it exists, then applies environment overrides and defaults.
// Operator commands use it directly since they never sign tokens.
func Read() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}
	if err := loadYAML(&cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func loadYAML(cfg *Config) error {
	path := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.Secret = getEnv("SECRET_KEY", cfg.Secret)
	cfg.TimeZone = getEnv("TZ", cfg.TimeZone)
	cfg.UploadDir = getEnv("UPLOAD_DIR", cfg.UploadDir)
	cfg.StorageType = getEnv("STORAGE_TYPE", cfg.StorageType)
	cfg.S3Bucket = getEnv("AWS_S3_BUCKET", cfg.S3Bucket)
	cfg.S3Region = getEnv("AWS_REGION", cfg.S3Region)
	cfg.S3Endpoint = getEnv("AWS_S3_ENDPOINT", cfg.S3Endpoint)
	cfg.AWSAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", cfg.AWSAccessKeyID)
	cfg.AWSSecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", cfg.AWSSecretAccessKey)
	cfg.GeminiModel = getEnv("GEMINI_MODEL", cfg.GeminiModel)
	cfg.BlackboxBaseURL = getEnv("BLACKBOX_BASE_URL", cfg.BlackboxBaseURL)
	cfg.BlackboxModel = getEnv("BLACKBOX_MODEL", cfg.BlackboxModel)
	cfg.CORSOrigins = getEnv("CORS_ORIGINS", cfg.CORSOrigins)

	if raw := os.Getenv("JOB_SEARCH_COUNTRIES"); raw != "" {
		cfg.JobSearchCountries = splitList(raw)
	}

	var err error
	if cfg.MaxUploadMB, err = getEnvInt("MAX_UPLOAD_MB", cfg.MaxUploadMB); err != nil {
		return err
	}
	if cfg.TokenTTLHours, err = getEnvInt("TOKEN_TTL_HOURS", cfg.TokenTTLHours); err != nil {
		return err
	}
	if cfg.JobSearchWorkers, err = getEnvInt("JOB_SEARCH_WORKERS", cfg.JobSearchWorkers); err != nil {
		return err
	}
	if cfg.JobSearchLimit, err = getEnvInt("JOB_SEARCH_LIMIT", cfg.JobSearchLimit); err != nil {
		return err
	}

	if raw := strings.TrimSpace(os.Getenv("OPEN_REGISTRATION")); raw != "" {
		open, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("OPEN_REGISTRATION must be true or false: %w", err)
		}
		cfg.OpenRegistration = &open
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "jobtrack.db")
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = "UTC"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = filepath.Join("data", "uploads")
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 16
	}
	if cfg.StorageType == "" {
		cfg.StorageType = string(storage.TypeLocal)
	}
	if cfg.OpenRegistration == nil {
		open := true
		cfg.OpenRegistration = &open
	}
	if cfg.TokenTTLHours <= 0 {
		cfg.TokenTTLHours = 168
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = ai.DefaultGeminiModel
	}
	if len(cfg.JobSearchCountries) == 0 {
		cfg.JobSearchCountries = []string{"it"}
	}
	if cfg.JobSearchWorkers <= 0 {
		cfg.JobSearchWorkers = 4
	}
	if cfg.JobSearchLimit <= 0 {
		cfg.JobSearchLimit = 50
	}
}

func validate(cfg Config) error {
	if err := ValidateSecretKey(cfg.Secret); err != nil {
		return err
	}
	if _, err := ValidatePort(cfg.Port); err != nil {
		return err
	}
	switch storage.Type(cfg.StorageType) {
	case storage.TypeLocal:
	case storage.TypeS3:
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return errors.New("AWS_S3_BUCKET is required when STORAGE_TYPE is s3")
		}
	default:
		return fmt.Errorf("STORAGE_TYPE must be local or s3, got %q", cfg.StorageType)
	}
	return nil
}

func ValidateSecretKey(secret string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return ErrSecretKeyMissing
	}
	if _, placeholder := placeholderSecrets[strings.ToLower(secret)]; placeholder {
		return ErrSecretKeyWeak
	}
	if len(secret) < minSecretKeyBytes {
		return ErrSecretKeyWeak
	}
	return nil
}

func ValidatePort(raw string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || port < 1 || port > 65535 {
		return 0, ErrInvalidPort
	}
	return port, nil
}

func (cfg Config) RegistrationOpen() bool {
	return cfg.OpenRegistration == nil || *cfg.OpenRegistration
}

func (cfg Config) TokenTTL() time.Duration {
	return time.Duration(cfg.TokenTTLHours) * time.Hour
}

func (cfg Config) MaxUploadBytes() int64 {
	return int64(cfg.MaxUploadMB) * 1024 * 1024
}

func (cfg Config) Storage() storage.Config {
	return storage.Config{
		Type:         storage.Type(cfg.StorageType),
		LocalPath:    cfg.UploadDir,
		S3Bucket:     cfg.S3Bucket,
		S3Region:     cfg.S3Region,
		S3Endpoint:   cfg.S3Endpoint,
		AWSAccessKey: cfg.AWSAccessKeyID,
		AWSSecretKey: cfg.AWSSecretAccessKey,
	}
}

func (cfg Config) AI() ai.Config {
	return ai.Config{
		GeminiModel:     cfg.GeminiModel,
		BlackboxBaseURL: cfg.BlackboxBaseURL,
		BlackboxModel:   cfg.BlackboxModel,
	}
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

func splitList(raw string) []string {
	values := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.ToLower(strings.TrimSpace(part)); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
