package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Config holds runtime configuration values for the job board server.
type Config struct {
	DBDriver      string
	DBPath        string
	DatabaseURL   string
	ServerPort    int
	LogLevel      string
	LLMEndpoint   string
	LLMAPIKey     string
	LLMModels     []string
	SentryDSN     string
	Environment   string
	ShutdownGrace time.Duration
	RateLimit     RateLimitConfig
	Session       SessionConfig
	Storage       StorageConfig
	SlugAttempts  int
}

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

// SessionConfig configures login sessions.
type SessionConfig struct {
	TTL          time.Duration
	CookieSecure bool
}

// StorageConfig selects and configures the resume storage backend.
type StorageConfig struct {
	Driver         string
	Path           string
	MaxResumeBytes int64
	S3             S3Config
}

// S3Config holds the settings for an S3-compatible bucket.
type S3Config struct {
	Endpoint       string
	Region         string
	Bucket         string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	StorageLocal = "local"
	StorageS3    = "s3"
)

const (
	defaultDBDriver       = DriverSQLite
	defaultDBPath         = "./data/jobboard.db"
	defaultServerPort     = 8080
	defaultLogLevel       = "info"
	defaultEnvironment    = "development"
	defaultShutdownGrace  = 10 * time.Second
	defaultRateLimitRPS   = 5.0
	defaultRateLimitBurst = 20
	defaultRateLimitTTL   = 10 * time.Minute
	defaultSessionTTL     = 7 * 24 * time.Hour
	defaultStorageDriver  = StorageLocal
	defaultStoragePath    = "./data/uploads"
	defaultS3Region       = "us-east-1"
	defaultResumeMaxBytes = 5 << 20
	defaultSlugAttempts   = 10
)

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", defaultDBDriver)),
		DBPath:        getEnv("DB_PATH", defaultDBPath),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		LogLevel:      getEnv("LOG_LEVEL", defaultLogLevel),
		LLMEndpoint:   os.Getenv("LLM_ENDPOINT"),
		LLMAPIKey:     os.Getenv("LLM_API_KEY"),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		Environment:   getEnv("ENV", defaultEnvironment),
		ShutdownGrace: defaultShutdownGrace,
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", defaultStorageDriver)),
			Path:   getEnv("STORAGE_PATH", defaultStoragePath),
			S3: S3Config{
				Endpoint:  os.Getenv("S3_ENDPOINT"),
				Region:    getEnv("S3_REGION", defaultS3Region),
				Bucket:    os.Getenv("S3_BUCKET"),
				AccessKey: os.Getenv("S3_ACCESS_KEY"),
				SecretKey: os.Getenv("S3_SECRET_KEY"),
			},
		},
	}

	if modelsJSON := os.Getenv("LLM_MODELS"); modelsJSON != "" {
		models, err := parseModels(modelsJSON)
		if err != nil {
			return nil, eris.Wrap(err, "parsing LLM_MODELS")
		}
		cfg.LLMModels = models
	}

	var err error
	if cfg.ServerPort, err = intEnv("SERVER_PORT", defaultServerPort); err != nil {
		return nil, err
	}
	if cfg.RateLimit.RequestsPerSecond, err = floatEnv("RATE_LIMIT_RPS", defaultRateLimitRPS); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Burst, err = intEnv("RATE_LIMIT_BURST", defaultRateLimitBurst); err != nil {
		return nil, err
	}
	if cfg.RateLimit.ClientTTL, err = durationEnv("RATE_LIMIT_CLIENT_TTL", defaultRateLimitTTL); err != nil {
		return nil, err
	}
	if cfg.Session.TTL, err = durationEnv("SESSION_TTL", defaultSessionTTL); err != nil {
		return nil, err
	}
	if cfg.Session.CookieSecure, err = boolEnv("COOKIE_SECURE", false); err != nil {
		return nil, err
	}
	if cfg.Storage.S3.ForcePathStyle, err = boolEnv("S3_FORCE_PATH_STYLE", false); err != nil {
		return nil, err
	}
	maxResume, err := intEnv("RESUME_MAX_BYTES", defaultResumeMaxBytes)
	if err != nil {
		return nil, err
	}
	cfg.Storage.MaxResumeBytes = int64(maxResume)
	if cfg.SlugAttempts, err = intEnv("SLUG_MAX_ATTEMPTS", defaultSlugAttempts); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return eris.New("DATABASE_URL is required when DB_DRIVER is postgres")
		}
	default:
		return eris.Errorf("unsupported DB_DRIVER value: %s", c.DBDriver)
	}

	switch c.Storage.Driver {
	case StorageLocal:
	case StorageS3:
		if strings.TrimSpace(c.Storage.S3.Bucket) == "" {
			return eris.New("S3_BUCKET is required when STORAGE_DRIVER is s3")
		}
	default:
		return eris.Errorf("unsupported STORAGE_DRIVER value: %s", c.Storage.Driver)
	}

	if c.Storage.MaxResumeBytes <= 0 {
		return eris.New("RESUME_MAX_BYTES must be greater than zero")
	}

	if c.SlugAttempts <= 0 {
		return eris.New("SLUG_MAX_ATTEMPTS must be greater than zero")
	}

	return nil
}

// SuggesterEnabled reports whether enough LLM settings are present to build the search suggester.
func (c *Config) SuggesterEnabled() bool {
	return strings.TrimSpace(c.LLMAPIKey) != "" && len(c.LLMModels) > 0
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := getEnv(key, strconv.Itoa(fallback))
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, eris.Wrapf(err, "invalid %s value: %s", key, raw)
	}
	return value, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	raw := getEnv(key, strconv.FormatFloat(fallback, 'f', -1, 64))
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "invalid %s value: %s", key, raw)
	}
	return value, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, fallback.String())
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, eris.Wrapf(err, "invalid %s value: %s", key, raw)
	}
	return value, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	raw := getEnv(key, strconv.FormatBool(fallback))
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, eris.Wrapf(err, "invalid %s value: %s", key, raw)
	}
	return value, nil
}

func parseModels(raw string) ([]string, error) {
	// Accept either a JSON array of strings or an object with a `models` field.
	var arrayInput []string
	if err := json.Unmarshal([]byte(raw), &arrayInput); err == nil {
		return arrayInput, nil
	}

	var objectInput struct {
		Models []string `json:"models"`
	}
	if err := json.Unmarshal([]byte(raw), &objectInput); err != nil {
		return nil, eris.Wrap(err, "decoding JSON")
	}

	if len(objectInput.Models) == 0 {
		return nil, eris.New("models list is empty")
	}

	return objectInput.Models, nil
}
