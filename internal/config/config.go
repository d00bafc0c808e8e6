package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds everything the worker reads from the environment.
// The mapstructure tags are the environment variable names.
const (
	StorageLocal = "local"
	StorageR2    = "r2"
)

type Config struct {
	DBURL       string `mapstructure:"DB_URL"`
	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GoogleAPIKey string `mapstructure:"GOOGLE_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"` // pins the model and skips the catalog

	FileStorage   string `mapstructure:"FILE_STORAGE"` // "local" or "r2"
	UploadDir     string `mapstructure:"UPLOAD_DIR"`
	R2AccountID   string `mapstructure:"R2_ACCCOUNT_ID"`
	R2Bucket      string `mapstructure:"R2_BUCKET"`
	R2AccessKey   string `mapstructure:"R2_ACCESS_KEY"`
	R2SecretKey   string `mapstructure:"R2_SECRET_KEY"`
	OCRLanguage   string `mapstructure:"OCR_LANGUAGE"`
	TesseractPath string `mapstructure:"TESSERACT_PATH"`

	WorkerCount        int           `mapstructure:"WORKER_COUNT"`
	ModelRetryAttempts uint          `mapstructure:"MODEL_RETRY_ATTEMPTS"`
	ModelRetryDelay    time.Duration `mapstructure:"MODEL_RETRY_DELAY"`
	ModelCheckTimeout  time.Duration `mapstructure:"MODEL_CHECK_TIMEOUT"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

var defaults = map[string]any{
	"FILE_STORAGE":         "local",
	"UPLOAD_DIR":           "uploads",
	"OCR_LANGUAGE":         "eng",
	"TESSERACT_PATH":       "tesseract",
	"WORKER_COUNT":         3,
	"MODEL_RETRY_ATTEMPTS": 2,
	"MODEL_RETRY_DELAY":    "500ms",
	"MODEL_CHECK_TIMEOUT":  "2500ms",
	"LOG_LEVEL":            "info",
	"LOG_FORMAT":           "text",
}

var keys = []string{
	"DB_URL", "RABBITMQ_URL", "GEMINI_API_KEY", "GOOGLE_API_KEY", "GEMINI_MODEL",
	"R2_ACCCOUNT_ID", "R2_BUCKET", "R2_ACCESS_KEY", "R2_SECRET_KEY",
}

// Load reads an optional .env file, then the process environment.
func Load(envFiles ...string) (Config, error) {
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return Config{}, errors.Wrapf(err, "binding %s", k)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// APIKey returns the Gemini credential, preferring GEMINI_API_KEY.
// An empty result is valid: the worker then runs on offline defaults.
func (c Config) APIKey() string {
	if c.GeminiAPIKey != "" {
		return c.GeminiAPIKey
	}
	return c.GoogleAPIKey
}

// UseR2 reports whether artifacts live in the R2 bucket rather than UploadDir.
func (c Config) UseR2() bool {
	return strings.EqualFold(c.FileStorage, StorageR2)
}

func (c Config) Validate() error {
	if c.DBURL == "" {
		return errors.New("empty DB_URL in environment")
	}
	if c.RabbitMQURL == "" {
		return errors.New("empty RABBITMQ_URL in environment")
	}
	switch strings.ToLower(c.FileStorage) {
	case StorageLocal:
	case StorageR2:
		for _, v := range []struct{ name, val string }{
			{"R2_ACCCOUNT_ID", c.R2AccountID},
			{"R2_BUCKET", c.R2Bucket},
			{"R2_ACCESS_KEY", c.R2AccessKey},
			{"R2_SECRET_KEY", c.R2SecretKey},
		} {
			if v.val == "" {
				return errors.Errorf("empty %s in environment", v.name)
			}
		}
	default:
		return errors.Errorf("unknown FILE_STORAGE %q", c.FileStorage)
	}
	if c.WorkerCount < 1 {
		return errors.New("WORKER_COUNT must be at least 1")
	}
	return nil
}
