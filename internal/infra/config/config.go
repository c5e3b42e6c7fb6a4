package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	DefaultPracticumEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultPollSchedule      = "@every 10m"
	DefaultRequestTimeout    = 30 * time.Second
	DefaultLogFile           = "homework.log"
	DefaultLogMaxSizeMB      = 50
	DefaultLogMaxBackups     = 5
)

// ErrMissingCredentials is returned when any of the tokens or the chat ID is absent.
// The bot cannot run without all three.
var ErrMissingCredentials = errors.New("missing required credentials")

// ErrInvalidConfig is returned for values that are present but unusable.
var ErrInvalidConfig = errors.New("invalid configuration")

// AppConfig holds all configuration for the application
type AppConfig struct {
	PracticumToken    string        `env:"PRACTICUM_TOKEN" validate:"required"`
	TelegramToken     string        `env:"TELEGRAM_TOKEN" validate:"required"`
	TelegramChatID    int64         `env:"TELEGRAM_CHAT_ID" validate:"required"`
	PracticumEndpoint string        `env:"PRACTICUM_ENDPOINT" validate:"required,url"`
	PollSchedule      string        `env:"POLL_SCHEDULE" validate:"required,cronspec"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" validate:"gt=0s"`
	LogLevel          string        `env:"LOG_LEVEL" validate:"oneof=trace debug info warn warning error fatal panic"`
	Environment       string        `env:"ENVIRONMENT"`
	LogFile           string        `env:"LOG_FILE" validate:"required"`
	LogMaxSizeMB      int           `env:"LOG_MAX_SIZE_MB" validate:"min=1"`
	LogMaxBackups     int           `env:"LOG_MAX_BACKUPS" validate:"min=0"`
}

// credentialFields are reported as ErrMissingCredentials rather than ErrInvalidConfig.
var credentialFields = map[string]bool{
	"PRACTICUM_TOKEN":  true,
	"TELEGRAM_TOKEN":   true,
	"TELEGRAM_CHAT_ID": true,
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	return FromEnv(os.Getenv)
}

// FromEnv builds and validates the config from a lookup function.
func FromEnv(getenv func(string) string) (*AppConfig, error) {
	cfg := &AppConfig{
		PracticumToken:    strings.TrimSpace(getenv("PRACTICUM_TOKEN")),
		TelegramToken:     strings.TrimSpace(getenv("TELEGRAM_TOKEN")),
		PracticumEndpoint: getenv("PRACTICUM_ENDPOINT"),
		PollSchedule:      getenv("POLL_SCHEDULE"),
		LogLevel:          strings.ToLower(getenv("LOG_LEVEL")),
		Environment:       strings.ToLower(getenv("ENVIRONMENT")),
		LogFile:           getenv("LOG_FILE"),
	}
	var err error

	if chatIDStr := strings.TrimSpace(getenv("TELEGRAM_CHAT_ID")); chatIDStr != "" {
		cfg.TelegramChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid TELEGRAM_CHAT_ID: %v", ErrInvalidConfig, err)
		}
	}

	if cfg.PracticumEndpoint == "" {
		cfg.PracticumEndpoint = DefaultPracticumEndpoint
	}
	if cfg.PollSchedule == "" {
		cfg.PollSchedule = DefaultPollSchedule
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFile
	}

	cfg.RequestTimeout = DefaultRequestTimeout
	if s := getenv("REQUEST_TIMEOUT"); s != "" {
		cfg.RequestTimeout, err = time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid REQUEST_TIMEOUT: %v", ErrInvalidConfig, err)
		}
	}

	cfg.LogMaxSizeMB, err = intOrDefault(getenv, "LOG_MAX_SIZE_MB", DefaultLogMaxSizeMB)
	if err != nil {
		return nil, err
	}
	cfg.LogMaxBackups, err = intOrDefault(getenv, "LOG_MAX_BACKUPS", DefaultLogMaxBackups)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Schedule parses PollSchedule into a cron schedule.
func (c *AppConfig) Schedule() (cron.Schedule, error) {
	return cron.ParseStandard(c.PollSchedule)
}

// Validate checks the config. All missing credentials are reported in one error.
func (c *AppConfig) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	_ = validate.RegisterValidation("cronspec", func(fl validator.FieldLevel) bool {
		_, err := cron.ParseStandard(fl.Field().String())
		return err == nil
	})

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var missing, invalid []string
	for _, fe := range verrs {
		if credentialFields[fe.Field()] && fe.Tag() == "required" {
			missing = append(missing, fe.Field())
			continue
		}
		invalid = append(invalid, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(invalid, ", "))
}

func intOrDefault(getenv func(string) string, key string, def int) (int, error) {
	s := getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s: %v", ErrInvalidConfig, key, err)
	}
	return v, nil
}
