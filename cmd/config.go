package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"foodrelay/internal/adapters/out/nominatim"
	"foodrelay/internal/adapters/out/telegram"
	"foodrelay/internal/core/application/dispatch"
	"foodrelay/internal/core/application/routing"
	"foodrelay/internal/jobs"
	"foodrelay/internal/pkg/errs"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	MessengerTelegram = "telegram"
	MessengerKafka    = "kafka"
	MessengerConsole  = "console"
)

type Config struct {
	HTTPPort string
	LogLevel string

	StorageDriver string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSslMode     string

	MessengerDriver        string
	TelegramBotToken       string
	TelegramAPIURL         string
	TelegramTimeout        time.Duration
	KafkaHost              string
	KafkaNotificationTopic string

	DispatchInterval    time.Duration
	DispatchBatchSize   int
	DispatchMaxAttempts int
	DispatchRetryDelay  time.Duration

	GeocoderURL           string
	GeocoderUserAgent     string
	GeocoderCountry       string
	GeocoderCourtesyDelay time.Duration
	GeocoderTimeout       time.Duration
	RouteMaxStops         int
}

// LoadConfig reads the process environment. Variables from the given .env
// files (".env" when none is named) fill in what the environment does not
// set; a missing file is not an error.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return ConfigFromEnv(os.LookupEnv)
}

// ConfigFromEnv builds a Config from lookup, applying defaults for unset keys.
func ConfigFromEnv(lookup func(string) (string, bool)) (Config, error) {
	r := envReader{lookup: lookup}
	dispatchDefaults := dispatch.DefaultConfig()

	cfg := Config{
		HTTPPort: r.str("HTTP_PORT", "8080"),
		LogLevel: r.str("LOG_LEVEL", "info"),

		StorageDriver: strings.ToLower(r.str("STORAGE_DRIVER", StoragePostgres)),
		DBHost:        r.str("DB_HOST", "localhost"),
		DBPort:        r.str("DB_PORT", "5432"),
		DBUser:        r.str("DB_USER", "postgres"),
		DBPassword:    r.str("DB_PASSWORD", ""),
		DBName:        r.str("DB_NAME", "foodrelay"),
		DBSslMode:     r.str("DB_SSLMODE", "disable"),

		MessengerDriver:        strings.ToLower(r.str("MESSENGER_DRIVER", MessengerConsole)),
		TelegramBotToken:       r.str("TELEGRAM_BOT_TOKEN", ""),
		TelegramAPIURL:         r.str("TELEGRAM_API_URL", telegram.DefaultAPIURL),
		TelegramTimeout:        r.duration("TELEGRAM_TIMEOUT", telegram.DefaultTimeout),
		KafkaHost:              r.str("KAFKA_HOST", "localhost:9092"),
		KafkaNotificationTopic: r.str("KAFKA_NOTIFICATION_TOPIC", "group_notifications"),

		DispatchInterval:    r.duration("DISPATCH_INTERVAL", jobs.DefaultDrainInterval),
		DispatchBatchSize:   r.integer("DISPATCH_BATCH_SIZE", dispatchDefaults.BatchSize),
		DispatchMaxAttempts: r.integer("DISPATCH_MAX_ATTEMPTS", dispatchDefaults.MaxAttempts),
		DispatchRetryDelay:  r.duration("DISPATCH_RETRY_DELAY", dispatchDefaults.RetryDelay),

		GeocoderURL:           r.str("GEOCODER_URL", nominatim.DefaultBaseURL),
		GeocoderUserAgent:     r.str("GEOCODER_USER_AGENT", nominatim.DefaultUserAgent),
		GeocoderCountry:       r.str("GEOCODER_COUNTRY", nominatim.DefaultCountryCode),
		GeocoderCourtesyDelay: r.duration("GEOCODER_COURTESY_DELAY", nominatim.DefaultCourtesyDelay),
		GeocoderTimeout:       r.duration("GEOCODER_TIMEOUT", nominatim.DefaultTimeout),
		RouteMaxStops:         r.integer("ROUTE_MAX_STOPS", routing.DefaultMaxStops),
	}

	if err := errors.Join(append(r.errs, cfg.validate())...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var problems []error

	switch c.StorageDriver {
	case StorageMemory, StoragePostgres:
	default:
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("STORAGE_DRIVER",
			fmt.Errorf("%q is not one of %s, %s", c.StorageDriver, StorageMemory, StoragePostgres)))
	}

	switch c.MessengerDriver {
	case MessengerTelegram:
		if c.TelegramBotToken == "" {
			problems = append(problems, errs.NewValueIsRequiredError("TELEGRAM_BOT_TOKEN"))
		}
	case MessengerKafka, MessengerConsole:
	default:
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("MESSENGER_DRIVER",
			fmt.Errorf("%q is not one of %s, %s, %s",
				c.MessengerDriver, MessengerTelegram, MessengerKafka, MessengerConsole)))
	}

	return errors.Join(problems...)
}

// DSN is the Postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// DispatchConfig is the dispatcher part of the configuration.
func (c Config) DispatchConfig() dispatch.Config {
	return dispatch.Config{
		BatchSize:   c.DispatchBatchSize,
		MaxAttempts: c.DispatchMaxAttempts,
		RetryDelay:  c.DispatchRetryDelay,
	}
}

// GeocoderConfig is the geocoder part of the configuration.
func (c Config) GeocoderConfig() nominatim.Config {
	return nominatim.Config{
		BaseURL:       c.GeocoderURL,
		UserAgent:     c.GeocoderUserAgent,
		CountryCode:   c.GeocoderCountry,
		CourtesyDelay: c.GeocoderCourtesyDelay,
		Timeout:       c.GeocoderTimeout,
	}
}

// envReader collects parse errors so all bad keys are reported at once.
type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *envReader) str(key, def string) string {
	if v, ok := r.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (r *envReader) integer(key string, def int) int {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.errs = append(r.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return def
	}
	return v
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		r.errs = append(r.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return def
	}
	return v
}
