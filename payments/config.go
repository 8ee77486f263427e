package payments

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	constant "github.com/blackghost1987/payment-engine/payments/constants"
)

// DefaultEnvName is used when ENV_NAME is unset.
const DefaultEnvName = "production"

// ErrInvalidConfig is wrapped by every validation failure of LoadConfig.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the engine settings read from the environment.
type Config struct {
	EnvName         string `env:"ENV_NAME" validate:"oneof=production staging development local"`
	LogLevel        string `env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn warning error"`
	Workers         int    `env:"LEDGER_WORKERS" validate:"gte=1"`
	Sequential      bool   `env:"LEDGER_SEQUENTIAL"`
	OTelLibraryName string `env:"OTEL_LIBRARY_NAME" validate:"required,max=255"`
	TraceParent     string `env:"TRACEPARENT"`
	TraceState      string `env:"TRACESTATE"`
}

// DefaultConfig returns the settings used when no variable is set.
func DefaultConfig() Config {
	return Config{
		EnvName:         DefaultEnvName,
		Workers:         runtime.GOMAXPROCS(0),
		OTelLibraryName: constant.TelemetryLibraryName,
	}
}

// LoadConfig overlays the environment onto DefaultConfig and validates the result.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if err := SetConfigFromEnvVars(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}

	cfg.EnvName = strings.ToLower(cfg.EnvName)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

var (
	configValidator     *validator.Validate
	configValidatorOnce sync.Once
)

func getConfigValidator() *validator.Validate {
	configValidatorOnce.Do(func() {
		vld := validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their environment variable name.
		vld.RegisterTagNameFunc(func(field reflect.StructField) string {
			if name := field.Tag.Get("env"); name != "" {
				return name
			}

			return field.Name
		})

		configValidator = vld
	})

	return configValidator
}

// Validate checks the settings against their allowed values. Only the first
// violation is reported.
func (c Config) Validate() error {
	err := getConfigValidator().Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	fe := validationErrors[0]

	switch fe.Tag() {
	case "oneof":
		return fmt.Errorf("%w: %s must be one of [%s], got %q", ErrInvalidConfig, fe.Field(), fe.Param(), fmt.Sprint(fe.Value()))
	case "required":
		return fmt.Errorf("%w: %s is required", ErrInvalidConfig, fe.Field())
	case "gte":
		return fmt.Errorf("%w: %s must be at least %s", ErrInvalidConfig, fe.Field(), fe.Param())
	case "max":
		return fmt.Errorf("%w: %s must be at most %s characters", ErrInvalidConfig, fe.Field(), fe.Param())
	default:
		return fmt.Errorf("%w: %s failed %s", ErrInvalidConfig, fe.Field(), fe.Tag())
	}
}
