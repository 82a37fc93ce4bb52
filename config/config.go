// Package config loads and validates the static configuration of an
// orderflow run. Configuration is read once at startup and never reloaded.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/MasterOfBinary/orderflow/batch"
	"github.com/MasterOfBinary/orderflow/delay"
	"github.com/MasterOfBinary/orderflow/item"
	"github.com/MasterOfBinary/orderflow/processor"
	"github.com/MasterOfBinary/orderflow/source"
)

// ErrInvalid is wrapped by every error Validate returns.
var ErrInvalid = errors.New("invalid configuration")

// Default values.
const (
	DefaultOrderMin      = 5 * time.Second
	DefaultOrderMax      = 10 * time.Second
	DefaultPrepMin       = 5 * time.Second
	DefaultPrepMax       = 15 * time.Second
	DefaultInterval      = 30 * time.Second
	DefaultTargetBatches = 10
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

// Config is the complete configuration of one pipeline run.
type Config struct {
	Producer    source.Config    `mapstructure:"producer" yaml:"producer"`
	Transformer processor.Config `mapstructure:"transformer" yaml:"transformer"`
	Batcher     batch.Config     `mapstructure:"batcher" yaml:"batcher"`

	// TargetBatches is the number of delivered batches after which the
	// pipeline shuts down.
	TargetBatches uint64 `mapstructure:"target_batches" yaml:"target_batches" validate:"gt=0"`

	// Kinds restricts the item kinds the Producer picks from. Empty means
	// all kinds.
	Kinds []string `mapstructure:"kinds" yaml:"kinds,omitempty" validate:"dive,required"`

	// Seed makes the random delays and kind choices repeatable. Zero picks
	// a random seed.
	Seed uint64 `mapstructure:"seed" yaml:"seed"`

	Log     Log     `mapstructure:"log" yaml:"log"`
	Metrics Metrics `mapstructure:"metrics" yaml:"metrics"`
	Tracing Tracing `mapstructure:"tracing" yaml:"tracing"`
}

// Log configures the process logger.
type Log struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=text json"`
}

// Metrics configures the Prometheus endpoint.
type Metrics struct {
	// Addr is the listen address of the /metrics server. Empty disables it.
	Addr      string `mapstructure:"addr" yaml:"addr,omitempty" validate:"omitempty,hostname_port"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
}

// Tracing configures the OpenTelemetry exporter.
type Tracing struct {
	// Endpoint is the OTLP gRPC collector address. Empty disables tracing.
	Endpoint    string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	Insecure    bool   `mapstructure:"insecure" yaml:"insecure"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
}

// Default returns the restaurant timings: an order every 5-10s, preparation
// in 5-15s, a delivery every 30s, and shutdown after 10 deliveries.
func Default() Config {
	return Config{
		Producer: source.Config{
			Delay: delay.Range{Min: DefaultOrderMin, Max: DefaultOrderMax},
		},
		Transformer: processor.Config{
			Delay: delay.Range{Min: DefaultPrepMin, Max: DefaultPrepMax},
		},
		Batcher: batch.Config{
			Interval: DefaultInterval,
		},
		TargetBatches: DefaultTargetBatches,
		Log: Log{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Metrics: Metrics{
			Namespace: "orderflow",
		},
		Tracing: Tracing{
			ServiceName: "orderflow",
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags and then each component's own rules.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	checks := []func() error{
		c.Producer.Validate,
		c.Transformer.Validate,
		c.Batcher.Validate,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}

	if _, err := c.ItemKinds(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// ItemKinds parses Kinds. It returns nil if Kinds is empty.
func (c Config) ItemKinds() ([]item.Kind, error) {
	if len(c.Kinds) == 0 {
		return nil, nil
	}

	kinds := make([]item.Kind, 0, len(c.Kinds))
	for _, name := range c.Kinds {
		k, err := item.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// YAML returns the configuration as a YAML document. Durations are written
// in time.Duration string form, so the output can be loaded again.
func (c Config) YAML() ([]byte, error) {
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)

	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return []byte(sb.String()), nil
}
