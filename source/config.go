package source

import (
	"errors"
	"fmt"

	"github.com/MasterOfBinary/orderflow/delay"
)

// Config holds the Producer settings.
type Config struct {
	// Delay is the range the per-item composition delay is drawn from.
	Delay delay.Range `mapstructure:"delay" yaml:"delay"`

	// Limit stops the Producer after it has produced this many items.
	// Zero means no limit.
	Limit uint64 `mapstructure:"limit" yaml:"limit"`

	// RateLimit caps the number of items pushed per second. Zero disables
	// the cap.
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit" validate:"gte=0"`
}

// Validate checks if the Config is valid.
func (c Config) Validate() error {
	if err := c.Delay.Validate(); err != nil {
		return fmt.Errorf("producer delay: %w", err)
	}
	if c.RateLimit < 0 {
		return errors.New("producer rate limit cannot be negative")
	}
	return nil
}
