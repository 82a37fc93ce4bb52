package processor

import (
	"fmt"

	"github.com/MasterOfBinary/orderflow/delay"
)

// Config holds the Transformer settings.
type Config struct {
	// Delay is the range the per-item preparation time is drawn from.
	Delay delay.Range `mapstructure:"delay" yaml:"delay"`
}

// Validate checks if the Config is valid.
func (c Config) Validate() error {
	if err := c.Delay.Validate(); err != nil {
		return fmt.Errorf("transformer delay: %w", err)
	}
	return nil
}
