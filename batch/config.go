package batch

import (
	"fmt"
	"time"
)

// Config holds the Batcher settings.
type Config struct {
	// Interval is how long the Batcher sleeps after each delivered batch.
	// Zero means deliver again as soon as the ready queue is non-empty.
	Interval time.Duration `mapstructure:"interval" yaml:"interval" validate:"gte=0"`
}

// Validate checks if the Config is valid.
func (c Config) Validate() error {
	if c.Interval < 0 {
		return fmt.Errorf("delivery interval %v must not be negative", c.Interval)
	}
	return nil
}
