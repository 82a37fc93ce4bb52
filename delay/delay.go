// Package delay supplies the durations the pipeline actors sleep for.
//
// A Policy is asked for one duration per sleep. Uniform draws durations
// uniformly from a Range, which is how order composition and preparation
// times are modeled. Fixed always returns the same duration, which is how
// the delivery interval is modeled and what tests use to make runs fast
// and repeatable.
package delay

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// Range is an inclusive range of durations.
type Range struct {
	// Min is the shortest duration that may be drawn.
	Min time.Duration `mapstructure:"min" yaml:"min" validate:"gte=0"`

	// Max is the longest duration that may be drawn. It must not be less
	// than Min.
	Max time.Duration `mapstructure:"max" yaml:"max" validate:"gte=0,gtefield=Min"`
}

// Validate checks that the range is non-negative and ordered.
func (r Range) Validate() error {
	if r.Min < 0 || r.Max < 0 {
		return fmt.Errorf("delay range [%v, %v] must not be negative", r.Min, r.Max)
	}
	if r.Max < r.Min {
		return fmt.Errorf("delay range max %v is less than min %v", r.Max, r.Min)
	}
	return nil
}

// String implements fmt.Stringer.
func (r Range) String() string {
	return fmt.Sprintf("[%v, %v]", r.Min, r.Max)
}

// Policy returns the next duration to sleep for.
type Policy interface {
	Next() time.Duration
}

// Fixed is a Policy that always returns the same duration.
type Fixed time.Duration

// Next implements Policy.
func (f Fixed) Next() time.Duration {
	return time.Duration(f)
}

// Uniform is a Policy that draws durations uniformly from a Range. It is
// safe for concurrent use.
type Uniform struct {
	r Range

	mu  sync.Mutex
	rng *rand.Rand
}

// NewUniform returns a Uniform policy over r. If rng is nil, a randomly
// seeded generator is used. The range is not validated here; callers check
// it through their config's Validate.
func NewUniform(r Range, rng *rand.Rand) *Uniform {
	if rng == nil {
		rng = NewRand(0)
	}
	return &Uniform{r: r, rng: rng}
}

// Next implements Policy.
func (u *Uniform) Next() time.Duration {
	span := u.r.Max - u.r.Min
	if span <= 0 {
		return u.r.Min
	}

	u.mu.Lock()
	n := u.rng.Int64N(int64(span) + 1)
	u.mu.Unlock()

	return u.r.Min + time.Duration(n)
}

// Range returns the range the policy draws from.
func (u *Uniform) Range() Range {
	return u.r
}

// NewRand returns a PCG-backed generator. A zero seed picks a random seed,
// any other value gives a repeatable sequence.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
