package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasterOfBinary/orderflow/config"
	"github.com/MasterOfBinary/orderflow/delay"
	"github.com/MasterOfBinary/orderflow/item"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, delay.Range{Min: 5 * time.Second, Max: 10 * time.Second}, cfg.Producer.Delay)
	assert.Equal(t, delay.Range{Min: 5 * time.Second, Max: 15 * time.Second}, cfg.Transformer.Delay)
	assert.Equal(t, 30*time.Second, cfg.Batcher.Interval)
	assert.Equal(t, uint64(10), cfg.TargetBatches)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"zero target", func(c *config.Config) { c.TargetBatches = 0 }},
		{"inverted order delay", func(c *config.Config) { c.Producer.Delay = delay.Range{Min: time.Second, Max: time.Millisecond} }},
		{"negative prep delay", func(c *config.Config) { c.Transformer.Delay.Min = -time.Second }},
		{"negative interval", func(c *config.Config) { c.Batcher.Interval = -time.Second }},
		{"negative rate limit", func(c *config.Config) { c.Producer.RateLimit = -1 }},
		{"unknown kind", func(c *config.Config) { c.Kinds = []string{"pizza", "taco"} }},
		{"bad log level", func(c *config.Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *config.Config) { c.Log.Format = "xml" }},
		{"bad metrics addr", func(c *config.Config) { c.Metrics.Addr = "nope" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.modify(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestItemKinds(t *testing.T) {
	cfg := config.Default()

	kinds, err := cfg.ItemKinds()
	require.NoError(t, err)
	assert.Nil(t, kinds)

	cfg.Kinds = []string{"Soup", " sushi "}
	kinds, err = cfg.ItemKinds()
	require.NoError(t, err)
	assert.Equal(t, []item.Kind{item.Soup, item.Sushi}, kinds)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.Kinds)
	cfg.Kinds = nil
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orderflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
producer:
  delay:
    min: 10ms
    max: 20ms
batcher:
  interval: 1s
target_batches: 3
kinds: [pizza, soup]
log:
  level: debug
`), 0o600))

	t.Setenv("ORDERFLOW_BATCHER_INTERVAL", "250ms")
	t.Setenv("ORDERFLOW_SEED", "42")

	cfg, err := config.Load(path, viper.New())
	require.NoError(t, err)

	assert.Equal(t, delay.Range{Min: 10 * time.Millisecond, Max: 20 * time.Millisecond}, cfg.Producer.Delay)
	assert.Equal(t, 250*time.Millisecond, cfg.Batcher.Interval)
	assert.Equal(t, uint64(3), cfg.TargetBatches)
	assert.Equal(t, []string{"pizza", "soup"}, cfg.Kinds)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched keys keep their defaults.
	assert.Equal(t, config.Default().Transformer, cfg.Transformer)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orderflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target_batches: 0\n"), 0o600))

	_, err := config.Load(path, nil)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestYAML(t *testing.T) {
	cfg := config.Default()
	cfg.Kinds = []string{"steak"}

	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "interval: 30s")
	assert.Contains(t, string(out), "target_batches: 10")

	// The dump loads back into the same configuration.
	path := filepath.Join(t.TempDir(), "dump.yaml")
	require.NoError(t, os.WriteFile(path, out, 0o600))

	loaded, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
