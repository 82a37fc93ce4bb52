package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables Load reads, for
// example ORDERFLOW_BATCHER_INTERVAL=1s.
const EnvPrefix = "ORDERFLOW"

// Load builds a Config from defaults, the YAML file at path (if path is not
// empty), and ORDERFLOW_* environment variables, in increasing order of
// precedence. Flags bound to v by the caller take precedence over all of
// them. A nil v uses a fresh viper instance.
//
// The returned Config has been validated.
func Load(path string, v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// appear in neither the file nor the flags.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("producer.delay.min", d.Producer.Delay.Min)
	v.SetDefault("producer.delay.max", d.Producer.Delay.Max)
	v.SetDefault("producer.limit", d.Producer.Limit)
	v.SetDefault("producer.rate_limit", d.Producer.RateLimit)
	v.SetDefault("transformer.delay.min", d.Transformer.Delay.Min)
	v.SetDefault("transformer.delay.max", d.Transformer.Delay.Max)
	v.SetDefault("batcher.interval", d.Batcher.Interval)
	v.SetDefault("target_batches", d.TargetBatches)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.insecure", d.Tracing.Insecure)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)

	// No default: an empty list means all kinds.
	_ = v.BindEnv("kinds")
}
