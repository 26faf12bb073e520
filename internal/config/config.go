// Package config is the engine's environment-variable configuration,
// adapted from the teacher's file-based internal.LoadConfig: same library,
// but sourced from NOVALITE_-prefixed environment variables rather than a
// YAML file, since nothing here persists across invocations.
package config

import "github.com/spf13/viper"

// Config holds the engine's tunables. Everything has a usable default, so
// the zero-environment case just works.
type Config struct {
	BufferPoolCapacity int  `mapstructure:"buffer_pool_capacity"`
	Debug              bool `mapstructure:"debug"`
}

// Load reads NOVALITE_BUFFER_POOL_CAPACITY and NOVALITE_DEBUG from the
// environment, falling back to defaults for anything unset.
func Load() Config {
	v := viper.New()
	v.SetEnvPrefix("NOVALITE")
	v.AutomaticEnv()

	v.SetDefault("buffer_pool_capacity", 64)
	v.SetDefault("debug", false)

	return Config{
		BufferPoolCapacity: v.GetInt("buffer_pool_capacity"),
		Debug:              v.GetBool("debug"),
	}
}
