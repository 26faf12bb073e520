package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, 64, cfg.BufferPoolCapacity)
	assert.False(t, cfg.Debug)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("NOVALITE_BUFFER_POOL_CAPACITY", "128")
	t.Setenv("NOVALITE_DEBUG", "true")

	cfg := Load()
	assert.Equal(t, 128, cfg.BufferPoolCapacity)
	assert.True(t, cfg.Debug)
}
