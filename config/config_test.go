package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsZeroValue(t *testing.T) {
	require.Equal(t, Config{}, Default())
}

func TestLoadStringParsesOverrides(t *testing.T) {
	cfg, err := LoadString(`
[reactor]
pool_size = 4
pin_to_cores = true

[threadpool]
workers = 16

[cache]
max_entries = 1000
`)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Reactor.PoolSize)
	require.True(t, cfg.Reactor.PinToCores)
	require.Equal(t, 16, cfg.ThreadPool.Workers)
	require.Equal(t, 1000, cfg.Cache.MaxEntries)
}

func TestLoadStringPartialLeavesRestAtDefault(t *testing.T) {
	cfg, err := LoadString(`
[threadpool]
workers = 4
`)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.ThreadPool.Workers)
	require.Equal(t, 0, cfg.Reactor.PoolSize)
	require.Equal(t, 0, cfg.Cache.MaxEntries)
}

func TestLoadStringRejectsMalformedTOML(t *testing.T) {
	_, err := LoadString("not = [valid")
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/to/config.toml")
	require.Error(t, err)
}
