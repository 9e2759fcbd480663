// Package config loads the process-wide tunables libjoin's core
// components accept: reactor pool size override, thread pool worker
// count, and cache capacity. The format is TOML, parsed with
// github.com/BurntSushi/toml.
package config

import (
	"github.com/BurntSushi/toml"
)

// Config is the top-level tunable set. A zero value means "let the
// package in question pick its own default" (e.g. reactor pool size
// defaults to cpu.Get().Cores() count, thread pool defaults to
// runtime.GOMAXPROCS(0)+1).
type Config struct {
	Reactor    ReactorConfig    `toml:"reactor"`
	ThreadPool ThreadPoolConfig `toml:"threadpool"`
	Cache      CacheConfig      `toml:"cache"`
}

// ReactorConfig tunes the reactor pool.
type ReactorConfig struct {
	// PoolSize overrides the number of reactors in the process-wide pool.
	// 0 means "one reactor per physical core".
	PoolSize int `toml:"pool_size"`
	// PinToCores requests best-effort CPU affinity for each reactor's
	// dispatch goroutine.
	PinToCores bool `toml:"pin_to_cores"`
}

// ThreadPoolConfig tunes the default worker pool.
type ThreadPoolConfig struct {
	// Workers overrides the worker count. 0 means "GOMAXPROCS(0)+1".
	Workers int `toml:"workers"`
}

// CacheConfig tunes the content cache.
type CacheConfig struct {
	// MaxEntries caps the number of distinct file names held concurrently.
	// 0 means unbounded.
	MaxEntries int `toml:"max_entries"`
}

// Default returns a Config with every field at its zero value, i.e. every
// component falls back to its own built-in default.
func Default() Config {
	return Config{}
}

// Load parses a TOML file at path into a Config seeded with Default().
func Load(path string) (Config, error) {
	cfg := Default()
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadString parses TOML text into a Config seeded with Default(), used
// by tests and by callers embedding configuration rather than reading it
// from disk.
func LoadString(text string) (Config, error) {
	cfg := Default()
	_, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
