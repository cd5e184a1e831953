package config

import "sync"

// Live holds the current configuration for readers on other goroutines
// while a Watcher replaces it.
type Live struct {
	mu  sync.RWMutex
	cfg Config
}

// NewLive starts with cfg.
func NewLive(cfg Config) *Live {
	return &Live{cfg: cfg}
}

// Get returns a copy of the current configuration.
func (l *Live) Get() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// Set replaces the current configuration.
func (l *Live) Set(cfg Config) {
	l.mu.Lock()
	l.cfg = cfg
	l.mu.Unlock()
}
