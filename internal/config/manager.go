package config

import (
	"sync/atomic"
	"time"
)

// Manager holds the active EngineConfig behind an atomic pointer so the
// engine's components can read a consistent snapshot without locking,
// and so an operator can push a new configuration (e.g. a rotated API
// key) without restarting the process.
type Manager struct {
	config      atomic.Pointer[EngineConfig]
	loadedAt    atomic.Value
	reloadCount atomic.Uint64
}

// NewManager loads configuration from the environment and wraps it in a
// Manager.
func NewManager() (*Manager, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	m := &Manager{}
	m.store(cfg)
	return m, nil
}

// Get returns the current configuration. Safe to call concurrently.
func (m *Manager) Get() *EngineConfig {
	return m.config.Load()
}

// Status reports when the active configuration was loaded and how many
// times it has been replaced since startup.
type Status struct {
	LoadedAt    time.Time
	ReloadCount uint64
}

// Status returns metadata about the active configuration.
func (m *Manager) Status() Status {
	s := Status{ReloadCount: m.reloadCount.Load()}
	if t, ok := m.loadedAt.Load().(time.Time); ok {
		s.LoadedAt = t
	}
	return s
}

// Reload re-reads configuration from the environment and, if it
// validates, atomically swaps it in. A failed reload leaves the
// previously active configuration in place.
func (m *Manager) Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	m.store(cfg)
	return nil
}

func (m *Manager) store(cfg *EngineConfig) {
	m.config.Store(cfg)
	m.loadedAt.Store(time.Now().UTC())
	m.reloadCount.Add(1)
}
