package platform

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Registry holds all registered platform adapters and dispatches webhook and
// send operations by platform name. It must be created via NewRegistry and
// passed explicitly to components that need it.
type Registry struct {
	mu       sync.RWMutex
	adapters map[Platform]Adapter
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		adapters: map[Platform]Adapter{},
	}
}

// Register adds an adapter to the registry.
func (r *Registry) Register(adapter Adapter) error {
	if adapter == nil {
		return errors.New("adapter is nil")
	}
	p := normalizePlatform(adapter.Platform().String())
	if p == "" {
		return errors.New("platform name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.adapters[p]; exists {
		return fmt.Errorf("platform already registered: %s", p)
	}
	r.adapters[p] = adapter
	return nil
}

// MustRegister calls Register and panics on error.
func (r *Registry) MustRegister(adapter Adapter) {
	if err := r.Register(adapter); err != nil {
		panic(err)
	}
}

// Get returns the adapter for the given platform.
func (r *Registry) Get(p Platform) (Adapter, bool) {
	key := normalizePlatform(p.String())
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapter, ok := r.adapters[key]
	return adapter, ok
}

// GetSender returns the Sender for the given platform, or false if the
// platform is unknown or cannot send.
func (r *Registry) GetSender(p Platform) (Sender, bool) {
	adapter, ok := r.Get(p)
	if !ok {
		return nil, false
	}
	sender, ok := adapter.(Sender)
	return sender, ok
}

// List returns all registered adapters.
func (r *Registry) List() []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]Adapter, 0, len(r.adapters))
	for _, a := range r.adapters {
		items = append(items, a)
	}
	return items
}

// Platforms returns all registered platform names.
func (r *Registry) Platforms() []Platform {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]Platform, 0, len(r.adapters))
	for p := range r.adapters {
		items = append(items, p)
	}
	return items
}

// Parse validates and normalizes a raw string into a registered Platform.
func (r *Registry) Parse(raw string) (Platform, error) {
	p := normalizePlatform(raw)
	if p == "" {
		return "", fmt.Errorf("unsupported platform: %s", raw)
	}
	if _, ok := r.Get(p); !ok {
		return "", fmt.Errorf("unsupported platform: %s", raw)
	}
	return p, nil
}

func normalizePlatform(raw string) Platform {
	normalized := strings.TrimSpace(strings.ToLower(raw))
	if normalized == "" {
		return ""
	}
	return Platform(normalized)
}
