package provider

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Provider is the base interface all backends must implement.
type Provider interface {
	// Name returns the backend's unique name.
	Name() string
	// IsAvailable checks if the backend is ready to handle requests.
	IsAvailable(ctx context.Context) bool
}

// Registry holds named backends of one kind.
type Registry[T Provider] struct {
	mu    sync.RWMutex
	items map[string]T
}

// NewRegistry creates an empty registry.
func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{items: make(map[string]T)}
}

// Register adds a backend under its own name. Re-registering replaces it.
func (r *Registry[T]) Register(p T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.Name()] = p
}

// Get returns the backend registered under name.
func (r *Registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("provider %q is not registered (have: %v)", name, r.names())
	}
	return p, nil
}

// Names returns the registered backend names, sorted.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names()
}

func (r *Registry[T]) names() []string {
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
