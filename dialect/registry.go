package dialect

import (
	"fmt"
	"sort"
	"sync"
)

// OpenFunc opens a live driver for a data source name.
type OpenFunc func(dsn string) (Driver, error)

// Registry maps dialect identifiers to driver openers. It replaces ambient
// driver probing: the hosting application decides which dialect
// implementations are linked in by registering them, typically through a
// blank import of one of the driver subpackages.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	openers map[string]OpenFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{openers: make(map[string]OpenFunc)}
}

// Register makes a dialect available under name. Registering the same name
// twice replaces the previous opener.
func (r *Registry) Register(name string, open OpenFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.openers[name] = open
}

// Supports reports whether a driver is registered for the dialect.
func (r *Registry) Supports(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.openers[name]
	return ok
}

// Dialects returns the registered dialect names in sorted order.
func (r *Registry) Dialects() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.openers))
	for name := range r.openers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens a driver for the dialect using its registered opener.
func (r *Registry) Open(name, dsn string) (Driver, error) {
	r.mu.RLock()
	open, ok := r.openers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("dialect: no driver registered for %q (forgotten import of a driver subpackage?)", name)
	}
	return open(dsn)
}

// defaultRegistry backs the package-level convenience functions. It is
// populated only by explicit imports of driver subpackages.
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry used by the package-level Register
// and Open functions.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register registers an opener in the default registry.
func Register(name string, open OpenFunc) { defaultRegistry.Register(name, open) }

// Supports reports whether the default registry has a driver for name.
func Supports(name string) bool { return defaultRegistry.Supports(name) }

// Open opens a driver from the default registry.
func Open(name, dsn string) (Driver, error) { return defaultRegistry.Open(name, dsn) }
