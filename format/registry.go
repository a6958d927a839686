package format

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds registered formats keyed by metadata prefix.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Format
}

// DefaultRegistry is the global format registry.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a new format registry.
func NewRegistry() *Registry {
	return &Registry{
		formats: make(map[string]Format),
	}
}

// Register adds a format to the registry, replacing any format with the
// same prefix.
func (r *Registry) Register(f Format) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formats[strings.ToLower(f.Prefix())] = f
}

// Get retrieves a format by metadata prefix.
func (r *Registry) Get(prefix string) (Format, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formats[strings.ToLower(prefix)]
	return f, ok
}

// GetDisseminator retrieves a format that can render records.
func (r *Registry) GetDisseminator(prefix string) (Disseminator, error) {
	f, ok := r.Get(prefix)
	if !ok {
		return nil, fmt.Errorf("unknown metadata prefix: %s", prefix)
	}
	d, ok := f.(Disseminator)
	if !ok {
		return nil, fmt.Errorf("format %s does not support dissemination", prefix)
	}
	return d, nil
}

// List returns all registered formats ordered by prefix.
func (r *Registry) List() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Format, 0, len(r.formats))
	for _, f := range r.formats {
		list = append(list, f)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Prefix() < list[j].Prefix() })
	return list
}

// Register adds a format to the default registry.
func Register(f Format) {
	DefaultRegistry.Register(f)
}

// Get retrieves a format from the default registry.
func Get(prefix string) (Format, bool) {
	return DefaultRegistry.Get(prefix)
}

// GetDisseminator retrieves a disseminator from the default registry.
func GetDisseminator(prefix string) (Disseminator, error) {
	return DefaultRegistry.GetDisseminator(prefix)
}
