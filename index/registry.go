package index

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownBackend is returned by Lookup for unregistered backend names.
var ErrUnknownBackend = errors.New("index: unknown backend")

// Factory creates an empty index for vectors of dimension dim.
type Factory func(metric Metric, dim int, params Params) (Index, error)

// Backend describes a registered index implementation.
type Backend struct {
	// Name selects the backend on the command line ("flat", "hnsw").
	Name string
	// Label is the backend name used in result file names ("Flat", "hnsw").
	Label string
	// Exact marks reference backends whose build is not timed and whose
	// state is not persisted.
	Exact bool
	// ParamNames lists the parameters that identify a configuration, in
	// file naming order.
	ParamNames []string
	// Defaults holds the value of each parameter when unset.
	Defaults Params
	// New creates the index.
	New Factory
}

// Resolve merges params over the backend defaults.
func (b Backend) Resolve(params Params) Params {
	out := b.Defaults.Clone()
	for k, v := range params {
		out[k] = v
	}
	return out
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Backend{}
)

// Register makes a backend available by name. It panics on duplicates.
func Register(b Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if b.Name == "" || b.New == nil {
		panic("index: Register with empty name or nil factory")
	}
	if _, dup := registry[b.Name]; dup {
		panic("index: Register called twice for backend " + b.Name)
	}
	if b.Label == "" {
		b.Label = b.Name
	}
	registry[b.Name] = b
}

// Lookup returns the backend registered under name.
func Lookup(name string) (Backend, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	b, ok := registry[name]
	if !ok {
		return Backend{}, fmt.Errorf("%w %q", ErrUnknownBackend, name)
	}
	return b, nil
}

// Backends returns all registered backends sorted by name.
func Backends() []Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Backend, 0, len(registry))
	for _, b := range registry {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
