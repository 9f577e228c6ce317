package recording

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// BackendFactory creates a fresh backend for one playback.
type BackendFactory func() Backend

// Registration describes a backend available by name.
type Registration struct {
	Name string

	// Extension is the suffix of the files the backend writes through
	// FileBackend, including the dot.
	Extension string

	New BackendFactory
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Registration)
)

// Register makes a backend available to NewBackend. Backend packages call
// it from init, so a blank import is enough to enable one:
//
//	import _ "github.com/gogpu/mathscroll/recording/backends/trace"
//
// Register panics on an empty name, a nil factory, an extension without a
// leading dot or a name registered twice.
func Register(r Registration) {
	registryMu.Lock()
	defer registryMu.Unlock()

	switch {
	case r.Name == "":
		panic("recording: Register with empty name")
	case r.New == nil:
		panic("recording: Register factory is nil for " + r.Name)
	case r.Extension != "" && !strings.HasPrefix(r.Extension, "."):
		panic("recording: Register extension must start with a dot: " + r.Extension)
	}
	if _, dup := registry[r.Name]; dup {
		panic("recording: Register called twice for " + r.Name)
	}
	registry[r.Name] = r
}

// Unregister removes a backend. Unknown names are ignored.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, name)
}

// Lookup returns the registration of name.
func Lookup(name string) (Registration, error) {
	registryMu.RLock()
	r, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return Registration{}, fmt.Errorf("%w: %q (forgotten import?)", ErrUnknownBackend, name)
	}
	return r, nil
}

// NewBackend creates a backend by name.
func NewBackend(name string) (Backend, error) {
	r, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return r.New(), nil
}

// MustBackend is like NewBackend but panics on error.
func MustBackend(name string) Backend {
	b, err := NewBackend(name)
	if err != nil {
		panic(err)
	}
	return b
}

// Backends returns the registered names in alphabetical order.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(registry))
}

// IsRegistered reports whether name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}
