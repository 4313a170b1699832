// Package registry describes the runtime type-description libraries that
// emitted descriptors call into, and guards the identifiers that generated
// code introduces into a module.
//
// Descriptors only ever call constructors that a registered library declares,
// so swapping the runtime library is a matter of registering a different
// vocabulary rather than changing the compiler.
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// LibraryInfo describes a registered descriptor library.
type LibraryInfo struct {
	Binding      string   // Local import binding: "_t"
	Module       string   // Module specifier: "ts-runtime/lib"
	Constructors []string // Exported descriptor constructors: "number", "union", ...
}

// LibraryRegistry manages known descriptor libraries and the identifiers
// that generated code reserves.
//
// Thread-safe: all methods can be called concurrently.
type LibraryRegistry struct {
	mu sync.RWMutex

	// libraries maps binding to info
	libraries map[string]*LibraryInfo

	// constructorIndex maps binding to its constructor set
	constructorIndex map[string]map[string]bool

	// reserved maps a generated identifier to what introduced it
	reserved map[string]string
}

// NewRegistry creates an empty library registry.
// Use Register to add libraries.
func NewRegistry() *LibraryRegistry {
	return &LibraryRegistry{
		libraries:        make(map[string]*LibraryInfo),
		constructorIndex: make(map[string]map[string]bool),
		reserved:         make(map[string]string),
	}
}

// Register adds a library. Its binding becomes a reserved identifier.
func (r *LibraryRegistry) Register(info LibraryInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	infoCopy := info
	infoCopy.Constructors = append([]string(nil), info.Constructors...)
	r.libraries[info.Binding] = &infoCopy

	index := make(map[string]bool, len(info.Constructors))
	for _, c := range info.Constructors {
		index[c] = true
	}
	r.constructorIndex[info.Binding] = index
	r.reserved[info.Binding] = "library binding"
}

// Reserve marks identifiers introduced by generated code.
func (r *LibraryRegistry) Reserve(kind string, names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range names {
		r.reserved[n] = kind
	}
}

// Libraries returns all registered libraries ordered by binding.
func (r *LibraryRegistry) Libraries() []*LibraryInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*LibraryInfo, 0, len(r.libraries))
	for _, info := range r.libraries {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Binding < result[j].Binding })
	return result
}

// Missing returns the constructors of required that the library under
// binding does not export, in the order given. A binding that was never
// registered is missing everything.
func (r *LibraryRegistry) Missing(binding string, required []string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index := r.constructorIndex[binding]
	var missing []string
	for _, name := range required {
		if !index[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// CheckConflict returns an error if a declaration name would shadow an
// identifier the generated code depends on.
func (r *LibraryRegistry) CheckConflict(name string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if kind, ok := r.reserved[name]; ok {
		return &ConflictError{Name: name, Kind: kind}
	}
	return nil
}

// ConflictError is returned when a declaration name collides with a
// generated identifier.
type ConflictError struct {
	Name string // The conflicting name
	Kind string // What reserved it: "library binding", "type parameter symbol", ...
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("declaration '%s' conflicts with generated %s; choose a different name",
		e.Name, e.Kind)
}
