package types

import (
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
)

// genericBases names the parameterized type bases the registry recognizes
// without a prior declaration.
var genericBases = map[string]bool{"List": true, "Dict": true, "Map": true}

// Registry is the process-scoped mapping from type name to Klass. It is
// pre-seeded with the five primitives; generic bases (List, Dict, Map)
// are recognized by name rather than pre-registered, since they only
// become concrete once parameterized.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Klass
}

// NewRegistry creates a Registry pre-seeded with Aura's primitive types.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]Klass)}
	for _, name := range []string{"Int", "Float", "Str", "Bool", "Nihil"} {
		r.types[name] = Primitive{NameStr: name}
	}
	return r
}

// Register stores k under name, replacing any prior registration — Aura
// type declarations always win over whatever was there before.
func (r *Registry) Register(name string, k Klass) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = k
}

// Lookup resolves name to its registered Klass.
func (r *Registry) Lookup(name string) (Klass, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("unknown type %q (registered: %v)", name, lo.Keys(r.types))
	}
	return k, nil
}

// Names lists every currently-registered type name, sorted, for
// inspect/import diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := lo.Keys(r.types)
	sort.Strings(names)
	return names
}

// IsGenericBase reports whether name is a recognized parameterized base.
func IsGenericBase(name string) bool {
	return genericBases[name]
}

// Reference builds a ReferenceType bound to this registry.
func (r *Registry) Reference(name string) ReferenceType {
	return ReferenceType{NameStr: name, Target: name, Registry: r}
}
