package markers

import "strings"

// Variable is one entry of the technical-variable registry as the editor
// sees it: a stable key plus display metadata.
type Variable struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Category    string `json:"category,omitempty"`
	DataKind    string `json:"dataKind,omitempty"`
}

// Registry is the read-only catalog of active technical variables available
// to a marker editing session.
type Registry struct {
	vars []Variable
}

// NewRegistry builds a registry over the given variables, in order.
func NewRegistry(vars []Variable) *Registry {
	return &Registry{vars: append([]Variable(nil), vars...)}
}

// All returns every variable in registry order.
func (r *Registry) All() []Variable {
	return append([]Variable(nil), r.vars...)
}

// Search filters variables by a live text query over display name and key,
// case-insensitive. An empty query returns everything.
func (r *Registry) Search(query string) []Variable {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return r.All()
	}
	var out []Variable
	for _, v := range r.vars {
		if strings.Contains(strings.ToLower(v.DisplayName), q) ||
			strings.Contains(strings.ToLower(v.Key), q) {
			out = append(out, v)
		}
	}
	return out
}

// Resolve looks a variable up by key. Markers hold weak references: a key
// may no longer resolve once its variable was deactivated.
func (r *Registry) Resolve(key string) (Variable, bool) {
	for _, v := range r.vars {
		if v.Key == key {
			return v, true
		}
	}
	return Variable{}, false
}

// DisplayName resolves a key to its display name, degrading to the raw key
// when the variable is gone.
func (r *Registry) DisplayName(key string) string {
	if v, ok := r.Resolve(key); ok {
		return v.DisplayName
	}
	return key
}

// DefaultKey is the variable bound to newly placed markers: the first
// registry entry, or the fallback sentinel when the registry is empty.
func (r *Registry) DefaultKey() string {
	if len(r.vars) > 0 {
		return r.vars[0].Key
	}
	return FallbackVariableKey
}
