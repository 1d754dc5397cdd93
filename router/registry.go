package router

import "sort"

// Endpoint identifies a specialist agent: a stable name the model plans with
// plus the base network address it is reachable at. Immutable once
// constructed.
type Endpoint struct {
	Name string
	URL  string
}

// Registry is a closed mapping from agent name to endpoint. Unknown names are
// rejected explicitly instead of falling through to a default.
type Registry struct {
	endpoints map[string]Endpoint
}

// NewRegistry constructs a registry over the given endpoints.
func NewRegistry(endpoints ...Endpoint) *Registry {
	m := make(map[string]Endpoint, len(endpoints))
	for _, ep := range endpoints {
		m[ep.Name] = ep
	}
	return &Registry{endpoints: m}
}

// Resolve looks up the endpoint for an agent name.
func (r *Registry) Resolve(name string) (Endpoint, bool) {
	ep, ok := r.endpoints[name]
	return ep, ok
}

// Names returns the registered agent names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.endpoints))
	for name := range r.endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
