package registry

import (
	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/types"
)

// Registry holds the queue and interface entries of one configuration load, in the order they
// were stored. It is not safe for concurrent use; a load owns its registry exclusively.
type Registry struct {
	entries []*types.QueueSpec
}

// New creates an empty Registry
func New() *Registry {
	return &Registry{entries: make([]*types.QueueSpec, 0)}
}

// Store appends spec. The registry takes ownership of spec; uniqueness is the caller's concern.
func (r *Registry) Store(spec *types.QueueSpec) {
	r.entries = append(r.entries, spec)
}

// LookupRoot returns the interface entry of ifName or nil
func (r *Registry) LookupRoot(ifName string) *types.QueueSpec {
	for _, e := range r.entries {
		if e.InterfaceName == ifName && e.IsInterface() {
			return e
		}
	}
	return nil
}

// LookupNamed returns the queue qName on ifName or nil
func (r *Registry) LookupNamed(qName, ifName string) *types.QueueSpec {
	for _, e := range r.entries {
		if e.InterfaceName == ifName && e.QueueName == qName {
			return e
		}
	}
	return nil
}

// RemoveNamed removes the first entry matching qName on ifName. returns true if an entry was removed.
func (r *Registry) RemoveNamed(qName, ifName string) bool {
	for i, e := range r.entries {
		if e.InterfaceName == ifName && e.QueueName == qName {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Reset drops every entry, starting a new load
func (r *Registry) Reset() {
	r.entries = make([]*types.QueueSpec, 0)
}

// Len returns the number of entries
func (r *Registry) Len() int {
	return len(r.entries)
}

// List returns all entries in store order
func (r *Registry) List() []*types.QueueSpec {
	out := make([]*types.QueueSpec, len(r.entries))
	copy(out, r.entries)
	return out
}

// ListInterface returns the entries of ifName in store order, the interface entry included
func (r *Registry) ListInterface(ifName string) []*types.QueueSpec {
	out := make([]*types.QueueSpec, 0)
	for _, e := range r.entries {
		if e.InterfaceName == ifName {
			out = append(out, e)
		}
	}
	return out
}

// Interfaces returns the names of interfaces that have an interface entry, in store order
func (r *Registry) Interfaces() []string {
	out := make([]string, 0)
	for _, e := range r.entries {
		if e.IsInterface() {
			out = append(out, e.InterfaceName)
		}
	}
	return out
}

// Children returns the queues on ifName whose parent is parentName. an empty parentName
// returns the top level queues of the interface.
func (r *Registry) Children(parentName, ifName string) []*types.QueueSpec {
	out := make([]*types.QueueSpec, 0)
	for _, e := range r.entries {
		if e.InterfaceName == ifName && !e.IsInterface() && e.ParentName == parentName {
			out = append(out, e)
		}
	}
	return out
}
