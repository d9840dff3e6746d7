package server

import (
	"net"
	"sync"
)

// Session is an active binding of one endpoint to one display name.
type Session struct {
	Addr *net.UDPAddr
	Name string
}

// Registry is the bidirectional endpoint/name mapping: the source of truth
// for who is connected. At most one name is bound to a given endpoint, but
// nothing stops two endpoints from registering the same name; name lookups
// scan sessions in registration order and return the first match, so the
// tie-break is deterministic.
//
// All operations are called from the single dispatch loop, but the metrics
// endpoint and tests read concurrently, so both views live under one mutex.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session // endpoint "ip:port" -> session
	order    []string            // endpoint keys in registration order
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Register binds a name to an endpoint. Idempotent upsert: a second login
// from the same endpoint overwrites the name and keeps the original
// registration slot.
func (r *Registry) Register(addr *net.UDPAddr, name string) {
	key := addr.String()
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[key]; ok {
		s.Name = name
		s.Addr = addr
		return
	}
	r.sessions[key] = &Session{Addr: addr, Name: name}
	r.order = append(r.order, key)
}

// Unregister removes the session bound to an endpoint and returns the name
// that was bound, or ok=false if the endpoint had no session.
func (r *Registry) Unregister(addr *net.UDPAddr) (name string, ok bool) {
	key := addr.String()
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[key]
	if !ok {
		return "", false
	}
	delete(r.sessions, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return s.Name, true
}

// NameOf returns the name bound to an endpoint.
func (r *Registry) NameOf(addr *net.UDPAddr) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[addr.String()]
	if !ok {
		return "", false
	}
	return s.Name, true
}

// EndpointOf returns the endpoint bound to a name: first match in
// registration order when the name is bound more than once.
func (r *Registry) EndpointOf(name string) (*net.UDPAddr, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, key := range r.order {
		if s := r.sessions[key]; s.Name == name {
			return s.Addr, true
		}
	}
	return nil, false
}

// Names returns the connected display names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.order))
	for _, key := range r.order {
		names = append(names, r.sessions[key].Name)
	}
	return names
}

// Endpoints returns a snapshot copy of the connected endpoints in
// registration order. Fan-outs iterate this copy, never the live map.
func (r *Registry) Endpoints() []*net.UDPAddr {
	r.mu.RLock()
	defer r.mu.RUnlock()
	addrs := make([]*net.UDPAddr, 0, len(r.order))
	for _, key := range r.order {
		addrs = append(addrs, r.sessions[key].Addr)
	}
	return addrs
}

// Count returns the number of connected sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
