package server

import (
	"sync"

	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/model"
)

// Presence maps display names to their last-known status, independent of
// whether the owning session is still connected: logout downgrades an entry
// to offline instead of deleting it, so past users keep appearing in the
// roster.
type Presence struct {
	mu       sync.RWMutex
	statuses map[string]model.Status
	order    []string // names in first-seen order, for deterministic snapshots
}

// NewPresence creates an empty presence store.
func NewPresence() *Presence {
	return &Presence{
		statuses: make(map[string]model.Status),
	}
}

// Set updates a name's status. Invalid status values are silently ignored:
// malformed input is dropped, not an error, per the protocol's no-NACK
// policy.
func (p *Presence) Set(name string, status model.Status) {
	if !status.Valid() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, seen := p.statuses[name]; !seen {
		p.order = append(p.order, name)
	}
	p.statuses[name] = status
}

// Get returns the last-known status for a name.
func (p *Presence) Get(name string) (model.Status, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.statuses[name]
	return s, ok
}

// Snapshot returns all (name, status) pairs in first-seen order.
func (p *Presence) Snapshot() []model.PresenceEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entries := make([]model.PresenceEntry, 0, len(p.order))
	for _, name := range p.order {
		entries = append(entries, model.PresenceEntry{Name: name, Status: p.statuses[name]})
	}
	return entries
}

// Count returns the number of tracked names, connected or not.
func (p *Presence) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.statuses)
}
