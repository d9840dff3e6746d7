package server

import (
	"testing"

	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/model"
)

// snapshotAsMap flattens a snapshot for comparison: the roster is a
// multiset, not a sequence.
func snapshotAsMap(p *Presence) map[string]model.Status {
	m := make(map[string]model.Status)
	for _, e := range p.Snapshot() {
		m[e.Name] = e.Status
	}
	return m
}

func TestPresenceSetAndGet(t *testing.T) {
	p := NewPresence()
	p.Set("alice", model.StatusOnline)
	p.Set("alice", model.StatusBusy)

	got, ok := p.Get("alice")
	if !ok || got != model.StatusBusy {
		t.Errorf("Get(alice) = (%q, %v), want (busy, true)", got, ok)
	}

	if _, ok := p.Get("bob"); ok {
		t.Error("Get on unknown name should report ok=false")
	}
}

func TestPresenceInvalidStatusSilentlyIgnored(t *testing.T) {
	p := NewPresence()
	p.Set("alice", model.StatusOnline)

	p.Set("alice", model.Status("sleeping"))
	p.Set("alice", model.Status("Online"))
	p.Set("bob", model.Status(""))

	if got, _ := p.Get("alice"); got != model.StatusOnline {
		t.Errorf("invalid Set changed status to %q", got)
	}
	if _, ok := p.Get("bob"); ok {
		t.Error("invalid Set must not create an entry")
	}
}

func TestPresenceLogoutRetainsEntry(t *testing.T) {
	p := NewPresence()
	p.Set("alice", model.StatusOnline)
	p.Set("alice", model.StatusOffline)

	got, ok := p.Get("alice")
	if !ok || got != model.StatusOffline {
		t.Errorf("entry after logout = (%q, %v), want (offline, true)", got, ok)
	}
	if p.Count() != 1 {
		t.Errorf("Count = %d, want 1", p.Count())
	}
}

func TestPresenceSnapshot(t *testing.T) {
	p := NewPresence()
	p.Set("alice", model.StatusOnline)
	p.Set("bob", model.StatusAway)
	p.Set("alice", model.StatusOffline)

	want := map[string]model.Status{
		"alice": model.StatusOffline,
		"bob":   model.StatusAway,
	}
	got := snapshotAsMap(p)
	if len(got) != len(want) {
		t.Fatalf("snapshot = %v, want %v", got, want)
	}
	for name, status := range want {
		if got[name] != status {
			t.Errorf("snapshot[%s] = %q, want %q", name, got[name], status)
		}
	}
}
