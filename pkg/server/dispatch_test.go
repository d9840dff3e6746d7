package server

import (
	"net"
	"strings"
	"testing"

	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/model"
	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/protocol"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(DefaultConfig(), Dependencies{})
}

// in runs one raw inbound message through dispatch.
func in(s *Server, origin *net.UDPAddr, raw string) []Send {
	return s.dispatch(origin, protocol.Parse(raw))
}

// sendsTo collects the payloads addressed to one endpoint.
func sendsTo(sends []Send, addr *net.UDPAddr) []string {
	var payloads []string
	key := addr.String()
	for _, snd := range sends {
		if snd.To.String() == key {
			payloads = append(payloads, snd.Payload)
		}
	}
	return payloads
}

// parseRoster decodes a list: message into a name->status map. Roster order
// is an implementation detail; comparisons go through this multiset view.
func parseRoster(t *testing.T, payload string) map[string]string {
	t.Helper()
	rest, ok := strings.CutPrefix(payload, "list:")
	if !ok {
		t.Fatalf("not a roster message: %q", payload)
	}
	m := make(map[string]string)
	if rest == "" {
		return m
	}
	for _, pair := range strings.Split(rest, ",") {
		name, status, found := strings.Cut(pair, ":")
		if !found {
			t.Fatalf("malformed roster pair %q in %q", pair, payload)
		}
		m[name] = status
	}
	return m
}

func TestLoginBroadcastsRosterAndUnicastsToJoiner(t *testing.T) {
	s := newTestServer(t)
	a := ep(6000)

	sends := in(s, a, "login:alice")

	// Broadcast reaches the (already registered) joiner, plus the separate
	// unicast: two copies for a first client with no peers.
	got := sendsTo(sends, a)
	if len(got) != 2 {
		t.Fatalf("joiner received %d messages, want 2: %v", len(got), got)
	}
	for _, payload := range got {
		roster := parseRoster(t, payload)
		if roster["alice"] != "online" {
			t.Errorf("roster = %v, want alice online", roster)
		}
	}
}

func TestLoginRejectsUnusableNames(t *testing.T) {
	s := newTestServer(t)

	for _, raw := range []string{"login:", "login:a:b", "login:a,b", "login:" + strings.Repeat("x", 40)} {
		if sends := in(s, ep(6000), raw); len(sends) != 0 {
			t.Errorf("%q produced %d sends, want 0", raw, len(sends))
		}
	}
	if s.registry.Count() != 0 {
		t.Errorf("registry count = %d, want 0", s.registry.Count())
	}
}

func TestScenarioTwoClients(t *testing.T) {
	s := newTestServer(t)
	a, b := ep(6000), ep(6001)

	in(s, a, "login:alice")

	// Bob joins: both receive the two-user roster, bob also gets the
	// separate unicast.
	sends := in(s, b, "login:bob")
	wantRoster := map[string]string{"alice": "online", "bob": "online"}

	aMsgs := sendsTo(sends, a)
	if len(aMsgs) != 1 {
		t.Fatalf("alice received %d messages, want 1: %v", len(aMsgs), aMsgs)
	}
	for name, status := range wantRoster {
		if got := parseRoster(t, aMsgs[0])[name]; got != status {
			t.Errorf("alice roster[%s] = %q, want %q", name, got, status)
		}
	}
	if bMsgs := sendsTo(sends, b); len(bMsgs) != 2 {
		t.Fatalf("bob received %d messages, want 2: %v", len(bMsgs), bMsgs)
	}

	// Alice goes away: both receive the presence change.
	sends = in(s, a, "status:away")
	if len(sends) != 2 {
		t.Fatalf("status produced %d sends, want 2", len(sends))
	}
	for _, snd := range sends {
		if snd.Payload != "status:alice:away" {
			t.Errorf("status payload = %q", snd.Payload)
		}
	}
	if got, _ := s.presence.Get("alice"); got != model.StatusAway {
		t.Errorf("presence after status = %q, want away", got)
	}

	// Bob messages alice privately: exactly one delivery and one echo.
	sends = in(s, b, "private:alice:hello")
	if len(sends) != 2 {
		t.Fatalf("private produced %d sends, want 2", len(sends))
	}
	if got := sendsTo(sends, a); len(got) != 1 || got[0] != "Private from bob: hello" {
		t.Errorf("alice private = %v", got)
	}
	if got := sendsTo(sends, b); len(got) != 1 || got[0] != "To alice: hello" {
		t.Errorf("bob echo = %v", got)
	}

	// Alice logs out: only bob gets the roster, alice shows offline in it.
	sends = in(s, a, "logout")
	if len(sends) != 1 {
		t.Fatalf("logout produced %d sends, want 1: %v", len(sends), sends)
	}
	roster := parseRoster(t, sendsTo(sends, b)[0])
	if roster["alice"] != "offline" || roster["bob"] != "online" {
		t.Errorf("roster after logout = %v", roster)
	}
}

func TestRosterShowsLastKnownStatusToLaterJoiner(t *testing.T) {
	s := newTestServer(t)
	a, b := ep(6000), ep(6001)

	in(s, a, "login:alice")
	in(s, a, "status:busy")

	sends := in(s, b, "login:bob")
	roster := parseRoster(t, sendsTo(sends, b)[0])
	if roster["alice"] != "busy" {
		t.Errorf("roster[alice] = %q, want busy", roster["alice"])
	}
}

func TestPrivateIsolation(t *testing.T) {
	s := newTestServer(t)
	a := ep(6000)
	in(s, a, "login:alice")

	// Target not connected: zero outbound packets, not even the echo.
	if sends := in(s, a, "private:bob:hi"); len(sends) != 0 {
		t.Errorf("private to absent target produced %d sends, want 0", len(sends))
	}
}

func TestUnknownSenderDrops(t *testing.T) {
	s := newTestServer(t)
	in(s, ep(6000), "login:alice")
	stranger := ep(7000)

	for _, raw := range []string{
		"status:busy",
		"private:alice:hi",
		"typing:ghost",
		"just some chat",
	} {
		if sends := in(s, stranger, raw); len(sends) != 0 {
			t.Errorf("%q from stranger produced %d sends, want 0", raw, len(sends))
		}
	}
}

func TestMalformedDrops(t *testing.T) {
	s := newTestServer(t)
	a := ep(6000)
	in(s, a, "login:alice")

	tests := []struct {
		name string
		raw  string
	}{
		{"private without text", "private:bob"},
		{"file without payload", "file:notes.txt"},
		{"unknown status value", "status:sleeping"},
		{"case-sensitive status", "status:Away"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if sends := in(s, a, tt.raw); len(sends) != 0 {
				t.Errorf("%q produced %d sends, want 0", tt.raw, len(sends))
			}
		})
	}

	if got, _ := s.presence.Get("alice"); got != model.StatusOnline {
		t.Errorf("presence changed to %q by malformed input", got)
	}
}

func TestImageExcludesSenderFileAndVoiceIncludeSender(t *testing.T) {
	s := newTestServer(t)
	a, b := ep(6000), ep(6001)
	in(s, a, "login:alice")
	in(s, b, "login:bob")

	sends := in(s, a, "image:aGk=")
	if len(sendsTo(sends, a)) != 0 {
		t.Error("image relayed back to its sender")
	}
	if got := sendsTo(sends, b); len(got) != 1 || got[0] != "image:alice:aGk=" {
		t.Errorf("bob image = %v", got)
	}

	sends = in(s, a, "file:notes.txt:aGk=")
	for _, addr := range []*net.UDPAddr{a, b} {
		if got := sendsTo(sends, addr); len(got) != 1 || got[0] != "file:alice:notes.txt:aGk=" {
			t.Errorf("file to %v = %v", addr, got)
		}
	}

	sends = in(s, a, "voice:aGk=")
	for _, addr := range []*net.UDPAddr{a, b} {
		if got := sendsTo(sends, addr); len(got) != 1 || got[0] != "voice:alice:aGk=" {
			t.Errorf("voice to %v = %v", addr, got)
		}
	}
}

func TestMediaFromUnknownSenderRelayedAsUnknown(t *testing.T) {
	s := newTestServer(t)
	b := ep(6001)
	in(s, b, "login:bob")

	sends := in(s, ep(7000), "image:aGk=")
	if got := sendsTo(sends, b); len(got) != 1 || got[0] != "image:unknown:aGk=" {
		t.Errorf("bob image from stranger = %v", got)
	}
}

func TestTypingRebroadcastVerbatim(t *testing.T) {
	s := newTestServer(t)
	a, b := ep(6000), ep(6001)
	in(s, a, "login:alice")
	in(s, b, "login:bob")

	sends := in(s, a, "typing:alice")
	if len(sends) != 2 {
		t.Fatalf("typing produced %d sends, want 2 (typer included)", len(sends))
	}
	for _, snd := range sends {
		if snd.Payload != "typing:alice" {
			t.Errorf("typing payload = %q, want verbatim", snd.Payload)
		}
	}
}

func TestPlainChatBroadcast(t *testing.T) {
	s := newTestServer(t)
	a, b := ep(6000), ep(6001)
	in(s, a, "login:alice")
	in(s, b, "login:bob")

	// A colon-bearing line with an unknown prefix is still plain chat.
	sends := in(s, a, "meet at 10:30")
	if len(sends) != 2 {
		t.Fatalf("chat produced %d sends, want 2", len(sends))
	}
	for _, snd := range sends {
		if snd.Payload != "alice: meet at 10:30" {
			t.Errorf("chat payload = %q", snd.Payload)
		}
	}
}

func TestReloginKeepsOneSession(t *testing.T) {
	s := newTestServer(t)
	a := ep(6000)

	in(s, a, "login:alice")
	in(s, a, "login:alice")

	if s.registry.Count() != 1 {
		t.Errorf("registry count after double login = %d, want 1", s.registry.Count())
	}
}
