// Package model defines the core domain types for the chat server.
package model

import "errors"

// Status represents a user's presence status. The wire format carries the
// string value verbatim, so the constants double as protocol tokens.
type Status string

const (
	StatusOnline    Status = "online"
	StatusInvisible Status = "invisible"
	StatusAway      Status = "away"
	StatusBusy      Status = "busy"
	StatusOffline   Status = "offline"
)

var ErrInvalidStatus = errors.New("invalid status: must be online, invisible, away, busy, or offline")

// Valid reports whether s is one of the five defined status values.
// The match is case-sensitive: "Online" is not a valid status.
func (s Status) Valid() bool {
	switch s {
	case StatusOnline, StatusInvisible, StatusAway, StatusBusy, StatusOffline:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a wire token to a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// PresenceEntry is one (name, status) pair of a roster snapshot.
type PresenceEntry struct {
	Name   string
	Status Status
}
