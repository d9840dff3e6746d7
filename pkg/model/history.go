package model

import "time"

// HistoryRecord is one accepted inbound message as persisted by the history
// logger. Origin is the sender endpoint in "ip:port" form; Raw is the message
// exactly as received.
type HistoryRecord struct {
	ID        int64     `json:"id"`
	Origin    string    `json:"origin"`
	Action    string    `json:"action"`
	Raw       string    `json:"raw"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryFilters narrows a history listing. Nil fields are ignored.
type HistoryFilters struct {
	LimitToOrigin *string
	LimitToAction *string
	PageSize      *int64
	Offset        *int64
}
