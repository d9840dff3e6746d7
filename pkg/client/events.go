package client

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/model"
)

// route classifies one inbound server message and fires the matching
// callback. Anything without a recognized tag is display text: plain
// chat, private deliveries, and echoes all arrive pre-formatted.
func (e *Engine) route(raw string) {
	tag, rest, found := strings.Cut(raw, ":")
	if found {
		switch tag {
		case "list":
			entries, err := decodeRoster(rest)
			if err != nil {
				e.reportError(err)
				return
			}
			if e.OnRoster != nil {
				e.OnRoster(entries)
			}
			return
		case "status":
			name, value, ok := strings.Cut(rest, ":")
			if !ok {
				e.reportError(fmt.Errorf("client: malformed status %q", raw))
				return
			}
			if e.OnStatusChange != nil {
				e.OnStatusChange(name, model.Status(value))
			}
			return
		case "typing":
			if e.OnTyping != nil {
				e.OnTyping(rest)
			}
			return
		case "image":
			sender, data, err := decodeAttachment(rest)
			if err != nil {
				e.reportError(err)
				return
			}
			if e.OnImage != nil {
				e.OnImage(sender, data)
			}
			return
		case "voice":
			sender, data, err := decodeAttachment(rest)
			if err != nil {
				e.reportError(err)
				return
			}
			if e.OnVoice != nil {
				e.OnVoice(sender, data)
			}
			return
		case "file":
			sender, tail, ok := strings.Cut(rest, ":")
			if !ok {
				e.reportError(fmt.Errorf("client: malformed file relay %q", raw))
				return
			}
			filename, encoded, ok := strings.Cut(tail, ":")
			if !ok {
				e.reportError(fmt.Errorf("client: malformed file relay %q", raw))
				return
			}
			data, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				e.reportError(fmt.Errorf("client: decode file payload: %w", err))
				return
			}
			if e.OnFile != nil {
				e.OnFile(sender, filename, data)
			}
			return
		}
	}

	if e.OnChat != nil {
		e.OnChat(raw)
	}
}

// decodeRoster parses the name:status pairs of a list message.
func decodeRoster(body string) ([]model.PresenceEntry, error) {
	if body == "" {
		return nil, nil
	}
	pairs := strings.Split(body, ",")
	entries := make([]model.PresenceEntry, 0, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("client: malformed roster entry %q", pair)
		}
		entries = append(entries, model.PresenceEntry{Name: name, Status: model.Status(value)})
	}
	return entries, nil
}

// decodeAttachment splits sender:base64 and decodes the payload.
func decodeAttachment(body string) (sender string, data []byte, err error) {
	sender, encoded, ok := strings.Cut(body, ":")
	if !ok {
		return "", nil, fmt.Errorf("client: malformed attachment %q", body)
	}
	data, err = base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("client: decode attachment: %w", err)
	}
	return sender, data, nil
}

func (e *Engine) reportError(err error) {
	if e.OnError != nil {
		e.OnError(err)
		return
	}
	slog.Error("inbound message rejected", "err", err)
}
