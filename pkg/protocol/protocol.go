// Package protocol defines the colon-delimited UTF-8 wire grammar spoken
// between clients and the server.
//
// Inbound messages carry an action tag before the first colon; everything
// after it is the argument string. A message with no colon is either the
// bare "logout" action or a plain chat line. Binary attachments (images,
// files, voice clips) travel Base64-encoded inside the text payload.
package protocol

import (
	"strings"

	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/model"
)

// MaxDatagram is the largest payload the server accepts or emits. UDP cannot
// carry more; senders of Base64 attachments must stay under this after the
// ~33% encoding inflation.
const MaxDatagram = 65535

// Inbound action tags.
const (
	ActionLogin   = "login"
	ActionLogout  = "logout"
	ActionStatus  = "status"
	ActionPrivate = "private"
	ActionImage   = "image"
	ActionFile    = "file"
	ActionVoice   = "voice"
	ActionTyping  = "typing"

	// ActionChat is the synthetic tag for the plain-chat fallback: any
	// message with no colon (other than "logout") or an unknown action tag.
	ActionChat = "chat"
)

// UnknownSender is relayed as the sender name on media messages whose origin
// endpoint has no registered session.
const UnknownSender = "unknown"

// Message is one parsed inbound datagram.
type Message struct {
	Action  string // tag before the first colon, or ActionChat for the fallback
	Args    string // everything after the first colon, empty if none
	HasArgs bool   // whether a colon was present
	Raw     string // the datagram exactly as received
}

var knownActions = map[string]bool{
	ActionLogin:   true,
	ActionLogout:  true,
	ActionStatus:  true,
	ActionPrivate: true,
	ActionImage:   true,
	ActionFile:    true,
	ActionVoice:   true,
	ActionTyping:  true,
}

// Parse splits a raw datagram into action and arguments. The first colon
// separates the two; a colon-less message is "logout" or plain chat, and an
// unrecognized tag also falls back to plain chat so that a message like
// "see you at 10:30" is never misread as a command.
func Parse(raw string) Message {
	idx := strings.IndexByte(raw, ':')
	if idx < 0 {
		if raw == ActionLogout {
			return Message{Action: ActionLogout, Raw: raw}
		}
		return Message{Action: ActionChat, Raw: raw}
	}

	tag := raw[:idx]
	if !knownActions[tag] || tag == ActionLogout {
		// "logout:x" is not a valid logout; treat it as chat like any
		// other unknown prefix.
		return Message{Action: ActionChat, Raw: raw}
	}
	return Message{Action: tag, Args: raw[idx+1:], HasArgs: true, Raw: raw}
}

// SplitArg2 splits an argument string on its first colon, for two-argument
// actions like private:<target>:<text> where the second argument may itself
// contain colons. ok is false when no colon is present.
func SplitArg2(args string) (first, second string, ok bool) {
	idx := strings.IndexByte(args, ':')
	if idx < 0 {
		return "", "", false
	}
	return args[:idx], args[idx+1:], true
}

// Roster builds the full roster snapshot message:
// list:<name1>:<status1>,<name2>:<status2>,...
func Roster(entries []model.PresenceEntry) string {
	var b strings.Builder
	b.WriteString("list:")
	for i, e := range entries {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(e.Name)
		b.WriteByte(':')
		b.WriteString(string(e.Status))
	}
	return b.String()
}

// StatusChange builds the presence-change broadcast: status:<name>:<status>.
func StatusChange(name string, status model.Status) string {
	return "status:" + name + ":" + string(status)
}

// ImageRelay builds the relayed-image broadcast: image:<sender>:<base64>.
func ImageRelay(sender, b64 string) string {
	return "image:" + sender + ":" + b64
}

// FileRelay builds the relayed-file broadcast: file:<sender>:<filename>:<base64>.
func FileRelay(sender, filename, b64 string) string {
	return "file:" + sender + ":" + filename + ":" + b64
}

// VoiceRelay builds the relayed-voice broadcast: voice:<sender>:<base64>.
func VoiceRelay(sender, b64 string) string {
	return "voice:" + sender + ":" + b64
}

// Chat builds the relayed plain chat line: <sender>: <text>.
func Chat(sender, text string) string {
	return sender + ": " + text
}

// PrivateFrom builds the message delivered to a private-message target.
func PrivateFrom(sender, text string) string {
	return "Private from " + sender + ": " + text
}

// PrivateEcho builds the local-echo confirmation unicast back to the sender.
func PrivateEcho(target, text string) string {
	return "To " + target + ": " + text
}

// Login builds the client-side login message.
func Login(name string) string {
	return "login:" + name
}

// SetStatus builds the client-side status-change message.
func SetStatus(status model.Status) string {
	return "status:" + string(status)
}

// Private builds the client-side private message.
func Private(target, text string) string {
	return "private:" + target + ":" + text
}

// Typing builds the typing indicator.
func Typing(name string) string {
	return "typing:" + name
}
