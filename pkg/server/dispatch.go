package server

import (
	"log/slog"
	"net"

	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/model"
	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/protocol"
)

// dispatch routes one parsed message to its handler and returns the sends
// the handler produced. Handlers mutate the registry and presence store but
// never touch the socket; malformed or unauthorized messages produce zero
// sends and are never answered with an error (the protocol has no NACK).
func (s *Server) dispatch(origin *net.UDPAddr, msg protocol.Message) []Send {
	switch msg.Action {
	case protocol.ActionLogin:
		return s.handleLogin(origin, msg.Args)
	case protocol.ActionLogout:
		return s.handleLogout(origin)
	case protocol.ActionStatus:
		return s.handleStatus(origin, msg.Args)
	case protocol.ActionPrivate:
		return s.handlePrivate(origin, msg.Args)
	case protocol.ActionImage:
		return s.handleImage(origin, msg.Args)
	case protocol.ActionFile:
		return s.handleFile(origin, msg.Args)
	case protocol.ActionVoice:
		return s.handleVoice(origin, msg.Args)
	case protocol.ActionTyping:
		return s.handleTyping(origin, msg.Raw)
	default:
		return s.handleChat(origin, msg.Raw)
	}
}

// handleLogin registers the session, marks the name online, broadcasts the
// full roster to everyone, then unicasts the roster to the new endpoint once
// more so a first client with no peers still learns the current state.
func (s *Server) handleLogin(origin *net.UDPAddr, name string) []Send {
	if err := model.ValidateName(name); err != nil {
		slog.Debug("login rejected", "origin", origin, "err", err)
		s.metrics.ProtocolDrops.Add(1)
		return nil
	}

	s.registry.Register(origin, name)
	s.presence.Set(name, model.StatusOnline)
	s.metrics.Logins.Add(1)
	slog.Info("client logged in", "name", name, "origin", origin)

	roster := protocol.Roster(s.presence.Snapshot())
	sends := broadcastAll(s.registry, roster)
	return append(sends, unicast(origin, roster)...)
}

// handleLogout unregisters the endpoint, downgrades the removed name to
// offline (the presence entry is kept), and broadcasts the roster to the
// remaining clients.
func (s *Server) handleLogout(origin *net.UDPAddr) []Send {
	name, ok := s.registry.Unregister(origin)
	if ok {
		s.presence.Set(name, model.StatusOffline)
		s.metrics.Logouts.Add(1)
		slog.Info("client logged out", "name", name, "origin", origin)
	}

	return broadcastAll(s.registry, protocol.Roster(s.presence.Snapshot()))
}

func (s *Server) handleStatus(origin *net.UDPAddr, value string) []Send {
	name, ok := s.registry.NameOf(origin)
	if !ok {
		s.metrics.UnauthDrops.Add(1)
		return nil
	}

	status, err := model.ParseStatus(value)
	if err != nil {
		slog.Debug("invalid status ignored", "name", name, "value", value)
		s.metrics.ProtocolDrops.Add(1)
		return nil
	}

	s.presence.Set(name, status)
	s.metrics.StatusChanges.Add(1)
	return broadcastAll(s.registry, protocol.StatusChange(name, status))
}

// handlePrivate resolves the target by name and produces exactly two
// unicasts: the message to the target and a local echo to the sender. An
// unknown sender, malformed arguments, or an unknown target produce zero
// sends.
func (s *Server) handlePrivate(origin *net.UDPAddr, args string) []Send {
	sender, ok := s.registry.NameOf(origin)
	if !ok {
		s.metrics.UnauthDrops.Add(1)
		return nil
	}

	target, text, ok := protocol.SplitArg2(args)
	if !ok {
		s.metrics.ProtocolDrops.Add(1)
		return nil
	}

	targetAddr, ok := s.registry.EndpointOf(target)
	if !ok {
		slog.Debug("private target not connected", "sender", sender, "target", target)
		return nil
	}

	s.metrics.PrivateMessages.Add(1)
	sends := unicast(targetAddr, protocol.PrivateFrom(sender, text))
	return append(sends, unicast(origin, protocol.PrivateEcho(target, text))...)
}

// handleImage relays to everyone except the origin: the sending client
// already renders its own outgoing image locally.
func (s *Server) handleImage(origin *net.UDPAddr, b64 string) []Send {
	s.metrics.MediaRelays.Add(1)
	return broadcastExcept(s.registry, protocol.ImageRelay(s.senderName(origin), b64), origin)
}

// handleFile relays to everyone including the origin. The asymmetry with
// handleImage is inherited wire behavior that deployed clients depend on.
func (s *Server) handleFile(origin *net.UDPAddr, args string) []Send {
	filename, b64, ok := protocol.SplitArg2(args)
	if !ok {
		s.metrics.ProtocolDrops.Add(1)
		return nil
	}
	s.metrics.MediaRelays.Add(1)
	return broadcastAll(s.registry, protocol.FileRelay(s.senderName(origin), filename, b64))
}

func (s *Server) handleVoice(origin *net.UDPAddr, b64 string) []Send {
	s.metrics.MediaRelays.Add(1)
	return broadcastAll(s.registry, protocol.VoiceRelay(s.senderName(origin), b64))
}

// handleTyping rebroadcasts the indicator verbatim, typer included, when the
// sender has a session.
func (s *Server) handleTyping(origin *net.UDPAddr, raw string) []Send {
	if _, ok := s.registry.NameOf(origin); !ok {
		s.metrics.UnauthDrops.Add(1)
		return nil
	}
	s.metrics.TypingRelays.Add(1)
	return broadcastAll(s.registry, raw)
}

// handleChat is the fallback for every message that is not a recognized
// command: broadcast it as "<sender>: <text>" if the sender is logged in.
func (s *Server) handleChat(origin *net.UDPAddr, raw string) []Send {
	sender, ok := s.registry.NameOf(origin)
	if !ok {
		s.metrics.UnauthDrops.Add(1)
		return nil
	}
	s.metrics.ChatBroadcasts.Add(1)
	return broadcastAll(s.registry, protocol.Chat(sender, raw))
}

// senderName resolves the origin's display name, or "unknown" for media
// relays from endpoints with no session.
func (s *Server) senderName(origin *net.UDPAddr) string {
	if name, ok := s.registry.NameOf(origin); ok {
		return name
	}
	return protocol.UnknownSender
}
