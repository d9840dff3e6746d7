package server

import (
	"log/slog"
	"net"
)

// Send is one pending outbound datagram. Handlers return sends instead of
// writing to the socket so dispatch stays testable without one.
type Send struct {
	To      *net.UDPAddr
	Payload string
}

// broadcastAll builds a send to every connected endpoint. The recipient set
// is a snapshot taken here: a login or logout mid-fan-out cannot skip or
// duplicate a recipient.
func broadcastAll(reg *Registry, payload string) []Send {
	endpoints := reg.Endpoints()
	sends := make([]Send, 0, len(endpoints))
	for _, addr := range endpoints {
		sends = append(sends, Send{To: addr, Payload: payload})
	}
	return sends
}

// broadcastExcept is broadcastAll minus one endpoint.
func broadcastExcept(reg *Registry, payload string, except *net.UDPAddr) []Send {
	exceptKey := except.String()
	endpoints := reg.Endpoints()
	sends := make([]Send, 0, len(endpoints))
	for _, addr := range endpoints {
		if addr.String() == exceptKey {
			continue
		}
		sends = append(sends, Send{To: addr, Payload: payload})
	}
	return sends
}

// unicast builds a single send.
func unicast(addr *net.UDPAddr, payload string) []Send {
	return []Send{{To: addr, Payload: payload}}
}

// deliver performs the sends. A failed destination is logged and counted;
// the rest of the fan-out always continues, and nothing is ever retried.
func (s *Server) deliver(sends []Send) {
	for _, snd := range sends {
		if err := s.send(snd.To, []byte(snd.Payload)); err != nil {
			slog.Error("delivery failed", "target", snd.To, "err", err)
			s.metrics.SendErrors.Add(1)
			continue
		}
		s.metrics.DatagramsOut.Add(1)
		s.metrics.BytesOut.Add(int64(len(snd.Payload)))
	}
}
