package server

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// Transport wraps the process-wide UDP socket. Receives block; sends are
// best-effort and serialized under one mutex so that the dispatch loop and
// any background sender never interleave writes.
type Transport struct {
	conn   *net.UDPConn
	sendMu sync.Mutex
}

// Listen binds the UDP socket.
func Listen(bindAddr string) (*Transport, error) {
	addr, err := net.ResolveUDPAddr("udp", bindAddr)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve addr: %w", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen: %w", err)
	}

	// Increase UDP buffer size for better performance
	if err := conn.SetReadBuffer(1024 * 1024); err != nil {
		slog.Warn("failed to set UDP read buffer", "err", err)
	}
	if err := conn.SetWriteBuffer(1024 * 1024); err != nil {
		slog.Warn("failed to set UDP write buffer", "err", err)
	}

	return &Transport{conn: conn}, nil
}

// Receive blocks until one datagram arrives and returns its length and
// origin endpoint. It fails only when the socket is closed.
func (t *Transport) Receive(buf []byte) (int, *net.UDPAddr, error) {
	return t.conn.ReadFromUDP(buf)
}

// Send writes one datagram to an endpoint.
func (t *Transport) Send(addr *net.UDPAddr, payload []byte) error {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()
	if _, err := t.conn.WriteToUDP(payload, addr); err != nil {
		return fmt.Errorf("transport: send to %s: %w", addr, err)
	}
	return nil
}

// LocalAddr returns the bound address.
func (t *Transport) LocalAddr() net.Addr {
	return t.conn.LocalAddr()
}

// Close closes the socket, unblocking any pending Receive.
func (t *Transport) Close() error {
	return t.conn.Close()
}
