package client

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/model"
	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/protocol"
)

// State represents the client's connection state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

// Engine drives one chat session: it logs in, relays outbound commands,
// and routes inbound server messages to callbacks.
type Engine struct {
	mu sync.RWMutex

	state    State
	username string

	conn   *net.UDPConn
	sendMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc

	// Callbacks for UI updates
	OnRoster       func(entries []model.PresenceEntry)
	OnStatusChange func(name string, status model.Status)
	OnChat         func(line string)
	OnTyping       func(name string)
	OnImage        func(sender string, data []byte)
	OnFile         func(sender, filename string, data []byte)
	OnVoice        func(sender string, data []byte)
	OnError        func(err error)
	OnDisconnect   func(reason string)
}

// NewEngine creates a disconnected engine.
func NewEngine() *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		state:  StateDisconnected,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Connect dials the server, logs in, and starts the receive loop.
func (e *Engine) Connect(serverAddr, username string) error {
	if err := model.ValidateName(username); err != nil {
		return fmt.Errorf("client: %w", err)
	}

	e.mu.Lock()
	if e.state != StateDisconnected {
		e.mu.Unlock()
		return fmt.Errorf("client: already connected")
	}
	e.state = StateConnecting
	e.mu.Unlock()

	addr, err := net.ResolveUDPAddr("udp", serverAddr)
	if err != nil {
		e.setState(StateDisconnected)
		return fmt.Errorf("client: resolve %s: %w", serverAddr, err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		e.setState(StateDisconnected)
		return fmt.Errorf("client: dial %s: %w", serverAddr, err)
	}

	e.mu.Lock()
	e.conn = conn
	e.username = username
	e.state = StateConnected
	e.mu.Unlock()

	if err := e.send(protocol.Login(username)); err != nil {
		_ = conn.Close()
		e.setState(StateDisconnected)
		return err
	}

	slog.Info("connected", "server", serverAddr, "user", username)
	go e.receiveLoop(conn)
	return nil
}

// State returns the current connection state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Username returns the name used at login.
func (e *Engine) Username() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.username
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// send writes one datagram. The mutex keeps concurrent senders (stdin
// loop, typing notifications) from interleaving partial writes.
func (e *Engine) send(payload string) error {
	if len(payload) > protocol.MaxDatagram {
		return fmt.Errorf("client: message of %d bytes exceeds datagram limit", len(payload))
	}

	e.mu.RLock()
	conn := e.conn
	e.mu.RUnlock()
	if conn == nil {
		return fmt.Errorf("client: not connected")
	}

	e.sendMu.Lock()
	defer e.sendMu.Unlock()
	if _, err := conn.Write([]byte(payload)); err != nil {
		return fmt.Errorf("client: send: %w", err)
	}
	return nil
}

// SendChat broadcasts a plain chat line.
func (e *Engine) SendChat(text string) error {
	return e.send(text)
}

// SendPrivate sends a direct message to one user.
func (e *Engine) SendPrivate(target, text string) error {
	return e.send(protocol.Private(target, text))
}

// SetStatus publishes a presence change.
func (e *Engine) SetStatus(status model.Status) error {
	if !status.Valid() {
		return fmt.Errorf("client: %w: %q", model.ErrInvalidStatus, status)
	}
	return e.send(protocol.SetStatus(status))
}

// SendTyping tells everyone this user is typing.
func (e *Engine) SendTyping() error {
	e.mu.RLock()
	name := e.username
	e.mu.RUnlock()
	return e.send(protocol.Typing(name))
}

// SendImage reads a local file and broadcasts it inline as an image.
func (e *Engine) SendImage(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("client: read image: %w", err)
	}
	return e.send("image:" + base64.StdEncoding.EncodeToString(data))
}

// SendFile reads a local file and broadcasts it inline with its base name.
func (e *Engine) SendFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("client: read file: %w", err)
	}
	name := filepath.Base(path)
	return e.send("file:" + name + ":" + base64.StdEncoding.EncodeToString(data))
}

// SendVoice broadcasts a recorded clip inline.
func (e *Engine) SendVoice(data []byte) error {
	return e.send("voice:" + base64.StdEncoding.EncodeToString(data))
}

// Close logs out and tears down the connection. Safe to call twice.
func (e *Engine) Close() error {
	e.mu.Lock()
	conn := e.conn
	connected := e.state == StateConnected
	e.conn = nil
	e.state = StateDisconnected
	e.mu.Unlock()

	e.cancel()
	if conn == nil {
		return nil
	}
	if connected {
		e.sendMu.Lock()
		_, _ = conn.Write([]byte(protocol.ActionLogout))
		e.sendMu.Unlock()
	}
	return conn.Close()
}

// receiveLoop reads server datagrams until the connection closes.
func (e *Engine) receiveLoop(conn *net.UDPConn) {
	buf := make([]byte, protocol.MaxDatagram+1)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			select {
			case <-e.ctx.Done():
				return
			default:
			}
			e.setState(StateDisconnected)
			if e.OnDisconnect != nil {
				e.OnDisconnect(err.Error())
			}
			return
		}
		e.route(string(buf[:n]))
	}
}
