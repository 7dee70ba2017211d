package bridge

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/routepin/routepin/pkg/mapbridge"
)

const (
	sendChSize = 10_000
	writeWait  = 10 * time.Second
)

// Peer wraps one accepted WebSocket connection with a single write
// goroutine. Sends are fire-and-forget: no acknowledgments, no retry, and a
// full send buffer drops the message. Messages on one peer stay in order.
type Peer struct {
	name   string
	conn   *ws.Conn
	sendCh chan []byte
	done   chan struct{}
	logger *slog.Logger

	mu     sync.Mutex
	closed bool

	onMessage func(mapbridge.Envelope)
	onClose   func(*Peer)
}

// NewPeer starts the read and write loops for an accepted connection.
// onMessage receives every decoded envelope; onClose fires once when the
// connection dies or Close is called.
func NewPeer(name string, conn *ws.Conn, logger *slog.Logger, onMessage func(mapbridge.Envelope), onClose func(*Peer)) *Peer {
	p := &Peer{
		name:      name,
		conn:      conn,
		sendCh:    make(chan []byte, sendChSize),
		done:      make(chan struct{}),
		logger:    logger,
		onMessage: onMessage,
		onClose:   onClose,
	}

	go p.writeLoop()
	go p.readLoop()

	return p
}

// Name identifies the peer in logs ("host" or "surface").
func (p *Peer) Name() string { return p.name }

// writeLoop drains sendCh and writes messages to the WebSocket.
// Only one writeLoop runs per peer; it returns on error or shutdown.
func (p *Peer) writeLoop() {
	for {
		select {
		case <-p.done:
			return
		case data := <-p.sendCh:
			if err := p.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				p.logger.Warn("WebSocket SetWriteDeadline error", "peer", p.name, "error", err)
				p.Close()
				return
			}
			if err := p.conn.WriteMessage(ws.TextMessage, data); err != nil {
				p.logger.Warn("WebSocket write error", "peer", p.name, "error", err)
				p.Close()
				return
			}
		}
	}
}

// readLoop decodes envelopes off the wire and hands them to onMessage.
// Malformed frames are logged and skipped, never answered.
func (p *Peer) readLoop() {
	for {
		_, message, err := p.conn.ReadMessage()
		if err != nil {
			select {
			case <-p.done:
			default:
				p.logger.Info("WebSocket peer disconnected", "peer", p.name, "error", err)
				p.Close()
			}
			return
		}

		var env mapbridge.Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			p.logger.Debug("Dropping malformed message", "peer", p.name, "raw", string(message))
			continue
		}

		if p.onMessage != nil {
			p.onMessage(env)
		}
	}
}

// Send pushes raw data to the write loop. Non-blocking; drops if the
// channel is full.
func (p *Peer) Send(data []byte) {
	select {
	case p.sendCh <- data:
	default:
		p.logger.Warn("Send channel full, dropping message", "peer", p.name)
	}
}

// SendEnvelope marshals and sends one envelope.
func (p *Peer) SendEnvelope(msgType string, payload any) {
	data, err := mapbridge.Marshal(msgType, payload)
	if err != nil {
		p.logger.Error("Failed to marshal envelope", "peer", p.name, "type", msgType, "error", err)
		return
	}
	p.Send(data)
}

// Close sends a WebSocket close frame and shuts down the peer's goroutines.
// Safe to call more than once.
func (p *Peer) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.done)
	p.mu.Unlock()

	_ = p.conn.WriteMessage(
		ws.CloseMessage,
		ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
	)
	_ = p.conn.Close()

	if p.onClose != nil {
		p.onClose(p)
	}
}
