package bridge

import (
	"log/slog"
	"sync"
)

// Hub tracks the at-most-one host peer and at-most-one surface peer.
// A late attachment replaces (and closes) the previous peer in that slot.
type Hub struct {
	mu      sync.RWMutex
	host    *Peer
	surface *Peer
	logger  *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{logger: logger}
}

// SetHost installs the host peer, closing any previous one.
func (h *Hub) SetHost(p *Peer) {
	h.mu.Lock()
	old := h.host
	h.host = p
	h.mu.Unlock()

	if old != nil {
		h.logger.Info("Replacing host peer")
		old.Close()
	}
}

// SetSurface installs the surface peer, closing any previous one.
func (h *Hub) SetSurface(p *Peer) {
	h.mu.Lock()
	old := h.surface
	h.surface = p
	h.mu.Unlock()

	if old != nil {
		h.logger.Info("Replacing surface peer")
		old.Close()
	}
}

// Drop clears the slot holding p, if it still does. Called from peer
// close callbacks; a peer that was already replaced is left alone.
func (h *Hub) Drop(p *Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.host == p {
		h.host = nil
	}
	if h.surface == p {
		h.surface = nil
	}
}

// Host returns the attached host peer, or nil.
func (h *Hub) Host() *Peer {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.host
}

// Surface returns the attached surface peer, or nil.
func (h *Hub) Surface() *Peer {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.surface
}

// PeerCount reports how many peers are attached, for diagnostics.
func (h *Hub) PeerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	if h.host != nil {
		n++
	}
	if h.surface != nil {
		n++
	}
	return n
}

// SendToHost delivers one envelope to the host peer. With no host attached
// the notification is dropped, per the one-way contract.
func (h *Hub) SendToHost(msgType string, payload any) {
	p := h.Host()
	if p == nil {
		h.logger.Debug("No host attached, dropping notification", "type", msgType)
		return
	}
	p.SendEnvelope(msgType, payload)
}

// SendToSurface delivers one envelope to the surface peer. With no surface
// attached the render op is dropped; the widget state stays authoritative
// and is replayed when a surface attaches.
func (h *Hub) SendToSurface(msgType string, payload any) {
	p := h.Surface()
	if p == nil {
		return
	}
	p.SendEnvelope(msgType, payload)
}
