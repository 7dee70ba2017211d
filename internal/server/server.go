// Package server exposes the map page, the two bridge WebSocket endpoints
// and a small status API over one HTTP listener.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/routepin/routepin/internal/bridge"
	"github.com/routepin/routepin/internal/config"
	"github.com/routepin/routepin/internal/geo"
	"github.com/routepin/routepin/internal/widget"
	"github.com/routepin/routepin/pkg/core"
)

// Server owns the HTTP listener. The host attaches on /ws/host, the map
// page on /ws/surface; both speak bridge envelopes.
type Server struct {
	widget   *widget.Widget
	bridge   *bridge.Bridge
	hub      *bridge.Hub
	static   http.Handler
	mapCfg   config.MapConfig
	logger   *slog.Logger
	httpSrv  *http.Server
	upgrader ws.Upgrader
}

// New builds a Server. static serves the embedded map page; pass nil to run
// without one (the host API and status endpoints still work).
func New(addr string, w *widget.Widget, b *bridge.Bridge, hub *bridge.Hub, static http.Handler, mapCfg config.MapConfig, logger *slog.Logger) *Server {
	s := &Server{
		widget: w,
		bridge: b,
		hub:    hub,
		static: static,
		mapCfg: mapCfg,
		logger: logger,
		// Local tool, peers connect from file:// pages and native hosts.
		upgrader: ws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the route table for the listener. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthcheck", s.handleHealthcheck)
	mux.HandleFunc("/routes", s.handleRoutes)
	mux.HandleFunc("/mapconfig", s.handleMapConfig)
	mux.HandleFunc("/ws/host", s.handleHostWS)
	mux.HandleFunc("/ws/surface", s.handleSurfaceWS)
	if s.static != nil {
		mux.Handle("/", s.static)
	}
	return mux
}

// Start begins serving. Blocks until the listener stops.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", "addr", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains the listener gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleMapConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.mapCfg)
}

type routeStatus struct {
	ID           int           `json:"id"`
	Color        string        `json:"color"`
	Markers      []core.Marker `json:"markers"`
	Path         core.Polyline `json:"path"`
	LengthMeters float64       `json:"lengthMeters"`
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	snaps := s.widget.Snapshot()
	out := make([]routeStatus, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, routeStatus{
			ID:           snap.ID,
			Color:        snap.Color,
			Markers:      snap.Markers,
			Path:         snap.Path,
			LengthMeters: geo.PathLengthMeters(snap.Path),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) handleHostWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Host WebSocket upgrade failed", "error", err)
		return
	}

	peer := bridge.NewPeer("host", conn, s.logger, s.bridge.HandleHostEnvelope, s.hub.Drop)
	s.hub.SetHost(peer)
	s.logger.Info("Host attached", "remote", r.RemoteAddr)
}

func (s *Server) handleSurfaceWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Surface WebSocket upgrade failed", "error", err)
		return
	}

	peer := bridge.NewPeer("surface", conn, s.logger, s.bridge.HandleSurfaceEnvelope, s.hub.Drop)
	s.hub.SetSurface(peer)
	s.logger.Info("Surface attached", "remote", r.RemoteAddr)

	// Replay current state so a late or reloaded page catches up.
	s.widget.Redraw()
}
