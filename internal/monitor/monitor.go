// Package monitor periodically snapshots widget state into a status file and
// ships route statistics to telemetry. The status file gives the host side a
// cheap way to check on the widget without opening a bridge connection.
package monitor

import (
	"encoding/json"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/routepin/routepin/internal/geo"
	"github.com/routepin/routepin/pkg/core"
)

// RouteSource provides the current route state.
type RouteSource interface {
	Snapshot() []core.RouteSnapshot
}

// PeerCounter reports how many bridge peers are attached.
type PeerCounter interface {
	PeerCount() int
}

// StatsRecorder receives per-route statistics. Implemented by the telemetry
// manager; nil disables recording.
type StatsRecorder interface {
	RecordRouteStats(routeID int, markers int, lengthMeters float64)
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Routes     RouteSource
	Peers      PeerCounter
	Recorder   StatsRecorder
	Logger     *slog.Logger
	StatusPath string
	Interval   time.Duration
}

// Status is what gets written to the status file.
type Status struct {
	Time              time.Time `json:"time"`
	Peers             int       `json:"peers"`
	Routes            int       `json:"routes"`
	Markers           int       `json:"markers"`
	TotalLengthMeters float64   `json:"totalLengthMeters"`
	Goroutines        int       `json:"goroutines"`
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetStatus builds the current status from the widget snapshot.
func (s *Service) GetStatus() Status {
	snaps := s.deps.Routes.Snapshot()

	status := Status{
		Time:       time.Now(),
		Routes:     len(snaps),
		Goroutines: runtime.NumGoroutine(),
	}
	if s.deps.Peers != nil {
		status.Peers = s.deps.Peers.PeerCount()
	}
	for _, snap := range snaps {
		status.Markers += len(snap.Markers)
		status.TotalLengthMeters += geo.PathLengthMeters(snap.Path)
	}
	return status
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.Logger
		logger.Debug("Starting status monitor goroutine", "path", s.deps.StatusPath)

		statusFile, err := os.Create(s.deps.StatusPath)
		if err != nil {
			logger.Error("Error creating status file", "error", err)
		}
		defer func() {
			if statusFile != nil {
				statusFile.Close()
			}
		}()

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				status := s.GetStatus()

				if statusFile != nil {
					data, err := json.MarshalIndent(status, "", "  ")
					if err != nil {
						logger.Error("Error marshaling status", "error", err)
						continue
					}
					statusFile.Truncate(0)
					statusFile.Seek(0, 0)
					statusFile.Write(data)
					statusFile.WriteString("\n")
				}

				if s.deps.Recorder != nil {
					for _, snap := range s.deps.Routes.Snapshot() {
						s.deps.Recorder.RecordRouteStats(snap.ID, len(snap.Markers), geo.PathLengthMeters(snap.Path))
					}
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
	}
}
