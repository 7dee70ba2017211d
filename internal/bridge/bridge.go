// Package bridge connects the widget to its two WebSocket peers: the native
// host issuing commands and the map surface reporting gestures. Traffic is
// one-way per message; nothing on the bridge is acknowledged or retried.
package bridge

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/routepin/routepin/internal/dispatcher"
	"github.com/routepin/routepin/internal/widget"
	"github.com/routepin/routepin/pkg/core"
	"github.com/routepin/routepin/pkg/mapbridge"
)

// Recorder counts bridge method invocations. Implemented by the telemetry
// manager; nil disables counting.
type Recorder interface {
	CountBridgeCall(method string)
}

// Exporter writes routes to disk on host request.
type Exporter interface {
	ExportRoute(routeID int, filename string) error
	WriteSnapshot(filename string) error
}

// Bridge routes incoming envelopes to widget operations and pushes
// widget-originated notifications to the host peer. It is the widget's
// Notifier.
type Bridge struct {
	widget   *widget.Widget
	hub      *Hub
	disp     *dispatcher.Dispatcher
	exporter Exporter
	recorder Recorder
	logger   *slog.Logger
}

// New wires a Bridge and registers a handler for every bridge method.
// Handlers run synchronously on the reader's goroutine, which keeps
// commands from one peer strictly in order.
func New(w *widget.Widget, hub *Hub, disp *dispatcher.Dispatcher, exporter Exporter, recorder Recorder, logger *slog.Logger) *Bridge {
	b := &Bridge{
		widget:   w,
		hub:      hub,
		disp:     disp,
		exporter: exporter,
		recorder: recorder,
		logger:   logger,
	}
	b.registerHandlers()
	return b
}

func decode[T any](e dispatcher.Event) (T, error) {
	var v T
	if err := json.Unmarshal(e.Payload, &v); err != nil {
		return v, fmt.Errorf("decoding %s payload: %w", e.Method, err)
	}
	return v, nil
}

func (b *Bridge) registerHandlers() {
	b.disp.Register(mapbridge.MethodSetCurrentRoute, func(e dispatcher.Event) (any, error) {
		p, err := decode[mapbridge.SetCurrentRoutePayload](e)
		if err != nil {
			return nil, err
		}
		b.widget.SetCurrentRoute(p.RouteID)
		return nil, nil
	}, dispatcher.Logged())

	b.disp.Register(mapbridge.MethodAddRoute, func(e dispatcher.Event) (any, error) {
		p, err := decode[mapbridge.AddRoutePayload](e)
		if err != nil {
			return nil, err
		}
		b.widget.AddRoute(p.RouteID, p.Color)
		return nil, nil
	}, dispatcher.Logged())

	b.disp.Register(mapbridge.MethodAddMarkerToRoute, func(e dispatcher.Event) (any, error) {
		p, err := decode[mapbridge.AddMarkerPayload](e)
		if err != nil {
			return nil, err
		}
		b.widget.AddMarkerToRoute(p.RouteID, p.MarkerID, core.LatLng{Lat: p.Lat, Lng: p.Lng})
		return nil, nil
	}, dispatcher.Logged())

	b.disp.Register(mapbridge.MethodRemoveMarkerFromRoute, func(e dispatcher.Event) (any, error) {
		p, err := decode[mapbridge.RemoveMarkerPayload](e)
		if err != nil {
			return nil, err
		}
		b.widget.RemoveMarkerFromRoute(p.RouteID, p.MarkerID)
		return nil, nil
	}, dispatcher.Logged())

	b.disp.Register(mapbridge.MethodClearCurrentRoute, func(e dispatcher.Event) (any, error) {
		p, err := decode[mapbridge.ClearRoutePayload](e)
		if err != nil {
			return nil, err
		}
		b.widget.ClearRoute(p.RouteID)
		return nil, nil
	}, dispatcher.Logged())

	b.disp.Register(mapbridge.MethodClearAllRoutes, func(e dispatcher.Event) (any, error) {
		b.widget.ClearAllRoutes()
		return nil, nil
	}, dispatcher.Logged())

	b.disp.Register(mapbridge.MethodTogglePOI, func(e dispatcher.Event) (any, error) {
		b.widget.TogglePOI()
		return nil, nil
	}, dispatcher.Logged())

	b.disp.Register(mapbridge.MethodExportRoute, func(e dispatcher.Event) (any, error) {
		if b.exporter == nil {
			return nil, fmt.Errorf("no exporter configured")
		}
		p, err := decode[mapbridge.ExportRoutePayload](e)
		if err != nil {
			return nil, err
		}
		return nil, b.exporter.ExportRoute(p.RouteID, p.Filename)
	}, dispatcher.Logged())

	b.disp.Register(mapbridge.MethodExportSnapshot, func(e dispatcher.Event) (any, error) {
		if b.exporter == nil {
			return nil, fmt.Errorf("no exporter configured")
		}
		// The payload is optional; an absent one means the default filename.
		var p mapbridge.ExportSnapshotPayload
		if len(e.Payload) > 0 {
			var err error
			p, err = decode[mapbridge.ExportSnapshotPayload](e)
			if err != nil {
				return nil, err
			}
		}
		return nil, b.exporter.WriteSnapshot(p.Filename)
	}, dispatcher.Logged())

	b.disp.Register(mapbridge.EventClick, func(e dispatcher.Event) (any, error) {
		p, err := decode[mapbridge.ClickPayload](e)
		if err != nil {
			return nil, err
		}
		b.widget.HandleClick(core.LatLng{Lat: p.Lat, Lng: p.Lng})
		return nil, nil
	})

	b.disp.Register(mapbridge.EventDragEnd, func(e dispatcher.Event) (any, error) {
		p, err := decode[mapbridge.DragEndPayload](e)
		if err != nil {
			return nil, err
		}
		b.widget.HandleDragEnd(p.RouteID, p.MarkerID, core.LatLng{Lat: p.Lat, Lng: p.Lng})
		return nil, nil
	})
}

// hostMethods is the set of commands a host peer may issue.
var hostMethods = map[string]struct{}{
	mapbridge.MethodSetCurrentRoute:       {},
	mapbridge.MethodAddRoute:              {},
	mapbridge.MethodAddMarkerToRoute:      {},
	mapbridge.MethodRemoveMarkerFromRoute: {},
	mapbridge.MethodClearCurrentRoute:     {},
	mapbridge.MethodClearAllRoutes:        {},
	mapbridge.MethodTogglePOI:             {},
	mapbridge.MethodExportRoute:           {},
	mapbridge.MethodExportSnapshot:        {},
}

// surfaceEvents is the set of gestures a surface peer may report.
var surfaceEvents = map[string]struct{}{
	mapbridge.EventClick:   {},
	mapbridge.EventDragEnd: {},
}

// HandleHostEnvelope routes one envelope from the host peer. Anything
// outside the host command set is logged and dropped, so a misbehaving host
// cannot inject surface gestures.
func (b *Bridge) HandleHostEnvelope(env mapbridge.Envelope) {
	if _, ok := hostMethods[env.Type]; !ok {
		b.logger.Warn("Dropping message outside host command set", "type", env.Type)
		return
	}
	b.handleEnvelope(env)
}

// HandleSurfaceEnvelope routes one envelope from the surface peer. Only
// gesture events pass; a compromised page cannot issue host commands.
func (b *Bridge) HandleSurfaceEnvelope(env mapbridge.Envelope) {
	if _, ok := surfaceEvents[env.Type]; !ok {
		b.logger.Warn("Dropping message outside surface event set", "type", env.Type)
		return
	}
	b.handleEnvelope(env)
}

// handleEnvelope dispatches one incoming envelope. Failures are logged and
// the message is dropped; the sender never gets an error back.
func (b *Bridge) handleEnvelope(env mapbridge.Envelope) {
	if b.recorder != nil {
		b.recorder.CountBridgeCall(env.Type)
	}
	e := dispatcher.Event{Method: env.Type, Payload: env.Payload, Timestamp: time.Now()}
	if _, err := b.disp.Dispatch(e); err != nil {
		b.logger.Warn("Dropping bridge message", "type", env.Type, "error", err)
	}
}

// PointAdded implements widget.Notifier.
func (b *Bridge) PointAdded(e core.PointEvent) {
	if b.recorder != nil {
		b.recorder.CountBridgeCall(mapbridge.MethodPointAdded)
	}
	b.hub.SendToHost(mapbridge.MethodPointAdded, mapbridge.PointEventPayload{
		Lat:      e.Position.Lat,
		Lng:      e.Position.Lng,
		MarkerID: e.MarkerID,
		RouteID:  e.RouteID,
	})
}

// MarkerMoved implements widget.Notifier.
func (b *Bridge) MarkerMoved(e core.PointEvent) {
	if b.recorder != nil {
		b.recorder.CountBridgeCall(mapbridge.MethodMarkerMoved)
	}
	b.hub.SendToHost(mapbridge.MethodMarkerMoved, mapbridge.PointEventPayload{
		Lat:      e.Position.Lat,
		Lng:      e.Position.Lng,
		MarkerID: e.MarkerID,
		RouteID:  e.RouteID,
	})
}
