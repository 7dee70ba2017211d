// Package surface renders widget state onto a remote map page over the
// bridge. The page is opaque: any renderer that understands the render-op
// envelopes can attach.
package surface

import (
	"github.com/routepin/routepin/internal/bridge"
	"github.com/routepin/routepin/pkg/core"
	"github.com/routepin/routepin/pkg/mapbridge"
)

// Remote implements widget.Surface by sending render-op envelopes to the
// attached surface peer. With no peer attached every call is a no-op; the
// widget replays its state when a surface attaches.
type Remote struct {
	hub *bridge.Hub
}

// NewRemote builds a Remote on top of a hub.
func NewRemote(hub *bridge.Hub) *Remote {
	return &Remote{hub: hub}
}

func (r *Remote) PlaceMarker(m core.Marker, color string) {
	r.hub.SendToSurface(mapbridge.OpPlaceMarker, mapbridge.PlaceMarkerPayload{Marker: m, Color: color})
}

func (r *Remote) MoveMarker(routeID, markerID int, pos core.LatLng) {
	r.hub.SendToSurface(mapbridge.OpMoveMarker, mapbridge.MoveMarkerPayload{
		RouteID:  routeID,
		MarkerID: markerID,
		Position: pos,
	})
}

func (r *Remote) RemoveMarker(routeID, markerID int) {
	r.hub.SendToSurface(mapbridge.OpRemoveMarker, mapbridge.RemoveMarkerOpPayload{
		RouteID:  routeID,
		MarkerID: markerID,
	})
}

func (r *Remote) SetPath(routeID int, color string, path core.Polyline) {
	r.hub.SendToSurface(mapbridge.OpSetPath, mapbridge.SetPathPayload{
		RouteID: routeID,
		Color:   color,
		Path:    path,
	})
}

func (r *Remote) RemovePath(routeID int) {
	r.hub.SendToSurface(mapbridge.OpRemovePath, mapbridge.RemovePathPayload{RouteID: routeID})
}

func (r *Remote) SetPOIHidden(hidden bool) {
	r.hub.SendToSurface(mapbridge.OpSetPOIStyle, mapbridge.SetPOIStylePayload{Hidden: hidden})
}

func (r *Remote) ClearStyle() {
	r.hub.SendToSurface(mapbridge.OpClearStyle, nil)
}
