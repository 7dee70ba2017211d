package widget

import "github.com/routepin/routepin/pkg/core"

// Surface is the boundary with the mapping library. Any renderer that can
// place draggable markers and draw a polyline keyed by an ordered sequence
// of positions is substitutable here.
type Surface interface {
	PlaceMarker(m core.Marker, color string)
	MoveMarker(routeID, markerID int, pos core.LatLng)
	RemoveMarker(routeID, markerID int)
	SetPath(routeID int, color string, path core.Polyline)
	RemovePath(routeID int)

	// SetPOIHidden applies a style override suppressing point-of-interest
	// and transit labels. ClearStyle removes every style override, not just
	// the POI one.
	SetPOIHidden(hidden bool)
	ClearStyle()
}

// Notifier delivers widget-originated events to the native host.
// Both calls are fire-and-forget: no return value, no acknowledgment.
type Notifier interface {
	PointAdded(e core.PointEvent)
	MarkerMoved(e core.PointEvent)
}

type nopSurface struct{}

func (nopSurface) PlaceMarker(core.Marker, string)    {}
func (nopSurface) MoveMarker(int, int, core.LatLng)   {}
func (nopSurface) RemoveMarker(int, int)              {}
func (nopSurface) SetPath(int, string, core.Polyline) {}
func (nopSurface) RemovePath(int)                     {}
func (nopSurface) SetPOIHidden(bool)                  {}
func (nopSurface) ClearStyle()                        {}

type nopNotifier struct{}

func (nopNotifier) PointAdded(core.PointEvent)  {}
func (nopNotifier) MarkerMoved(core.PointEvent) {}
