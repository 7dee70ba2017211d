// Package core holds the value types shared between the widget, the bridge
// and the wire protocol.
package core

// DefaultRouteColor is used when a marker is added to a route that does not
// exist yet and the route has to be created on the fly.
const DefaultRouteColor = "red"

// LatLng is a geographic position in floating-point degrees (EPSG:4326).
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Marker is a single draggable waypoint. The ID is unique only within the
// owning route; uniqueness across routes is not guaranteed.
type Marker struct {
	ID        int    `json:"id"`
	RouteID   int    `json:"routeId"`
	Position  LatLng `json:"position"`
	Draggable bool   `json:"draggable"`
}

// Polyline is the ordered sequence of positions connecting a route's
// markers. It is derived state: always the marker positions sorted by
// ascending marker ID, never authoritative on its own.
type Polyline []LatLng

// PointEvent carries a click or drag notification from the widget to the
// native host.
type PointEvent struct {
	Position LatLng `json:"position"`
	MarkerID int    `json:"markerId"`
	RouteID  int    `json:"routeId"`
}

// RouteSnapshot is a read-only view of one route, used by status endpoints
// and exports.
type RouteSnapshot struct {
	ID      int      `json:"id"`
	Color   string   `json:"color"`
	Markers []Marker `json:"markers"`
	Path    Polyline `json:"path"`
}
