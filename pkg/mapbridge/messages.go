// Package mapbridge defines the wire protocol spoken on both sides of the
// bridge: host commands, widget notifications, and the render/gesture traffic
// between the widget and the map surface.
package mapbridge

import (
	"encoding/json"

	"github.com/routepin/routepin/pkg/core"
)

// Host -> widget commands.
const (
	MethodSetCurrentRoute       = "set_current_route"
	MethodAddRoute              = "add_route"
	MethodAddMarkerToRoute      = "add_marker_to_route"
	MethodRemoveMarkerFromRoute = "remove_marker_from_route"
	MethodClearCurrentRoute     = "clear_current_route"
	MethodClearAllRoutes        = "clear_all_routes"
	MethodTogglePOI             = "toggle_poi"
	MethodExportRoute           = "export_route"
	MethodExportSnapshot        = "export_snapshot"
)

// Widget -> host notifications. Fire-and-forget: the widget never observes a
// return value and no acknowledgment is sent.
const (
	MethodPointAdded  = "point_added"
	MethodMarkerMoved = "marker_moved"
)

// Widget -> surface render operations.
const (
	OpPlaceMarker  = "place_marker"
	OpMoveMarker   = "move_marker"
	OpRemoveMarker = "remove_marker"
	OpSetPath      = "set_path"
	OpRemovePath   = "remove_path"
	OpSetPOIStyle  = "set_poi_style"
	OpClearStyle   = "clear_style"
)

// Surface -> widget gesture events.
const (
	EventClick   = "click"
	EventDragEnd = "drag_end"
)

// Envelope wraps every message sent over a bridge connection.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SetCurrentRoutePayload selects the route that receives new map clicks.
type SetCurrentRoutePayload struct {
	RouteID int `json:"routeId"`
}

// AddRoutePayload creates a route with a display color. A no-op if the route
// already exists.
type AddRoutePayload struct {
	RouteID int    `json:"routeId"`
	Color   string `json:"color"`
}

// AddMarkerPayload places a marker on a route. Marker IDs are assigned by
// the caller.
type AddMarkerPayload struct {
	RouteID  int     `json:"routeId"`
	MarkerID int     `json:"markerId"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// RemoveMarkerPayload removes one marker from a route.
type RemoveMarkerPayload struct {
	RouteID  int `json:"routeId"`
	MarkerID int `json:"markerId"`
}

// ClearRoutePayload empties one route's markers and polyline. The route
// entry itself, including its color, survives. The host names the route;
// the widget's current-route pointer is not consulted.
type ClearRoutePayload struct {
	RouteID int `json:"routeId"`
}

// ExportRoutePayload writes one route to a YAML file in the configured
// export directory.
type ExportRoutePayload struct {
	RouteID  int    `json:"routeId"`
	Filename string `json:"filename,omitempty"`
}

// ExportSnapshotPayload writes every route, with color and length, to a
// YAML file in the export directory. May be omitted entirely for the
// default filename.
type ExportSnapshotPayload struct {
	Filename string `json:"filename,omitempty"`
}

// PointEventPayload is the body of point_added and marker_moved.
type PointEventPayload struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	MarkerID int     `json:"markerId"`
	RouteID  int     `json:"routeId"`
}

// PlaceMarkerPayload instructs the surface to render a marker.
type PlaceMarkerPayload struct {
	Marker core.Marker `json:"marker"`
	Color  string      `json:"color"`
}

// MoveMarkerPayload repositions a rendered marker.
type MoveMarkerPayload struct {
	RouteID  int         `json:"routeId"`
	MarkerID int         `json:"markerId"`
	Position core.LatLng `json:"position"`
}

// RemoveMarkerOpPayload detaches a rendered marker from the surface.
type RemoveMarkerOpPayload struct {
	RouteID  int `json:"routeId"`
	MarkerID int `json:"markerId"`
}

// SetPathPayload replaces the rendered polyline for a route.
type SetPathPayload struct {
	RouteID int           `json:"routeId"`
	Color   string        `json:"color"`
	Path    core.Polyline `json:"path"`
}

// RemovePathPayload detaches a route's rendered polyline.
type RemovePathPayload struct {
	RouteID int `json:"routeId"`
}

// SetPOIStylePayload toggles the style override that suppresses
// point-of-interest and transit labels.
type SetPOIStylePayload struct {
	Hidden bool `json:"hidden"`
}

// ClickPayload is emitted by the surface when the user clicks the map.
type ClickPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DragEndPayload is emitted by the surface when a marker drag completes.
type DragEndPayload struct {
	RouteID  int     `json:"routeId"`
	MarkerID int     `json:"markerId"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// Marshal builds a JSON-encoded Envelope from a message type and payload.
func Marshal(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}
