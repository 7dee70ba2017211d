// Package widget owns the route table: colored routes of draggable markers
// with a polyline derived from each route's markers. All mutations funnel
// through a single mutex so command handling stays sequential regardless of
// which bridge connection the call arrived on.
package widget

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/routepin/routepin/pkg/core"
)

type route struct {
	id      int
	color   string
	markers []core.Marker // insertion order
}

// path returns the marker positions sorted by ascending marker ID.
// Insertion order never leaks into the polyline.
func (r *route) path() core.Polyline {
	sorted := make([]core.Marker, len(r.markers))
	copy(sorted, r.markers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	path := make(core.Polyline, len(sorted))
	for i, m := range sorted {
		path[i] = m.Position
	}
	return path
}

// Widget is the authoritative holder of route state. The surface only
// renders what the widget tells it to; a detached surface loses no state.
type Widget struct {
	mu           sync.Mutex
	routes       map[int]*route
	currentRoute int
	poiHidden    bool
	defaultColor string

	surface  Surface
	notifier Notifier
	log      *slog.Logger
}

// Option configures a Widget at construction time.
type Option func(*Widget)

// WithDefaultColor overrides the color given to routes created implicitly
// by a marker add.
func WithDefaultColor(color string) Option {
	return func(w *Widget) {
		if color != "" {
			w.defaultColor = color
		}
	}
}

// New builds a Widget. Nil surface or notifier are replaced with no-ops so
// the widget can run headless.
func New(surface Surface, notifier Notifier, log *slog.Logger, opts ...Option) *Widget {
	if surface == nil {
		surface = nopSurface{}
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = slog.Default()
	}
	w := &Widget{
		routes:       make(map[int]*route),
		defaultColor: core.DefaultRouteColor,
		surface:      surface,
		notifier:     notifier,
		log:          log,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SetSurface swaps the render target. Used when a surface peer attaches or
// detaches at runtime; pass nil to go headless.
func (w *Widget) SetSurface(s Surface) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s == nil {
		s = nopSurface{}
	}
	w.surface = s
	w.redrawLocked()
}

// SetNotifier swaps the host notification sink; pass nil to drop events.
func (w *Widget) SetNotifier(n Notifier) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if n == nil {
		n = nopNotifier{}
	}
	w.notifier = n
}

// Redraw replays the full route table onto the surface. Called when a
// surface peer (re)attaches so the renderer catches up with current state.
func (w *Widget) Redraw() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.redrawLocked()
}

// SetCurrentRoute selects the route that receives subsequent map clicks.
// The route does not have to exist yet.
func (w *Widget) SetCurrentRoute(routeID int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.currentRoute = routeID
	w.log.Debug("Current route changed", "routeId", routeID)
}

// AddRoute registers an empty route with a display color. Adding a route
// that already exists is a no-op; the existing markers and color survive.
func (w *Widget) AddRoute(routeID int, color string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.routes[routeID]; ok {
		w.log.Debug("Route already exists, ignoring add", "routeId", routeID)
		return
	}
	w.routes[routeID] = &route{id: routeID, color: color}
	w.log.Debug("Route added", "routeId", routeID, "color", color)
}

// AddMarkerToRoute places a draggable marker on a route. A missing route is
// created on the fly with the default color. The route's polyline is
// recomputed from all markers sorted by marker ID.
func (w *Widget) AddMarkerToRoute(routeID, markerID int, pos core.LatLng) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.addMarkerLocked(routeID, markerID, pos)
}

func (w *Widget) addMarkerLocked(routeID, markerID int, pos core.LatLng) core.Marker {
	r, ok := w.routes[routeID]
	if !ok {
		w.log.Warn("Marker added to unknown route, creating it",
			"routeId", routeID, "color", w.defaultColor)
		r = &route{id: routeID, color: w.defaultColor}
		w.routes[routeID] = r
	}
	m := core.Marker{ID: markerID, RouteID: routeID, Position: pos, Draggable: true}
	r.markers = append(r.markers, m)
	w.surface.PlaceMarker(m, r.color)
	w.surface.SetPath(r.id, r.color, r.path())
	return m
}

// RemoveMarkerFromRoute removes one marker and recomputes the polyline.
// Unknown route or marker IDs are silent no-ops. If the caller ever created
// duplicate IDs on one route, the first match wins.
func (w *Widget) RemoveMarkerFromRoute(routeID, markerID int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	r, ok := w.routes[routeID]
	if !ok {
		return
	}
	for i, m := range r.markers {
		if m.ID == markerID {
			r.markers = append(r.markers[:i], r.markers[i+1:]...)
			w.surface.RemoveMarker(routeID, markerID)
			w.surface.SetPath(r.id, r.color, r.path())
			return
		}
	}
}

// ClearRoute removes every marker from the named route and empties its
// polyline. The route entry and its color are kept, so later marker adds
// keep the original color. The host names the route explicitly; the widget's
// current-route pointer plays no part here. Unknown routes are silent no-ops.
func (w *Widget) ClearRoute(routeID int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	r, ok := w.routes[routeID]
	if !ok {
		return
	}
	for _, m := range r.markers {
		w.surface.RemoveMarker(r.id, m.ID)
	}
	r.markers = nil
	w.surface.SetPath(r.id, r.color, core.Polyline{})
	w.log.Debug("Route cleared", "routeId", r.id)
}

// ClearAllRoutes removes every marker and polyline and forgets all routes,
// including their colors.
func (w *Widget) ClearAllRoutes() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, r := range w.routes {
		for _, m := range r.markers {
			w.surface.RemoveMarker(r.id, m.ID)
		}
		w.surface.RemovePath(r.id)
	}
	w.routes = make(map[int]*route)
	w.log.Debug("All routes cleared")
}

// TogglePOI flips point-of-interest label visibility. Turning labels back on
// is done by clearing the style overrides wholesale, which also drops any
// other style customization that was active.
func (w *Widget) TogglePOI() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.poiHidden = !w.poiHidden
	if w.poiHidden {
		w.surface.SetPOIHidden(true)
	} else {
		w.surface.ClearStyle()
	}
	w.log.Debug("POI visibility toggled", "hidden", w.poiHidden)
}

// HandleClick turns a map click into a marker on the current route and
// notifies the host. The marker ID is the current route's marker count at
// click time, so IDs reflect density, not insertion history: after removals
// an ID can be reissued while the marker carrying it still exists.
func (w *Widget) HandleClick(pos core.LatLng) {
	w.mu.Lock()
	markerID := 0
	if r, ok := w.routes[w.currentRoute]; ok {
		markerID = len(r.markers)
	}
	m := w.addMarkerLocked(w.currentRoute, markerID, pos)
	notifier := w.notifier
	w.mu.Unlock()

	notifier.PointAdded(core.PointEvent{
		Position: m.Position,
		MarkerID: m.ID,
		RouteID:  m.RouteID,
	})
}

// HandleDragEnd records a marker's new position after the user finishes
// dragging it, notifies the host, and recomputes the polyline. A drag event
// for an unknown route or marker is dropped.
func (w *Widget) HandleDragEnd(routeID, markerID int, pos core.LatLng) {
	w.mu.Lock()
	r, ok := w.routes[routeID]
	if !ok {
		w.mu.Unlock()
		w.log.Warn("Drag end for unknown route", "routeId", routeID, "markerId", markerID)
		return
	}
	moved := false
	for i := range r.markers {
		if r.markers[i].ID == markerID {
			r.markers[i].Position = pos
			moved = true
			break
		}
	}
	if !moved {
		w.mu.Unlock()
		w.log.Warn("Drag end for unknown marker", "routeId", routeID, "markerId", markerID)
		return
	}
	// Echo the accepted position so the renderer stays on authoritative state.
	w.surface.MoveMarker(routeID, markerID, pos)
	w.surface.SetPath(r.id, r.color, r.path())
	notifier := w.notifier
	w.mu.Unlock()

	notifier.MarkerMoved(core.PointEvent{
		Position: pos,
		MarkerID: markerID,
		RouteID:  routeID,
	})
}

// CurrentRoute returns the ID new clicks are routed to.
func (w *Widget) CurrentRoute() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.currentRoute
}

// POIHidden reports whether the POI style override is active.
func (w *Widget) POIHidden() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.poiHidden
}

// Snapshot returns a copy of every route, ordered by route ID.
func (w *Widget) Snapshot() []core.RouteSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	ids := make([]int, 0, len(w.routes))
	for id := range w.routes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]core.RouteSnapshot, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.snapshotLocked(w.routes[id]))
	}
	return out
}

// SnapshotRoute returns a copy of one route, or false if it does not exist.
func (w *Widget) SnapshotRoute(routeID int) (core.RouteSnapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	r, ok := w.routes[routeID]
	if !ok {
		return core.RouteSnapshot{}, false
	}
	return w.snapshotLocked(r), true
}

func (w *Widget) snapshotLocked(r *route) core.RouteSnapshot {
	markers := make([]core.Marker, len(r.markers))
	copy(markers, r.markers)
	return core.RouteSnapshot{ID: r.id, Color: r.color, Markers: markers, Path: r.path()}
}

// redrawLocked replays the full route table onto the surface. Called after
// a surface swap so a freshly attached renderer catches up.
func (w *Widget) redrawLocked() {
	for _, r := range w.routes {
		for _, m := range r.markers {
			w.surface.PlaceMarker(m, r.color)
		}
		w.surface.SetPath(r.id, r.color, r.path())
	}
	if w.poiHidden {
		w.surface.SetPOIHidden(true)
	}
}
