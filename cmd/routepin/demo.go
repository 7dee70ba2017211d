package main

import (
	"encoding/json"

	"github.com/routepin/routepin/pkg/mapbridge"
)

// dispatchDemoCommand feeds one host command through the bridge the same way
// a connected host would.
func dispatchDemoCommand(msgType string, payload any) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			Logger.Error("Failed to marshal demo payload", "type", msgType, "error", err)
			return
		}
	}
	eventBridge.HandleHostEnvelope(mapbridge.Envelope{Type: msgType, Payload: raw})
}

// populateDemoRoutes loads a couple of walking routes around the Munich city
// center so the surface has something to show without a host attached.
func populateDemoRoutes() {
	dispatchDemoCommand(mapbridge.MethodAddRoute, mapbridge.AddRoutePayload{RouteID: 0, Color: "blue"})
	dispatchDemoCommand(mapbridge.MethodAddRoute, mapbridge.AddRoutePayload{RouteID: 1, Color: "green"})

	// Marienplatz to the Englischer Garten
	dispatchDemoCommand(mapbridge.MethodAddMarkerToRoute, mapbridge.AddMarkerPayload{RouteID: 0, MarkerID: 0, Lat: 48.1374, Lng: 11.5755})
	dispatchDemoCommand(mapbridge.MethodAddMarkerToRoute, mapbridge.AddMarkerPayload{RouteID: 0, MarkerID: 1, Lat: 48.1410, Lng: 11.5783})
	dispatchDemoCommand(mapbridge.MethodAddMarkerToRoute, mapbridge.AddMarkerPayload{RouteID: 0, MarkerID: 2, Lat: 48.1446, Lng: 11.5824})
	dispatchDemoCommand(mapbridge.MethodAddMarkerToRoute, mapbridge.AddMarkerPayload{RouteID: 0, MarkerID: 3, Lat: 48.1520, Lng: 11.5917})

	// Hauptbahnhof to the Theresienwiese
	dispatchDemoCommand(mapbridge.MethodAddMarkerToRoute, mapbridge.AddMarkerPayload{RouteID: 1, MarkerID: 0, Lat: 48.1402, Lng: 11.5600})
	dispatchDemoCommand(mapbridge.MethodAddMarkerToRoute, mapbridge.AddMarkerPayload{RouteID: 1, MarkerID: 1, Lat: 48.1351, Lng: 11.5542})
	dispatchDemoCommand(mapbridge.MethodAddMarkerToRoute, mapbridge.AddMarkerPayload{RouteID: 1, MarkerID: 2, Lat: 48.1315, Lng: 11.5497})

	dispatchDemoCommand(mapbridge.MethodSetCurrentRoute, mapbridge.SetCurrentRoutePayload{RouteID: 0})
}
