// Package export writes routes to YAML files for downstream consumers.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/routepin/routepin/internal/geo"
	"github.com/routepin/routepin/pkg/core"
)

// DefaultRouteFilename is used when the export command names no file.
const DefaultRouteFilename = "global_route.yaml"

// Snapshotter provides read-only access to the route table.
type Snapshotter interface {
	Snapshot() []core.RouteSnapshot
	SnapshotRoute(routeID int) (core.RouteSnapshot, bool)
}

// Writer exports routes into a single output directory.
type Writer struct {
	source    Snapshotter
	outputDir string
	logger    *slog.Logger
}

// NewWriter builds a Writer exporting from source into outputDir.
func NewWriter(source Snapshotter, outputDir string, logger *slog.Logger) *Writer {
	return &Writer{source: source, outputDir: outputDir, logger: logger}
}

type yamlPoint struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

type globalRouteDoc struct {
	GlobalRoute []yamlPoint `yaml:"global_route"`
}

type routeDoc struct {
	ID           int         `yaml:"id"`
	Color        string      `yaml:"color"`
	LengthMeters float64     `yaml:"lengthMeters"`
	Points       []yamlPoint `yaml:"points"`
}

type snapshotDoc struct {
	Routes []routeDoc `yaml:"routes"`
}

// ExportRoute writes one route as a global_route document, positions in
// marker-ID order. An empty filename falls back to DefaultRouteFilename;
// any directory components are stripped so writes stay in outputDir.
func (w *Writer) ExportRoute(routeID int, filename string) error {
	snap, ok := w.source.SnapshotRoute(routeID)
	if !ok {
		return fmt.Errorf("route %d does not exist", routeID)
	}

	doc := globalRouteDoc{GlobalRoute: toYamlPoints(snap.Path)}

	path, err := w.writeDoc(filename, DefaultRouteFilename, doc)
	if err != nil {
		return err
	}

	w.logger.Info("Route exported", "routeId", routeID, "points", len(snap.Path), "file", path)
	return nil
}

// WriteSnapshot writes every route with its color and measured length.
func (w *Writer) WriteSnapshot(filename string) error {
	snaps := w.source.Snapshot()

	doc := snapshotDoc{Routes: make([]routeDoc, 0, len(snaps))}
	for _, s := range snaps {
		doc.Routes = append(doc.Routes, routeDoc{
			ID:           s.ID,
			Color:        s.Color,
			LengthMeters: geo.PathLengthMeters(s.Path),
			Points:       toYamlPoints(s.Path),
		})
	}

	path, err := w.writeDoc(filename, "routes.yaml", doc)
	if err != nil {
		return err
	}

	w.logger.Info("Snapshot exported", "routes", len(doc.Routes), "file", path)
	return nil
}

func (w *Writer) writeDoc(filename, fallback string, doc any) (string, error) {
	if filename == "" {
		filename = fallback
	}
	filename = filepath.Base(filename)

	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshaling export: %w", err)
	}

	path := filepath.Join(w.outputDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing export file: %w", err)
	}
	return path, nil
}

func toYamlPoints(path core.Polyline) []yamlPoint {
	points := make([]yamlPoint, len(path))
	for i, p := range path {
		points[i] = yamlPoint{Lat: p.Lat, Lon: p.Lng}
	}
	return points
}
