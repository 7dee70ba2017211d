package export

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/routepin/routepin/pkg/core"
)

type fakeSource struct {
	routes map[int]core.RouteSnapshot
}

func (f *fakeSource) Snapshot() []core.RouteSnapshot {
	out := make([]core.RouteSnapshot, 0, len(f.routes))
	for _, id := range []int{0, 1, 2, 3} {
		if s, ok := f.routes[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeSource) SnapshotRoute(routeID int) (core.RouteSnapshot, bool) {
	s, ok := f.routes[routeID]
	return s, ok
}

func newTestWriter(t *testing.T) (*Writer, string) {
	t.Helper()
	dir := t.TempDir()
	src := &fakeSource{routes: map[int]core.RouteSnapshot{
		1: {
			ID:    1,
			Color: "blue",
			Path:  core.Polyline{{Lat: 48.1, Lng: 11.5}, {Lat: 48.2, Lng: 11.6}},
		},
		2: {ID: 2, Color: "green"},
	}}
	return NewWriter(src, dir, slog.New(slog.DiscardHandler)), dir
}

func TestExportRoute_GlobalRouteDocument(t *testing.T) {
	w, dir := newTestWriter(t)

	require.NoError(t, w.ExportRoute(1, ""))

	data, err := os.ReadFile(filepath.Join(dir, DefaultRouteFilename))
	require.NoError(t, err)

	var doc struct {
		GlobalRoute []struct {
			Lat float64 `yaml:"lat"`
			Lon float64 `yaml:"lon"`
		} `yaml:"global_route"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Len(t, doc.GlobalRoute, 2)
	assert.Equal(t, 48.1, doc.GlobalRoute[0].Lat)
	assert.Equal(t, 11.5, doc.GlobalRoute[0].Lon)
	assert.Equal(t, 48.2, doc.GlobalRoute[1].Lat)
}

func TestExportRoute_CustomFilename(t *testing.T) {
	w, dir := newTestWriter(t)

	require.NoError(t, w.ExportRoute(1, "mission.yaml"))

	_, err := os.Stat(filepath.Join(dir, "mission.yaml"))
	assert.NoError(t, err)
}

func TestExportRoute_StripsDirectoryComponents(t *testing.T) {
	w, dir := newTestWriter(t)

	require.NoError(t, w.ExportRoute(1, "../escape.yaml"))

	_, err := os.Stat(filepath.Join(dir, "escape.yaml"))
	assert.NoError(t, err, "file must land inside the export directory")
}

func TestExportRoute_UnknownRoute(t *testing.T) {
	w, _ := newTestWriter(t)

	err := w.ExportRoute(99, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestExportRoute_EmptyRoute(t *testing.T) {
	w, dir := newTestWriter(t)

	require.NoError(t, w.ExportRoute(2, ""))

	data, err := os.ReadFile(filepath.Join(dir, DefaultRouteFilename))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Contains(t, doc, "global_route")
}

func TestWriteSnapshot(t *testing.T) {
	w, dir := newTestWriter(t)

	require.NoError(t, w.WriteSnapshot(""))

	data, err := os.ReadFile(filepath.Join(dir, "routes.yaml"))
	require.NoError(t, err)

	var doc struct {
		Routes []struct {
			ID           int     `yaml:"id"`
			Color        string  `yaml:"color"`
			LengthMeters float64 `yaml:"lengthMeters"`
		} `yaml:"routes"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Len(t, doc.Routes, 2)
	assert.Equal(t, "blue", doc.Routes[0].Color)
	assert.Greater(t, doc.Routes[0].LengthMeters, 0.0)
	assert.Zero(t, doc.Routes[1].LengthMeters)
}
