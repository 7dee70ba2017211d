package telemetry

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackupManager(t *testing.T) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "backup.lp.gz")

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	require.NoError(t, err)

	m := NewManager(zerolog.Nop(), path)
	m.BackupWriter = gzip.NewWriter(file)
	return m, path
}

func readBackup(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	zr, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer zr.Close()

	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	return string(out)
}

func TestWritePoint_BackupFile(t *testing.T) {
	m, path := newBackupManager(t)

	point := influxdb2_write.NewPointWithMeasurement("bridge_call").
		AddTag("method", "add_route").
		AddField("count", 1)
	require.NoError(t, m.WritePoint(context.Background(), BucketBridgeCalls, point))

	m.Close()

	content := readBackup(t, path)
	assert.Contains(t, content, "bridge_call")
	assert.Contains(t, content, "method=add_route")
}

func TestWritePoint_NoClientNoBackup(t *testing.T) {
	m := NewManager(zerolog.Nop(), "")

	point := influxdb2_write.NewPointWithMeasurement("route").AddField("markers", 3)
	err := m.WritePoint(context.Background(), BucketRouteStats, point)
	assert.Error(t, err)
}

func TestCountBridgeCall_BestEffort(t *testing.T) {
	m, path := newBackupManager(t)

	m.CountBridgeCall("toggle_poi")
	m.RecordRouteStats(1, 4, 1234.5)
	m.Close()

	content := readBackup(t, path)
	assert.Contains(t, content, "method=toggle_poi")
	assert.Contains(t, content, "routeId=1")
}
