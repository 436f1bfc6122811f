package scenario

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simcfg/logging"
)

func TestSnapshotName(t *testing.T) {
	at := time.Date(2024, 6, 15, 12, 30, 5, 999, time.UTC)
	assert.Equal(t, "2024_06_15_12_30_05.xlsx", SnapshotName(at))
	assert.True(t, IsSnapshotName(SnapshotName(at)))

	for _, name := range []string{
		"notes.xlsx",
		"2024_13_15_12_30_05.xlsx",
		"2024_06_15_12_30_05.xls",
		"2024_06_15_12_30_05",
		"2024_06_15_12_30.xlsx",
		"2024_06_15_12_30_05_1.xlsx",
		"x2024_06_15_12_30_05.xlsx",
	} {
		assert.False(t, IsSnapshotName(name), name)
	}
}

// createSequentially writes each name in order with a pause so creation times
// are strictly increasing.
func createSequentially(t *testing.T, dir string, doc *Document, names ...string) {
	t.Helper()
	for _, name := range names {
		if doc != nil {
			require.NoError(t, Save(doc, filepath.Join(dir, name)))
		} else {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestListSnapshotsOrdersByCreation(t *testing.T) {
	dir := t.TempDir()
	createSequentially(t, dir, nil,
		"2024_06_15_12_30_00.xlsx",
		"notes.xlsx",
		"2023_01_01_00_00_00.xlsx",
		"2025_99_01_00_00_00.xlsx",
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "2022_01_01_00_00_00.xlsx"), 0o755))

	files, err := ListSnapshots(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "2023_01_01_00_00_00.xlsx", files[0].Name, "newest creation time wins over newest name")
	assert.Equal(t, "2024_06_15_12_30_00.xlsx", files[1].Name)
	assert.False(t, files[0].Created.Before(files[1].Created))
	assert.Equal(t, filepath.Join(dir, files[0].Name), files[0].Path)
}

func TestListSnapshotsMissingDir(t *testing.T) {
	_, err := ListSnapshots(filepath.Join(t.TempDir(), "gone"))
	assert.Error(t, err)
}

func TestAutoLoadPicksNewestSnapshot(t *testing.T) {
	dir := t.TempDir()
	older := fullDocument()
	older.Network.DataRate = "1200"
	createSequentially(t, dir, older, "2023_01_01_00_00_00.xlsx")
	createSequentially(t, dir, fullDocument(), "2024_06_15_12_30_00.xlsx")
	createSequentially(t, dir, nil, "notes.xlsx")

	doc, path, warnings, err := AutoLoad(dir)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, filepath.Join(dir, "2024_06_15_12_30_00.xlsx"), path)
	assert.Equal(t, fullDocument(), doc)
}

func TestAutoLoadEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	createSequentially(t, dir, nil, "notes.xlsx", "config.xlsx")

	doc, path, warnings, err := AutoLoad(dir)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Empty(t, warnings)
	assert.Equal(t, NewDocument(), doc)
}

func TestAutoLoadUnreadableSnapshot(t *testing.T) {
	dir := t.TempDir()
	createSequentially(t, dir, nil, "2024_06_15_12_30_00.xlsx")

	doc, path, _, err := AutoLoad(dir)
	assert.Error(t, err)
	assert.Empty(t, path)
	assert.Equal(t, NewDocument(), doc)
}

type recordingHandoff struct {
	paths []string
	err   error
}

func (h *recordingHandoff) Ready(_ context.Context, path string) error {
	h.paths = append(h.paths, path)
	return h.err
}

func TestStartSimulationWritesSnapshot(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 15, 12, 30, 0, 0, time.Local)
	h := &recordingHandoff{}

	path, err := StartSimulation(context.Background(), fullDocument(), dir, now, h)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2024_06_15_12_30_00.xlsx"), path)
	assert.Equal(t, []string{path}, h.paths)

	loaded, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, fullDocument(), loaded)

	latest, ok, err := LatestSnapshot(dir)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, path, latest)
}

func TestStartSimulationInvalidDocument(t *testing.T) {
	dir := t.TempDir()
	doc := fullDocument()
	doc.Network.PacketSize = ""
	h := &recordingHandoff{}

	path, err := StartSimulation(context.Background(), doc, dir, time.Now(), h)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, SectionNetwork, verr.Section)
	assert.Empty(t, path)
	assert.Empty(t, h.paths)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStartSimulationHandoffFailureKeepsSnapshot(t *testing.T) {
	dir := t.TempDir()
	h := &recordingHandoff{err: errors.New("simulator offline")}

	path, err := StartSimulation(context.Background(), fullDocument(), dir, time.Now(), h)
	assert.ErrorContains(t, err, "simulator offline")
	require.NotEmpty(t, path)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestCommandHandoff(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	dir := t.TempDir()
	out := filepath.Join(dir, "received")
	h := CommandHandoff{
		Command: []string{"sh", "-c", `printf %s "$1" > received`, "handoff"},
		Dir:     dir,
		Log:     logging.Noop(),
	}

	require.NoError(t, h.Ready(context.Background(), "/tmp/2024_06_15_12_30_00.xlsx"))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/2024_06_15_12_30_00.xlsx", string(got))

	failing := CommandHandoff{Command: []string{"sh", "-c", "exit 3"}, Dir: dir}
	assert.Error(t, failing.Ready(context.Background(), "x.xlsx"))
}

func TestCommandHandoffNotConfigured(t *testing.T) {
	assert.Error(t, CommandHandoff{}.Ready(context.Background(), "x.xlsx"))
	assert.Error(t, CommandHandoff{Command: []string{"simcfg-no-such-binary"}}.Ready(context.Background(), "x.xlsx"))
}

func TestLogHandoff(t *testing.T) {
	assert.NoError(t, LogHandoff{}.Ready(context.Background(), "x.xlsx"))
	assert.NoError(t, LogHandoff{Log: logging.Noop()}.Ready(context.Background(), "x.xlsx"))
}
