package windows

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simcfg/logging"
	"simcfg/scenario"
	"simcfg/settings"
)

func newTestWindow(t *testing.T, dir string) *MainWindow {
	t.Helper()
	a := test.NewTempApp(t)
	cfg := settings.Default()
	cfg.WorkDir = dir
	return NewMainWindow(a, Options{
		Settings: cfg,
		Now:      func() time.Time { return time.Date(2024, 6, 15, 12, 30, 0, 0, time.Local) },
	})
}

// fillRequired types a complete configuration through the widgets.
func fillRequired(mw *MainWindow) {
	test.Type(mw.nodes.lon, "116.4")
	test.Type(mw.nodes.lat, "39.9")
	test.Tap(mw.nodes.addBtn)
	test.Type(mw.network.totalTime, "100")
	test.Type(mw.network.interval, "1")
	test.Type(mw.network.dataRate, "9600")
	test.Type(mw.network.packetSize, "128")
	test.Type(mw.comm.modOrder, "4")
	test.Type(mw.comm.symbolsPerFrame, "32")
	test.Type(mw.comm.frames, "10")
	test.Type(mw.comm.carrierHz, "12000")
}

func TestWidgetsWriteDocument(t *testing.T) {
	mw := newTestWindow(t, t.TempDir())
	fillRequired(mw)
	mw.network.mac.SetSelected("Jamming")
	mw.comm.bandwidth.SetSelected("5")
	mw.comm.codeRate.SetSelected("2/3")
	test.Tap(mw.comm.fading)

	doc := mw.Document()
	assert.Equal(t, "116.4", doc.Nodes.CenterLongitude)
	assert.Equal(t, "9600", doc.Network.DataRate)
	assert.Equal(t, scenario.MACJamming, doc.Network.MAC)
	assert.Equal(t, scenario.BandwidthIndex(5), doc.Comm.BandwidthIndex)
	assert.Equal(t, scenario.CodeRate2of3, doc.Comm.CodeRate)
	assert.True(t, doc.Comm.EnableFading)
	require.Len(t, doc.Nodes.Nodes, 1)
	assert.NoError(t, mw.Check())
}

func TestNodeEditing(t *testing.T) {
	mw := newTestWindow(t, t.TempDir())
	for i := 0; i < 3; i++ {
		test.Tap(mw.nodes.addBtn)
	}
	require.Len(t, mw.Document().Nodes.Nodes, 3)
	assert.Equal(t, 2, mw.nodes.selected, "a new node is selected")

	mw.nodes.selectNode(1)
	test.Type(mw.nodes.fields[scenario.NodeFieldX], "150")
	assert.Equal(t, "150", mw.Document().Nodes.Nodes[1].X)
	assert.True(t, mw.nodes.fields[scenario.NodeFieldID].Disabled())

	mw.nodes.deleteNode(0)
	nodes := mw.Document().Nodes.Nodes
	require.Len(t, nodes, 2)
	assert.Equal(t, 0, nodes[0].ID)
	assert.Equal(t, "150", nodes[0].X)
	assert.Equal(t, -1, mw.nodes.selected)
	assert.True(t, mw.nodes.deleteBtn.Disabled())
}

func TestCheckReportsMissingField(t *testing.T) {
	mw := newTestWindow(t, t.TempDir())
	fillRequired(mw)
	mw.network.packetSize.SetText("")

	err := mw.Check()
	var verr *scenario.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, scenario.SectionNetwork, verr.Section)
	assert.Contains(t, mw.statusBar.Text, "packet size")
	assert.Equal(t, 1, mw.tabs.SelectedIndex(), "network tab is brought forward")
}

func TestSaveAndLoadRefreshWidgets(t *testing.T) {
	dir := t.TempDir()
	mw := newTestWindow(t, dir)
	fillRequired(mw)
	test.Tap(mw.comm.cpe)
	path := filepath.Join(dir, "config.xlsx")
	require.NoError(t, mw.SaveTo(path))

	other := newTestWindow(t, dir)
	warnings, err := other.LoadFrom(path)
	require.NoError(t, err)
	require.Len(t, warnings, 1, "no hydrology sheet")
	assert.ErrorIs(t, warnings[0], scenario.ErrHydrologyMissing)

	assert.Equal(t, "116.4", other.nodes.lon.Text)
	assert.Equal(t, "12000", other.comm.carrierHz.Text)
	assert.True(t, other.comm.cpe.Checked)
	assert.Equal(t, "Aloha", other.network.mac.Selected)
	assert.Equal(t, mw.Document(), other.Document())
}

func TestLoadFailureKeepsDocument(t *testing.T) {
	dir := t.TempDir()
	mw := newTestWindow(t, dir)
	fillRequired(mw)
	bad := filepath.Join(dir, "broken.xlsx")
	require.NoError(t, os.WriteFile(bad, []byte("not a workbook"), 0o644))

	_, err := mw.LoadFrom(bad)
	assert.Error(t, err)
	assert.Equal(t, "116.4", mw.Document().Nodes.CenterLongitude)
}

func TestAutoLoadOnStart(t *testing.T) {
	dir := t.TempDir()
	doc := scenario.NewDocument()
	doc.Nodes.CenterLongitude = "10.5"
	require.NoError(t, scenario.Save(doc, filepath.Join(dir, "2024_01_01_00_00_00.xlsx")))

	mw := newTestWindow(t, dir)
	mw.AutoLoad()
	assert.Equal(t, "10.5", mw.nodes.lon.Text)
	assert.Contains(t, mw.statusBar.Text, "2024_01_01_00_00_00.xlsx")

	empty := newTestWindow(t, t.TempDir())
	empty.AutoLoad()
	assert.Equal(t, scenario.NewDocument(), empty.Document())
}

func TestStartSimulation(t *testing.T) {
	dir := t.TempDir()
	mw := newTestWindow(t, dir)

	_, err := mw.StartSimulation()
	assert.Error(t, err)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries, "invalid configurations are not written")

	fillRequired(mw)
	path, err := mw.StartSimulation()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2024_06_15_12_30_00.xlsx"), path)

	loaded, _, err := scenario.Load(path)
	require.NoError(t, err)
	assert.Equal(t, mw.Document(), loaded)
}

func TestImportAndExportHydrology(t *testing.T) {
	dir := t.TempDir()
	mw := newTestWindow(t, dir)
	assert.True(t, mw.hydrology.exportBtn.Disabled())

	src := filepath.Join(dir, "hydro.csv")
	require.NoError(t, os.WriteFile(src, []byte("station;level\nS1;2,5\nS2;3\n"), 0o644))
	require.NoError(t, mw.ImportHydrology(src))

	h := mw.Document().Hydrology
	assert.Equal(t, []string{"station", "level"}, h.Columns)
	assert.Len(t, h.Rows, 2)
	assert.Equal(t, "2 rows, 2 columns", mw.hydrology.info.Text)
	assert.False(t, mw.hydrology.exportBtn.Disabled())

	rows, cols := mw.hydrology.table.Length()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)

	out := filepath.Join(dir, "hydro.json")
	require.NoError(t, mw.ExportHydrology(out, scenario.FormatJSON))
	_, err := os.Stat(out)
	assert.NoError(t, err)

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("a,b\n1,2,3\n"), 0o644))
	assert.ErrorIs(t, mw.ImportHydrology(bad), scenario.ErrImportMalformed)
	assert.Len(t, mw.Document().Hydrology.Rows, 2, "failed import keeps the previous table")
}

func TestSnapshotDialogListsSnapshots(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, scenario.Save(scenario.NewDocument(), filepath.Join(dir, "2024_01_01_00_00_00.xlsx")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.xlsx"), []byte("x"), 0o644))

	mw := newTestWindow(t, dir)
	var picked string
	sd := NewSnapshotDialog(mw.w, dir, func(path string) { picked = path })
	sd.Show()

	require.Len(t, sd.snapshots, 1)
	assert.Equal(t, 1, sd.list.Length())
	sd.list.Select(widget.ListItemID(0))
	assert.Equal(t, filepath.Join(dir, "2024_01_01_00_00_00.xlsx"), picked)
}

func TestHydrologyFilterNarrowsView(t *testing.T) {
	dir := t.TempDir()
	mw := newTestWindow(t, dir)
	src := filepath.Join(dir, "hydro.csv")
	require.NoError(t, os.WriteFile(src, []byte("station,level\nS1,1.5\nS2,3\nS3,4.5\n"), 0o644))
	require.NoError(t, mw.ImportHydrology(src))

	test.Type(mw.hydrology.filter, "level > 2")
	rows, _ := mw.hydrology.table.Length()
	assert.Equal(t, 2, rows)
	assert.Equal(t, "2 of 3 rows, 2 columns", mw.hydrology.info.Text)
	assert.Len(t, mw.Document().Hydrology.Rows, 3, "filtering never drops data")

	mw.hydrology.filter.SetText("depth > 2")
	rows, _ = mw.hydrology.table.Length()
	assert.Equal(t, 3, rows)
	assert.Contains(t, mw.hydrology.info.Text, "unknown column")
}

func TestExportFormatFollowsTypedExtension(t *testing.T) {
	assert.Equal(t, scenario.FormatCSV, exportFormatFor("/tmp/levels.csv", scenario.FormatParquet))
	assert.Equal(t, scenario.FormatJSON, exportFormatFor("/tmp/levels.JSON", scenario.FormatCSV))
	assert.Equal(t, scenario.FormatParquet, exportFormatFor("/tmp/levels", scenario.FormatParquet))
	assert.Equal(t, scenario.FormatCSV, exportFormatFor("/tmp/levels.txt", scenario.FormatCSV))
}

func TestStartSimulationLogsTimeout(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	var buf bytes.Buffer
	cfg := settings.Default()
	cfg.WorkDir = t.TempDir()
	mw := NewMainWindow(test.NewTempApp(t), Options{
		Settings: cfg,
		Log:      logging.New(logging.Config{Level: "info", Format: "text", Output: &buf}),
	})
	fillRequired(mw)

	_, err := mw.StartSimulation()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "simulation started")
	assert.Contains(t, buf.String(), "timeout=1m0s")
}
