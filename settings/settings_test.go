package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simcfg/logging"
	"simcfg/scenario"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
	assert.NoError(t, s.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simcfg.yaml")
	content := `
workdir: /tmp/runs
hydrology:
  encoding: gbk
  delimiter: ";"
log:
  level: debug
simulation:
  command: ["simulator", "--headless"]
  timeout: 90s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/runs", s.WorkDir)
	assert.Equal(t, "gbk", s.Hydrology.Encoding)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "text", s.Log.Format)
	assert.Equal(t, []string{"simulator", "--headless"}, s.Simulation.Command)
	assert.Equal(t, 90*time.Second, s.Simulation.Timeout)
	require.NoError(t, s.Validate())

	opts, err := s.Hydrology.ImportOptions()
	require.NoError(t, err)
	assert.Equal(t, ';', opts.Delimiter)
	assert.Equal(t, "gbk", opts.Encoding)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simcfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workdir: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		encoding  string
		delimiter string
		wantErr   bool
	}{
		{name: "defaults", encoding: "windows-1252", delimiter: "auto"},
		{name: "tab keyword", encoding: "latin1", delimiter: "tab"},
		{name: "pipe", encoding: "windows-1252", delimiter: "|"},
		{name: "unknown encoding", encoding: "no-such-charset", delimiter: "auto", wantErr: true},
		{name: "multi-character delimiter", encoding: "windows-1252", delimiter: ";;", wantErr: true},
		{name: "quote delimiter", encoding: "windows-1252", delimiter: `"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			s.Hydrology.Encoding = tt.encoding
			s.Hydrology.Delimiter = tt.delimiter
			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSimulationHandoff(t *testing.T) {
	var sim SimulationSettings
	_, ok := sim.Handoff("/work", logging.Noop()).(scenario.LogHandoff)
	assert.True(t, ok, "no command announces through the log")

	sim.Command = []string{"simulator"}
	h, ok := sim.Handoff("/work", logging.Noop()).(scenario.CommandHandoff)
	require.True(t, ok)
	assert.Equal(t, "/work", h.Dir)
	assert.Equal(t, []string{"simulator"}, h.Command)
}

func TestSimulationContextTimeout(t *testing.T) {
	ctx, cancel := SimulationSettings{}.Context(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(DefaultSimulationTimeout), deadline, 5*time.Second)

	ctx, cancel = SimulationSettings{Timeout: time.Second}.Context(context.Background())
	defer cancel()
	deadline, _ = ctx.Deadline()
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 500*time.Millisecond)
}
