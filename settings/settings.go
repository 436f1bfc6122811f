// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package settings loads the tool's own settings, as opposed to the scenario
// configuration it edits.
package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"simcfg/logging"
	"simcfg/scenario"
)

// DefaultPath is the settings file looked up in the working directory.
const DefaultPath = "simcfg.yaml"

// DelimiterAuto detects the hydrology separator from the header line.
const DelimiterAuto = "auto"

type Settings struct {
	// WorkDir is where snapshots are written and auto-load looks for them.
	WorkDir    string             `yaml:"workdir"`
	Hydrology  HydrologySettings  `yaml:"hydrology"`
	Log        LogSettings        `yaml:"log"`
	Simulation SimulationSettings `yaml:"simulation"`
}

type HydrologySettings struct {
	Encoding  string `yaml:"encoding"`
	Delimiter string `yaml:"delimiter"` // "auto" or a single character
}

type LogSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type SimulationSettings struct {
	// Command is run with the snapshot path appended. Empty means the
	// simulator polls the work directory itself.
	Command []string `yaml:"command"`
	// Timeout bounds the command, for example "90s".
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultSimulationTimeout applies when no positive timeout is configured.
const DefaultSimulationTimeout = 60 * time.Second

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		WorkDir: ".",
		Hydrology: HydrologySettings{
			Encoding:  scenario.DefaultHydrologyEncoding,
			Delimiter: DelimiterAuto,
		},
		Log:        LogSettings{Level: "info", Format: "text"},
		Simulation: SimulationSettings{Timeout: DefaultSimulationTimeout},
	}
}

// Load reads settings from path on top of the defaults. A missing file is not
// an error.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	if s.WorkDir == "" {
		s.WorkDir = "."
	}
	return s, nil
}

// Validate checks values that would otherwise only fail on first use.
func (s Settings) Validate() error {
	if _, err := scenario.ResolveEncoding(s.Hydrology.Encoding); err != nil {
		return fmt.Errorf("hydrology.encoding: %w", err)
	}
	if _, err := s.Hydrology.Separator(); err != nil {
		return err
	}
	return nil
}

// Separator returns the configured delimiter, zero meaning auto-detect.
func (h HydrologySettings) Separator() (rune, error) {
	switch h.Delimiter {
	case "", DelimiterAuto:
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(h.Delimiter)
	if size != len(h.Delimiter) || r == utf8.RuneError || r == '"' || r == '\n' || r == '\r' {
		return 0, fmt.Errorf("hydrology.delimiter %q: must be %q or a single character", h.Delimiter, DelimiterAuto)
	}
	return r, nil
}

// ImportOptions converts the hydrology settings for scenario.ImportDelimited.
func (h HydrologySettings) ImportOptions() (scenario.ImportOptions, error) {
	sep, err := h.Separator()
	if err != nil {
		return scenario.ImportOptions{}, err
	}
	return scenario.ImportOptions{Encoding: h.Encoding, Delimiter: sep}, nil
}

// Handoff picks how a written snapshot is announced. Without a command the
// simulator is expected to pick up the newest snapshot in dir on its own.
func (s SimulationSettings) Handoff(dir string, log logging.Logger) scenario.Handoff {
	if len(s.Command) == 0 {
		return scenario.LogHandoff{Log: log}
	}
	return scenario.CommandHandoff{Command: s.Command, Dir: dir, Log: log}
}

// Context bounds a hand-off by the configured timeout.
func (s SimulationSettings) Context(parent context.Context) (context.Context, context.CancelFunc) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultSimulationTimeout
	}
	return context.WithTimeout(parent, timeout)
}
