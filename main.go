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

// Command simcfg edits simulation scenario workbooks. Without flags it opens
// the editor; -check and -snapshot run without a window.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"simcfg/logging"
	"simcfg/scenario"
	"simcfg/settings"
	"simcfg/windows"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, launchEditor))
}

func launchEditor(cfg settings.Settings, log logging.Logger) {
	windows.CreateMainWindow(windows.Options{Settings: cfg, Log: log})
}

// run parses args and performs the requested mode. It returns the process
// exit code.
func run(args []string, stdout, stderr io.Writer, gui func(settings.Settings, logging.Logger)) int {
	fs := flag.NewFlagSet("simcfg", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", settings.DefaultPath, "settings file")
	check := fs.String("check", "", "load and validate `workbook`, then exit")
	snapshot := fs.String("snapshot", "", "validate `workbook` and hand a timestamped copy to the simulator")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := settings.Load(*configPath)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(stderr, "simcfg: %v\n", err)
		return 2
	}

	log := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: stderr})
	ctx := context.Background()

	switch {
	case *check != "":
		return runCheck(ctx, *check, stdout, log)
	case *snapshot != "":
		return runSnapshot(ctx, cfg, *snapshot, stdout, log)
	}

	log.Debug(ctx, "starting editor", logging.String("workdir", cfg.WorkDir))
	gui(cfg, log)
	return 0
}

func loadChecked(ctx context.Context, path string, log logging.Logger) (*scenario.Document, error) {
	doc, warnings, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Warn(ctx, "workbook loaded with warnings", logging.String("path", path), logging.Err(w))
	}
	if err := scenario.Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func runCheck(ctx context.Context, path string, stdout io.Writer, log logging.Logger) int {
	if _, err := loadChecked(ctx, path, log); err != nil {
		log.Error(ctx, "check failed", logging.String("path", path), logging.Err(err))
		return 1
	}
	fmt.Fprintf(stdout, "%s: ok\n", filepath.Base(path))
	return 0
}

func runSnapshot(ctx context.Context, cfg settings.Settings, path string, stdout io.Writer, log logging.Logger) int {
	doc, err := loadChecked(ctx, path, log)
	if err != nil {
		log.Error(ctx, "snapshot refused", logging.String("path", path), logging.Err(err))
		return 1
	}

	ctx, cancel := cfg.Simulation.Context(ctx)
	defer cancel()
	out, err := scenario.StartSimulation(ctx, doc, cfg.WorkDir, time.Now(),
		cfg.Simulation.Handoff(cfg.WorkDir, log))
	if err != nil {
		log.Error(ctx, "snapshot failed", logging.Err(err))
		return 1
	}
	fmt.Fprintln(stdout, out)
	return 0
}
