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

package scenario

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"simcfg/logging"
)

// Handoff tells the external simulator that a validated snapshot is ready.
type Handoff interface {
	Ready(ctx context.Context, snapshotPath string) error
}

// LogHandoff only records readiness. The simulator is expected to pick up the
// newest snapshot in the work directory on its own.
type LogHandoff struct {
	Log logging.Logger
}

func (h LogHandoff) Ready(ctx context.Context, snapshotPath string) error {
	if h.Log != nil {
		h.Log.Info(ctx, "snapshot ready for simulation", logging.String("path", snapshotPath))
	}
	return nil
}

// CommandHandoff starts an external program with the snapshot path appended
// to its arguments and waits for it to exit.
type CommandHandoff struct {
	Command []string
	Dir     string
	Log     logging.Logger
}

func (h CommandHandoff) Ready(ctx context.Context, snapshotPath string) error {
	if len(h.Command) == 0 {
		return fmt.Errorf("simulation command not configured")
	}
	args := append(append([]string(nil), h.Command[1:]...), snapshotPath)
	cmd := exec.CommandContext(ctx, h.Command[0], args...)
	cmd.Dir = h.Dir

	out, err := cmd.CombinedOutput()
	if h.Log != nil {
		h.Log.Debug(ctx, "simulation command finished",
			logging.String("command", h.Command[0]),
			logging.String("output", strings.TrimSpace(string(out))))
	}
	if err != nil {
		return fmt.Errorf("simulation command %s: %w", h.Command[0], err)
	}
	return nil
}
