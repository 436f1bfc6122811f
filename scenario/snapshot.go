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
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/djherbis/times"
)

// SnapshotLayout is the time layout of snapshot file names, YYYY_MM_DD_HH_MM_SS.
const SnapshotLayout = "2006_01_02_15_04_05"

// WorkbookExt is the extension of every workbook the tool writes.
const WorkbookExt = ".xlsx"

// SnapshotFile is a timestamp-named workbook found on disk.
type SnapshotFile struct {
	Path    string
	Name    string
	Created time.Time
}

// SnapshotName returns the file name of a snapshot taken at t.
func SnapshotName(t time.Time) string {
	return t.Format(SnapshotLayout) + WorkbookExt
}

// IsSnapshotName reports whether name is exactly a timestamp followed by the
// workbook extension.
func IsSnapshotName(name string) bool {
	stem, ok := strings.CutSuffix(name, WorkbookExt)
	if !ok {
		return false
	}
	_, err := time.Parse(SnapshotLayout, stem)
	return err == nil
}

// creationTime prefers the birth time and falls back to the inode change time
// and then the modification time, depending on what the platform records.
func creationTime(path string) (time.Time, error) {
	ts, err := times.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	switch {
	case ts.HasBirthTime():
		return ts.BirthTime(), nil
	case ts.HasChangeTime():
		return ts.ChangeTime(), nil
	default:
		return ts.ModTime(), nil
	}
}

// ListSnapshots returns the snapshot workbooks in dir, newest creation time
// first. Files whose names are not snapshot names are skipped without notice,
// as are entries that vanish or cannot be stat'ed during the scan.
func ListSnapshots(dir string) ([]SnapshotFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	var out []SnapshotFile
	for _, e := range entries {
		if e.IsDir() || !IsSnapshotName(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		created, err := creationTime(path)
		if err != nil {
			continue
		}
		out = append(out, SnapshotFile{Path: path, Name: e.Name(), Created: created})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Created.Equal(out[j].Created) {
			return out[i].Created.After(out[j].Created)
		}
		return out[i].Name > out[j].Name
	})
	return out, nil
}

// LatestSnapshot returns the path of the newest snapshot in dir.
func LatestSnapshot(dir string) (string, bool, error) {
	files, err := ListSnapshots(dir)
	if err != nil {
		return "", false, err
	}
	if len(files) == 0 {
		return "", false, nil
	}
	return files[0].Path, true, nil
}

// AutoLoad opens the newest snapshot in dir. When there is none, or it cannot
// be read, a fresh document is returned together with the error; the path is
// empty unless a snapshot was loaded.
func AutoLoad(dir string) (*Document, string, []error, error) {
	path, ok, err := LatestSnapshot(dir)
	if err != nil {
		return NewDocument(), "", nil, err
	}
	if !ok {
		return NewDocument(), "", nil, nil
	}
	doc, warnings, err := Load(path)
	if err != nil {
		return NewDocument(), "", nil, fmt.Errorf("auto-load %s: %w", filepath.Base(path), err)
	}
	return doc, path, warnings, nil
}

// StartSimulation validates doc, saves it as a new snapshot in dir named after
// now and signals the hand-off. Nothing is written when validation fails.
func StartSimulation(ctx context.Context, doc *Document, dir string, now time.Time, h Handoff) (string, error) {
	if err := Validate(doc); err != nil {
		return "", err
	}
	path := filepath.Join(dir, SnapshotName(now))
	if err := Save(doc, path); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	if h != nil {
		if err := h.Ready(ctx, path); err != nil {
			return path, fmt.Errorf("snapshot %s written but hand-off failed: %w", filepath.Base(path), err)
		}
	}
	return path, nil
}
