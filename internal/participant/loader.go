// Package participant loads per-participant response files and applies the
// row-level validity filters.
package participant

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/LauraLarens/Thesis-project/internal/dataset"
	"github.com/LauraLarens/Thesis-project/internal/model"
)

// ID builds the synthetic participant identifier for the file at 1-based
// position i. The ID depends only on file position, never on file content,
// so a fixed ordered file list always yields the same IDs.
func ID(i int) string {
	return fmt.Sprintf("P%02d", i)
}

// ListFiles returns the CSV files in dir sorted lexicographically by name.
// The sort fixes the participant ID assignment across runs.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read participant directory: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no participant files found in %s", dir)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadFile loads one participant file under the given synthetic ID. Rows are
// filtered in a fixed order: null response times first, then pressed_early
// and no_press when those columns exist. A null flag never drops a row.
// Only spelling and response time survive into the output.
func LoadFile(path, participantID string) ([]model.ParticipantResponse, error) {
	table, err := dataset.ReadFile(path, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if err := table.Require("spelling", "rt"); err != nil {
		return nil, err
	}
	hasPressedEarly := table.HasColumn("pressed_early")
	hasNoPress := table.HasColumn("no_press")

	responses := make([]model.ParticipantResponse, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		rt, ok, err := table.Float(i, "rt")
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if hasPressedEarly {
			flag, ok, err := table.Bool(i, "pressed_early")
			if err != nil {
				return nil, err
			}
			if ok && flag {
				continue
			}
		}
		if hasNoPress {
			flag, ok, err := table.Bool(i, "no_press")
			if err != nil {
				return nil, err
			}
			if ok && flag {
				continue
			}
		}
		spelling, ok := table.String(i, "spelling")
		if !ok {
			return nil, fmt.Errorf("%s row %d: spelling is null", filepath.Base(path), i+1)
		}
		responses = append(responses, model.ParticipantResponse{
			ParticipantID: participantID,
			Spelling:      spelling,
			ResponseTime:  rt,
		})
	}
	return responses, nil
}

// LoadAll loads every file in order, assigning IDs by position, and
// concatenates the filtered rows. Any unreadable file aborts the load.
func LoadAll(paths []string) ([]model.ParticipantResponse, error) {
	var all []model.ParticipantResponse
	for i, path := range paths {
		responses, err := LoadFile(path, ID(i+1))
		if err != nil {
			return nil, err
		}
		all = append(all, responses...)
	}
	return all, nil
}
