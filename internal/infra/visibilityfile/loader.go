// Package visibilityfile supplies the pre-computed target table from a JSON
// document on disk. The table is produced by an external ephemeris job; this
// service only reads it.
package visibilityfile

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/mstolarz/astro-advisor/internal/domain/visibility"
	apperrors "github.com/mstolarz/astro-advisor/pkg/errors"
)

// Source reads the target table on every request so a refreshed file is
// picked up without a restart. The documents are small; caching is not worth
// the staleness risk.
type Source struct {
	path string
}

// New builds a file-backed source. An empty path means no table is
// configured, which is a normal degraded mode.
func New(path string) *Source {
	return &Source{path: strings.TrimSpace(path)}
}

// Table implements the planner visibility source. A missing or unconfigured
// file reports ok=false without an error; a present but unreadable document
// is a real failure.
func (s *Source) Table(_ context.Context) (visibility.Table, bool, error) {
	if s.path == "" {
		return visibility.Table{}, false, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return visibility.Table{}, false, nil
		}
		return visibility.Table{}, false, apperrors.Wrap(apperrors.CodeConfig, "read visibility file", err)
	}

	var table visibility.Table
	if err := json.Unmarshal(data, &table); err != nil {
		return visibility.Table{}, false, apperrors.Wrap(apperrors.CodeConfig, "parse visibility file", err)
	}
	return table, true, nil
}
