// Package equipmentfile loads the equipment catalog from its JSON document.
package equipmentfile

import (
	"encoding/json"
	"os"

	"github.com/mstolarz/astro-advisor/internal/domain/equipment"
	apperrors "github.com/mstolarz/astro-advisor/pkg/errors"
)

// Load reads the catalog document at path and validates it into a catalog.
// The document maps role names to items; unknown roles are kept so new gear
// shows up in prompts without a code change.
func Load(path string) (*equipment.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfig, "read equipment file", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfig, "parse equipment file", err)
	}

	return equipment.Load(doc)
}
