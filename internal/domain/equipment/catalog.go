package equipment

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/mstolarz/astro-advisor/pkg/errors"
)

// Role identifies what an equipment item is used for. The set is open:
// unknown roles are kept in the catalog but never feed the optics math.
type Role string

const (
	RoleImagingTelescope Role = "imaging_telescope"
	RoleImagingCamera    Role = "imaging_camera"
	RoleGuideScope       Role = "guide_scope"
	RoleGuideCamera      Role = "guide_camera"
	RoleMount            Role = "mount"
	RoleFilter           Role = "filter"
	RoleFocuser          Role = "focuser"
	RoleTripod           Role = "tripod"
	RoleControlComputer  Role = "control_computer"
)

// promptOrder fixes the order equipment lines appear in assembled prompts.
var promptOrder = []Role{
	RoleImagingTelescope,
	RoleImagingCamera,
	RoleGuideScope,
	RoleGuideCamera,
	RoleMount,
	RoleFilter,
	RoleFocuser,
	RoleTripod,
	RoleControlComputer,
}

// Specs is the loosely typed key/value bag attached to an item. Values used
// by the optics calculator are read through Float, which coerces JSON
// numbers and numeric strings; anything else stays available verbatim.
type Specs map[string]any

// Float reads a spec value as float64. Absence or a non-numeric value is a
// normal condition, reported through ok.
func (s Specs) Float(key string) (float64, bool) {
	raw, present := s[key]
	if !present {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// String reads a spec value as a string, empty when absent.
func (s Specs) String(key string) string {
	if raw, ok := s[key]; ok {
		if v, ok := raw.(string); ok {
			return v
		}
	}
	return ""
}

// Item is one piece of equipment under a role.
type Item struct {
	Role  Role
	Model string
	Specs Specs
}

// TelescopeSpecs is the typed view the optics calculator consumes. Nil
// fields mean the spec was absent or not coercible.
type TelescopeSpecs struct {
	FocalLengthMM *float64
	ApertureMM    *float64
	FocalRatio    *float64
}

// CameraSpecs is the typed camera view. Sensor is informational only.
type CameraSpecs struct {
	PixelSizeMicrons   *float64
	ResolutionWidthPX  *float64
	ResolutionHeightPX *float64
	Sensor             string
}

// Catalog maps roles to items. It is built once at startup and read-only
// afterwards.
type Catalog struct {
	items map[Role]Item
}

// Load validates the role→item document and builds the catalog. Every entry
// must be an object with a non-empty model string; specs is optional.
// Unknown roles pass validation so the schema stays forward compatible.
func Load(doc map[string]any) (*Catalog, error) {
	items := make(map[Role]Item, len(doc))
	for key, raw := range doc {
		entry, ok := raw.(map[string]any)
		if !ok {
			return nil, apperrors.Wrap(apperrors.CodeConfig,
				fmt.Sprintf("equipment entry %q is not an object", key), nil)
		}
		model, _ := entry["model"].(string)
		if strings.TrimSpace(model) == "" {
			return nil, apperrors.Wrap(apperrors.CodeConfig,
				fmt.Sprintf("equipment entry %q is missing a model", key), nil)
		}
		specs := Specs{}
		if rawSpecs, present := entry["specs"]; present {
			typed, ok := rawSpecs.(map[string]any)
			if !ok {
				return nil, apperrors.Wrap(apperrors.CodeConfig,
					fmt.Sprintf("equipment entry %q has non-object specs", key), nil)
			}
			specs = Specs(typed)
		}
		role := Role(key)
		items[role] = Item{Role: role, Model: model, Specs: specs}
	}
	return &Catalog{items: items}, nil
}

// Get returns the item for a role. Absence is not an error.
func (c *Catalog) Get(role Role) (Item, bool) {
	item, ok := c.items[role]
	return item, ok
}

// Len reports how many items the catalog holds.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Telescope extracts the typed imaging telescope view.
func (c *Catalog) Telescope() TelescopeSpecs {
	item, ok := c.Get(RoleImagingTelescope)
	if !ok {
		return TelescopeSpecs{}
	}
	return TelescopeSpecs{
		FocalLengthMM: optFloat(item.Specs, "focal_length_mm"),
		ApertureMM:    optFloat(item.Specs, "aperture_mm"),
		FocalRatio:    optFloat(item.Specs, "focal_ratio"),
	}
}

// Camera extracts the typed imaging camera view.
func (c *Catalog) Camera() CameraSpecs {
	item, ok := c.Get(RoleImagingCamera)
	if !ok {
		return CameraSpecs{}
	}
	return CameraSpecs{
		PixelSizeMicrons:   optFloat(item.Specs, "pixel_size_microns"),
		ResolutionWidthPX:  optFloat(item.Specs, "resolution_width_px"),
		ResolutionHeightPX: optFloat(item.Specs, "resolution_height_px"),
		Sensor:             item.Specs.String("sensor"),
	}
}

// Filters returns the filter items present in the catalog.
func (c *Catalog) Filters() []Item {
	var filters []Item
	if item, ok := c.Get(RoleFilter); ok {
		filters = append(filters, item)
	}
	return filters
}

// Ordered returns items in the fixed prompt order, unknown roles last in
// lexical order so assembled prompts stay deterministic.
func (c *Catalog) Ordered() []Item {
	known := make(map[Role]struct{}, len(promptOrder))
	out := make([]Item, 0, len(c.items))
	for _, role := range promptOrder {
		known[role] = struct{}{}
		if item, ok := c.items[role]; ok {
			out = append(out, item)
		}
	}
	var extras []Item
	for role, item := range c.items {
		if _, ok := known[role]; !ok {
			extras = append(extras, item)
		}
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i].Role < extras[j].Role })
	return append(out, extras...)
}

func optFloat(specs Specs, key string) *float64 {
	if v, ok := specs.Float(key); ok {
		return &v
	}
	return nil
}
