// Package visibility models the pre-computed target observability data this
// service consumes. Celestial mechanics run elsewhere; the table arrives as an
// external document and is passed through to the prompt.
package visibility

import (
	"sort"
	"time"
)

// Target is one pre-computed observable object for the night.
type Target struct {
	Name                 string   `json:"name"`
	MaxAltitudeDeg       float64  `json:"maxAltitudeDeg"`
	DurationHours        float64  `json:"durationHours"`
	AngularSizeMajArcmin *float64 `json:"angularSizeMajArcmin,omitempty"`
	AngularSizeMinArcmin *float64 `json:"angularSizeMinArcmin,omitempty"`
	// TransitTime keeps the upstream ISO string verbatim; circumpolar
	// objects arrive with sentinel text instead of a timestamp.
	TransitTime        string   `json:"transitTime,omitempty"`
	TransitAltitudeDeg *float64 `json:"transitAltitudeDeg,omitempty"`
}

// NightInfo describes the astronomical night the table was computed for.
type NightInfo struct {
	CalculationTime time.Time `json:"calculationTime"`
	WindowStart     time.Time `json:"windowStart"`
	WindowEnd       time.Time `json:"windowEnd"`
	SunAltitudeDeg  *float64  `json:"sunAltitudeDeg,omitempty"`
	MoonAltitudeDeg *float64  `json:"moonAltitudeDeg,omitempty"`
}

// Table bundles the night context with its observable targets.
type Table struct {
	Night   NightInfo `json:"night"`
	Targets []Target  `json:"targets"`
}

// TopByAltitude returns up to limit targets, highest maximum altitude first,
// plus the count of rows dropped. Ties break on name so the selection is
// deterministic. limit <= 0 keeps everything.
func TopByAltitude(targets []Target, limit int) ([]Target, int) {
	sorted := make([]Target, len(targets))
	copy(sorted, targets)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].MaxAltitudeDeg != sorted[j].MaxAltitudeDeg {
			return sorted[i].MaxAltitudeDeg > sorted[j].MaxAltitudeDeg
		}
		return sorted[i].Name < sorted[j].Name
	})
	if limit <= 0 || len(sorted) <= limit {
		return sorted, 0
	}
	return sorted[:limit], len(sorted) - limit
}
