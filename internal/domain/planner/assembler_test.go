package planner

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mstolarz/astro-advisor/internal/domain/conditions"
	"github.com/mstolarz/astro-advisor/internal/domain/equipment"
	"github.com/mstolarz/astro-advisor/internal/domain/visibility"
)

func fullContext(t *testing.T) PromptContext {
	t.Helper()
	cat, err := equipment.Load(map[string]any{
		"imaging_telescope": map[string]any{
			"model": "Apertura 75Q",
			"specs": map[string]any{"focal_length_mm": 405.0, "aperture_mm": 75.0},
		},
		"imaging_camera": map[string]any{
			"model": "ZWO ASI585MC Pro",
			"specs": map[string]any{
				"pixel_size_microns":   2.9,
				"resolution_width_px":  3840.0,
				"resolution_height_px": 2160.0,
			},
		},
		"filter": map[string]any{
			"model": "Optolong L-eXtreme",
		},
	})
	require.NoError(t, err)

	cloud := 25.0
	temp := 8.4
	humidity := 71.0
	sunAlt := -32.1
	moonAlt := 12.7
	maj := 178.0
	min := 63.0

	return PromptContext{
		LocationName: "Beaverton, Oregon",
		Latitude:     45.514595,
		Longitude:    -122.847565,
		BortleClass:  8,
		LightDome:    "south",
		GeneratedAt:  time.Date(2025, 3, 1, 4, 30, 0, 0, time.UTC),
		Night: &visibility.NightInfo{
			WindowStart:     time.Date(2025, 3, 1, 3, 12, 0, 0, time.UTC),
			WindowEnd:       time.Date(2025, 3, 1, 13, 40, 0, 0, time.UTC),
			SunAltitudeDeg:  &sunAlt,
			MoonAltitudeDeg: &moonAlt,
		},
		Equipment: cat.Ordered(),
		Filters:   cat.Filters(),
		Optics:    equipment.ComputeOptics(cat),
		Conditions: &conditions.Conditions{
			CloudCoverPct: &cloud,
			TemperatureC:  &temp,
			HumidityPct:   &humidity,
			Description:   "scattered clouds",
			Seeing:        conditions.SeeingGood,
		},
		Targets: []visibility.Target{
			{Name: "M31", MaxAltitudeDeg: 78.2, DurationHours: 5.5, AngularSizeMajArcmin: &maj, AngularSizeMinArcmin: &min, TransitTime: "2025-03-01 06:10"},
			{Name: "M42", MaxAltitudeDeg: 45.1, DurationHours: 3.2},
			{Name: "M81", MaxAltitudeDeg: 62.0, DurationHours: 6.1},
		},
		MaxTargetRows: 12,
	}
}

func TestAssembleDeterministic(t *testing.T) {
	pc := fullContext(t)
	first := Assemble(pc)
	second := Assemble(pc)
	require.Equal(t, first, second)
}

func TestAssembleSectionOrder(t *testing.T) {
	out := Assemble(fullContext(t))

	sections := []string{
		"**Context:**",
		"**User's Equipment:**",
		"**Derived Optics:**",
		"**Pre-Calculated Observable Targets:**",
		"**Instructions:**",
	}
	last := -1
	for _, section := range sections {
		idx := strings.Index(out, section)
		require.Greater(t, idx, last, "section %s out of order", section)
		last = idx
	}
}

func TestAssembleFullContext(t *testing.T) {
	out := Assemble(fullContext(t))

	require.Contains(t, out, "Beaverton, Oregon (Lat: 45.5146, Lon: -122.8476)")
	require.Contains(t, out, "Bortle 8, light dome strongest to the south")
	require.Contains(t, out, "Cloud Cover: 25%, Seeing: Good, Temp: 8.4°C, Humidity: 71%")
	require.Contains(t, out, "imaging_telescope: Apertura 75Q")
	require.Contains(t, out, "Filter Options: ONLY Optolong L-eXtreme, or no filter")
	require.Contains(t, out, "Pixel Scale: 1.48 arcsec/pixel")
	require.Contains(t, out, "Field of View: 94.5 x 53.2 arcmin")
	require.Contains(t, out, "| M31 | 78.2 | 5.5 | 178.00 x 63.00 | 2025-03-01 06:10 |")
}

func TestAssembleMissingCameraRendersNA(t *testing.T) {
	pc := fullContext(t)
	cat, err := equipment.Load(map[string]any{
		"imaging_telescope": map[string]any{
			"model": "Apertura 75Q",
			"specs": map[string]any{"focal_length_mm": 405.0, "aperture_mm": 75.0},
		},
	})
	require.NoError(t, err)
	pc.Equipment = cat.Ordered()
	pc.Filters = cat.Filters()
	pc.Optics = equipment.ComputeOptics(cat)

	out := Assemble(pc)
	require.Contains(t, out, "Focal Ratio: f/5.40")
	require.Contains(t, out, "Pixel Scale: N/A arcsec/pixel")
	require.Contains(t, out, "Field of View: N/A x N/A arcmin")
	// Absence must never render as a zero value.
	require.NotContains(t, out, "Pixel Scale: 0")
	require.NotContains(t, out, "Field of View: 0")
}

func TestAssembleWeatherUnavailable(t *testing.T) {
	pc := fullContext(t)
	pc.Conditions = nil
	pc.WeatherNote = "weather fetch failed: timeout"

	out := Assemble(pc)
	require.Contains(t, out, "weather data unavailable (weather fetch failed: timeout)")
	require.Contains(t, out, "lowered confidence")
}

func TestAssembleTruncatesTargetTable(t *testing.T) {
	pc := fullContext(t)
	pc.MaxTargetRows = 2

	out := Assemble(pc)
	require.Contains(t, out, "| M31 |")
	require.Contains(t, out, "| M81 |")
	require.NotContains(t, out, "| M42 |")
	require.Contains(t, out, "1 more target omitted")
	require.NotContains(t, out, "1 more targets omitted")

	pc.MaxTargetRows = 1
	out = Assemble(pc)
	require.Contains(t, out, "2 more targets omitted")
}

func TestAssembleEmptyTargets(t *testing.T) {
	pc := fullContext(t)
	pc.Targets = nil
	pc.Night = nil

	out := Assemble(pc)
	require.Contains(t, out, "No pre-computed target visibility data available")
	require.Contains(t, out, "Astronomical Night Window: N/A")
}
