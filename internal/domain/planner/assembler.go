package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/mstolarz/astro-advisor/internal/domain/equipment"
	"github.com/mstolarz/astro-advisor/internal/domain/visibility"
)

// unavailable is the marker rendered wherever an upstream value is absent.
// Absence must never surface as a plausible-looking zero.
const unavailable = "N/A"

// DefaultInstructions is the analysis brief appended to every prompt unless
// the config overrides it.
const DefaultInstructions = `Analyze the provided sky conditions, weather, equipment, filter constraints, and pre-calculated target data.
Select the top 3-5 targets that are MOST suitable for imaging tonight considering all factors. Prioritize visibility duration, maximum altitude, and how well each object fits the equipment field of view, and account for the stated Bortle class and light dome.

Generate a report in Markdown format with these sections:

1. Overall Conditions Assessment: summarize the night's potential from the weather, moon presence, and sky quality. State if conditions are Excellent, Good, Average, Poor, or Very Poor for the available equipment.
2. Top Recommended Targets: for EACH selected target give its common name, peak altitude and duration, a framing analysis against the equipment FOV (Good Fit, Tight Fit, Widefield, or Requires Mosaic with an estimated grid), a filter choice restricted to the listed filter inventory or no filter with a physical justification, and one beginner tip plus one advanced insight tied to the pixel scale and sky conditions.

Output format: strictly Markdown.`

// Assemble serializes the prompt context into the document sent to the
// generation backend. It is a pure function: identical context yields a
// byte-identical prompt, every number traces to a context field, and any
// absent value renders as an explicit marker so the model always receives a
// uniformly shaped document.
func Assemble(pc PromptContext) string {
	var b strings.Builder

	b.WriteString("You are an expert astronomy assistant generating an observation plan in Markdown format.\n\n")

	writeContextSection(&b, pc)
	writeEquipmentSection(&b, pc)
	writeOpticsSection(&b, pc.Optics)
	writeTargetSection(&b, pc)

	b.WriteString("**Instructions:**\n\n")
	instructions := pc.Instructions
	if strings.TrimSpace(instructions) == "" {
		instructions = DefaultInstructions
	}
	b.WriteString(strings.TrimSpace(instructions))
	b.WriteString("\n")

	return b.String()
}

func writeContextSection(b *strings.Builder, pc PromptContext) {
	b.WriteString("**Context:**\n")
	fmt.Fprintf(b, "*   Location: %s (Lat: %.4f, Lon: %.4f)\n", pc.LocationName, pc.Latitude, pc.Longitude)
	fmt.Fprintf(b, "*   Sky Quality: Bortle %s, light dome strongest to the %s\n",
		intOrNA(pc.BortleClass), stringOrNA(pc.LightDome))
	fmt.Fprintf(b, "*   Calculation Time: %s\n", stamp(pc.GeneratedAt))

	if pc.Night != nil {
		fmt.Fprintf(b, "*   Astronomical Night Window: %s to %s\n",
			stamp(pc.Night.WindowStart), stamp(pc.Night.WindowEnd))
		fmt.Fprintf(b, "*   Current Altitudes: Sun %s, Moon %s\n",
			degOrNA(pc.Night.SunAltitudeDeg), degOrNA(pc.Night.MoonAltitudeDeg))
	} else {
		b.WriteString("*   Astronomical Night Window: " + unavailable + "\n")
		b.WriteString("*   Current Altitudes: Sun " + unavailable + ", Moon " + unavailable + "\n")
	}

	if pc.Conditions != nil {
		c := pc.Conditions
		fmt.Fprintf(b, "*   Weather: Cloud Cover: %s%%, Seeing: %s, Temp: %s°C, Humidity: %s%%, Description: %s\n",
			floatOrNA(c.CloudCoverPct, 0), c.Seeing,
			floatOrNA(c.TemperatureC, 1), floatOrNA(c.HumidityPct, 0),
			stringOrNA(c.Description))
	} else {
		note := pc.WeatherNote
		if strings.TrimSpace(note) == "" {
			note = "no details"
		}
		fmt.Fprintf(b, "*   Weather: weather data unavailable (%s); treat target recommendations with lowered confidence\n", note)
	}
	b.WriteString("\n")
}

func writeEquipmentSection(b *strings.Builder, pc PromptContext) {
	b.WriteString("**User's Equipment:**\n")
	if len(pc.Equipment) == 0 {
		b.WriteString("No equipment specified.\n\n")
		return
	}
	for _, item := range pc.Equipment {
		fmt.Fprintf(b, "*   %s: %s\n", item.Role, item.Model)
	}
	if len(pc.Filters) == 0 {
		b.WriteString("*   Filter Options: none listed (broadband RGB/luminance only)\n")
	} else {
		names := make([]string, 0, len(pc.Filters))
		for _, f := range pc.Filters {
			names = append(names, f.Model)
		}
		fmt.Fprintf(b, "*   Filter Options: ONLY %s, or no filter\n", strings.Join(names, ", "))
	}
	b.WriteString("\n")
}

func writeOpticsSection(b *strings.Builder, optics equipment.OpticsSummary) {
	b.WriteString("**Derived Optics:**\n")
	fmt.Fprintf(b, "*   Focal Length: %s mm, Aperture: %s mm, Focal Ratio: f/%s\n",
		floatOrNA(optics.FocalLengthMM, 0), floatOrNA(optics.ApertureMM, 0), floatOrNA(optics.FocalRatio, 2))
	fmt.Fprintf(b, "*   Pixel Scale: %s arcsec/pixel\n", floatOrNA(optics.PixelScaleArcsecPx, 2))
	fmt.Fprintf(b, "*   Field of View: %s x %s arcmin\n",
		floatOrNA(optics.FOVWidthArcmin, 1), floatOrNA(optics.FOVHeightArcmin, 1))
	for _, advisory := range optics.Advisories {
		fmt.Fprintf(b, "*   Data Note: %s\n", advisory)
	}
	b.WriteString("\n")
}

func writeTargetSection(b *strings.Builder, pc PromptContext) {
	b.WriteString("**Pre-Calculated Observable Targets:**\n")
	if len(pc.Targets) == 0 {
		b.WriteString("No pre-computed target visibility data available; recommend from position and season knowledge, stating the added uncertainty.\n\n")
		return
	}

	rows, omitted := visibility.TopByAltitude(pc.Targets, pc.MaxTargetRows)

	b.WriteString("| Target | Max Alt (deg) | Duration (hr) | Size (arcmin) | Transit (UTC) | Transit Alt (deg) |\n")
	b.WriteString("|--------|---------------|---------------|---------------|---------------|-------------------|\n")
	for _, t := range rows {
		fmt.Fprintf(b, "| %s | %.1f | %.1f | %s | %s | %s |\n",
			t.Name, t.MaxAltitudeDeg, t.DurationHours,
			sizeCell(t), stringOrNA(t.TransitTime), floatOrNA(t.TransitAltitudeDeg, 1))
	}
	if omitted > 0 {
		noun := "targets"
		if omitted == 1 {
			noun = "target"
		}
		fmt.Fprintf(b, "\n%d more %s omitted to keep the request bounded; the table keeps the highest-altitude objects.\n", omitted, noun)
	}
	b.WriteString("\n")
}

func sizeCell(t visibility.Target) string {
	if t.AngularSizeMajArcmin == nil || t.AngularSizeMinArcmin == nil {
		return unavailable
	}
	return fmt.Sprintf("%.2f x %.2f", *t.AngularSizeMajArcmin, *t.AngularSizeMinArcmin)
}

func floatOrNA(v *float64, decimals int) string {
	if v == nil {
		return unavailable
	}
	return fmt.Sprintf("%.*f", decimals, *v)
}

func degOrNA(v *float64) string {
	if v == nil {
		return unavailable
	}
	return fmt.Sprintf("%.1f°", *v)
}

func intOrNA(v int) string {
	if v <= 0 {
		return unavailable
	}
	return fmt.Sprintf("%d", v)
}

func stringOrNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return unavailable
	}
	return v
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return unavailable
	}
	return t.UTC().Format("2006-01-02 15:04 UTC")
}
