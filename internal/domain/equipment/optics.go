package equipment

import (
	"fmt"
	"math"
)

// arcsecPerRadianScaled converts micron pixel pitch over millimeter focal
// length into arcseconds per pixel via the small-angle approximation. No
// atmospheric or optical-train corrections are applied.
const arcsecPerRadianScaled = 206.265

// focalRatioDriftTolerance is the relative drift between the declared and
// the computed focal ratio above which an advisory is surfaced.
const focalRatioDriftTolerance = 0.05

// OpticsSummary holds parameters derived from the imaging telescope and
// camera specs. Nil means the input needed for that value was absent; the
// renderer must show N/A, never a synthesized zero.
type OpticsSummary struct {
	FocalLengthMM      *float64 `json:"focalLengthMm,omitempty"`
	ApertureMM         *float64 `json:"apertureMm,omitempty"`
	FocalRatio         *float64 `json:"focalRatio,omitempty"`
	PixelScaleArcsecPx *float64 `json:"pixelScaleArcsecPx,omitempty"`
	FOVWidthArcmin     *float64 `json:"fovWidthArcmin,omitempty"`
	FOVHeightArcmin    *float64 `json:"fovHeightArcmin,omitempty"`
	// Advisories carries non-fatal data quality notes (declared focal ratio
	// drift, non-positive dimensions). Equipment files are user supplied, so
	// these degrade instead of failing.
	Advisories []string `json:"advisories,omitempty"`
}

// ComputeOptics derives the optics summary from the catalog. It is total:
// missing or malformed specs produce nil fields plus advisories, never an
// error.
func ComputeOptics(cat *Catalog) OpticsSummary {
	var sum OpticsSummary
	tel := cat.Telescope()
	cam := cat.Camera()

	focalLength := positiveOrAdvise(&sum, tel.FocalLengthMM, "focal_length_mm")
	aperture := positiveOrAdvise(&sum, tel.ApertureMM, "aperture_mm")
	sum.FocalLengthMM = focalLength
	sum.ApertureMM = aperture

	if focalLength != nil && aperture != nil {
		ratio := *focalLength / *aperture
		sum.FocalRatio = &ratio
		if tel.FocalRatio != nil && *tel.FocalRatio > 0 {
			drift := math.Abs(ratio-*tel.FocalRatio) / *tel.FocalRatio
			if drift > focalRatioDriftTolerance {
				sum.Advisories = append(sum.Advisories, fmt.Sprintf(
					"declared focal ratio f/%.2f differs from computed f/%.2f", *tel.FocalRatio, ratio))
			}
		}
	}

	pixelSize := positiveOrAdvise(&sum, cam.PixelSizeMicrons, "pixel_size_microns")
	if focalLength != nil && pixelSize != nil {
		scale := arcsecPerRadianScaled * *pixelSize / *focalLength
		sum.PixelScaleArcsecPx = &scale

		if w := positiveOrAdvise(&sum, cam.ResolutionWidthPX, "resolution_width_px"); w != nil {
			fov := scale * *w / 60
			sum.FOVWidthArcmin = &fov
		}
		if h := positiveOrAdvise(&sum, cam.ResolutionHeightPX, "resolution_height_px"); h != nil {
			fov := scale * *h / 60
			sum.FOVHeightArcmin = &fov
		}
	}

	return sum
}

// positiveOrAdvise passes through positive values and converts zero or
// negative ones into an advisory, treating them the same as absent.
func positiveOrAdvise(sum *OpticsSummary, v *float64, name string) *float64 {
	if v == nil {
		return nil
	}
	if *v <= 0 {
		sum.Advisories = append(sum.Advisories, fmt.Sprintf("%s must be positive, got %g", name, *v))
		return nil
	}
	return v
}
