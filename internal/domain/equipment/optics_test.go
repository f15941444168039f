package equipment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeOpticsFullRig(t *testing.T) {
	cat, err := Load(sampleDoc())
	require.NoError(t, err)

	sum := ComputeOptics(cat)

	require.NotNil(t, sum.FocalRatio)
	require.InDelta(t, 5.4, *sum.FocalRatio, 0.01)

	// 206.265 * 2.9 / 405 ≈ 1.4769 arcsec/px
	require.NotNil(t, sum.PixelScaleArcsecPx)
	require.InDelta(t, 1.477, *sum.PixelScaleArcsecPx, 0.005)

	require.NotNil(t, sum.FOVWidthArcmin)
	require.InDelta(t, 94.5, *sum.FOVWidthArcmin, 0.2)
	require.NotNil(t, sum.FOVHeightArcmin)
	require.InDelta(t, 53.1, *sum.FOVHeightArcmin, 0.2)

	require.Empty(t, sum.Advisories)
}

func TestComputeOpticsTelescopeOnly(t *testing.T) {
	cat, err := Load(map[string]any{
		"imaging_telescope": map[string]any{
			"model": "Apertura 75Q",
			"specs": map[string]any{
				"focal_length_mm": 405.0,
				"aperture_mm":     75.0,
			},
		},
	})
	require.NoError(t, err)

	sum := ComputeOptics(cat)
	require.NotNil(t, sum.FocalRatio)
	require.Nil(t, sum.PixelScaleArcsecPx)
	require.Nil(t, sum.FOVWidthArcmin)
	require.Nil(t, sum.FOVHeightArcmin)
}

func TestComputeOpticsScalesLinearly(t *testing.T) {
	build := func(pixel, focal float64) *Catalog {
		cat, err := Load(map[string]any{
			"imaging_telescope": map[string]any{
				"model": "scope",
				"specs": map[string]any{"focal_length_mm": focal, "aperture_mm": focal / 5},
			},
			"imaging_camera": map[string]any{
				"model": "cam",
				"specs": map[string]any{"pixel_size_microns": pixel},
			},
		})
		require.NoError(t, err)
		return cat
	}

	base := ComputeOptics(build(2.9, 405))
	doublePixel := ComputeOptics(build(5.8, 405))
	doubleFocal := ComputeOptics(build(2.9, 810))

	require.Greater(t, *base.PixelScaleArcsecPx, 0.0)
	require.InDelta(t, 2*(*base.PixelScaleArcsecPx), *doublePixel.PixelScaleArcsecPx, 1e-9)
	require.InDelta(t, *base.PixelScaleArcsecPx/2, *doubleFocal.PixelScaleArcsecPx, 1e-9)
}

func TestComputeOpticsNegativeAperture(t *testing.T) {
	cat, err := Load(map[string]any{
		"imaging_telescope": map[string]any{
			"model": "scope",
			"specs": map[string]any{"focal_length_mm": 405.0, "aperture_mm": -75.0},
		},
	})
	require.NoError(t, err)

	sum := ComputeOptics(cat)
	require.Nil(t, sum.ApertureMM)
	require.Nil(t, sum.FocalRatio)
	require.NotEmpty(t, sum.Advisories)
}

func TestComputeOpticsFocalRatioDrift(t *testing.T) {
	cat, err := Load(map[string]any{
		"imaging_telescope": map[string]any{
			"model": "scope",
			"specs": map[string]any{
				"focal_length_mm": 405.0,
				"aperture_mm":     75.0,
				"focal_ratio":     7.0,
			},
		},
	})
	require.NoError(t, err)

	sum := ComputeOptics(cat)
	require.NotNil(t, sum.FocalRatio)
	require.Len(t, sum.Advisories, 1)
	require.Contains(t, sum.Advisories[0], "focal ratio")
}

func TestComputeOpticsEmptyCatalog(t *testing.T) {
	cat, err := Load(map[string]any{})
	require.NoError(t, err)

	sum := ComputeOptics(cat)
	require.Nil(t, sum.FocalLengthMM)
	require.Nil(t, sum.PixelScaleArcsecPx)
	require.Empty(t, sum.Advisories)
}
