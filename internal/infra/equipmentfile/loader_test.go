package equipmentfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mstolarz/astro-advisor/internal/domain/equipment"
	apperrors "github.com/mstolarz/astro-advisor/pkg/errors"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "equipment.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `{
		"imaging_telescope": {
			"model": "Apertura 75Q",
			"specs": {"focal_length_mm": 405, "aperture_mm": 75}
		},
		"mount": {"model": "ZWO AM5"}
	}`)

	cat, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, cat.Len())

	scope := cat.Telescope()
	require.NotNil(t, scope.FocalLengthMM)
	require.InDelta(t, 405, *scope.FocalLengthMM, 1e-9)

	mount, ok := cat.Get(equipment.RoleMount)
	require.True(t, ok)
	require.Equal(t, "ZWO AM5", mount.Model)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.True(t, apperrors.IsCode(err, apperrors.CodeConfig))
}

func TestLoadMalformedJSON(t *testing.T) {
	path := writeFile(t, `{"imaging_telescope": `)
	_, err := Load(path)
	require.True(t, apperrors.IsCode(err, apperrors.CodeConfig))
}

func TestLoadInvalidItem(t *testing.T) {
	path := writeFile(t, `{"imaging_camera": {"specs": {"pixel_size_microns": 2.9}}}`)
	_, err := Load(path)
	require.True(t, apperrors.IsCode(err, apperrors.CodeConfig))
}
