package planner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mstolarz/astro-advisor/internal/domain/conditions"
	"github.com/mstolarz/astro-advisor/internal/domain/equipment"
	"github.com/mstolarz/astro-advisor/internal/domain/visibility"
	apperrors "github.com/mstolarz/astro-advisor/pkg/errors"
	"github.com/mstolarz/astro-advisor/pkg/metrics"
)

type stubConditions struct {
	cond conditions.Conditions
	err  error
}

func (s *stubConditions) Current(context.Context) (conditions.Conditions, error) {
	return s.cond, s.err
}

type stubVisibility struct {
	table visibility.Table
	ok    bool
	err   error
}

func (s *stubVisibility) Table(context.Context) (visibility.Table, bool, error) {
	return s.table, s.ok, s.err
}

type stubGenerator struct {
	gen        Generation
	err        error
	lastPrompt string
	lastCfg    GenerationConfig
	calls      int
}

func (s *stubGenerator) Generate(_ context.Context, prompt string, cfg GenerationConfig) (Generation, error) {
	s.calls++
	s.lastPrompt = prompt
	s.lastCfg = cfg
	if s.err != nil {
		return Generation{}, s.err
	}
	return s.gen, nil
}

type memArchive struct {
	reports []Report
	saveErr error
}

func (m *memArchive) Save(_ context.Context, report Report) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.reports = append(m.reports, report)
	return nil
}

func (m *memArchive) Get(_ context.Context, id uuid.UUID) (Report, bool, error) {
	for _, r := range m.reports {
		if r.ID == id {
			return r, true, nil
		}
	}
	return Report{}, false, nil
}

func (m *memArchive) List(_ context.Context, limit int) ([]Report, error) {
	if limit <= 0 || limit > len(m.reports) {
		limit = len(m.reports)
	}
	return m.reports[:limit], nil
}

type memStore struct {
	saved   map[string]string
	saveErr error
}

func (m *memStore) Save(_ context.Context, name string, content []byte) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	if m.saved == nil {
		m.saved = map[string]string{}
	}
	m.saved[name] = string(content)
	return "reports/" + name, nil
}

func testCatalog(t *testing.T) *equipment.Catalog {
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
	})
	require.NoError(t, err)
	return cat
}

type plannerFixture struct {
	svc       Service
	generator *stubGenerator
	archive   *memArchive
	store     *memStore
}

func newPlannerFixture(t *testing.T, condSvc conditions.Service, generator *stubGenerator) *plannerFixture {
	t.Helper()
	archive := &memArchive{}
	store := &memStore{}
	cloud := 20.0
	if condSvc == nil {
		condSvc = &stubConditions{cond: conditions.Conditions{
			CloudCoverPct: &cloud,
			Seeing:        conditions.SeeingGood,
			Description:   "few clouds",
		}}
	}
	vis := &stubVisibility{
		table: visibility.Table{
			Night: visibility.NightInfo{
				WindowStart: time.Date(2025, 3, 1, 3, 0, 0, 0, time.UTC),
				WindowEnd:   time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC),
			},
			Targets: []visibility.Target{
				{Name: "M31", MaxAltitudeDeg: 78.2, DurationHours: 5.5},
				{Name: "M42", MaxAltitudeDeg: 45.1, DurationHours: 3.2},
			},
		},
		ok: true,
	}
	cfg := Config{
		LocationName:    "Beaverton, Oregon",
		Latitude:        45.514595,
		Longitude:       -122.847565,
		BortleClass:     8,
		LightDome:       "south",
		Model:           "gemini-1.5-flash",
		Temperature:     0.7,
		MaxOutputTokens: 4096,
		MaxTargetRows:   12,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(cfg, testCatalog(t), condSvc, vis, generator, archive, store, logger)
	return &plannerFixture{svc: svc, generator: generator, archive: archive, store: store}
}

func TestGenerateReport(t *testing.T) {
	gen := &stubGenerator{gen: Generation{
		Text:         "## Observation Plan\n\nShoot M31.",
		Usage:        metrics.TokenUsage{PromptTokens: 900, CompletionTokens: 300, TotalTokens: 1200},
		ModelVersion: "gemini-1.5-flash-002",
	}}
	fx := newPlannerFixture(t, nil, gen)

	report, err := fx.svc.GenerateReport(context.Background())
	require.NoError(t, err)

	require.NotEqual(t, uuid.Nil, report.ID)
	require.Equal(t, "gemini-1.5-flash-002", report.Model)
	require.Equal(t, conditions.SeeingGood, report.Seeing)
	require.Equal(t, 1200, report.Usage.TotalTokens)
	require.Greater(t, report.PromptTokens, 0)
	require.Contains(t, report.Text, "M31")

	require.Equal(t, 1, gen.calls)
	require.Equal(t, "gemini-1.5-flash", gen.lastCfg.Model)
	require.Equal(t, 4096, gen.lastCfg.MaxOutputTokens)
	require.Contains(t, gen.lastPrompt, "Apertura 75Q")
	require.Contains(t, gen.lastPrompt, "| M31 |")

	// Both documents persisted, stamped after the run timestamp.
	require.Len(t, fx.store.saved, 2)
	require.True(t, strings.HasPrefix(report.PromptPath, "reports/astro_prompt_"))
	require.True(t, strings.HasPrefix(report.ReportPath, "reports/astro_report_"))

	require.Len(t, fx.archive.reports, 1)
	got, err := fx.svc.GetReport(context.Background(), report.ID)
	require.NoError(t, err)
	require.Equal(t, report.ID, got.ID)
}

func TestGenerateReportWeatherDegrades(t *testing.T) {
	gen := &stubGenerator{gen: Generation{Text: "plan"}}
	condSvc := &stubConditions{err: apperrors.Wrap(apperrors.CodeWeather, "weather fetch failed", errors.New("timeout"))}
	fx := newPlannerFixture(t, condSvc, gen)

	report, err := fx.svc.GenerateReport(context.Background())
	require.NoError(t, err)
	require.Equal(t, conditions.SeeingUnknown, report.Seeing)
	require.Contains(t, gen.lastPrompt, "weather data unavailable")
	require.Contains(t, gen.lastPrompt, "timeout")
}

func TestGenerateReportBackendFailureIsTerminal(t *testing.T) {
	gen := &stubGenerator{err: errors.New("429: quota exceeded for model")}
	fx := newPlannerFixture(t, nil, gen)

	_, err := fx.svc.GenerateReport(context.Background())
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeGeneration))
	// The backend message survives wrapping for operator diagnosis.
	require.Contains(t, err.Error(), "quota exceeded")

	require.Empty(t, fx.archive.reports)
	require.Empty(t, fx.store.saved)
}

func TestGenerateReportEmptyTextIsTerminal(t *testing.T) {
	gen := &stubGenerator{gen: Generation{Text: "   \n"}}
	fx := newPlannerFixture(t, nil, gen)

	_, err := fx.svc.GenerateReport(context.Background())
	require.True(t, apperrors.IsCode(err, apperrors.CodeGeneration))
}

func TestGenerateReportSurvivesStorageFailures(t *testing.T) {
	gen := &stubGenerator{gen: Generation{Text: "plan"}}
	fx := newPlannerFixture(t, nil, gen)
	fx.store.saveErr = errors.New("disk full")
	fx.archive.saveErr = errors.New("connection refused")

	report, err := fx.svc.GenerateReport(context.Background())
	require.NoError(t, err)
	require.Empty(t, report.PromptPath)
	require.Empty(t, report.ReportPath)
	require.Equal(t, "plan", report.Text)
}

func TestGetReportNotFound(t *testing.T) {
	fx := newPlannerFixture(t, nil, &stubGenerator{gen: Generation{Text: "plan"}})

	_, err := fx.svc.GetReport(context.Background(), uuid.New())
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestListReports(t *testing.T) {
	fx := newPlannerFixture(t, nil, &stubGenerator{gen: Generation{Text: "plan"}})

	for i := 0; i < 3; i++ {
		_, err := fx.svc.GenerateReport(context.Background())
		require.NoError(t, err)
	}

	reports, err := fx.svc.ListReports(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, reports, 2)
}
