package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mstolarz/astro-advisor/internal/domain/conditions"
	"github.com/mstolarz/astro-advisor/internal/domain/equipment"
	apperrors "github.com/mstolarz/astro-advisor/pkg/errors"
	"github.com/mstolarz/astro-advisor/pkg/tokens"
	"github.com/mstolarz/astro-advisor/pkg/util"
)

// Service runs the full observation-planning pipeline and serves archived
// reports.
type Service interface {
	GenerateReport(ctx context.Context) (Report, error)
	GetReport(ctx context.Context, id uuid.UUID) (Report, error)
	ListReports(ctx context.Context, limit int) ([]Report, error)
}

type service struct {
	cfg        Config
	catalog    *equipment.Catalog
	conditions conditions.Service
	targets    VisibilitySource
	generator  Generator
	archive    Archive
	store      ReportStore
	counter    *tokens.Counter
	logger     *slog.Logger
	now        func() time.Time
	newID      func() uuid.UUID
}

// NewService wires up the planner domain.
func NewService(
	cfg Config,
	catalog *equipment.Catalog,
	condSvc conditions.Service,
	targets VisibilitySource,
	generator Generator,
	archive Archive,
	store ReportStore,
	logger *slog.Logger,
) Service {
	return &service{
		cfg:        cfg,
		catalog:    catalog,
		conditions: condSvc,
		targets:    targets,
		generator:  generator,
		archive:    archive,
		store:      store,
		counter:    tokens.NewCounter(),
		logger:     logger.With("component", "planner.service"),
		now:        util.NowUTC,
		newID:      uuid.New,
	}
}

// GenerateReport performs one synchronous run: derive optics, fetch weather
// (degrading gracefully on failure), assemble the prompt, invoke the backend
// once, then persist and archive the result. Generation failures are
// terminal for the run; no partial report is produced or stored.
func (s *service) GenerateReport(ctx context.Context) (Report, error) {
	pc := s.buildContext(ctx)
	prompt := Assemble(pc)

	promptTokens := s.counter.Count(prompt)
	if s.cfg.MaxPromptTokens > 0 && promptTokens > s.cfg.MaxPromptTokens {
		s.logger.Warn("assembled prompt exceeds token budget",
			"tokens", promptTokens, "budget", s.cfg.MaxPromptTokens)
	}

	started := s.now()
	gen, err := s.generator.Generate(ctx, prompt, GenerationConfig{
		Model:           s.cfg.Model,
		MaxOutputTokens: s.cfg.MaxOutputTokens,
		Temperature:     s.cfg.Temperature,
	})
	if err != nil {
		// The original backend message stays intact: diagnosing credential
		// or quota problems needs it.
		return Report{}, apperrors.Wrap(apperrors.CodeGeneration, "generation request failed", err)
	}
	if strings.TrimSpace(gen.Text) == "" {
		return Report{}, apperrors.Wrap(apperrors.CodeGeneration, "backend returned an empty response", nil)
	}
	latency := s.now().Sub(started)

	report := Report{
		ID:           s.newID(),
		CreatedAt:    pc.GeneratedAt,
		Model:        firstNonEmpty(gen.ModelVersion, s.cfg.Model),
		Seeing:       seeingOf(pc),
		PromptTokens: promptTokens,
		Usage:        gen.Usage,
		LatencyMS:    latency.Milliseconds(),
		Text:         gen.Text,
	}

	s.persistDocuments(ctx, &report, prompt)

	if err := s.archive.Save(ctx, report); err != nil {
		s.logger.Error("report archive write failed", "id", report.ID, "error", err)
	}

	s.logger.Info("report generated",
		"id", report.ID,
		"model", report.Model,
		"prompt_tokens", promptTokens,
		"latency_ms", report.LatencyMS,
	)
	return report, nil
}

func (s *service) GetReport(ctx context.Context, id uuid.UUID) (Report, error) {
	report, ok, err := s.archive.Get(ctx, id)
	if err != nil {
		return Report{}, apperrors.Wrap(apperrors.CodeReport, "report lookup failed", err)
	}
	if !ok {
		return Report{}, apperrors.Wrap(apperrors.CodeNotFound, "report not found", nil)
	}
	return report, nil
}

func (s *service) ListReports(ctx context.Context, limit int) ([]Report, error) {
	reports, err := s.archive.List(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeReport, "report listing failed", err)
	}
	return reports, nil
}

// buildContext gathers every input into the immutable prompt context. It
// never fails: weather and visibility problems degrade into explicit
// unavailability markers.
func (s *service) buildContext(ctx context.Context) PromptContext {
	pc := PromptContext{
		LocationName:  s.cfg.LocationName,
		Latitude:      s.cfg.Latitude,
		Longitude:     s.cfg.Longitude,
		BortleClass:   s.cfg.BortleClass,
		LightDome:     s.cfg.LightDome,
		GeneratedAt:   s.now(),
		Equipment:     s.catalog.Ordered(),
		Filters:       s.catalog.Filters(),
		Optics:        equipment.ComputeOptics(s.catalog),
		MaxTargetRows: s.cfg.MaxTargetRows,
		Instructions:  s.cfg.Instructions,
	}

	cond, err := s.conditions.Current(ctx)
	if err != nil {
		s.logger.Warn("proceeding without weather data", "error", err)
		pc.WeatherNote = err.Error()
	} else {
		pc.Conditions = &cond
	}

	table, ok, err := s.targets.Table(ctx)
	if err != nil {
		s.logger.Warn("proceeding without visibility table", "error", err)
	} else if ok {
		night := table.Night
		pc.Night = &night
		pc.Targets = table.Targets
	}

	return pc
}

// persistDocuments writes the prompt and the report to the document store.
// Persistence is best effort: the generated text is already in hand and must
// not be lost to a storage hiccup.
func (s *service) persistDocuments(ctx context.Context, report *Report, prompt string) {
	if s.store == nil {
		return
	}
	base := util.FileStamp(report.CreatedAt)

	promptName := fmt.Sprintf("astro_prompt_%s.md", base)
	if path, err := s.store.Save(ctx, promptName, []byte(prompt)); err != nil {
		s.logger.Warn("prompt document save failed", "name", promptName, "error", err)
	} else {
		report.PromptPath = path
	}

	reportName := fmt.Sprintf("astro_report_%s.md", base)
	if path, err := s.store.Save(ctx, reportName, []byte(report.Text)); err != nil {
		s.logger.Warn("report document save failed", "name", reportName, "error", err)
	} else {
		report.ReportPath = path
	}
}

func seeingOf(pc PromptContext) conditions.Seeing {
	if pc.Conditions == nil {
		return conditions.SeeingUnknown
	}
	return pc.Conditions.Seeing
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
