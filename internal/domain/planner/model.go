package planner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mstolarz/astro-advisor/internal/domain/conditions"
	"github.com/mstolarz/astro-advisor/internal/domain/equipment"
	"github.com/mstolarz/astro-advisor/internal/domain/visibility"
	"github.com/mstolarz/astro-advisor/pkg/metrics"
)

// Config carries the site context and generation policy for the planner.
type Config struct {
	LocationName string
	Latitude     float64
	Longitude    float64
	// BortleClass and LightDome describe the local sky quality; both are
	// passed through to the prompt verbatim.
	BortleClass int
	LightDome   string

	Model           string
	Temperature     float32
	MaxOutputTokens int

	// MaxTargetRows bounds the visibility table in the prompt.
	MaxTargetRows int
	// MaxPromptTokens is an advisory input budget; exceeding it logs a
	// warning but does not block the run.
	MaxPromptTokens int

	Instructions string
}

// GenerationConfig enumerates the options a backend recognizes.
type GenerationConfig struct {
	Model           string
	MaxOutputTokens int
	Temperature     float32
}

// Generation is a successful backend reply.
type Generation struct {
	Text         string
	Usage        metrics.TokenUsage
	ModelVersion string
}

// Generator abstracts the text-generation backend. Implementations must let
// a deterministic stub stand in without the planner noticing.
type Generator interface {
	Generate(ctx context.Context, prompt string, cfg GenerationConfig) (Generation, error)
}

// VisibilitySource supplies the pre-computed target table. ok=false means no
// table is available, which is a normal condition.
type VisibilitySource interface {
	Table(ctx context.Context) (visibility.Table, bool, error)
}

// PromptContext is the immutable value the assembler serializes. It is
// constructed once per run and discarded after the prompt is built.
type PromptContext struct {
	LocationName string
	Latitude     float64
	Longitude    float64
	BortleClass  int
	LightDome    string
	GeneratedAt  time.Time

	Night *visibility.NightInfo

	Equipment []equipment.Item
	Filters   []equipment.Item
	Optics    equipment.OpticsSummary

	// Conditions is nil when the weather fetch failed; WeatherNote then
	// carries the reason rendered into the prompt.
	Conditions  *conditions.Conditions
	WeatherNote string

	Targets       []visibility.Target
	MaxTargetRows int

	Instructions string
}

// Report is a generated observation report plus its run metadata.
type Report struct {
	ID           uuid.UUID          `json:"id"`
	CreatedAt    time.Time          `json:"createdAt"`
	Model        string             `json:"model"`
	Seeing       conditions.Seeing  `json:"seeing"`
	PromptTokens int                `json:"promptTokens"`
	Usage        metrics.TokenUsage `json:"tokenUsage"`
	LatencyMS    int64              `json:"latencyMs"`
	Text         string             `json:"text,omitempty"`
	PromptPath   string             `json:"promptPath,omitempty"`
	ReportPath   string             `json:"reportPath,omitempty"`
}

// Archive records generated reports for later retrieval.
type Archive interface {
	Save(ctx context.Context, report Report) error
	Get(ctx context.Context, id uuid.UUID) (Report, bool, error)
	List(ctx context.Context, limit int) ([]Report, error)
}

// ReportStore persists report documents (local directory or object storage)
// and returns the stored location.
type ReportStore interface {
	Save(ctx context.Context, name string, content []byte) (string, error)
}
