// Package canned provides a deterministic offline generation backend for
// development and tests. No network, no key, same prompt same report.
package canned

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"unicode/utf8"

	"github.com/mstolarz/astro-advisor/internal/domain/planner"
	"github.com/mstolarz/astro-advisor/pkg/metrics"
)

// Generator fabricates a fixed-shape report from a digest of the prompt.
type Generator struct{}

// New constructs the canned backend.
func New() *Generator {
	return &Generator{}
}

// Generate returns a deterministic stand-in report. The prompt digest is
// embedded so tests can assert the prompt actually reached the backend.
func (g *Generator) Generate(_ context.Context, prompt string, cfg planner.GenerationConfig) (planner.Generation, error) {
	digest := sha256.Sum256([]byte(prompt))
	fingerprint := hex.EncodeToString(digest[:8])

	text := fmt.Sprintf(`## Overall Conditions Assessment

Offline mode: no generation backend is configured, so this report is a canned placeholder. Review the saved prompt for the full observing context.

## Top Recommended Targets

1. Configure a real backend (gemini or openai) to receive target recommendations.

---
prompt fingerprint: %s
`, fingerprint)

	promptTokens := utf8.RuneCountInString(prompt) / 4
	completionTokens := utf8.RuneCountInString(text) / 4

	return planner.Generation{
		Text:         text,
		ModelVersion: "canned-" + cfg.Model,
		Usage: metrics.TokenUsage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}, nil
}
