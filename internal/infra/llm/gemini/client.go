// Package gemini implements the generation backend against the Google
// Generative Language REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mstolarz/astro-advisor/internal/domain/planner"
	"github.com/mstolarz/astro-advisor/pkg/metrics"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client performs HTTP requests to the Gemini generateContent endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Gemini client.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key cannot be empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// Generate performs one synchronous generateContent call.
func (c *Client) Generate(ctx context.Context, prompt string, cfg planner.GenerationConfig) (planner.Generation, error) {
	req := generateRequest{
		Contents: []content{{
			Parts: []part{{Text: prompt}},
		}},
		GenerationConfig: &generationConfig{
			Temperature:     cfg.Temperature,
			MaxOutputTokens: cfg.MaxOutputTokens,
		},
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return planner.Generation{}, fmt.Errorf("encode generate request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, cfg.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return planner.Generation{}, fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return planner.Generation{}, fmt.Errorf("request generation: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return planner.Generation{}, fmt.Errorf("read generate response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return planner.Generation{}, fmt.Errorf("gemini request failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return planner.Generation{}, fmt.Errorf("decode generate response: %w", err)
	}
	if len(out.Candidates) == 0 {
		if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
			return planner.Generation{}, fmt.Errorf("gemini blocked the prompt: %s", out.PromptFeedback.BlockReason)
		}
		return planner.Generation{}, errors.New("gemini returned no candidates")
	}

	var text strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}

	gen := planner.Generation{
		Text:         text.String(),
		ModelVersion: out.ModelVersion,
	}
	if out.UsageMetadata != nil {
		gen.Usage = metrics.TokenUsage{
			PromptTokens:     out.UsageMetadata.PromptTokenCount,
			CompletionTokens: out.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      out.UsageMetadata.TotalTokenCount,
		}
	}
	return gen, nil
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role,omitempty"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	// Temperature is always sent; zero is a valid, deliberate setting.
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	ModelVersion string `json:"modelVersion"`
}
