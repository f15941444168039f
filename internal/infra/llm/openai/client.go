// Package openai implements the generation backend against the OpenAI chat
// completions API.
package openai

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

const defaultBaseURL = "https://api.openai.com/v1"

const systemPrompt = "You are an expert astronomy assistant. Follow the user's report structure exactly and answer in Markdown."

// Client performs HTTP requests to the OpenAI API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs an OpenAI client.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key cannot be empty")
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

// Generate performs one synchronous chat completion call.
func (c *Client) Generate(ctx context.Context, prompt string, cfg planner.GenerationConfig) (planner.Generation, error) {
	req := chatCompletionRequest{
		Model: cfg.Model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:         cfg.Temperature,
		MaxCompletionTokens: cfg.MaxOutputTokens,
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return planner.Generation{}, fmt.Errorf("encode chat completion request: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return planner.Generation{}, fmt.Errorf("build chat completion request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return planner.Generation{}, fmt.Errorf("request chat completion: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return planner.Generation{}, fmt.Errorf("read chat completion: %w", err)
	}
	if resp.StatusCode >= 300 {
		return planner.Generation{}, fmt.Errorf("openai request failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return planner.Generation{}, fmt.Errorf("decode chat completion: %w", err)
	}
	if len(out.Choices) == 0 {
		return planner.Generation{}, errors.New("openai returned no choices")
	}

	return planner.Generation{
		Text:         out.Choices[0].Message.Content,
		ModelVersion: out.Model,
		Usage: metrics.TokenUsage{
			PromptTokens:     out.Usage.PromptTokens,
			CompletionTokens: out.Usage.CompletionTokens,
			TotalTokens:      out.Usage.TotalTokens,
		},
	}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	// Temperature is always sent; zero is a valid, deliberate setting.
	Temperature         float32 `json:"temperature"`
	MaxCompletionTokens int     `json:"max_completion_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
