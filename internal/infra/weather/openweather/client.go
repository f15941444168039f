// Package openweather fetches current conditions from OpenWeatherMap.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/mstolarz/astro-advisor/internal/domain/conditions"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
	errCircuitOpen = errors.New("circuit breaker open")
)

// BackoffConfig controls retry behaviour for transient upstream failures.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Client implements the conditions fetcher against the OpenWeatherMap
// current weather endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	backoff    BackoffConfig
	circuit    *gobreaker.CircuitBreaker
}

// NewClient builds an API client. timeout <= 0 falls back to 10s.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(base, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		backoff: BackoffConfig{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		circuit: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "openweather",
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}),
	}
}

// Fetch retrieves the current weather for the coordinates. Numeric fields
// the provider omitted stay nil in the reading so downstream rendering can
// tell absence from zero.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (conditions.Reading, error) {
	if c.apiKey == "" {
		return conditions.Reading{}, errors.New("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%.6f", lat))
	values.Set("lon", fmt.Sprintf("%.6f", lon))
	values.Set("appid", c.apiKey)
	values.Set("units", "metric")
	endpoint := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())

	resp, err := c.doWithResilience(ctx, endpoint)
	if err != nil {
		return conditions.Reading{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return conditions.Reading{}, fmt.Errorf("read weather response: %w", err)
	}

	var payload apiResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return conditions.Reading{}, fmt.Errorf("decode weather response: %w", err)
	}

	reading := conditions.Reading{
		ObservedAt: time.Now().UTC(),
	}
	if payload.Dt > 0 {
		reading.ObservedAt = time.Unix(payload.Dt, 0).UTC()
	}
	if payload.Clouds != nil {
		reading.CloudCoverPct = payload.Clouds.All
	}
	if payload.Main != nil {
		reading.TemperatureC = payload.Main.Temp
		reading.HumidityPct = payload.Main.Humidity
	}
	if len(payload.Weather) > 0 {
		reading.Description = payload.Weather[0].Description
	}
	return reading, nil
}

// doWithResilience executes the request with retries, exponential backoff,
// and a circuit breaker. 4xx responses other than 429 fail fast; retrying a
// bad API key never helps.
func (c *Client) doWithResilience(ctx context.Context, endpoint string) (*http.Response, error) {
	var attempt int
	var lastErr error

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("build weather request: %w", err)
		}

		result, err := c.circuit.Execute(func() (interface{}, error) {
			resp, execErr := c.httpClient.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			if resp.StatusCode == http.StatusTooManyRequests {
				resp.Body.Close()
				return nil, errRateLimited
			}
			if resp.StatusCode >= 500 {
				resp.Body.Close()
				return nil, errServerError
			}
			if resp.StatusCode >= 300 {
				payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
				resp.Body.Close()
				return nil, permanentError{fmt.Errorf("weather request error: status=%d body=%s", resp.StatusCode, string(payload))}
			}
			return resp, nil
		})
		if err == nil {
			return result.(*http.Response), nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		var perm permanentError
		if errors.As(err, &perm) {
			return nil, perm.err
		}

		lastErr = err
		if attempt >= c.backoff.MaxRetries {
			return nil, lastErr
		}

		delay := c.backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if c.backoff.MaxInterval > 0 && delay > c.backoff.MaxInterval {
			delay = c.backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		attempt++
	}
}

type permanentError struct {
	err error
}

func (p permanentError) Error() string { return p.err.Error() }
func (p permanentError) Unwrap() error { return p.err }

type apiResponse struct {
	Dt      int64      `json:"dt"`
	Clouds  *apiClouds `json:"clouds"`
	Main    *apiMain   `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

type apiClouds struct {
	All *float64 `json:"all"`
}

type apiMain struct {
	Temp     *float64 `json:"temp"`
	Humidity *float64 `json:"humidity"`
}
