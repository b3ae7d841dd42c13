// Package patterns talks to the PDF design-pattern analyzer service.
// The analyzer inspects presentation PDFs and reports the layouts,
// palettes, and fonts it finds; this package is only the client and the
// wire types.
package patterns

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"podium/internal/chart"
	"podium/internal/config"
	"podium/internal/faults"
)

const defaultHTTPTimeout = 30 * time.Second

// Pattern is one design pattern extracted from an analyzed document.
type Pattern struct {
	Layout  string  `json:"layout"`
	Palette Palette `json:"palette"`
	Font    string  `json:"font"`
}

// Palette carries the color roles observed in a pattern. Values are
// #RRGGBB hex strings.
type Palette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// Colors lists the non-empty palette entries in role order.
func (p Palette) Colors() []string {
	var colors []string
	for _, value := range []string{p.Primary, p.Secondary, p.Accent, p.Background, p.Text} {
		if value != "" {
			colors = append(colors, value)
		}
	}
	return colors
}

// Config captures the analyzer endpoint settings.
type Config struct {
	BaseURL        string
	TimeoutSeconds int
}

// ConfigFromSettings maps the [analyzer] config section onto a client Config.
func ConfigFromSettings(cfg *config.Config) Config {
	if cfg == nil {
		return Config{}
	}
	return Config{
		BaseURL:        cfg.Analyzer.BaseURL,
		TimeoutSeconds: cfg.Analyzer.TimeoutSeconds,
	}
}

// Client posts PDF documents to the analyzer and decodes its findings.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs an analyzer client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:        Config{BaseURL: strings.TrimSpace(cfg.BaseURL), TimeoutSeconds: cfg.TimeoutSeconds},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Analyze submits PDF bytes and returns the patterns the analyzer found.
// Palette colors in the response are validated with the chart color rule
// so downstream consumers can use them without re-checking.
func (c *Client) Analyze(ctx context.Context, pdf []byte) ([]Pattern, error) {
	if len(pdf) == 0 {
		return nil, errors.New("analyze: pdf bytes required")
	}
	if c.cfg.BaseURL == "" {
		return nil, errors.New("analyze: base url required")
	}
	endpoint, err := url.JoinPath(c.cfg.BaseURL, "analyze")
	if err != nil {
		return nil, fmt.Errorf("analyze: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(pdf))
	if err != nil {
		return nil, fmt.Errorf("analyze: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/pdf")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, faults.Wrap(faults.CodeAnalysis, "analyzer unreachable", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, faults.Wrap(faults.CodeAnalysis, "read analyzer response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, faults.Newf(faults.CodeAnalysis, "analyzer returned http %d", resp.StatusCode).
			WithDetail("body", strings.TrimSpace(string(body)))
	}

	var payload struct {
		Patterns []Pattern `json:"patterns"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, faults.Wrap(faults.CodeAnalysis, "decode analyzer response", err)
	}
	for i, pattern := range payload.Patterns {
		for _, spec := range pattern.Palette.Colors() {
			if err := chart.ValidateColor(spec); err != nil {
				return nil, faults.Wrap(faults.CodeAnalysis, "invalid palette color", err).
					WithDetail("pattern_index", i).
					WithDetail("value", spec)
			}
		}
	}
	return payload.Patterns, nil
}

// HealthCheck verifies the analyzer endpoint responds.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.cfg.BaseURL == "" {
		return errors.New("analyzer health: base url required")
	}
	endpoint, err := url.JoinPath(c.cfg.BaseURL, "health")
	if err != nil {
		return fmt.Errorf("analyzer health: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("analyzer health: new request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("analyzer health: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("analyzer health: http %d", resp.StatusCode)
	}
	return nil
}
