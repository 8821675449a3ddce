package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"tenkibot/internal/advisor"
	"tenkibot/internal/upstream"
)

const defaultModel = "gemini-2.0-flash"

// Client calls the Gemini generateContent endpoint. It backs both city
// extraction and reply generation.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	httpCfg upstream.Config
	circuit *gobreaker.CircuitBreaker
}

func NewClient(client *http.Client, apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   defaultModel,
		baseURL: "https://generativelanguage.googleapis.com/v1",
		httpCfg: upstream.DefaultConfig(client),
		circuit: upstream.NewBreaker("gemini"),
	}
}

// Ready reports whether the provider credential is configured.
func (c *Client) Ready() error {
	if c.apiKey == "" {
		return fmt.Errorf("gemini: %w (GEMINI_API_KEY)", advisor.ErrMissingCredential)
	}
	return nil
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends a single prompt and returns the generated text from the
// first candidate. An empty candidate set or blank text maps to
// advisor.ErrEmptyResponse so callers can substitute a localized fallback.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.Ready(); err != nil {
		return "", err
	}

	body, err := json.Marshal(generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: encode request: %w", err)
	}

	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
		req, err := http.NewRequest(http.MethodPost, u, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	resp, err := upstream.Do(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", advisor.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	var payload generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: gemini: %v", advisor.ErrUpstreamUnavailable, err)
	}

	text := extractText(payload)
	if text == "" {
		return "", advisor.ErrEmptyResponse
	}
	return text, nil
}

func extractText(payload generateContentResponse) string {
	if len(payload.Candidates) == 0 {
		return ""
	}
	parts := payload.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return strings.TrimSpace(parts[0].Text)
}
