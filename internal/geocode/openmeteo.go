package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"tenkibot/internal/advisor"
	"tenkibot/internal/upstream"
)

// Client resolves place names to coordinates via the Open-Meteo geocoding
// API. No credential is required.
type Client struct {
	baseURL string
	httpCfg upstream.Config
	circuit *gobreaker.CircuitBreaker
}

func NewClient(client *http.Client) *Client {
	return &Client{
		baseURL: "https://geocoding-api.open-meteo.com/v1/search",
		httpCfg: upstream.DefaultConfig(client),
		circuit: upstream.NewBreaker("openmeteo-geocoding"),
	}
}

// Geocode returns the single best match for the city name. The result count
// is capped at 1 to bound cost and latency; the first result wins. A zero-
// match response maps to advisor.ErrNotFound.
func (c *Client) Geocode(ctx context.Context, city string, lang advisor.Language) (advisor.ResolvedLocation, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("name", city)
		values.Set("count", "1")
		values.Set("language", languageHint(lang))
		values.Set("format", "json")

		u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := upstream.Do(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return advisor.ResolvedLocation{}, fmt.Errorf("%w: geocoding: %v", advisor.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Name      string  `json:"name"`
		} `json:"results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return advisor.ResolvedLocation{}, fmt.Errorf("%w: geocoding: %v", advisor.ErrUpstreamUnavailable, err)
	}

	if len(payload.Results) == 0 {
		return advisor.ResolvedLocation{}, fmt.Errorf("%w: %q", advisor.ErrNotFound, city)
	}

	best := payload.Results[0]
	return advisor.ResolvedLocation{
		Lat:  best.Latitude,
		Lon:  best.Longitude,
		Name: best.Name,
	}, nil
}

// Ping checks upstream reachability with a fixed cheap query.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Geocode(ctx, "Tokyo", advisor.LanguageEN)
	return err
}

func languageHint(lang advisor.Language) string {
	if lang == "" {
		return string(advisor.LanguageJA)
	}
	return string(lang)
}
