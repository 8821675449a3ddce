package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"tenkibot/internal/advisor"
	"tenkibot/internal/upstream"
)

// Client fetches current conditions from OpenWeatherMap by coordinates.
type Client struct {
	apiKey  string
	baseURL string
	httpCfg upstream.Config
	circuit *gobreaker.CircuitBreaker
}

func NewClient(client *http.Client, apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		httpCfg: upstream.DefaultConfig(client),
		circuit: upstream.NewBreaker("openweather"),
	}
}

// Ready reports whether the provider credential is configured.
func (c *Client) Ready() error {
	if c.apiKey == "" {
		return fmt.Errorf("openweather: %w (OPENWEATHER_API_KEY)", advisor.ErrMissingCredential)
	}
	return nil
}

// openWeatherPayload mirrors the provider's current-conditions schema.
// main, weather[0] and sys must be present; wind, clouds and visibility are
// optional on the provider side and default to zero.
type openWeatherPayload struct {
	Name       string  `json:"name"`
	Visibility float64 `json:"visibility"`
	Timezone   int     `json:"timezone"`
	Weather    []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Clouds *struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Sys *struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
}

// Fetch retrieves current conditions for the coordinates and maps them into
// the canonical snapshot shape. A response missing the required blocks is a
// hard failure, never a default substitution.
func (c *Client) Fetch(ctx context.Context, lat, lon float64, lang advisor.Language) (advisor.WeatherSnapshot, error) {
	if err := c.Ready(); err != nil {
		return advisor.WeatherSnapshot{}, err
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", lat))
		values.Set("lon", fmt.Sprintf("%f", lon))
		values.Set("units", "metric")
		values.Set("appid", c.apiKey)
		if lang != "" {
			values.Set("lang", string(lang))
		}

		u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := upstream.Do(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return advisor.WeatherSnapshot{}, fmt.Errorf("%w: openweather: %v", advisor.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	var payload openWeatherPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return advisor.WeatherSnapshot{}, fmt.Errorf("%w: openweather: %v", advisor.ErrUpstreamUnavailable, err)
	}

	return mapPayload(payload)
}

// mapPayload is a pure, total function over well-formed provider responses.
func mapPayload(payload openWeatherPayload) (advisor.WeatherSnapshot, error) {
	if payload.Main == nil || len(payload.Weather) == 0 || payload.Sys == nil {
		return advisor.WeatherSnapshot{}, fmt.Errorf("%w: openweather: response missing current-conditions fields", advisor.ErrUpstreamUnavailable)
	}

	// Station-local zone from the provider's UTC shift.
	zone := time.FixedZone("local", payload.Timezone)

	snapshot := advisor.WeatherSnapshot{
		City:        payload.Name,
		Main:        payload.Weather[0].Main,
		Description: payload.Weather[0].Description,
		Temp:        payload.Main.Temp,
		FeelsLike:   payload.Main.FeelsLike,
		TempMin:     payload.Main.TempMin,
		TempMax:     payload.Main.TempMax,
		Pressure:    payload.Main.Pressure,
		Humidity:    payload.Main.Humidity,
		Visibility:  payload.Visibility,
		Sunrise:     time.Unix(payload.Sys.Sunrise, 0).In(zone).Format("15:04"),
		Sunset:      time.Unix(payload.Sys.Sunset, 0).In(zone).Format("15:04"),
	}
	if payload.Wind != nil {
		snapshot.WindSpeed = payload.Wind.Speed
		snapshot.WindDeg = payload.Wind.Deg
	}
	if payload.Clouds != nil {
		snapshot.Clouds = payload.Clouds.All
	}

	return snapshot, nil
}

// Ping checks upstream reachability with a fixed coordinate pair.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Fetch(ctx, 35.6895, 139.6917, advisor.LanguageEN)
	return err
}
