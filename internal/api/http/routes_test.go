package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"tenkibot/internal/advisor"
)

type fakeResolver struct {
	outcome advisor.Outcome
	lastReq advisor.RequestContext
}

func (f *fakeResolver) Resolve(_ context.Context, req advisor.RequestContext) advisor.Outcome {
	f.lastReq = req
	return f.outcome
}

func newTestApp(resolver Resolver) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": true, "message": err.Error()})
		},
	})
	RegisterRoutes(app, resolver, nil)
	return app
}

func postChat(t *testing.T, app *fiber.App, body string) (*http.Response, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestChatValidation(t *testing.T) {
	app := newTestApp(&fakeResolver{})

	resp, _ := postChat(t, app, `{}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = postChat(t, app, `{"message":"hello","language":"fr"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = postChat(t, app, `{"message":"hello","lat":123.0,"lon":50.0}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatDefaultsThemeAndLanguage(t *testing.T) {
	resolver := &fakeResolver{outcome: advisor.Outcome{
		Kind:    advisor.OutcomeNeedsLocation,
		Message: "位置情報が必要です。",
	}}
	app := newTestApp(resolver)

	resp, body := postChat(t, app, `{"message":"今日の天気"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["needsLocation"])
	require.Equal(t, "位置情報が必要です。", body["message"])

	require.Equal(t, "casual", resolver.lastReq.Theme)
	require.Equal(t, advisor.LanguageJA, resolver.lastReq.Language)
	require.Nil(t, resolver.lastReq.Lat)
}

func TestChatSuccessBody(t *testing.T) {
	snap := advisor.WeatherSnapshot{City: "Tokyo", Temp: 18.2, Humidity: 82}
	resolver := &fakeResolver{outcome: advisor.Outcome{
		Kind:    advisor.OutcomeSuccess,
		Reply:   "A light jacket should do.",
		Weather: &snap,
		City:    "Tokyo",
	}}
	app := newTestApp(resolver)

	resp, body := postChat(t, app, `{"message":"weather in Tokyo","theme":"travel","language":"en","lat":35.6895,"lon":139.6917}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "A light jacket should do.", body["reply"])
	require.Equal(t, "Tokyo", body["city"])

	weather, ok := body["weather"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Tokyo", weather["city"])
	require.InDelta(t, 18.2, weather["temp"].(float64), 1e-9)

	require.Equal(t, "travel", resolver.lastReq.Theme)
	require.Equal(t, advisor.LanguageEN, resolver.lastReq.Language)
	require.NotNil(t, resolver.lastReq.Lat)
	require.InDelta(t, 35.6895, *resolver.lastReq.Lat, 1e-9)
}

func TestChatFailureStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		kind       advisor.FailureKind
		wantStatus int
	}{
		{"upstream failure", advisor.FailureUpstream, http.StatusBadGateway},
		{"configuration failure", advisor.FailureConfiguration, http.StatusInternalServerError},
		{"internal failure", advisor.FailureInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolver := &fakeResolver{outcome: advisor.Outcome{
				Kind:        advisor.OutcomeFailure,
				FailureKind: tc.kind,
				Detail:      "something went wrong",
			}}
			app := newTestApp(resolver)

			resp, body := postChat(t, app, `{"message":"hello"}`)
			require.Equal(t, tc.wantStatus, resp.StatusCode)
			require.Equal(t, "something went wrong", body["error"])
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(&fakeResolver{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "tenkibot", body["service"])
}
