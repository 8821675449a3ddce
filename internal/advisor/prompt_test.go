package advisor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveFlags(t *testing.T) {
	cases := []struct {
		name string
		snap WeatherSnapshot
		want advisoryFlags
	}{
		{
			name: "mild everything",
			snap: WeatherSnapshot{Temp: 20, FeelsLike: 21, WindSpeed: 2, Humidity: 50, Visibility: 10000},
			want: advisoryFlags{TempGap: false, Wind: windCalm, Humidity: humidityComfortable, LowVisibility: false},
		},
		{
			name: "large feel gap",
			snap: WeatherSnapshot{Temp: 20, FeelsLike: 15.5, WindSpeed: 2, Humidity: 50, Visibility: 10000},
			want: advisoryFlags{TempGap: true, Wind: windCalm, Humidity: humidityComfortable},
		},
		{
			name: "gap exactly at threshold is not flagged",
			snap: WeatherSnapshot{Temp: 20, FeelsLike: 17, WindSpeed: 2, Humidity: 50, Visibility: 10000},
			want: advisoryFlags{TempGap: false, Wind: windCalm, Humidity: humidityComfortable},
		},
		{
			name: "moderate wind",
			snap: WeatherSnapshot{Temp: 20, FeelsLike: 20, WindSpeed: 7, Humidity: 50, Visibility: 10000},
			want: advisoryFlags{Wind: windModerate, Humidity: humidityComfortable},
		},
		{
			name: "strong wind",
			snap: WeatherSnapshot{Temp: 20, FeelsLike: 20, WindSpeed: 11, Humidity: 50, Visibility: 10000},
			want: advisoryFlags{Wind: windStrong, Humidity: humidityComfortable},
		},
		{
			name: "dry and hazy",
			snap: WeatherSnapshot{Temp: 20, FeelsLike: 20, WindSpeed: 1, Humidity: 20, Visibility: 3000},
			want: advisoryFlags{Wind: windCalm, Humidity: humidityDry, LowVisibility: true},
		},
		{
			name: "humid",
			snap: WeatherSnapshot{Temp: 20, FeelsLike: 20, WindSpeed: 1, Humidity: 85, Visibility: 10000},
			want: advisoryFlags{Wind: windCalm, Humidity: humidityHumid},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, deriveFlags(tc.snap))
		})
	}
}

func TestBuildPromptSurfacesOnlyActiveAdvisories(t *testing.T) {
	req := RequestContext{Utterance: "What should I wear?", Theme: "travel", Language: LanguageEN}

	calm := WeatherSnapshot{
		City: "Tokyo", Main: "Clear", Description: "clear sky",
		Temp: 20, FeelsLike: 20.5, TempMin: 17, TempMax: 23,
		Humidity: 50, WindSpeed: 2, Visibility: 10000,
	}
	prompt := BuildPrompt(req, calm)

	en := promptTable[LanguageEN]
	require.Contains(t, prompt, `"travel"`)
	require.Contains(t, prompt, "Tokyo")
	require.Contains(t, prompt, "What should I wear?")
	require.NotContains(t, prompt, en.advisoriesHeader)
	require.NotContains(t, prompt, en.adviseWind)

	rough := calm
	rough.FeelsLike = 14
	rough.WindSpeed = 12
	rough.Humidity = 85
	rough.Visibility = 2000
	prompt = BuildPrompt(req, rough)

	require.Contains(t, prompt, en.advisoriesHeader)
	require.Contains(t, prompt, en.adviseTempGap)
	require.Contains(t, prompt, en.adviseWind)
	require.Contains(t, prompt, en.adviseHumidity)
	require.Contains(t, prompt, en.adviseVisibility)
}

func TestBuildPromptIsLocalized(t *testing.T) {
	snap := WeatherSnapshot{City: "東京", Temp: 18, FeelsLike: 18, Humidity: 50, Visibility: 9000}

	ja := BuildPrompt(RequestContext{Utterance: "今日の天気", Theme: "旅行", Language: LanguageJA}, snap)
	require.Contains(t, ja, "天気アドバイザー")
	require.Contains(t, ja, "日本語")

	en := BuildPrompt(RequestContext{Utterance: "today?", Theme: "travel", Language: LanguageEN}, snap)
	require.Contains(t, en, "English")
	require.False(t, strings.Contains(en, "日本語"))
}

func TestNegotiationMessages(t *testing.T) {
	require.Contains(t, CityNotFoundMessage(LanguageJA, "ズクォポリス"), "ズクォポリス")
	require.Contains(t, CityNotFoundMessage(LanguageEN, "Zzqxlopolis"), "Zzqxlopolis")

	require.NotEmpty(t, NeedLocationMessage(LanguageJA))
	require.NotEmpty(t, NeedLocationMessage(LanguageEN))
	require.NotEqual(t, NeedLocationMessage(LanguageJA), NeedLocationMessage(LanguageEN))

	require.Equal(t, "現在地", CurrentLocationLabel(LanguageJA))
	require.NotEmpty(t, FallbackReply(LanguageEN))
	require.NotEmpty(t, TryAgainMessage(LanguageJA))

	// Unknown language codes fall back to English.
	require.Equal(t, NeedLocationMessage(LanguageEN), NeedLocationMessage("fr"))
}
