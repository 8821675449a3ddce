package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type funcGenerator struct {
	fn func(prompt string) (string, error)
}

func (f *funcGenerator) Ready() error { return nil }

func (f *funcGenerator) Generate(_ context.Context, prompt string) (string, error) {
	return f.fn(prompt)
}

func TestNormalizeCityAnswer(t *testing.T) {
	cases := []struct {
		name   string
		answer string
		want   string
	}{
		{"bare city", "Tokyo", "Tokyo"},
		{"japanese city", "東京", "東京"},
		{"surrounding whitespace", "  Osaka \n", "Osaka"},
		{"quoted", `"Paris"`, "Paris"},
		{"japanese quoted", "「京都」", "京都"},
		{"sentinel upper", "NONE", ""},
		{"sentinel lower", "none", ""},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"japanese not-found prose", "都市名は含まれていないため空文字を返します", ""},
		{"japanese no-match prose", "見つかりませんでした", ""},
		{"over-long sentence", strings.Repeat("a", 51), ""},
		{"long japanese sentence", strings.Repeat("都", 51), ""},
		{"exactly max length", strings.Repeat("a", 50), strings.Repeat("a", 50)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, normalizeCityAnswer(tc.answer))
		})
	}
}

func TestExtractPassesUtterance(t *testing.T) {
	var seen string
	gen := &funcGenerator{fn: func(prompt string) (string, error) {
		seen = prompt
		return "東京", nil
	}}

	e := NewCityExtractor(gen)
	got := e.Extract(context.Background(), "東京の天気は？")

	require.Equal(t, "東京", got)
	require.Contains(t, seen, "東京の天気は？")
}

func TestExtractDegradesOnModelError(t *testing.T) {
	gen := &funcGenerator{fn: func(string) (string, error) {
		return "", errors.New("timeout")
	}}

	e := NewCityExtractor(gen)
	require.Empty(t, e.Extract(context.Background(), "what's the weather"))
}
