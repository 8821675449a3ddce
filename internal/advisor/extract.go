package advisor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"tenkibot/internal/common"
)

// maxCityNameLen guards against the model answering with a full sentence
// instead of a bare name.
const maxCityNameLen = 50

const extractInstruction = `You are a city name extraction specialist.

Task: extract the city name from the message below.

Rules:
1. If the message clearly contains a city name, answer with that city name only.
2. If it contains no city name, answer "NONE".
3. Never include explanations or extra words.
4. Phrases that refer to the user's own position ("here", "my area", "ここ", "現在地", "私の場所") are not city names; answer "NONE".

Examples:
- "東京の天気は？" → "東京"
- "大阪は暑いですか" → "大阪"
- "What should I wear in Paris?" → "Paris"
- "temperature of my area" → "NONE"
- "今日の天気" → "NONE"
- "ここの気温は？" → "NONE"

Message: "%s"

City name:`

// CityExtractor asks a text-generation model whether an utterance names a
// city. It never fails: any model error degrades to "no city found" so the
// pipeline can still proceed on client coordinates.
type CityExtractor struct {
	gen TextGenerator
}

func NewCityExtractor(gen TextGenerator) *CityExtractor {
	return &CityExtractor{gen: gen}
}

// Extract returns the bare city name mentioned in the utterance, or the
// empty string when none is found.
func (e *CityExtractor) Extract(ctx context.Context, utterance string) string {
	answer, err := e.gen.Generate(ctx, fmt.Sprintf(extractInstruction, utterance))
	if err != nil {
		log.Printf("city extraction failed, proceeding without city: %v", err)
		return ""
	}
	return normalizeCityAnswer(answer)
}

// normalizeCityAnswer maps the raw model reply onto either a city name or
// the empty string. Sentinel answers, over-long replies and the model's
// occasional "nothing found" prose all count as no city.
func normalizeCityAnswer(answer string) string {
	name := strings.TrimSpace(answer)
	name = strings.Trim(name, `"'「」`)
	name = strings.TrimSpace(name)

	lower := strings.ToLower(name)
	if lower == "" || lower == "none" {
		return ""
	}
	if common.HasAny(lower, "空文字", "ありません", "含まれていない", "見つかりません") {
		return ""
	}
	if utf8.RuneCountInString(name) > maxCityNameLen {
		return ""
	}
	return name
}
