package advisor

import (
	"fmt"
	"math"
	"strings"
)

// Advisory thresholds used when deriving flags from a snapshot.
const (
	tempGapThresholdC = 3.0
	windModerateMS    = 5.0
	windStrongMS      = 10.0
	humidityDryPct    = 30.0
	humidityHumidPct  = 70.0
	lowVisibilityM    = 5000.0
)

type windBand int

const (
	windCalm windBand = iota
	windModerate
	windStrong
)

type humidityBand int

const (
	humidityDry humidityBand = iota
	humidityComfortable
	humidityHumid
)

// advisoryFlags are the derived conditions the model is asked to surface.
type advisoryFlags struct {
	TempGap       bool
	Wind          windBand
	Humidity      humidityBand
	LowVisibility bool
}

// deriveFlags computes advisory flags from a snapshot. Pure function.
func deriveFlags(w WeatherSnapshot) advisoryFlags {
	f := advisoryFlags{
		TempGap:       math.Abs(w.FeelsLike-w.Temp) > tempGapThresholdC,
		LowVisibility: w.Visibility < lowVisibilityM,
	}

	switch {
	case w.WindSpeed > windStrongMS:
		f.Wind = windStrong
	case w.WindSpeed > windModerateMS:
		f.Wind = windModerate
	default:
		f.Wind = windCalm
	}

	switch {
	case w.Humidity > humidityHumidPct:
		f.Humidity = humidityHumid
	case w.Humidity < humidityDryPct:
		f.Humidity = humidityDry
	default:
		f.Humidity = humidityComfortable
	}

	return f
}

// promptTemplates holds every localized phrase the builder and the
// negotiation messages need for one language. Adding a language is a new
// table entry, nothing else.
type promptTemplates struct {
	languageName string

	persona      string // fmt: theme
	locationLine string // fmt: place
	questionLine string // fmt: utterance

	conditionsHeader string
	tempLine         string // fmt: temp, feels-like
	rangeLine        string // fmt: min, max
	humidityLine     string // fmt: humidity, band annotation
	windLine         string // fmt: speed, direction, band annotation
	pressureLine     string // fmt: pressure
	weatherLine      string // fmt: main, description, clouds
	visibilityLine   string // fmt: visibility, annotation
	sunLine          string // fmt: sunrise, sunset

	windCalm     string
	windModerate string
	windStrong   string
	humidityDry  string
	humidityComf string
	humidityWet  string
	poorVis      string

	advisoriesHeader string
	adviseTempGap    string
	adviseWind       string
	adviseHumidity   string
	adviseVisibility string

	instructions string // fmt: languageName, theme

	needLocation    string
	cityNotFound    string // fmt: city
	currentLocation string
	fallbackReply   string
	tryAgain        string
}

var promptTable = map[Language]promptTemplates{
	LanguageEN: {
		languageName: "English",

		persona:      "You are a friendly weather advisor with the persona %q.",
		locationLine: "Location: %s",
		questionLine: "User question: %q",

		conditionsHeader: "Current conditions:",
		tempLine:         "- Temperature: %.1f°C (feels like %.1f°C)",
		rangeLine:        "- Low/High: %.1f°C / %.1f°C",
		humidityLine:     "- Humidity: %.0f%% (%s)",
		windLine:         "- Wind: %.1f m/s from %.0f° (%s)",
		pressureLine:     "- Pressure: %.0f hPa",
		weatherLine:      "- Weather: %s (%s), cloud cover %.0f%%",
		visibilityLine:   "- Visibility: %.0f m%s",
		sunLine:          "- Sunrise %s, sunset %s",

		windCalm:     "calm",
		windModerate: "somewhat strong",
		windStrong:   "strong",
		humidityDry:  "dry",
		humidityComf: "comfortable",
		humidityWet:  "humid",
		poorVis:      " (poor visibility)",

		advisoriesHeader: "Active advisories:",
		adviseTempGap:    "- Feels-like differs noticeably from the actual temperature; suggest suitable clothing.",
		adviseWind:       "- Strong wind; advise caution when going outside.",
		adviseHumidity:   "- Extreme humidity; consider comfort and health.",
		adviseVisibility: "- Poor visibility; include a safety note.",

		instructions: "Instructions:\n" +
			"1. Answer in %s only.\n" +
			"2. Keep the %q persona natural, never forced.\n" +
			"3. Mention only the advisories listed above; do not invent warnings.\n" +
			"4. Reply in exactly 2-3 sentences, friendly and practical.",

		needLocation:    "Location is required. Please allow access to your current location.",
		cityNotFound:    "Could not find %q. Please allow access to your current location.",
		currentLocation: "current location",
		fallbackReply:   "(no response from the AI)",
		tryAgain:        "Could not fetch the weather right now. Please try again shortly.",
	},
	LanguageJA: {
		languageName: "日本語",

		persona:      "あなたは「%s」をテーマにした、親しみやすい天気アドバイザーです。",
		locationLine: "場所: %s",
		questionLine: "ユーザーの質問: 「%s」",

		conditionsHeader: "【現在の気象データ】",
		tempLine:         "- 現在気温: %.1f°C（体感 %.1f°C）",
		rangeLine:        "- 最低/最高: %.1f°C / %.1f°C",
		humidityLine:     "- 湿度: %.0f%%（%s）",
		windLine:         "- 風速: %.1f m/s、風向 %.0f°（%s）",
		pressureLine:     "- 気圧: %.0f hPa",
		weatherLine:      "- 天気: %s（%s）、雲量 %.0f%%",
		visibilityLine:   "- 視界: %.0f m%s",
		sunLine:          "- 日の出 %s、日の入り %s",

		windCalm:     "穏やか",
		windModerate: "やや強い",
		windStrong:   "強風",
		humidityDry:  "乾燥",
		humidityComf: "快適",
		humidityWet:  "ジメジメ",
		poorVis:      "（視界不良）",

		advisoriesHeader: "【注意すべき点】",
		adviseTempGap:    "- 体感温度と実際の気温に大きな差があります。服装のアドバイスをしてください。",
		adviseWind:       "- 風が強いので、外出時の注意を添えてください。",
		adviseHumidity:   "- 湿度が極端です。健康への配慮を添えてください。",
		adviseVisibility: "- 視界不良です。安全への警告を添えてください。",

		instructions: "【指示】\n" +
			"1. 回答は必ず%sで行ってください。\n" +
			"2. 「%s」のキャラクター性を自然に活かし、押し付けがましくならないようにしてください。\n" +
			"3. 上に挙げた注意点のみに触れ、余計な警告は作らないでください。\n" +
			"4. 2-3文で、親しみやすく実用的に回答してください。",

		needLocation:    "位置情報が必要です。現在地の使用を許可してください。",
		cityNotFound:    "「%s」が見つかりませんでした。位置情報の使用を許可してください。",
		currentLocation: "現在地",
		fallbackReply:   "（AIからの応答がありません）",
		tryAgain:        "天気情報の取得に失敗しました。しばらくしてからもう一度お試しください。",
	},
}

// templatesFor returns the phrase table for lang, defaulting to English
// for unknown codes.
func templatesFor(lang Language) promptTemplates {
	if t, ok := promptTable[lang]; ok {
		return t
	}
	return promptTable[LanguageEN]
}

// NeedLocationMessage is the generic "location required" negotiation message.
func NeedLocationMessage(lang Language) string {
	return templatesFor(lang).needLocation
}

// CityNotFoundMessage names the city that could not be geocoded.
func CityNotFoundMessage(lang Language, city string) string {
	return fmt.Sprintf(templatesFor(lang).cityNotFound, city)
}

// CurrentLocationLabel is the display name used for client-supplied coordinates.
func CurrentLocationLabel(lang Language) string {
	return templatesFor(lang).currentLocation
}

// FallbackReply substitutes for an empty model response.
func FallbackReply(lang Language) string {
	return templatesFor(lang).fallbackReply
}

// TryAgainMessage is the user-facing text for upstream failures.
func TryAgainMessage(lang Language) string {
	return templatesFor(lang).tryAgain
}

func (f advisoryFlags) windAnnotation(t promptTemplates) string {
	switch f.Wind {
	case windStrong:
		return t.windStrong
	case windModerate:
		return t.windModerate
	default:
		return t.windCalm
	}
}

func (f advisoryFlags) humidityAnnotation(t promptTemplates) string {
	switch f.Humidity {
	case humidityHumid:
		return t.humidityWet
	case humidityDry:
		return t.humidityDry
	default:
		return t.humidityComf
	}
}

// BuildPrompt formats the snapshot, theme and target language into the
// model instruction text. Only advisories that are actually active are
// surfaced to the model.
func BuildPrompt(req RequestContext, w WeatherSnapshot) string {
	t := templatesFor(req.Language)
	f := deriveFlags(w)

	visNote := ""
	if f.LowVisibility {
		visNote = t.poorVis
	}

	var b strings.Builder
	fmt.Fprintf(&b, t.persona, req.Theme)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, t.locationLine, w.City)
	b.WriteString("\n")
	fmt.Fprintf(&b, t.questionLine, req.Utterance)
	b.WriteString("\n\n")

	b.WriteString(t.conditionsHeader)
	b.WriteString("\n")
	fmt.Fprintf(&b, t.tempLine, w.Temp, w.FeelsLike)
	b.WriteString("\n")
	fmt.Fprintf(&b, t.rangeLine, w.TempMin, w.TempMax)
	b.WriteString("\n")
	fmt.Fprintf(&b, t.humidityLine, w.Humidity, f.humidityAnnotation(t))
	b.WriteString("\n")
	fmt.Fprintf(&b, t.windLine, w.WindSpeed, w.WindDeg, f.windAnnotation(t))
	b.WriteString("\n")
	fmt.Fprintf(&b, t.pressureLine, w.Pressure)
	b.WriteString("\n")
	fmt.Fprintf(&b, t.weatherLine, w.Main, w.Description, w.Clouds)
	b.WriteString("\n")
	fmt.Fprintf(&b, t.visibilityLine, w.Visibility, visNote)
	b.WriteString("\n")
	fmt.Fprintf(&b, t.sunLine, w.Sunrise, w.Sunset)
	b.WriteString("\n")

	var advisories []string
	if f.TempGap {
		advisories = append(advisories, t.adviseTempGap)
	}
	if f.Wind == windStrong {
		advisories = append(advisories, t.adviseWind)
	}
	if f.Humidity != humidityComfortable {
		advisories = append(advisories, t.adviseHumidity)
	}
	if f.LowVisibility {
		advisories = append(advisories, t.adviseVisibility)
	}
	if len(advisories) > 0 {
		b.WriteString("\n")
		b.WriteString(t.advisoriesHeader)
		b.WriteString("\n")
		b.WriteString(strings.Join(advisories, "\n"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, t.instructions, t.languageName, req.Theme)

	return b.String()
}
