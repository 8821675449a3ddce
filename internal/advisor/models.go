package advisor

// Language is the target language of the generated reply.
type Language string

const (
	LanguageEN Language = "en"
	LanguageJA Language = "ja"
)

// RequestContext holds the immutable inputs to one pipeline invocation.
// Lat/Lon are optional client-supplied coordinates; both must be present
// for the pair to be usable.
type RequestContext struct {
	Utterance string
	Theme     string
	Language  Language
	Lat       *float64
	Lon       *float64
}

// hasCoordinates reports whether a complete coordinate pair was supplied.
func (r RequestContext) hasCoordinates() bool {
	return r.Lat != nil && r.Lon != nil
}

// partialCoordinates reports whether exactly one of lat/lon was supplied.
func (r RequestContext) partialCoordinates() bool {
	return (r.Lat != nil) != (r.Lon != nil)
}

// ResolvedLocation is a place the pipeline has pinned down to coordinates,
// either via geocoding or from client-supplied coordinates.
type ResolvedLocation struct {
	Lat  float64
	Lon  float64
	Name string
}

// WeatherSnapshot is the normalized current-conditions view for one request.
// Created fresh per request and never cached or mutated. JSON field names
// mirror the shape the chat UI renders.
type WeatherSnapshot struct {
	City        string  `json:"city"`
	Main        string  `json:"mainWeather"`
	Description string  `json:"condition"`
	Temp        float64 `json:"temp"`
	FeelsLike   float64 `json:"feels_like"`
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
	Pressure    float64 `json:"pressure"`
	Humidity    float64 `json:"humidity"`
	Visibility  float64 `json:"visibility"`
	Clouds      float64 `json:"clouds"`
	WindSpeed   float64 `json:"wind_speed"`
	WindDeg     float64 `json:"wind_deg"`
	Sunrise     string  `json:"sunrise"`
	Sunset      string  `json:"sunset"`
}

// OutcomeKind discriminates the three terminal states of a pipeline run.
type OutcomeKind int

const (
	OutcomeNeedsLocation OutcomeKind = iota
	OutcomeSuccess
	OutcomeFailure
)

// FailureKind classifies a Failure outcome for the API layer.
type FailureKind string

const (
	FailureConfiguration FailureKind = "configuration"
	FailureUpstream      FailureKind = "upstream"
	FailureInternal      FailureKind = "internal"
)

// Outcome is the tagged result of one pipeline invocation. Exactly one
// variant is populated, selected by Kind.
type Outcome struct {
	Kind OutcomeKind

	// NeedsLocation: a chat-renderable request for coordinates.
	Message string

	// Success.
	Reply   string
	Weather *WeatherSnapshot
	City    string

	// Failure.
	FailureKind FailureKind
	Detail      string
}

func needsLocation(message string) Outcome {
	return Outcome{Kind: OutcomeNeedsLocation, Message: message}
}

func success(reply string, weather WeatherSnapshot, city string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Reply: reply, Weather: &weather, City: city}
}

func failure(kind FailureKind, detail string) Outcome {
	return Outcome{Kind: OutcomeFailure, FailureKind: kind, Detail: detail}
}
