package advisor

import "context"

// TextGenerator abstracts a text-generation model behind a prompt-in,
// text-out call so the underlying provider is swappable and mockable.
type TextGenerator interface {
	// Ready reports whether the provider credential is configured.
	Ready() error
	Generate(ctx context.Context, prompt string) (string, error)
}

// Geocoder resolves a free-text place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, city string, lang Language) (ResolvedLocation, error)
}

// WeatherFetcher resolves coordinates to current conditions.
type WeatherFetcher interface {
	// Ready reports whether the provider credential is configured.
	Ready() error
	Fetch(ctx context.Context, lat, lon float64, lang Language) (WeatherSnapshot, error)
}
