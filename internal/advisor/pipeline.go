package advisor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// Pipeline sequences city extraction, geocoding, weather lookup and reply
// generation for one request. It holds no mutable state beyond its
// collaborators, so concurrent invocations need no locking.
type Pipeline struct {
	extractor   *CityExtractor
	geocoder    Geocoder
	weather     WeatherFetcher
	generator   TextGenerator
	stepTimeout time.Duration
}

// NewPipeline creates a Pipeline. stepTimeout bounds each external call
// individually; <= 0 falls back to 10 seconds.
func NewPipeline(geocoder Geocoder, weather WeatherFetcher, generator TextGenerator, stepTimeout time.Duration) *Pipeline {
	if stepTimeout <= 0 {
		stepTimeout = 10 * time.Second
	}
	return &Pipeline{
		extractor:   NewCityExtractor(generator),
		geocoder:    geocoder,
		weather:     weather,
		generator:   generator,
		stepTimeout: stepTimeout,
	}
}

// Resolve runs the request through the resolution state machine and returns
// exactly one outcome. It performs no retries; retry and backoff live in the
// transport layer underneath the clients.
//
// A request that carries a complete coordinate pair can never come back as
// NeedsLocation: both the no-city and the geocode-miss paths fall back to
// the pair. That makes the location negotiation an at-most-once round trip.
func (p *Pipeline) Resolve(ctx context.Context, req RequestContext) Outcome {
	// Credentials are checked before any network call is attempted.
	if err := p.weather.Ready(); err != nil {
		log.Printf("ERROR: weather provider not configured: %v", err)
		return failure(FailureConfiguration, err.Error())
	}
	if err := p.generator.Ready(); err != nil {
		log.Printf("ERROR: model provider not configured: %v", err)
		return failure(FailureConfiguration, err.Error())
	}

	if req.partialCoordinates() {
		return failure(FailureInternal, ErrMissingCoordinates.Error())
	}

	loc, outcome, done := p.resolveLocation(ctx, req)
	if done {
		return outcome
	}

	snapshot, err := p.fetchWeather(ctx, req.Language, loc)
	if err != nil {
		log.Printf("ERROR: weather fetch failed for %s (%.4f, %.4f): %v", loc.Name, loc.Lat, loc.Lon, err)
		if errors.Is(err, ErrMissingCredential) {
			return failure(FailureConfiguration, err.Error())
		}
		return failure(FailureUpstream, TryAgainMessage(req.Language))
	}

	reply, err := p.generateReply(ctx, req, snapshot)
	if err != nil {
		if errors.Is(err, ErrEmptyResponse) {
			reply = FallbackReply(req.Language)
		} else {
			log.Printf("ERROR: reply generation failed for %s: %v", loc.Name, err)
			return failure(FailureUpstream, TryAgainMessage(req.Language))
		}
	}

	return success(reply, snapshot, loc.Name)
}

// resolveLocation walks the extraction/geocoding/fallback branch of the
// state machine. done is true when outcome is terminal.
func (p *Pipeline) resolveLocation(ctx context.Context, req RequestContext) (loc ResolvedLocation, outcome Outcome, done bool) {
	extractCtx, cancel := context.WithTimeout(ctx, p.stepTimeout)
	city := p.extractor.Extract(extractCtx, req.Utterance)
	cancel()

	if city == "" {
		log.Printf("DEBUG: no city in utterance")
		if !req.hasCoordinates() {
			return loc, needsLocation(NeedLocationMessage(req.Language)), true
		}
		return p.clientLocation(req), Outcome{}, false
	}

	log.Printf("DEBUG: extracted city %q", city)

	geocodeCtx, cancel := context.WithTimeout(ctx, p.stepTimeout)
	resolved, err := p.geocoder.Geocode(geocodeCtx, city, req.Language)
	cancel()

	switch {
	case err == nil:
		log.Printf("DEBUG: resolved %q to %s (%.4f, %.4f)", city, resolved.Name, resolved.Lat, resolved.Lon)
		return resolved, Outcome{}, false
	case errors.Is(err, ErrNotFound):
		log.Printf("DEBUG: geocoding found no match for %q", city)
		if req.hasCoordinates() {
			return p.clientLocation(req), Outcome{}, false
		}
		return loc, needsLocation(CityNotFoundMessage(req.Language, city)), true
	default:
		log.Printf("ERROR: geocoding failed for %q: %v", city, err)
		if req.hasCoordinates() {
			return p.clientLocation(req), Outcome{}, false
		}
		return loc, failure(FailureUpstream, TryAgainMessage(req.Language)), true
	}
}

// clientLocation builds a ResolvedLocation from the caller's coordinates
// with the localized generic display label.
func (p *Pipeline) clientLocation(req RequestContext) ResolvedLocation {
	return ResolvedLocation{
		Lat:  *req.Lat,
		Lon:  *req.Lon,
		Name: CurrentLocationLabel(req.Language),
	}
}

func (p *Pipeline) fetchWeather(ctx context.Context, lang Language, loc ResolvedLocation) (WeatherSnapshot, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.stepTimeout)
	defer cancel()

	// The language hint makes the provider return localized condition text.
	return p.weather.Fetch(fetchCtx, loc.Lat, loc.Lon, lang)
}

func (p *Pipeline) generateReply(ctx context.Context, req RequestContext, snapshot WeatherSnapshot) (string, error) {
	prompt := BuildPrompt(req, snapshot)

	genCtx, cancel := context.WithTimeout(ctx, p.stepTimeout)
	defer cancel()

	reply, err := p.generator.Generate(genCtx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	return reply, nil
}
