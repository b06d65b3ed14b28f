package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/api/completions"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	defaultActivityTime   = "12:00 PM"
	defaultActivityBudget = "$15-30"
)

// Ensure implementation satisfies the interface
var _ Generator = (*GeneratorImpl)(nil)

// Generator turns a destination plus constraints into structured itinerary
// fragments via the completion service.
type Generator interface {
	// GenerateDestinationContent requests days*4 activities plus packing list
	// and tips for one city. Failures propagate to the caller; the per-day
	// fallback lives in SynthesizeDayActivities.
	GenerateDestinationContent(ctx context.Context, destination string, days int, prefs *types.TripPreferences, budget float64) (*types.DestinationContent, error)

	// SynthesizeDayActivities produces exactly four activities for a single
	// day. It never fails: when the narrow completion call cannot deliver, a
	// deterministic template takes over.
	SynthesizeDayActivities(ctx context.Context, destination string, dayNumber int) []types.Activity
}

// Options carries the model selection for the two prompt sizes.
type Options struct {
	Model             string
	FallbackModel     string
	MaxTokens         int
	FallbackMaxTokens int
	CacheTTL          time.Duration
}

type GeneratorImpl struct {
	client completions.Client
	logger *slog.Logger
	// contentCache memoizes destination content so repeated generation calls
	// for the same city/duration/budget do not re-hit the completion service.
	contentCache *cache.Cache
	opts         Options
}

func NewGenerator(client completions.Client, opts Options, logger *slog.Logger) *GeneratorImpl {
	if opts.Model == "" {
		opts.Model = "gpt-4"
	}
	if opts.FallbackModel == "" {
		opts.FallbackModel = "gpt-4o-mini"
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 2000
	}
	if opts.FallbackMaxTokens <= 0 {
		opts.FallbackMaxTokens = 1000
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 24 * time.Hour
	}
	return &GeneratorImpl{
		client:       client,
		logger:       logger,
		contentCache: cache.New(opts.CacheTTL, time.Hour),
		opts:         opts,
	}
}

func (g *GeneratorImpl) GenerateDestinationContent(ctx context.Context, destination string, days int, prefs *types.TripPreferences, budget float64) (*types.DestinationContent, error) {
	ctx, span := otel.Tracer("Generator").Start(ctx, "GenerateDestinationContent", trace.WithAttributes(
		attribute.String("destination", destination),
		attribute.Int("days", days),
	))
	defer span.End()

	l := g.logger.With(slog.String("method", "GenerateDestinationContent"), slog.String("destination", destination))

	city, country := ParseDestination(destination)

	cacheKey := fmt.Sprintf("%s|%d|%.0f|%s", destination, days, budget, prefsCacheKey(prefs))
	if cached, found := g.contentCache.Get(cacheKey); found {
		l.DebugContext(ctx, "Destination content served from cache")
		return cached.(*types.DestinationContent), nil
	}

	prompt := getDestinationContentPrompt(city, country, days, prefs, budget)
	raw, err := g.client.Complete(ctx, completions.Request{
		Model:     g.opts.Model,
		Prompt:    prompt,
		MaxTokens: g.opts.MaxTokens,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Completion call failed")
		return nil, fmt.Errorf("failed to generate destination content: %w", err)
	}

	content, err := parseDestinationContent(raw)
	if err != nil {
		l.ErrorContext(ctx, "Failed to parse destination content", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Parse failed")
		return nil, err
	}

	content.Activities = NormalizeActivities(content.Activities, city, country)

	l.InfoContext(ctx, "Destination content generated",
		slog.Int("activities", len(content.Activities)),
		slog.Int("packing_items", len(content.PackingList)),
		slog.Int("tips", len(content.Tips)))
	span.SetAttributes(attribute.Int("activities.count", len(content.Activities)))
	span.SetStatus(codes.Ok, "Destination content generated")

	g.contentCache.Set(cacheKey, content, cache.DefaultExpiration)
	return content, nil
}

func (g *GeneratorImpl) SynthesizeDayActivities(ctx context.Context, destination string, dayNumber int) []types.Activity {
	ctx, span := otel.Tracer("Generator").Start(ctx, "SynthesizeDayActivities", trace.WithAttributes(
		attribute.String("destination", destination),
		attribute.Int("day", dayNumber),
	))
	defer span.End()

	l := g.logger.With(slog.String("method", "SynthesizeDayActivities"), slog.String("destination", destination))

	city, country := ParseDestination(destination)

	raw, err := g.client.Complete(ctx, completions.Request{
		Model:     g.opts.FallbackModel,
		Prompt:    getFallbackActivitiesPrompt(city, country, dayNumber),
		MaxTokens: g.opts.FallbackMaxTokens,
	})
	if err != nil {
		l.WarnContext(ctx, "Fallback completion call failed, using generic activities", slog.Any("error", err))
		span.RecordError(err)
		return genericDayActivities(city)
	}

	activities, err := parseActivities(raw)
	if err != nil {
		l.WarnContext(ctx, "Fallback response unparseable, using generic activities", slog.Any("error", err))
		span.RecordError(err)
		return genericDayActivities(city)
	}

	activities = NormalizeActivities(activities, city, country)
	if len(activities) < 4 {
		activities = append(activities, genericDayActivities(city)[len(activities):]...)
	}
	span.SetStatus(codes.Ok, "Day activities synthesized")
	return activities[:4]
}

// NormalizeActivities repairs activities missing required fields with generic
// placeholders and defaults budget and location. Complete activities pass
// through unchanged, so the repair is idempotent.
func NormalizeActivities(activities []types.Activity, city, country string) []types.Activity {
	normalized := make([]types.Activity, 0, len(activities))
	for _, a := range activities {
		if a.Time == "" {
			a.Time = defaultActivityTime
		}
		if a.Title == "" {
			a.Title = fmt.Sprintf("Visit to a place in %s", city)
		}
		if a.Description == "" {
			a.Description = fmt.Sprintf("Enjoy your time in %s", city)
		}
		if a.Budget == "" {
			a.Budget = defaultActivityBudget
		}
		if a.Location == "" {
			a.Location = fmt.Sprintf("%s, %s", city, country)
		}
		normalized = append(normalized, a)
	}
	return normalized
}

// genericDayActivities is the last-resort template: four fixed slots spread
// across the day, parameterized only by city name.
func genericDayActivities(city string) []types.Activity {
	return []types.Activity{
		{
			Time:        "9:00 AM",
			Title:       fmt.Sprintf("Morning Exploration in %s", city),
			Description: fmt.Sprintf("Start your day by exploring %s. Visit local attractions and enjoy the morning atmosphere.", city),
			Budget:      defaultActivityBudget,
			Location:    fmt.Sprintf("%s Area", city),
		},
		{
			Time:        "12:30 PM",
			Title:       fmt.Sprintf("Local Lunch in %s", city),
			Description: fmt.Sprintf("Enjoy a meal at a local restaurant in %s. Try some regional specialties.", city),
			Budget:      defaultActivityBudget,
			Location:    fmt.Sprintf("%s Area", city),
		},
		{
			Time:        "3:00 PM",
			Title:       fmt.Sprintf("Afternoon Activity in %s", city),
			Description: fmt.Sprintf("Spend your afternoon discovering more of %s's attractions and culture.", city),
			Budget:      defaultActivityBudget,
			Location:    fmt.Sprintf("%s Area", city),
		},
		{
			Time:        "7:00 PM",
			Title:       fmt.Sprintf("Evening Entertainment in %s", city),
			Description: fmt.Sprintf("End your day with some evening entertainment in %s.", city),
			Budget:      defaultActivityBudget,
			Location:    fmt.Sprintf("%s Area", city),
		},
	}
}

// ParseDestination splits a "City, Country" string. Malformed input keeps the
// whole string as the city with an unknown country.
func ParseDestination(destination string) (city, country string) {
	parts := strings.SplitN(destination, ",", 2)
	city = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		country = strings.TrimSpace(parts[1])
	}
	if city == "" || country == "" {
		return strings.TrimSpace(destination), "Unknown"
	}
	return city, country
}

func prefsCacheKey(prefs *types.TripPreferences) string {
	if prefs == nil {
		return ""
	}
	return fmt.Sprintf("%s|%s|%t|%t", strings.Join(prefs.Interests, ","), prefs.TravelStyle, prefs.FamilyFriendly, prefs.Accessibility)
}
