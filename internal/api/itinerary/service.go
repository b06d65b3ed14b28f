package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-trip-planner/internal/api/generation"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const activitiesPerDay = 4

var (
	ErrNoDestinations   = errors.New("at least one destination is required")
	ErrInvalidNights    = errors.New("every destination needs at least one night")
	ErrInvalidDateRange = errors.New("end date must be after start date")
)

// PreferenceStore exposes the stored user preference signals merged into each
// generation request. Implementations may return nil when nothing is stored.
type PreferenceStore interface {
	UserPreferences(ctx context.Context) (*types.UserPreferences, error)
}

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service assembles trip itineraries from generated destination content.
type Service interface {
	// GenerateMultiCity builds one contiguous itinerary across the requested
	// destinations, in input order.
	GenerateMultiCity(ctx context.Context, req types.MultiCityTripRequest) (*types.TripItinerary, error)

	// Generate is the single-destination path. destination is a
	// "City, Country" string.
	Generate(ctx context.Context, destination string, startDate, endDate time.Time, budget float64) (*types.TripItinerary, error)
}

type ServiceImpl struct {
	generator generation.Generator
	prefs     PreferenceStore
	notifier  Notifier
	logger    *slog.Logger
	// cityConcurrency bounds the per-city content fan-out; 1 keeps the walk
	// strictly sequential.
	cityConcurrency int
}

func NewService(generator generation.Generator, prefs PreferenceStore, notifier Notifier, cityConcurrency int, logger *slog.Logger) *ServiceImpl {
	if cityConcurrency < 1 {
		cityConcurrency = 1
	}
	return &ServiceImpl{
		generator:       generator,
		prefs:           prefs,
		notifier:        notifier,
		logger:          logger,
		cityConcurrency: cityConcurrency,
	}
}

// contentResult carries one city's generation outcome so the assembly loop
// branches on an explicit variant instead of recovering from control flow.
type contentResult struct {
	Content *types.DestinationContent
	Err     error
}

func (s *ServiceImpl) GenerateMultiCity(ctx context.Context, req types.MultiCityTripRequest) (*types.TripItinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateMultiCity", trace.WithAttributes(
		attribute.Int("destinations.count", len(req.Destinations)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GenerateMultiCity"))

	if len(req.Destinations) == 0 {
		s.notifier.Failure(ctx, "Please add at least one destination.")
		span.SetStatus(codes.Error, "No destinations")
		return nil, ErrNoDestinations
	}
	for _, dest := range req.Destinations {
		if dest.Nights < 1 {
			s.notifier.Failure(ctx, fmt.Sprintf("Please set at least one night for %s.", dest.City))
			span.SetStatus(codes.Error, "Invalid nights")
			return nil, ErrInvalidNights
		}
	}

	stored, err := s.prefs.UserPreferences(ctx)
	if err != nil {
		l.WarnContext(ctx, "Failed to load stored preferences, continuing without them", slog.Any("error", err))
		stored = nil
	}
	merged := mergePreferences(stored, req.Preferences)

	s.notifier.Progress(ctx, "Generating your personalized multi-city itinerary...")

	totalNights := 0
	for _, dest := range req.Destinations {
		totalNights += dest.Nights
	}
	l.InfoContext(ctx, "Starting multi-city generation",
		slog.Int("cities", len(req.Destinations)),
		slog.Int("total_nights", totalNights))

	results := s.generateCityContents(ctx, req.Destinations, merged, req.Budget, totalNights)

	currentDate := req.StartDate
	cities := make([]types.CityStay, 0, len(req.Destinations))
	destinations := make([]string, 0, len(req.Destinations))

	for i, dest := range req.Destinations {
		startDate := currentDate
		endDate := currentDate.AddDate(0, 0, dest.Nights)
		destination := fmt.Sprintf("%s, %s", dest.City, dest.Country)

		var activities []types.Activity
		if results[i].Err != nil {
			l.WarnContext(ctx, "City content generation failed, every day will be backfilled",
				slog.String("destination", destination),
				slog.Any("error", results[i].Err))
		} else {
			activities = results[i].Content.Activities
		}

		days := make([]types.DayItinerary, 0, dest.Nights)
		for n := 0; n < dest.Nights; n++ {
			days = append(days, types.DayItinerary{
				Day:        n + 1,
				Date:       formatDate(startDate.AddDate(0, 0, n)),
				Title:      dayTitle(dest.City, n, dest.Nights),
				City:       dest.City,
				Activities: s.dayActivities(ctx, activities, n+1, destination),
			})
		}

		cities = append(cities, types.CityStay{
			City:      dest.City,
			Country:   dest.Country,
			StartDate: startDate,
			EndDate:   endDate,
			Days:      days,
		})
		destinations = append(destinations, destination)
		currentDate = endDate
	}

	packingList, tips := firstCityExtras(results[0])

	s.notifier.Success(ctx, "Multi-city itinerary generated successfully!")
	span.SetStatus(codes.Ok, "Itinerary generated")

	return &types.TripItinerary{
		Destinations: destinations,
		Dates:        formatDateRange(req.StartDate, currentDate),
		TotalBudget:  formatBudget(req.Budget),
		Cities:       cities,
		PackingList:  packingList,
		Tips:         tips,
	}, nil
}

func (s *ServiceImpl) Generate(ctx context.Context, destination string, startDate, endDate time.Time, budget float64) (*types.TripItinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("destination", destination),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Generate"), slog.String("destination", destination))

	city, country := generation.ParseDestination(destination)

	days := int(math.Ceil(endDate.Sub(startDate).Hours() / 24))
	if days <= 0 {
		s.notifier.Failure(ctx, "Please select a valid date range.")
		span.SetStatus(codes.Error, "Invalid date range")
		return nil, ErrInvalidDateRange
	}

	stored, err := s.prefs.UserPreferences(ctx)
	if err != nil {
		l.WarnContext(ctx, "Failed to load stored preferences, continuing without them", slog.Any("error", err))
		stored = nil
	}
	merged := mergePreferences(stored, nil)

	s.notifier.Progress(ctx, "Generating your personalized itinerary...")

	content, err := s.generator.GenerateDestinationContent(ctx, destination, days, merged, budget)
	if err != nil {
		s.notifier.Failure(ctx, "Failed to generate itinerary. Please try again.")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		return nil, err
	}

	dayItineraries := make([]types.DayItinerary, 0, days)
	for n := 0; n < days; n++ {
		dayItineraries = append(dayItineraries, types.DayItinerary{
			Day:        n + 1,
			Date:       formatDate(startDate.AddDate(0, 0, n)),
			Title:      dayTitle(city, n, days),
			City:       city,
			Activities: s.dayActivities(ctx, content.Activities, n+1, destination),
		})
	}

	s.notifier.Success(ctx, "Itinerary generated successfully!")
	span.SetStatus(codes.Ok, "Itinerary generated")

	return &types.TripItinerary{
		Destinations: []string{fmt.Sprintf("%s, %s", city, country)},
		Dates:        formatDateRange(startDate, endDate),
		TotalBudget:  formatBudget(budget),
		Cities: []types.CityStay{{
			City:      city,
			Country:   country,
			StartDate: startDate,
			EndDate:   endDate,
			Days:      dayItineraries,
		}},
		PackingList: content.PackingList,
		Tips:        content.Tips,
	}, nil
}

// generateCityContents fetches destination content for every requested city,
// preserving input order in the returned slice. With cityConcurrency == 1 the
// calls run strictly sequentially; otherwise a bounded group fans them out.
func (s *ServiceImpl) generateCityContents(ctx context.Context, destinations []types.CityVisit, prefs *types.TripPreferences, totalBudget float64, totalNights int) []contentResult {
	results := make([]contentResult, len(destinations))

	generate := func(i int, dest types.CityVisit) {
		destination := fmt.Sprintf("%s, %s", dest.City, dest.Country)
		cityBudget := math.Round(totalBudget * float64(dest.Nights) / float64(totalNights))
		s.logger.DebugContext(ctx, "Generating city content",
			slog.String("destination", destination),
			slog.Float64("city_budget", cityBudget))
		content, err := s.generator.GenerateDestinationContent(ctx, destination, dest.Nights, prefs, cityBudget)
		results[i] = contentResult{Content: content, Err: err}
	}

	if s.cityConcurrency <= 1 {
		for i, dest := range destinations {
			generate(i, dest)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(s.cityConcurrency)
	for i, dest := range destinations {
		g.Go(func() error {
			generate(i, dest)
			return nil
		})
	}
	// Workers report failures through their contentResult slot.
	_ = g.Wait()
	return results
}

// dayActivities slices one day's worth of activities out of the generated
// pool and backfills any shortfall from the fallback synthesizer. Existing
// activities are preserved verbatim; the result always has exactly four.
func (s *ServiceImpl) dayActivities(ctx context.Context, all []types.Activity, dayNumber int, destination string) []types.Activity {
	start := (dayNumber - 1) * activitiesPerDay
	if start >= len(all) {
		return s.generator.SynthesizeDayActivities(ctx, destination, dayNumber)
	}

	end := start + activitiesPerDay
	if end > len(all) {
		end = len(all)
	}
	day := append([]types.Activity(nil), all[start:end]...)

	if len(day) < activitiesPerDay {
		fallback := s.generator.SynthesizeDayActivities(ctx, destination, dayNumber)
		day = append(day, fallback[:activitiesPerDay-len(day)]...)
	}
	return day
}

// firstCityExtras sources the packing list and tips once, from the first
// city's generated content, with generic lists when that city produced none.
func firstCityExtras(first contentResult) (packingList, tips []string) {
	if first.Err == nil && first.Content != nil && len(first.Content.PackingList) > 0 {
		packingList = first.Content.PackingList
	} else {
		packingList = genericPackingList()
	}
	if first.Err == nil && first.Content != nil && len(first.Content.Tips) > 0 {
		tips = first.Content.Tips
	} else {
		tips = genericTips()
	}
	return packingList, tips
}

func dayTitle(city string, index, nights int) string {
	switch {
	case index == 0:
		return fmt.Sprintf("Arrival & First Day in %s", city)
	case index == nights-1:
		return fmt.Sprintf("Last Day in %s", city)
	default:
		return fmt.Sprintf("Exploring %s - Day %d", city, index+1)
	}
}

// mergePreferences combines stored profile preferences with per-request ones:
// interests union, request travel style winning over the stored one with a
// "balanced" default, flags taken from the request.
func mergePreferences(stored *types.UserPreferences, request *types.TripPreferences) *types.TripPreferences {
	merged := &types.TripPreferences{TravelStyle: "balanced"}

	seen := make(map[string]struct{})
	addInterests := func(interests []string) {
		for _, interest := range interests {
			if _, ok := seen[interest]; ok {
				continue
			}
			seen[interest] = struct{}{}
			merged.Interests = append(merged.Interests, interest)
		}
	}

	if stored != nil {
		addInterests(stored.Interests)
		if stored.TravelStyle != "" {
			merged.TravelStyle = stored.TravelStyle
		}
	}
	if request != nil {
		addInterests(request.Interests)
		if request.TravelStyle != "" {
			merged.TravelStyle = request.TravelStyle
		}
		merged.FamilyFriendly = request.FamilyFriendly
		merged.Accessibility = request.Accessibility
	}
	return merged
}

func formatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

func formatDateRange(from, to time.Time) string {
	if from.Year() == to.Year() && from.Month() == to.Month() {
		return fmt.Sprintf("%s %d - %d, %d", from.Month(), from.Day(), to.Day(), from.Year())
	}
	return fmt.Sprintf("%s - %s", formatDate(from), formatDate(to))
}

func formatBudget(budget float64) string {
	if budget == math.Trunc(budget) {
		return fmt.Sprintf("$%.0f", budget)
	}
	return fmt.Sprintf("$%.2f", budget)
}

func genericPackingList() []string {
	return []string{
		"Light cotton clothing",
		"Comfortable walking shoes",
		"Sun protection (hat, sunglasses, sunscreen)",
		"Swimwear",
		"Insect repellent",
		"Travel adapters",
		"Lightweight rain jacket",
		"Small day bag",
		"Reusable water bottle",
		"Basic medical supplies",
		"Travel documents",
		"Local currency",
	}
}

func genericTips() []string {
	return []string{
		"Respect local customs and dress modestly when visiting temples",
		"Always carry some local currency for small purchases",
		"Drink bottled water and avoid ice in street stalls",
		"Use reputable taxi companies or ride-sharing apps",
		"Learn a few basic phrases in the local language",
		"Bargain at markets but remain respectful",
		"Try the street food but choose busy stalls with high turnover",
		"Be aware of common scams targeting tourists",
	}
}
