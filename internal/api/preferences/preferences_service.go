package preferences

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service exposes the stored preference profile. UserPreferences also
// satisfies the itinerary package's PreferenceStore.
type Service interface {
	UserPreferences(ctx context.Context) (*types.UserPreferences, error)
	UpdatePreferences(ctx context.Context, prefs *types.UserPreferences) error
}

type ServiceImpl struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *ServiceImpl) UserPreferences(ctx context.Context) (*types.UserPreferences, error) {
	ctx, span := otel.Tracer("PreferencesService").Start(ctx, "UserPreferences")
	defer span.End()

	prefs, err := s.repo.GetPreferences(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Get failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Preferences fetched")
	return prefs, nil
}

func (s *ServiceImpl) UpdatePreferences(ctx context.Context, prefs *types.UserPreferences) error {
	ctx, span := otel.Tracer("PreferencesService").Start(ctx, "UpdatePreferences")
	defer span.End()

	if err := s.repo.UpsertPreferences(ctx, prefs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Update failed")
		return err
	}
	span.SetStatus(codes.Ok, "Preferences updated")
	return nil
}
