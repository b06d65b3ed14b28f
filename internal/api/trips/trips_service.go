package trips

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	StatusPlanning  = "planning"
	StatusUpcoming  = "upcoming"
	StatusCompleted = "completed"
)

var ErrInvalidStatus = errors.New("status must be one of planning, upcoming, completed")

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

type Service interface {
	SaveTrip(ctx context.Context, name, status string, itinerary types.TripItinerary) (*types.SavedTrip, error)
	ListTrips(ctx context.Context) ([]types.SavedTrip, error)
	GetTrip(ctx context.Context, id uuid.UUID) (*types.SavedTrip, error)
	UpdateTripStatus(ctx context.Context, id uuid.UUID, status string) error
	DeleteTrip(ctx context.Context, id uuid.UUID) error
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

// SaveTrip persists a generated itinerary. An empty name gets a default
// derived from the destinations, an empty status starts as planning.
func (s *ServiceImpl) SaveTrip(ctx context.Context, name, status string, itinerary types.TripItinerary) (*types.SavedTrip, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "SaveTrip")
	defer span.End()

	l := s.logger.With(slog.String("method", "SaveTrip"))

	if name == "" {
		name = fmt.Sprintf("Trip to %s", strings.Join(itinerary.Destinations, " & "))
	}
	if status == "" {
		status = StatusPlanning
	}
	if !validStatus(status) {
		span.SetStatus(codes.Error, "Invalid status")
		return nil, ErrInvalidStatus
	}

	trip := &types.SavedTrip{
		Name:         name,
		Destinations: itinerary.Destinations,
		Dates:        itinerary.Dates,
		TotalBudget:  itinerary.TotalBudget,
		Status:       status,
		Itinerary:    itinerary,
	}

	if _, err := s.repo.SaveTrip(ctx, trip); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Save failed")
		return nil, err
	}

	l.InfoContext(ctx, "Trip saved", slog.String("trip_id", trip.ID.String()), slog.String("name", name))
	span.SetStatus(codes.Ok, "Trip saved")
	return trip, nil
}

func (s *ServiceImpl) ListTrips(ctx context.Context) ([]types.SavedTrip, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "ListTrips")
	defer span.End()

	trips, err := s.repo.ListTrips(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "List failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Trips listed")
	return trips, nil
}

func (s *ServiceImpl) GetTrip(ctx context.Context, id uuid.UUID) (*types.SavedTrip, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "GetTrip")
	defer span.End()

	trip, err := s.repo.GetTrip(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Get failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Trip fetched")
	return trip, nil
}

func (s *ServiceImpl) UpdateTripStatus(ctx context.Context, id uuid.UUID, status string) error {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "UpdateTripStatus")
	defer span.End()

	if !validStatus(status) {
		span.SetStatus(codes.Error, "Invalid status")
		return ErrInvalidStatus
	}

	if err := s.repo.UpdateTripStatus(ctx, id, status); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Update failed")
		return err
	}
	span.SetStatus(codes.Ok, "Trip status updated")
	return nil
}

func (s *ServiceImpl) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "DeleteTrip")
	defer span.End()

	if err := s.repo.DeleteTrip(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Delete failed")
		return err
	}
	span.SetStatus(codes.Ok, "Trip deleted")
	return nil
}

func validStatus(status string) bool {
	switch status {
	case StatusPlanning, StatusUpcoming, StatusCompleted:
		return true
	}
	return false
}
