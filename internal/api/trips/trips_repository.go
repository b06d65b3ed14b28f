package trips

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var ErrTripNotFound = errors.New("trip not found")

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies it
// too, which keeps the repository testable without a live database.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var (
	_ DB         = (*pgxpool.Pool)(nil)
	_ Repository = (*RepositoryImpl)(nil)
)

type Repository interface {
	SaveTrip(ctx context.Context, trip *types.SavedTrip) (uuid.UUID, error)
	ListTrips(ctx context.Context) ([]types.SavedTrip, error)
	GetTrip(ctx context.Context, id uuid.UUID) (*types.SavedTrip, error)
	UpdateTripStatus(ctx context.Context, id uuid.UUID, status string) error
	DeleteTrip(ctx context.Context, id uuid.UUID) error
}

type RepositoryImpl struct {
	db     DB
	logger *slog.Logger
}

func NewRepository(db DB, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *RepositoryImpl) SaveTrip(ctx context.Context, trip *types.SavedTrip) (uuid.UUID, error) {
	ctx, span := otel.Tracer("TripsRepository").Start(ctx, "SaveTrip", trace.WithAttributes(
		attribute.String("trip.name", trip.Name),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "SaveTrip"))

	itineraryJSON, err := json.Marshal(trip.Itinerary)
	if err != nil {
		span.RecordError(err)
		return uuid.Nil, fmt.Errorf("failed to marshal itinerary: %w", err)
	}

	query := `
		INSERT INTO saved_trips (name, destinations, dates, total_budget, status, itinerary)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	start := time.Now()
	var id uuid.UUID
	var createdAt time.Time
	err = r.db.QueryRow(ctx, query,
		trip.Name, trip.Destinations, trip.Dates, trip.TotalBudget, trip.Status, itineraryJSON,
	).Scan(&id, &createdAt)
	recordQuery(ctx, "save_trip", start, err)
	if err != nil {
		l.ErrorContext(ctx, "Failed to insert trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database insert failed")
		return uuid.Nil, fmt.Errorf("failed to insert trip: %w", err)
	}

	trip.ID = id
	trip.CreatedAt = createdAt

	l.InfoContext(ctx, "Trip saved", slog.String("trip_id", id.String()))
	span.SetStatus(codes.Ok, "Trip saved")
	return id, nil
}

func (r *RepositoryImpl) ListTrips(ctx context.Context) ([]types.SavedTrip, error) {
	ctx, span := otel.Tracer("TripsRepository").Start(ctx, "ListTrips")
	defer span.End()

	l := r.logger.With(slog.String("method", "ListTrips"))

	query := `
		SELECT id, name, destinations, dates, total_budget, status, itinerary, created_at
		FROM saved_trips
		ORDER BY created_at DESC
	`

	start := time.Now()
	rows, err := r.db.Query(ctx, query)
	recordQuery(ctx, "list_trips", start, err)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query trips", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var trips []types.SavedTrip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			l.ErrorContext(ctx, "Failed to scan trip row", slog.Any("error", err))
			span.RecordError(err)
			return nil, err
		}
		trips = append(trips, *trip)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating trip rows: %w", err)
	}

	span.SetAttributes(attribute.Int("trips.count", len(trips)))
	span.SetStatus(codes.Ok, "Trips listed")
	return trips, nil
}

func (r *RepositoryImpl) GetTrip(ctx context.Context, id uuid.UUID) (*types.SavedTrip, error) {
	ctx, span := otel.Tracer("TripsRepository").Start(ctx, "GetTrip", trace.WithAttributes(
		attribute.String("trip.id", id.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "GetTrip"), slog.String("trip_id", id.String()))

	query := `
		SELECT id, name, destinations, dates, total_budget, status, itinerary, created_at
		FROM saved_trips
		WHERE id = $1
	`

	start := time.Now()
	rows, err := r.db.Query(ctx, query, id)
	recordQuery(ctx, "get_trip", start, err)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to query trip: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to read trip row: %w", err)
		}
		span.SetStatus(codes.Error, "Trip not found")
		return nil, ErrTripNotFound
	}

	trip, err := scanTrip(rows)
	if err != nil {
		l.ErrorContext(ctx, "Failed to scan trip row", slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}

	span.SetStatus(codes.Ok, "Trip fetched")
	return trip, nil
}

func (r *RepositoryImpl) UpdateTripStatus(ctx context.Context, id uuid.UUID, status string) error {
	ctx, span := otel.Tracer("TripsRepository").Start(ctx, "UpdateTripStatus", trace.WithAttributes(
		attribute.String("trip.id", id.String()),
		attribute.String("trip.status", status),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpdateTripStatus"), slog.String("trip_id", id.String()))

	start := time.Now()
	tag, err := r.db.Exec(ctx, `UPDATE saved_trips SET status = $1 WHERE id = $2`, status, id)
	recordQuery(ctx, "update_trip_status", start, err)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update trip status", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database update failed")
		return fmt.Errorf("failed to update trip status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Trip not found")
		return ErrTripNotFound
	}

	span.SetStatus(codes.Ok, "Trip status updated")
	return nil
}

func (r *RepositoryImpl) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("TripsRepository").Start(ctx, "DeleteTrip", trace.WithAttributes(
		attribute.String("trip.id", id.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "DeleteTrip"), slog.String("trip_id", id.String()))

	start := time.Now()
	tag, err := r.db.Exec(ctx, `DELETE FROM saved_trips WHERE id = $1`, id)
	recordQuery(ctx, "delete_trip", start, err)
	if err != nil {
		l.ErrorContext(ctx, "Failed to delete trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database delete failed")
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Trip not found")
		return ErrTripNotFound
	}

	l.InfoContext(ctx, "Trip deleted")
	span.SetStatus(codes.Ok, "Trip deleted")
	return nil
}

func scanTrip(rows pgx.Rows) (*types.SavedTrip, error) {
	var trip types.SavedTrip
	var itineraryJSON []byte
	err := rows.Scan(&trip.ID, &trip.Name, &trip.Destinations, &trip.Dates,
		&trip.TotalBudget, &trip.Status, &itineraryJSON, &trip.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan trip row: %w", err)
	}
	if len(itineraryJSON) > 0 {
		if err := json.Unmarshal(itineraryJSON, &trip.Itinerary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal trip itinerary: %w", err)
		}
	}
	return &trip, nil
}

func recordQuery(ctx context.Context, operation string, start time.Time, err error) {
	m := metrics.Get()
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("operation", operation))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}
