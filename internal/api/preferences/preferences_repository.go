package preferences

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var (
	_ DB         = (*pgxpool.Pool)(nil)
	_ Repository = (*RepositoryImpl)(nil)
)

// Repository persists the single stored preference profile. The table holds
// at most one row.
type Repository interface {
	GetPreferences(ctx context.Context) (*types.UserPreferences, error)
	UpsertPreferences(ctx context.Context, prefs *types.UserPreferences) error
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

// GetPreferences returns the stored profile, or nil when none has been saved
// yet.
func (r *RepositoryImpl) GetPreferences(ctx context.Context) (*types.UserPreferences, error) {
	ctx, span := otel.Tracer("PreferencesRepository").Start(ctx, "GetPreferences")
	defer span.End()

	l := r.logger.With(slog.String("method", "GetPreferences"))

	query := `
		SELECT interests, travel_style, family_friendly, accessibility
		FROM user_preferences
		WHERE id = 1
	`

	start := time.Now()
	var prefs types.UserPreferences
	err := r.db.QueryRow(ctx, query).Scan(
		&prefs.Interests, &prefs.TravelStyle, &prefs.FamilyFriendly, &prefs.Accessibility,
	)
	recordQuery(ctx, "get_preferences", start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		l.ErrorContext(ctx, "Failed to query preferences", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}

	span.SetStatus(codes.Ok, "Preferences fetched")
	return &prefs, nil
}

func (r *RepositoryImpl) UpsertPreferences(ctx context.Context, prefs *types.UserPreferences) error {
	ctx, span := otel.Tracer("PreferencesRepository").Start(ctx, "UpsertPreferences")
	defer span.End()

	l := r.logger.With(slog.String("method", "UpsertPreferences"))

	query := `
		INSERT INTO user_preferences (id, interests, travel_style, family_friendly, accessibility, updated_at)
		VALUES (1, $1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET
			interests = EXCLUDED.interests,
			travel_style = EXCLUDED.travel_style,
			family_friendly = EXCLUDED.family_friendly,
			accessibility = EXCLUDED.accessibility,
			updated_at = now()
	`

	start := time.Now()
	_, err := r.db.Exec(ctx, query,
		prefs.Interests, prefs.TravelStyle, prefs.FamilyFriendly, prefs.Accessibility,
	)
	recordQuery(ctx, "upsert_preferences", start, err)
	if err != nil {
		l.ErrorContext(ctx, "Failed to upsert preferences", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database upsert failed")
		return fmt.Errorf("failed to upsert preferences: %w", err)
	}

	l.InfoContext(ctx, "Preferences saved", slog.Int("interests", len(prefs.Interests)))
	span.SetStatus(codes.Ok, "Preferences saved")
	return nil
}

func recordQuery(ctx context.Context, operation string, start time.Time, err error) {
	m := metrics.Get()
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("operation", operation))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}
