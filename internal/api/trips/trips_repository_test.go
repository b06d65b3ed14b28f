package trips

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func sampleItinerary() types.TripItinerary {
	return types.TripItinerary{
		Destinations: []string{"Bangkok, Thailand"},
		Dates:        "June 1 - 4, 2025",
		TotalBudget:  "$600",
		PackingList:  []string{"Sunscreen"},
		Tips:         []string{"Carry small bills"},
	}
}

func TestRepository_SaveTrip(t *testing.T) {
	ctx := context.Background()

	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewRepository(mockPool, slog.Default())

	id := uuid.New()
	createdAt := time.Now()
	trip := &types.SavedTrip{
		Name:         "Thailand getaway",
		Destinations: []string{"Bangkok, Thailand"},
		Dates:        "June 1 - 4, 2025",
		TotalBudget:  "$600",
		Status:       StatusPlanning,
		Itinerary:    sampleItinerary(),
	}

	mockPool.ExpectQuery("INSERT INTO saved_trips").
		WithArgs(trip.Name, trip.Destinations, trip.Dates, trip.TotalBudget, trip.Status, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(id, createdAt))

	gotID, err := repo.SaveTrip(ctx, trip)

	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, id, trip.ID)
	assert.Equal(t, createdAt, trip.CreatedAt)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepository_ListTrips(t *testing.T) {
	ctx := context.Background()

	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewRepository(mockPool, slog.Default())

	itineraryJSON, err := json.Marshal(sampleItinerary())
	require.NoError(t, err)

	id := uuid.New()
	createdAt := time.Now()
	mockPool.ExpectQuery("SELECT (.+) FROM saved_trips").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "destinations", "dates", "total_budget", "status", "itinerary", "created_at"}).
			AddRow(id, "Thailand getaway", []string{"Bangkok, Thailand"}, "June 1 - 4, 2025", "$600", StatusPlanning, itineraryJSON, createdAt))

	trips, err := repo.ListTrips(ctx)

	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, id, trips[0].ID)
	assert.Equal(t, "Thailand getaway", trips[0].Name)
	assert.Equal(t, []string{"Sunscreen"}, trips[0].Itinerary.PackingList)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepository_GetTrip_NotFound(t *testing.T) {
	ctx := context.Background()

	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewRepository(mockPool, slog.Default())

	id := uuid.New()
	mockPool.ExpectQuery("SELECT (.+) FROM saved_trips").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "destinations", "dates", "total_budget", "status", "itinerary", "created_at"}))

	trip, err := repo.GetTrip(ctx, id)

	require.ErrorIs(t, err, ErrTripNotFound)
	assert.Nil(t, trip)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepository_UpdateTripStatus(t *testing.T) {
	ctx := context.Background()

	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewRepository(mockPool, slog.Default())

	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockPool.ExpectExec("UPDATE saved_trips SET status").
			WithArgs(StatusCompleted, id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.UpdateTripStatus(ctx, id, StatusCompleted))
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mockPool.ExpectExec("UPDATE saved_trips SET status").
			WithArgs(StatusCompleted, id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		require.ErrorIs(t, repo.UpdateTripStatus(ctx, id, StatusCompleted), ErrTripNotFound)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestRepository_DeleteTrip(t *testing.T) {
	ctx := context.Background()

	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewRepository(mockPool, slog.Default())

	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockPool.ExpectExec("DELETE FROM saved_trips").
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.DeleteTrip(ctx, id))
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mockPool.ExpectExec("DELETE FROM saved_trips").
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		require.ErrorIs(t, repo.DeleteTrip(ctx, id), ErrTripNotFound)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})
}
