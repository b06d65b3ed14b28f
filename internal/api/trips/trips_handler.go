package trips

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type saveTripRequest struct {
	Name      string              `json:"name"`
	Status    string              `json:"status"`
	Itinerary types.TripItinerary `json:"itinerary"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// SaveTrip handles POST /trips.
func (h *Handler) SaveTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "SaveTrip", trace.WithAttributes(
		attribute.String("http.method", r.Method),
		attribute.String("http.route", "/trips"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SaveTrip"))

	var req saveTripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Itinerary.Destinations) == 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "itinerary with at least one destination is required")
		return
	}

	trip, err := h.service.SaveTrip(ctx, req.Name, req.Status, req.Itinerary)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Save failed")
		if errors.Is(err, ErrInvalidStatus) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to save trip", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to save trip")
		return
	}

	span.SetStatus(codes.Ok, "Trip saved")
	api.WriteJSONResponse(w, r, http.StatusCreated, trip)
}

// ListTrips handles GET /trips.
func (h *Handler) ListTrips(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "ListTrips")
	defer span.End()

	l := h.logger.With(slog.String("handler", "ListTrips"))

	trips, err := h.service.ListTrips(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "List failed")
		l.ErrorContext(ctx, "Failed to list trips", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list trips")
		return
	}
	if trips == nil {
		trips = []types.SavedTrip{}
	}

	span.SetStatus(codes.Ok, "Trips listed")
	api.WriteJSONResponse(w, r, http.StatusOK, trips)
}

// GetTrip handles GET /trips/{tripID}.
func (h *Handler) GetTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "GetTrip")
	defer span.End()

	id, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid trip ID")
		return
	}

	trip, err := h.service.GetTrip(ctx, id)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrTripNotFound) {
			span.SetStatus(codes.Error, "Trip not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		span.SetStatus(codes.Error, "Get failed")
		h.logger.ErrorContext(ctx, "Failed to get trip", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get trip")
		return
	}

	span.SetStatus(codes.Ok, "Trip fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}

// UpdateTripStatus handles PATCH /trips/{tripID}/status.
func (h *Handler) UpdateTripStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "UpdateTripStatus")
	defer span.End()

	id, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid trip ID")
		return
	}

	var req updateStatusRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.UpdateTripStatus(ctx, id, req.Status); err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, ErrInvalidStatus):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrTripNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
		default:
			h.logger.ErrorContext(ctx, "Failed to update trip status", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update trip status")
		}
		return
	}

	span.SetStatus(codes.Ok, "Trip status updated")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// DeleteTrip handles DELETE /trips/{tripID}.
func (h *Handler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "DeleteTrip")
	defer span.End()

	id, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid trip ID")
		return
	}

	if err := h.service.DeleteTrip(ctx, id); err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrTripNotFound) {
			span.SetStatus(codes.Error, "Trip not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		span.SetStatus(codes.Error, "Delete failed")
		h.logger.ErrorContext(ctx, "Failed to delete trip", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete trip")
		return
	}

	span.SetStatus(codes.Ok, "Trip deleted")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
