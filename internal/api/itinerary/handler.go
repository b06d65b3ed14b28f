package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	sessionHeader = "X-Session-ID"
	dateLayout    = "2006-01-02"
)

type Handler struct {
	service  Service
	sessions *SessionStore
	logger   *slog.Logger
}

func NewHandler(service Service, sessions *SessionStore, logger *slog.Logger) *Handler {
	return &Handler{service: service, sessions: sessions, logger: logger}
}

type multiCityRequest struct {
	Destinations []types.CityVisit      `json:"destinations"`
	StartDate    string                 `json:"start_date"`
	Budget       float64                `json:"budget"`
	Preferences  *types.TripPreferences `json:"preferences,omitempty"`
}

type singleCityRequest struct {
	Destination string  `json:"destination"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Budget      float64 `json:"budget"`
}

type itineraryResponse struct {
	SessionID string               `json:"session_id"`
	Itinerary *types.TripItinerary `json:"itinerary"`
}

// GenerateMultiCity handles POST /itineraries/multi-city.
func (h *Handler) GenerateMultiCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GenerateMultiCity", trace.WithAttributes(
		attribute.String("http.method", r.Method),
		attribute.String("http.route", "/itineraries/multi-city"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateMultiCity"))
	start := time.Now()

	var req multiCityRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("start_date must be in %s format", dateLayout))
		return
	}
	if req.Budget <= 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "budget must be greater than zero")
		return
	}

	itin, err := h.service.GenerateMultiCity(ctx, types.MultiCityTripRequest{
		Destinations: req.Destinations,
		StartDate:    startDate,
		Budget:       req.Budget,
		Preferences:  req.Preferences,
	})
	h.recordGeneration(ctx, "multi_city", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		switch {
		case errors.Is(err, ErrNoDestinations), errors.Is(err, ErrInvalidNights):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		default:
			l.ErrorContext(ctx, "Multi-city generation failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to generate itinerary")
		}
		return
	}

	sessionID := h.storeSession(r, itin)
	span.SetStatus(codes.Ok, "Itinerary generated")
	api.WriteJSONResponse(w, r, http.StatusOK, itineraryResponse{SessionID: sessionID, Itinerary: itin})
}

// Generate handles POST /itineraries, the single-destination path.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Generate", trace.WithAttributes(
		attribute.String("http.method", r.Method),
		attribute.String("http.route", "/itineraries"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Generate"))
	start := time.Now()

	var req singleCityRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Destination == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "destination is required")
		return
	}
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("start_date must be in %s format", dateLayout))
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("end_date must be in %s format", dateLayout))
		return
	}
	if req.Budget <= 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "budget must be greater than zero")
		return
	}

	itin, err := h.service.Generate(ctx, req.Destination, startDate, endDate, req.Budget)
	h.recordGeneration(ctx, "single_city", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		switch {
		case errors.Is(err, ErrInvalidDateRange):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		default:
			l.ErrorContext(ctx, "Itinerary generation failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to generate itinerary")
		}
		return
	}

	sessionID := h.storeSession(r, itin)
	span.SetStatus(codes.Ok, "Itinerary generated")
	api.WriteJSONResponse(w, r, http.StatusOK, itineraryResponse{SessionID: sessionID, Itinerary: itin})
}

// GetSession handles GET /itineraries/session/{sessionID}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GetSession")
	defer span.End()

	sessionID := chi.URLParam(r, "sessionID")
	itin, found := h.sessions.Get(sessionID)
	if !found {
		span.SetStatus(codes.Error, "Session not found")
		api.ErrorResponse(w, r, http.StatusNotFound, "No itinerary found for this session")
		return
	}

	span.SetStatus(codes.Ok, "Session itinerary returned")
	api.WriteJSONResponse(w, r, http.StatusOK, itineraryResponse{SessionID: sessionID, Itinerary: itin})
}

// storeSession keeps the generated itinerary under the caller's session ID,
// minting a fresh one when the header is absent.
func (h *Handler) storeSession(r *http.Request, itin *types.TripItinerary) string {
	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	h.sessions.Set(sessionID, itin)
	return sessionID
}

func (h *Handler) recordGeneration(ctx context.Context, kind string, start time.Time, err error) {
	m := metrics.Get()
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("success", err == nil),
	)
	m.ItineraryRequestsTotal.Add(ctx, 1, attrs)
	m.ItineraryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
}
