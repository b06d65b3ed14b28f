package preferences

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

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

// GetPreferences handles GET /preferences. An unsaved profile comes back as
// an empty object rather than a 404.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PreferencesHandler").Start(r.Context(), "GetPreferences")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetPreferences"))

	prefs, err := h.service.UserPreferences(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Get failed")
		l.ErrorContext(ctx, "Failed to get preferences", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get preferences")
		return
	}
	if prefs == nil {
		prefs = &types.UserPreferences{Interests: []string{}}
	}

	span.SetStatus(codes.Ok, "Preferences fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, prefs)
}

// UpdatePreferences handles PUT /preferences.
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PreferencesHandler").Start(r.Context(), "UpdatePreferences")
	defer span.End()

	l := h.logger.With(slog.String("handler", "UpdatePreferences"))

	var prefs types.UserPreferences
	if err := api.DecodeJSONBody(w, r, &prefs); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.UpdatePreferences(ctx, &prefs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Update failed")
		l.ErrorContext(ctx, "Failed to update preferences", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update preferences")
		return
	}

	span.SetStatus(codes.Ok, "Preferences updated")
	api.WriteJSONResponse(w, r, http.StatusOK, prefs)
}
