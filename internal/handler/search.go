package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/kurosh87/optimalflight/internal/apperr"
	"github.com/kurosh87/optimalflight/internal/models"
	"github.com/kurosh87/optimalflight/internal/search"
)

type SearchHandler struct {
	orchestrator *search.Orchestrator
	validate     *validator.Validate
}

func NewSearchHandler(orch *search.Orchestrator) *SearchHandler {
	return &SearchHandler{
		orchestrator: orch,
		validate:     validator.New(),
	}
}

// Search handles POST /api/v1/flights/search. An empty result list is a
// successful 200; a provider outage maps to a distinct 502 payload.
func (h *SearchHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "validation_error", err.Error())
	}
	if !req.Flexibility.Valid() {
		return errorJSON(c, http.StatusBadRequest, "validation_error", "unknown flexibility mode")
	}
	if req.UserProfile != nil {
		if err := h.validate.Struct(req.UserProfile); err != nil {
			return errorJSON(c, http.StatusBadRequest, "validation_error", err.Error())
		}
	}

	outcome, err := h.orchestrator.Search(ctx, req)
	if err != nil {
		return writeAppError(c, err)
	}

	return c.JSON(http.StatusOK, models.SearchResponse{
		Criteria: req,
		Metadata: models.SearchMetadata{
			TotalResults: len(outcome.Flights),
			Provider:     outcome.Provider,
			SearchTimeMs: outcome.Duration.Milliseconds(),
			CacheHit:     outcome.CacheHit,
		},
		Flights: outcome.Flights,
	})
}

// Lookup handles GET /api/v1/flights/:carrier/:number?date=2006-01-02.
// A provider no-match is a 404, not a provider failure.
func (h *SearchHandler) Lookup(c echo.Context) error {
	ctx := c.Request().Context()

	req := models.FlightLookupRequest{
		Carrier:      c.Param("carrier"),
		FlightNumber: c.Param("number"),
		Date:         c.QueryParam("date"),
	}
	if err := h.validate.Struct(req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "validation_error", err.Error())
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "validation_error", "date must be YYYY-MM-DD")
	}

	flight, err := h.orchestrator.LookupByFlightNumber(ctx, req.Carrier, req.FlightNumber, date)
	if err != nil {
		return writeAppError(c, err)
	}
	if flight == nil {
		return errorJSON(c, http.StatusNotFound, "flight_not_found", "No scheduled flight matches that carrier, number, and date")
	}
	return c.JSON(http.StatusOK, flight)
}

func writeAppError(c echo.Context, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		code := "search_error"
		if appErr.Kind == apperr.KindProviderUnavailable {
			code = "provider_unavailable"
		} else if appErr.Kind == apperr.KindValidation {
			code = "validation_error"
		}
		return errorJSON(c, appErr.HTTPStatus(), code, appErr.Error())
	}
	return errorJSON(c, http.StatusInternalServerError, "internal_error", err.Error())
}

func errorJSON(c echo.Context, status int, code, message string) error {
	return c.JSON(status, models.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    status,
	})
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
