package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/AbdulQureshi11/flight-listing-backend/internal/cache"
	"github.com/AbdulQureshi11/flight-listing-backend/internal/metrics"
	"github.com/AbdulQureshi11/flight-listing-backend/internal/models"
	"github.com/AbdulQureshi11/flight-listing-backend/internal/travelport"
)

type SearchHandler struct {
	service *travelport.Service
	cache   cache.Cache
}

func NewSearchHandler(svc *travelport.Service, c cache.Cache) *SearchHandler {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	return &SearchHandler{
		service: svc,
		cache:   c,
	}
}

func (h *SearchHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrMissingSearchFields.Error(),
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: err.Error(),
			Code:  http.StatusBadRequest,
		})
	}
	req = req.Normalized()

	if cached, found := h.cache.Get(ctx, req); found {
		return c.JSON(http.StatusOK, models.SearchResponse{
			Success: true,
			Flights: nonNil(cached),
		})
	}

	flights, err := h.service.Search(ctx, req)
	if err != nil {
		log.Error().Err(err).
			Str("from", req.From).
			Str("to", req.To).
			Str("date", req.Date).
			Msg("flight search failed")
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Flight search failed",
			Code:  http.StatusInternalServerError,
		})
	}

	metrics.ObserveSearchResults(len(flights))
	if err := h.cache.Set(ctx, req, flights); err != nil {
		log.Warn().Err(err).Msg("cache set failed")
	}

	return c.JSON(http.StatusOK, models.SearchResponse{
		Success: true,
		Flights: nonNil(flights),
	})
}

func (h *SearchHandler) Details(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.DetailsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrMissingSegments.Error(),
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: err.Error(),
			Code:  http.StatusBadRequest,
		})
	}

	result, err := h.service.Price(ctx, req.Segments)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, pricingError(err))
	}

	return c.JSON(http.StatusOK, models.DetailsResponse{
		Success:       true,
		PricingResult: *result,
	})
}

func pricingError(err error) models.ErrorResponse {
	var fault *travelport.FaultError
	if errors.As(err, &fault) {
		return models.ErrorResponse{
			Error: "Travelport fault",
			Code:  http.StatusInternalServerError,
			Fault: fault.Fault,
		}
	}

	var missing *travelport.MissingFieldError
	if errors.As(err, &missing) {
		log.Error().
			Str("field", missing.Field).
			Strs("available_keys", missing.AvailableKeys).
			Msg("pricing response incomplete")
		return models.ErrorResponse{
			Error:         missingFieldMessage(missing.Field),
			Code:          http.StatusInternalServerError,
			Field:         missing.Field,
			AvailableKeys: missing.AvailableKeys,
		}
	}

	log.Error().Err(err).Msg("pricing failed")
	return models.ErrorResponse{
		Error:   "Pricing failed",
		Message: err.Error(),
		Code:    http.StatusInternalServerError,
	}
}

var missingFieldMessages = map[string]string{
	"air:AirPriceRsp":         "No AirPriceRsp in response",
	"air:AirPriceResult":      "No price result",
	"air:AirPricingSolution":  "No pricing solution",
	"air:AirPricingInfo":      "No pricing info",
	"AirPricingInfo.Key":      "No pricing key",
	"air:AirItinerary":        "No segments in itinerary",
	"AirItinerary.AirSegment": "No segments in itinerary",
}

func missingFieldMessage(field string) string {
	if msg, ok := missingFieldMessages[field]; ok {
		return msg
	}
	return "No " + field + " in response"
}

func nonNil(flights []models.Flight) []models.Flight {
	if flights == nil {
		return []models.Flight{}
	}
	return flights
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
