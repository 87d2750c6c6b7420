package travelport

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/AbdulQureshi11/flight-listing-backend/internal/config"
	"github.com/AbdulQureshi11/flight-listing-backend/internal/models"
)

const (
	OpLowFareSearch = "LowFareSearch"
	OpAirPrice      = "AirPrice"
)

// Caller submits a SOAP payload and returns the raw response body.
type Caller interface {
	Call(ctx context.Context, operation string, payload []byte) ([]byte, error)
}

// Service runs the build, call and normalize chain for each endpoint.
type Service struct {
	caller       Caller
	targetBranch string
	newTraceID   func() string
}

func NewService(caller Caller, targetBranch string) *Service {
	return &Service{
		caller:       caller,
		targetBranch: targetBranch,
		newTraceID:   uuid.NewString,
	}
}

// NewServiceFromConfig wires a Client from the Travelport section of cfg.
func NewServiceFromConfig(cfg config.Travelport) *Service {
	client := NewClient(ClientConfig{
		Endpoint: cfg.Endpoint,
		Username: cfg.Username,
		Password: cfg.Password,
		Timeout:  cfg.Timeout,
	})
	return NewService(client, cfg.TargetBranch)
}

// Search queries LowFareSearch for a normalized request.
func (s *Service) Search(ctx context.Context, req models.SearchRequest) ([]models.Flight, error) {
	payload, err := BuildLowFareSearch(LowFareSearchParams{
		From:         req.From,
		To:           req.To,
		Date:         req.Date,
		Adults:       req.Passengers(),
		TargetBranch: s.targetBranch,
		TraceID:      "TRACE-" + s.newTraceID(),
	})
	if err != nil {
		return nil, err
	}

	raw, err := s.caller.Call(ctx, OpLowFareSearch, payload)
	if err != nil {
		return nil, err
	}

	flights, err := NormalizeSearch(raw)
	if err != nil {
		return nil, NewUpstreamError(OpLowFareSearch, err)
	}

	log.Info().
		Str("from", req.From).
		Str("to", req.To).
		Str("date", req.Date).
		Int("flights", len(flights)).
		Msg("search normalized")
	return flights, nil
}

// Price reprices the selected segments.
func (s *Service) Price(ctx context.Context, segments []models.Segment) (*models.PricingResult, error) {
	payload, err := BuildAirPrice(AirPriceParams{
		Segments:     segments,
		TargetBranch: s.targetBranch,
		TraceID:      "NODE-" + s.newTraceID(),
	})
	if err != nil {
		return nil, err
	}

	log.Debug().Bytes("payload", payload).Msg("AirPriceReq built")

	raw, err := s.caller.Call(ctx, OpAirPrice, payload)
	if err != nil {
		return nil, err
	}

	return NormalizePricing(raw)
}
