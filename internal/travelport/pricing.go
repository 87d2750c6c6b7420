package travelport

import (
	"github.com/rs/zerolog/log"

	"github.com/AbdulQureshi11/flight-listing-backend/internal/models"
	"github.com/AbdulQureshi11/flight-listing-backend/internal/xmltree"
)

const (
	elemAirPriceRsp     = "air:AirPriceRsp"
	elemAirPriceResult  = "air:AirPriceResult"
	elemAirPricingInfo  = "air:AirPricingInfo"
	elemAirItinerary    = "air:AirItinerary"
	fieldPricingKey     = "AirPricingInfo.Key"
	fieldItineraryItems = "AirItinerary.AirSegment"

	// AttrPrefix marks attributes in the pricing payloads handed back to
	// clients, which read e.g. pricingSolution["@_TotalPrice"].
	AttrPrefix = "@_"
)

// NormalizePricing extracts the priced itinerary from a raw AirPriceRsp.
//
// A SOAP fault yields *FaultError. A response missing any step of the
// AirPriceRsp > AirPriceResult > AirPricingSolution > AirPricingInfo chain
// yields *MissingFieldError naming that step. Segment keys are read from the
// response itinerary because Travelport may rekey segments while pricing.
// Attributes in the returned trees carry AttrPrefix.
func NormalizePricing(raw []byte) (*models.PricingResult, error) {
	body, err := parseBody(raw, xmltree.WithAttrPrefix(AttrPrefix))
	if err != nil {
		return nil, err
	}

	if fault := firstChild(body, faultNames...); fault != nil {
		log.Error().Interface("fault", fault).Msg("travelport fault")
		return nil, &FaultError{Fault: fault}
	}

	priceRsp := body.First(elemAirPriceRsp)
	if priceRsp == nil {
		return nil, missingField(elemAirPriceRsp, body)
	}

	result := priceRsp.First(elemAirPriceResult)
	if result == nil {
		return nil, missingField(elemAirPriceResult, priceRsp)
	}

	solution := result.First(elemPricingSolution)
	if solution == nil {
		return nil, missingField(elemPricingSolution, result)
	}

	info := solution.First(elemAirPricingInfo)
	if info == nil {
		return nil, missingField(elemAirPricingInfo, solution)
	}

	pricingKey := info.Attr(AttrPrefix + "Key")
	if pricingKey == "" {
		return nil, missingField(fieldPricingKey, info)
	}

	itinerary := priceRsp.First(elemAirItinerary)
	responseSegments := itinerary.Children(elemAirSegment)
	if len(responseSegments) == 0 {
		if itinerary == nil {
			return nil, missingField(elemAirItinerary, priceRsp)
		}
		return nil, missingField(fieldItineraryItems, itinerary)
	}

	segmentKeys := make([]string, 0, len(responseSegments))
	for _, s := range responseSegments {
		if k := s.Attr(AttrPrefix + "Key"); k != "" {
			segmentKeys = append(segmentKeys, k)
		}
	}

	log.Info().
		Str("pricing_key", pricingKey).
		Strs("segment_keys", segmentKeys).
		Str("total_price", solution.Attr(AttrPrefix + "TotalPrice")).
		Msg("pricing successful")

	return &models.PricingResult{
		Pricing:         info,
		PricingSolution: solution,
		PricingKey:      pricingKey,
		PassengerKey:    PassengerKey,
		SegmentKeys:     segmentKeys,
		Itinerary:       itinerary,
	}, nil
}
