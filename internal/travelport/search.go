package travelport

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/AbdulQureshi11/flight-listing-backend/internal/models"
	"github.com/AbdulQureshi11/flight-listing-backend/internal/timezone"
	"github.com/AbdulQureshi11/flight-listing-backend/internal/xmltree"
	"github.com/AbdulQureshi11/flight-listing-backend/pkg/currency"
)

const (
	elemLowFareSearchRsp = "air:LowFareSearchRsp"
	elemAirSegment       = "air:AirSegment"
	elemPricingSolution  = "air:AirPricingSolution"
	elemJourney          = "air:Journey"
	elemAirSegmentRef    = "air:AirSegmentRef"
)

// The envelope prefix depends on which gateway answered.
var (
	envelopeNames = []string{"SOAP:Envelope", "soapenv:Envelope"}
	bodyNames     = []string{"SOAP:Body", "soapenv:Body"}
	faultNames    = []string{"SOAP:Fault", "soapenv:Fault"}
)

// segmentLocations are the places a LowFareSearchRsp may keep its segment
// list, in lookup order. The nesting depth varies with the query type; the
// first location present wins.
var segmentLocations = [][]string{
	{},
	{"air:AirItinerary"},
	{"air:AirSegmentList"},
}

// solutionLocations mirrors segmentLocations for pricing solutions.
var solutionLocations = [][]string{
	{},
	{"air:AirPricingSolutionList"},
}

// NormalizeSearch turns a raw LowFareSearchRsp into flights, deduplicated
// per itinerary and sorted by ascending price. A response without the
// expected sections yields an empty slice, not an error.
func NormalizeSearch(raw []byte) ([]models.Flight, error) {
	flights := make([]models.Flight, 0)

	body, err := parseBody(raw)
	if err != nil {
		return nil, err
	}

	rsp := body.Child(elemLowFareSearchRsp)
	if rsp == nil {
		if fault := firstChild(body, faultNames...); fault != nil {
			log.Warn().Interface("fault", fault).Msg("search returned a fault, treating as no results")
		}
		return flights, nil
	}

	segments := extractSegments(rsp)
	if len(segments) == 0 {
		log.Info().Msg("no AirSegments found in search response")
		return flights, nil
	}

	index := make(map[string]int)
	for _, sol := range extractSolutions(rsp) {
		flight, key, ok := buildFlight(sol, segments)
		if !ok {
			continue
		}
		if i, seen := index[key]; seen {
			if flight.Price < flights[i].Price {
				flights[i] = flight
			}
			continue
		}
		index[key] = len(flights)
		flights = append(flights, flight)
	}

	sort.SliceStable(flights, func(i, j int) bool {
		return flights[i].Price < flights[j].Price
	})

	return flights, nil
}

func parseBody(raw []byte, opts ...xmltree.Option) (xmltree.Node, error) {
	tree, err := xmltree.Parse(raw, opts...)
	if errors.Is(err, xmltree.ErrEmptyDocument) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse travelport response: %w", err)
	}
	return firstChild(firstChild(tree, envelopeNames...), bodyNames...), nil
}

func firstChild(n xmltree.Node, names ...string) xmltree.Node {
	for _, name := range names {
		if c := n.Child(name); c != nil {
			return c
		}
	}
	return nil
}

func extractSegments(rsp xmltree.Node) map[string]models.Segment {
	out := make(map[string]models.Segment)

	for _, path := range segmentLocations {
		container := rsp.Lookup(path...)
		if !container.Has(elemAirSegment) {
			continue
		}
		for _, s := range container.Children(elemAirSegment) {
			key := s.Attr("Key")
			if key == "" {
				continue
			}
			out[key] = models.Segment{
				Key:          key,
				Carrier:      s.Attr("Carrier"),
				FlightNumber: s.Attr("FlightNumber"),
				From:         s.Attr("Origin"),
				To:           s.Attr("Destination"),
				Departure:    s.Attr("DepartureTime"),
				Arrival:      s.Attr("ArrivalTime"),
				Equipment:    s.Attr("Equipment"),
				Distance:     models.FlexString(orDefault(s.Attr("Distance"), defaultDistance)),
				ProviderCode: s.Attr("ProviderCode"),
			}
		}
		return out
	}

	return out
}

func extractSolutions(rsp xmltree.Node) []xmltree.Node {
	for _, path := range solutionLocations {
		container := rsp.Lookup(path...)
		if container.Has(elemPricingSolution) {
			return container.Children(elemPricingSolution)
		}
	}
	return nil
}

// segmentRefs collects the AirSegmentRef keys of a solution. Refs normally
// sit under one air:Journey per leg; older responses attach them to the
// solution directly.
func segmentRefs(sol xmltree.Node) []string {
	var refs []xmltree.Node
	if journeys := sol.Children(elemJourney); len(journeys) > 0 {
		for _, j := range journeys {
			refs = append(refs, j.Children(elemAirSegmentRef)...)
		}
	} else {
		refs = sol.Children(elemAirSegmentRef)
	}

	keys := make([]string, 0, len(refs))
	for _, r := range refs {
		if k := r.Attr("Key"); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func buildFlight(sol xmltree.Node, segmentMap map[string]models.Segment) (models.Flight, string, bool) {
	refs := segmentRefs(sol)
	if len(refs) == 0 {
		return models.Flight{}, "", false
	}

	segments := make([]models.Segment, 0, len(refs))
	for _, k := range refs {
		if s, ok := segmentMap[k]; ok {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return models.Flight{}, "", false
	}

	key := DedupKey(segments)
	price, code := ParsePrice(sol.Attr("TotalPrice"))

	// unparsable timestamps leave the duration at zero
	duration, _ := timezone.MinutesBetween(segments[0].Departure, segments[len(segments)-1].Arrival)

	return models.Flight{
		ID:                 base64.StdEncoding.EncodeToString([]byte(key)),
		Price:              price,
		Currency:           code,
		FormattedPrice:     currency.Format(price, code),
		Stops:              len(segments) - 1,
		DurationMinutes:    duration,
		Segments:           segments,
		PricingSolutionKey: sol.Attr("Key"),
		SegmentKeys:        refs,
	}, key, true
}

// DedupKey identifies an itinerary by carrier, flight number and departure
// of each segment. Fare variants of the same itinerary share a key.
func DedupKey(segments []models.Segment) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = s.Carrier + s.FlightNumber + s.Departure
	}
	return strings.Join(parts, "-")
}

// ParsePrice splits a TotalPrice such as "PKR45210" into amount and
// currency. The amount keeps only the digits, so a decimal point is
// dropped rather than honoured; the currency drops digits and dots.
func ParsePrice(total string) (float64, string) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, total)

	code := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return -1
		}
		return r
	}, total)

	var amount float64
	if digits != "" {
		amount, _ = strconv.ParseFloat(digits, 64)
	}
	return amount, code
}
