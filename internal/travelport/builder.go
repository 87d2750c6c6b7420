package travelport

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/AbdulQureshi11/flight-listing-backend/internal/models"
	"github.com/AbdulQureshi11/flight-listing-backend/internal/timezone"
)

// Search and pricing are bound to different schema versions upstream; keep
// them separate.
const (
	soapEnvNS = "http://schemas.xmlsoap.org/soap/envelope/"

	searchAirNS    = "http://www.travelport.com/schema/air_v42_0"
	searchCommonNS = "http://www.travelport.com/schema/common_v42_0"
	priceAirNS     = "http://www.travelport.com/schema/air_v54_0"
	priceCommonNS  = "http://www.travelport.com/schema/common_v54_0"

	MaxSolutions      = 50
	// MaxAdults is the most passengers one GDS booking can hold; larger
	// requests are capped.
	MaxAdults         = 9
	PreferredProvider = "1G"
	PreferredCurrency = "PKR"
	PassengerKey      = "ADT1"

	defaultEquipment = "320"
	defaultDistance  = "0"
)

type envelope struct {
	XMLName   xml.Name `xml:"soapenv:Envelope"`
	SoapEnvNS string   `xml:"xmlns:soapenv,attr"`
	AirNS     string   `xml:"xmlns:air,attr"`
	CommonNS  string   `xml:"xmlns:com,attr"`
	Header    struct{} `xml:"soapenv:Header"`
	Body      body     `xml:"soapenv:Body"`
}

type body struct {
	LowFareSearch *lowFareSearchReq `xml:"air:LowFareSearchReq,omitempty"`
	AirPrice      *airPriceReq      `xml:"air:AirPriceReq,omitempty"`
}

type billingPointOfSale struct {
	OriginApplication string `xml:"OriginApplication,attr"`
}

type searchPassenger struct {
	Key  string `xml:"Key,attr,omitempty"`
	Code string `xml:"Code,attr"`
}

type lowFareSearchReq struct {
	AuthorizedBy     string              `xml:"AuthorizedBy,attr"`
	TargetBranch     string              `xml:"TargetBranch,attr"`
	TraceID          string              `xml:"TraceId,attr"`
	SolutionResult   bool                `xml:"SolutionResult,attr"`
	ReturnUpsellFare bool                `xml:"ReturnUpsellFare,attr"`
	BillingPOS       billingPointOfSale  `xml:"com:BillingPointOfSaleInfo"`
	Leg              searchAirLeg        `xml:"air:SearchAirLeg"`
	Modifiers        airSearchModifiers  `xml:"air:AirSearchModifiers"`
	Passengers       []searchPassenger   `xml:"com:SearchPassenger"`
	Pricing          airPricingModifiers `xml:"air:AirPricingModifiers"`
}

type airport struct {
	Code string `xml:"Code,attr"`
}

type searchAirLeg struct {
	Origin      airport `xml:"air:SearchOrigin>com:Airport"`
	Destination airport `xml:"air:SearchDestination>com:Airport"`
	DepTime     struct {
		PreferredTime string `xml:"PreferredTime,attr"`
	} `xml:"air:SearchDepTime"`
}

type airSearchModifiers struct {
	MaxSolutions int `xml:"MaxSolutions,attr"`
	Provider     struct {
		Code string `xml:"Code,attr"`
	} `xml:"air:PreferredProviders>com:Provider"`
}

type airPricingModifiers struct {
	FaresIndicator string         `xml:"FaresIndicator,attr"`
	CurrencyType   string         `xml:"CurrencyType,attr,omitempty"`
	Brand          *brandModifier `xml:"air:BrandModifiers,omitempty"`
}

type brandModifier struct {
	ModifierType string `xml:"ModifierType,attr"`
}

type airPriceReq struct {
	AuthorizedBy string              `xml:"AuthorizedBy,attr"`
	TargetBranch string              `xml:"TargetBranch,attr"`
	TraceID      string              `xml:"TraceId,attr"`
	BillingPOS   billingPointOfSale  `xml:"com:BillingPointOfSaleInfo"`
	Segments     []airSegment        `xml:"air:AirItinerary>air:AirSegment"`
	Pricing      airPricingModifiers `xml:"air:AirPricingModifiers"`
	Passenger    searchPassenger     `xml:"com:SearchPassenger"`
	Command      struct{}            `xml:"air:AirPricingCommand"`
}

type airSegment struct {
	Key                       string `xml:"Key,attr"`
	Group                     int    `xml:"Group,attr"`
	Carrier                   string `xml:"Carrier,attr"`
	FlightNumber              string `xml:"FlightNumber,attr"`
	Origin                    string `xml:"Origin,attr"`
	Destination               string `xml:"Destination,attr"`
	DepartureTime             string `xml:"DepartureTime,attr"`
	ArrivalTime               string `xml:"ArrivalTime,attr"`
	TravelTime                string `xml:"TravelTime,attr"`
	Distance                  string `xml:"Distance,attr"`
	ETicketability            string `xml:"ETicketability,attr"`
	Equipment                 string `xml:"Equipment,attr"`
	ChangeOfPlane             bool   `xml:"ChangeOfPlane,attr"`
	ParticipantLevel          string `xml:"ParticipantLevel,attr"`
	LinkAvailability          bool   `xml:"LinkAvailability,attr"`
	OptionalServicesIndicator bool   `xml:"OptionalServicesIndicator,attr"`
	AvailabilitySource        string `xml:"AvailabilitySource,attr"`
	ProviderCode              string `xml:"ProviderCode,attr"`
}

// LowFareSearchParams are the inputs of a LowFareSearchReq.
type LowFareSearchParams struct {
	From         string
	To           string
	Date         string
	Adults       int
	TargetBranch string
	TraceID      string
}

// BuildLowFareSearch renders a LowFareSearchReq. Airport codes are
// uppercased; nothing else is validated, so a malformed date surfaces as an
// upstream error.
func BuildLowFareSearch(p LowFareSearchParams) ([]byte, error) {
	req := &lowFareSearchReq{
		AuthorizedBy:     "user",
		TargetBranch:     p.TargetBranch,
		TraceID:          p.TraceID,
		SolutionResult:   true,
		ReturnUpsellFare: true,
		BillingPOS:       billingPointOfSale{OriginApplication: "UAPI"},
		Pricing: airPricingModifiers{
			FaresIndicator: "AllFares",
			CurrencyType:   PreferredCurrency,
		},
	}
	req.Leg.Origin.Code = strings.ToUpper(p.From)
	req.Leg.Destination.Code = strings.ToUpper(p.To)
	req.Leg.DepTime.PreferredTime = p.Date
	req.Modifiers.MaxSolutions = MaxSolutions
	req.Modifiers.Provider.Code = PreferredProvider

	adults := p.Adults
	if adults > MaxAdults {
		log.Warn().Int("adults", adults).Int("max", MaxAdults).Msg("passenger count capped")
		adults = MaxAdults
	}
	for i := 0; i < adults; i++ {
		req.Passengers = append(req.Passengers, searchPassenger{Code: "ADT"})
	}

	return marshalEnvelope(envelope{
		SoapEnvNS: soapEnvNS,
		AirNS:     searchAirNS,
		CommonNS:  searchCommonNS,
		Body:      body{LowFareSearch: req},
	})
}

// AirPriceParams are the inputs of an AirPriceReq.
type AirPriceParams struct {
	Segments     []models.Segment
	TargetBranch string
	TraceID      string
}

// BuildAirPrice renders an AirPriceReq for the selected segments. Every
// segment must carry the provider key it was returned with.
func BuildAirPrice(p AirPriceParams) ([]byte, error) {
	if len(p.Segments) == 0 {
		return nil, models.ErrMissingSegments
	}

	segments := make([]airSegment, 0, len(p.Segments))
	for _, s := range p.Segments {
		if s.Key == "" {
			return nil, models.ErrMissingSegmentKey
		}
		segments = append(segments, toAirSegment(s))
	}

	req := &airPriceReq{
		AuthorizedBy: "user",
		TargetBranch: p.TargetBranch,
		TraceID:      p.TraceID,
		BillingPOS:   billingPointOfSale{OriginApplication: "UAPI"},
		Segments:     segments,
		Pricing: airPricingModifiers{
			FaresIndicator: "AllFares",
			Brand:          &brandModifier{ModifierType: "FareFamilyDisplay"},
		},
		Passenger: searchPassenger{Key: PassengerKey, Code: "ADT"},
	}

	return marshalEnvelope(envelope{
		SoapEnvNS: soapEnvNS,
		AirNS:     priceAirNS,
		CommonNS:  priceCommonNS,
		Body:      body{AirPrice: req},
	})
}

func toAirSegment(s models.Segment) airSegment {
	// an unparsable pair yields TravelTime="0"
	travel, _ := timezone.MinutesBetween(s.Departure, s.Arrival)

	return airSegment{
		Key:                       s.Key,
		Group:                     0,
		Carrier:                   s.Carrier,
		FlightNumber:              s.FlightNumber,
		Origin:                    s.From,
		Destination:               s.To,
		DepartureTime:             s.Departure,
		ArrivalTime:               s.Arrival,
		TravelTime:                strconv.Itoa(travel),
		Distance:                  orDefault(string(s.Distance), defaultDistance),
		ETicketability:            "Yes",
		Equipment:                 orDefault(s.Equipment, defaultEquipment),
		ChangeOfPlane:             false,
		ParticipantLevel:          "Secure Sell",
		LinkAvailability:          true,
		OptionalServicesIndicator: false,
		AvailabilitySource:        "P",
		ProviderCode:              orDefault(s.ProviderCode, PreferredProvider),
	}
}

func marshalEnvelope(env envelope) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(env); err != nil {
		return nil, fmt.Errorf("encode soap envelope: %w", err)
	}
	return buf.Bytes(), nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
