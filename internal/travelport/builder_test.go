package travelport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdulQureshi11/flight-listing-backend/internal/models"
	"github.com/AbdulQureshi11/flight-listing-backend/internal/xmltree"
)

func TestBuildLowFareSearch(t *testing.T) {
	out, err := BuildLowFareSearch(LowFareSearchParams{
		From:         "khi",
		To:           "dxb",
		Date:         "2024-05-01",
		Adults:       1,
		TargetBranch: "P7000001",
		TraceID:      "TRACE-test",
	})
	require.NoError(t, err)
	xmlText := string(out)

	assert.True(t, strings.HasPrefix(xmlText, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, xmlText, `Code="KHI"`)
	assert.Contains(t, xmlText, `Code="DXB"`)
	assert.Equal(t, 1, strings.Count(xmlText, "<com:SearchPassenger "))
	assert.Contains(t, xmlText, `xmlns:air="http://www.travelport.com/schema/air_v42_0"`)
	assert.Contains(t, xmlText, `xmlns:com="http://www.travelport.com/schema/common_v42_0"`)
	assert.Contains(t, xmlText, `TargetBranch="P7000001"`)
	assert.Contains(t, xmlText, `TraceId="TRACE-test"`)
	assert.Contains(t, xmlText, `MaxSolutions="50"`)
	assert.Contains(t, xmlText, `CurrencyType="PKR"`)
	assert.Contains(t, xmlText, `PreferredTime="2024-05-01"`)

	tree, err := xmltree.Parse(out)
	require.NoError(t, err)
	req := tree.Lookup("soapenv:Envelope", "soapenv:Body", "air:LowFareSearchReq")
	require.NotNil(t, req)
	assert.Equal(t, "true", req.Attr("SolutionResult"))
	assert.Equal(t, "KHI", req.Lookup("air:SearchAirLeg", "air:SearchOrigin", "com:Airport").Attr("Code"))
	assert.Equal(t, "DXB", req.Lookup("air:SearchAirLeg", "air:SearchDestination", "com:Airport").Attr("Code"))
	assert.Equal(t, "1G", req.Lookup("air:AirSearchModifiers", "air:PreferredProviders", "com:Provider").Attr("Code"))
}

func TestBuildLowFareSearch_PassengerCount(t *testing.T) {
	for _, adults := range []int{0, 1, 3} {
		out, err := BuildLowFareSearch(LowFareSearchParams{From: "LHE", To: "JED", Date: "2024-06-01", Adults: adults})
		require.NoError(t, err)
		assert.Equal(t, adults, strings.Count(string(out), "<com:SearchPassenger "))
	}
}

func TestBuildLowFareSearch_CapsPassengers(t *testing.T) {
	out, err := BuildLowFareSearch(LowFareSearchParams{From: "LHE", To: "JED", Date: "2024-06-01", Adults: 100000000})
	require.NoError(t, err)
	assert.Equal(t, MaxAdults, strings.Count(string(out), "<com:SearchPassenger "))
}

func TestBuildLowFareSearch_EscapesInput(t *testing.T) {
	out, err := BuildLowFareSearch(LowFareSearchParams{From: `KHI"/><x`, To: "DXB", Date: "<d>", Adults: 1})
	require.NoError(t, err)

	_, err = xmltree.Parse(out)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"/><X`)
	assert.NotContains(t, string(out), "<d>")
}

func TestBuildAirPrice(t *testing.T) {
	out, err := BuildAirPrice(AirPriceParams{
		Segments: []models.Segment{
			{
				Key: "S3", Carrier: "FZ", FlightNumber: "332", From: "KHI", To: "MCT",
				Departure: "2024-05-01T12:00:00.000+05:00", Arrival: "2024-05-01T12:45:00.000+04:00",
				Equipment: "73H", Distance: "530", ProviderCode: "1G",
			},
			{
				Key: "S4", Carrier: "FZ", FlightNumber: "558", From: "MCT", To: "DXB",
				Departure: "2024-05-01T15:00:00.000+04:00", Arrival: "2024-05-01T16:10:00.000+04:00",
			},
		},
		TargetBranch: "P7000001",
		TraceID:      "NODE-test",
	})
	require.NoError(t, err)
	xmlText := string(out)

	assert.Contains(t, xmlText, `xmlns:air="http://www.travelport.com/schema/air_v54_0"`)
	assert.Contains(t, xmlText, `xmlns:com="http://www.travelport.com/schema/common_v54_0"`)

	tree, err := xmltree.Parse(out)
	require.NoError(t, err)
	req := tree.Lookup("soapenv:Envelope", "soapenv:Body", "air:AirPriceReq")
	require.NotNil(t, req)
	assert.Equal(t, "P7000001", req.Attr("TargetBranch"))
	assert.Equal(t, "ADT1", req.Child("com:SearchPassenger").Attr("Key"))
	assert.Equal(t, "FareFamilyDisplay", req.Lookup("air:AirPricingModifiers", "air:BrandModifiers").Attr("ModifierType"))
	assert.True(t, req.Has("air:AirPricingCommand"))

	segs := req.Child("air:AirItinerary").Children("air:AirSegment")
	require.Len(t, segs, 2)

	assert.Equal(t, "S3", segs[0].Attr("Key"))
	assert.Equal(t, "0", segs[0].Attr("Group"))
	assert.Equal(t, "105", segs[0].Attr("TravelTime"))
	assert.Equal(t, "530", segs[0].Attr("Distance"))
	assert.Equal(t, "73H", segs[0].Attr("Equipment"))
	assert.Equal(t, "Secure Sell", segs[0].Attr("ParticipantLevel"))
	assert.Equal(t, "false", segs[0].Attr("ChangeOfPlane"))
	assert.Equal(t, "true", segs[0].Attr("LinkAvailability"))

	// defaults
	assert.Equal(t, "S4", segs[1].Attr("Key"))
	assert.Equal(t, "70", segs[1].Attr("TravelTime"))
	assert.Equal(t, "0", segs[1].Attr("Distance"))
	assert.Equal(t, "320", segs[1].Attr("Equipment"))
	assert.Equal(t, "1G", segs[1].Attr("ProviderCode"))
}

func TestBuildAirPrice_RejectsMissingKey(t *testing.T) {
	out, err := BuildAirPrice(AirPriceParams{Segments: []models.Segment{{Key: "S1"}, {Carrier: "PK"}}})
	assert.ErrorIs(t, err, models.ErrMissingSegmentKey)
	assert.Nil(t, out)

	_, err = BuildAirPrice(AirPriceParams{})
	assert.ErrorIs(t, err, models.ErrMissingSegments)
}
