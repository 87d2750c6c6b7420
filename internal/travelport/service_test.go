package travelport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdulQureshi11/flight-listing-backend/internal/models"
	"github.com/AbdulQureshi11/flight-listing-backend/internal/xmltree"
)

type fakeCaller struct {
	response []byte
	err      error

	calls      int
	operations []string
	payloads   [][]byte
}

func (f *fakeCaller) Call(ctx context.Context, operation string, payload []byte) ([]byte, error) {
	f.calls++
	f.operations = append(f.operations, operation)
	f.payloads = append(f.payloads, payload)
	return f.response, f.err
}

func newTestService(caller Caller) *Service {
	s := NewService(caller, "P7000001")
	s.newTraceID = func() string { return "fixed" }
	return s
}

func TestService_Search(t *testing.T) {
	caller := &fakeCaller{response: readFixture(t, "low_fare_search.xml")}
	svc := newTestService(caller)

	adults := 2
	flights, err := svc.Search(context.Background(), models.SearchRequest{From: "KHI", To: "DXB", Date: "2024-05-01", Adults: &adults})
	require.NoError(t, err)
	assert.Len(t, flights, 3)

	require.Equal(t, 1, caller.calls)
	assert.Equal(t, OpLowFareSearch, caller.operations[0])

	tree, err := xmltree.Parse(caller.payloads[0])
	require.NoError(t, err)
	req := tree.Lookup("soapenv:Envelope", "soapenv:Body", "air:LowFareSearchReq")
	require.NotNil(t, req)
	assert.Equal(t, "TRACE-fixed", req.Attr("TraceId"))
	assert.Equal(t, "P7000001", req.Attr("TargetBranch"))
	assert.Len(t, req.Children("com:SearchPassenger"), 2)
}

func TestService_SearchUpstreamError(t *testing.T) {
	boom := errors.New("connection reset")
	svc := newTestService(&fakeCaller{err: NewUpstreamError(OpLowFareSearch, boom)})

	_, err := svc.Search(context.Background(), models.SearchRequest{From: "KHI", To: "DXB", Date: "2024-05-01"})
	assert.ErrorIs(t, err, boom)
}

func TestService_Price(t *testing.T) {
	caller := &fakeCaller{response: readFixture(t, "air_price.xml")}
	svc := newTestService(caller)

	res, err := svc.Price(context.Background(), []models.Segment{
		{Key: "S3", Carrier: "FZ", FlightNumber: "332"},
		{Key: "S4", Carrier: "FZ", FlightNumber: "558"},
	})
	require.NoError(t, err)

	// keys come from the response itinerary, not the request
	assert.Equal(t, []string{"RS1", "RS2"}, res.SegmentKeys)
	assert.Equal(t, OpAirPrice, caller.operations[0])

	tree, err := xmltree.Parse(caller.payloads[0])
	require.NoError(t, err)
	req := tree.Lookup("soapenv:Envelope", "soapenv:Body", "air:AirPriceReq")
	require.NotNil(t, req)
	assert.Equal(t, "NODE-fixed", req.Attr("TraceId"))
}

func TestService_PriceMissingKeySkipsUpstream(t *testing.T) {
	caller := &fakeCaller{}
	svc := newTestService(caller)

	_, err := svc.Price(context.Background(), []models.Segment{{Key: "S1"}, {}})
	assert.ErrorIs(t, err, models.ErrMissingSegmentKey)
	assert.Zero(t, caller.calls)
}

func TestService_PriceFault(t *testing.T) {
	svc := newTestService(&fakeCaller{response: readFixture(t, "fault.xml")})

	_, err := svc.Price(context.Background(), []models.Segment{{Key: "S1"}})
	var fault *FaultError
	assert.True(t, errors.As(err, &fault))
}
