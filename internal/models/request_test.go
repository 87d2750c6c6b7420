package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestSearchRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     SearchRequest
		wantErr error
	}{
		{"valid", SearchRequest{From: "KHI", To: "DXB", Date: "2024-05-01"}, nil},
		{"missing from", SearchRequest{To: "DXB", Date: "2024-05-01"}, ErrMissingSearchFields},
		{"missing to", SearchRequest{From: "KHI", Date: "2024-05-01"}, ErrMissingSearchFields},
		{"missing date", SearchRequest{From: "KHI", To: "DXB"}, ErrMissingSearchFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, "from, to, date required", err.Error())
		})
	}
}

func TestSearchRequest_Passengers(t *testing.T) {
	assert.Equal(t, 1, SearchRequest{}.Passengers())
	assert.Equal(t, 1, SearchRequest{Adults: intPtr(0)}.Passengers())
	assert.Equal(t, 1, SearchRequest{Adults: intPtr(-2)}.Passengers())
	assert.Equal(t, 3, SearchRequest{Adults: intPtr(3)}.Passengers())
}

func TestSearchRequest_Normalized(t *testing.T) {
	orig := SearchRequest{From: "khi", To: "Dxb", Date: "2024-05-01"}
	n := orig.Normalized()

	assert.Equal(t, "KHI", n.From)
	assert.Equal(t, "DXB", n.To)
	assert.Equal(t, "2024-05-01", n.Date)
	require.NotNil(t, n.Adults)
	assert.Equal(t, 1, *n.Adults)
	assert.Equal(t, "khi", orig.From)
	assert.Nil(t, orig.Adults)
}

func TestDetailsRequest_Validate(t *testing.T) {
	assert.ErrorIs(t, (&DetailsRequest{}).Validate(), ErrMissingSegments)
	assert.ErrorIs(t, (&DetailsRequest{Segments: []Segment{}}).Validate(), ErrMissingSegments)
	assert.ErrorIs(t, (&DetailsRequest{Segments: []Segment{{Key: "S1"}, {}}}).Validate(), ErrMissingSegmentKey)
	assert.NoError(t, (&DetailsRequest{Segments: []Segment{{Key: "S1"}, {Key: "S2"}}}).Validate())
}

func TestFlexString(t *testing.T) {
	var req DetailsRequest
	body := `{"segments":[{"Key":"A","distance":734},{"Key":"B","distance":"530"},{"Key":"C","distance":null},{"Key":"D"}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	require.Len(t, req.Segments, 4)
	assert.Equal(t, FlexString("734"), req.Segments[0].Distance)
	assert.Equal(t, FlexString("530"), req.Segments[1].Distance)
	assert.Equal(t, FlexString(""), req.Segments[2].Distance)
	assert.Equal(t, FlexString(""), req.Segments[3].Distance)

	var bad DetailsRequest
	assert.Error(t, json.Unmarshal([]byte(`{"segments":[{"Key":"A","distance":true}]}`), &bad))
}

func TestDetailsResponse_JSON(t *testing.T) {
	data, err := json.Marshal(DetailsResponse{
		Success: true,
		PricingResult: PricingResult{
			PricingKey:   "PI1",
			PassengerKey: "ADT1",
			SegmentKeys:  []string{"RS1"},
		},
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"success":true,"pricing":null,"pricingSolution":null,"pricingKey":"PI1","passengerKey":"ADT1","segmentKeys":["RS1"],"itinerary":null}`, string(data))
}
