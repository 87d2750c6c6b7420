package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Date   string `json:"date"`
	Adults *int   `json:"adults,omitempty"`
}

// Validate only checks presence; codes and dates are passed through to the
// upstream untouched.
func (r *SearchRequest) Validate() error {
	if r.From == "" || r.To == "" || r.Date == "" {
		return ErrMissingSearchFields
	}
	return nil
}

// Passengers returns the adult count, defaulting to one.
func (r SearchRequest) Passengers() int {
	if r.Adults == nil || *r.Adults <= 0 {
		return 1
	}
	return *r.Adults
}

// Normalized returns a copy with uppercased airport codes.
func (r SearchRequest) Normalized() SearchRequest {
	adults := r.Passengers()
	return SearchRequest{
		From:   strings.ToUpper(r.From),
		To:     strings.ToUpper(r.To),
		Date:   r.Date,
		Adults: &adults,
	}
}

// DetailsRequest is the body of POST /api/details.
type DetailsRequest struct {
	Segments []Segment `json:"segments"`
}

func (r *DetailsRequest) Validate() error {
	if len(r.Segments) == 0 {
		return ErrMissingSegments
	}
	for _, s := range r.Segments {
		if s.Key == "" {
			return ErrMissingSegmentKey
		}
	}
	return nil
}

// FlexString accepts either a JSON string or a JSON number. The frontend
// echoes distances back in whatever shape it received them.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingSearchFields ValidationError = "from, to, date required"
	ErrMissingSegments     ValidationError = "segments required"
	ErrMissingSegmentKey   ValidationError = "All segments must have a Key property"
)
