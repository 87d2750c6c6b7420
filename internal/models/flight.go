package models

// Segment is one flight leg. The same shape is returned by search and
// accepted back by details, so the frontend can forward segments verbatim.
type Segment struct {
	Key          string     `json:"Key"`
	Carrier      string     `json:"carrier"`
	FlightNumber string     `json:"flightNumber"`
	From         string     `json:"from"`
	To           string     `json:"to"`
	Departure    string     `json:"departure"`
	Arrival      string     `json:"arrival"`
	Equipment    string     `json:"equipment,omitempty"`
	Distance     FlexString `json:"distance,omitempty"`
	ProviderCode string     `json:"providerCode,omitempty"`
}

// Flight is one priced itinerary after deduplication.
type Flight struct {
	ID                 string    `json:"id"`
	Price              float64   `json:"price"`
	Currency           string    `json:"currency"`
	FormattedPrice     string    `json:"formattedPrice"`
	Stops              int       `json:"stops"`
	DurationMinutes    int       `json:"durationMinutes"`
	Segments           []Segment `json:"segments"`
	PricingSolutionKey string    `json:"pricingSolutionKey"`
	SegmentKeys        []string  `json:"segmentKeys"`
}

// PricingResult carries everything a follow-up booking call needs. The
// nested values are raw decoded XML trees.
type PricingResult struct {
	Pricing         any      `json:"pricing"`
	PricingSolution any      `json:"pricingSolution"`
	PricingKey      string   `json:"pricingKey"`
	PassengerKey    string   `json:"passengerKey"`
	SegmentKeys     []string `json:"segmentKeys"`
	Itinerary       any      `json:"itinerary"`
}
