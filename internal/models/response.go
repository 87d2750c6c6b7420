package models

type SearchResponse struct {
	Success bool     `json:"success"`
	Flights []Flight `json:"flights"`
}

type DetailsResponse struct {
	Success bool `json:"success"`
	PricingResult
}

type ErrorResponse struct {
	Error         string   `json:"error"`
	Message       string   `json:"message,omitempty"`
	Code          int      `json:"code"`
	Field         string   `json:"field,omitempty"`
	AvailableKeys []string `json:"availableKeys,omitempty"`
	Fault         any      `json:"fault,omitempty"`
}
