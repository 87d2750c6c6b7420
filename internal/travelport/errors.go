package travelport

import (
	"strings"

	"github.com/AbdulQureshi11/flight-listing-backend/internal/xmltree"
)

// UpstreamError wraps a failure talking to Travelport for one operation.
type UpstreamError struct {
	Operation string
	Err       error
}

func (e *UpstreamError) Error() string {
	return "travelport " + e.Operation + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func NewUpstreamError(operation string, err error) *UpstreamError {
	return &UpstreamError{
		Operation: operation,
		Err:       err,
	}
}

// FaultError is a SOAP fault returned by Travelport. Fault is the decoded
// fault element, kept for diagnostics.
type FaultError struct {
	Fault xmltree.Node
}

func (e *FaultError) Error() string {
	msg := "travelport fault"
	if s := e.Fault.Attr("faultstring"); s != "" {
		msg += ": " + s
	}
	return msg
}

// MissingFieldError names the step of the pricing response that was absent
// and the keys that were present on its parent instead.
type MissingFieldError struct {
	Field         string
	AvailableKeys []string
}

func (e *MissingFieldError) Error() string {
	msg := "missing " + e.Field + " in pricing response"
	if len(e.AvailableKeys) > 0 {
		msg += " (available: " + strings.Join(e.AvailableKeys, ", ") + ")"
	}
	return msg
}

func missingField(field string, parent xmltree.Node) *MissingFieldError {
	var keys []string
	if parent != nil {
		keys = parent.Keys()
	}
	return &MissingFieldError{Field: field, AvailableKeys: keys}
}
