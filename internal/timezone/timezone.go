package timezone

import (
	"math"
	"time"
)

// Travelport timestamps carry the local offset of the airport, e.g.
// 2024-05-01T09:35:00.000+05:00, so durations are computed on absolute time.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-07:00",
	"2006-01-02T15:04:05-0700", // Without colon
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &time.ParseError{
		Value:   s,
		Message: "unable to parse time string",
	}
}

// MinutesBetween returns the whole minutes from start to end, rounded half
// up. It returns false when either timestamp cannot be parsed.
func MinutesBetween(start, end string) (int, bool) {
	s, err := ParseTimestamp(start)
	if err != nil {
		return 0, false
	}
	e, err := ParseTimestamp(end)
	if err != nil {
		return 0, false
	}
	return int(math.Floor(e.Sub(s).Minutes() + 0.5)), true
}
