package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for report dates.
const DateLayout = "2006-01-02"

// DateRange bounds a report query. Both ends are inclusive calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DefaultDateRange is the first half of the 2024-25 Indian financial year.
func DefaultDateRange() DateRange {
	return DateRange{
		Start: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC),
	}
}

// ParseDateRange parses two YYYY-MM-DD strings and checks ordering.
func ParseDateRange(from, to string) (DateRange, error) {
	start, err := time.Parse(DateLayout, from)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", from, err)
	}
	end, err := time.Parse(DateLayout, to)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", to, err)
	}
	r := DateRange{Start: start, End: end}
	if !r.Valid() {
		return DateRange{}, fmt.Errorf("start date %s is after end date %s", from, to)
	}
	return r, nil
}

// Valid reports whether Start is not after End.
func (r DateRange) Valid() bool {
	return !r.Start.After(r.End)
}

// String renders the range as "from..to".
func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

// Equal reports whether both ranges cover the same days.
func (r DateRange) Equal(other DateRange) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}
