package dto

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// Date renders a time.Time as YYYY-MM-DD in JSON.
type Date time.Time

func NewDate(t time.Time) Date { return Date(t) }

// DatePtr converts an optional time.
func DatePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := Date(*t)
	return &d
}

func (d Date) Time() time.Time { return time.Time(d) }

func (d Date) String() string { return time.Time(d).Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(DateLayout, strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	*d = Date(t)
	return nil
}
