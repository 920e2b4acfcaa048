package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{time.DateOnly, "2006-01-02T15:04:05", time.RFC3339Nano}

// Date is a request date. It accepts a calendar date or a timestamp and keeps
// the wall-clock reading in UTC, so an offset never moves the calendar day.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		h, mi, sec := t.Clock()
		return time.Date(y, m, d, h, mi, sec, t.Nanosecond(), time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD or RFC 3339", s)
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
