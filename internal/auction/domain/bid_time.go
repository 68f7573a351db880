package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// local date-time forms sent by the auction server, seconds and fraction are optional
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// BidTime is the moment a bid was accepted. The server may send it without a zone,
// in that case it is a wall clock reading in the viewer's zone
type BidTime struct {
	t     time.Time
	zoned bool
}

// NewBidTime wraps an absolute instant
func NewBidTime(t time.Time) BidTime {
	return BidTime{t: t, zoned: true}
}

// NewLocalBidTime wraps a wall clock reading without zone
func NewLocalBidTime(year int, month time.Month, day, hour, min, sec int) BidTime {
	return BidTime{t: time.Date(year, month, day, hour, min, sec, 0, time.UTC)}
}

// IsZero reports whether no time was sent
func (b BidTime) IsZero() bool {
	return b.t.IsZero()
}

// In returns the instant as seen by a viewer in loc
func (b BidTime) In(loc *time.Location) time.Time {
	if b.zoned {
		return b.t.In(loc)
	}
	return time.Date(b.t.Year(), b.t.Month(), b.t.Day(), b.t.Hour(), b.t.Minute(), b.t.Second(), b.t.Nanosecond(), loc)
}

// UnmarshalJSON accepts ISO local date-times, RFC 3339 and the [y,m,d,h,mi,s,nanos] array form
func (b *BidTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = BidTime{}
		return nil
	}

	if len(data) > 0 && data[0] == '[' {
		var parts []int
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidBidTime, err)
		}
		if len(parts) < 5 {
			return fmt.Errorf("%w: array needs at least 5 fields, got %d", ErrInvalidBidTime, len(parts))
		}
		for len(parts) < 7 {
			parts = append(parts, 0)
		}
		*b = BidTime{t: time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], parts[6], time.UTC)}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBidTime, err)
	}
	return b.parse(s)
}

func (b *BidTime) parse(s string) error {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*b = BidTime{t: t, zoned: true}
		return nil
	}
	for _, layout := range localLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*b = BidTime{t: t}
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidBidTime, s)
}

// MarshalJSON writes RFC 3339 for zoned times and ISO local date-time otherwise
func (b BidTime) MarshalJSON() ([]byte, error) {
	if b.IsZero() {
		return []byte("null"), nil
	}
	if b.zoned {
		return json.Marshal(b.t.Format(time.RFC3339Nano))
	}
	return json.Marshal(b.t.Format(localLayouts[0]))
}
