// Package format renders amounts and bid times the way the auction pages display them.
package format

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// InvalidAmount is displayed instead of a value that is not a finite number
const InvalidAmount = "N/A"

// bidTimeLayout renders as "Dec 4, 2025 12:05 AM"
const bidTimeLayout = "Jan 2, 2006 3:04 PM"

// Formatter holds the viewer's locale and time zone
type Formatter struct {
	printer *message.Printer
	loc     *time.Location
}

var defaultFormatter = &Formatter{
	printer: message.NewPrinter(language.AmericanEnglish),
	loc:     time.Local,
}

// NewFormatter builds a Formatter for a BCP 47 locale tag and an IANA zone name ("Local" for the host zone)
func NewFormatter(locale, timezone string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("format: invalid locale %q: %w", locale, err)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("format: invalid timezone %q: %w", timezone, err)
	}
	return &Formatter{printer: message.NewPrinter(tag), loc: loc}, nil
}

// Default returns the en-US formatter in the host time zone
func Default() *Formatter {
	return defaultFormatter
}

// Location is the viewer's time zone
func (f *Formatter) Location() *time.Location {
	return f.loc
}

// Currency renders value with exactly two fraction digits and locale grouping, "1,234.50" for en-US
func (f *Formatter) Currency(value decimal.Decimal) string {
	return f.CurrencyFloat(value.Round(2).InexactFloat64())
}

// CurrencyFloat is Currency for float values, NaN and infinities render as InvalidAmount
func (f *Formatter) CurrencyFloat(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return InvalidAmount
	}
	return f.printer.Sprintf("%v", number.Decimal(value,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

// BidTime renders t in the viewer's zone with a 12-hour clock
func (f *Formatter) BidTime(t time.Time) string {
	return t.In(f.loc).Format(bidTimeLayout)
}

// Currency formats with the default formatter
func Currency(value decimal.Decimal) string {
	return defaultFormatter.Currency(value)
}

// BidTime formats with the default formatter
func BidTime(t time.Time) string {
	return defaultFormatter.BidTime(t)
}
