// Package dataformat supplies locale-aware default formatting options and
// preview values for the value formatters of a data viewer.
package dataformat

import (
	"sort"
	"strconv"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Formatter property names.
const (
	PropPattern           = "pattern"
	PropUseGrouping       = "useGrouping"
	PropMaxFractionDigits = "maxFractionDigits"
	PropMinFractionDigits = "minFractionDigits"
)

// Default patterns, in the notation understood by ToLayout.
const (
	DefaultDatePattern      = "yyyy-MM-dd"
	DefaultTimePattern      = "HH:mm:ss"
	DefaultTimestampPattern = DefaultDatePattern + " " + DefaultTimePattern
)

// Sample provides the default properties of one formatter type and a value
// to preview them with.
type Sample interface {
	DefaultProperties(locale language.Tag) map[string]string
	SampleValue() any
}

// Clock returns the current time. Nil means time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// DateSample previews date values.
type DateSample struct {
	Now Clock
}

// DefaultProperties returns the date pattern. It is the same for every locale.
func (DateSample) DefaultProperties(language.Tag) map[string]string {
	return map[string]string{PropPattern: DefaultDatePattern}
}

// SampleValue returns the current time.
func (s DateSample) SampleValue() any {
	return s.Now.now()
}

// TimeSample previews time-of-day values.
type TimeSample struct {
	Now Clock
}

func (TimeSample) DefaultProperties(language.Tag) map[string]string {
	return map[string]string{PropPattern: DefaultTimePattern}
}

func (s TimeSample) SampleValue() any {
	return s.Now.now()
}

// TimestampSample previews timestamps with the date and time patterns joined
// by a space.
type TimestampSample struct {
	Now Clock
}

func (TimestampSample) DefaultProperties(language.Tag) map[string]string {
	return map[string]string{PropPattern: DefaultTimestampPattern}
}

func (s TimestampSample) SampleValue() any {
	return s.Now.now()
}

// NumberSample previews numbers. Grouping is on and two fraction digits are
// shown at most.
type NumberSample struct{}

func (NumberSample) DefaultProperties(language.Tag) map[string]string {
	return map[string]string{
		PropUseGrouping:       strconv.FormatBool(true),
		PropMaxFractionDigits: "2",
		PropMinFractionDigits: "0",
	}
}

func (NumberSample) SampleValue() any {
	return 1234567.891
}

// Type names of the built-in samples.
const (
	TypeDate      = "date"
	TypeTime      = "time"
	TypeTimestamp = "timestamp"
	TypeNumber    = "number"
)

var samples = map[string]Sample{
	TypeDate:      DateSample{},
	TypeTime:      TimeSample{},
	TypeTimestamp: TimestampSample{},
	TypeNumber:    NumberSample{},
}

// Lookup returns the sample of a formatter type.
func Lookup(typeName string) (Sample, bool) {
	s, ok := samples[typeName]
	return s, ok
}

// Types returns the formatter type names, sorted.
func Types() []string {
	out := make([]string, 0, len(samples))
	for name := range samples {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Title returns the display name of a formatter type.
func Title(typeName string) string {
	return cases.Title(language.English).String(typeName)
}
