package dataformat

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders a value for display.
type Formatter interface {
	Format(v any) string
}

// NewFormatter builds the formatter of a type from its properties. Missing
// properties take the sample defaults for locale.
func NewFormatter(typeName string, locale language.Tag, props map[string]string) (Formatter, error) {
	s, ok := Lookup(typeName)
	if !ok {
		return nil, fmt.Errorf("unknown formatter type %q", typeName)
	}
	merged := s.DefaultProperties(locale)
	for k, v := range props {
		merged[k] = v
	}
	if typeName == TypeNumber {
		return NewNumberFormatter(locale, merged)
	}
	return NewDateTimeFormatter(merged[PropPattern]), nil
}

// DateTimeFormatter formats time values with a pattern.
type DateTimeFormatter struct {
	pattern string
	layout  string
}

// NewDateTimeFormatter creates a formatter for pattern.
func NewDateTimeFormatter(pattern string) *DateTimeFormatter {
	return &DateTimeFormatter{pattern: pattern, layout: ToLayout(pattern)}
}

// Layout returns the Go time layout of the pattern.
func (f *DateTimeFormatter) Layout() string {
	return f.layout
}

// Format renders time.Time values; anything else is printed as is.
func (f *DateTimeFormatter) Format(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format(f.layout)
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format(f.layout)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Parse reads a value written with the formatter's pattern.
func (f *DateTimeFormatter) Parse(s string) (time.Time, error) {
	return time.Parse(f.layout, s)
}

// patternTokens maps pattern letters to Go layout elements, longest first.
var patternTokens = []struct {
	token  string
	layout string
}{
	{"yyyy", "2006"},
	{"yy", "06"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"MM", "01"},
	{"M", "1"},
	{"dd", "02"},
	{"d", "2"},
	{"EEEE", "Monday"},
	{"EEE", "Mon"},
	{"HH", "15"},
	{"hh", "03"},
	{"h", "3"},
	{"mm", "04"},
	{"m", "4"},
	{"ss", "05"},
	{"s", "5"},
	{"SSSSSSSSS", "000000000"},
	{"SSSSSS", "000000"},
	{"SSS", "000"},
	{"a", "PM"},
	{"XXX", "Z07:00"},
	{"Z", "-0700"},
	{"z", "MST"},
}

// ToLayout converts a date/time pattern such as "yyyy-MM-dd HH:mm:ss" to a
// Go layout. Text in single quotes is copied verbatim and a doubled single
// quote stands for one quote.
func ToLayout(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		if pattern[i] == '\'' {
			if i+1 < len(pattern) && pattern[i+1] == '\'' {
				b.WriteByte('\'')
				i += 2
				continue
			}
			end := strings.IndexByte(pattern[i+1:], '\'')
			if end < 0 {
				b.WriteString(pattern[i+1:])
				break
			}
			b.WriteString(pattern[i+1 : i+1+end])
			i += end + 2
			continue
		}
		matched := false
		for _, t := range patternTokens {
			if strings.HasPrefix(pattern[i:], t.token) {
				b.WriteString(t.layout)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(pattern[i])
			i++
		}
	}
	return b.String()
}

// NumberFormatter formats numbers for a locale.
type NumberFormatter struct {
	printer *message.Printer
	opts    []number.Option
}

// NewNumberFormatter creates a number formatter from properties.
func NewNumberFormatter(locale language.Tag, props map[string]string) (*NumberFormatter, error) {
	f := &NumberFormatter{printer: message.NewPrinter(locale)}
	if v, ok := props[PropUseGrouping]; ok {
		grouping, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", PropUseGrouping, err)
		}
		if !grouping {
			f.opts = append(f.opts, number.NoSeparator())
		}
	}
	if v, ok := props[PropMaxFractionDigits]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", PropMaxFractionDigits, err)
		}
		f.opts = append(f.opts, number.MaxFractionDigits(n))
	}
	if v, ok := props[PropMinFractionDigits]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", PropMinFractionDigits, err)
		}
		f.opts = append(f.opts, number.MinFractionDigits(n))
	}
	return f, nil
}

// Format renders numeric values; anything else is printed as is.
func (f *NumberFormatter) Format(v any) string {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return f.printer.Sprint(number.Decimal(v, f.opts...))
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
