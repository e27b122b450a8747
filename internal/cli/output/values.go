package output

import (
	"fmt"
	"time"

	"github.com/leapstack-labs/leapdb/pkg/dataformat"
)

// NullText is how NULL values are displayed.
const NullText = "NULL"

// ValueFormatter turns driver values into display text. Time values use
// the timestamp formatter; everything else prints as is.
type ValueFormatter struct {
	timestamp dataformat.Formatter
}

// NewValueFormatter creates a formatter. A nil timestamp formatter uses
// the default timestamp pattern.
func NewValueFormatter(timestamp dataformat.Formatter) *ValueFormatter {
	if timestamp == nil {
		timestamp = dataformat.NewDateTimeFormatter(dataformat.DefaultTimestampPattern)
	}
	return &ValueFormatter{timestamp: timestamp}
}

// Text returns the display text of v.
func (f *ValueFormatter) Text(v any) string {
	switch x := v.(type) {
	case nil:
		return NullText
	case []byte:
		return string(x)
	case string:
		return x
	case time.Time:
		return f.timestamp.Format(x)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Plain returns v converted for structured encoders: byte slices become
// strings and times keep RFC 3339 precision.
func (f *ValueFormatter) Plain(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	default:
		return v
	}
}
