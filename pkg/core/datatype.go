package core

// ValueType is the vendor-neutral classification of a column value.
type ValueType int

const (
	// ValueUnknown is used when the type name is not recognized.
	ValueUnknown ValueType = iota
	ValueBoolean
	ValueInteger
	ValueNumeric
	ValueString
	ValueBinary
	ValueDate
	ValueTime
	ValueTimestamp
	ValueEnum
	ValueSet
	ValueJSON
	ValueUUID
	ValueArray
	ValueInterval
)

var valueTypeNames = [...]string{
	ValueUnknown:   "unknown",
	ValueBoolean:   "boolean",
	ValueInteger:   "integer",
	ValueNumeric:   "numeric",
	ValueString:    "string",
	ValueBinary:    "binary",
	ValueDate:      "date",
	ValueTime:      "time",
	ValueTimestamp: "timestamp",
	ValueEnum:      "enum",
	ValueSet:       "set",
	ValueJSON:      "json",
	ValueUUID:      "uuid",
	ValueArray:     "array",
	ValueInterval:  "interval",
}

// String returns the string representation of ValueType.
func (t ValueType) String() string {
	if t < 0 || int(t) >= len(valueTypeNames) {
		return "unknown"
	}
	return valueTypeNames[t]
}

// DataType is an entry in a data source's type catalog.
type DataType struct {
	Name      string
	ValueType ValueType
	// Precision is the intrinsic precision of the type. For character
	// types it is the default maximum length.
	Precision int64
	Scale     int
}
