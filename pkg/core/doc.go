// Package core defines the shared language of the LeapDB system.
//
// This package contains:
//   - Catalog entities (DataType, Charset, Collation)
//   - Closed enumerations (ValueType, KeyType, RoutineType, ProcedureType)
//   - Configuration types (AdapterConfig, DialectConfig)
//   - Driver information gathered at connect time (DriverInfo)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
