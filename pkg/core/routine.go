package core

import "strings"

// ProcedureType is the coarse routine classification used by generic tooling.
type ProcedureType int

const (
	ProcedureUnknown ProcedureType = iota
	ProcedureFunction
	ProcedureProcedure
)

// String returns the string representation of ProcedureType.
func (t ProcedureType) String() string {
	switch t {
	case ProcedureFunction:
		return "FUNCTION"
	case ProcedureProcedure:
		return "PROCEDURE"
	default:
		return "UNKNOWN"
	}
}

// RoutineType is the catalog routine kind.
type RoutineType int

const (
	// RoutineUnset means the catalog code was not recognized.
	RoutineUnset RoutineType = iota
	// RoutineFunction is catalog code F.
	RoutineFunction
	// RoutineMethod is catalog code M.
	RoutineMethod
	// RoutineProcedure is catalog code P.
	RoutineProcedure
)

// ParseRoutineType resolves a routine kind from its single-letter code or
// its display name, case-insensitively.
func ParseRoutineType(s string) (RoutineType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "F", "FUNCTION":
		return RoutineFunction, true
	case "M", "METHOD":
		return RoutineMethod, true
	case "P", "PROCEDURE":
		return RoutineProcedure, true
	default:
		return RoutineUnset, false
	}
}

// ProcedureType maps the routine kind onto the coarse classification.
// Methods are treated as procedures.
func (t RoutineType) ProcedureType() ProcedureType {
	switch t {
	case RoutineFunction:
		return ProcedureFunction
	case RoutineMethod, RoutineProcedure:
		return ProcedureProcedure
	default:
		return ProcedureUnknown
	}
}

// Code returns the single-letter catalog code.
func (t RoutineType) Code() string {
	switch t {
	case RoutineFunction:
		return "F"
	case RoutineMethod:
		return "M"
	case RoutineProcedure:
		return "P"
	default:
		return ""
	}
}

// String returns the display name.
func (t RoutineType) String() string {
	switch t {
	case RoutineFunction:
		return "Function"
	case RoutineMethod:
		return "Method"
	case RoutineProcedure:
		return "Procedure"
	default:
		return ""
	}
}
