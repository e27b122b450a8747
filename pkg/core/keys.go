package core

// KeyType classifies a column's participation in table keys.
type KeyType int

const (
	// KeyNone means the key type is unset.
	KeyNone KeyType = iota
	// KeyPrimary is part of the primary key (PRI).
	KeyPrimary
	// KeyUnique is part of a unique key (UNI).
	KeyUnique
	// KeyMultiple is part of a non-unique index or reference (MUL).
	KeyMultiple
)

// ParseKeyType resolves a catalog key code. The match is exact, as catalogs
// report these codes in upper case.
func ParseKeyType(code string) (KeyType, bool) {
	switch code {
	case "PRI":
		return KeyPrimary, true
	case "UNI":
		return KeyUnique, true
	case "MUL":
		return KeyMultiple, true
	default:
		return KeyNone, false
	}
}

// InUniqueKey reports whether the column belongs to a unique key.
func (k KeyType) InUniqueKey() bool {
	return k == KeyPrimary || k == KeyUnique
}

// InReferenceKey reports whether the column belongs to a reference key.
func (k KeyType) InReferenceKey() bool {
	return k == KeyMultiple
}

// String returns the catalog code, or an empty string when unset.
func (k KeyType) String() string {
	switch k {
	case KeyPrimary:
		return "PRI"
	case KeyUnique:
		return "UNI"
	case KeyMultiple:
		return "MUL"
	default:
		return ""
	}
}
