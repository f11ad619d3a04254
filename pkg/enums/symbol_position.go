package enums

import "fmt"

// SymbolPosition controls where the currency symbol renders in formatted output.
type SymbolPosition string

const (
	SymbolPositionBefore SymbolPosition = "before"
	SymbolPositionAfter  SymbolPosition = "after"
)

var validSymbolPositions = []SymbolPosition{
	SymbolPositionBefore,
	SymbolPositionAfter,
}

// String implements fmt.Stringer.
func (s SymbolPosition) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SymbolPosition.
func (s SymbolPosition) IsValid() bool {
	for _, candidate := range validSymbolPositions {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSymbolPosition converts raw input into a SymbolPosition.
func ParseSymbolPosition(value string) (SymbolPosition, error) {
	for _, candidate := range validSymbolPositions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid symbol position %q", value)
}
