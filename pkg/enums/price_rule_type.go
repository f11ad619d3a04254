package enums

import "fmt"

// PriceRuleType describes how a currency price rule adjusts an amount.
type PriceRuleType string

const (
	PriceRuleTypeFixed      PriceRuleType = "fixed"
	PriceRuleTypePercentage PriceRuleType = "percentage"
	PriceRuleTypeExchange   PriceRuleType = "exchange"
)

var validPriceRuleTypes = []PriceRuleType{
	PriceRuleTypeFixed,
	PriceRuleTypePercentage,
	PriceRuleTypeExchange,
}

// String implements fmt.Stringer.
func (p PriceRuleType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PriceRuleType.
func (p PriceRuleType) IsValid() bool {
	for _, candidate := range validPriceRuleTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePriceRuleType converts raw input into a PriceRuleType.
func ParsePriceRuleType(value string) (PriceRuleType, error) {
	for _, candidate := range validPriceRuleTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price rule type %q", value)
}
