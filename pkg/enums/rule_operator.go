package enums

import "fmt"

// RuleOperator is the comparison applied by a promotion rule.
type RuleOperator string

const (
	RuleOperatorEq  RuleOperator = "eq"
	RuleOperatorNeq RuleOperator = "neq"
	RuleOperatorGt  RuleOperator = "gt"
	RuleOperatorLt  RuleOperator = "lt"
	RuleOperatorGte RuleOperator = "gte"
	RuleOperatorLte RuleOperator = "lte"
)

var validRuleOperators = []RuleOperator{
	RuleOperatorEq,
	RuleOperatorNeq,
	RuleOperatorGt,
	RuleOperatorLt,
	RuleOperatorGte,
	RuleOperatorLte,
}

// String implements fmt.Stringer.
func (r RuleOperator) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RuleOperator.
func (r RuleOperator) IsValid() bool {
	for _, candidate := range validRuleOperators {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRuleOperator converts raw input into a RuleOperator.
func ParseRuleOperator(value string) (RuleOperator, error) {
	for _, candidate := range validRuleOperators {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rule operator %q", value)
}
