package enums

import "fmt"

// ActionTarget scopes a promotion action to part of an order.
type ActionTarget string

const (
	ActionTargetOrder    ActionTarget = "order"
	ActionTargetCategory ActionTarget = "category"
	ActionTargetItem     ActionTarget = "item"
)

var validActionTargets = []ActionTarget{
	ActionTargetOrder,
	ActionTargetCategory,
	ActionTargetItem,
}

// String implements fmt.Stringer.
func (a ActionTarget) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActionTarget.
func (a ActionTarget) IsValid() bool {
	for _, candidate := range validActionTargets {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActionTarget converts raw input into an ActionTarget.
func ParseActionTarget(value string) (ActionTarget, error) {
	for _, candidate := range validActionTargets {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid action target %q", value)
}
