package enums

import "fmt"

// ActionType describes how a promotion action produces its discount.
type ActionType string

const (
	ActionTypeDiscountByPercentage ActionType = "discount_by_percentage"
	ActionTypeDiscountByAmount     ActionType = "discount_by_amount"
	ActionTypeDiscountShipping     ActionType = "discount_shipping"
	ActionTypeFreeItem             ActionType = "free_item"
)

var validActionTypes = []ActionType{
	ActionTypeDiscountByPercentage,
	ActionTypeDiscountByAmount,
	ActionTypeDiscountShipping,
	ActionTypeFreeItem,
}

// String implements fmt.Stringer.
func (a ActionType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActionType.
func (a ActionType) IsValid() bool {
	for _, candidate := range validActionTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActionType converts raw input into an ActionType.
func ParseActionType(value string) (ActionType, error) {
	for _, candidate := range validActionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid action type %q", value)
}
