package enums

import "fmt"

// ConditionKind identifies the predicate a promotion rule evaluates.
type ConditionKind string

const (
	ConditionKindCartTotal       ConditionKind = "cart_total"
	ConditionKindItemQuantity    ConditionKind = "item_quantity"
	ConditionKindProductCategory ConditionKind = "product_category"
	ConditionKindCustomerGroup   ConditionKind = "customer_group"
	ConditionKindFirstOrder      ConditionKind = "first_order"

	// Reserved kinds accepted by admin tooling but not evaluated yet.
	ConditionKindShippingMethod ConditionKind = "shipping_method"
	ConditionKindPaymentMethod  ConditionKind = "payment_method"
)

var validConditionKinds = []ConditionKind{
	ConditionKindCartTotal,
	ConditionKindItemQuantity,
	ConditionKindProductCategory,
	ConditionKindCustomerGroup,
	ConditionKindFirstOrder,
	ConditionKindShippingMethod,
	ConditionKindPaymentMethod,
}

// String implements fmt.Stringer.
func (c ConditionKind) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ConditionKind.
func (c ConditionKind) IsValid() bool {
	for _, candidate := range validConditionKinds {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseConditionKind converts raw input into a ConditionKind.
func ParseConditionKind(value string) (ConditionKind, error) {
	for _, candidate := range validConditionKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid condition kind %q", value)
}
