package enums

import "fmt"

// PromotionScope narrows which part of the marketplace a promotion targets.
type PromotionScope string

const (
	PromotionScopeAll      PromotionScope = "all"
	PromotionScopeOrder    PromotionScope = "order"
	PromotionScopeProduct  PromotionScope = "product"
	PromotionScopeShipping PromotionScope = "shipping"
)

var validPromotionScopes = []PromotionScope{
	PromotionScopeAll,
	PromotionScopeOrder,
	PromotionScopeProduct,
	PromotionScopeShipping,
}

// String implements fmt.Stringer.
func (p PromotionScope) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PromotionScope.
func (p PromotionScope) IsValid() bool {
	for _, candidate := range validPromotionScopes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePromotionScope converts raw input into a PromotionScope.
func ParsePromotionScope(value string) (PromotionScope, error) {
	for _, candidate := range validPromotionScopes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promotion scope %q", value)
}
