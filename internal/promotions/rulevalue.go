package promotions

import (
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/merchantry-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Rule payloads are stored as loose JSON; each condition kind decodes into its
// own typed variant so the evaluator never touches raw maps.

// CartTotalValue is the payload for cart_total conditions.
type CartTotalValue struct {
	Amount decimal.Decimal `json:"amount"`
}

// ItemQuantityValue is the payload for item_quantity conditions. An empty
// ProductID compares against the order's total quantity.
type ItemQuantityValue struct {
	ProductID string `json:"productId,omitempty"`
	Quantity  int    `json:"quantity"`
}

// ProductCategoryValue is the payload for product_category conditions.
type ProductCategoryValue struct {
	CategoryID string `json:"categoryId"`
}

// CustomerGroupValue is the payload for customer_group conditions.
type CustomerGroupValue struct {
	GroupID string `json:"groupId"`
}

// RuleValue holds exactly one decoded payload, keyed by Kind.
type RuleValue struct {
	Kind            enums.ConditionKind
	CartTotal       *CartTotalValue
	ItemQuantity    *ItemQuantityValue
	ProductCategory *ProductCategoryValue
	CustomerGroup   *CustomerGroupValue
}

// DecodeRuleValue parses the raw payload for the given condition kind. Kinds
// without a payload (first_order) and unrecognized kinds decode to an empty
// value so the evaluator can apply its own open/closed policy.
func DecodeRuleValue(kind enums.ConditionKind, raw json.RawMessage) (*RuleValue, error) {
	value := &RuleValue{Kind: kind}
	switch kind {
	case enums.ConditionKindCartTotal:
		payload := &CartTotalValue{}
		if err := decodePayload(raw, payload); err != nil {
			return nil, fmt.Errorf("cart_total payload: %w", err)
		}
		value.CartTotal = payload
	case enums.ConditionKindItemQuantity:
		payload := &ItemQuantityValue{}
		if err := decodePayload(raw, payload); err != nil {
			return nil, fmt.Errorf("item_quantity payload: %w", err)
		}
		value.ItemQuantity = payload
	case enums.ConditionKindProductCategory:
		payload := &ProductCategoryValue{}
		if err := decodePayload(raw, payload); err != nil {
			return nil, fmt.Errorf("product_category payload: %w", err)
		}
		value.ProductCategory = payload
	case enums.ConditionKindCustomerGroup:
		payload := &CustomerGroupValue{}
		if err := decodePayload(raw, payload); err != nil {
			return nil, fmt.Errorf("customer_group payload: %w", err)
		}
		value.CustomerGroup = payload
	}
	return value, nil
}

func decodePayload(raw json.RawMessage, dest any) error {
	if len(raw) == 0 {
		return fmt.Errorf("payload is empty")
	}
	return json.Unmarshal(raw, dest)
}
