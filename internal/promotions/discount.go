package promotions

import (
	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	"github.com/angelmondragon/merchantry-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// DiscountStrategy computes the discount a matched promotion yields for an
// order. Two strategies exist: the legacy single-discount columns on the
// promotion row and the multi-action path. ResolveDiscount hides the split
// from callers; both are kept until the legacy columns are migrated away.
type DiscountStrategy interface {
	Discount(promotion *models.Promotion, actions []models.PromotionAction, order *OrderContext) decimal.Decimal
}

// ResolveDiscount sums both strategies and clamps the result to the order
// total so a promotion can never discount more than the order is worth.
func ResolveDiscount(promotion *models.Promotion, actions []models.PromotionAction, order *OrderContext) decimal.Decimal {
	total := legacyStrategy{}.Discount(promotion, actions, order).
		Add(actionStrategy{}.Discount(promotion, actions, order))
	if total.GreaterThan(order.Total) {
		return order.Total
	}
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// legacyStrategy applies the discountType/discountValue columns.
type legacyStrategy struct{}

func (legacyStrategy) Discount(promotion *models.Promotion, _ []models.PromotionAction, order *OrderContext) decimal.Decimal {
	switch promotion.DiscountType {
	case enums.DiscountTypePercentage:
		discount := order.Total.Mul(promotion.DiscountValue).Div(hundred)
		if promotion.MaxDiscountAmount != nil && discount.GreaterThan(*promotion.MaxDiscountAmount) {
			discount = *promotion.MaxDiscountAmount
		}
		return discount
	case enums.DiscountTypeFixedAmount:
		if promotion.DiscountValue.GreaterThan(order.Total) {
			return order.Total
		}
		return promotion.DiscountValue
	default:
		return decimal.Zero
	}
}

// actionStrategy folds the attached PromotionAction rows; each contribution is
// computed against the action's declared target and they all sum.
type actionStrategy struct{}

func (actionStrategy) Discount(_ *models.Promotion, actions []models.PromotionAction, order *OrderContext) decimal.Decimal {
	total := decimal.Zero
	for i := range actions {
		total = total.Add(actionContribution(&actions[i], order))
	}
	return total
}

func actionContribution(action *models.PromotionAction, order *OrderContext) decimal.Decimal {
	switch action.Type {
	case enums.ActionTypeDiscountByPercentage:
		return targetAmount(action, order).Mul(action.Value).Div(hundred)
	case enums.ActionTypeDiscountByAmount:
		target := targetAmount(action, order)
		if action.Value.GreaterThan(target) {
			return target
		}
		return action.Value
	case enums.ActionTypeDiscountShipping:
		discount := order.ShippingTotal.Mul(action.Value).Div(hundred)
		if discount.GreaterThan(order.ShippingTotal) {
			return order.ShippingTotal
		}
		return discount
	case enums.ActionTypeFreeItem:
		price, ok := order.CheapestItemPrice(action.TargetIDs)
		if !ok {
			return decimal.Zero
		}
		return price
	default:
		return decimal.Zero
	}
}

// targetAmount resolves the order slice an action applies to.
func targetAmount(action *models.PromotionAction, order *OrderContext) decimal.Decimal {
	switch action.Target {
	case enums.ActionTargetCategory:
		return order.CategoryTotal(action.TargetIDs)
	case enums.ActionTargetItem:
		return order.ItemTotal(action.TargetIDs)
	default:
		return order.Total
	}
}

var hundred = decimal.NewFromInt(100)
