package promotions

import (
	"context"
	"time"

	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	"github.com/angelmondragon/merchantry-backend/pkg/enums"
	"github.com/angelmondragon/merchantry-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// GroupMembershipFunc reports whether the order's customer belongs to the
// given group. The default capability always answers yes; wire a real lookup
// to enforce membership.
type GroupMembershipFunc func(ctx context.Context, order *OrderContext, groupID string) bool

// FirstOrderFunc reports whether the order is the customer's first. The
// default capability always answers yes.
type FirstOrderFunc func(ctx context.Context, order *OrderContext) bool

// Evaluator decides promotion eligibility against an order snapshot. It holds
// no mutable state and is safe for concurrent use.
type Evaluator struct {
	groupMembership GroupMembershipFunc
	firstOrder      FirstOrderFunc
	logg            *logger.Logger
	now             func() time.Time
}

// EvaluatorOption customizes an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithGroupMembership installs a real customer group lookup.
func WithGroupMembership(fn GroupMembershipFunc) EvaluatorOption {
	return func(e *Evaluator) {
		if fn != nil {
			e.groupMembership = fn
		}
	}
}

// WithFirstOrderCheck installs a real first-order lookup.
func WithFirstOrderCheck(fn FirstOrderFunc) EvaluatorOption {
	return func(e *Evaluator) {
		if fn != nil {
			e.firstOrder = fn
		}
	}
}

// WithLogger attaches a logger for diagnostics on malformed rule payloads.
func WithLogger(logg *logger.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		e.logg = logg
	}
}

func withClock(now func() time.Time) EvaluatorOption {
	return func(e *Evaluator) {
		e.now = now
	}
}

// NewEvaluator builds an evaluator. Without options the customer_group and
// first_order capabilities always pass, matching historical behavior.
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		groupMembership: func(context.Context, *OrderContext, string) bool { return true },
		firstOrder:      func(context.Context, *OrderContext) bool { return true },
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsValid runs the sequential eligibility checks; each one is a hard no on
// failure. A promotion with no attached rules passes once the header checks
// clear. With rules attached, every active rule must hold.
func (e *Evaluator) IsValid(ctx context.Context, promotion *models.Promotion, rules []models.PromotionRule, order *OrderContext) bool {
	now := e.now().UTC()

	if promotion.Status != enums.PromotionStatusActive {
		return false
	}
	if now.Before(promotion.StartDate) {
		return false
	}
	if promotion.EndDate != nil && now.After(*promotion.EndDate) {
		return false
	}
	// A zero usage limit is "no cap". Intentional, do not tighten.
	if promotion.UsageLimit != 0 && promotion.UsageCount >= promotion.UsageLimit {
		return false
	}
	if promotion.MinOrderAmount != nil && order.Total.LessThan(*promotion.MinOrderAmount) {
		return false
	}

	for i := range rules {
		if !rules[i].IsActive {
			continue
		}
		if !e.ruleHolds(ctx, &rules[i], order) {
			return false
		}
	}
	return true
}

// ruleHolds evaluates one condition. Unknown operators on a recognized kind
// fail closed; unknown condition kinds fail open. The asymmetry is a
// load-bearing contract with existing stored rules, preserved verbatim.
func (e *Evaluator) ruleHolds(ctx context.Context, rule *models.PromotionRule, order *OrderContext) bool {
	value, err := DecodeRuleValue(rule.Kind, rule.Value)
	if err != nil {
		if e.logg != nil {
			ctx = e.logg.WithFields(ctx, map[string]any{
				"ruleId": rule.ID.String(),
				"kind":   rule.Kind.String(),
			})
			e.logg.Warn(ctx, "promotion rule payload is malformed, rejecting promotion")
		}
		return false
	}

	switch rule.Kind {
	case enums.ConditionKindCartTotal:
		return compareDecimal(order.Total, value.CartTotal.Amount, rule.Operator)
	case enums.ConditionKindItemQuantity:
		quantity := order.TotalQuantity()
		if value.ItemQuantity.ProductID != "" {
			quantity = order.QuantityOf(value.ItemQuantity.ProductID)
		}
		return compareInt(quantity, value.ItemQuantity.Quantity, rule.Operator)
	case enums.ConditionKindProductCategory:
		// Membership is an equality check, but an unrecognized operator
		// still rejects the rule like the comparison kinds do.
		if !rule.Operator.IsValid() {
			return false
		}
		return order.HasCategory(value.ProductCategory.CategoryID)
	case enums.ConditionKindCustomerGroup:
		return e.groupMembership(ctx, order, value.CustomerGroup.GroupID)
	case enums.ConditionKindFirstOrder:
		return e.firstOrder(ctx, order)
	default:
		return true
	}
}

func compareDecimal(left, right decimal.Decimal, operator enums.RuleOperator) bool {
	switch operator {
	case enums.RuleOperatorEq:
		return left.Equal(right)
	case enums.RuleOperatorNeq:
		return !left.Equal(right)
	case enums.RuleOperatorGt:
		return left.GreaterThan(right)
	case enums.RuleOperatorLt:
		return left.LessThan(right)
	case enums.RuleOperatorGte:
		return left.GreaterThanOrEqual(right)
	case enums.RuleOperatorLte:
		return left.LessThanOrEqual(right)
	default:
		return false
	}
}

func compareInt(left, right int, operator enums.RuleOperator) bool {
	switch operator {
	case enums.RuleOperatorEq:
		return left == right
	case enums.RuleOperatorNeq:
		return left != right
	case enums.RuleOperatorGt:
		return left > right
	case enums.RuleOperatorLt:
		return left < right
	case enums.RuleOperatorGte:
		return left >= right
	case enums.RuleOperatorLte:
		return left <= right
	default:
		return false
	}
}
