package pricerules

import (
	"sort"
	"time"

	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	"github.com/angelmondragon/merchantry-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Applicable reports whether the rule matches the evaluation context at now.
// Region-less rules match every region; unset bounds and dates are unbounded.
func Applicable(rule *models.CurrencyPriceRule, currencyCode, region string, convertedAmount decimal.Decimal, now time.Time) bool {
	if !rule.IsActive {
		return false
	}
	if rule.CurrencyCode != currencyCode {
		return false
	}
	if rule.RegionCode != nil && *rule.RegionCode != region {
		return false
	}
	if rule.StartDate != nil && now.Before(*rule.StartDate) {
		return false
	}
	if rule.EndDate != nil && now.After(*rule.EndDate) {
		return false
	}
	if rule.MinOrderValue != nil && convertedAmount.LessThan(*rule.MinOrderValue) {
		return false
	}
	if rule.MaxOrderValue != nil && convertedAmount.GreaterThan(*rule.MaxOrderValue) {
		return false
	}
	return true
}

// Apply filters candidateRules against the context, sorts the survivors by
// ascending priority and folds them over convertedAmount:
//
//	fixed:      finalAmount += value
//	percentage: finalAmount *= 1 + value/100
//	exchange:   finalAmount = baseAmount * value
//
// An exchange rule restarts the fold from baseAmount, discarding every earlier
// step. That is intentional but order-sensitive: an exchange rule with the
// highest priority value wins outright. The result is rounded half away from
// zero to the currency's decimal places.
func Apply(baseAmount, convertedAmount decimal.Decimal, currency *models.Currency, region string, candidateRules []models.CurrencyPriceRule, now time.Time) decimal.Decimal {
	matched := make([]models.CurrencyPriceRule, 0, len(candidateRules))
	for i := range candidateRules {
		if Applicable(&candidateRules[i], currency.Code, region, convertedAmount, now) {
			matched = append(matched, candidateRules[i])
		}
	}
	if len(matched) == 0 {
		return convertedAmount
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Priority < matched[j].Priority
	})

	finalAmount := convertedAmount
	for i := range matched {
		switch matched[i].Type {
		case enums.PriceRuleTypeFixed:
			finalAmount = finalAmount.Add(matched[i].Value)
		case enums.PriceRuleTypePercentage:
			finalAmount = finalAmount.Mul(decimal.NewFromInt(1).Add(matched[i].Value.Div(hundred)))
		case enums.PriceRuleTypeExchange:
			finalAmount = baseAmount.Mul(matched[i].Value)
		}
	}
	return finalAmount.Round(int32(currency.Decimals))
}
