package pricerules

import (
	"testing"
	"time"

	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	"github.com/angelmondragon/merchantry-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func usd() *models.Currency {
	return &models.Currency{Code: "USD", Decimals: 2, IsDefault: true, IsActive: true, ExchangeRate: decimal.NewFromInt(1)}
}

func rule(ruleType enums.PriceRuleType, value string, priority int) models.CurrencyPriceRule {
	return models.CurrencyPriceRule{
		Type:         ruleType,
		Value:        decimal.RequireFromString(value),
		CurrencyCode: "USD",
		Priority:     priority,
		IsActive:     true,
	}
}

func TestApplyFoldsInPriorityOrder(t *testing.T) {
	rules := []models.CurrencyPriceRule{
		rule(enums.PriceRuleTypePercentage, "10", 2),
		rule(enums.PriceRuleTypeFixed, "5", 1),
	}

	got := Apply(decimal.NewFromInt(100), decimal.NewFromInt(100), usd(), "", rules, time.Now())

	// (100 + 5) * 1.10
	assert.True(t, got.Equal(decimal.RequireFromString("115.50")), "got %s", got)
}

func TestApplyExchangeOverridesPriorSteps(t *testing.T) {
	rules := []models.CurrencyPriceRule{
		rule(enums.PriceRuleTypeFixed, "50", 1),
		rule(enums.PriceRuleTypeExchange, "2", 2),
	}

	got := Apply(decimal.NewFromInt(10), decimal.NewFromInt(10), usd(), "", rules, time.Now())

	// 10 * 2, not (10 + 50) * 2.
	assert.True(t, got.Equal(decimal.NewFromInt(20)), "got %s", got)
}

func TestApplyExchangeFollowedByAdjustment(t *testing.T) {
	rules := []models.CurrencyPriceRule{
		rule(enums.PriceRuleTypeExchange, "2", 1),
		rule(enums.PriceRuleTypeFixed, "3", 2),
	}

	got := Apply(decimal.NewFromInt(10), decimal.NewFromInt(10), usd(), "", rules, time.Now())

	assert.True(t, got.Equal(decimal.NewFromInt(23)), "got %s", got)
}

func TestApplyNoMatchReturnsConvertedAmount(t *testing.T) {
	amount := decimal.RequireFromString("123.456")

	got := Apply(amount, amount, usd(), "", nil, time.Now())

	assert.True(t, got.Equal(amount))
}

func TestApplyRoundsResult(t *testing.T) {
	rules := []models.CurrencyPriceRule{
		rule(enums.PriceRuleTypePercentage, "3.333", 1),
	}

	got := Apply(decimal.NewFromInt(100), decimal.NewFromInt(100), usd(), "", rules, time.Now())

	assert.True(t, got.Equal(decimal.RequireFromString("103.33")), "got %s", got)
}

func TestApplicableFilters(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	amount := decimal.NewFromInt(100)

	base := rule(enums.PriceRuleTypeFixed, "5", 1)
	assert.True(t, Applicable(&base, "USD", "", amount, now))

	inactive := base
	inactive.IsActive = false
	assert.False(t, Applicable(&inactive, "USD", "", amount, now))

	otherCurrency := base
	otherCurrency.CurrencyCode = "EUR"
	assert.False(t, Applicable(&otherCurrency, "USD", "", amount, now))

	region := "CA"
	scoped := base
	scoped.RegionCode = &region
	assert.False(t, Applicable(&scoped, "USD", "", amount, now))
	assert.True(t, Applicable(&scoped, "USD", "CA", amount, now))

	future := now.Add(time.Hour)
	notYet := base
	notYet.StartDate = &future
	assert.False(t, Applicable(&notYet, "USD", "", amount, now))

	past := now.Add(-time.Hour)
	expired := base
	expired.EndDate = &past
	assert.False(t, Applicable(&expired, "USD", "", amount, now))

	minBound := decimal.NewFromInt(200)
	tooSmall := base
	tooSmall.MinOrderValue = &minBound
	assert.False(t, Applicable(&tooSmall, "USD", "", amount, now))

	maxBound := decimal.NewFromInt(50)
	tooLarge := base
	tooLarge.MaxOrderValue = &maxBound
	assert.False(t, Applicable(&tooLarge, "USD", "", amount, now))

	exactMin := base
	exactMin.MinOrderValue = &amount
	assert.True(t, Applicable(&exactMin, "USD", "", amount, now))
}
