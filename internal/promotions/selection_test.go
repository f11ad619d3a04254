package promotions

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(name string, priority int, exclusive bool, discount string) Candidate {
	promotion := eligiblePromotion()
	promotion.Name = name
	promotion.Priority = priority
	promotion.Exclusive = exclusive
	return Candidate{Promotion: promotion, Discount: decimal.RequireFromString(discount)}
}

func TestSelectCombinableNoExclusives(t *testing.T) {
	eligible := []Candidate{
		candidate("a", 1, false, "5"),
		candidate("b", 2, false, "10"),
	}

	selected := SelectCombinable(eligible)
	assert.Len(t, selected, 2)
}

func TestSelectCombinableExclusiveWinsByPriority(t *testing.T) {
	eligible := []Candidate{
		candidate("combinable", 9, false, "50"),
		candidate("low", 1, true, "5"),
		candidate("high", 7, true, "3"),
	}

	selected := SelectCombinable(eligible)
	require.Len(t, selected, 1)
	assert.Equal(t, "high", selected[0].Promotion.Name)
}

func TestSelectCombinablePriorityTieBreaksOnDiscount(t *testing.T) {
	eligible := []Candidate{
		candidate("small", 5, true, "3"),
		candidate("large", 5, true, "8"),
	}

	selected := SelectCombinable(eligible)
	require.Len(t, selected, 1)
	assert.Equal(t, "large", selected[0].Promotion.Name)
}

func TestSelectCombinableEmpty(t *testing.T) {
	assert.Empty(t, SelectCombinable(nil))
}
