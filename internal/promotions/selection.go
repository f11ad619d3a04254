package promotions

import (
	"sort"

	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// Candidate pairs an eligible promotion with its resolved discount.
type Candidate struct {
	Promotion *models.Promotion
	Discount  decimal.Decimal
}

// SelectCombinable enforces mutual exclusivity across the eligible set. All
// non-exclusive promotions combine freely. If any exclusive promotion is
// eligible, exactly one is picked, the one with the highest priority value;
// priority ties break toward the larger discount so the pick stays
// deterministic. The exclusive pick replaces the combinable set entirely.
func SelectCombinable(eligible []Candidate) []Candidate {
	var exclusive []Candidate
	var combinable []Candidate
	for _, candidate := range eligible {
		if candidate.Promotion.Exclusive {
			exclusive = append(exclusive, candidate)
		} else {
			combinable = append(combinable, candidate)
		}
	}
	if len(exclusive) == 0 {
		return combinable
	}

	sort.SliceStable(exclusive, func(i, j int) bool {
		if exclusive[i].Promotion.Priority != exclusive[j].Promotion.Priority {
			return exclusive[i].Promotion.Priority > exclusive[j].Promotion.Priority
		}
		return exclusive[i].Discount.GreaterThan(exclusive[j].Discount)
	})
	return exclusive[:1]
}
