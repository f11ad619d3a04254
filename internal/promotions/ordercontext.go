package promotions

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLine is one cart line inside an evaluation context.
type OrderLine struct {
	ProductID  string          `json:"productId"`
	CategoryID string          `json:"categoryId"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	LineTotal  decimal.Decimal `json:"lineTotal"`
}

// OrderContext is the read-only snapshot of an order that promotions are
// evaluated against. Evaluation never mutates it.
type OrderContext struct {
	OrderID         uuid.UUID       `json:"orderId"`
	CustomerID      *uuid.UUID      `json:"customerId,omitempty"`
	SessionID       *string         `json:"sessionId,omitempty"`
	CustomerGroupID *string         `json:"customerGroupId,omitempty"`
	MerchantID      *uuid.UUID      `json:"merchantId,omitempty"`
	Total           decimal.Decimal `json:"total"`
	ShippingTotal   decimal.Decimal `json:"shippingTotal"`
	Lines           []OrderLine     `json:"lines"`
}

// TotalQuantity sums the quantities across every line.
func (o *OrderContext) TotalQuantity() int {
	total := 0
	for i := range o.Lines {
		total += o.Lines[i].Quantity
	}
	return total
}

// QuantityOf returns the summed quantity of lines carrying productID.
func (o *OrderContext) QuantityOf(productID string) int {
	total := 0
	for i := range o.Lines {
		if o.Lines[i].ProductID == productID {
			total += o.Lines[i].Quantity
		}
	}
	return total
}

// HasCategory reports whether any line belongs to categoryID.
func (o *OrderContext) HasCategory(categoryID string) bool {
	for i := range o.Lines {
		if o.Lines[i].CategoryID == categoryID {
			return true
		}
	}
	return false
}

// CategoryTotal sums the line totals of lines in any of the given categories.
func (o *OrderContext) CategoryTotal(categoryIDs []string) decimal.Decimal {
	total := decimal.Zero
	for i := range o.Lines {
		for _, id := range categoryIDs {
			if o.Lines[i].CategoryID == id {
				total = total.Add(o.Lines[i].LineTotal)
				break
			}
		}
	}
	return total
}

// ItemTotal sums the line totals of lines for any of the given products.
func (o *OrderContext) ItemTotal(productIDs []string) decimal.Decimal {
	total := decimal.Zero
	for i := range o.Lines {
		for _, id := range productIDs {
			if o.Lines[i].ProductID == id {
				total = total.Add(o.Lines[i].LineTotal)
				break
			}
		}
	}
	return total
}

// CheapestItemPrice returns the lowest unit price among lines for any of the
// given products, or among all lines when productIDs is empty. The bool is
// false when no line matches.
func (o *OrderContext) CheapestItemPrice(productIDs []string) (decimal.Decimal, bool) {
	found := false
	cheapest := decimal.Zero
	for i := range o.Lines {
		if len(productIDs) > 0 && !containsString(productIDs, o.Lines[i].ProductID) {
			continue
		}
		if !found || o.Lines[i].UnitPrice.LessThan(cheapest) {
			cheapest = o.Lines[i].UnitPrice
			found = true
		}
	}
	return cheapest, found
}

func containsString(haystack []string, needle string) bool {
	for _, candidate := range haystack {
		if candidate == needle {
			return true
		}
	}
	return false
}
