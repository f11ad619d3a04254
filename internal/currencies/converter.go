package currencies

import (
	"fmt"

	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/merchantry-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Convert translates amount from one currency to another by pivoting through
// the default currency. Same-currency conversion is the identity and succeeds
// regardless of the currency's active flag. No rounding happens here; callers
// round when formatting or when a discount is finalized.
func Convert(amount decimal.Decimal, from, to *models.Currency) (decimal.Decimal, error) {
	if from == nil || to == nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "both currencies are required for conversion")
	}
	if from.Code == to.Code {
		return amount, nil
	}
	if !from.IsActive {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeConfiguration, fmt.Sprintf("currency %s is inactive", from.Code))
	}
	if !to.IsActive {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeConfiguration, fmt.Sprintf("currency %s is inactive", to.Code))
	}

	baseAmount := amount
	if !from.IsDefault {
		if from.ExchangeRate.IsZero() {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeConfiguration, fmt.Sprintf("currency %s has a zero exchange rate", from.Code))
		}
		baseAmount = amount.Div(from.ExchangeRate)
	}

	if to.IsDefault {
		return baseAmount, nil
	}
	return baseAmount.Mul(to.ExchangeRate), nil
}
