package currencies

import (
	"strings"

	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	"github.com/angelmondragon/merchantry-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Format renders amount per the currency's display settings: rounded half away
// from zero to the currency's decimal places, grouped with the thousands
// separator, symbol placed before or after the digits.
func Format(amount decimal.Decimal, currency *models.Currency) string {
	if currency == nil {
		return amount.String()
	}

	rounded := amount.Round(int32(currency.Decimals))
	negative := rounded.IsNegative()
	fixed := rounded.Abs().StringFixed(int32(currency.Decimals))

	intPart := fixed
	fracPart := ""
	if idx := strings.IndexByte(fixed, '.'); idx >= 0 {
		intPart, fracPart = fixed[:idx], fixed[idx+1:]
	}

	var b strings.Builder
	b.WriteString(groupThousands(intPart, currency.ThousandsSeparator))
	if fracPart != "" {
		b.WriteString(currency.DecimalSeparator)
		b.WriteString(fracPart)
	}

	digits := b.String()
	out := currency.Symbol + digits
	if currency.Position == enums.SymbolPositionAfter {
		out = digits + currency.Symbol
	}
	if negative {
		out = "-" + out
	}
	return out
}

func groupThousands(digits, separator string) string {
	if separator == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(separator)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
