package currencies

import (
	"testing"

	"github.com/angelmondragon/merchantry-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/merchantry-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCurrency(code, rate string, isDefault, isActive bool) *models.Currency {
	return &models.Currency{
		Code:         code,
		Decimals:     2,
		IsDefault:    isDefault,
		IsActive:     isActive,
		ExchangeRate: decimal.RequireFromString(rate),
	}
}

func TestConvertViaDefaultCurrency(t *testing.T) {
	usd := testCurrency("USD", "1", true, true)
	eur := testCurrency("EUR", "0.9", false, true)
	gbp := testCurrency("GBP", "0.8", false, true)

	got, err := Convert(decimal.RequireFromString("100"), usd, eur)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("90")), "got %s", got)

	got, err = Convert(decimal.RequireFromString("90"), eur, usd)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("100")), "got %s", got)

	// Cross rate pivots through the default currency.
	got, err = Convert(decimal.RequireFromString("90"), eur, gbp)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("80")), "got %s", got)
}

func TestConvertSameCurrencyIsIdentity(t *testing.T) {
	eur := testCurrency("EUR", "0.9", false, false)

	amount := decimal.RequireFromString("42.42")
	got, err := Convert(amount, eur, eur)
	require.NoError(t, err)
	assert.True(t, got.Equal(amount))
}

func TestConvertRoundTripPreservesAmount(t *testing.T) {
	usd := testCurrency("USD", "1", true, true)
	jpy := testCurrency("JPY", "147.3341", false, true)
	jpy.Decimals = 0

	amount := decimal.RequireFromString("1234.56")
	there, err := Convert(amount, usd, jpy)
	require.NoError(t, err)
	back, err := Convert(there, jpy, usd)
	require.NoError(t, err)

	diff := back.Sub(amount).Abs()
	assert.True(t, diff.LessThan(decimal.RequireFromString("0.000001")), "round trip drifted by %s", diff)
}

func TestConvertZeroRateFailsClosed(t *testing.T) {
	usd := testCurrency("USD", "1", true, true)
	bad := testCurrency("XXX", "0", false, true)

	_, err := Convert(decimal.RequireFromString("10"), bad, usd)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConfiguration))
}

func TestConvertInactiveCurrencyFails(t *testing.T) {
	usd := testCurrency("USD", "1", true, true)
	off := testCurrency("EUR", "0.9", false, false)

	_, err := Convert(decimal.RequireFromString("10"), usd, off)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConfiguration))

	_, err = Convert(decimal.RequireFromString("10"), off, usd)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConfiguration))
}

func TestConvertNilCurrency(t *testing.T) {
	usd := testCurrency("USD", "1", true, true)

	_, err := Convert(decimal.RequireFromString("10"), nil, usd)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}
