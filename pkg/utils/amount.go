package utils

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// TokenDecimals is the number of decimals of the native faucet asset
const TokenDecimals = 18

// ParseAmount converts a decimal token amount ("500", "0.02") to base units
func ParseAmount(amount string) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if !d.IsPositive() {
		return nil, fmt.Errorf("amount must be positive, got %s", amount)
	}

	units := d.Shift(TokenDecimals)
	if !units.Equal(units.Truncate(0)) {
		return nil, fmt.Errorf("amount %s has more than %d decimals", amount, TokenDecimals)
	}
	return units.BigInt(), nil
}

// FormatAmount renders base units as a token amount with the given number of decimal places
func FormatAmount(units *big.Int, places int32) string {
	if units == nil {
		return "0"
	}
	return decimal.NewFromBigInt(units, -TokenDecimals).StringFixed(places)
}
