// Package curve implements the logarithmic bonding curve used to price
// access keys. The price of the next key grows with the base 10 logarithm
// of the number of keys issued, so the 10th key costs 1 token, the 1000th
// costs 3 and so on.
package curve

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/lockedfyi/oracle/foundation/fixedpoint"
)

// The default curve modifier is log2(10) written as a rational number.
// Dividing log2 by it rescales the curve to a base 10 logarithm.
const (
	ModifierNumerator   = 3321928094887362
	ModifierDenominator = 1_000_000_000_000_000
)

// Decimals is the number of decimals used by the lock's token.
const Decimals = 18

// MaxSupply is the largest supply that can still be priced. The key being
// priced is supply + 1 and it has to fit the integer part of a 64.64 value.
const MaxSupply = fixedpoint.MaxUint - 1

// maxDecimals keeps 10^decimals inside a uint64.
const maxDecimals = 19

// Default is the curve configured with the default modifier and decimals.
var Default = func() Curve {
	c, err := New(ModifierNumerator, ModifierDenominator, Decimals)
	if err != nil {
		panic(err)
	}
	return c
}()

// =============================================================================

// Curve prices keys from the current supply.
type Curve struct {
	modifier fixedpoint.Fixed
	decimals uint
	unit     uint64
}

// New constructs a curve that divides log2 by numerator/denominator and
// returns prices in units with the specified number of decimals.
func New(numerator uint64, denominator uint64, decimals uint) (Curve, error) {
	if decimals > maxDecimals {
		return Curve{}, fmt.Errorf("decimals %d exceeds %d", decimals, maxDecimals)
	}

	modifier, err := fixedpoint.DivU(numerator, denominator)
	if err != nil {
		return Curve{}, fmt.Errorf("curve modifier %d/%d: %w", numerator, denominator, err)
	}

	if modifier.Sign() <= 0 {
		return Curve{}, fmt.Errorf("curve modifier %d/%d: %w", numerator, denominator, fixedpoint.ErrDomain)
	}

	unit := uint64(1)
	for i := uint(0); i < decimals; i++ {
		unit *= 10
	}

	c := Curve{
		modifier: modifier,
		decimals: decimals,
		unit:     unit,
	}

	return c, nil
}

// Price returns the price of the next key given the number of keys already
// issued. The key being bought is number supply + 1, so the first key
// (supply 0) is priced at log2(1) = 0.
func (c Curve) Price(supply uint64) (*uint256.Int, error) {
	if supply > MaxSupply {
		return nil, fmt.Errorf("supply %d: %w", supply, fixedpoint.ErrOverflow)
	}

	key, err := fixedpoint.FromUint(supply + 1)
	if err != nil {
		return nil, fmt.Errorf("key %d: %w", supply+1, err)
	}

	lg, err := fixedpoint.Log2(key)
	if err != nil {
		return nil, fmt.Errorf("log2 of key %d: %w", supply+1, err)
	}

	scaled, err := fixedpoint.Div(lg, c.modifier)
	if err != nil {
		return nil, fmt.Errorf("apply modifier: %w", err)
	}

	// Multiply into token units before the fractional bits are dropped.
	price, err := fixedpoint.MulU(scaled, c.unit)
	if err != nil {
		return nil, fmt.Errorf("scale to %d decimals: %w", c.decimals, err)
	}

	return &price, nil
}

// Modifier returns the 64.64 value log2 is divided by.
func (c Curve) Modifier() fixedpoint.Fixed {
	return c.modifier
}

// Decimals returns the number of decimals prices are expressed in.
func (c Curve) Decimals() uint {
	return c.decimals
}

// ToDecimal renders a price in token units as a decimal string.
func (c Curve) ToDecimal(price *uint256.Int) string {
	if price == nil {
		return "0"
	}

	var q, r uint256.Int
	q.DivMod(price, uint256.NewInt(c.unit), &r)

	if c.decimals == 0 {
		return q.Dec()
	}

	frac := r.Dec()
	if pad := int(c.decimals) - len(frac); pad > 0 {
		frac = strings.Repeat("0", pad) + frac
	}

	return q.Dec() + "." + frac
}

// =============================================================================

// Price prices the next key on the default curve.
func Price(supply uint64) (*uint256.Int, error) {
	return Default.Price(supply)
}

// ToDecimal renders a price using the default curve's decimals.
func ToDecimal(price *uint256.Int) string {
	return Default.ToDecimal(price)
}
