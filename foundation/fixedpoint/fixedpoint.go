// Package fixedpoint implements signed 64.64 fixed-point arithmetic using
// 256-bit integers for every intermediate value. No floating point is used
// by any operation that produces a Fixed value.
package fixedpoint

import (
	"errors"
	"math"
	"strconv"

	"github.com/holiman/uint256"
)

// Set of error variables for fixed-point operations.
var (
	ErrDomain   = errors.New("value outside the domain of the operation")
	ErrOverflow = errors.New("fixed-point value out of range")
)

// MaxUint is the largest unsigned integer that can be converted into a
// 64.64 value.
const MaxUint = math.MaxInt64

// fracBits is the number of fractional bits in a 64.64 value.
const fracBits = 64

var (
	maxInt128 = new(uint256.Int).SubUint64(new(uint256.Int).Lsh(uint256.NewInt(1), 127), 1)
	minInt128 = new(uint256.Int).Lsh(uint256.NewInt(1), 127) // magnitude of the most negative value
)

// =============================================================================

// Fixed represents a signed 64.64 fixed-point number. The value is stored
// in two's complement and is always inside the signed 128-bit range.
type Fixed struct {
	v uint256.Int
}

// Zero is the fixed-point zero value.
var Zero = Fixed{}

// One is the fixed-point value 1.0.
var One = Fixed{v: uint256.Int{0, 1, 0, 0}}

// FromUint converts an unsigned integer into a 64.64 value.
func FromUint(n uint64) (Fixed, error) {
	if n > MaxUint {
		return Fixed{}, ErrOverflow
	}

	var f Fixed
	f.v.SetUint64(n)
	f.v.Lsh(&f.v, fracBits)

	return f, nil
}

// FromInt converts a signed integer into a 64.64 value. Every int64 fits.
func FromInt(n int64) Fixed {
	var f Fixed
	if n < 0 {
		f.v.SetUint64(uint64(-(n + 1)) + 1)
		f.v.Lsh(&f.v, fracBits)
		f.v.Neg(&f.v)
		return f
	}

	f.v.SetUint64(uint64(n))
	f.v.Lsh(&f.v, fracBits)
	return f
}

// DivU returns x / y as a 64.64 value, rounding toward zero.
func DivU(x uint64, y uint64) (Fixed, error) {
	if y == 0 {
		return Fixed{}, ErrDomain
	}

	var f Fixed
	f.v.SetUint64(x)
	f.v.Lsh(&f.v, fracBits)
	f.v.Div(&f.v, uint256.NewInt(y))

	if f.v.Gt(maxInt128) {
		return Fixed{}, ErrOverflow
	}

	return f, nil
}

// Div returns x / y, rounding toward zero.
func Div(x Fixed, y Fixed) (Fixed, error) {
	if y.v.IsZero() {
		return Fixed{}, ErrDomain
	}

	var ax, ay uint256.Int
	ax.Abs(&x.v)
	ay.Abs(&y.v)

	// |x| < 2^128 so the shifted numerator stays below 2^192.
	var q uint256.Int
	q.Lsh(&ax, fracBits)
	q.Div(&q, &ay)

	return signed(q, x.Sign()*y.Sign() < 0)
}

// MulU returns x * y as an unsigned integer, rounding down. The product is
// formed in full before the 64 fractional bits are dropped. A negative x is
// outside the domain.
func MulU(x Fixed, y uint64) (uint256.Int, error) {
	if x.Sign() < 0 {
		return uint256.Int{}, ErrDomain
	}

	var p uint256.Int
	if _, overflow := p.MulOverflow(&x.v, uint256.NewInt(y)); overflow {
		return uint256.Int{}, ErrOverflow
	}
	p.Rsh(&p, fracBits)

	return p, nil
}

// Add returns x + y.
func Add(x Fixed, y Fixed) (Fixed, error) {
	var f Fixed
	f.v.Add(&x.v, &y.v)
	if !inRange(&f.v) {
		return Fixed{}, ErrOverflow
	}
	return f, nil
}

// Sub returns x - y.
func Sub(x Fixed, y Fixed) (Fixed, error) {
	var f Fixed
	f.v.Sub(&x.v, &y.v)
	if !inRange(&f.v) {
		return Fixed{}, ErrOverflow
	}
	return f, nil
}

// =============================================================================

// Sign returns -1, 0 or +1 depending on the sign of f.
func (f Fixed) Sign() int {
	return f.v.Sign()
}

// Cmp compares f and g as signed values and returns -1, 0 or +1.
func (f Fixed) Cmp(g Fixed) int {
	switch {
	case f.v.Slt(&g.v):
		return -1
	case f.v.Sgt(&g.v):
		return 1
	}
	return 0
}

// Equal reports whether f and g hold the same value.
func (f Fixed) Equal(g Fixed) bool {
	return f.v.Eq(&g.v)
}

// IsInteger reports whether the fractional part of f is zero.
func (f Fixed) IsInteger() bool {
	return f.v[0] == 0
}

// IntPart returns the integer part of f, rounded toward negative infinity.
func (f Fixed) IntPart() int64 {
	return int64(f.v[1])
}

// FracBits returns the 64 fractional bits of f.
func (f Fixed) FracBits() uint64 {
	return f.v[0]
}

// Raw returns the two's complement 256-bit representation of f.
func (f Fixed) Raw() uint256.Int {
	return f.v
}

// Float64 returns the nearest float64 to f. It is meant for diagnostics;
// nothing in this package relies on it.
func (f Fixed) Float64() float64 {
	var a uint256.Int
	a.Abs(&f.v)

	v := a.Float64() / (1 << fracBits)
	if f.Sign() < 0 {
		return -v
	}
	return v
}

// String implements the fmt.Stringer interface.
func (f Fixed) String() string {
	return strconv.FormatFloat(f.Float64(), 'f', -1, 64)
}

// =============================================================================

// signed applies the sign to the magnitude and checks the result still
// fits in the signed 128-bit range.
func signed(mag uint256.Int, negative bool) (Fixed, error) {
	if negative {
		if mag.Gt(minInt128) {
			return Fixed{}, ErrOverflow
		}
		var f Fixed
		f.v.Neg(&mag)
		return f, nil
	}

	if mag.Gt(maxInt128) {
		return Fixed{}, ErrOverflow
	}
	return Fixed{v: mag}, nil
}

// inRange reports whether the two's complement value fits in 128 bits.
func inRange(v *uint256.Int) bool {
	if v.Sign() >= 0 {
		return !v.Gt(maxInt128)
	}

	var a uint256.Int
	a.Neg(v)
	return !a.Gt(minInt128)
}
