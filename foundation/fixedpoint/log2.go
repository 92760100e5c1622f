package fixedpoint

import "github.com/holiman/uint256"

// msbStep is one probe of the binary search for the highest set bit.
type msbStep struct {
	shift uint
	limit uint256.Int
}

// msbSteps holds the power of two thresholds 2^64, 2^32 ... 2^1.
var msbSteps = func() [7]msbStep {
	var steps [7]msbStep
	for i, shift := range [...]uint{64, 32, 16, 8, 4, 2, 1} {
		steps[i].shift = shift
		steps[i].limit.Lsh(uint256.NewInt(1), shift)
	}
	return steps
}()

// Log2 returns the base 2 logarithm of x. The integer part is the position
// of the highest set bit and the 64 fractional bits are extracted one at a
// time by repeated squaring, so the result is exact at powers of two and
// within 2^-64 of the true value everywhere else.
func Log2(x Fixed) (Fixed, error) {
	if x.Sign() <= 0 {
		return Fixed{}, ErrDomain
	}

	// Find the highest set bit of the raw 128-bit value.
	var msb uint
	xc := x.v
	for i := range msbSteps {
		if !xc.Lt(&msbSteps[i].limit) {
			xc.Rsh(&xc, msbSteps[i].shift)
			msb += msbSteps[i].shift
		}
	}

	// The integer part of the logarithm. The raw value carries 64
	// fractional bits so the exponent is offset by 64.
	result := FromInt(int64(msb) - fracBits)

	// Normalize so the leading bit sits at bit 127. Squaring then leaves
	// the next fractional bit of the logarithm in bit 255.
	var ux uint256.Int
	ux.Lsh(&x.v, 127-msb)

	var frac uint64
	for bit := uint64(1) << 63; bit > 0; bit >>= 1 {
		ux.Mul(&ux, &ux)
		b := ux[3] >> 63
		ux.Rsh(&ux, uint(127+b))
		if b == 1 {
			frac |= bit
		}
	}

	result.v.AddUint64(&result.v, frac)

	return result, nil
}

// Log2Uint returns the base 2 logarithm of the unsigned integer n. A zero
// value is outside the domain.
func Log2Uint(n uint64) (Fixed, error) {
	if n == 0 {
		return Fixed{}, ErrDomain
	}

	x, err := FromUint(n)
	if err != nil {
		return Fixed{}, err
	}

	return Log2(x)
}
