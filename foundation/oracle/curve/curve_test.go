package curve_test

import (
	"errors"
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/lockedfyi/oracle/foundation/fixedpoint"
	"github.com/lockedfyi/oracle/foundation/oracle/curve"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// tolerance is 1e-14 tokens expressed in 18 decimal units.
const tolerance = 10_000

// =============================================================================

func Test_ReferencePrices(t *testing.T) {
	type table struct {
		name   string
		supply uint64
		tokens uint64
		exact  string
	}

	tt := []table{
		{name: "10th", supply: 9, tokens: 1, exact: "1000000000000000104"},
		{name: "100th", supply: 99, tokens: 2, exact: "2000000000000000209"},
		{name: "1000th", supply: 999, tokens: 3, exact: "3000000000000000314"},
		{name: "millionth", supply: 999_999, tokens: 6, exact: "6000000000000000628"},
		{name: "billionth", supply: 999_999_999, tokens: 9, exact: "9000000000000000942"},
	}

	t.Log("Given the need to price keys at the reference points of the curve.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				price, err := curve.Price(tst.supply)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to price supply %d: %v", failed, testID, tst.supply, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to price supply %d.", success, testID, tst.supply)

				exp := new(uint256.Int).Mul(uint256.NewInt(tst.tokens), uint256.NewInt(1_000_000_000_000_000_000))

				var diff uint256.Int
				if price.Gt(exp) {
					diff.Sub(price, exp)
				} else {
					diff.Sub(exp, price)
				}

				if diff.GtUint64(tolerance) {
					t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, curve.ToDecimal(price))
					t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, tst.tokens)
					t.Fatalf("\t%s\tTest %d:\tShould be within 1e-14 of the expected price.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould be within 1e-14 of the expected price.", success, testID)

				if price.Dec() != tst.exact {
					t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, price.Dec())
					t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.exact)
					t.Fatalf("\t%s\tTest %d:\tShould be deterministic to the last unit.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould be deterministic to the last unit.", success, testID)

				// The floating point curve is only a cross check.
				ref := math.Log2(float64(tst.supply+1)) / 3.321928094887362
				if got := price.Float64() / 1e18; math.Abs(got-ref) > 1e-14 {
					t.Fatalf("\t%s\tTest %d:\tShould agree with the floating point curve: got[%v] exp[%v]", failed, testID, got, ref)
				}
				t.Logf("\t%s\tTest %d:\tShould agree with the floating point curve.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_FirstKey(t *testing.T) {
	t.Log("Given the need to price the very first key.")
	{
		price, err := curve.Price(0)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to price supply 0: %v", failed, err)
		}

		if !price.IsZero() {
			t.Fatalf("\t%s\tShould price the first key at zero: got[%s]", failed, price.Dec())
		}
		t.Logf("\t%s\tShould price the first key at zero.", success)

		price, err = curve.Price(1)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to price supply 1: %v", failed, err)
		}

		if price.Dec() != "301029995663981226" {
			t.Fatalf("\t%s\tShould price the second key at log10(2): got[%s]", failed, price.Dec())
		}
		t.Logf("\t%s\tShould price the second key at log10(2).", success)
	}
}

func Test_Monotonic(t *testing.T) {
	t.Log("Given the need for prices to never decrease as supply grows.")
	{
		prev, err := curve.Price(0)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to price supply 0: %v", failed, err)
		}

		check := func(supply uint64) {
			price, err := curve.Price(supply)
			if err != nil {
				t.Fatalf("\t%s\tShould be able to price supply %d: %v", failed, supply, err)
			}
			if price.Lt(prev) {
				t.Fatalf("\t%s\tShould not decrease at supply %d: got[%s] prev[%s]", failed, supply, price.Dec(), prev.Dec())
			}
			prev = price
		}

		for supply := uint64(1); supply <= 20_000; supply++ {
			check(supply)
		}

		for exp := 15; exp < 63; exp++ {
			base := uint64(1) << exp
			check(base - 2)
			check(base - 1)
			check(base)
		}
		t.Logf("\t%s\tShould never decrease.", success)
	}
}

func Test_Bounds(t *testing.T) {
	t.Log("Given the need to fail closed outside the supported supply.")
	{
		price, err := curve.Price(curve.MaxSupply)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to price the maximum supply: %v", failed, err)
		}
		if price.Dec() != "18964889726830817284" {
			t.Fatalf("\t%s\tShould get back the right price at the maximum supply: got[%s]", failed, price.Dec())
		}
		t.Logf("\t%s\tShould be able to price the maximum supply.", success)

		if _, err := curve.Price(curve.MaxSupply + 1); !errors.Is(err, fixedpoint.ErrOverflow) {
			t.Fatalf("\t%s\tShould reject supply past the maximum: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject supply past the maximum.", success)

		if _, err := curve.New(1, 0, 18); !errors.Is(err, fixedpoint.ErrDomain) {
			t.Fatalf("\t%s\tShould reject a zero denominator: %v", failed, err)
		}
		if _, err := curve.New(0, 1, 18); !errors.Is(err, fixedpoint.ErrDomain) {
			t.Fatalf("\t%s\tShould reject a zero modifier: %v", failed, err)
		}
		if _, err := curve.New(1, 1, 20); err == nil {
			t.Fatalf("\t%s\tShould reject more than 19 decimals.", failed)
		}
		t.Logf("\t%s\tShould reject an invalid curve configuration.", success)
	}
}

func Test_CustomCurve(t *testing.T) {
	t.Log("Given the need to build a curve with its own modifier.")
	{
		c, err := curve.New(1, 1, 0)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to build a plain log2 curve: %v", failed, err)
		}

		for _, tst := range []struct {
			supply uint64
			exp    string
		}{{7, "3"}, {1023, "10"}} {
			price, err := c.Price(tst.supply)
			if err != nil {
				t.Fatalf("\t%s\tShould be able to price supply %d: %v", failed, tst.supply, err)
			}
			if price.Dec() != tst.exp {
				t.Fatalf("\t%s\tShould price supply %d at %s: got[%s]", failed, tst.supply, tst.exp, price.Dec())
			}
		}
		t.Logf("\t%s\tShould price a plain log2 curve.", success)
	}
}

func Test_ToDecimal(t *testing.T) {
	t.Log("Given the need to render prices in tokens.")
	{
		tt := map[string]*uint256.Int{
			"0.000000000000000000": uint256.NewInt(0),
			"0.000000000000000001": uint256.NewInt(1),
			"1.000000000000000104": uint256.MustFromDecimal("1000000000000000104"),
			"18.964889726830817284": uint256.MustFromDecimal("18964889726830817284"),
		}

		for exp, price := range tt {
			if got := curve.ToDecimal(price); got != exp {
				t.Fatalf("\t%s\tShould render %s: got[%s]", failed, exp, got)
			}
		}
		t.Logf("\t%s\tShould render prices with 18 decimals.", success)
	}
}
