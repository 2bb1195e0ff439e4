package fixedmath

import (
	"errors"
	"math/bits"
)

// ErrOverflow is returned whenever a result does not fit in uint64.
// Callers must treat it as fatal for the current computation; values are
// never silently wrapped.
var ErrOverflow = errors.New("arithmetic overflow")

// CheckedMul returns a*b or ErrOverflow.
func CheckedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}

// CheckedAdd returns a+b or ErrOverflow.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

// MulDiv computes a*b/d with a full 128-bit intermediate product,
// truncating toward zero. Returns ErrOverflow if d == 0 or the quotient
// does not fit in uint64.
func MulDiv(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, ErrOverflow
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= d {
		// Div64 panics when the quotient overflows; reject up front.
		return 0, ErrOverflow
	}
	q, _ := bits.Div64(hi, lo, d)
	return q, nil
}

// Pow10 returns 10^exp or ErrOverflow. The largest representable power
// is 10^19.
func Pow10(exp uint8) (uint64, error) {
	out := uint64(1)
	for i := uint8(0); i < exp; i++ {
		v, err := CheckedMul(out, 10)
		if err != nil {
			return 0, err
		}
		out = v
	}
	return out, nil
}

// Sqrt returns the integer square root of y (largest z with z*z <= y),
// using the Babylonian method.
func Sqrt(y uint64) uint64 {
	if y > 3 {
		z := y
		x := y/2 + 1
		for x < z {
			z = x
			x = (y/x + x) / 2
		}
		return z
	} else if y != 0 {
		return 1
	}
	return 0
}
