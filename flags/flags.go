// Package flags computes the Chip16 CPU's four condition flags from
// arithmetic, logical, shift and unary operations. It imports nothing
// beyond the standard library so it can be property-tested in isolation.
package flags

// Flags holds the four Chip16 condition bits.
type Flags struct {
	Carry    bool
	Zero     bool
	Overflow bool
	Negative bool
}

func signedResult(result uint16) (zero, negative bool) {
	return result == 0, int16(result) < 0
}

// Add computes the flags produced by a+b truncated to 16 bits.
func Add(a, b uint16) (uint16, Flags) {
	sum := uint32(a) + uint32(b)
	result := uint16(sum)
	zero, negative := signedResult(result)

	aSign := a & 0x8000
	bSign := b & 0x8000
	rSign := result & 0x8000

	return result, Flags{
		Carry:    sum > 0xFFFF,
		Overflow: aSign == bSign && aSign != rSign,
		Zero:     zero,
		Negative: negative,
	}
}

// Sub computes the flags produced by a-b truncated to 16 bits. Carry is
// set when the unsigned subtraction borrows, i.e. a < b; B tests carry
// and AE tests its complement, matching an unsigned a-below-b compare.
func Sub(a, b uint16) (uint16, Flags) {
	result := a - b
	zero, negative := signedResult(result)

	aSign := a & 0x8000
	bSign := b & 0x8000
	rSign := result & 0x8000

	return result, Flags{
		Carry:    a < b,
		Overflow: aSign != bSign && aSign != rSign,
		Zero:     zero,
		Negative: negative,
	}
}

// And computes the flags produced by a&b. Carry and overflow are cleared.
func And(a, b uint16) (uint16, Flags) {
	result := a & b
	zero, negative := signedResult(result)
	return result, Flags{Zero: zero, Negative: negative}
}

// Or computes the flags produced by a|b. Carry and overflow are cleared.
func Or(a, b uint16) (uint16, Flags) {
	result := a | b
	zero, negative := signedResult(result)
	return result, Flags{Zero: zero, Negative: negative}
}

// Xor computes the flags produced by a^b. Carry and overflow are cleared.
func Xor(a, b uint16) (uint16, Flags) {
	result := a ^ b
	zero, negative := signedResult(result)
	return result, Flags{Zero: zero, Negative: negative}
}

// Mul computes the flags produced by a*b truncated to 16 bits. Overflow
// is left clear; it is undefined for multiplication per the instruction
// set semantics.
func Mul(a, b uint16) (uint16, Flags) {
	product := uint32(a) * uint32(b)
	result := uint16(product)
	zero, negative := signedResult(result)
	return result, Flags{Carry: product > 0xFFFF, Zero: zero, Negative: negative}
}

// Div computes the truncated unsigned quotient a/b. Carry is set when the
// division leaves a non-zero remainder. The caller must check b != 0
// before calling; division by zero is a fatal CPU error, not a flag.
func Div(a, b uint16) (uint16, Flags) {
	quotient := a / b
	remainder := a % b
	zero, negative := signedResult(quotient)
	return quotient, Flags{Carry: remainder != 0, Zero: zero, Negative: negative}
}

// Mod computes the mathematical modulo of a by b as signed 16-bit values:
// a non-zero result takes the sign of the divisor rather than the
// dividend, so it is never negative for a positive divisor. The caller
// must check b != 0.
func Mod(a, b uint16) (uint16, Flags) {
	sa, sb := int16(a), int16(b)
	m := sa % sb
	if m != 0 && (m < 0) != (sb < 0) {
		m += sb
	}
	result := uint16(m)
	zero, negative := signedResult(result)
	return result, Flags{Zero: zero, Negative: negative}
}

// Rem computes the truncated remainder of a by b, taking the sign of the
// dividend (Go's native % operator on signed ints). The caller must check
// b != 0.
func Rem(a, b uint16) (uint16, Flags) {
	sa, sb := int16(a), int16(b)
	result := uint16(sa % sb)
	zero, negative := signedResult(result)
	return result, Flags{Zero: zero, Negative: negative}
}

// Shl computes a left-shifted by n mod 16 bits.
func Shl(a uint16, n uint) (uint16, Flags) {
	result := a << (n % 16)
	zero, negative := signedResult(result)
	return result, Flags{Zero: zero, Negative: negative}
}

// Shr computes a logically right-shifted by n mod 16 bits.
func Shr(a uint16, n uint) (uint16, Flags) {
	result := a >> (n % 16)
	zero, negative := signedResult(result)
	return result, Flags{Zero: zero, Negative: negative}
}

// Sar computes a arithmetically (sign-extending) right-shifted by n mod
// 16 bits.
func Sar(a uint16, n uint) (uint16, Flags) {
	result := uint16(int16(a) >> (n % 16))
	zero, negative := signedResult(result)
	return result, Flags{Zero: zero, Negative: negative}
}

// Not computes the one's complement of a.
func Not(a uint16) (uint16, Flags) {
	result := ^a
	zero, negative := signedResult(result)
	return result, Flags{Zero: zero, Negative: negative}
}

// Neg computes the two's complement negation of a.
func Neg(a uint16) (uint16, Flags) {
	result := -a
	zero, negative := signedResult(result)
	return result, Flags{Zero: zero, Negative: negative}
}

// Flag bit positions for PUSHF/POPF packing.
const (
	bitCarry    = 1
	bitZero     = 2
	bitOverflow = 6
	bitNegative = 7
)

// Pack encodes the flags into the single byte PUSHF pushes onto the
// stack: bit 1 = carry, bit 2 = zero, bit 6 = overflow, bit 7 = negative,
// all other bits zero.
func Pack(f Flags) byte {
	var b byte
	if f.Carry {
		b |= 1 << bitCarry
	}
	if f.Zero {
		b |= 1 << bitZero
	}
	if f.Overflow {
		b |= 1 << bitOverflow
	}
	if f.Negative {
		b |= 1 << bitNegative
	}
	return b
}

// Unpack decodes a byte popped by POPF into Flags, ignoring every bit but
// the four assigned positions.
func Unpack(b byte) Flags {
	return Flags{
		Carry:    b&(1<<bitCarry) != 0,
		Zero:     b&(1<<bitZero) != 0,
		Overflow: b&(1<<bitOverflow) != 0,
		Negative: b&(1<<bitNegative) != 0,
	}
}
