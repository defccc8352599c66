package cbor

import "math/bits"

// Int128 is a fixed-width signed 128-bit integer, the representation
// chosen for Value's Integer variant (spec §3.3). CBOR's major types 0/1
// plus the tag-2/tag-3 bignum escape cover exactly the i128 range when
// bignums are capped at 16 significant bytes; a fixed two-word struct
// avoids the unbounded allocation math/big.Int would force on every
// decoded integer.
type Int128 struct {
	// hi/lo hold the absolute value split as the high and low 64 bits of
	// an unsigned 128-bit value; neg marks the sign.
	hi, lo uint64
	neg    bool
}

// Int128FromInt64 constructs an Int128 from a native int64.
func Int128FromInt64(v int64) Int128 {
	if v >= 0 {
		return Int128{lo: uint64(v)}
	}
	return Int128{lo: uint64(-(v + 1)) + 1, neg: true}
}

// Int128FromUint64 constructs a non-negative Int128 from a native uint64.
func Int128FromUint64(v uint64) Int128 { return Int128{lo: v} }

// IsNegative reports whether the value is strictly less than zero.
func (i Int128) IsNegative() bool { return i.neg && (i.hi != 0 || i.lo != 0) }

// Int64 returns the value narrowed to int64, and whether it fit without
// truncation.
func (i Int128) Int64() (int64, bool) {
	if i.hi != 0 {
		return 0, false
	}
	if !i.neg {
		if i.lo > 1<<63-1 {
			return 0, false
		}
		return int64(i.lo), true
	}
	if i.lo > 1<<63 {
		return 0, false
	}
	return -int64(i.lo), true
}

// Uint64 returns the value narrowed to uint64, and whether it fit (i.e.
// is non-negative and within range).
func (i Int128) Uint64() (uint64, bool) {
	if i.neg && (i.hi != 0 || i.lo != 0) {
		return 0, false
	}
	if i.hi != 0 {
		return 0, false
	}
	return i.lo, true
}

// magnitudeFromBytes builds the unsigned hi/lo pair from a big-endian byte
// slice (spec §4.9 bignum fusion). Leading zero bytes are skipped; ok is
// false if more than 16 bytes remain.
func magnitudeFromBytes(buf []byte) (hi, lo uint64, ok bool) {
	for len(buf) > 0 && buf[0] == 0 {
		buf = buf[1:]
	}
	if len(buf) > 16 {
		return 0, 0, false
	}
	var wide [16]byte
	copy(wide[16-len(buf):], buf)
	hi = beUint64(wide[0:8])
	lo = beUint64(wide[8:16])
	return hi, lo, true
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

// PositiveBignum constructs an Int128 from Tag(2)'s big-endian magnitude
// bytes (spec §3.3, §4.9). ok is false if the magnitude needs more than
// 128 bits.
func PositiveBignum(buf []byte) (Int128, bool) {
	hi, lo, ok := magnitudeFromBytes(buf)
	if !ok {
		return Int128{}, false
	}
	return Int128{hi: hi, lo: lo}, true
}

// NegativeBignum constructs an Int128 from Tag(3)'s big-endian magnitude
// bytes, where the represented value is -1-magnitude (spec §3.3, §4.9). ok
// is false if magnitude+1 needs more than 128 bits.
func NegativeBignum(buf []byte) (Int128, bool) {
	hi, lo, ok := magnitudeFromBytes(buf)
	if !ok {
		return Int128{}, false
	}
	// Represented value is -1-magnitude; store as (magnitude+1, negative),
	// i.e. the "magnitude" we keep internally is magnitude+1 so that
	// negating it directly gives the represented value.
	lo2, carry := bits.Add64(lo, 1, 0)
	hi2, carry := bits.Add64(hi, 0, carry)
	if carry != 0 {
		return Int128{}, false
	}
	return Int128{hi: hi2, lo: lo2, neg: true}, true
}

// Bytes returns the minimal big-endian bignum payload for the value (spec
// §4.9): the absolute value for a non-negative Int128, and |i|-1 (the
// Tag(3) magnitude) for a negative one.
func (i Int128) Bytes() []byte {
	hi, lo := i.hi, i.lo
	if i.neg {
		lo, borrow := bits.Sub64(lo, 1, 0)
		hi, _ = bits.Sub64(hi, 0, borrow)
		i = Int128{hi: hi, lo: lo}
	}
	var wide [16]byte
	for n := 0; n < 8; n++ {
		wide[7-n] = byte(i.hi >> (8 * n))
		wide[15-n] = byte(i.lo >> (8 * n))
	}
	start := 0
	for start < 16 && wide[start] == 0 {
		start++
	}
	if start == 16 {
		return []byte{0}
	}
	return wide[start:]
}

// String renders the value in base 10, mainly for diagnostics.
func (i Int128) String() string {
	if v, ok := i.Int64(); ok {
		return itoa64(v)
	}
	return bigDecString(i)
}

func itoa64(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	u := uint64(v)
	if neg {
		u = uint64(-v)
	}
	var buf [20]byte
	pos := len(buf)
	for u > 0 {
		pos--
		buf[pos] = byte('0' + u%10)
		u /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// bigDecString renders a full 128-bit value via repeated division, used
// only for values outside int64 range.
func bigDecString(i Int128) string {
	hi, lo := i.hi, i.lo
	if hi == 0 && lo == 0 {
		return "0"
	}
	var digits []byte
	for hi != 0 || lo != 0 {
		var rem uint64
		hi, rem = divmod64(hi, 10)
		lo, rem = divmod64WithCarry(lo, 10, rem)
		digits = append(digits, byte('0'+rem))
	}
	for l, r := 0, len(digits)-1; l < r; l, r = l+1, r-1 {
		digits[l], digits[r] = digits[r], digits[l]
	}
	if i.neg {
		return "-" + string(digits)
	}
	return string(digits)
}

func divmod64(x, d uint64) (q, r uint64) { return x / d, x % d }

func divmod64WithCarry(x, d, carryRem uint64) (q, r uint64) {
	hi, lo := bits.Div64(carryRem, x, d)
	return hi, lo
}
