package cbor

import (
	"math"

	"github.com/x448/float16"
)

// decodeFloat16 widens a half-precision bit pattern to float64, preserving
// NaN payloads and infinities exactly (spec §3.2).
func decodeFloat16(bits uint16) float64 {
	return float64(float16.Frombits(bits).Float32())
}

// decodeFloat32 widens a single-precision bit pattern to float64.
func decodeFloat32(bits uint32) float64 {
	return float64(math.Float32frombits(bits))
}

// decodeFloat64 reinterprets a double-precision bit pattern as float64.
func decodeFloat64(bits uint64) float64 {
	return math.Float64frombits(bits)
}

// floatMinor picks the Minor encoding a float value should use on the
// wire. bits is the caller's requested width (2, 4, or 8); callers that
// built the Header via HeaderFloat with a specific width get it as-is,
// since narrowing decisions (spec §4.3) are made by the caller before
// constructing the Header, not here. This function packs v at the chosen
// width; at width 2 every NaN is packed as 0x7e00, whatever its payload.
func floatMinor(v float64, bits int) Minor {
	switch bits {
	case 2:
		if math.IsNaN(v) {
			return Minor{kind: minorSub2, affix: 0x7e00}
		}
		h := float16.Fromfloat32(float32(v))
		return Minor{kind: minorSub2, affix: uint64(h.Bits())}
	case 4:
		return Minor{kind: minorSub4, affix: uint64(math.Float32bits(float32(v)))}
	default:
		return Minor{kind: minorSub8, affix: math.Float64bits(v)}
	}
}

// NarrowFloat chooses the narrowest of {16, 32, 64}-bit IEEE 754 encodings
// that round-trips v bit-for-bit, per the canonical float-narrowing rule
// (spec §4.3, §6.2). NaN is always emitted as the canonical quiet NaN
// 0x7e00 at 16 bits, matching RFC 8949 §4.2.2's guidance for deterministic
// encoding.
func NarrowFloat(v float64) Header {
	if math.IsNaN(v) {
		return HeaderFloat(math.NaN(), 2)
	}

	if h16 := float16.Fromfloat32(float32(v)); float64(h16.Float32()) == v {
		return HeaderFloat(v, 2)
	}
	if f32 := float32(v); float64(f32) == v {
		return HeaderFloat(v, 4)
	}
	return HeaderFloat(v, 8)
}
