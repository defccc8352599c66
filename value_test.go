package cbor

import (
	"math"
	"testing"
)

// TestBigIntegerBridging is P6: every i128 outside u64 range round-trips
// through the Tag(2)/Tag(3) bignum wire form.
func TestBigIntegerBridging(t *testing.T) {
	cases := []struct {
		name string
		hex  string
	}{
		{"two-to-the-64", "c249010000000000000000"}, // scenario 4
	}
	for _, c := range cases {
		v := decodeHex(t, c.hex)
		if v.Kind() != ValueInteger {
			t.Fatalf("%s: kind = %v, want ValueInteger", c.name, v.Kind())
		}
		if _, ok := v.Integer().Uint64(); ok {
			t.Fatalf("%s: unexpectedly fits in uint64", c.name)
		}
		got := encodeHex(t, v)
		if got != c.hex {
			t.Fatalf("%s: re-encode = %s, want %s", c.name, got, c.hex)
		}
	}
}

func TestBigIntegerNegative(t *testing.T) {
	// Tag(3) with a large magnitude: -(2^64 + 1).
	hex := "c349010000000000000000"
	v := decodeHex(t, hex)
	if v.Kind() != ValueInteger || !v.Integer().IsNegative() {
		t.Fatalf("expected negative integer, got %+v", v)
	}
	if got := encodeHex(t, v); got != hex {
		t.Fatalf("re-encode = %s, want %s", got, hex)
	}
}

// TestTagTransparency is P7: encoding Tag(n, T) then decoding the inner
// value yields T back, and the tag number round-trips.
func TestTagTransparency(t *testing.T) {
	inner := NewText("hello")
	tagged := NewValueTag(100, inner)

	w := NewSliceWriter()
	if err := EncodeValue(NewEncoder(w), tagged); err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}

	dec := NewDecoder(NewSliceReader(w.Bytes()))
	got, err := DecodeValue(dec)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if got.Kind() != ValueTag {
		t.Fatalf("kind = %v, want ValueTag", got.Kind())
	}
	if got.TagNumber() != 100 {
		t.Fatalf("tag number = %d, want 100", got.TagNumber())
	}
	if got.TagContent().Text() != "hello" {
		t.Fatalf("tag content = %q, want hello", got.TagContent().Text())
	}
}

func TestScenarioFloats(t *testing.T) {
	zero := decodeHex(t, "f90000")
	if zero.Kind() != ValueFloat || zero.Float() != 0 || math.Signbit(zero.Float()) {
		t.Fatalf("f90000: got %v, want +0.0", zero.Float())
	}
	negZero := decodeHex(t, "f98000")
	if negZero.Kind() != ValueFloat || negZero.Float() != 0 || !math.Signbit(negZero.Float()) {
		t.Fatalf("f98000: got %v, want -0.0", negZero.Float())
	}
	inf := decodeHex(t, "f97c00")
	if !math.IsInf(inf.Float(), +1) {
		t.Fatalf("f97c00: got %v, want +Inf", inf.Float())
	}
	nan := decodeHex(t, "f97e00")
	if !math.IsNaN(nan.Float()) {
		t.Fatalf("f97e00: got %v, want NaN", nan.Float())
	}
}

func TestArrayAndMapDecode(t *testing.T) {
	v := decodeHex(t, "83010203")
	if v.Kind() != ValueArray || len(v.Array()) != 3 {
		t.Fatalf("got %+v", v)
	}
	m := decodeHex(t, "a2616101616202")
	if m.Kind() != ValueMap || len(m.Map()) != 2 {
		t.Fatalf("got %+v", m)
	}
	if m.Map()[0].Key.Text() != "a" || mustInt64(t, m.Map()[0].Value) != 1 {
		t.Fatalf("first entry wrong: %+v", m.Map()[0])
	}
}

func TestIndefiniteArrayDecode(t *testing.T) {
	v := decodeHex(t, "9f0102ff")
	if v.Kind() != ValueArray || len(v.Array()) != 2 {
		t.Fatalf("got %+v", v)
	}
}

// TestHugeDeclaredArrayLengthDoesNotAllocate is the resource-exhaustion
// regression check for the same class of bug the scratch-buffer fix
// addresses in Segments: a wire-declared array length near 2^64-1 must
// not drive an up-front element-slice allocation sized to that
// declaration. Decoding must fail once real input is exhausted, not crash
// the process with an out-of-memory fatal error.
func TestHugeDeclaredArrayLengthDoesNotAllocate(t *testing.T) {
	// major 4 (array), selector 27 (8-byte length), length = 2^64-1.
	raw := []byte{0x9b, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	dec := NewDecoder(NewSliceReader(raw))
	if _, err := DecodeValue(dec); err == nil {
		t.Fatalf("expected an error once real input is exhausted, got nil")
	}
}

// TestHugeDeclaredMapLengthDoesNotAllocate mirrors
// TestHugeDeclaredArrayLengthDoesNotAllocate for maps.
func TestHugeDeclaredMapLengthDoesNotAllocate(t *testing.T) {
	// major 5 (map), selector 27 (8-byte length), length = 2^64-1.
	raw := []byte{0xbb, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	dec := NewDecoder(NewSliceReader(raw))
	if _, err := DecodeValue(dec); err == nil {
		t.Fatalf("expected an error once real input is exhausted, got nil")
	}
}
