package cbor

import (
	"math"
	"testing"
)

func roundTripHeader(t *testing.T, h Header) Header {
	t.Helper()
	w := NewSliceWriter()
	enc := NewEncoder(w)
	if err := enc.Push(h); err != nil {
		t.Fatalf("Push: %v", err)
	}
	dec := NewDecoder(NewSliceReader(w.Bytes()))
	got, err := dec.Pull()
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	return got
}

// TestHeaderRoundTripPositive and the Negative/Simple/Float round-trip
// tests below cover P2.
func TestHeaderRoundTripPositive(t *testing.T) {
	for _, v := range []uint64{0, 1, 23, 24, 1000, 1 << 40, 1<<64 - 1} {
		got := roundTripHeader(t, HeaderPositive(v))
		if got.Kind() != KindPositive || got.Positive() != v {
			t.Fatalf("Positive(%d) round-trip: got %+v", v, got)
		}
	}
}

func TestHeaderRoundTripNegative(t *testing.T) {
	for _, v := range []uint64{0, 1, 23, 24, 1000, 1<<64 - 1} {
		got := roundTripHeader(t, HeaderNegative(v))
		if got.Kind() != KindNegative || got.Negative() != v {
			t.Fatalf("Negative(%d) round-trip: got %+v", v, got)
		}
	}
}

func TestHeaderRoundTripSimple(t *testing.T) {
	for _, s := range []uint8{0, 19, 32, 255} {
		got := roundTripHeader(t, HeaderSimple(s))
		if got.Kind() != KindSimple || got.Simple() != s {
			t.Fatalf("Simple(%d) round-trip: got %+v", s, got)
		}
	}
}

func TestHeaderRoundTripFloat(t *testing.T) {
	values := []float64{0, 1, -1, 1.5, math.Pi, 100000.0, math.SmallestNonzeroFloat32}
	for _, v := range values {
		got := roundTripHeader(t, NarrowFloat(v))
		f, _ := got.Float()
		if math.Float64bits(f) != math.Float64bits(v) {
			t.Fatalf("Float(%v) round-trip bit mismatch: got %v", v, f)
		}
	}
}

func TestFloatSignedZero(t *testing.T) {
	pos := roundTripHeader(t, NarrowFloat(0.0))
	neg := roundTripHeader(t, NarrowFloat(math.Copysign(0, -1)))
	pf, _ := pos.Float()
	nf, _ := neg.Float()
	if math.Signbit(pf) {
		t.Fatalf("expected +0, got signbit set")
	}
	if !math.Signbit(nf) {
		t.Fatalf("expected -0, got signbit clear")
	}
}

// TestScenarioIntegers covers spec §8 scenario 1/2.
func TestScenarioIntegers(t *testing.T) {
	cases := []struct {
		hex  string
		want Value
	}{
		{"00", NewInteger(Int128FromInt64(0))},
		{"17", NewInteger(Int128FromInt64(23))},
		{"1818", NewInteger(Int128FromInt64(24))},
		{"20", NewInteger(Int128FromInt64(-1))},
	}
	for _, c := range cases {
		v := decodeHex(t, c.hex)
		if n, _ := v.Integer().Int64(); n != mustInt64(t, c.want) {
			t.Fatalf("hex %s: got %v", c.hex, v.Integer())
		}
	}
}

func mustInt64(t *testing.T, v Value) int64 {
	t.Helper()
	n, ok := v.Integer().Int64()
	if !ok {
		t.Fatalf("value does not fit int64")
	}
	return n
}
