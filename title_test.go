package cbor

import "testing"

// TestTitleRoundTrip is P1: every Title producible by the Header
// constructors round-trips through WriteTo/ReadTitle unchanged.
func TestTitleRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 23, 24, 255, 256, 65535, 65536, 1<<32 - 1, 1 << 32, 1<<64 - 1}
	majors := []Major{MajorPositive, MajorNegative, MajorBytes, MajorText, MajorArray, MajorMap, MajorTag}
	for _, major := range majors {
		for _, v := range values {
			title := Title{Major: major, Minor: minorFromUint(v)}
			w := NewSliceWriter()
			if err := title.WriteTo(w); err != nil {
				t.Fatalf("WriteTo(%v, %d): %v", major, v, err)
			}
			got, err := ReadTitle(NewSliceReader(w.Bytes()))
			if err != nil {
				t.Fatalf("ReadTitle(%v, %d): %v", major, v, err)
			}
			if got.Major != title.Major || got.Minor.Uint64() != title.Minor.Uint64() {
				t.Fatalf("round-trip mismatch for %v %d: got %+v", major, v, got)
			}
		}
	}
}

func TestTitleIndefiniteRoundTrip(t *testing.T) {
	for _, major := range []Major{MajorBytes, MajorText, MajorArray, MajorMap, MajorOther} {
		title := Title{Major: major, Minor: MinorIndeterminate()}
		w := NewSliceWriter()
		if err := title.WriteTo(w); err != nil {
			t.Fatalf("WriteTo: %v", err)
		}
		got, err := ReadTitle(NewSliceReader(w.Bytes()))
		if err != nil {
			t.Fatalf("ReadTitle: %v", err)
		}
		if got.Major != major || got.Minor.kind != minorIndeterminate {
			t.Fatalf("indefinite round-trip mismatch: got %+v", got)
		}
	}
}

// TestShortestFormInteger is P3: the encoded width of Positive(v) is the
// minimal width that losslessly carries v.
func TestShortestFormInteger(t *testing.T) {
	cases := []struct {
		v    uint64
		want int
	}{
		{0, 1}, {23, 1},
		{24, 2}, {255, 2},
		{256, 3}, {65535, 3},
		{65536, 5}, {1<<32 - 1, 5},
		{1 << 32, 9}, {1<<64 - 1, 9},
	}
	for _, c := range cases {
		w := NewSliceWriter()
		enc := NewEncoder(w)
		if err := enc.Push(HeaderPositive(c.v)); err != nil {
			t.Fatalf("Push(%d): %v", c.v, err)
		}
		if got := len(w.Bytes()); got != c.want {
			t.Errorf("Positive(%d): got %d bytes, want %d", c.v, got, c.want)
		}
	}
}

// TestRejectReservedMinor is P10: decoding a major-0 prefix byte with
// selector 28, 29, or 30 (truly reserved, never assigned a meaning) fails
// with a SyntaxError at offset 0.
func TestRejectReservedMinor(t *testing.T) {
	for _, b := range []byte{0x1c, 0x1d, 0x1e} {
		_, err := ReadTitle(NewSliceReader([]byte{b}))
		se, ok := err.(*SyntaxError)
		if !ok {
			t.Fatalf("byte %#x: got %T, want *SyntaxError", b, err)
		}
		if se.Offset != 0 {
			t.Fatalf("byte %#x: offset = %d, want 0", b, se.Offset)
		}
	}
}

// TestRejectIndefiniteOnNonStringMajors is P10's other half: selector 31
// (the indefinite-length/break marker) is syntactically legal at the
// Title level for every major type, but major types 0 (positive), 1
// (negative), and 6 (tag) never permit it; the Decoder rejects it once it
// builds a semantic Header from the Title.
func TestRejectIndefiniteOnNonStringMajors(t *testing.T) {
	for _, b := range []byte{0x1f, 0x3f, 0xdf} { // major 0, 1, 6 with selector 31
		dec := NewDecoder(NewSliceReader([]byte{b}))
		_, err := dec.Pull()
		if _, ok := err.(*SyntaxError); !ok {
			t.Fatalf("byte %#x: got %T (%v), want *SyntaxError", b, err, err)
		}
	}
}
