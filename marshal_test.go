package cbor

import (
	"encoding/hex"
	"slices"
	"testing"
)

type person struct {
	Name string `cbor:"name"`
	Age  int    `cbor:"age"`
	Tags []string `cbor:"tags,omitempty"`
}

func TestMarshalUnmarshalStructRoundTrip(t *testing.T) {
	in := person{Name: "Ada", Age: 36, Tags: []string{"math", "computing"}}
	data, err := Marshal(in, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out person
	if err := Unmarshal(data, &out, DecOptions{}); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Name != in.Name || out.Age != in.Age || !slices.Equal(out.Tags, in.Tags) {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestMarshalOmitsEmptyOmitemptyField(t *testing.T) {
	in := person{Name: "Bob", Age: 20}
	data, err := Marshal(in, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	v, err := DecodeValue(NewDecoder(NewSliceReader(data)))
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if len(v.Map()) != 2 {
		t.Fatalf("got %d map entries, want 2 (tags omitted)", len(v.Map()))
	}
}

// TestScenarioEnumNewtype is spec §8 scenario 6: a single-field struct
// named Newtype wrapping an integer encodes as a one-entry map.
func TestScenarioEnumNewtype(t *testing.T) {
	type Newtype struct {
		Newtype int `cbor:"Newtype"`
	}
	in := Newtype{Newtype: 45}
	data, err := Marshal(in, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := "a1674e657774797065182d"
	if got := hex.EncodeToString(data); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestMarshalCanonicalMode(t *testing.T) {
	type doc struct {
		B int `cbor:"b"`
		A int `cbor:"a"`
	}
	data, err := Marshal(doc{B: 2, A: 1}, EncOptions{Canonical: true, Mode: CanonicalRFC8949})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	v, err := DecodeValue(NewDecoder(NewSliceReader(data)))
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	entries := v.Map()
	if len(entries) != 2 || entries[0].Key.Text() != "a" || entries[1].Key.Text() != "b" {
		t.Fatalf("canonical key order not applied: %+v", entries)
	}
}

func TestMarshalUnmarshalMap(t *testing.T) {
	in := map[string]int{"x": 1, "y": 2}
	data, err := Marshal(in, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out map[string]int
	if err := Unmarshal(data, &out, DecOptions{}); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(out) != 2 || out["x"] != 1 || out["y"] != 2 {
		t.Fatalf("got %+v", out)
	}
}

func TestMarshalUnmarshalSlice(t *testing.T) {
	in := []int{1, 2, 3}
	data, err := Marshal(in, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out []int
	if err := Unmarshal(data, &out, DecOptions{}); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(out) != 3 || out[0] != 1 || out[1] != 2 || out[2] != 3 {
		t.Fatalf("got %+v", out)
	}
}

func TestMarshalUnmarshalBytes(t *testing.T) {
	in := []byte{0xde, 0xad, 0xbe, 0xef}
	data, err := Marshal(in, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out []byte
	if err := Unmarshal(data, &out, DecOptions{}); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(out) != 4 || out[0] != 0xde {
		t.Fatalf("got %x", out)
	}
}

func TestUnmarshalIntoInterface(t *testing.T) {
	raw, err := hex.DecodeString("a2616101616202")
	if err != nil {
		t.Fatalf("bad hex: %v", err)
	}
	var out any
	if err := Unmarshal(raw, &out, DecOptions{}); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	m, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("got %T, want map[string]any", out)
	}
	if m["a"] != int64(1) || m["b"] != int64(2) {
		t.Fatalf("got %+v", m)
	}
}

// TestMarshalValueFieldComposesWithReflectBridge covers SPEC_FULL.md §9:
// a Value-typed struct field round-trips as whatever CBOR item it holds,
// rather than being treated as an ordinary (all-unexported-field) struct.
func TestMarshalValueFieldComposesWithReflectBridge(t *testing.T) {
	type doc struct {
		Payload Value `cbor:"payload"`
	}
	in := doc{Payload: NewArray([]Value{NewInteger(Int128FromInt64(1)), NewText("two")})}
	data, err := Marshal(in, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out doc
	if err := Unmarshal(data, &out, DecOptions{}); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Payload.Kind() != ValueArray || len(out.Payload.Array()) != 2 {
		t.Fatalf("got %+v", out.Payload)
	}
	if out.Payload.Array()[1].Text() != "two" {
		t.Fatalf("got %+v", out.Payload.Array())
	}
}

func TestUnmarshalRejectsNonPointer(t *testing.T) {
	var out person
	err := Unmarshal([]byte{0xa0}, out, DecOptions{})
	if err == nil {
		t.Fatalf("expected error for non-pointer target")
	}
}

func TestUnmarshalIntegerOverflow(t *testing.T) {
	type small struct {
		V int8 `cbor:"v"`
	}
	in := struct {
		V int `cbor:"v"`
	}{V: 1000}
	data, err := Marshal(in, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out small
	if err := Unmarshal(data, &out, DecOptions{}); err == nil {
		t.Fatalf("expected overflow error assigning 1000 into int8")
	}
}
