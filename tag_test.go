package cbor

import (
	"encoding/hex"
	"testing"
)

func TestNewTagConstructsFields(t *testing.T) {
	tag := NewTag(100, "hello")
	if tag.Number != 100 || tag.Content != "hello" {
		t.Fatalf("got %+v", tag)
	}
}

func TestTagMarshalUnmarshalRoundTrip(t *testing.T) {
	type doc struct {
		When Tag[string] `cbor:"when"`
	}
	in := doc{When: NewTag[string](1, "2026-07-30T00:00:00Z")}
	data, err := Marshal(in, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out doc
	if err := Unmarshal(data, &out, DecOptions{}); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.When.Number != 1 || out.When.Content != "2026-07-30T00:00:00Z" {
		t.Fatalf("got %+v", out.When)
	}
}

func TestTagUnmarshalRejectsNonTagValue(t *testing.T) {
	type doc struct {
		When Tag[string] `cbor:"when"`
	}
	// "when" maps directly to a plain text value "hello", not a tag.
	raw, err := hex.DecodeString("a1647768656e6568656c6c6f")
	if err != nil {
		t.Fatalf("bad hex fixture: %v", err)
	}
	var out doc
	err = Unmarshal(raw, &out, DecOptions{})
	if err == nil {
		t.Fatalf("expected error assigning a non-tag value into Tag[string]")
	}
}

func TestSimpleValueMarshalUnmarshal(t *testing.T) {
	type doc struct {
		V SimpleValue `cbor:"v"`
	}
	in := doc{V: SimpleValue(16)}
	data, err := Marshal(in, EncOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out doc
	if err := Unmarshal(data, &out, DecOptions{}); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.V != 16 {
		t.Fatalf("got %v, want 16", out.V)
	}
}

func TestSimpleValueOnWireValue(t *testing.T) {
	v := NewSimple(SimpleValue(16))
	w := NewSliceWriter()
	if err := EncodeValue(NewEncoder(w), v); err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}
	if got := hex.EncodeToString(w.Bytes()); got != "f0" {
		t.Fatalf("got %s, want f0", got)
	}
}
