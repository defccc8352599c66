package cbor

import "sort"

// CanonicalMode selects which deterministic-encoding rule Canonicalize
// applies to map key ordering (spec §4.5, §6.2).
type CanonicalMode uint8

const (
	// CanonicalRFC8949 sorts map keys purely lexicographically by their
	// encoded bytes (RFC 8949 §4.2.1), the modern default.
	CanonicalRFC8949 CanonicalMode = iota
	// CanonicalRFC7049 sorts map keys by encoded length first, then
	// lexicographically (the original, now-deprecated RFC 7049 §3.9 rule).
	CanonicalRFC7049
)

// Canonicalize rebuilds v with every container re-encoded with a
// definite length (no indefinite-length arrays/maps/strings survive) and
// every map's entries sorted per mode. It operates on the Value itself,
// not the wire bytes, so the caller encodes the result with EncodeValue
// to get canonical bytes (spec §4.5, §6.2).
func Canonicalize(v Value, mode CanonicalMode) Value {
	switch v.kind {
	case ValueArray:
		out := make([]Value, len(v.array))
		for i, e := range v.array {
			out[i] = Canonicalize(e, mode)
		}
		return NewArray(out)
	case ValueMap:
		out := make([]MapEntry, len(v.pairs))
		for i, e := range v.pairs {
			out[i] = MapEntry{Key: Canonicalize(e.Key, mode), Value: Canonicalize(e.Value, mode)}
		}
		sortEntries(out, mode)
		return NewMap(out)
	case ValueTag:
		return NewValueTag(v.tag.Number, Canonicalize(v.tag.Content, mode))
	default:
		return v
	}
}

func sortEntries(entries []MapEntry, mode CanonicalMode) {
	keyBytes := make([][]byte, len(entries))
	for i, e := range entries {
		keyBytes[i] = encodeValueBytes(e.Key)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return lessCanonical(keyBytes[i], keyBytes[j], mode)
	})
}

func lessCanonical(a, b []byte, mode CanonicalMode) bool {
	if mode == CanonicalRFC7049 && len(a) != len(b) {
		return len(a) < len(b)
	}
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// EncodeCanonical encodes v in canonical form directly to w, using a
// pooled ByteBuffer as scratch space so callers on a hot path avoid
// allocating an intermediate Value tree's worth of garbage beyond the one
// Canonicalize pass (spec §4.5, §4.10, §6.2).
func EncodeCanonical(w Writer, v Value, mode CanonicalMode) error {
	canon := Canonicalize(v, mode)
	scratch := GetByteBuffer()
	defer PutByteBuffer(scratch)
	enc := NewEncoder(scratch)
	if err := EncodeValue(enc, canon); err != nil {
		return err
	}
	return w.WriteAll(scratch.Bytes())
}

// IsCanonical reports whether the first item in buf already satisfies
// mode's rules: no indefinite-length items and every map's entries in
// sorted order. It decodes the item into a Value and compares the item's
// bytes with the encoding of Canonicalize's result for that Value.
func IsCanonical(buf []byte, mode CanonicalMode) (bool, error) {
	dec := NewDecoder(NewSliceReader(buf))
	v, err := DecodeValue(dec)
	if err != nil {
		return false, err
	}
	return string(buf[:dec.Offset()]) == string(encodeValueBytes(Canonicalize(v, mode))), nil
}
