package cbor

import "bytes"

// ValueKind discriminates the variants of Value (spec §3.3).
type ValueKind uint8

const (
	ValueInteger ValueKind = iota
	ValueBytes
	ValueText
	ValueArray
	ValueMap
	ValueTag
	ValueFloat
	ValueBool
	ValueNull
	ValueUndefined
	ValueSimple
)

// Value is a dynamic, tagged-union mirror of the CBOR data model, used
// when the shape of the data is not known statically (spec §3.3). Exactly
// one of the typed fields is meaningful, selected by Kind.
type Value struct {
	kind ValueKind

	integer Int128
	bytes   []byte
	text    string
	array   []Value
	pairs   []MapEntry
	tag     *Tag[Value]
	float   float64
	boolean bool
	simple  SimpleValue
}

// MapEntry is one key/value pair of a ValueMap Value. Order is
// significant: it reflects either wire order (as decoded) or insertion
// order (as built), and is only normalized by Canonicalize.
type MapEntry struct {
	Key   Value
	Value Value
}

func (v Value) Kind() ValueKind { return v.kind }

func NewInteger(i Int128) Value  { return Value{kind: ValueInteger, integer: i} }
func NewBytes(b []byte) Value    { return Value{kind: ValueBytes, bytes: b} }
func NewText(s string) Value     { return Value{kind: ValueText, text: s} }
func NewArray(a []Value) Value   { return Value{kind: ValueArray, array: a} }
func NewMap(m []MapEntry) Value  { return Value{kind: ValueMap, pairs: m} }
func NewFloat(f float64) Value   { return Value{kind: ValueFloat, float: f} }
func NewBool(b bool) Value       { return Value{kind: ValueBool, boolean: b} }
func NewNull() Value             { return Value{kind: ValueNull} }
func NewUndefined() Value        { return Value{kind: ValueUndefined} }
func NewSimple(s SimpleValue) Value { return Value{kind: ValueSimple, simple: s} }
func NewValueTag(number uint64, content Value) Value {
	return Value{kind: ValueTag, tag: &Tag[Value]{Number: number, Content: content}}
}

func (v Value) Integer() Int128       { return v.integer }
func (v Value) Bytes() []byte         { return v.bytes }
func (v Value) Text() string          { return v.text }
func (v Value) Array() []Value        { return v.array }
func (v Value) Map() []MapEntry       { return v.pairs }
func (v Value) Float() float64        { return v.float }
func (v Value) Bool() bool            { return v.boolean }
func (v Value) Simple() SimpleValue   { return v.simple }
func (v Value) TagNumber() uint64     { return v.tag.Number }
func (v Value) TagContent() Value     { return v.tag.Content }

// DecodeValue reads one complete Value from dec, fusing Tag(2)/Tag(3)
// bignums into Integer and concatenating chunked strings (spec §3.3,
// §4.9).
func DecodeValue(dec *Decoder) (Value, error) {
	h, err := dec.Pull()
	if err != nil {
		return Value{}, err
	}
	return decodeValueFromHeader(dec, h)
}

func decodeValueFromHeader(dec *Decoder, h Header) (Value, error) {
	switch h.Kind() {
	case KindPositive:
		return NewInteger(Int128FromUint64(h.Positive())), nil
	case KindNegative:
		mag := h.Negative()
		// represented value is -1-mag; NegativeBignum stores it as
		// (mag+1, negative set).
		i, _ := NegativeBignum(beBytesOf(mag))
		return NewInteger(i), nil
	case KindFloat:
		f, _ := h.Float()
		return NewFloat(f), nil
	case KindFalse:
		return NewBool(false), nil
	case KindTrue:
		return NewBool(true), nil
	case KindNull:
		return NewNull(), nil
	case KindUndefined:
		return NewUndefined(), nil
	case KindSimple:
		return NewSimple(SimpleValue(h.Simple())), nil
	case KindBytes:
		seg, err := dec.Bytes(h, make([]byte, DefaultScratchSize))
		if err != nil {
			return Value{}, err
		}
		buf, err := ReadAllBytes(seg)
		if err != nil {
			return Value{}, err
		}
		return NewBytes(buf), nil
	case KindText:
		seg, err := dec.Text(h, make([]byte, DefaultScratchSize))
		if err != nil {
			return Value{}, err
		}
		s, err := ReadAllText(seg)
		if err != nil {
			return Value{}, err
		}
		return NewText(s), nil
	case KindArray:
		if err := dec.enter(); err != nil {
			return Value{}, err
		}
		defer dec.leave()
		var out []Value
		if h.IsIndefinite() {
			for {
				next, err := dec.Pull()
				if err != nil {
					return Value{}, err
				}
				if next.Kind() == KindBreak {
					break
				}
				elem, err := decodeValueFromHeader(dec, next)
				if err != nil {
					return Value{}, err
				}
				out = append(out, elem)
			}
		} else {
			// n is wire-declared and attacker-controlled (up to 2^64-1);
			// grow out one element at a time instead of trusting it as a
			// preallocation hint.
			n := h.Length()
			for i := uint64(0); i < n; i++ {
				elem, err := DecodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				out = append(out, elem)
			}
		}
		return NewArray(out), nil
	case KindMap:
		if err := dec.enter(); err != nil {
			return Value{}, err
		}
		defer dec.leave()
		var out []MapEntry
		if h.IsIndefinite() {
			for {
				next, err := dec.Pull()
				if err != nil {
					return Value{}, err
				}
				if next.Kind() == KindBreak {
					break
				}
				key, err := decodeValueFromHeader(dec, next)
				if err != nil {
					return Value{}, err
				}
				val, err := DecodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				out = append(out, MapEntry{Key: key, Value: val})
			}
		} else {
			// n is wire-declared and attacker-controlled; grow out one
			// entry at a time instead of trusting it as a preallocation hint.
			n := h.Length()
			for i := uint64(0); i < n; i++ {
				key, err := DecodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				val, err := DecodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				out = append(out, MapEntry{Key: key, Value: val})
			}
		}
		return NewMap(out), nil
	case KindTag:
		if err := dec.enter(); err != nil {
			return Value{}, err
		}
		defer dec.leave()
		switch h.Tag() {
		case TagPositiveBignum, TagNegativeBignum:
			inner, err := dec.Pull()
			if err != nil {
				return Value{}, err
			}
			if inner.Kind() != KindBytes {
				return Value{}, semErrAt(dec.Offset(), "bignum tag content must be a byte string")
			}
			seg, err := dec.Bytes(inner, make([]byte, DefaultScratchSize))
			if err != nil {
				return Value{}, err
			}
			buf, err := ReadAllBytes(seg)
			if err != nil {
				return Value{}, err
			}
			var i Int128
			var ok bool
			if h.Tag() == TagPositiveBignum {
				i, ok = PositiveBignum(buf)
			} else {
				i, ok = NegativeBignum(buf)
			}
			if !ok {
				return Value{}, ErrBigIntTooLarge
			}
			return NewInteger(i), nil
		default:
			content, err := DecodeValue(dec)
			if err != nil {
				return Value{}, err
			}
			return NewValueTag(h.Tag(), content), nil
		}
	case KindBreak:
		return Value{}, semErr("invalid type: break, expected non-break")
	}
	panic("cbor: unreachable header kind")
}

// beBytesOf renders a uint64 as its full 8-byte big-endian form, used to
// reuse NegativeBignum's magnitude-plus-one convention for ordinary major
// type 1 integers.
func beBytesOf(v uint64) []byte {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[7-i] = byte(v >> (8 * i))
	}
	return buf[:]
}

// EncodeValue writes v to enc in full (spec §3.3).
func EncodeValue(enc *Encoder, v Value) error {
	switch v.kind {
	case ValueInteger:
		return encodeInteger(enc, v.integer)
	case ValueBytes:
		return enc.EncodeBytesDefinite(v.bytes)
	case ValueText:
		return enc.EncodeTextDefinite(v.text)
	case ValueArray:
		if err := enc.Push(HeaderArray(uint64(len(v.array)))); err != nil {
			return err
		}
		for _, e := range v.array {
			if err := EncodeValue(enc, e); err != nil {
				return err
			}
		}
		return nil
	case ValueMap:
		if err := enc.Push(HeaderMap(uint64(len(v.pairs)))); err != nil {
			return err
		}
		for _, e := range v.pairs {
			if err := EncodeValue(enc, e.Key); err != nil {
				return err
			}
			if err := EncodeValue(enc, e.Value); err != nil {
				return err
			}
		}
		return nil
	case ValueTag:
		if err := enc.Push(HeaderTag(v.tag.Number)); err != nil {
			return err
		}
		return EncodeValue(enc, v.tag.Content)
	case ValueFloat:
		return enc.Push(NarrowFloat(v.float))
	case ValueBool:
		if v.boolean {
			return enc.Push(HeaderTrue())
		}
		return enc.Push(HeaderFalse())
	case ValueNull:
		return enc.Push(HeaderNull())
	case ValueUndefined:
		return enc.Push(HeaderUndefined())
	case ValueSimple:
		return enc.Push(HeaderSimple(uint8(v.simple)))
	}
	panic("cbor: unreachable value kind")
}

func encodeInteger(enc *Encoder, i Int128) error {
	if !i.IsNegative() {
		if u, ok := i.Uint64(); ok {
			return enc.Push(HeaderPositive(u))
		}
		return encodeBignum(enc, TagPositiveBignum, i.Bytes())
	}
	// represented = -1-magnitude; magnitude = Bytes() after internal
	// un-shift performed by Int128.Bytes.
	mag := i.Bytes()
	if len(mag) <= 8 {
		m := beUint64(mag)
		return enc.Push(HeaderNegative(m))
	}
	return encodeBignum(enc, TagNegativeBignum, mag)
}

func encodeBignum(enc *Encoder, tag uint64, mag []byte) error {
	if err := enc.Push(HeaderTag(tag)); err != nil {
		return err
	}
	return enc.EncodeBytesDefinite(mag)
}

// CanonicalCompare orders two Values by encoded length first, then by
// byte-wise lexicographic comparison of the encoding, the length-first
// rule of RFC 7049 (spec §4.5, §6.2).
//
// It takes no CanonicalMode, and Canonicalize does not call it:
// Canonicalize sorts map keys by the mode it is given, and under
// CanonicalRFC8949 that order is purely lexicographic, so it can differ
// from this one.
func CanonicalCompare(a, b Value) int {
	ea := encodeValueBytes(a)
	eb := encodeValueBytes(b)
	if len(ea) != len(eb) {
		if len(ea) < len(eb) {
			return -1
		}
		return 1
	}
	return bytes.Compare(ea, eb)
}

func encodeValueBytes(v Value) []byte {
	w := NewSliceWriter()
	enc := NewEncoder(w)
	_ = EncodeValue(enc, v)
	return w.Bytes()
}
