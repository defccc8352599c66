package cbor

// Header is the semantic view of one CBOR item: a decoded Title plus
// whatever payload its major type carries inline (spec §3.2). Bytes/Text/
// Array/Map headers carry only a length (or IsIndefinite); the segment
// payload itself is read separately by the Decoder.
type Header struct {
	kind headerKind

	// Positive/Negative carry the magnitude for MajorPositive/MajorNegative.
	// The represented integer for Negative is -1-Magnitude.
	uintVal uint64

	// floatVal carries Float's value; floatBits records the original wire
	// width (2, 4, or 8) for round-trip re-encoding.
	floatVal  float64
	floatBits int

	// simpleVal carries Simple's identifier (0..255, minus false/true/
	// null/undefined which decode to their own kinds).
	simpleVal uint8

	// tagVal carries Tag's tag number.
	tagVal uint64

	// length carries the declared length for Bytes/Text/Array/Map; ignored
	// when indefinite is true.
	length      uint64
	indefinite  bool
}

type headerKind uint8

const (
	headerPositive headerKind = iota
	headerNegative
	headerFloat
	headerSimpleFalse
	headerSimpleTrue
	headerSimpleNull
	headerSimpleUndefined
	headerSimple
	headerTag
	headerBreak
	headerBytes
	headerText
	headerArray
	headerMap
)

// Kind constants exposed to callers that need to switch on Header shape
// without reaching into unexported fields.
type Kind = headerKind

const (
	KindPositive  = headerPositive
	KindNegative  = headerNegative
	KindFloat     = headerFloat
	KindFalse     = headerSimpleFalse
	KindTrue      = headerSimpleTrue
	KindNull      = headerSimpleNull
	KindUndefined = headerSimpleUndefined
	KindSimple    = headerSimple
	KindTag       = headerTag
	KindBreak     = headerBreak
	KindBytes     = headerBytes
	KindText      = headerText
	KindArray     = headerArray
	KindMap       = headerMap
)

// Kind reports which variant this Header is.
func (h Header) Kind() Kind { return h.kind }

// HeaderPositive constructs the Header for a non-negative integer (spec §3.2).
func HeaderPositive(v uint64) Header { return Header{kind: headerPositive, uintVal: v} }

// HeaderNegative constructs the Header for a negative integer, where the
// represented value is -1-magnitude (spec §3.2, CBOR major type 1).
func HeaderNegative(magnitude uint64) Header { return Header{kind: headerNegative, uintVal: magnitude} }

// Positive returns the magnitude for a KindPositive Header.
func (h Header) Positive() uint64 { return h.uintVal }

// Negative returns the magnitude for a KindNegative Header; the
// represented integer is -1-magnitude.
func (h Header) Negative() uint64 { return h.uintVal }

// HeaderFloat constructs a Float Header; bits records the wire width this
// value should prefer on re-encoding (2, 4, or 8).
func HeaderFloat(v float64, bits int) Header {
	return Header{kind: headerFloat, floatVal: v, floatBits: bits}
}

// Float returns the value and preferred wire width of a KindFloat Header.
func (h Header) Float() (float64, int) { return h.floatVal, h.floatBits }

// HeaderFalse, HeaderTrue, HeaderNull, HeaderUndefined are the four
// reserved simple values with dedicated Header kinds (spec §3.2).
func HeaderFalse() Header     { return Header{kind: headerSimpleFalse} }
func HeaderTrue() Header      { return Header{kind: headerSimpleTrue} }
func HeaderNull() Header      { return Header{kind: headerSimpleNull} }
func HeaderUndefined() Header { return Header{kind: headerSimpleUndefined} }

// HeaderSimple constructs a Header for any other simple value (spec §3.2,
// §6.3). Values 20-23 are reserved and must use the dedicated
// constructors instead.
func HeaderSimple(v uint8) Header { return Header{kind: headerSimple, simpleVal: v} }

// Simple returns the identifier of a KindSimple Header.
func (h Header) Simple() uint8 { return h.simpleVal }

// HeaderTag constructs a Tag Header (spec §3.2, §3.4). The tagged value
// itself follows as the next Header in the stream.
func HeaderTag(tag uint64) Header { return Header{kind: headerTag, tagVal: tag} }

// Tag returns the tag number of a KindTag Header.
func (h Header) Tag() uint64 { return h.tagVal }

// HeaderBreak constructs the Header for the 0xff break byte terminating
// an indefinite-length container (spec §3.2, §4.4).
func HeaderBreak() Header { return Header{kind: headerBreak} }

// HeaderBytes/HeaderText/HeaderArray/HeaderMap construct definite-length
// container/string Headers.
func HeaderBytes(n uint64) Header { return Header{kind: headerBytes, length: n} }
func HeaderText(n uint64) Header  { return Header{kind: headerText, length: n} }
func HeaderArray(n uint64) Header { return Header{kind: headerArray, length: n} }
func HeaderMap(n uint64) Header   { return Header{kind: headerMap, length: n} }

// HeaderBytesIndefinite/HeaderTextIndefinite/HeaderArrayIndefinite/
// HeaderMapIndefinite construct the indefinite-length variants (spec §4.4).
func HeaderBytesIndefinite() Header { return Header{kind: headerBytes, indefinite: true} }
func HeaderTextIndefinite() Header  { return Header{kind: headerText, indefinite: true} }
func HeaderArrayIndefinite() Header { return Header{kind: headerArray, indefinite: true} }
func HeaderMapIndefinite() Header   { return Header{kind: headerMap, indefinite: true} }

// Length returns the declared length of a Bytes/Text/Array/Map Header. It
// is meaningless when IsIndefinite is true.
func (h Header) Length() uint64 { return h.length }

// IsIndefinite reports whether a Bytes/Text/Array/Map Header has no
// declared length and is instead terminated by a break (spec §4.4).
func (h Header) IsIndefinite() bool { return h.indefinite }

// title converts a semantic Header into its on-wire Title (spec §3.1,
// §3.2). A Map Header's length is its number of key/value pairs and is
// written to the wire unchanged.
func (h Header) title() Title {
	switch h.kind {
	case headerPositive:
		return Title{Major: MajorPositive, Minor: minorFromUint(h.uintVal)}
	case headerNegative:
		return Title{Major: MajorNegative, Minor: minorFromUint(h.uintVal)}
	case headerFloat:
		return Title{Major: MajorOther, Minor: floatMinor(h.floatVal, h.floatBits)}
	case headerSimpleFalse:
		return Title{Major: MajorOther, Minor: MinorImmediate(simpleFalse)}
	case headerSimpleTrue:
		return Title{Major: MajorOther, Minor: MinorImmediate(simpleTrue)}
	case headerSimpleNull:
		return Title{Major: MajorOther, Minor: MinorImmediate(simpleNull)}
	case headerSimpleUndefined:
		return Title{Major: MajorOther, Minor: MinorImmediate(simpleUndefined)}
	case headerSimple:
		return Title{Major: MajorOther, Minor: simpleMinor(h.simpleVal)}
	case headerTag:
		return Title{Major: MajorTag, Minor: minorFromUint(h.tagVal)}
	case headerBreak:
		return Title{Major: MajorOther, Minor: MinorIndeterminate()}
	case headerBytes:
		return containerTitle(MajorBytes, h.length, h.indefinite)
	case headerText:
		return containerTitle(MajorText, h.length, h.indefinite)
	case headerArray:
		return containerTitle(MajorArray, h.length, h.indefinite)
	case headerMap:
		return containerTitle(MajorMap, h.length, h.indefinite)
	}
	panic("cbor: unreachable header kind")
}

func containerTitle(major Major, length uint64, indefinite bool) Title {
	if indefinite {
		return Title{Major: major, Minor: MinorIndeterminate()}
	}
	return Title{Major: major, Minor: minorFromUint(length)}
}

// simpleMinor encodes a non-reserved simple value: 0..19 and 32..255
// carry the value directly or via a Subsequent1 byte (spec §3.2, §6.3).
func simpleMinor(v uint8) Minor {
	if v <= 19 {
		return MinorImmediate(v)
	}
	return Minor{kind: minorSub1, affix: uint64(v)}
}

// headerFromTitle converts a wire Title back into a semantic Header. The
// caller (Decoder) is responsible for reading any trailing payload
// (float/simple affix already folded into Minor by ReadTitle; segment
// bytes for strings/containers are read separately).
func headerFromTitle(t Title) (Header, error) {
	switch t.Major {
	case MajorPositive:
		if t.Minor.kind == minorIndeterminate {
			return Header{}, synErr(0, "positive integer major type cannot be indefinite")
		}
		return HeaderPositive(t.Minor.Uint64()), nil
	case MajorNegative:
		if t.Minor.kind == minorIndeterminate {
			return Header{}, synErr(0, "negative integer major type cannot be indefinite")
		}
		return HeaderNegative(t.Minor.Uint64()), nil
	case MajorBytes:
		return containerHeaderFromTitle(headerBytes, t)
	case MajorText:
		return containerHeaderFromTitle(headerText, t)
	case MajorArray:
		return containerHeaderFromTitle(headerArray, t)
	case MajorMap:
		return containerHeaderFromTitle(headerMap, t)
	case MajorTag:
		if t.Minor.kind == minorIndeterminate {
			return Header{}, synErr(0, "tag major type cannot be indefinite")
		}
		return HeaderTag(t.Minor.Uint64()), nil
	case MajorOther:
		return headerFromOtherTitle(t)
	}
	panic("cbor: unreachable major type")
}

func containerHeaderFromTitle(kind headerKind, t Title) (Header, error) {
	if t.Minor.kind == minorIndeterminate {
		return Header{kind: kind, indefinite: true}, nil
	}
	return Header{kind: kind, length: t.Minor.Uint64()}, nil
}

func headerFromOtherTitle(t Title) (Header, error) {
	switch t.Minor.kind {
	case minorIndeterminate:
		return HeaderBreak(), nil
	case minorImmediate:
		switch v := t.Minor.immediate; v {
		case simpleFalse:
			return HeaderFalse(), nil
		case simpleTrue:
			return HeaderTrue(), nil
		case simpleNull:
			return HeaderNull(), nil
		case simpleUndefined:
			return HeaderUndefined(), nil
		default:
			return HeaderSimple(v), nil
		}
	case minorSub1:
		v := t.Minor.affix
		if v < 32 {
			return Header{}, synErr(0, "simple value encoded in non-shortest form")
		}
		return HeaderSimple(uint8(v)), nil
	case minorSub2:
		return HeaderFloat(decodeFloat16(uint16(t.Minor.affix)), 2), nil
	case minorSub4:
		return HeaderFloat(decodeFloat32(uint32(t.Minor.affix)), 4), nil
	case minorSub8:
		return HeaderFloat(decodeFloat64(t.Minor.affix), 8), nil
	}
	panic("cbor: unreachable minor kind")
}
