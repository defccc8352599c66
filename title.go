package cbor

import "encoding/binary"

// Minor is the tagged variant over the bottom five bits of a Title's
// prefix byte (spec §3.1).
type Minor struct {
	// kind selects which shape this Minor has.
	kind minorKind
	// immediate holds the 5-bit field itself when kind == minorImmediate.
	immediate uint8
	// affix holds the big-endian value bytes for minorSub1/2/4/8.
	affix uint64
}

type minorKind uint8

const (
	minorImmediate minorKind = iota
	minorSub1
	minorSub2
	minorSub4
	minorSub8
	minorIndeterminate
)

// MinorImmediate constructs a Minor whose value is carried directly in the
// 5-bit field (0..=23).
func MinorImmediate(v uint8) Minor {
	if v > minSelImmediateMax {
		panic("cbor: immediate minor out of range")
	}
	return Minor{kind: minorImmediate, immediate: v}
}

// MinorIndeterminate constructs the indefinite-length/break Minor.
func MinorIndeterminate() Minor { return Minor{kind: minorIndeterminate} }

// minorFromUint picks the narrowest Subsequent width that losslessly
// carries v, or Immediate if v <= 23.
func minorFromUint(v uint64) Minor {
	switch {
	case v <= minSelImmediateMax:
		return Minor{kind: minorImmediate, immediate: uint8(v)}
	case v <= 0xff:
		return Minor{kind: minorSub1, affix: v}
	case v <= 0xffff:
		return Minor{kind: minorSub2, affix: v}
	case v <= 0xffffffff:
		return Minor{kind: minorSub4, affix: v}
	default:
		return Minor{kind: minorSub8, affix: v}
	}
}

// Uint64 returns the numeric value this Minor carries: the immediate
// field or the affix. Valid only for minorImmediate/minorSub*.
func (m Minor) Uint64() uint64 {
	if m.kind == minorImmediate {
		return uint64(m.immediate)
	}
	return m.affix
}

func (m Minor) selector() uint8 {
	switch m.kind {
	case minorImmediate:
		return m.immediate
	case minorSub1:
		return minSel1
	case minorSub2:
		return minSel2
	case minorSub4:
		return minSel4
	case minorSub8:
		return minSel8
	default:
		return minSelIndeterminate
	}
}

func (m Minor) affixLen() int {
	switch m.kind {
	case minorSub1:
		return 1
	case minorSub2:
		return 2
	case minorSub4:
		return 4
	case minorSub8:
		return 8
	default:
		return 0
	}
}

// Title is the on-wire discriminator of one CBOR item: (Major, Minor)
// (spec §3.1).
type Title struct {
	Major Major
	Minor Minor
}

// WriteTo encodes t as a prefix byte followed by its affix, via w.
func (t Title) WriteTo(w Writer) error {
	var buf [9]byte
	buf[0] = makePrefix(t.Major, t.Minor.selector())
	n := t.Minor.affixLen()
	switch n {
	case 1:
		buf[1] = uint8(t.Minor.affix)
	case 2:
		binary.BigEndian.PutUint16(buf[1:], uint16(t.Minor.affix))
	case 4:
		binary.BigEndian.PutUint32(buf[1:], uint32(t.Minor.affix))
	case 8:
		binary.BigEndian.PutUint64(buf[1:], t.Minor.affix)
	}
	return w.WriteAll(buf[:1+n])
}

// ReadTitle decodes one Title from r: a prefix byte, then its affix.
//
// Reserved minor selectors (28, 29, 30) are rejected with a SyntaxError at
// the prefix's offset.
func ReadTitle(r Reader) (Title, error) {
	var lead [1]byte
	if err := r.ReadExact(lead[:]); err != nil {
		return Title{}, err
	}
	major, sel := splitPrefix(lead[0])

	switch sel {
	case 28, 29, 30:
		return Title{}, &SyntaxError{Offset: 0, Msg: "reserved minor value"}
	}

	if sel <= minSelImmediateMax {
		return Title{Major: major, Minor: MinorImmediate(sel)}, nil
	}
	if sel == minSelIndeterminate {
		return Title{Major: major, Minor: MinorIndeterminate()}, nil
	}

	var n int
	switch sel {
	case minSel1:
		n = 1
	case minSel2:
		n = 2
	case minSel4:
		n = 4
	case minSel8:
		n = 8
	}
	var affix [8]byte
	if err := r.ReadExact(affix[:n]); err != nil {
		return Title{}, err
	}
	var v uint64
	switch n {
	case 1:
		v = uint64(affix[0])
	case 2:
		v = uint64(binary.BigEndian.Uint16(affix[:2]))
	case 4:
		v = uint64(binary.BigEndian.Uint32(affix[:4]))
	case 8:
		v = binary.BigEndian.Uint64(affix[:8])
	}
	var kind minorKind
	switch n {
	case 1:
		kind = minorSub1
	case 2:
		kind = minorSub2
	case 4:
		kind = minorSub4
	case 8:
		kind = minorSub8
	}
	return Title{Major: major, Minor: Minor{kind: kind, affix: v}}, nil
}
