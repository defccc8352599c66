package cbor

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"
)

// Diagnose renders the next CBOR item read from dec in RFC 8949 §8
// diagnostic notation (spec §4.7 ambient stack: a Decoder-driven renderer
// grounded on the teacher's byte-slice diagnostic walker, adapted to our
// Header/Segments layer instead of raw prefix-byte peeking).
func Diagnose(dec *Decoder) (string, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	if err := diagOne(bb, dec); err != nil {
		return "", err
	}
	return string(bb.Bytes()), nil
}

// DiagBytes renders the single complete CBOR item encoded in b.
func DiagBytes(b []byte) (string, error) {
	return Diagnose(NewDecoder(NewSliceReader(b)))
}

func diagOne(buf *ByteBuffer, dec *Decoder) error {
	h, err := dec.Pull()
	if err != nil {
		return err
	}
	return diagHeader(buf, dec, h)
}

func diagHeader(buf *ByteBuffer, dec *Decoder, h Header) error {
	switch h.Kind() {
	case KindPositive:
		_, werr := buf.WriteString(strconv.FormatUint(h.Positive(), 10))
		return werr
	case KindNegative:
		i, _ := NegativeBignum(beBytesOf(h.Negative()))
		_, werr := buf.WriteString(i.String())
		return werr
	case KindFloat:
		f, bits := h.Float()
		_, werr := buf.WriteString(formatFloatDiag(f, bits))
		return werr
	case KindFalse:
		_, werr := buf.WriteString("false")
		return werr
	case KindTrue:
		_, werr := buf.WriteString("true")
		return werr
	case KindNull:
		_, werr := buf.WriteString("null")
		return werr
	case KindUndefined:
		_, werr := buf.WriteString("undefined")
		return werr
	case KindSimple:
		_, werr := buf.WriteString("simple(" + strconv.Itoa(int(h.Simple())) + ")")
		return werr
	case KindBytes:
		return diagBytes(buf, dec, h)
	case KindText:
		return diagText(buf, dec, h)
	case KindArray:
		return diagArray(buf, dec, h)
	case KindMap:
		return diagMap(buf, dec, h)
	case KindTag:
		return diagTag(buf, dec, h)
	case KindBreak:
		return synErr(dec.Offset(), "unexpected break in diagnostic notation")
	}
	panic("cbor: unreachable header kind")
}

func diagBytes(buf *ByteBuffer, dec *Decoder, h Header) error {
	seg, err := dec.Bytes(h, make([]byte, DefaultScratchSize))
	if err != nil {
		return err
	}
	if !h.IsIndefinite() {
		b, err := ReadAllBytes(seg)
		if err != nil {
			return err
		}
		return writeHexQuoted(buf, b)
	}
	buf.WriteString("(_ ")
	first := true
	for {
		chunk, ok, err := seg.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if !first {
			buf.WriteString(", ")
		}
		first = false
		if err := writeHexQuoted(buf, chunk); err != nil {
			return err
		}
	}
	_, werr := buf.WriteString(")")
	return werr
}

func writeHexQuoted(buf *ByteBuffer, b []byte) error {
	buf.WriteString("h'")
	d := buf.Extend(hex.EncodedLen(len(b)))
	hex.Encode(d, b)
	_, werr := buf.WriteString("'")
	return werr
}

func diagText(buf *ByteBuffer, dec *Decoder, h Header) error {
	seg, err := dec.Text(h, make([]byte, DefaultScratchSize))
	if err != nil {
		return err
	}
	if !h.IsIndefinite() {
		s, err := ReadAllText(seg)
		if err != nil {
			return err
		}
		_, werr := buf.WriteString(strconv.Quote(s))
		return werr
	}
	buf.WriteString("(_ ")
	first := true
	var stash utf8Stash
	for {
		chunk, ok, err := seg.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		work := chunk
		if stash.n > 0 {
			work = append(append([]byte(nil), stash.buf[:stash.n]...), chunk...)
			stash.n = 0
		}
		valid, incomplete := splitValidUTF8Prefix(work)
		if len(incomplete) > 3 {
			return ErrStashTooLarge
		}
		stash.n = copy(stash.buf[:], incomplete)
		if !first {
			buf.WriteString(", ")
		}
		first = false
		_, werr := buf.WriteString(strconv.Quote(string(valid)))
		if werr != nil {
			return werr
		}
	}
	_, werr := buf.WriteString(")")
	return werr
}

func diagArray(buf *ByteBuffer, dec *Decoder, h Header) error {
	if err := dec.enter(); err != nil {
		return err
	}
	defer dec.leave()
	if h.IsIndefinite() {
		buf.WriteString("[_ ")
		first := true
		for {
			next, err := dec.Pull()
			if err != nil {
				return err
			}
			if next.Kind() == KindBreak {
				break
			}
			if !first {
				buf.WriteString(", ")
			}
			first = false
			if err := diagHeader(buf, dec, next); err != nil {
				return err
			}
		}
		_, werr := buf.WriteString("]")
		return werr
	}
	buf.WriteString("[")
	n := h.Length()
	for i := uint64(0); i < n; i++ {
		if i > 0 {
			buf.WriteString(", ")
		}
		if err := diagOne(buf, dec); err != nil {
			return err
		}
	}
	_, werr := buf.WriteString("]")
	return werr
}

func diagMap(buf *ByteBuffer, dec *Decoder, h Header) error {
	if err := dec.enter(); err != nil {
		return err
	}
	defer dec.leave()
	if h.IsIndefinite() {
		buf.WriteString("{_ ")
		first := true
		for {
			next, err := dec.Pull()
			if err != nil {
				return err
			}
			if next.Kind() == KindBreak {
				break
			}
			if !first {
				buf.WriteString(", ")
			}
			first = false
			if err := diagHeader(buf, dec, next); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := diagOne(buf, dec); err != nil {
				return err
			}
		}
		_, werr := buf.WriteString("}")
		return werr
	}
	buf.WriteString("{")
	n := h.Length()
	for i := uint64(0); i < n; i++ {
		if i > 0 {
			buf.WriteString(", ")
		}
		if err := diagOne(buf, dec); err != nil {
			return err
		}
		buf.WriteString(": ")
		if err := diagOne(buf, dec); err != nil {
			return err
		}
	}
	_, werr := buf.WriteString("}")
	return werr
}

func diagTag(buf *ByteBuffer, dec *Decoder, h Header) error {
	buf.WriteString(strconv.FormatUint(h.Tag(), 10))
	buf.WriteString("(")
	if err := dec.enter(); err != nil {
		return err
	}
	defer dec.leave()
	if err := diagOne(buf, dec); err != nil {
		return err
	}
	_, werr := buf.WriteString(")")
	return werr
}

// formatFloatDiag renders a float in the fixed-point-preferred style RFC
// 8949's examples use, falling back to scientific notation for very large
// magnitudes and to the named tokens for non-finite values.
func formatFloatDiag(f float64, bits int) string {
	if math.IsInf(f, +1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	af := math.Abs(f)
	prec := 64
	if bits == 4 {
		prec = 32
	}
	if af == 0 || af < 1e15 {
		s := strconv.FormatFloat(f, 'f', -1, prec)
		return trimTrailingZerosDot(s)
	}
	return strconv.FormatFloat(f, 'g', -1, prec)
}

// trimTrailingZerosDot tidies strconv.FormatFloat's 'f'-mode output into the
// "always has a decimal point" style RFC 8949 §8's diagnostic examples use
// (1 -> "1.0", 1.50 -> "1.5"), without ever trimming the integer part of a
// whole number like "100" down to "1".
func trimTrailingZerosDot(s string) string {
	if !strings.Contains(s, ".") {
		return s + ".0"
	}
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i++
	}
	return s[:i]
}
