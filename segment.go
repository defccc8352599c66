package cbor

import "unicode/utf8"

// Segments iterates the chunks of a definite- or indefinite-length byte or
// text string, reading into a caller-supplied scratch buffer rather than
// allocating the wire-declared (and so attacker-controlled) length up
// front (spec §4.4, §4.10, §5, §9 "a segment reader borrows the decoder
// and a scratch buffer"). A definite-length string surfaces as one or more
// scratch-sized chunks; an indefinite-length string surfaces one or more
// scratch-sized chunks per nested definite-length chunk, terminated by the
// break. Each chunk returned by Next aliases scratch and is only valid
// until the next call.
type Segments struct {
	dec        *Decoder
	major      Major // MajorBytes or MajorText
	scratch    []byte
	indefinite bool
	done       bool
	// remaining is the number of payload bytes left to read before the
	// current chunk (definite mode) or current sub-chunk (indefinite
	// mode) is exhausted and a new Title must be read.
	remaining uint64
}

// newSegments constructs a Segments iterator from a just-read Bytes/Text
// Header, reading at most len(scratch) bytes per Next call.
func newSegments(dec *Decoder, major Major, h Header, scratch []byte) (*Segments, error) {
	if len(scratch) == 0 {
		return nil, ErrEmptyScratch
	}
	s := &Segments{dec: dec, major: major, scratch: scratch}
	if h.IsIndefinite() {
		s.indefinite = true
		return s, nil
	}
	s.remaining = h.Length()
	return s, nil
}

// Next reads the next chunk of the string into s's scratch buffer,
// bounded by min(len(scratch), bytes left in the current chunk), or
// returns (nil, false, nil) once the string is exhausted. The returned
// slice aliases scratch and is invalidated by the next call to Next.
func (s *Segments) Next() ([]byte, bool, error) {
	if s.done {
		return nil, false, nil
	}
	if s.indefinite {
		for s.remaining == 0 {
			// Each sub-chunk is itself a definite-length Title of the
			// same major type, or the terminating break.
			offset := s.dec.offset
			t, err := s.dec.readTitle()
			if err != nil {
				return nil, false, err
			}
			if t.Major == MajorOther && t.Minor.kind == minorIndeterminate {
				s.done = true
				return nil, false, nil
			}
			if t.Major != s.major {
				return nil, false, synErr(offset, "chunk of indefinite-length string has mismatched major type")
			}
			if t.Minor.kind == minorIndeterminate {
				return nil, false, synErr(offset, "indefinite-length string chunk cannot itself be indefinite")
			}
			s.remaining = t.Minor.Uint64()
		}
	}

	n := uint64(len(s.scratch))
	if n > s.remaining {
		n = s.remaining
	}
	buf := s.scratch[:n]
	if n > 0 {
		if err := s.dec.r.ReadExact(buf); err != nil {
			return nil, false, err
		}
		s.dec.advance(int(n))
	}
	s.remaining -= n
	if !s.indefinite && s.remaining == 0 {
		s.done = true
	}
	return buf, true, nil
}

// ReadAllBytes drains a byte-string Segments into one concatenated slice
// (spec §4.10).
func ReadAllBytes(s *Segments) ([]byte, error) {
	var out []byte
	for {
		chunk, ok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, chunk...)
	}
}

// utf8Stash holds up to 3 trailing bytes of an incomplete UTF-8 sequence
// carried over a text-string chunk boundary (spec §4.4).
type utf8Stash struct {
	buf [3]byte
	n   int
}

// ReadAllText drains a text-string Segments into one string, validating
// UTF-8 across chunk boundaries by stashing a trailing incomplete
// sequence (at most 3 bytes) and prepending it to the next chunk before
// validating (spec §4.4, §4.10).
func ReadAllText(s *Segments) (string, error) {
	var out []byte
	var stash utf8Stash

	for {
		chunk, ok, err := s.Next()
		if err != nil {
			return "", err
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
			return "", ErrStashTooLarge
		}
		out = append(out, valid...)
		stash.n = copy(stash.buf[:], incomplete)
	}

	if stash.n > 0 {
		return "", ErrInvalidUTF8
	}
	return string(out), nil
}

// splitValidUTF8Prefix splits buf into the longest valid-UTF-8 prefix and
// a possibly-incomplete (but not necessarily short) trailing remainder.
// The remainder is considered a salvageable stash only when it is at most
// 3 bytes and forms a valid incomplete-rune prefix; a genuinely invalid
// byte sequence is reported by the caller via ErrInvalidUTF8 once no more
// chunks arrive to complete it.
func splitValidUTF8Prefix(buf []byte) (valid, rest []byte) {
	if utf8.Valid(buf) {
		return buf, nil
	}
	// Walk from the end, trying successively longer trailing candidate
	// windows (up to 3 bytes, the longest an incomplete rune can be) to
	// see if the remainder decodes cleanly and the tail is an
	// in-progress multi-byte sequence rather than outright garbage.
	for back := 1; back <= 3 && back <= len(buf); back++ {
		head := buf[:len(buf)-back]
		tail := buf[len(buf)-back:]
		if !utf8.Valid(head) {
			continue
		}
		if isIncompleteRunePrefix(tail) {
			return head, tail
		}
	}
	// No salvageable split found; treat the whole thing as invalid so the
	// caller surfaces ErrInvalidUTF8.
	return nil, buf
}

// isIncompleteRunePrefix reports whether tail looks like the truncated
// leading bytes of one multi-byte UTF-8 rune (i.e., decoding it alone
// yields utf8.RuneError with size 1, the stdlib's "incomplete" signal,
// while the first byte declares a longer sequence than is present).
func isIncompleteRunePrefix(tail []byte) bool {
	if len(tail) == 0 {
		return false
	}
	r, size := utf8.DecodeRune(tail)
	if r != utf8.RuneError || size != 1 {
		return false
	}
	want := runeLength(tail[0])
	return want > len(tail)
}

// runeLength returns the total byte length a UTF-8 sequence declares via
// its leading byte, or 0 if lead is not a valid multi-byte lead byte.
func runeLength(lead byte) int {
	switch {
	case lead&0x80 == 0x00:
		return 1
	case lead&0xe0 == 0xc0:
		return 2
	case lead&0xf0 == 0xe0:
		return 3
	case lead&0xf8 == 0xf0:
		return 4
	default:
		return 0
	}
}
