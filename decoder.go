package cbor

// DefaultRecursionLimit bounds how deeply nested arrays, maps, and tags a
// Decoder will follow before failing with ErrRecursionLimitExceeded (spec
// §4.9, §7, P8). Chosen generously above any realistic legitimate nesting
// while still bounding adversarial input.
const DefaultRecursionLimit = 256

// DefaultScratchSize is the scratch buffer size ReadAllBytes/ReadAllText
// and other internal callers use when the caller has no buffer of its own
// to reuse (spec §5, "bounded by a small scratch buffer (typical 4096
// bytes for decode)").
const DefaultScratchSize = 4096

// Decoder pulls Headers from an underlying Reader, one item at a time,
// with a single slot of lookahead so callers can peek a Header before
// deciding how to interpret it (spec §4.7).
type Decoder struct {
	r      Reader
	offset int

	lookahead *Header

	depth    int
	maxDepth int
}

// NewDecoder constructs a Decoder reading from r, using DefaultRecursionLimit.
func NewDecoder(r Reader) *Decoder {
	return &Decoder{r: r, maxDepth: DefaultRecursionLimit}
}

// SetRecursionLimit overrides the decoder's maximum nesting depth.
func (d *Decoder) SetRecursionLimit(n int) { d.maxDepth = n }

// Offset returns the number of bytes consumed from the underlying Reader
// so far. The bytes of a Header held in the lookahead slot (after Push or
// Peek) are included: Push does not move the offset back.
func (d *Decoder) Offset() int { return d.offset }

func (d *Decoder) advance(n int) { d.offset += n }

// readTitle reads one Title directly off the wire (bypassing lookahead),
// recording the offset it started at so syntax errors can be annotated.
func (d *Decoder) readTitle() (Title, error) {
	start := d.offset
	t, err := ReadTitle(countingReader{r: d.r, offset: &d.offset})
	if err != nil {
		if se, ok := err.(*SyntaxError); ok {
			se.Offset = start
			return Title{}, se
		}
		return Title{}, err
	}
	return t, nil
}

// countingReader wraps a Reader, incrementing *offset by every byte
// successfully consumed, so the Decoder's offset tracks the wire position
// through ReadTitle's internal reads.
type countingReader struct {
	r      Reader
	offset *int
}

func (c countingReader) ReadExact(buf []byte) error {
	if err := c.r.ReadExact(buf); err != nil {
		return err
	}
	*c.offset += len(buf)
	return nil
}

// Pull reads the next Header from the stream: the lookahead slot if Push
// left one there, otherwise directly off the wire.
func (d *Decoder) Pull() (Header, error) {
	if d.lookahead != nil {
		h := *d.lookahead
		d.lookahead = nil
		return h, nil
	}
	start := d.offset
	t, err := d.readTitle()
	if err != nil {
		return Header{}, err
	}
	h, err := headerFromTitle(t)
	if err != nil {
		if se, ok := err.(*SyntaxError); ok {
			se.Offset = start
		}
		return Header{}, err
	}
	return h, nil
}

// Push returns a Header to the one-slot lookahead buffer, to be returned
// by the next Pull. It fails if the slot is already occupied (spec §4.7).
func (d *Decoder) Push(h Header) error {
	if d.lookahead != nil {
		return ErrPushOccupied
	}
	d.lookahead = &h
	return nil
}

// Peek reads the next Header without consuming it, leaving it in the
// lookahead slot for the following Pull.
func (d *Decoder) Peek() (Header, error) {
	if d.lookahead != nil {
		return *d.lookahead, nil
	}
	h, err := d.Pull()
	if err != nil {
		return Header{}, err
	}
	_ = d.Push(h)
	return h, nil
}

// enter increments the nesting depth for one array/map/tag level, failing
// once the recursion limit is exceeded (spec §4.9, P8).
func (d *Decoder) enter() error {
	d.depth++
	if d.depth > d.maxDepth {
		return ErrRecursionLimitExceeded
	}
	return nil
}

// leave decrements the nesting depth on exit from one array/map/tag level.
func (d *Decoder) leave() { d.depth-- }

// Bytes begins reading a byte-string item whose Header was just pulled,
// returning a Segments iterator over its chunk(s) (spec §4.4, §4.10,
// §4.7 "bytes(len, scratch)"). scratch bounds how much is read per Next
// call, regardless of the header's declared (and possibly adversarial)
// length; it must be non-empty.
func (d *Decoder) Bytes(h Header, scratch []byte) (*Segments, error) {
	if h.Kind() != KindBytes {
		return nil, semErrAt(d.offset, "expected byte string header")
	}
	return newSegments(d, MajorBytes, h, scratch)
}

// Text begins reading a text-string item whose Header was just pulled,
// returning a Segments iterator over its chunk(s) (spec §4.4, §4.10,
// §4.7 "text(len, scratch)"). scratch bounds how much is read per Next
// call, regardless of the header's declared (and possibly adversarial)
// length; it must be non-empty.
func (d *Decoder) Text(h Header, scratch []byte) (*Segments, error) {
	if h.Kind() != KindText {
		return nil, semErrAt(d.offset, "expected text string header")
	}
	return newSegments(d, MajorText, h, scratch)
}
