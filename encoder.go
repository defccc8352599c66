package cbor

// Encoder pushes Headers onto an underlying Writer, one item at a time
// (spec §4.6).
type Encoder struct {
	w Writer
}

// NewEncoder constructs an Encoder writing to w.
func NewEncoder(w Writer) *Encoder { return &Encoder{w: w} }

// Push writes one Header's Title to the wire. Container and string
// Headers carry only their length/indefinite marker. Array and map items
// follow as further Pushes; an indefinite string's chunks follow via
// WriteBytes/WriteText, each of which writes its own chunk header, and
// Break closes it. Encoder has no method that writes a raw payload after
// a pushed definite Bytes/Text Header: EncodeBytesDefinite and
// EncodeTextDefinite write such a string whole.
func (e *Encoder) Push(h Header) error {
	return h.title().WriteTo(e.w)
}

// WriteBytes writes a single definite-length byte-string chunk (spec
// §4.4). Splitting a string across multiple chunks is the caller's
// responsibility: call Push with an indefinite Header, then WriteBytes/
// WriteText once per chunk, then Break.
func (e *Encoder) WriteBytes(p []byte) error {
	if err := Title{Major: MajorBytes, Minor: minorFromUint(uint64(len(p)))}.WriteTo(e.w); err != nil {
		return err
	}
	return e.w.WriteAll(p)
}

// WriteText writes a single definite-length text-string chunk.
func (e *Encoder) WriteText(s string) error {
	if err := Title{Major: MajorText, Minor: minorFromUint(uint64(len(s)))}.WriteTo(e.w); err != nil {
		return err
	}
	return e.w.WriteAll([]byte(s))
}

// Break writes the 0xff byte terminating an indefinite-length container
// or string (spec §4.4).
func (e *Encoder) Break() error {
	return e.w.WriteAll([]byte{breakByte})
}

// Flush flushes the underlying Writer.
func (e *Encoder) Flush() error { return e.w.Flush() }

// EncodeBytesDefinite writes a complete definite-length byte string in
// one call: the Bytes Header followed by its payload.
func (e *Encoder) EncodeBytesDefinite(p []byte) error {
	if err := e.Push(HeaderBytes(uint64(len(p)))); err != nil {
		return err
	}
	return e.w.WriteAll(p)
}

// EncodeTextDefinite writes a complete definite-length text string in one
// call: the Text Header followed by its UTF-8 payload.
func (e *Encoder) EncodeTextDefinite(s string) error {
	if err := e.Push(HeaderText(uint64(len(s)))); err != nil {
		return err
	}
	return e.w.WriteAll([]byte(s))
}
