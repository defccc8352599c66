package cbor

import (
	"errors"
	"strconv"
)

const resumableDefault = false

var (
	// ErrRecursionLimitExceeded is returned when decoding nests arrays,
	// maps, or tags deeper than the configured recursion limit (spec §4.9,
	// §7, P8). This should only realistically be seen on adversarial data
	// trying to exhaust the stack.
	ErrRecursionLimitExceeded error = errRecursion{}

	// ErrUnexpectedBreak names a break (0xff) appearing where no
	// indefinite-length container is open. No decoder in this package
	// returns it: DecodeValue reports such a break as a *SemanticError and
	// Diagnose as a *SyntaxError.
	ErrUnexpectedBreak error = errors.New("cbor: unexpected break")

	// ErrInvalidUTF8 is returned when a text string contains invalid UTF-8
	// that cannot be salvaged across chunk boundaries (spec §4.4).
	ErrInvalidUTF8 error = errors.New("cbor: invalid UTF-8 in text string")

	// ErrIndefiniteForbidden names an indefinite-length item where
	// canonical form allows none (spec §4.5, §6.2). No function in this
	// package returns it: decoding has no strict or canonical mode, and
	// canonical encoding always writes definite lengths.
	ErrIndefiniteForbidden error = errors.New("cbor: indefinite-length item not allowed in canonical mode")

	// ErrBigIntTooLarge is returned when a Tag(2)/Tag(3) bignum payload
	// does not fit in 128 bits (spec §4.9).
	ErrBigIntTooLarge error = errors.New("cbor: bignum too large for 128 bits")

	// ErrStashTooLarge is returned when a text-string chunk, with any bytes
	// stashed from the previous chunk prepended, is not valid UTF-8 and
	// does not split into a valid prefix plus an incomplete trailing
	// sequence of at most 3 bytes (spec §4.4, §4.10). Bytes still stashed
	// at end of stream are reported as ErrInvalidUTF8 instead.
	ErrStashTooLarge error = errors.New("cbor: invalid UTF-8 stash across chunk boundary")

	// ErrPushOccupied is returned by Decoder.Push when the one-slot
	// lookahead buffer already holds a Header (spec §4.7).
	ErrPushOccupied error = errors.New("cbor: decoder lookahead slot already occupied")

	// ErrEmptyScratch is returned by Decoder.Bytes/Text when given a
	// zero-length scratch buffer, which could never make progress reading
	// a non-empty chunk (spec §4.4, §5).
	ErrEmptyScratch error = errors.New("cbor: scratch buffer must be non-empty")
)

// Error is the interface satisfied by all of the errors that originate
// from this package (spec §6.4).
type Error interface {
	error

	// Resumable reports whether the stream is merely well-formed-but-
	// unexpected (true) or genuinely malformed and unrecoverable (false).
	Resumable() bool
}

// contextError allows Error instances to be enhanced with additional
// context about their origin.
type contextError interface {
	Error

	// withContext must not modify the error instance - it must clone and
	// return a new error with the context added.
	withContext(ctx string) error
}

// Cause returns the underlying cause of an error that has been wrapped
// with additional context.
func Cause(e error) error {
	out := e
	if e, ok := e.(errWrapped); ok && e.cause != nil {
		out = e.cause
	}
	return out
}

// Resumable reports whether the stream of data is still usable after e:
// true when e is a well-formed-but-unexpected error from this package,
// false when the data is malformed and unrecoverable or when e does not
// implement Error.
func Resumable(e error) bool {
	if e, ok := e.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

// WrapError wraps an error with additional context that allows the part of
// the item that caused the problem to be identified. Underlying errors can
// be retrieved using Cause().
//
// The input error is not modified - a new error is returned.
func WrapError(err error, ctx ...any) error {
	switch e := err.(type) {
	case contextError:
		return e.withContext(ctxString(ctx))
	default:
		return errWrapped{cause: err, ctx: ctxString(ctx)}
	}
}

func addCtx(ctx, add string) string {
	if ctx != "" {
		return add + "/" + ctx
	}
	return add
}

// ctxString renders a WrapError context path from its variadic components,
// joined innermost-first the way the teacher's decoder annotates field and
// index context while unwinding.
func ctxString(ctx []any) string {
	if len(ctx) == 0 {
		return ""
	}
	out := ""
	for i, c := range ctx {
		if i > 0 {
			out += "/"
		}
		switch v := c.(type) {
		case string:
			out += v
		case int:
			out += strconv.Itoa(v)
		default:
			out += fmtStringer(v)
		}
	}
	return out
}

func fmtStringer(v any) string {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return "?"
}

// errWrapped allows arbitrary errors passed to WrapError to be enhanced
// with context and unwrapped with Cause().
type errWrapped struct {
	cause error
	ctx   string
}

func (e errWrapped) Error() string {
	if e.ctx != "" {
		return e.cause.Error() + " at " + e.ctx
	}
	return e.cause.Error()
}

func (e errWrapped) Resumable() bool {
	if e, ok := e.cause.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

// Unwrap returns the cause.
func (e errWrapped) Unwrap() error { return e.cause }

type errRecursion struct{}

func (e errRecursion) Error() string   { return "cbor: recursion limit exceeded" }
func (e errRecursion) Resumable() bool { return false }

// SyntaxError reports malformed CBOR: a reserved minor value, a stray
// break, an indefinite-length string nested inside another
// indefinite-length string, and similar (spec §6.4, §7). Offset points at
// the byte where the offending header began. Invalid UTF-8 in a text
// string is not reported as a SyntaxError: it surfaces as ErrInvalidUTF8
// or ErrStashTooLarge, which carry no offset.
type SyntaxError struct {
	Offset int
	Msg    string
	ctx    string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	out := "cbor: syntax error at offset " + strconv.Itoa(e.Offset) + ": " + e.Msg
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

// Resumable is always false for SyntaxError: the stream is unrecoverable.
func (e *SyntaxError) Resumable() bool { return false }

func (e *SyntaxError) withContext(ctx string) error {
	o := *e
	o.ctx = addCtx(o.ctx, ctx)
	return &o
}

func synErr(offset int, msg string) error { return &SyntaxError{Offset: offset, Msg: msg} }

// SemanticError reports well-formed CBOR that does not match what the
// caller asked for: wrong major type for the requested method, an unknown
// simple value, a big-integer that overflows its target (spec §6.4, §7).
// Offset is optional, since
// not every semantic mismatch has a natural byte position.
type SemanticError struct {
	HasOffset bool
	Offset    int
	Message   string
	ctx       string
}

// Error implements the error interface.
func (e *SemanticError) Error() string {
	out := "cbor: semantic error"
	if e.HasOffset {
		out += " at offset " + strconv.Itoa(e.Offset)
	}
	out += ": " + e.Message
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

// Resumable is always true for SemanticError: the bytes were well formed,
// only their interpretation was rejected.
func (e *SemanticError) Resumable() bool { return true }

func (e *SemanticError) withContext(ctx string) error {
	o := *e
	o.ctx = addCtx(o.ctx, ctx)
	return &o
}

func semErr(msg string) error { return &SemanticError{Message: msg} }

func semErrAt(offset int, msg string) error {
	return &SemanticError{HasOffset: true, Offset: offset, Message: msg}
}

// ValueError is a serializer-side error: a caller-supplied value does not
// fit the shape the encoder requires, e.g. a map key that is itself a map
// (spec §6.4).
type ValueError struct {
	Message string
	ctx     string
}

// Error implements the error interface.
func (e *ValueError) Error() string {
	out := "cbor: " + e.Message
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

// Resumable is always true for ValueError.
func (e *ValueError) Resumable() bool { return true }

func (e *ValueError) withContext(ctx string) error {
	o := *e
	o.ctx = addCtx(o.ctx, ctx)
	return &o
}

func valueErr(msg string) error { return &ValueError{Message: msg} }

// UnsupportedTypeError is returned by Marshal/Unmarshal when asked to
// encode or decode a Go type that has no CBOR mapping, e.g. a channel or
// a function value.
type UnsupportedTypeError struct {
	TypeName string
	ctx      string
}

// Error implements the error interface.
func (e *UnsupportedTypeError) Error() string {
	out := "cbor: type " + strconv.Quote(e.TypeName) + " not supported"
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

// Resumable is always true for UnsupportedTypeError.
func (e *UnsupportedTypeError) Resumable() bool { return true }

func (e *UnsupportedTypeError) withContext(ctx string) error {
	o := *e
	o.ctx = addCtx(o.ctx, ctx)
	return &o
}
