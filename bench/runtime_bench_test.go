package benchmarks

import (
	"testing"

	msgp "github.com/tinylib/msgp/msgp"

	cbor "github.com/tangle-systems/cbor-core"
)

// Primitive encode microbenchmarks comparing this package's low-level
// Encoder against tinylib/msgp's AppendXxx runtime for similar
// single-value operations, to surface regressions in the Header/Title
// codec relative to a mature hand-tuned MessagePack implementation.

func BenchmarkCBOR_EncodeInt64(b *testing.B) {
	w := cbor.NewSliceWriter()
	enc := cbor.NewEncoder(w)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Reset()
		_ = enc.Push(cbor.HeaderPositive(uint64(i)))
	}
}

func BenchmarkMsgp_AppendInt64(b *testing.B) {
	var out []byte
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = msgp.AppendInt64(out[:0], int64(i))
	}
	_ = out
}

func BenchmarkCBOR_EncodeString(b *testing.B) {
	w := cbor.NewSliceWriter()
	enc := cbor.NewEncoder(w)
	s := "hello world"
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Reset()
		_ = enc.EncodeTextDefinite(s)
	}
}

func BenchmarkMsgp_AppendString(b *testing.B) {
	var out []byte
	s := "hello world"
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = msgp.AppendString(out[:0], s)
	}
	_ = out
}

func BenchmarkCBOR_EncodeBytes(b *testing.B) {
	w := cbor.NewSliceWriter()
	enc := cbor.NewEncoder(w)
	data := []byte("payload bytes")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Reset()
		_ = enc.EncodeBytesDefinite(data)
	}
}

func BenchmarkMsgp_AppendBytes(b *testing.B) {
	var out []byte
	data := []byte("payload bytes")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = msgp.AppendBytes(out[:0], data)
	}
	_ = out
}
