// Package cbor implements a CBOR (RFC 8949) codec core: a low-level item
// reader/writer, a dynamic Value model, a reflect-based serialization
// bridge, and deterministic/canonical re-encoding.
//
// The package is organized in the same layers a full CBOR implementation
// needs, leaves first:
//
//   - Title: the raw (Major, Minor) wire discriminator of one item.
//   - Header: the semantic view of a Title (integers, floats, lengths).
//   - Encoder/Decoder: push/pull Headers onto a byte Writer/Reader.
//   - Value: an in-memory mirror of the CBOR data model.
//   - Marshal/Unmarshal: a reflect-based bridge between ordinary Go values
//     and the Header stream.
//   - Canonicalize: deterministic (RFC 7049 or RFC 8949) re-encoding.
package cbor
