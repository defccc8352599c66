package cbor

import (
	"reflect"
	"strconv"
	"strings"
)

// EncOptions configures Marshal's behavior (spec §4.8).
type EncOptions struct {
	// Canonical, when set, re-encodes the output deterministically per
	// Mode once the reflect walk completes.
	Canonical bool
	Mode      CanonicalMode
}

// DecOptions configures Unmarshal's behavior (spec §4.9).
type DecOptions struct {
	// RecursionLimit overrides DefaultRecursionLimit when nonzero.
	RecursionLimit int
}

// Marshal encodes v to CBOR using struct tags and reflection as the
// idiomatic Go substitute for the tagged-derive-macro bridge other CBOR
// ecosystems generate at compile time (spec §4.8, ambient stack).
//
// Struct fields use a `cbor:"name,omitempty"` tag, falling back to the
// field's `json` tag, then its Go name, mirroring the convention
// established by the wider Go CBOR ecosystem.
func Marshal(v any, opts EncOptions) ([]byte, error) {
	w := NewSliceWriter()
	enc := NewEncoder(w)
	if err := marshalValue(enc, reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	out := w.Bytes()
	if !opts.Canonical {
		return out, nil
	}
	val, err := DecodeValue(NewDecoder(NewSliceReader(out)))
	if err != nil {
		return nil, err
	}
	cw := NewSliceWriter()
	if err := EncodeCanonical(cw, val, opts.Mode); err != nil {
		return nil, err
	}
	return cw.Bytes(), nil
}

func marshalValue(enc *Encoder, rv reflect.Value) error {
	if !rv.IsValid() {
		return enc.Push(HeaderNull())
	}
	if rv.Type() == valueType {
		return EncodeValue(enc, rv.Interface().(Value))
	}
	if rv.Type() == simpleValueType {
		return enc.Push(HeaderSimple(uint8(rv.Uint())))
	}
	if rv.Kind() == reflect.Struct && rv.Type().Implements(tagInterfaceType) {
		return marshalTag(enc, rv)
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return enc.Push(HeaderNull())
		}
		return marshalValue(enc, rv.Elem())
	case reflect.Bool:
		if rv.Bool() {
			return enc.Push(HeaderTrue())
		}
		return enc.Push(HeaderFalse())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n >= 0 {
			return enc.Push(HeaderPositive(uint64(n)))
		}
		return enc.Push(HeaderNegative(uint64(-n - 1)))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return enc.Push(HeaderPositive(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return enc.Push(NarrowFloat(rv.Float()))
	case reflect.String:
		return enc.EncodeTextDefinite(rv.String())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return enc.EncodeBytesDefinite(rv.Bytes())
		}
		return marshalSequence(enc, rv)
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			buf := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(buf), rv)
			return enc.EncodeBytesDefinite(buf)
		}
		return marshalSequence(enc, rv)
	case reflect.Map:
		return marshalMap(enc, rv)
	case reflect.Struct:
		return marshalStruct(enc, rv)
	default:
		return &UnsupportedTypeError{TypeName: rv.Type().String()}
	}
}

// marshalTag emits a Tag[T] as Tag(Number) followed by Content, the wire
// form spec §3.4/§6.3's `@@TAG@@`/`@@TAGGED@@` escape hatch describes for
// hosts whose data model has no native tag concept.
func marshalTag(enc *Encoder, rv reflect.Value) error {
	number := rv.FieldByName("Number").Uint()
	if err := enc.Push(HeaderTag(number)); err != nil {
		return err
	}
	return marshalValue(enc, rv.FieldByName("Content"))
}

func marshalSequence(enc *Encoder, rv reflect.Value) error {
	if err := enc.Push(HeaderArray(uint64(rv.Len()))); err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		if err := marshalValue(enc, rv.Index(i)); err != nil {
			return WrapError(err, strconv.Itoa(i))
		}
	}
	return nil
}

func marshalMap(enc *Encoder, rv reflect.Value) error {
	keys := rv.MapKeys()
	if err := enc.Push(HeaderMap(uint64(len(keys)))); err != nil {
		return err
	}
	for _, k := range keys {
		if err := marshalValue(enc, k); err != nil {
			return err
		}
		if err := marshalValue(enc, rv.MapIndex(k)); err != nil {
			return err
		}
	}
	return nil
}

type fieldPlan struct {
	index     []int
	name      string
	omitempty bool
}

func marshalStruct(enc *Encoder, rv reflect.Value) error {
	fields := structFields(rv.Type())
	var present []fieldPlan
	for _, f := range fields {
		fv := rv.FieldByIndex(f.index)
		if f.omitempty && isEmptyValue(fv) {
			continue
		}
		present = append(present, f)
	}
	if err := enc.Push(HeaderMap(uint64(len(present)))); err != nil {
		return err
	}
	for _, f := range present {
		if err := enc.EncodeTextDefinite(f.name); err != nil {
			return err
		}
		if err := marshalValue(enc, rv.FieldByIndex(f.index)); err != nil {
			return WrapError(err, f.name)
		}
	}
	return nil
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

// structFields computes the wire field plan for t, reading `cbor` tags
// and falling back to `json` tags, then the Go field name (spec §4.8
// ambient reflect-bridge convention).
func structFields(t reflect.Type) []fieldPlan {
	var out []fieldPlan
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" && !f.Anonymous {
			continue
		}
		tag := f.Tag.Get("cbor")
		if tag == "" {
			tag = f.Tag.Get("json")
		}
		name := f.Name
		omitempty := false
		if tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "omitempty" {
					omitempty = true
				}
			}
		}
		out = append(out, fieldPlan{index: f.Index, name: name, omitempty: omitempty})
	}
	return out
}

// Unmarshal decodes CBOR bytes into v, which must be a non-nil pointer
// (spec §4.9).
func Unmarshal(data []byte, v any, opts DecOptions) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return valueErr("Unmarshal target must be a non-nil pointer")
	}
	dec := NewDecoder(NewSliceReader(data))
	if opts.RecursionLimit > 0 {
		dec.SetRecursionLimit(opts.RecursionLimit)
	}
	val, err := DecodeValue(dec)
	if err != nil {
		return err
	}
	return assignValue(rv.Elem(), val)
}

func assignValue(dst reflect.Value, v Value) error {
	if dst.Kind() == reflect.Pointer {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return assignValue(dst.Elem(), v)
	}
	if dst.Kind() == reflect.Interface && dst.NumMethod() == 0 {
		dst.Set(reflect.ValueOf(toNative(v)))
		return nil
	}
	if dst.Type() == valueType {
		dst.Set(reflect.ValueOf(v))
		return nil
	}
	if dst.Type() == simpleValueType {
		if v.Kind() != ValueSimple {
			return semErr("expected simple value")
		}
		dst.SetUint(uint64(v.Simple()))
		return nil
	}
	if dst.Kind() == reflect.Struct && dst.Type().Implements(tagInterfaceType) {
		return assignTag(dst, v)
	}

	switch v.Kind() {
	case ValueInteger:
		return assignInteger(dst, v.Integer())
	case ValueFloat:
		if dst.Kind() == reflect.Float32 || dst.Kind() == reflect.Float64 {
			dst.SetFloat(v.Float())
			return nil
		}
		return semErr("cannot assign float into " + dst.Kind().String())
	case ValueBool:
		if dst.Kind() != reflect.Bool {
			return semErr("cannot assign bool into " + dst.Kind().String())
		}
		dst.SetBool(v.Bool())
		return nil
	case ValueText:
		if dst.Kind() != reflect.String {
			return semErr("cannot assign text into " + dst.Kind().String())
		}
		dst.SetString(v.Text())
		return nil
	case ValueBytes:
		if dst.Kind() == reflect.Slice && dst.Type().Elem().Kind() == reflect.Uint8 {
			dst.SetBytes(v.Bytes())
			return nil
		}
		return semErr("cannot assign byte string into " + dst.Kind().String())
	case ValueArray:
		return assignArray(dst, v.Array())
	case ValueMap:
		return assignMap(dst, v.Map())
	case ValueNull, ValueUndefined:
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	case ValueTag:
		return assignValue(dst, v.TagContent())
	case ValueSimple:
		return semErr("cannot assign simple value into " + dst.Kind().String())
	}
	return semErr("unhandled value kind")
}

// assignTag unwraps a ValueTag into a Tag[T] destination (spec §3.4,
// §6.3). A plain (non-tag) Value is rejected: unlike deserialize_any's
// tag-skipping default, a destination explicitly typed as Tag[T] is the
// opt-in "tag-observing" path the spec's design notes call for.
func assignTag(dst reflect.Value, v Value) error {
	if v.Kind() != ValueTag {
		return semErr("expected tag, found " + dst.Type().String() + " destination for non-tag value")
	}
	dst.FieldByName("Number").SetUint(v.TagNumber())
	return assignValue(dst.FieldByName("Content"), v.TagContent())
}

func assignInteger(dst reflect.Value, i Int128) error {
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := i.Int64()
		if !ok {
			return semErr("integer overflows destination")
		}
		dst.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, ok := i.Uint64()
		if !ok {
			return semErr("integer overflows destination")
		}
		dst.SetUint(u)
		return nil
	default:
		return semErr("cannot assign integer into " + dst.Kind().String())
	}
}

func assignArray(dst reflect.Value, elems []Value) error {
	switch dst.Kind() {
	case reflect.Slice:
		out := reflect.MakeSlice(dst.Type(), len(elems), len(elems))
		for i, e := range elems {
			if err := assignValue(out.Index(i), e); err != nil {
				return WrapError(err, strconv.Itoa(i))
			}
		}
		dst.Set(out)
		return nil
	case reflect.Array:
		if dst.Len() != len(elems) {
			return semErr("array length mismatch")
		}
		for i, e := range elems {
			if err := assignValue(dst.Index(i), e); err != nil {
				return WrapError(err, strconv.Itoa(i))
			}
		}
		return nil
	default:
		return semErr("cannot assign array into " + dst.Kind().String())
	}
}

func assignMap(dst reflect.Value, entries []MapEntry) error {
	switch dst.Kind() {
	case reflect.Map:
		out := reflect.MakeMapWithSize(dst.Type(), len(entries))
		for _, e := range entries {
			k := reflect.New(dst.Type().Key()).Elem()
			if err := assignValue(k, e.Key); err != nil {
				return err
			}
			val := reflect.New(dst.Type().Elem()).Elem()
			if err := assignValue(val, e.Value); err != nil {
				return err
			}
			out.SetMapIndex(k, val)
		}
		dst.Set(out)
		return nil
	case reflect.Struct:
		fields := structFields(dst.Type())
		byName := make(map[string]fieldPlan, len(fields))
		for _, f := range fields {
			byName[f.name] = f
		}
		for _, e := range entries {
			if e.Key.Kind() != ValueText {
				continue
			}
			f, ok := byName[e.Key.Text()]
			if !ok {
				continue
			}
			if err := assignValue(dst.FieldByIndex(f.index), e.Value); err != nil {
				return WrapError(err, f.name)
			}
		}
		return nil
	default:
		return semErr("cannot assign map into " + dst.Kind().String())
	}
}

// toNative converts a Value into a plain Go any for assignment into an
// interface{} destination: map[string]any, []any, string, bool, nil,
// float64, or int64/uint64 (whichever natively fits).
func toNative(v Value) any {
	switch v.Kind() {
	case ValueInteger:
		if n, ok := v.Integer().Int64(); ok {
			return n
		}
		if u, ok := v.Integer().Uint64(); ok {
			return u
		}
		return v.Integer()
	case ValueFloat:
		return v.Float()
	case ValueBool:
		return v.Bool()
	case ValueText:
		return v.Text()
	case ValueBytes:
		return v.Bytes()
	case ValueArray:
		out := make([]any, len(v.Array()))
		for i, e := range v.Array() {
			out[i] = toNative(e)
		}
		return out
	case ValueMap:
		out := make(map[string]any, len(v.Map()))
		for _, e := range v.Map() {
			key := e.Key.Text()
			if e.Key.Kind() != ValueText {
				key = string(encodeValueBytes(e.Key))
			}
			out[key] = toNative(e.Value)
		}
		return out
	case ValueTag:
		return toNative(v.TagContent())
	case ValueNull, ValueUndefined:
		return nil
	default:
		return nil
	}
}
