package cbor

import "reflect"

// SimpleValue wraps a CBOR major-7 simple value that is not one of the
// four reserved ones (false/true/null/undefined), for round-tripping
// unknown or application-defined simple values (spec §3.4, §6.3).
type SimpleValue uint8

// Tag pairs a CBOR tag number with an arbitrary tagged payload (spec §3.4,
// §6.3). It is the escape hatch for tag numbers this package has no
// built-in semantics for (anything but 2 and 3, which fuse into Integer).
//
// Because Go lacks the serde-style distinguished type/variant names the
// spec's host data model uses to smuggle this through a generic bridge
// (`@@TAG@@`/`@@TAGGED@@`), Tag[T] instead implements isCBORTag with a
// value receiver: Marshal/Unmarshal recognize any Tag[T] instantiation by
// reflect.Type.Implements, without enumerating T (spec §6.3).
type Tag[T any] struct {
	Number  uint64
	Content T
}

// NewTag constructs a Tag wrapping content under the given tag number.
func NewTag[T any](number uint64, content T) Tag[T] {
	return Tag[T]{Number: number, Content: content}
}

// isCBORTag marks every Tag[T] instantiation for the reflect bridge.
type isCBORTag interface{ isCBORTag() }

func (Tag[T]) isCBORTag() {}

var (
	tagInterfaceType = reflect.TypeOf((*isCBORTag)(nil)).Elem()
	simpleValueType  = reflect.TypeOf(SimpleValue(0))
	valueType        = reflect.TypeOf(Value{})
)
