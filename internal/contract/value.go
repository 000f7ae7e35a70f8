package contract

import (
	"fmt"
	"reflect"
	"strings"
)

// ValueKind discriminates the shapes a decoded call result can take.
type ValueKind int

const (
	NullKind ValueKind = iota
	ScalarKind
	SeqKind
	TupleKind
)

// Value is one decoded call result: a scalar leaf, an ordered sequence, a
// tuple of ordered name/value pairs, or null. Results are decoded into this
// shape exactly once, at the client boundary, so display code never has to
// probe the client library's raw representation.
type Value struct {
	Kind   ValueKind
	Scalar any     // set when Kind == ScalarKind
	Elems  []Value // set when Kind == SeqKind
	Fields []Field // set when Kind == TupleKind, in declaration order
}

// Field is one named slot of a tuple value. Name may be empty when the ABI
// left the component anonymous.
type Field struct {
	Name  string
	Value Value
}

// UnpackOutputs decodes raw return data against the method's output spec and
// converts it into Values.
func UnpackOutputs(m Method, data []byte) ([]Value, error) {
	args, err := arguments(m.Outputs)
	if err != nil {
		return nil, err
	}
	vals, err := args.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("decoding return data: %w", err)
	}
	return DecodeValues(m.Outputs, vals), nil
}

// DecodeValues walks the unpacked values in parallel with the param spec and
// builds the Value tree. Works for outputs and (when decoding calldata)
// inputs alike. Missing trailing values decode as null.
func DecodeValues(params []ABIParam, vals []any) []Value {
	decoded := make([]Value, len(params))
	for i, p := range params {
		var v any
		if i < len(vals) {
			v = vals[i]
		}
		decoded[i] = decodeValue(p, v)
	}
	return decoded
}

func decodeValue(p ABIParam, v any) Value {
	if v == nil {
		return Value{Kind: NullKind}
	}
	// Array suffix on the declared type, not reflect kind: bytes32 unpacks to
	// a [32]byte array but is a scalar for display.
	if strings.HasSuffix(p.Type, "]") {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return Value{Kind: ScalarKind, Scalar: v}
		}
		elem := elemParam(p)
		elems := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elems[i] = decodeValue(elem, rv.Index(i).Interface())
		}
		return Value{Kind: SeqKind, Elems: elems}
	}
	if p.IsTuple() {
		return decodeTuple(p.Components, v)
	}
	return Value{Kind: ScalarKind, Scalar: v}
}

// decodeTuple maps a decoded struct onto the component spec by field index;
// the decoder lays struct fields out in component declaration order.
func decodeTuple(comps []ABIParam, v any) Value {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return Value{Kind: ScalarKind, Scalar: v}
	}
	fields := make([]Field, 0, len(comps))
	for i, c := range comps {
		if i >= rv.NumField() {
			break
		}
		fields = append(fields, Field{Name: c.Name, Value: decodeValue(c, rv.Field(i).Interface())})
	}
	return Value{Kind: TupleKind, Fields: fields}
}

// elemParam strips the outermost array suffix, e.g. "uint256[3][]" becomes
// "uint256[3]". Components carry over for tuple arrays.
func elemParam(p ABIParam) ABIParam {
	i := strings.LastIndex(p.Type, "[")
	return ABIParam{Name: p.Name, Type: p.Type[:i], Components: p.Components}
}
