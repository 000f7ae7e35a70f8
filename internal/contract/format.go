package contract

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// FormatOutputs renders a decoded result against the method's output spec.
// Plural outputs become a braced block with one "name: value" entry per line;
// a single output renders bare. No outputs renders as "null". The function is
// pure: equal inputs always produce the same string.
func FormatOutputs(outputs []ABIParam, vals []Value) string {
	if len(outputs) == 0 {
		return "null"
	}
	if len(outputs) == 1 {
		return FormatValue(outputs[0], valueAt(vals, 0))
	}
	parts := make([]string, len(outputs))
	for i, out := range outputs {
		parts[i] = label(out.Name, i) + ": " + FormatValue(out, valueAt(vals, i))
	}
	return braced(parts)
}

// FormatValue renders one decoded value against its output spec:
//
//	null          -> "null"
//	tuple         -> braced name/value block, one entry per line
//	tuple array   -> "[" newline-joined blocks "]"
//	sequence      -> "[ a, b, c ]" on one line
//	scalar        -> see formatScalar
func FormatValue(p ABIParam, v Value) string {
	switch v.Kind {
	case NullKind:
		return "null"

	case TupleKind:
		if len(v.Fields) == 0 {
			return "{}"
		}
		parts := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			parts[i] = label(f.Name, i) + ": " + FormatValue(componentAt(p, i), f.Value)
		}
		return braced(parts)

	case SeqKind:
		if len(v.Elems) == 0 {
			return "[]"
		}
		elem := p
		if strings.HasSuffix(p.Type, "]") {
			elem = elemParam(p)
		}
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = FormatValue(elem, e)
		}
		if v.Elems[0].Kind == TupleKind {
			return "[\n" + strings.Join(parts, ",\n") + "\n]"
		}
		return "[ " + strings.Join(parts, ", ") + " ]"

	default:
		return formatScalar(v.Scalar)
	}
}

// formatScalar renders a leaf: big integers as decimal, 0x-prefixed strings
// untouched (hashes and addresses are not numbers), numeric-looking strings
// as decimal, byte blobs as hex. Anything unrecognised falls back to the
// default string conversion rather than failing.
func formatScalar(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case *big.Int:
		return x.String()
	case string:
		if strings.HasPrefix(x, "0x") {
			return x
		}
		if n, ok := new(big.Int).SetString(x, 10); ok {
			return n.String()
		}
		return x
	case common.Address:
		return x.Hex()
	case common.Hash:
		return x.Hex()
	case []byte:
		return "0x" + hex.EncodeToString(x)
	case bool:
		return strconv.FormatBool(x)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		b := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(b), rv)
		return "0x" + hex.EncodeToString(b)
	}
	return fmt.Sprint(v)
}

func braced(parts []string) string {
	return "{\n  " + strings.Join(parts, ",\n  ") + "\n}"
}

// label names a slot for display, falling back to its index when the ABI
// left it anonymous.
func label(name string, i int) string {
	if name == "" {
		return strconv.Itoa(i)
	}
	return name
}

func componentAt(p ABIParam, i int) ABIParam {
	if i < len(p.Components) {
		return p.Components[i]
	}
	return ABIParam{}
}

func valueAt(vals []Value, i int) Value {
	if i < len(vals) {
		return vals[i]
	}
	return Value{Kind: NullKind}
}
