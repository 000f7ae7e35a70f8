package contract

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// goABIType converts one ABIParam into a go-ethereum abi.Type. Anonymous
// tuple components get synthetic field names, which the encoder requires.
func goABIType(p ABIParam) (abi.Type, error) {
	return abi.NewType(p.Type, "", marshalComponents(p.Components))
}

func marshalComponents(comps []ABIParam) []abi.ArgumentMarshaling {
	if len(comps) == 0 {
		return nil
	}
	out := make([]abi.ArgumentMarshaling, len(comps))
	for i, c := range comps {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("field%d", i)
		}
		out[i] = abi.ArgumentMarshaling{
			Name:       name,
			Type:       c.Type,
			Components: marshalComponents(c.Components),
		}
	}
	return out
}

func arguments(params []ABIParam) (abi.Arguments, error) {
	args := make(abi.Arguments, len(params))
	for i, p := range params {
		t, err := goABIType(p)
		if err != nil {
			return nil, fmt.Errorf("param %d (%s): %w", i, p.Type, err)
		}
		args[i] = abi.Argument{Name: p.Name, Type: t}
	}
	return args, nil
}

// Calldata encodes raw form strings into complete calldata for the method:
// the 4-byte selector followed by the ABI-encoded arguments. Each raw string
// passes through Coerce first; a value the encoder cannot represent in its
// declared type fails with ErrCoerce.
func Calldata(m Method, raws []string) ([]byte, error) {
	if len(raws) != len(m.Inputs) {
		return nil, fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrCoerce, m.Name, len(m.Inputs), len(raws))
	}
	args, err := arguments(m.Inputs)
	if err != nil {
		return nil, err
	}
	vals := make([]any, len(raws))
	for i, raw := range raws {
		v, err := packValue(args[i].Type, raw)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s %s): %w", i, m.Inputs[i].Type, m.Inputs[i].Name, err)
		}
		vals[i] = v
	}
	packed, err := args.Pack(vals...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCoerce, err)
	}
	return append(common.FromHex(m.Selector()), packed...), nil
}

// DecodeCalldata matches calldata against the methods by selector and unpacks
// the argument values. The data must carry at least the 4-byte selector.
func DecodeCalldata(methods []Method, data []byte) (Method, []Value, error) {
	if len(data) < 4 {
		return Method{}, nil, fmt.Errorf("calldata is %d byte(s) — need at least the 4-byte selector", len(data))
	}
	sel := "0x" + common.Bytes2Hex(data[:4])
	for _, m := range methods {
		if m.Selector() != sel {
			continue
		}
		args, err := arguments(m.Inputs)
		if err != nil {
			return Method{}, nil, err
		}
		vals, err := args.Unpack(data[4:])
		if err != nil {
			return Method{}, nil, fmt.Errorf("decoding arguments for %s: %w", m.Signature(), err)
		}
		return m, DecodeValues(m.Inputs, vals), nil
	}
	return Method{}, nil, fmt.Errorf("no method in this ABI has selector %s", sel)
}

// packValue coerces a raw form string per the Coerce table, then bridges the
// result to the exact Go value the go-ethereum encoder expects for the type.
func packValue(t abi.Type, raw string) (any, error) {
	coerced, err := Coerce(t.String(), raw)
	if err != nil {
		return nil, err
	}

	switch t.T {
	case abi.UintTy, abi.IntTy:
		n, ok := coerced.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrCoerce, raw)
		}
		return sizedInt(t, n)

	case abi.BoolTy:
		return coerced, nil

	case abi.AddressTy:
		s := coerced.(string)
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("%w: %q is not a hex address", ErrCoerce, s)
		}
		return common.HexToAddress(s), nil

	case abi.FixedBytesTy:
		return fixedBytes(t, coerced.(string))

	case abi.BytesTy:
		return dynamicBytes(coerced.(string)), nil

	case abi.StringTy:
		return coerced, nil

	case abi.SliceTy, abi.ArrayTy:
		return packSequence(t, coerced.(string))

	case abi.TupleTy:
		return nil, fmt.Errorf("%w: tuple arguments are not supported, flatten the struct into separate parameters", ErrCoerce)

	default:
		return nil, fmt.Errorf("%w: unsupported argument type %s", ErrCoerce, t.String())
	}
}

// sizedInt narrows an arbitrary-precision integer to the Go type the encoder
// requires for the declared bit width. Values outside the declared range fail
// rather than silently truncate.
func sizedInt(t abi.Type, n *big.Int) (any, error) {
	if !fitsBits(n, t.Size, t.T == abi.IntTy) {
		return nil, fmt.Errorf("%w: %s does not fit %s", ErrCoerce, n, t.String())
	}
	if t.T == abi.UintTy {
		switch t.Size {
		case 8:
			return uint8(n.Uint64()), nil
		case 16:
			return uint16(n.Uint64()), nil
		case 32:
			return uint32(n.Uint64()), nil
		case 64:
			return n.Uint64(), nil
		}
		return n, nil
	}
	switch t.Size {
	case 8:
		return int8(n.Int64()), nil
	case 16:
		return int16(n.Int64()), nil
	case 32:
		return int32(n.Int64()), nil
	case 64:
		return n.Int64(), nil
	}
	return n, nil
}

func fitsBits(n *big.Int, bits int, signed bool) bool {
	if signed {
		half := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
		min := new(big.Int).Neg(half)
		max := new(big.Int).Sub(half, big.NewInt(1))
		return n.Cmp(min) >= 0 && n.Cmp(max) <= 0
	}
	if n.Sign() < 0 {
		return false
	}
	max := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	return n.Cmp(max) < 0
}

// fixedBytes pads per the bytes32 rule (generalised to any width) and decodes
// into the fixed-size byte array the encoder expects.
func fixedBytes(t abi.Type, s string) (any, error) {
	b := common.FromHex(hexWord(s, t.Size))
	if len(b) != t.Size {
		return nil, fmt.Errorf("%w: %q does not fit bytes%d", ErrCoerce, s, t.Size)
	}
	arr := reflect.New(t.GetType()).Elem()
	reflect.Copy(arr, reflect.ValueOf(b))
	return arr.Interface(), nil
}

// dynamicBytes treats well-formed hex as binary and anything else as UTF-8.
func dynamicBytes(s string) []byte {
	if s == "" {
		return []byte{}
	}
	if strings.HasPrefix(s, "0x") && isHexDigits(s[2:]) && len(s)%2 == 0 {
		return common.FromHex(s)
	}
	return []byte(s)
}

// packSequence parses a comma-separated raw string into the slice or array
// value for the element type. Nested composite elements are not supported.
func packSequence(t abi.Type, raw string) (any, error) {
	var parts []string
	if strings.TrimSpace(raw) != "" {
		parts = strings.Split(raw, ",")
	}
	if t.T == abi.ArrayTy && len(parts) != t.Size {
		return nil, fmt.Errorf("%w: fixed array wants %d comma-separated elements, got %d", ErrCoerce, t.Size, len(parts))
	}
	var seq reflect.Value
	if t.T == abi.ArrayTy {
		seq = reflect.New(t.GetType()).Elem()
	} else {
		seq = reflect.MakeSlice(t.GetType(), len(parts), len(parts))
	}
	for i, part := range parts {
		v, err := packValue(*t.Elem, strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		seq.Index(i).Set(reflect.ValueOf(v))
	}
	return seq.Interface(), nil
}
