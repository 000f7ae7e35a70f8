package contract

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrCoerce is returned when a raw argument cannot be converted to its
// declared ABI type.
var ErrCoerce = errors.New("cannot coerce argument")

const (
	zeroAddress = "0x0000000000000000000000000000000000000000"
	zeroWord    = "0x0000000000000000000000000000000000000000000000000000000000000000"
)

// Coerce converts one raw form string into the value handed to the encoder,
// keyed on the declared ABI type. Rules are evaluated in order, first match
// wins:
//
//	uint* / int*  parse as arbitrary-precision integer, empty means zero
//	bool          true iff the raw string equals "true"
//	address       empty means the zero address, otherwise pass through
//	bytes32       pad per coerceBytes32
//	otherwise     pass the raw string through unmodified
//
// Integer parsing accepts the usual base prefixes (0x, 0b, 0o) alongside
// decimal. A malformed integer fails with ErrCoerce; every other rule is
// total.
func Coerce(abiType, raw string) (any, error) {
	switch {
	case strings.HasPrefix(abiType, "uint"), strings.HasPrefix(abiType, "int"):
		if raw == "" {
			return new(big.Int), nil
		}
		n, ok := new(big.Int).SetString(raw, 0)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a valid %s", ErrCoerce, raw, abiType)
		}
		return n, nil

	case abiType == "bool":
		return raw == "true", nil

	case abiType == "address":
		if raw == "" {
			return zeroAddress, nil
		}
		return raw, nil

	case abiType == "bytes32":
		return hexWord(raw, 32), nil

	default:
		return raw, nil
	}
}

// hexWord normalises a raw string into a "0x"-prefixed hex string of exactly
// size bytes (so 2+2*size characters; 66 for bytes32). Empty input yields the
// zero word. Well-formed hex keeps its digits and is right-padded with zeros
// (already-full words pass through unchanged). Anything else is UTF-8 encoded,
// hexed and right-padded; text that does not fit falls back to the zero word.
func hexWord(raw string, size int) string {
	digits := 2 * size
	zero := "0x" + strings.Repeat("0", digits)
	if raw == "" {
		return zero
	}
	if strings.HasPrefix(raw, "0x") && isHexDigits(raw[2:]) {
		if len(raw) < digits+2 {
			return raw + strings.Repeat("0", digits+2-len(raw))
		}
		return raw
	}
	encoded := hex.EncodeToString([]byte(raw))
	if len(encoded) > digits {
		return zero
	}
	return "0x" + encoded + strings.Repeat("0", digits-len(encoded))
}

func isHexDigits(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
