package contract

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ErrParse is returned when ABI text cannot be parsed into entries.
var ErrParse = errors.New("invalid ABI")

// ABIEntry is one raw ABI JSON item. It may describe a function, constructor,
// event, error, fallback or receive entry; only well-formed function entries
// become callable methods (see DeriveMethods).
//
// Inputs and Outputs stay nil when the key is absent from the JSON and are
// non-nil (possibly empty) when the key is present. Derivation relies on that
// distinction.
type ABIEntry struct {
	Type            string     `json:"type"`
	Name            string     `json:"name,omitempty"`
	Inputs          []ABIParam `json:"inputs,omitempty"`
	Outputs         []ABIParam `json:"outputs,omitempty"`
	StateMutability string     `json:"stateMutability,omitempty"`
}

// ABIParam describes one input or output slot. Tuple-typed slots carry their
// nested structure in Components; the nesting is finite (bounded by the ABI
// author) and non-cyclic.
type ABIParam struct {
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Components []ABIParam `json:"components,omitempty"`
}

// IsTuple reports whether the param is tuple-typed, including tuple arrays
// such as "tuple[]" and "tuple[3]".
func (p ABIParam) IsTuple() bool {
	return strings.HasPrefix(p.Type, "tuple")
}

// canonicalType expands tuples into their parenthesised component form, e.g.
// "tuple[]" with components (uint256 a, address b) → "(uint256,address)[]".
// Non-tuple types pass through unchanged.
func canonicalType(p ABIParam) string {
	if !p.IsTuple() {
		return p.Type
	}
	parts := make([]string, len(p.Components))
	for i, c := range p.Components {
		parts[i] = canonicalType(c)
	}
	// Preserve the array suffix that follows the "tuple" prefix.
	return "(" + strings.Join(parts, ",") + ")" + p.Type[len("tuple"):]
}

// MarshalJSON keeps the presence distinction: a non-nil empty Inputs or
// Outputs slice still emits its key, so an ABI serialized for storage derives
// the same methods when parsed again.
func (e ABIEntry) MarshalJSON() ([]byte, error) {
	m := map[string]any{"type": e.Type}
	if e.Name != "" {
		m["name"] = e.Name
	}
	if e.Inputs != nil {
		m["inputs"] = e.Inputs
	}
	if e.Outputs != nil {
		m["outputs"] = e.Outputs
	}
	if e.StateMutability != "" {
		m["stateMutability"] = e.StateMutability
	}
	return json.Marshal(m)
}

// ParseABI parses raw ABI JSON (the standard array-of-objects format) into
// entries. Any text that is not a valid ABI array fails with ErrParse.
func ParseABI(data []byte) ([]ABIEntry, error) {
	var abi []ABIEntry
	if err := json.Unmarshal(data, &abi); err != nil {
		data = bytes.TrimSpace(data)
		if len(data) > 0 && data[0] == '{' {
			return nil, fmt.Errorf("%w: got a JSON object, not an ABI array — a Hardhat/Foundry artifact must be loaded via its \"abi\" key", ErrParse)
		}
		return nil, fmt.Errorf("%w: expected an array of function/event definitions: %v", ErrParse, err)
	}
	return abi, nil
}

// Selector computes the 4-byte function selector, e.g. "0xa9059cbb" for
// transfer(address,uint256). Only meaningful for function entries.
func (e ABIEntry) Selector() string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(e.Signature()))
	return "0x" + hex.EncodeToString(h.Sum(nil)[:4])
}

// Signature returns the canonical signature with tuples expanded, e.g.
// "swap((uint256,address)[],bool)".
func (e ABIEntry) Signature() string {
	types := make([]string, len(e.Inputs))
	for i, p := range e.Inputs {
		types[i] = canonicalType(p)
	}
	return e.Name + "(" + strings.Join(types, ",") + ")"
}
