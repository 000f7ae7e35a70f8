package contract

import (
	"sort"
	"strings"
)

// Builtin is an ABI shipped inside the binary so common token standards work
// without pasting anything. Each one lives in its own file
// (internal/contract/<id>_abi.go) and registers itself via init(); entries
// there must spell out empty Inputs/Outputs slices so derivation sees the
// keys as present.
type Builtin struct {
	ID          string     // lookup key for --builtin, e.g. "erc20"
	Name        string     // human label shown in `contract builtins`
	Description string     // one-line summary
	ABI         []ABIEntry // parsed entries, ready for DeriveMethods
}

var builtins = map[string]Builtin{}

// RegisterBuiltin adds a shipped ABI under its lowercased ID, replacing any
// previous registration. Call it from init() in the file defining the ABI.
func RegisterBuiltin(b Builtin) {
	builtins[strings.ToLower(b.ID)] = b
}

// GetBuiltin looks up a shipped ABI by ID, case-insensitively.
func GetBuiltin(id string) (Builtin, bool) {
	b, ok := builtins[strings.ToLower(id)]
	return b, ok
}

// GetBuiltinABI returns the entries for a shipped ABI, or nil if the ID is
// unknown.
func GetBuiltinABI(id string) []ABIEntry {
	b, ok := GetBuiltin(id)
	if !ok {
		return nil
	}
	return b.ABI
}

// AllBuiltins lists every shipped ABI sorted by ID.
func AllBuiltins() []Builtin {
	out := make([]Builtin, 0, len(builtins))
	for _, b := range builtins {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
