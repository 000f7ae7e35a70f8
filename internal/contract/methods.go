package contract

import "sort"

// Method is one callable contract function derived from an ABI. Unlike a raw
// ABIEntry it is guaranteed to have a name, input and output sequences and a
// state mutability. Immutable once derived.
type Method struct {
	Name            string
	Inputs          []ABIParam
	Outputs         []ABIParam
	StateMutability string
}

// IsRead reports whether the method is read-only (view or pure).
func (m Method) IsRead() bool {
	return m.StateMutability == "view" || m.StateMutability == "pure"
}

// IsPayable reports whether the method accepts native value.
func (m Method) IsPayable() bool {
	return m.StateMutability == "payable"
}

// Selector returns the 4-byte selector as "0x"-prefixed hex.
func (m Method) Selector() string { return m.entry().Selector() }

// Signature returns the canonical signature, e.g. "transfer(address,uint256)".
func (m Method) Signature() string { return m.entry().Signature() }

func (m Method) entry() ABIEntry {
	return ABIEntry{Type: "function", Name: m.Name, Inputs: m.Inputs, Outputs: m.Outputs, StateMutability: m.StateMutability}
}

// DeriveMethods filters raw ABI entries down to the callable functions and
// sorts them by name (lexicographic, case-sensitive, ascending). An entry is
// retained only when its type is "function", its name is non-empty, both the
// inputs and outputs keys were present in the JSON (an empty array counts as
// present) and stateMutability is a non-empty string. Constructors, events,
// errors and fallback/receive entries are dropped silently.
//
// The result is a pure function of the entries: equal input always yields the
// same ordered list. Entries sharing a name (overloads) keep their relative
// input order.
func DeriveMethods(entries []ABIEntry) []Method {
	var methods []Method
	for _, e := range entries {
		if e.Type != "function" || e.Name == "" {
			continue
		}
		if e.Inputs == nil || e.Outputs == nil {
			continue
		}
		if e.StateMutability == "" {
			continue
		}
		methods = append(methods, Method{
			Name:            e.Name,
			Inputs:          e.Inputs,
			Outputs:         e.Outputs,
			StateMutability: e.StateMutability,
		})
	}
	sort.SliceStable(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name })
	return methods
}
