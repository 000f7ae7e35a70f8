package contract

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// ParseABI
// ---------------------------------------------------------------------------

func TestParseABIArray(t *testing.T) {
	data := `[
		{"name":"balanceOf","type":"function","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
		{"name":"Transfer","type":"event","inputs":[{"name":"from","type":"address"}]}
	]`

	entries, err := ParseABI([]byte(data))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "balanceOf", entries[0].Name)
	assert.Equal(t, "event", entries[1].Type)
}

func TestParseABIMalformed(t *testing.T) {
	_, err := ParseABI([]byte("{not valid json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseABIObjectHintsAtArtifact(t *testing.T) {
	_, err := ParseABI([]byte(`{"abi": [], "bytecode": "0x"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "abi")
}

func TestParseABIEmptyArray(t *testing.T) {
	entries, err := ParseABI([]byte("[]"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// ---------------------------------------------------------------------------
// DeriveMethods
// ---------------------------------------------------------------------------

func TestDeriveMethodsSortedByName(t *testing.T) {
	data := `[
		{"name":"transfer","type":"function","inputs":[],"outputs":[],"stateMutability":"nonpayable"},
		{"name":"approve","type":"function","inputs":[],"outputs":[],"stateMutability":"nonpayable"},
		{"name":"balanceOf","type":"function","inputs":[],"outputs":[],"stateMutability":"view"}
	]`
	entries, err := ParseABI([]byte(data))
	require.NoError(t, err)

	methods := DeriveMethods(entries)
	require.Len(t, methods, 3)

	names := []string{methods[0].Name, methods[1].Name, methods[2].Name}
	assert.Equal(t, []string{"approve", "balanceOf", "transfer"}, names)
	assert.True(t, sort.SliceIsSorted(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name }))
}

func TestDeriveMethodsDropsNonFunctions(t *testing.T) {
	data := `[
		{"type":"constructor","inputs":[],"stateMutability":"nonpayable"},
		{"name":"Transfer","type":"event","inputs":[]},
		{"name":"InsufficientBalance","type":"error","inputs":[]},
		{"type":"fallback","stateMutability":"payable"},
		{"type":"receive","stateMutability":"payable"},
		{"name":"decimals","type":"function","inputs":[],"outputs":[{"name":"","type":"uint8"}],"stateMutability":"view"}
	]`
	entries, err := ParseABI([]byte(data))
	require.NoError(t, err)

	methods := DeriveMethods(entries)
	require.Len(t, methods, 1)
	assert.Equal(t, "decimals", methods[0].Name)
}

func TestDeriveMethodsRequiresInputsAndOutputsKeys(t *testing.T) {
	// inputs/outputs must be present in the JSON; an empty array counts as
	// present, an absent key does not.
	data := `[
		{"name":"noInputs","type":"function","outputs":[],"stateMutability":"view"},
		{"name":"noOutputs","type":"function","inputs":[],"stateMutability":"view"},
		{"name":"complete","type":"function","inputs":[],"outputs":[],"stateMutability":"view"}
	]`
	entries, err := ParseABI([]byte(data))
	require.NoError(t, err)

	methods := DeriveMethods(entries)
	require.Len(t, methods, 1)
	assert.Equal(t, "complete", methods[0].Name)
}

func TestDeriveMethodsRequiresStateMutability(t *testing.T) {
	data := `[{"name":"mystery","type":"function","inputs":[],"outputs":[]}]`
	entries, err := ParseABI([]byte(data))
	require.NoError(t, err)

	assert.Empty(t, DeriveMethods(entries))
}

func TestDeriveMethodsRequiresName(t *testing.T) {
	data := `[{"type":"function","inputs":[],"outputs":[],"stateMutability":"view"}]`
	entries, err := ParseABI([]byte(data))
	require.NoError(t, err)

	assert.Empty(t, DeriveMethods(entries))
}

func TestDeriveMethodsDeterministic(t *testing.T) {
	data := `[
		{"name":"b","type":"function","inputs":[],"outputs":[],"stateMutability":"view"},
		{"name":"a","type":"function","inputs":[],"outputs":[],"stateMutability":"view"}
	]`
	entries, err := ParseABI([]byte(data))
	require.NoError(t, err)

	first := DeriveMethods(entries)
	second := DeriveMethods(entries)
	assert.Equal(t, first, second)
}

func TestDeriveMethodsOverloadsKeepInputOrder(t *testing.T) {
	data := `[
		{"name":"mint","type":"function","inputs":[{"name":"to","type":"address"}],"outputs":[],"stateMutability":"nonpayable"},
		{"name":"mint","type":"function","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"}
	]`
	entries, err := ParseABI([]byte(data))
	require.NoError(t, err)

	methods := DeriveMethods(entries)
	require.Len(t, methods, 2)
	assert.Len(t, methods[0].Inputs, 1)
	assert.Len(t, methods[1].Inputs, 2)
}

// ---------------------------------------------------------------------------
// Method predicates
// ---------------------------------------------------------------------------

func TestMethodIsRead(t *testing.T) {
	assert.True(t, Method{StateMutability: "view"}.IsRead())
	assert.True(t, Method{StateMutability: "pure"}.IsRead())
	assert.False(t, Method{StateMutability: "nonpayable"}.IsRead())
	assert.False(t, Method{StateMutability: "payable"}.IsRead())
}

func TestMethodIsPayable(t *testing.T) {
	assert.True(t, Method{StateMutability: "payable"}.IsPayable())
	assert.False(t, Method{StateMutability: "nonpayable"}.IsPayable())
}

// ---------------------------------------------------------------------------
// Selector / Signature
// ---------------------------------------------------------------------------

func TestMethodSelectorTransfer(t *testing.T) {
	m := Method{
		Name: "transfer",
		Inputs: []ABIParam{
			{Name: "to", Type: "address"},
			{Name: "amount", Type: "uint256"},
		},
	}
	assert.Equal(t, "transfer(address,uint256)", m.Signature())
	assert.Equal(t, "0xa9059cbb", m.Selector())
}

func TestMethodSelectorNoArgs(t *testing.T) {
	m := Method{Name: "totalSupply"}
	assert.Equal(t, "totalSupply()", m.Signature())
	assert.Equal(t, "0x18160ddd", m.Selector())
}

func TestMethodSignatureExpandsTuples(t *testing.T) {
	m := Method{
		Name: "swap",
		Inputs: []ABIParam{
			{Name: "orders", Type: "tuple[]", Components: []ABIParam{
				{Name: "amount", Type: "uint256"},
				{Name: "trader", Type: "address"},
			}},
			{Name: "strict", Type: "bool"},
		},
	}
	assert.Equal(t, "swap((uint256,address)[],bool)", m.Signature())
}

// ---------------------------------------------------------------------------
// ABIEntry marshaling
// ---------------------------------------------------------------------------

func TestMarshalEntryKeepsEmptyArrays(t *testing.T) {
	// A zero-argument method carries inputs:[] and outputs:[] — absent keys
	// would drop it from derivation on the next parse.
	e := ABIEntry{
		Name:            "totalSupply",
		Type:            "function",
		Inputs:          []ABIParam{},
		Outputs:         []ABIParam{{Type: "uint256"}},
		StateMutability: "view",
	}

	data, err := json.Marshal([]ABIEntry{e})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"inputs":[]`)

	entries, err := ParseABI(data)
	require.NoError(t, err)
	methods := DeriveMethods(entries)
	require.Len(t, methods, 1)
	assert.Equal(t, "totalSupply", methods[0].Name)
}

func TestMarshalEntryOmitsNilSlices(t *testing.T) {
	e := ABIEntry{Name: "Transfer", Type: "event"}

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"inputs"`)
	assert.NotContains(t, string(data), `"outputs"`)
	assert.NotContains(t, string(data), `"stateMutability"`)
}

func TestMarshalEntryRoundTripsPresence(t *testing.T) {
	raw := `[{"name":"pause","type":"function","inputs":[],"outputs":[],"stateMutability":"nonpayable"},
	         {"name":"broken","type":"function","outputs":[],"stateMutability":"view"}]`
	entries, err := ParseABI([]byte(raw))
	require.NoError(t, err)
	require.Len(t, DeriveMethods(entries), 1)

	again, err := json.Marshal(entries)
	require.NoError(t, err)
	reparsed, err := ParseABI(again)
	require.NoError(t, err)

	// Presence survives the round trip: pause still derives, broken still
	// does not.
	methods := DeriveMethods(reparsed)
	require.Len(t, methods, 1)
	assert.Equal(t, "pause", methods[0].Name)
}
