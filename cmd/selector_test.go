package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// normalizeSignature
// ---------------------------------------------------------------------------

func TestNormalizeSignature_AlreadyCanonical(t *testing.T) {
	sig, err := normalizeSignature("transfer(address,uint256)")
	require.NoError(t, err)
	assert.Equal(t, "transfer(address,uint256)", sig)
}

func TestNormalizeSignature_WithNames(t *testing.T) {
	sig, err := normalizeSignature("transfer(address to, uint256 amount)")
	require.NoError(t, err)
	assert.Equal(t, "transfer(address,uint256)", sig)
}

func TestNormalizeSignature_NoParams(t *testing.T) {
	sig, err := normalizeSignature("name()")
	require.NoError(t, err)
	assert.Equal(t, "name()", sig)
}

func TestNormalizeSignature_SingleParam(t *testing.T) {
	sig, err := normalizeSignature("balanceOf(address account)")
	require.NoError(t, err)
	assert.Equal(t, "balanceOf(address)", sig)
}

func TestNormalizeSignature_ThreeParams(t *testing.T) {
	sig, err := normalizeSignature("transferFrom(address from, address to, uint256 amount)")
	require.NoError(t, err)
	assert.Equal(t, "transferFrom(address,address,uint256)", sig)
}

func TestNormalizeSignature_ExtraSpaces(t *testing.T) {
	sig, err := normalizeSignature("approve(  address  spender ,  uint256  amount  )")
	require.NoError(t, err)
	assert.Equal(t, "approve(address,uint256)", sig)
}

func TestNormalizeSignature_DataLocationDropped(t *testing.T) {
	sig, err := normalizeSignature("setGreeting(string memory greeting)")
	require.NoError(t, err)
	assert.Equal(t, "setGreeting(string)", sig)
}

func TestNormalizeSignature_AddressPayable(t *testing.T) {
	sig, err := normalizeSignature("fund(address payable who)")
	require.NoError(t, err)
	assert.Equal(t, "fund(address)", sig)
}

func TestNormalizeSignature_TupleWithNames(t *testing.T) {
	sig, err := normalizeSignature("swap((uint256 amount, address token)[] routes, bool strict)")
	require.NoError(t, err)
	assert.Equal(t, "swap((uint256,address)[],bool)", sig)
}

func TestNormalizeSignature_NoParens(t *testing.T) {
	_, err := normalizeSignature("noop")
	assert.Error(t, err)
}

func TestNormalizeSignature_MissingCloseParen(t *testing.T) {
	_, err := normalizeSignature("f(uint256")
	assert.Error(t, err)
}

func TestNormalizeSignature_EmptyName(t *testing.T) {
	_, err := normalizeSignature("(uint256)")
	assert.Error(t, err)
}

func TestNormalizeSignature_EmptyParameter(t *testing.T) {
	_, err := normalizeSignature("f(uint256,)")
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// splitTopLevel / typeOf
// ---------------------------------------------------------------------------

func TestSplitTopLevel_RespectsNesting(t *testing.T) {
	assert.Equal(t, []string{"(a,b)", "c"}, splitTopLevel("(a,b),c", ','))
}

func TestSplitTopLevel_NoSeparator(t *testing.T) {
	assert.Equal(t, []string{"uint256"}, splitTopLevel("uint256", ','))
}

func TestTypeOf_NestedTupleNames(t *testing.T) {
	typ, err := typeOf("(uint8 a, (bool ok, bytes32 h) inner)[3] xs")
	require.NoError(t, err)
	assert.Equal(t, "(uint8,(bool,bytes32))[3]", typ)
}

// ---------------------------------------------------------------------------
// keccakSelector
// ---------------------------------------------------------------------------

func TestKeccakSelector_Transfer(t *testing.T) {
	sel, hash := keccakSelector("transfer(address,uint256)")
	assert.Equal(t, "0xa9059cbb", sel)
	assert.Len(t, hash, 66)
}

func TestKeccakSelector_TransferEventTopic(t *testing.T) {
	_, topic := keccakSelector("Transfer(address,address,uint256)")
	assert.Equal(t, "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef", topic)
}

func TestKeccakSelector_ApprovalEventTopic(t *testing.T) {
	_, topic := keccakSelector("Approval(address,address,uint256)")
	assert.Equal(t, "0x8c5be1e5ebec7d5bd14f71427d1e84f3dd0314c0f7b2291e5b200ac8c7c3b925", topic)
}

func TestKeccakSelector_Approve(t *testing.T) {
	sel, _ := keccakSelector("approve(address,uint256)")
	assert.Equal(t, "0x095ea7b3", sel)
}
