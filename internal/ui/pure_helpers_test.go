package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

// ---------------------------------------------------------------------------
// padR
// ---------------------------------------------------------------------------

func TestPadRPadsToWidth(t *testing.T) {
	result := padR("greet", 12)
	assert.Equal(t, "greet       ", result)
}

func TestPadRMeasuresRenderedWidth(t *testing.T) {
	// Styled text carries ANSI codes; padding must count visible cells only.
	styled := StyleValue.Render("ok")
	result := padR(styled, 6)
	assert.Equal(t, 6, lipgloss.Width(result))
}

func TestPadRNeverTruncates(t *testing.T) {
	result := padR("withdrawAllAndReinvest", 5)
	assert.Equal(t, "withdrawAllAndReinvest", result)
}

func TestPadREmptyInput(t *testing.T) {
	assert.Equal(t, "    ", padR("", 4))
}

// ---------------------------------------------------------------------------
// trimErr
// ---------------------------------------------------------------------------

func TestTrimErrPassesShortMessages(t *testing.T) {
	assert.Equal(t, "execution reverted", trimErr("execution reverted"))
}

func TestTrimErrCutsAtSixty(t *testing.T) {
	long := "execution reverted: " + strings.Repeat("ERC20: transfer amount exceeds balance ", 3)
	result := trimErr(long)
	assert.Len(t, []byte(result), 60+len("…"))
	assert.True(t, strings.HasSuffix(result, "…"))
}

func TestTrimErrSixtyExactlyUntouched(t *testing.T) {
	s := strings.Repeat("a", 60)
	assert.Equal(t, s, trimErr(s))
}

func TestTrimErrSkipsTransportNoise(t *testing.T) {
	s := `connecting to http://127.0.0.1:8545: dial tcp 127.0.0.1:8545: connect: connection refused`
	result := trimErr(s)
	assert.True(t, strings.HasPrefix(result, "dial tcp"), "should start at the transport error")
}

func TestTrimErrSkipsHTTPWrapper(t *testing.T) {
	s := `Post "https://eth.llamarpc.com": context deadline exceeded`
	result := trimErr(s)
	assert.True(t, strings.HasPrefix(result, `Post "`))
}

func TestTrimErrNoKnownPrefix(t *testing.T) {
	s := "the method eth_call does not exist/is not available"
	assert.Equal(t, s, trimErr(s))
}

// ---------------------------------------------------------------------------
// studioParamSig
// ---------------------------------------------------------------------------

func TestStudioParamSigEmpty(t *testing.T) {
	assert.Equal(t, "", studioParamSig(nil))
}

func TestStudioParamSigNamedParam(t *testing.T) {
	params := []StudioParam{{Type: "string", Name: "greeting"}}
	assert.Equal(t, "string greeting", studioParamSig(params))
}

func TestStudioParamSigUnnamedParam(t *testing.T) {
	params := []StudioParam{{Type: "bytes32"}}
	assert.Equal(t, "bytes32", studioParamSig(params))
}

func TestStudioParamSigMixed(t *testing.T) {
	params := []StudioParam{
		{Type: "address", Name: "to"},
		{Type: "uint256"},
	}
	assert.Equal(t, "address to, uint256", studioParamSig(params))
}

// ---------------------------------------------------------------------------
// DangerBox
// ---------------------------------------------------------------------------

func TestDangerBoxWrapsContent(t *testing.T) {
	result := DangerBox("0xac0974bec...private key")
	assert.Contains(t, result, "0xac0974bec...private key")
	// DoubleBorder corners.
	assert.Contains(t, result, "╔")
	assert.Contains(t, result, "╚")
}

func TestDangerBoxEmptyContent(t *testing.T) {
	assert.NotPanics(t, func() { DangerBox("") })
}
