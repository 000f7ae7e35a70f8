package chain

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// rpcError marks a mocked method as failing with a JSON-RPC error object.
type rpcError struct {
	Code    int
	Message string
	Data    string
}

// rpcMock serves a fixed JSON-RPC response per method. Values of type
// rpcError become error responses; any unknown method returns "method not
// found".
func rpcMock(t *testing.T, responses map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			ID     int    `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		result, ok := responses[req.Method]
		if !ok {
			json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
				"jsonrpc": "2.0",
				"id":      req.ID,
				"error":   map[string]any{"code": -32601, "message": "method not found: " + req.Method},
			})
			return
		}
		if e, isErr := result.(rpcError); isErr {
			errObj := map[string]any{"code": e.Code, "message": e.Message}
			if e.Data != "" {
				errObj["data"] = e.Data
			}
			json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
				"jsonrpc": "2.0",
				"id":      req.ID,
				"error":   errObj,
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}))
}

const zeroHash = "0x0000000000000000000000000000000000000000000000000000000000000000"

func headerJSON() map[string]any {
	return map[string]any{
		"parentHash":       zeroHash,
		"sha3Uncles":       zeroHash,
		"miner":            "0x0000000000000000000000000000000000000000",
		"stateRoot":        zeroHash,
		"transactionsRoot": zeroHash,
		"receiptsRoot":     zeroHash,
		"logsBloom":        "0x" + strings.Repeat("0", 512),
		"difficulty":       "0x0",
		"number":           "0x1",
		"gasLimit":         "0x1c9c380",
		"gasUsed":          "0x0",
		"timestamp":        "0x0",
		"extraData":        "0x",
		"mixHash":          zeroHash,
		"nonce":            "0x0000000000000000",
		"baseFeePerGas":    "0x3b9aca00",
		"hash":             zeroHash,
	}
}

func receiptJSON(status string) map[string]any {
	return map[string]any{
		"type":              "0x2",
		"status":            status,
		"cumulativeGasUsed": "0x5208",
		"logsBloom":         "0x" + strings.Repeat("0", 512),
		"logs":              []any{},
		"transactionHash":   zeroHash,
		"gasUsed":           "0x5208",
		"blockHash":         zeroHash,
		"blockNumber":       "0x2a",
		"transactionIndex":  "0x0",
	}
}

// baseResponses covers the methods every client exercises at dial time.
func baseResponses() map[string]any {
	return map[string]any{
		"eth_blockNumber": "0x10",
		"eth_chainId":     "0x539", // 1337
	}
}

func dialTest(t *testing.T, responses map[string]any) (*Client, *httptest.Server) {
	t.Helper()
	srv := rpcMock(t, responses)
	t.Cleanup(srv.Close)
	c, err := Dial(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, srv
}

type testSigner struct{ key *ecdsa.PrivateKey }

func newTestSigner(t *testing.T) *testSigner {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return &testSigner{key: key}
}

func (s *testSigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

func (s *testSigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.NewLondonSigner(chainID), s.key)
}

// ---------------------------------------------------------------------------
// Dial
// ---------------------------------------------------------------------------

func TestDialSuccess(t *testing.T) {
	c, _ := dialTest(t, baseResponses())
	assert.Equal(t, big.NewInt(1337), c.ChainID())
	assert.NotEmpty(t, c.URL())
}

func TestDialConnectionRefused(t *testing.T) {
	_, err := Dial(context.Background(), "http://127.0.0.1:19987", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnection)
}

func TestDialFailsHealthProbe(t *testing.T) {
	srv := rpcMock(t, map[string]any{
		"eth_blockNumber": rpcError{Code: -32000, Message: "node is syncing"},
	})
	defer srv.Close()

	_, err := Dial(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnection)
}

// ---------------------------------------------------------------------------
// CallContract
// ---------------------------------------------------------------------------

func TestCallContractReturnsData(t *testing.T) {
	resp := baseResponses()
	resp["eth_call"] = "0x00000000000000000000000000000000000000000000000000000000000003e8"
	c, _ := dialTest(t, resp)

	out, err := c.CallContract(context.Background(), common.HexToAddress("0x1"), []byte{0x70, 0xa0, 0x82, 0x31}, nil)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), new(big.Int).SetBytes(out))
}

func TestCallContractRevertReason(t *testing.T) {
	// Error(string) payload carrying "nope".
	revert := "0x08c379a0" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000004" +
		"6e6f706500000000000000000000000000000000000000000000000000000000"
	resp := baseResponses()
	resp["eth_call"] = rpcError{Code: 3, Message: "execution reverted", Data: revert}
	c, _ := dialTest(t, resp)

	_, err := c.CallContract(context.Background(), common.HexToAddress("0x1"), nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCall)
	assert.Contains(t, err.Error(), "reverted: nope")
}

func TestCallContractPlainError(t *testing.T) {
	resp := baseResponses()
	resp["eth_call"] = rpcError{Code: -32000, Message: "out of gas"}
	c, _ := dialTest(t, resp)

	_, err := c.CallContract(context.Background(), common.HexToAddress("0x1"), nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCall)
	assert.Contains(t, err.Error(), "out of gas")
}

// ---------------------------------------------------------------------------
// BlockNumber / BalanceAt
// ---------------------------------------------------------------------------

func TestBlockNumber(t *testing.T) {
	c, _ := dialTest(t, baseResponses())
	n, err := c.BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(16), n)
}

func TestBalanceAt(t *testing.T) {
	resp := baseResponses()
	resp["eth_getBalance"] = "0xde0b6b3a7640000" // 1 ether
	c, _ := dialTest(t, resp)

	bal, err := c.BalanceAt(context.Background(), common.HexToAddress("0x1"))
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", bal.String())
}

// ---------------------------------------------------------------------------
// SendCalldata / WaitMined
// ---------------------------------------------------------------------------

func sendResponses() map[string]any {
	resp := baseResponses()
	resp["eth_getTransactionCount"] = "0x0"
	resp["eth_maxPriorityFeePerGas"] = "0x3b9aca00"
	resp["eth_getBlockByNumber"] = headerJSON()
	resp["eth_estimateGas"] = "0x5208"
	resp["eth_sendRawTransaction"] = zeroHash
	return resp
}

func TestSendCalldataBroadcasts(t *testing.T) {
	c, _ := dialTest(t, sendResponses())

	tx, err := c.SendCalldata(context.Background(), newTestSigner(t), common.HexToAddress("0x2"), []byte{0x01}, nil)
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, uint64(21000+21000/5), tx.Gas(), "estimate plus headroom")
	assert.Equal(t, big.NewInt(1337), tx.ChainId())
}

func TestSendCalldataEstimateRevert(t *testing.T) {
	revert := "0x08c379a0" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"000000000000000000000000000000000000000000000000000000000000000c" +
		"756e617574686f72697a65640000000000000000000000000000000000000000"
	resp := sendResponses()
	resp["eth_estimateGas"] = rpcError{Code: 3, Message: "execution reverted", Data: revert}
	c, _ := dialTest(t, resp)

	_, err := c.SendCalldata(context.Background(), newTestSigner(t), common.HexToAddress("0x2"), nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCall)
	assert.Contains(t, err.Error(), "unauthorized")
}

func TestWaitMinedSuccess(t *testing.T) {
	resp := sendResponses()
	resp["eth_getTransactionReceipt"] = receiptJSON("0x1")
	c, _ := dialTest(t, resp)

	tx, err := c.SendCalldata(context.Background(), newTestSigner(t), common.HexToAddress("0x2"), nil, nil)
	require.NoError(t, err)

	receipt, err := c.WaitMined(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), receipt.BlockNumber.Uint64())
	assert.Equal(t, uint64(21000), receipt.GasUsed)
}

func TestWaitMinedRevertedStatus(t *testing.T) {
	resp := sendResponses()
	resp["eth_getTransactionReceipt"] = receiptJSON("0x0")
	c, _ := dialTest(t, resp)

	tx, err := c.SendCalldata(context.Background(), newTestSigner(t), common.HexToAddress("0x2"), nil, nil)
	require.NoError(t, err)

	receipt, err := c.WaitMined(context.Background(), tx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCall)
	require.NotNil(t, receipt, "failed receipts still carry the inclusion block")
	assert.Equal(t, uint64(42), receipt.BlockNumber.Uint64())
}

func TestBoundWriterRoundTrip(t *testing.T) {
	resp := sendResponses()
	resp["eth_getTransactionReceipt"] = receiptJSON("0x1")
	c, _ := dialTest(t, resp)

	w := c.Bind(newTestSigner(t))
	tx, err := w.SubmitCalldata(context.Background(), common.HexToAddress("0x2"), []byte{0x01}, big.NewInt(5))
	require.NoError(t, err)

	receipt, err := w.WaitMined(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
}

// ---------------------------------------------------------------------------
// revertReason
// ---------------------------------------------------------------------------

func TestRevertReasonDecodes(t *testing.T) {
	data := "0x08c379a0" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000004" +
		"6e6f706500000000000000000000000000000000000000000000000000000000"
	assert.Equal(t, "nope", revertReason(data))
}

func TestRevertReasonNonRevertData(t *testing.T) {
	assert.Empty(t, revertReason("0xdeadbeef"))
	assert.Empty(t, revertReason(nil))
	assert.Empty(t, revertReason(42))
}

// ---------------------------------------------------------------------------
// Presets
// ---------------------------------------------------------------------------

func TestPresetLookup(t *testing.T) {
	n, ok := Preset("base")
	require.True(t, ok)
	assert.Equal(t, uint64(8453), n.ChainID)
	assert.NotEmpty(t, n.RPC)
}

func TestPresetLookupCaseInsensitive(t *testing.T) {
	_, ok := Preset("Ethereum")
	assert.True(t, ok)
}

func TestPresetUnknown(t *testing.T) {
	_, ok := Preset("narnia")
	assert.False(t, ok)
}
