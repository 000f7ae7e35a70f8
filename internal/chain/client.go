package chain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// ErrConnection is returned when an endpoint cannot be reached or fails its
// health probe. Callers keep any already-derived state when they see it.
var ErrConnection = errors.New("endpoint unreachable")

// ErrCall is returned when the node rejects or reverts a call or transaction.
var ErrCall = errors.New("call failed")

const (
	dialAttempts  = 3
	dialDelay     = 500 * time.Millisecond
	healthTimeout = 2 * time.Second
)

// TxSigner signs transactions for one owned address.
type TxSigner interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Client wraps a JSON-RPC connection to one EVM endpoint. The chain id is
// fetched once at dial time and reused for every signed transaction.
type Client struct {
	eth     *ethclient.Client
	url     string
	chainID *big.Int
	log     *zap.SugaredLogger
}

// Dial connects to rawURL, retrying transient failures, and probes the
// endpoint with a block-number request before accepting it.
func Dial(ctx context.Context, rawURL string, log *zap.SugaredLogger) (*Client, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	var eth *ethclient.Client
	err := retry.Do(
		func() error {
			c, err := ethclient.DialContext(ctx, rawURL)
			if err != nil {
				return err
			}
			if err := health(ctx, c); err != nil {
				c.Close()
				return err
			}
			eth = c
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(dialAttempts),
		retry.Delay(dialDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Debugw("retrying endpoint dial", "url", rawURL, "attempt", n+1, "err", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConnection, rawURL, err)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("%w: reading chain id from %s: %v", ErrConnection, rawURL, err)
	}
	log.Debugw("endpoint connected", "url", rawURL, "chainID", chainID)
	return &Client{eth: eth, url: rawURL, chainID: chainID, log: log}, nil
}

func health(ctx context.Context, c *ethclient.Client) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if _, err := c.BlockNumber(ctx); err != nil {
		return fmt.Errorf("health probe: %w", err)
	}
	return nil
}

// ChainID returns the chain id reported by the endpoint at dial time.
func (c *Client) ChainID() *big.Int { return new(big.Int).Set(c.chainID) }

// URL returns the endpoint this client is connected to.
func (c *Client) URL() string { return c.url }

// Close tears down the underlying connection.
func (c *Client) Close() { c.eth.Close() }

// CallContract executes a read-only call against the contract at to. A nil
// block calls against the latest state; otherwise against that block's state.
func (c *Client) CallContract(ctx context.Context, to common.Address, data []byte, block *big.Int) ([]byte, error) {
	msg := ethereum.CallMsg{To: &to, Data: data}
	out, err := c.eth.CallContract(ctx, msg, block)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCall, callDetail(err))
	}
	return out, nil
}

// BlockNumber returns the latest block height.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return n, nil
}

// BalanceAt returns the native balance of addr at the latest block.
func (c *Client) BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	bal, err := c.eth.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return bal, nil
}

// SendCalldata builds, signs and broadcasts a dynamic-fee transaction
// carrying data to the contract at to. Gas is estimated against the node
// with 20% headroom. Returns the signed transaction.
func (c *Client) SendCalldata(ctx context.Context, signer TxSigner, to common.Address, data []byte, value *big.Int) (*types.Transaction, error) {
	if value == nil {
		value = new(big.Int)
	}
	from := signer.Address()

	nonce, err := c.eth.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching nonce: %v", ErrCall, err)
	}
	tip, err := c.eth.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching gas tip: %v", ErrCall, err)
	}
	head, err := c.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching head: %v", ErrCall, err)
	}
	baseFee := head.BaseFee
	if baseFee == nil {
		baseFee = tip
	}
	feeCap := new(big.Int).Add(tip, new(big.Int).Mul(baseFee, big.NewInt(2)))

	gas, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Data: data, Value: value})
	if err != nil {
		// Estimation runs the call, so reverts surface here with a reason.
		return nil, fmt.Errorf("%w: %s", ErrCall, callDetail(err))
	}
	gas += gas / 5

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   c.chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      data,
	})
	signed, err := signer.SignTx(tx, c.chainID)
	if err != nil {
		return nil, fmt.Errorf("%w: signing: %v", ErrCall, err)
	}
	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("%w: broadcasting: %v", ErrCall, err)
	}
	c.log.Debugw("transaction broadcast", "hash", signed.Hash().Hex(), "nonce", nonce, "gas", gas)
	return signed, nil
}

// WaitMined blocks until the transaction is included. A receipt with failed
// status returns both the receipt and an ErrCall so callers can still report
// the inclusion block.
func (c *Client) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	c.log.Debugw("waiting for inclusion", "hash", tx.Hash().Hex())
	receipt, err := bind.WaitMined(ctx, c.eth, tx)
	if err != nil {
		return nil, fmt.Errorf("%w: waiting for %s: %v", ErrCall, tx.Hash().Hex(), err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, fmt.Errorf("%w: transaction %s reverted in block %s", ErrCall, tx.Hash().Hex(), receipt.BlockNumber)
	}
	return receipt, nil
}

// Bind couples the client with a signing identity so state-changing methods
// can be submitted through one value.
func (c *Client) Bind(signer TxSigner) *BoundWriter {
	return &BoundWriter{client: c, signer: signer}
}

// BoundWriter is a Client bound to one signer.
type BoundWriter struct {
	client *Client
	signer TxSigner
}

// SubmitCalldata signs and broadcasts calldata to the contract at to.
func (w *BoundWriter) SubmitCalldata(ctx context.Context, to common.Address, data []byte, value *big.Int) (*types.Transaction, error) {
	return w.client.SendCalldata(ctx, w.signer, to, data, value)
}

// WaitMined blocks until the transaction is included.
func (w *BoundWriter) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return w.client.WaitMined(ctx, tx)
}

// callDetail extracts the most useful message from a node error. Reverts
// carry ABI-encoded reason strings in the error data; decode them when
// present rather than showing opaque hex.
func callDetail(err error) string {
	var de rpc.DataError
	if errors.As(err, &de) {
		if reason := revertReason(de.ErrorData()); reason != "" {
			return fmt.Sprintf("reverted: %s", reason)
		}
		if de.ErrorData() != nil {
			return fmt.Sprintf("%v (data: %v)", err, de.ErrorData())
		}
	}
	return err.Error()
}

// revertReason decodes the Error(string) payload a revert carries, if any.
func revertReason(data any) string {
	s, ok := data.(string)
	if !ok {
		return ""
	}
	b := common.FromHex(s)
	// 4-byte Error(string) selector, then offset, length and the string.
	if len(b) < 68 || !bytes.Equal(b[:4], []byte{0x08, 0xc3, 0x79, 0xa0}) {
		return ""
	}
	length := new(big.Int).SetBytes(b[36:68]).Uint64()
	if 68+length > uint64(len(b)) {
		return ""
	}
	return string(b[68 : 68+length])
}
