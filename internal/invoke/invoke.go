// Package invoke runs contract methods derived from an ABI and records their
// outcomes in a bounded history. Reads produce one record; writes produce a
// submitted record that is rewritten in place once the transaction confirms.
package invoke

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/abistudio/internal/chain"
	"github.com/Mohsinsiddi/abistudio/internal/contract"
)

// ErrPending is returned when a method is invoked while a previous invocation
// of the same method is still in flight. Other methods are unaffected.
var ErrPending = errors.New("method already pending")

// ErrNoSigner is returned when a state-changing method is invoked without a
// signing identity bound to the session.
var ErrNoSigner = errors.New("signer not set")

// Reader performs read-only contract calls.
type Reader interface {
	CallContract(ctx context.Context, to common.Address, data []byte, block *big.Int) ([]byte, error)
}

// Writer submits state-changing calls and waits for inclusion.
type Writer interface {
	SubmitCalldata(ctx context.Context, to common.Address, data []byte, value *big.Int) (*types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// Invoker binds one contract (address plus derived methods) to an endpoint
// and an optional signer. Each method is its own two-state machine: idle or
// pending. Distinct methods may run concurrently; re-invoking a pending
// method is rejected.
type Invoker struct {
	address common.Address
	methods []contract.Method
	reader  Reader
	writer  Writer // nil when the session cannot sign
	history *History
	log     *zap.SugaredLogger

	mu      sync.Mutex
	pending map[string]bool
}

// Options configures an Invoker. Reader and History are required; Writer may
// be nil for a read-only session.
type Options struct {
	Address common.Address
	Methods []contract.Method
	Reader  Reader
	Writer  Writer
	History *History
	Log     *zap.SugaredLogger
}

// New builds an Invoker for one contract binding.
func New(opts Options) *Invoker {
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	history := opts.History
	if history == nil {
		history = NewHistory(DefaultCap)
	}
	return &Invoker{
		address: opts.Address,
		methods: opts.Methods,
		reader:  opts.Reader,
		writer:  opts.Writer,
		history: history,
		log:     log,
		pending: make(map[string]bool),
	}
}

// Methods returns the derived method list, sorted by name.
func (inv *Invoker) Methods() []contract.Method { return inv.methods }

// History returns the record history backing this invoker.
func (inv *Invoker) History() *History { return inv.history }

// Address returns the bound contract address.
func (inv *Invoker) Address() common.Address { return inv.address }

// CanWrite reports whether the session carries a signer.
func (inv *Invoker) CanWrite() bool { return inv.writer != nil }

// Find returns the first method with the given name.
func (inv *Invoker) Find(name string) (contract.Method, bool) {
	for _, m := range inv.methods {
		if m.Name == name {
			return m, true
		}
	}
	return contract.Method{}, false
}

func (inv *Invoker) begin(name string) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if inv.pending[name] {
		return fmt.Errorf("%w: %s", ErrPending, name)
	}
	inv.pending[name] = true
	return nil
}

func (inv *Invoker) finish(name string) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	delete(inv.pending, name)
}

// Pending reports whether the named method has an invocation in flight.
func (inv *Invoker) Pending(name string) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.pending[name]
}

// Read invokes a view or pure method. A failed call or undecodable response
// is recorded as an error-flagged entry; an argument that cannot be coerced
// surfaces as a plain error without touching the history, since nothing was
// ever sent. A non-nil block reads against that block's state.
func (inv *Invoker) Read(ctx context.Context, name string, args []string, block *big.Int) (Record, error) {
	m, ok := inv.Find(name)
	if !ok {
		return Record{}, fmt.Errorf("method %q not found in ABI", name)
	}
	if !m.IsRead() {
		return Record{}, fmt.Errorf("method %q is not read-only (stateMutability: %s)", name, m.StateMutability)
	}
	if err := inv.begin(name); err != nil {
		return Record{}, err
	}
	defer inv.finish(name)

	data, err := contract.Calldata(m, args)
	if err != nil {
		return Record{}, err
	}
	inv.log.Debugw("read call", "method", name, "selector", m.Selector(), "block", block)

	out, err := inv.reader.CallContract(ctx, inv.address, data, block)
	if err != nil {
		return inv.fail(name, err), err
	}
	vals, err := contract.UnpackOutputs(m, out)
	if err != nil {
		err = fmt.Errorf("%w: %v", chain.ErrCall, err)
		return inv.fail(name, err), err
	}

	rec := Record{Method: name, Stage: StageDone, Result: contract.FormatOutputs(m.Outputs, vals)}
	rec.ID = inv.history.Push(rec)
	return rec, nil
}

// Ticket tracks a broadcast transaction whose confirmation has not been
// recorded yet. The method stays pending until Await returns; Await must be
// called exactly once.
type Ticket struct {
	inv       *Invoker
	tx        *types.Transaction
	Submitted Record
}

// Submit coerces the arguments, broadcasts a state-changing transaction and
// records the submitted entry. An argument that cannot be coerced surfaces
// as a plain error with no record; a rejected broadcast is recorded as a
// failed entry. Both release the method immediately. Only payable methods
// accept a non-zero value.
func (inv *Invoker) Submit(ctx context.Context, name string, args []string, value *big.Int) (*Ticket, Record, error) {
	m, ok := inv.Find(name)
	if !ok {
		return nil, Record{}, fmt.Errorf("method %q not found in ABI", name)
	}
	if m.IsRead() {
		return nil, Record{}, fmt.Errorf("method %q is read-only, call it instead", name)
	}
	if inv.writer == nil {
		return nil, Record{}, ErrNoSigner
	}
	if value != nil && value.Sign() > 0 && !m.IsPayable() {
		return nil, Record{}, fmt.Errorf("method %q is not payable", name)
	}
	if err := inv.begin(name); err != nil {
		return nil, Record{}, err
	}

	data, err := contract.Calldata(m, args)
	if err != nil {
		inv.finish(name)
		return nil, Record{}, err
	}
	inv.log.Debugw("write call", "method", name, "selector", m.Selector(), "value", value)

	tx, err := inv.writer.SubmitCalldata(ctx, inv.address, data, value)
	if err != nil {
		rec := inv.fail(name, err)
		inv.finish(name)
		return nil, rec, err
	}

	hash := tx.Hash().Hex()
	rec := Record{
		Method: name,
		Stage:  StageSubmitted,
		TxHash: hash,
		Result: "submitted " + hash,
	}
	rec.ID = inv.history.Push(rec)
	return &Ticket{inv: inv, tx: tx, Submitted: rec}, rec, nil
}

// Await waits for the ticket's transaction to be mined and rewrites the
// submitted entry (by ID, wherever it now sits) with block number and gas
// used. It releases the method's pending slot on return.
func (t *Ticket) Await(ctx context.Context) (Record, error) {
	inv, name, hash := t.inv, t.Submitted.Method, t.Submitted.TxHash
	defer inv.finish(name)

	receipt, err := inv.writer.WaitMined(ctx, t.tx)
	if err != nil {
		rec := Record{}
		updated := inv.history.Update(t.Submitted.ID, func(r *Record) {
			r.Stage = StageFailed
			r.Err = true
			r.Result = err.Error()
			if receipt != nil {
				r.Block = receipt.BlockNumber.Uint64()
				r.GasUsed = receipt.GasUsed
			}
			rec = *r
		})
		if !updated {
			rec = inv.fail(name, err)
		}
		return rec, err
	}

	rec := Record{}
	updated := inv.history.Update(t.Submitted.ID, func(r *Record) {
		r.Stage = StageConfirmed
		r.Block = receipt.BlockNumber.Uint64()
		r.GasUsed = receipt.GasUsed
		r.Result = fmt.Sprintf("confirmed in block %d (gas %d)", r.Block, r.GasUsed)
		rec = *r
	})
	if !updated {
		// The submitted entry was evicted while waiting; record the
		// confirmation as a fresh entry rather than losing it.
		rec = Record{
			Method:  name,
			Stage:   StageConfirmed,
			TxHash:  hash,
			Block:   receipt.BlockNumber.Uint64(),
			GasUsed: receipt.GasUsed,
			Result:  fmt.Sprintf("confirmed in block %d (gas %d)", receipt.BlockNumber.Uint64(), receipt.GasUsed),
		}
		rec.ID = inv.history.Push(rec)
	}
	return rec, nil
}

// Write invokes a state-changing method end to end: it submits, then waits
// for inclusion and returns the confirmed (or failed) record.
func (inv *Invoker) Write(ctx context.Context, name string, args []string, value *big.Int) (Record, error) {
	t, rec, err := inv.Submit(ctx, name, args, value)
	if err != nil {
		return rec, err
	}
	return t.Await(ctx)
}

// fail records an error-flagged result for the method and returns it.
func (inv *Invoker) fail(name string, err error) Record {
	rec := Record{Method: name, Stage: StageFailed, Err: true, Result: err.Error()}
	rec.ID = inv.history.Push(rec)
	return rec
}
