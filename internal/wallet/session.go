package wallet

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrNoSigner is returned when a session without a signing wallet is asked
// to sign.
var ErrNoSigner = errors.New("signer not set")

// Session carries the wallet identity for one process run. It is built once
// at command startup and passed down explicitly; nothing reads global state.
// A session without a signer still serves reads.
type Session struct {
	wallet *Wallet
	signer *Signer
}

// NewSession builds a session for a wallet. Signing wallets get a signer
// bound to the keystore; watch-only wallets and nil produce a read-only
// session.
func NewSession(w *Wallet, ks KeystoreBackend) *Session {
	s := &Session{wallet: w}
	if w != nil && w.Type == TypeSigning {
		s.signer = NewSigner(w, ks)
	}
	return s
}

// ReadOnlySession returns a session with no wallet at all. Reads work;
// Signer fails.
func ReadOnlySession() *Session {
	return &Session{}
}

// Wallet returns the session's wallet, or nil for an anonymous session.
func (s *Session) Wallet() *Wallet {
	return s.wallet
}

// CanSign reports whether the session can sign transactions.
func (s *Session) CanSign() bool {
	return s.signer != nil
}

// Signer returns the transaction signer, or ErrNoSigner for read-only
// sessions.
func (s *Session) Signer() (*Signer, error) {
	if s.signer == nil {
		return nil, ErrNoSigner
	}
	return s.signer, nil
}

// Address returns the session wallet's address. ok is false for anonymous
// sessions.
func (s *Session) Address() (common.Address, bool) {
	if s.wallet == nil {
		return common.Address{}, false
	}
	return common.HexToAddress(s.wallet.Address), true
}
