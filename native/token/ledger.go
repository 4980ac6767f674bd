package token

import (
	"errors"
	"math"
	"strings"
)

var errNilState = errors.New("token ledger: state not configured")

// State is the persistence surface the ledger operates against. The core
// state manager implements it over the chain database; tests use MemState.
type State interface {
	TokenMintPut(*Mint) error
	TokenMintGet(addr [20]byte) (*Mint, bool)
	TokenAccountPut(*Account) error
	TokenAccountGet(addr [20]byte) (*Account, bool)
	TokenAccountDelete(addr [20]byte) error
	TokenMetadataPut(*Metadata) error
	TokenMetadataGet(mint [20]byte) (*Metadata, bool)
}

// Ledger implements the fixed token contract other modules invoke: transfer,
// mint, burn and close, each gated by an explicit signing authority. A derived
// record address may act as authority; callers prove control of it by passing
// it through their own derivation checks before signing the call.
type Ledger struct {
	state State
}

// NewLedger creates a ledger without a configured state backend.
func NewLedger() *Ledger {
	return &Ledger{}
}

// SetState configures the state backend used by the ledger.
func (l *Ledger) SetState(state State) { l.state = state }

// CreateMint registers a new mint at the given address.
func (l *Ledger) CreateMint(addr, authority [20]byte, decimals uint8, bump uint8) (*Mint, error) {
	if l == nil || l.state == nil {
		return nil, errNilState
	}
	if _, ok := l.state.TokenMintGet(addr); ok {
		return nil, ErrMintAlreadyExists
	}
	mint := &Mint{Address: addr, Authority: authority, Decimals: decimals, Bump: bump}
	if err := l.state.TokenMintPut(mint); err != nil {
		return nil, err
	}
	return mint.Clone(), nil
}

// CreateAccount registers a zero-balance token account for the given mint and
// owner at the given address.
func (l *Ledger) CreateAccount(addr, mint, owner [20]byte) (*Account, error) {
	if l == nil || l.state == nil {
		return nil, errNilState
	}
	if _, ok := l.state.TokenMintGet(mint); !ok {
		return nil, ErrMintNotFound
	}
	if _, ok := l.state.TokenAccountGet(addr); ok {
		return nil, ErrAccountAlreadyExists
	}
	account := &Account{Address: addr, Mint: mint, Owner: owner}
	if err := l.state.TokenAccountPut(account); err != nil {
		return nil, err
	}
	return account.Clone(), nil
}

// Mint returns the mint record at the given address.
func (l *Ledger) Mint(addr [20]byte) (*Mint, bool) {
	if l == nil || l.state == nil {
		return nil, false
	}
	return l.state.TokenMintGet(addr)
}

// Account returns the token account record at the given address.
func (l *Ledger) Account(addr [20]byte) (*Account, bool) {
	if l == nil || l.state == nil {
		return nil, false
	}
	return l.state.TokenAccountGet(addr)
}

// Transfer moves balance between two accounts of the same mint. The authority
// must own the source account.
func (l *Ledger) Transfer(from, to, authority [20]byte, amount uint64) error {
	if l == nil || l.state == nil {
		return errNilState
	}
	src, ok := l.state.TokenAccountGet(from)
	if !ok {
		return ErrAccountNotFound
	}
	dst, ok := l.state.TokenAccountGet(to)
	if !ok {
		return ErrAccountNotFound
	}
	if src.Owner != authority {
		return ErrIncorrectAuthority
	}
	if src.Mint != dst.Mint {
		return ErrMintMismatch
	}
	if src.Balance < amount {
		return ErrInsufficientFunds
	}
	if dst.Balance > math.MaxUint64-amount {
		return ErrAmountOverflow
	}
	if amount == 0 {
		return nil
	}
	src.Balance -= amount
	dst.Balance += amount
	if err := l.state.TokenAccountPut(src); err != nil {
		return err
	}
	return l.state.TokenAccountPut(dst)
}

// MintTo issues new supply to a token account. The authority must be the
// mint's configured authority and the destination must hold the mint.
func (l *Ledger) MintTo(mint, to, authority [20]byte, amount uint64) error {
	if l == nil || l.state == nil {
		return errNilState
	}
	m, ok := l.state.TokenMintGet(mint)
	if !ok {
		return ErrMintNotFound
	}
	dst, ok := l.state.TokenAccountGet(to)
	if !ok {
		return ErrAccountNotFound
	}
	if m.Authority != authority {
		return ErrIncorrectAuthority
	}
	if dst.Mint != mint {
		return ErrMintMismatch
	}
	if m.Supply > math.MaxUint64-amount || dst.Balance > math.MaxUint64-amount {
		return ErrAmountOverflow
	}
	if amount == 0 {
		return nil
	}
	m.Supply += amount
	dst.Balance += amount
	if err := l.state.TokenMintPut(m); err != nil {
		return err
	}
	return l.state.TokenAccountPut(dst)
}

// Burn destroys balance held by a token account. The authority must own the
// account and the account must hold the mint being burned.
func (l *Ledger) Burn(mint, from, authority [20]byte, amount uint64) error {
	if l == nil || l.state == nil {
		return errNilState
	}
	m, ok := l.state.TokenMintGet(mint)
	if !ok {
		return ErrMintNotFound
	}
	src, ok := l.state.TokenAccountGet(from)
	if !ok {
		return ErrAccountNotFound
	}
	if src.Owner != authority {
		return ErrIncorrectAuthority
	}
	if src.Mint != mint {
		return ErrMintMismatch
	}
	if src.Balance < amount {
		return ErrInsufficientFunds
	}
	if amount == 0 {
		return nil
	}
	src.Balance -= amount
	m.Supply -= amount
	if err := l.state.TokenMintPut(m); err != nil {
		return err
	}
	return l.state.TokenAccountPut(src)
}

// CloseAccount removes a drained token account. The destination names the
// address the account's storage deposit is returned to; there is no deposit
// ledger here so the transfer itself is a no-op, but the destination must
// still be a real address so closes stay replayable against the full token
// program.
func (l *Ledger) CloseAccount(account, destination, authority [20]byte) error {
	if l == nil || l.state == nil {
		return errNilState
	}
	if destination == ([20]byte{}) {
		return ErrInvalidDestination
	}
	acc, ok := l.state.TokenAccountGet(account)
	if !ok {
		return ErrAccountNotFound
	}
	if acc.Owner != authority {
		return ErrIncorrectAuthority
	}
	if acc.Balance != 0 {
		return ErrAccountNotEmpty
	}
	return l.state.TokenAccountDelete(account)
}

// SetMetadata attaches display metadata to a mint. Only the mint authority may
// register metadata and each field has a fixed maximum length.
func (l *Ledger) SetMetadata(mint, authority [20]byte, name, symbol, uri string) error {
	if l == nil || l.state == nil {
		return errNilState
	}
	m, ok := l.state.TokenMintGet(mint)
	if !ok {
		return ErrMintNotFound
	}
	if m.Authority != authority {
		return ErrIncorrectAuthority
	}
	name = strings.TrimSpace(name)
	symbol = strings.TrimSpace(symbol)
	uri = strings.TrimSpace(uri)
	if len(name) > MaxNameLen || len(symbol) > MaxSymbolLen || len(uri) > MaxURILen {
		return ErrInvalidMetadata
	}
	return l.state.TokenMetadataPut(&Metadata{Mint: mint, Name: name, Symbol: symbol, URI: uri})
}

// Metadata returns the display metadata registered for a mint.
func (l *Ledger) Metadata(mint [20]byte) (*Metadata, bool) {
	if l == nil || l.state == nil {
		return nil, false
	}
	return l.state.TokenMetadataGet(mint)
}
