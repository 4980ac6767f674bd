package token

import "fmt"

// MemState is a map-backed State implementation. It backs unit tests across
// the native modules the same way storage.MemDB backs node tests.
type MemState struct {
	mints    map[[20]byte]*Mint
	accounts map[[20]byte]*Account
	metadata map[[20]byte]*Metadata
}

// NewMemState creates an empty in-memory token state.
func NewMemState() *MemState {
	return &MemState{
		mints:    make(map[[20]byte]*Mint),
		accounts: make(map[[20]byte]*Account),
		metadata: make(map[[20]byte]*Metadata),
	}
}

func (s *MemState) TokenMintPut(m *Mint) error {
	if m == nil {
		return fmt.Errorf("nil mint")
	}
	s.mints[m.Address] = m.Clone()
	return nil
}

func (s *MemState) TokenMintGet(addr [20]byte) (*Mint, bool) {
	m, ok := s.mints[addr]
	if !ok {
		return nil, false
	}
	return m.Clone(), true
}

func (s *MemState) TokenAccountPut(a *Account) error {
	if a == nil {
		return fmt.Errorf("nil account")
	}
	s.accounts[a.Address] = a.Clone()
	return nil
}

func (s *MemState) TokenAccountGet(addr [20]byte) (*Account, bool) {
	a, ok := s.accounts[addr]
	if !ok {
		return nil, false
	}
	return a.Clone(), true
}

func (s *MemState) TokenAccountDelete(addr [20]byte) error {
	delete(s.accounts, addr)
	return nil
}

func (s *MemState) TokenMetadataPut(m *Metadata) error {
	if m == nil {
		return fmt.Errorf("nil metadata")
	}
	s.metadata[m.Mint] = m.Clone()
	return nil
}

func (s *MemState) TokenMetadataGet(mint [20]byte) (*Metadata, bool) {
	m, ok := s.metadata[mint]
	if !ok {
		return nil, false
	}
	return m.Clone(), true
}
