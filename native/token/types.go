package token

// Field length limits for display metadata, mirroring the fixed account layout the
// metadata registry pre-allocates for each mint.
const (
	MaxNameLen   = 32
	MaxSymbolLen = 10
	MaxURILen    = 200
)

// Mint describes a fungible token. Access-token mints are created with zero
// decimals and a derived record as their authority, so only the controlling
// program can issue supply.
type Mint struct {
	Address   [20]byte `json:"address"`
	Authority [20]byte `json:"authority"`
	Decimals  uint8    `json:"decimals"`
	Supply    uint64   `json:"supply"`
	Bump      uint8    `json:"bump"`
}

// Clone returns a copy of the mint record.
func (m *Mint) Clone() *Mint {
	if m == nil {
		return nil
	}
	clone := *m
	return &clone
}

// Account is a per-owner balance of a single mint.
type Account struct {
	Address [20]byte `json:"address"`
	Mint    [20]byte `json:"mint"`
	Owner   [20]byte `json:"owner"`
	Balance uint64   `json:"balance"`
}

// Clone returns a copy of the token account record.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

// Metadata carries the display information attached to a mint at creation
// time. The registry is append-once: metadata is written when the mint's
// authority registers it and never edited afterwards.
type Metadata struct {
	Mint   [20]byte `json:"mint"`
	Name   string   `json:"name"`
	Symbol string   `json:"symbol"`
	URI    string   `json:"uri"`
}

// Clone returns a copy of the metadata record.
func (m *Metadata) Clone() *Metadata {
	if m == nil {
		return nil
	}
	clone := *m
	return &clone
}
