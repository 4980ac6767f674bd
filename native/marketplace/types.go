package marketplace

import (
	"fmt"
	"strings"
)

// Seed and metadata byte widths. Identifiers that participate in address
// derivation serialize to a constant width: shorter values are right-padded
// with spaces, longer values are rejected.
const (
	MaxSeedLen     = 32
	MaxMetadataLen = 64
)

// UnlimitedExemplars marks a listing with no supply cap.
const UnlimitedExemplars int64 = -1

// MaxFeeBasisPoints caps app withdrawal fees at 100%.
const MaxFeeBasisPoints uint16 = 10_000

func padBytes(s string, width int) ([]byte, error) {
	if len(s) > width {
		return nil, ErrStringTooLong
	}
	data := make([]byte, width)
	for i := range data {
		data[i] = ' '
	}
	copy(data, s)
	return data, nil
}

func pad32(s string) ([32]byte, error) {
	var out [32]byte
	data, err := padBytes(s, MaxSeedLen)
	if err != nil {
		return out, err
	}
	copy(out[:], data)
	return out, nil
}

func pad64(s string) ([64]byte, error) {
	var out [64]byte
	data, err := padBytes(s, MaxMetadataLen)
	if err != nil {
		return out, err
	}
	copy(out[:], data)
	return out, nil
}

// App groups listings under a named platform and defines the fee charged when
// sellers withdraw escrowed funds.
type App struct {
	Address        [20]byte `json:"address"`
	Authority      [20]byte `json:"authority"`
	Name           string   `json:"name"`
	FeeBasisPoints uint16   `json:"feeBasisPoints"`
	Bump           uint8    `json:"bump"`
}

// Clone returns a copy of the app record.
func (a *App) Clone() *App {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

// SanitizeApp validates an app record and returns a canonical copy.
func SanitizeApp(a *App) (*App, error) {
	if a == nil {
		return nil, fmt.Errorf("nil app")
	}
	clone := a.Clone()
	clone.Name = strings.TrimRight(clone.Name, " ")
	if len(clone.Name) > MaxSeedLen {
		return nil, ErrStringTooLong
	}
	if clone.FeeBasisPoints > MaxFeeBasisPoints {
		return nil, ErrIncorrectFee
	}
	return clone, nil
}

// Asset is a listing: a seller's offer of an access token at a given price
// and supply cap. The listing record itself is the mint authority of its
// access-token mint, so supply can only move through the marketplace engine.
type Asset struct {
	Address      [20]byte `json:"address"`
	App          [20]byte `json:"app"` // zero when the listing is standalone
	OffChainID   string   `json:"offChainId"`
	Metadata     string   `json:"metadata"` // opaque off-chain blob
	AcceptedMint [20]byte `json:"acceptedMint"`
	AssetMint    [20]byte `json:"assetMint"`
	Authority    [20]byte `json:"authority"`
	Price        uint64   `json:"price"`
	// RefundTimespan is the number of seconds after each purchase during
	// which the buyer may reverse it.
	RefundTimespan int64 `json:"refundTimespan"`
	// Exemplars is the hard supply cap; -1 means unlimited.
	Exemplars    int64  `json:"exemplars"`
	Sold         uint64 `json:"sold"`
	Used         uint64 `json:"used"`
	Shared       uint64 `json:"shared"`
	Refunded     uint64 `json:"refunded"`
	Bump         uint8  `json:"bump"`
	MintBump     uint8  `json:"mintBump"`
	MetadataBump uint8  `json:"metadataBump"`
}

// Clone returns a copy of the asset record.
func (a *Asset) Clone() *Asset {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

// HasApp reports whether the listing is linked to a platform app.
func (a *Asset) HasApp() bool {
	return a != nil && a.App != [20]byte{}
}

// SanitizeAsset validates an asset record and returns a canonical copy.
func SanitizeAsset(a *Asset) (*Asset, error) {
	if a == nil {
		return nil, fmt.Errorf("nil asset")
	}
	clone := a.Clone()
	clone.OffChainID = strings.TrimRight(clone.OffChainID, " ")
	clone.Metadata = strings.TrimRight(clone.Metadata, " ")
	if len(clone.OffChainID) > MaxSeedLen || len(clone.Metadata) > MaxMetadataLen {
		return nil, ErrStringTooLong
	}
	if clone.Exemplars < UnlimitedExemplars {
		return nil, fmt.Errorf("invalid exemplar cap: %d", clone.Exemplars)
	}
	if clone.RefundTimespan < 0 {
		return nil, fmt.Errorf("negative refund timespan")
	}
	if clone.Exemplars >= 0 && clone.Sold > uint64(clone.Exemplars) {
		return nil, fmt.Errorf("sold exceeds exemplar cap")
	}
	if clone.Used > clone.Sold+clone.Shared {
		return nil, fmt.Errorf("used exceeds sold plus shared")
	}
	return clone, nil
}

// Payment is an escrow record for one purchase. It exists exactly while its
// vault holds the paid amount; refund and withdrawal are its only terminal
// transitions and both delete the record.
type Payment struct {
	Address   [20]byte `json:"address"`
	AssetMint [20]byte `json:"assetMint"`
	Seller    [20]byte `json:"seller"`
	Buyer     [20]byte `json:"buyer"`
	Exemplars uint64   `json:"exemplars"`
	// Price is the per-exemplar price frozen at purchase time; later price
	// edits never touch open payments.
	Price            uint64 `json:"price"`
	TotalAmount      uint64 `json:"totalAmount"`
	PaymentTimestamp int64  `json:"paymentTimestamp"`
	RefundConsumedAt int64  `json:"refundConsumedAt"`
	Bump             uint8  `json:"bump"`
	VaultBump        uint8  `json:"vaultBump"`
}

// Clone returns a copy of the payment record.
func (p *Payment) Clone() *Payment {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// Vault returns the derived address of the payment's escrow vault and checks
// it against the stored bump.
func (p *Payment) Vault() ([20]byte, error) {
	if p == nil {
		return [20]byte{}, fmt.Errorf("nil payment")
	}
	addr, bump := DerivePaymentVault(p.Address)
	if bump != p.VaultBump {
		return [20]byte{}, ErrBumpMismatch
	}
	return addr, nil
}

// SanitizePayment validates a payment record and returns a canonical copy.
func SanitizePayment(p *Payment) (*Payment, error) {
	if p == nil {
		return nil, fmt.Errorf("nil payment")
	}
	clone := p.Clone()
	if clone.Exemplars == 0 {
		return nil, ErrInvalidQuantity
	}
	// PaymentTimestamp is a buyer-chosen derivation seed, not a clock
	// reading, so it carries no ordering relation to the refund deadline.
	return clone, nil
}
