package state

import (
	"errors"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"accesschain/native/marketplace"
	"accesschain/native/token"
	"accesschain/storage"
)

// Manager persists the marketplace and token records as rlp blobs in the
// chain database. It implements marketplace.State and token.State, so the
// engines stay ignorant of encoding and key layout.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

var (
	appPrefix           = []byte("marketplace/app:")
	assetPrefix         = []byte("marketplace/asset:")
	paymentPrefix       = []byte("marketplace/payment:")
	tokenMintPrefix     = []byte("token/mint:")
	tokenAccountPrefix  = []byte("token/account:")
	tokenMetadataPrefix = []byte("token/metadata:")
)

func recordKey(prefix []byte, addr [20]byte) []byte {
	buf := make([]byte, len(prefix)+len(addr))
	copy(buf, prefix)
	copy(buf[len(prefix):], addr[:])
	return ethcrypto.Keccak256(buf)
}

func (m *Manager) load(prefix []byte, addr [20]byte, out interface{}) bool {
	data, err := m.db.Get(recordKey(prefix, addr))
	if err != nil || len(data) == 0 {
		return false
	}
	return rlp.DecodeBytes(data, out) == nil
}

func (m *Manager) store(prefix []byte, addr [20]byte, record interface{}) error {
	encoded, err := rlp.EncodeToBytes(record)
	if err != nil {
		return err
	}
	return m.db.Put(recordKey(prefix, addr), encoded)
}

func (m *Manager) remove(prefix []byte, addr [20]byte) error {
	return m.db.Delete(recordKey(prefix, addr))
}

// --- marketplace.State ---

// rlp has no signed integers, so stored records carry timestamps as unix
// seconds in uint64 and the exemplar cap as (unlimited, cap) pair.

type storedApp struct {
	Address        [20]byte
	Authority      [20]byte
	Name           string
	FeeBasisPoints uint16
	Bump           uint8
}

type storedAsset struct {
	Address        [20]byte
	App            [20]byte
	OffChainID     string
	Metadata       string
	AcceptedMint   [20]byte
	AssetMint      [20]byte
	Authority      [20]byte
	Price          uint64
	RefundTimespan uint64
	Unlimited      bool
	Exemplars      uint64
	Sold           uint64
	Used           uint64
	Shared         uint64
	Refunded       uint64
	Bump           uint8
	MintBump       uint8
	MetadataBump   uint8
}

type storedPayment struct {
	Address          [20]byte
	AssetMint        [20]byte
	Seller           [20]byte
	Buyer            [20]byte
	Exemplars        uint64
	Price            uint64
	TotalAmount      uint64
	PaymentTimestamp uint64
	RefundConsumedAt uint64
	Bump             uint8
	VaultBump        uint8
}

func (m *Manager) AppPut(app *marketplace.App) error {
	sanitized, err := marketplace.SanitizeApp(app)
	if err != nil {
		return err
	}
	return m.store(appPrefix, sanitized.Address, &storedApp{
		Address:        sanitized.Address,
		Authority:      sanitized.Authority,
		Name:           sanitized.Name,
		FeeBasisPoints: sanitized.FeeBasisPoints,
		Bump:           sanitized.Bump,
	})
}

func (m *Manager) AppGet(addr [20]byte) (*marketplace.App, bool) {
	var rec storedApp
	if !m.load(appPrefix, addr, &rec) {
		return nil, false
	}
	return &marketplace.App{
		Address:        rec.Address,
		Authority:      rec.Authority,
		Name:           rec.Name,
		FeeBasisPoints: rec.FeeBasisPoints,
		Bump:           rec.Bump,
	}, true
}

func (m *Manager) AssetPut(asset *marketplace.Asset) error {
	sanitized, err := marketplace.SanitizeAsset(asset)
	if err != nil {
		return err
	}
	rec := &storedAsset{
		Address:        sanitized.Address,
		App:            sanitized.App,
		OffChainID:     sanitized.OffChainID,
		Metadata:       sanitized.Metadata,
		AcceptedMint:   sanitized.AcceptedMint,
		AssetMint:      sanitized.AssetMint,
		Authority:      sanitized.Authority,
		Price:          sanitized.Price,
		RefundTimespan: uint64(sanitized.RefundTimespan),
		Sold:           sanitized.Sold,
		Used:           sanitized.Used,
		Shared:         sanitized.Shared,
		Refunded:       sanitized.Refunded,
		Bump:           sanitized.Bump,
		MintBump:       sanitized.MintBump,
		MetadataBump:   sanitized.MetadataBump,
	}
	if sanitized.Exemplars < 0 {
		rec.Unlimited = true
	} else {
		rec.Exemplars = uint64(sanitized.Exemplars)
	}
	return m.store(assetPrefix, sanitized.Address, rec)
}

func (m *Manager) AssetGet(addr [20]byte) (*marketplace.Asset, bool) {
	var rec storedAsset
	if !m.load(assetPrefix, addr, &rec) {
		return nil, false
	}
	asset := &marketplace.Asset{
		Address:        rec.Address,
		App:            rec.App,
		OffChainID:     rec.OffChainID,
		Metadata:       rec.Metadata,
		AcceptedMint:   rec.AcceptedMint,
		AssetMint:      rec.AssetMint,
		Authority:      rec.Authority,
		Price:          rec.Price,
		RefundTimespan: int64(rec.RefundTimespan),
		Exemplars:      marketplace.UnlimitedExemplars,
		Sold:           rec.Sold,
		Used:           rec.Used,
		Shared:         rec.Shared,
		Refunded:       rec.Refunded,
		Bump:           rec.Bump,
		MintBump:       rec.MintBump,
		MetadataBump:   rec.MetadataBump,
	}
	if !rec.Unlimited {
		asset.Exemplars = int64(rec.Exemplars)
	}
	return asset, true
}

func (m *Manager) AssetDelete(addr [20]byte) error {
	return m.remove(assetPrefix, addr)
}

func (m *Manager) PaymentPut(payment *marketplace.Payment) error {
	sanitized, err := marketplace.SanitizePayment(payment)
	if err != nil {
		return err
	}
	return m.store(paymentPrefix, sanitized.Address, &storedPayment{
		Address:          sanitized.Address,
		AssetMint:        sanitized.AssetMint,
		Seller:           sanitized.Seller,
		Buyer:            sanitized.Buyer,
		Exemplars:        sanitized.Exemplars,
		Price:            sanitized.Price,
		TotalAmount:      sanitized.TotalAmount,
		PaymentTimestamp: uint64(sanitized.PaymentTimestamp),
		RefundConsumedAt: uint64(sanitized.RefundConsumedAt),
		Bump:             sanitized.Bump,
		VaultBump:        sanitized.VaultBump,
	})
}

func (m *Manager) PaymentGet(addr [20]byte) (*marketplace.Payment, bool) {
	var rec storedPayment
	if !m.load(paymentPrefix, addr, &rec) {
		return nil, false
	}
	return &marketplace.Payment{
		Address:          rec.Address,
		AssetMint:        rec.AssetMint,
		Seller:           rec.Seller,
		Buyer:            rec.Buyer,
		Exemplars:        rec.Exemplars,
		Price:            rec.Price,
		TotalAmount:      rec.TotalAmount,
		PaymentTimestamp: int64(rec.PaymentTimestamp),
		RefundConsumedAt: int64(rec.RefundConsumedAt),
		Bump:             rec.Bump,
		VaultBump:        rec.VaultBump,
	}, true
}

func (m *Manager) PaymentDelete(addr [20]byte) error {
	return m.remove(paymentPrefix, addr)
}

// --- token.State ---

func (m *Manager) TokenMintPut(mint *token.Mint) error {
	if mint == nil {
		return errors.New("state: nil mint")
	}
	return m.store(tokenMintPrefix, mint.Address, mint)
}

func (m *Manager) TokenMintGet(addr [20]byte) (*token.Mint, bool) {
	mint := new(token.Mint)
	if !m.load(tokenMintPrefix, addr, mint) {
		return nil, false
	}
	return mint, true
}

func (m *Manager) TokenAccountPut(account *token.Account) error {
	if account == nil {
		return errors.New("state: nil token account")
	}
	return m.store(tokenAccountPrefix, account.Address, account)
}

func (m *Manager) TokenAccountGet(addr [20]byte) (*token.Account, bool) {
	account := new(token.Account)
	if !m.load(tokenAccountPrefix, addr, account) {
		return nil, false
	}
	return account, true
}

func (m *Manager) TokenAccountDelete(addr [20]byte) error {
	return m.remove(tokenAccountPrefix, addr)
}

func (m *Manager) TokenMetadataPut(meta *token.Metadata) error {
	if meta == nil {
		return errors.New("state: nil token metadata")
	}
	return m.store(tokenMetadataPrefix, meta.Mint, meta)
}

func (m *Manager) TokenMetadataGet(mint [20]byte) (*token.Metadata, bool) {
	meta := new(token.Metadata)
	if !m.load(tokenMetadataPrefix, mint, meta) {
		return nil, false
	}
	return meta, true
}
