package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"accesschain/native/marketplace"
	"accesschain/native/token"
	"accesschain/storage"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(storage.NewMemDB())
}

func TestAppRoundTrip(t *testing.T) {
	m := newTestManager(t)
	addr, bump, err := marketplace.DeriveApp("arcade")
	require.NoError(t, err)

	app := &marketplace.App{
		Address:        addr,
		Authority:      [20]byte{0x01},
		Name:           "arcade",
		FeeBasisPoints: 250,
		Bump:           bump,
	}
	require.NoError(t, m.AppPut(app))

	got, ok := m.AppGet(addr)
	require.True(t, ok)
	require.Equal(t, app, got)

	_, ok = m.AppGet([20]byte{0xFF})
	require.False(t, ok)
}

func TestAssetRoundTripPreservesCap(t *testing.T) {
	m := newTestManager(t)
	mint, mintBump, err := marketplace.DeriveAssetMint("listing-1")
	require.NoError(t, err)
	addr, bump := marketplace.DeriveAsset(mint)

	asset := &marketplace.Asset{
		Address:        addr,
		OffChainID:     "listing-1",
		Metadata:       "ipfs://meta",
		AcceptedMint:   [20]byte{0x02},
		AssetMint:      mint,
		Authority:      [20]byte{0x03},
		Price:          1_000,
		RefundTimespan: 3_600,
		Exemplars:      7,
		Sold:           3,
		Used:           1,
		Shared:         2,
		Refunded:       1,
		Bump:           bump,
		MintBump:       mintBump,
	}
	require.NoError(t, m.AssetPut(asset))

	got, ok := m.AssetGet(addr)
	require.True(t, ok)
	require.Equal(t, asset, got)

	// The unlimited cap survives the encoding despite the unsigned wire
	// format.
	asset.Exemplars = marketplace.UnlimitedExemplars
	asset.Sold = 1 << 40
	require.NoError(t, m.AssetPut(asset))
	got, ok = m.AssetGet(addr)
	require.True(t, ok)
	require.Equal(t, marketplace.UnlimitedExemplars, got.Exemplars)
	require.Equal(t, uint64(1<<40), got.Sold)

	require.NoError(t, m.AssetDelete(addr))
	_, ok = m.AssetGet(addr)
	require.False(t, ok)
}

func TestAssetPutRejectsInvalidRecords(t *testing.T) {
	m := newTestManager(t)
	mint, _, err := marketplace.DeriveAssetMint("listing-2")
	require.NoError(t, err)
	addr, bump := marketplace.DeriveAsset(mint)

	asset := &marketplace.Asset{
		Address:   addr,
		AssetMint: mint,
		Exemplars: 5,
		Sold:      6,
		Bump:      bump,
	}
	require.Error(t, m.AssetPut(asset))
	_, ok := m.AssetGet(addr)
	require.False(t, ok)
}

func TestPaymentRoundTripAndDelete(t *testing.T) {
	m := newTestManager(t)
	mint, _, err := marketplace.DeriveAssetMint("listing-3")
	require.NoError(t, err)
	buyer := [20]byte{0x04}
	addr, bump := marketplace.DerivePayment(mint, buyer, 1_700_000_000)
	_, vaultBump := marketplace.DerivePaymentVault(addr)

	payment := &marketplace.Payment{
		Address:          addr,
		AssetMint:        mint,
		Seller:           [20]byte{0x05},
		Buyer:            buyer,
		Exemplars:        2,
		Price:            100,
		TotalAmount:      200,
		PaymentTimestamp: 1_700_000_000,
		RefundConsumedAt: 1_700_003_600,
		Bump:             bump,
		VaultBump:        vaultBump,
	}
	require.NoError(t, m.PaymentPut(payment))

	got, ok := m.PaymentGet(addr)
	require.True(t, ok)
	require.Equal(t, payment, got)

	require.NoError(t, m.PaymentDelete(addr))
	_, ok = m.PaymentGet(addr)
	require.False(t, ok)
}

func TestTokenRecordsRoundTrip(t *testing.T) {
	m := newTestManager(t)
	mintAddr := token.DeriveMint("USDA")
	mint := &token.Mint{Address: mintAddr, Authority: [20]byte{0x06}, Decimals: 6, Supply: 1_000}
	require.NoError(t, m.TokenMintPut(mint))
	gotMint, ok := m.TokenMintGet(mintAddr)
	require.True(t, ok)
	require.Equal(t, mint, gotMint)

	owner := [20]byte{0x07}
	accountAddr := token.DeriveAccount(mintAddr, owner)
	account := &token.Account{Address: accountAddr, Mint: mintAddr, Owner: owner, Balance: 42}
	require.NoError(t, m.TokenAccountPut(account))
	gotAccount, ok := m.TokenAccountGet(accountAddr)
	require.True(t, ok)
	require.Equal(t, account, gotAccount)
	require.NoError(t, m.TokenAccountDelete(accountAddr))
	_, ok = m.TokenAccountGet(accountAddr)
	require.False(t, ok)

	meta := &token.Metadata{Mint: mintAddr, Name: "Dollar", Symbol: "USDA", URI: "ipfs://usda"}
	require.NoError(t, m.TokenMetadataPut(meta))
	gotMeta, ok := m.TokenMetadataGet(mintAddr)
	require.True(t, ok)
	require.Equal(t, meta, gotMeta)
}

func TestManagerImplementsEngineStates(t *testing.T) {
	var _ marketplace.State = (*Manager)(nil)
	var _ token.State = (*Manager)(nil)
}
