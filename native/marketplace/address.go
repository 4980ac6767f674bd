package marketplace

import (
	"encoding/binary"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Derivation tags. Every marketplace record lives at an address computed from
// an ordered tag+seed byte sequence, so both the chain and any off-chain
// caller locate accounts without storing pointers.
const (
	tagApp          = "app"
	tagAsset        = "asset"
	tagAssetMint    = "asset_mint"
	tagPayment      = "payment"
	tagPaymentVault = "payment_vault"
)

// derive hashes tag and seeds to a canonical bump, then folds the bump into a
// second hash whose trailing 20 bytes are the address. The bump is persisted
// on the owning record and later verified by equality against a fresh
// derivation, never searched for at runtime.
func derive(tag string, seeds ...[]byte) ([20]byte, uint8) {
	preimage := []byte(tag)
	for _, seed := range seeds {
		preimage = append(preimage, seed...)
	}
	sum := ethcrypto.Keccak256(preimage)
	bump := sum[len(sum)-1]
	sum = ethcrypto.Keccak256(append(preimage, bump))
	var addr [20]byte
	copy(addr[:], sum[12:])
	return addr, bump
}

// DeriveApp returns the address of the app registered under the given name.
// Names participate in derivation as fixed-width padded bytes.
func DeriveApp(name string) ([20]byte, uint8, error) {
	padded, err := pad32(name)
	if err != nil {
		return [20]byte{}, 0, err
	}
	addr, bump := derive(tagApp, padded[:])
	return addr, bump, nil
}

// DeriveAssetMint returns the address of the access-token mint controlled by
// the listing registered under the given off-chain identifier.
func DeriveAssetMint(offChainID string) ([20]byte, uint8, error) {
	padded, err := pad32(offChainID)
	if err != nil {
		return [20]byte{}, 0, err
	}
	addr, bump := derive(tagAssetMint, padded[:])
	return addr, bump, nil
}

// DeriveAsset returns the address of the listing that controls the given
// access-token mint.
func DeriveAsset(assetMint [20]byte) ([20]byte, uint8) {
	return derive(tagAsset, assetMint[:])
}

// DerivePayment returns the address of the escrow record for a purchase. The
// caller-supplied timestamp is part of the seed so one buyer can hold many
// concurrent payments for the same listing.
func DerivePayment(assetMint, buyer [20]byte, timestamp int64) ([20]byte, uint8) {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(timestamp))
	return derive(tagPayment, assetMint[:], buyer[:], ts[:])
}

// DerivePaymentVault returns the address of the escrow token vault owned by a
// payment record.
func DerivePaymentVault(payment [20]byte) ([20]byte, uint8) {
	return derive(tagPaymentVault, payment[:])
}
