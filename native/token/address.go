package token

import ethcrypto "github.com/ethereum/go-ethereum/crypto"

const (
	tagMint    = "mint"
	tagAccount = "token_account"
)

func derive(tag string, seeds ...[]byte) [20]byte {
	preimage := []byte(tag)
	for _, seed := range seeds {
		preimage = append(preimage, seed...)
	}
	sum := ethcrypto.Keccak256(preimage)
	var addr [20]byte
	copy(addr[:], sum[12:])
	return addr
}

// DeriveMint returns the deterministic address for a currency mint registered
// under a symbol, used when bootstrapping accepted payment mints.
func DeriveMint(symbol string) [20]byte {
	return derive(tagMint, []byte(symbol))
}

// DeriveAccount returns the canonical token account address for an owner and
// mint pair, so wallets and the chain agree on vault locations without
// storing pointers.
func DeriveAccount(mint, owner [20]byte) [20]byte {
	return derive(tagAccount, mint[:], owner[:])
}
