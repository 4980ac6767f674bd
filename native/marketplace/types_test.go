package marketplace

import (
	"bytes"
	"errors"
	"testing"
)

func TestPadBytes(t *testing.T) {
	padded, err := pad32("abc")
	if err != nil {
		t.Fatalf("pad: %v", err)
	}
	if !bytes.Equal(padded[:3], []byte("abc")) {
		t.Fatalf("prefix mismatch: %q", padded[:3])
	}
	for _, b := range padded[3:] {
		if b != ' ' {
			t.Fatalf("expected space padding, got %q", b)
		}
	}

	exact := string(bytes.Repeat([]byte{'x'}, MaxSeedLen))
	if _, err := pad32(exact); err != nil {
		t.Fatalf("exact-width seed must pad: %v", err)
	}
	if _, err := pad32(exact + "x"); !errors.Is(err, ErrStringTooLong) {
		t.Fatalf("expected string too long, got %v", err)
	}
	if _, err := pad64(string(bytes.Repeat([]byte{'m'}, MaxMetadataLen+1))); !errors.Is(err, ErrStringTooLong) {
		t.Fatalf("expected metadata too long, got %v", err)
	}
}

func TestSanitizeAssetInvariants(t *testing.T) {
	base := func() *Asset {
		return &Asset{
			OffChainID: "listing",
			Price:      10,
			Exemplars:  5,
			Sold:       2,
			Shared:     1,
			Used:       3,
		}
	}

	if _, err := SanitizeAsset(base()); err != nil {
		t.Fatalf("valid asset rejected: %v", err)
	}

	a := base()
	a.Sold = 6
	if _, err := SanitizeAsset(a); err == nil {
		t.Fatal("sold beyond cap must be rejected")
	}

	a = base()
	a.Used = 4
	if _, err := SanitizeAsset(a); err == nil {
		t.Fatal("used beyond sold+shared must be rejected")
	}

	a = base()
	a.Exemplars = -2
	if _, err := SanitizeAsset(a); err == nil {
		t.Fatal("cap below -1 must be rejected")
	}

	a = base()
	a.RefundTimespan = -1
	if _, err := SanitizeAsset(a); err == nil {
		t.Fatal("negative refund timespan must be rejected")
	}

	// Unlimited supply skips the cap comparison entirely.
	a = base()
	a.Exemplars = UnlimitedExemplars
	a.Sold = 1 << 40
	a.Used = 0
	a.Shared = 0
	if _, err := SanitizeAsset(a); err != nil {
		t.Fatalf("unlimited listing rejected: %v", err)
	}
}

func TestSanitizeAssetTrimsPadding(t *testing.T) {
	a := &Asset{OffChainID: "listing   ", Metadata: "blob  ", Exemplars: UnlimitedExemplars}
	clean, err := SanitizeAsset(a)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if clean.OffChainID != "listing" || clean.Metadata != "blob" {
		t.Fatalf("padding not trimmed: %+v", clean)
	}
	if a.OffChainID != "listing   " {
		t.Fatal("sanitize must not mutate its input")
	}
}

func TestSanitizePayment(t *testing.T) {
	p := &Payment{Exemplars: 1, PaymentTimestamp: 100, RefundConsumedAt: 200}
	if _, err := SanitizePayment(p); err != nil {
		t.Fatalf("valid payment rejected: %v", err)
	}
	p = &Payment{Exemplars: 0, PaymentTimestamp: 100, RefundConsumedAt: 200}
	if _, err := SanitizePayment(p); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
	// The timestamp seed is buyer-chosen and may sit past the deadline.
	p = &Payment{Exemplars: 1, PaymentTimestamp: 300, RefundConsumedAt: 200}
	if _, err := SanitizePayment(p); err != nil {
		t.Fatalf("derivation seed past the deadline rejected: %v", err)
	}
}

func TestPaymentVaultChecksBump(t *testing.T) {
	mint, _, err := DeriveAssetMint("listing-3")
	if err != nil {
		t.Fatalf("derive mint: %v", err)
	}
	addr, bump := DerivePayment(mint, newTestAddress(0x45), 1_700_000_000)
	_, vaultBump := DerivePaymentVault(addr)
	p := &Payment{Address: addr, Bump: bump, VaultBump: vaultBump}
	if _, err := p.Vault(); err != nil {
		t.Fatalf("vault: %v", err)
	}
	p.VaultBump++
	if _, err := p.Vault(); !errors.Is(err, ErrBumpMismatch) {
		t.Fatalf("expected bump mismatch, got %v", err)
	}
}
