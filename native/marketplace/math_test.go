package marketplace

import (
	"errors"
	"math"
	"testing"
)

func TestTotalAmount(t *testing.T) {
	tests := []struct {
		name     string
		price    uint64
		quantity uint64
		want     uint64
		wantErr  error
	}{
		{name: "simple", price: 100, quantity: 3, want: 300},
		{name: "zero price", price: 0, quantity: 10, want: 0},
		{name: "max single", price: math.MaxUint64, quantity: 1, want: math.MaxUint64},
		{name: "overflow", price: math.MaxUint64, quantity: 2, wantErr: ErrNumericalOverflow},
		{name: "overflow square", price: 1 << 32, quantity: 1 << 32, wantErr: ErrNumericalOverflow},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := TotalAmount(tc.price, tc.quantity)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestWithdrawAmounts(t *testing.T) {
	tests := []struct {
		name       string
		feeBps     uint16
		total      uint64
		wantFee    uint64
		wantSeller uint64
		wantErr    error
	}{
		{name: "typical", feeBps: 250, total: 10_000, wantFee: 250, wantSeller: 9_750},
		{name: "rounds down", feeBps: 250, total: 101, wantFee: 2, wantSeller: 99},
		{name: "zero fee", feeBps: 0, total: 500, wantFee: 0, wantSeller: 500},
		{name: "full fee", feeBps: 10_000, total: 500, wantFee: 500, wantSeller: 0},
		{name: "dust below fee unit", feeBps: 1, total: 9_999, wantFee: 0, wantSeller: 9_999},
		{name: "max total", feeBps: 10_000, total: math.MaxUint64, wantFee: math.MaxUint64, wantSeller: 0},
		{name: "fee above cap", feeBps: 10_001, total: 100, wantErr: ErrIncorrectFee},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fee, seller, err := WithdrawAmounts(tc.feeBps, tc.total)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fee != tc.wantFee || seller != tc.wantSeller {
				t.Fatalf("got fee=%d seller=%d, want %d/%d", fee, seller, tc.wantFee, tc.wantSeller)
			}
			if fee+seller != tc.total {
				t.Fatalf("split must preserve total: %d + %d != %d", fee, seller, tc.total)
			}
		})
	}
}
