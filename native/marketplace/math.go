package marketplace

import "math/big"

var basisPointDenominator = big.NewInt(10_000)

// TotalAmount computes price × quantity, failing on overflow of the amount
// width rather than wrapping.
func TotalAmount(price, quantity uint64) (uint64, error) {
	total := new(big.Int).Mul(new(big.Int).SetUint64(price), new(big.Int).SetUint64(quantity))
	if !total.IsUint64() {
		return 0, ErrNumericalOverflow
	}
	return total.Uint64(), nil
}

// WithdrawAmounts splits an escrowed total into the platform fee and the
// seller's share. The fee is floor(total × feeBps / 10000); the two parts
// always sum to the total exactly.
func WithdrawAmounts(feeBasisPoints uint16, total uint64) (totalFee, sellerAmount uint64, err error) {
	if feeBasisPoints > MaxFeeBasisPoints {
		return 0, 0, ErrIncorrectFee
	}
	fee := new(big.Int).Mul(new(big.Int).SetUint64(total), new(big.Int).SetUint64(uint64(feeBasisPoints)))
	fee.Div(fee, basisPointDenominator)
	if !fee.IsUint64() {
		return 0, 0, ErrNumericalOverflow
	}
	totalFee = fee.Uint64()
	if totalFee > total {
		return 0, 0, ErrNumericalOverflow
	}
	return totalFee, total - totalFee, nil
}
