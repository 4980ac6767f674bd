package marketplace

import "errors"

var (
	// ErrTimeForRefundHasConsumed is returned when a refund is attempted at
	// or after the payment's refund deadline.
	ErrTimeForRefundHasConsumed = errors.New("marketplace: refund time has consumed")
	// ErrCannotWithdrawYet is returned when a withdrawal is attempted
	// before the payment's refund deadline.
	ErrCannotWithdrawYet = errors.New("marketplace: cannot withdraw these funds yet")
	// ErrNotEnoughTokensAvailable is returned when a purchase would exceed
	// the listing's exemplar cap.
	ErrNotEnoughTokensAvailable = errors.New("marketplace: not enough tokens available to buy")
	// ErrUsersStillHoldUnusedTokens blocks deleting a listing while
	// unconsumed access tokens remain outstanding.
	ErrUsersStillHoldUnusedTokens = errors.New("marketplace: users still hold unused tokens")
	// ErrStringTooLong is returned when an identifier or metadata string
	// exceeds its fixed byte width.
	ErrStringTooLong = errors.New("marketplace: string too long")
	// ErrNumericalOverflow is returned when a total or fee computation
	// does not fit the amount width.
	ErrNumericalOverflow = errors.New("marketplace: numerical overflow")
	// ErrIncorrectFee is returned when an app is created with more than
	// 10000 fee basis points.
	ErrIncorrectFee = errors.New("marketplace: fee higher than allowed")
	// ErrIncorrectAssetAuthority is returned when a seller-only action is
	// signed by anyone but the listing authority.
	ErrIncorrectAssetAuthority = errors.New("marketplace: incorrect asset authority")
	// ErrIncorrectPaymentAuthority is returned when a payment-scoped action
	// is signed by the wrong party (refund: not the buyer; withdraw: not
	// the seller).
	ErrIncorrectPaymentAuthority = errors.New("marketplace: incorrect payment authority")
	// ErrIncorrectPaymentToken is returned when the supplied payment mint
	// differs from the listing's accepted mint.
	ErrIncorrectPaymentToken = errors.New("marketplace: incorrect payment token")
	// ErrIncorrectBuyerTransferVault is returned when the account funds are
	// drawn from does not hold the accepted mint.
	ErrIncorrectBuyerTransferVault = errors.New("marketplace: incorrect buyer token account on transfer")
	// ErrIncorrectBuyerTokenVault is returned when the account meant to
	// receive purchased access tokens does not hold the asset mint.
	ErrIncorrectBuyerTokenVault = errors.New("marketplace: incorrect buyer token account for purchased tokens")
	// ErrIncorrectReceiverVault is returned when a funds- or
	// share-receiving account holds the wrong mint.
	ErrIncorrectReceiverVault = errors.New("marketplace: incorrect receiver token account")
	// ErrIncorrectPaymentVault is returned when the escrow vault does not
	// match the payment's derivation or mint.
	ErrIncorrectPaymentVault = errors.New("marketplace: incorrect payment vault")
	// ErrBumpMismatch is returned when a stored bump does not reproduce the
	// account's address under re-derivation.
	ErrBumpMismatch = errors.New("marketplace: stored bump does not match derivation")
	// ErrInvalidQuantity rejects zero-exemplar operations.
	ErrInvalidQuantity = errors.New("marketplace: quantity must be positive")

	// ErrAppNotFound, ErrAssetNotFound and ErrPaymentNotFound are returned
	// when a referenced record does not exist (or has been closed).
	ErrAppNotFound     = errors.New("marketplace: app not found")
	ErrAssetNotFound   = errors.New("marketplace: asset not found")
	ErrPaymentNotFound = errors.New("marketplace: payment not found")

	// ErrAppAlreadyExists, ErrAssetAlreadyExists and ErrPaymentAlreadyExists
	// are returned when a derived address is already occupied, the way the
	// host runtime rejects re-initialising an existing record.
	ErrAppAlreadyExists     = errors.New("marketplace: app already exists")
	ErrAssetAlreadyExists   = errors.New("marketplace: asset already exists")
	ErrPaymentAlreadyExists = errors.New("marketplace: payment already exists")
)
