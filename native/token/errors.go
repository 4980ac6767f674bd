package token

import "errors"

var (
	// ErrMintNotFound is returned when a referenced mint does not exist.
	ErrMintNotFound = errors.New("token: mint not found")
	// ErrMintAlreadyExists is returned when creating a mint at an occupied
	// address.
	ErrMintAlreadyExists = errors.New("token: mint already exists")
	// ErrAccountNotFound is returned when a referenced token account does
	// not exist (including accounts that have been closed).
	ErrAccountNotFound = errors.New("token: account not found")
	// ErrAccountAlreadyExists is returned when creating a token account at
	// an occupied address.
	ErrAccountAlreadyExists = errors.New("token: account already exists")
	// ErrMintMismatch is returned when a transfer source and destination
	// hold different mints.
	ErrMintMismatch = errors.New("token: mint mismatch")
	// ErrIncorrectAuthority is returned when the signing authority does not
	// control the account or mint being operated on.
	ErrIncorrectAuthority = errors.New("token: incorrect authority")
	// ErrInsufficientFunds is returned when a transfer or burn exceeds the
	// source balance.
	ErrInsufficientFunds = errors.New("token: insufficient funds")
	// ErrAmountOverflow is returned when a credit would overflow a balance
	// or the mint supply.
	ErrAmountOverflow = errors.New("token: amount overflow")
	// ErrAccountNotEmpty is returned when closing an account that still
	// holds a balance.
	ErrAccountNotEmpty = errors.New("token: account not empty")
	// ErrInvalidDestination is returned when closing an account without a
	// deposit-return destination.
	ErrInvalidDestination = errors.New("token: invalid destination")
	// ErrInvalidMetadata is returned when display metadata exceeds the
	// fixed field lengths.
	ErrInvalidMetadata = errors.New("token: invalid metadata")
)
