package marketplace

import (
	"errors"
	"time"

	"accesschain/core/events"
	"accesschain/core/types"
	"accesschain/native/token"
)

var (
	errNilState  = errors.New("marketplace engine: state not configured")
	errNilLedger = errors.New("marketplace engine: token ledger not configured")
)

// State is the persistence surface for marketplace records. Put stores a
// sanitized clone; Get returns a clone the caller may mutate freely; Delete
// removes a closed record outright.
type State interface {
	AppPut(*App) error
	AppGet(addr [20]byte) (*App, bool)
	AssetPut(*Asset) error
	AssetGet(addr [20]byte) (*Asset, bool)
	AssetDelete(addr [20]byte) error
	PaymentPut(*Payment) error
	PaymentGet(addr [20]byte) (*Payment, bool)
	PaymentDelete(addr [20]byte) error
}

// TokenLedger is the fixed token contract the engine invokes. Derived record
// addresses act as signing authorities: the engine passes the listing or
// payment address as authority after verifying its derivation, and the ledger
// checks it by equality.
type TokenLedger interface {
	CreateMint(addr, authority [20]byte, decimals uint8, bump uint8) (*token.Mint, error)
	CreateAccount(addr, mint, owner [20]byte) (*token.Account, error)
	Mint(addr [20]byte) (*token.Mint, bool)
	Account(addr [20]byte) (*token.Account, bool)
	Transfer(from, to, authority [20]byte, amount uint64) error
	MintTo(mint, to, authority [20]byte, amount uint64) error
	Burn(mint, from, authority [20]byte, amount uint64) error
	CloseAccount(account, destination, authority [20]byte) error
	SetMetadata(mint, authority [20]byte, name, symbol, uri string) error
}

type marketplaceEvent struct {
	evt *types.Event
}

func (e marketplaceEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e marketplaceEvent) Event() *types.Event { return e.evt }

// Engine wires the marketplace business logic with external state, the token
// ledger and event emitters. Every instruction validates its full account
// graph before mutating anything, so a failed instruction leaves state
// untouched.
type Engine struct {
	state   State
	ledger  TokenLedger
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine creates a marketplace engine with a no-op emitter. Callers can
// override the emitter via SetEmitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state State) { e.state = state }

// SetLedger configures the token ledger the engine issues calls against.
func (e *Engine) SetLedger(ledger TokenLedger) { e.ledger = ledger }

// SetNowFunc overrides the time source used by the engine. Primarily intended
// for tests to provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(marketplaceEvent{evt: event})
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) ready() error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if e.ledger == nil {
		return errNilLedger
	}
	return nil
}

// loadAsset fetches a listing and binds its stored bumps to the expected
// derivation before the caller relies on them.
func (e *Engine) loadAsset(addr [20]byte) (*Asset, error) {
	asset, ok := e.state.AssetGet(addr)
	if !ok {
		return nil, ErrAssetNotFound
	}
	derived, bump := DeriveAsset(asset.AssetMint)
	if derived != addr || bump != asset.Bump {
		return nil, ErrBumpMismatch
	}
	return asset, nil
}

func (e *Engine) loadPayment(addr [20]byte) (*Payment, error) {
	payment, ok := e.state.PaymentGet(addr)
	if !ok {
		return nil, ErrPaymentNotFound
	}
	derived, bump := DerivePayment(payment.AssetMint, payment.Buyer, payment.PaymentTimestamp)
	if derived != addr || bump != payment.Bump {
		return nil, ErrBumpMismatch
	}
	return payment, nil
}

func (e *Engine) storeAsset(asset *Asset) error {
	sanitized, err := SanitizeAsset(asset)
	if err != nil {
		return err
	}
	return e.state.AssetPut(sanitized)
}

// CreateApp registers a platform app keyed by name with a withdrawal fee
// policy.
func (e *Engine) CreateApp(authority [20]byte, name string, feeBasisPoints uint16) (*App, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if feeBasisPoints > MaxFeeBasisPoints {
		return nil, ErrIncorrectFee
	}
	addr, bump, err := DeriveApp(name)
	if err != nil {
		return nil, err
	}
	if _, ok := e.state.AppGet(addr); ok {
		return nil, ErrAppAlreadyExists
	}
	app := &App{
		Address:        addr,
		Authority:      authority,
		Name:           name,
		FeeBasisPoints: feeBasisPoints,
		Bump:           bump,
	}
	sanitized, err := SanitizeApp(app)
	if err != nil {
		return nil, err
	}
	if err := e.state.AppPut(sanitized); err != nil {
		return nil, err
	}
	e.emit(NewAppCreatedEvent(sanitized))
	return sanitized.Clone(), nil
}

// CreateAssetParams carries the seller configuration for a new listing.
type CreateAssetParams struct {
	Authority      [20]byte
	AppName        string // empty for a standalone listing
	OffChainID     string
	Metadata       string
	AcceptedMint   [20]byte
	Price          uint64
	RefundTimespan int64
	Exemplars      int64
	TokenName      string
	TokenSymbol    string
	TokenURI       string
}

// CreateAsset registers a listing, creates its zero-decimal access-token mint
// with the listing record as mint authority, and attaches display metadata.
func (e *Engine) CreateAsset(params CreateAssetParams) (*Asset, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if _, err := pad64(params.Metadata); err != nil {
		return nil, err
	}
	var appAddr [20]byte
	if params.AppName != "" {
		derived, _, err := DeriveApp(params.AppName)
		if err != nil {
			return nil, err
		}
		if _, ok := e.state.AppGet(derived); !ok {
			return nil, ErrAppNotFound
		}
		appAddr = derived
	}
	if _, ok := e.ledger.Mint(params.AcceptedMint); !ok {
		return nil, ErrIncorrectPaymentToken
	}
	mintAddr, mintBump, err := DeriveAssetMint(params.OffChainID)
	if err != nil {
		return nil, err
	}
	assetAddr, bump := DeriveAsset(mintAddr)
	if _, ok := e.state.AssetGet(assetAddr); ok {
		return nil, ErrAssetAlreadyExists
	}
	asset := &Asset{
		Address:        assetAddr,
		App:            appAddr,
		OffChainID:     params.OffChainID,
		Metadata:       params.Metadata,
		AcceptedMint:   params.AcceptedMint,
		AssetMint:      mintAddr,
		Authority:      params.Authority,
		Price:          params.Price,
		RefundTimespan: params.RefundTimespan,
		Exemplars:      params.Exemplars,
		Bump:           bump,
		MintBump:       mintBump,
	}
	sanitized, err := SanitizeAsset(asset)
	if err != nil {
		return nil, err
	}
	// The listing is its own mint authority: nothing but this engine,
	// signing with the asset's derivation, can issue or burn supply.
	if _, err := e.ledger.CreateMint(mintAddr, assetAddr, 0, mintBump); err != nil {
		return nil, err
	}
	if err := e.ledger.SetMetadata(mintAddr, assetAddr, params.TokenName, params.TokenSymbol, params.TokenURI); err != nil {
		return nil, err
	}
	if err := e.state.AssetPut(sanitized); err != nil {
		return nil, err
	}
	e.emit(NewAssetCreatedEvent(sanitized))
	return sanitized.Clone(), nil
}

// EditAssetPrice replaces the listing price. Open payments keep the price they
// were purchased at.
func (e *Engine) EditAssetPrice(caller, assetAddr [20]byte, newPrice uint64) (*Asset, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	asset, err := e.loadAsset(assetAddr)
	if err != nil {
		return nil, err
	}
	if asset.Authority != caller {
		return nil, ErrIncorrectAssetAuthority
	}
	previous := asset.Price
	asset.Price = newPrice
	if err := e.storeAsset(asset); err != nil {
		return nil, err
	}
	e.emit(NewAssetPriceUpdatedEvent(asset, previous))
	return asset.Clone(), nil
}

// BuyParams identifies the buyer's account graph for a purchase.
type BuyParams struct {
	Buyer [20]byte
	Asset [20]byte
	// Timestamp disambiguates the payment derivation so one buyer can hold
	// several concurrent payments for the same listing.
	Timestamp int64
	Exemplars uint64
	// TransferVault is the buyer's account of the accepted mint the price
	// is drawn from.
	TransferVault [20]byte
	// TokenVault is the buyer's account of the asset mint that receives
	// the purchased access tokens.
	TokenVault [20]byte
}

// Buy escrows the payment for the requested exemplars and mints them to the
// buyer. The escrow vault is owned by the freshly created payment record.
func (e *Engine) Buy(params BuyParams) (*Payment, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if params.Exemplars == 0 {
		return nil, ErrInvalidQuantity
	}
	asset, err := e.loadAsset(params.Asset)
	if err != nil {
		return nil, err
	}
	if asset.Exemplars >= 0 {
		remaining := uint64(asset.Exemplars) - asset.Sold
		if params.Exemplars > remaining {
			return nil, ErrNotEnoughTokensAvailable
		}
	}
	transferVault, ok := e.ledger.Account(params.TransferVault)
	if !ok || transferVault.Mint != asset.AcceptedMint {
		return nil, ErrIncorrectBuyerTransferVault
	}
	tokenVault, ok := e.ledger.Account(params.TokenVault)
	if !ok || tokenVault.Mint != asset.AssetMint {
		return nil, ErrIncorrectBuyerTokenVault
	}
	totalAmount, err := TotalAmount(asset.Price, params.Exemplars)
	if err != nil {
		return nil, err
	}
	paymentAddr, bump := DerivePayment(asset.AssetMint, params.Buyer, params.Timestamp)
	if _, ok := e.state.PaymentGet(paymentAddr); ok {
		return nil, ErrPaymentAlreadyExists
	}
	vaultAddr, vaultBump := DerivePaymentVault(paymentAddr)
	payment := &Payment{
		Address:          paymentAddr,
		AssetMint:        asset.AssetMint,
		Seller:           asset.Authority,
		Buyer:            params.Buyer,
		Exemplars:        params.Exemplars,
		Price:            asset.Price,
		TotalAmount:      totalAmount,
		PaymentTimestamp: params.Timestamp,
		RefundConsumedAt: e.now() + asset.RefundTimespan,
		Bump:             bump,
		VaultBump:        vaultBump,
	}
	sanitized, err := SanitizePayment(payment)
	if err != nil {
		return nil, err
	}
	if _, err := e.ledger.CreateAccount(vaultAddr, asset.AcceptedMint, paymentAddr); err != nil {
		return nil, err
	}
	if err := e.ledger.Transfer(params.TransferVault, vaultAddr, params.Buyer, totalAmount); err != nil {
		return nil, err
	}
	if err := e.ledger.MintTo(asset.AssetMint, params.TokenVault, asset.Address, params.Exemplars); err != nil {
		return nil, err
	}
	asset.Sold += params.Exemplars
	if err := e.storeAsset(asset); err != nil {
		return nil, err
	}
	if err := e.state.PaymentPut(sanitized); err != nil {
		return nil, err
	}
	e.emit(NewAssetPurchasedEvent(asset, sanitized))
	return sanitized.Clone(), nil
}

// Share mints exemplars to a recipient without payment. Only the listing
// authority may share; shared supply never touches sold, price or escrow.
func (e *Engine) Share(caller, assetAddr, receiverVault [20]byte, quantity uint64) error {
	if err := e.ready(); err != nil {
		return err
	}
	if quantity == 0 {
		return ErrInvalidQuantity
	}
	asset, err := e.loadAsset(assetAddr)
	if err != nil {
		return err
	}
	if asset.Authority != caller {
		return ErrIncorrectAssetAuthority
	}
	receiver, ok := e.ledger.Account(receiverVault)
	if !ok || receiver.Mint != asset.AssetMint {
		return ErrIncorrectReceiverVault
	}
	if err := e.ledger.MintTo(asset.AssetMint, receiverVault, asset.Address, quantity); err != nil {
		return err
	}
	asset.Shared += quantity
	if err := e.storeAsset(asset); err != nil {
		return err
	}
	e.emit(NewAssetSharedEvent(asset, receiver.Owner, quantity))
	return nil
}

// Use burns access tokens from the caller's vault to redeem them. Consumption
// is decoupled from fund settlement: it only moves the used counter, which
// later gates Delete.
func (e *Engine) Use(caller, assetAddr, tokenVault [20]byte, quantity uint64) error {
	if err := e.ready(); err != nil {
		return err
	}
	if quantity == 0 {
		return ErrInvalidQuantity
	}
	asset, err := e.loadAsset(assetAddr)
	if err != nil {
		return err
	}
	vault, ok := e.ledger.Account(tokenVault)
	if !ok || vault.Mint != asset.AssetMint {
		return ErrIncorrectReceiverVault
	}
	if err := e.ledger.Burn(asset.AssetMint, tokenVault, caller, quantity); err != nil {
		return err
	}
	asset.Used += quantity
	if err := e.storeAsset(asset); err != nil {
		return err
	}
	e.emit(NewAssetUsedEvent(asset, caller, quantity))
	return nil
}

// RefundParams identifies the buyer's account graph for reversing a purchase.
type RefundParams struct {
	Caller  [20]byte
	Payment [20]byte
	// ReceiverVault is the buyer-designated account of the accepted mint
	// the escrowed funds return to.
	ReceiverVault [20]byte
	// TokenVault is the buyer's account of the asset mint the purchased
	// tokens are burned from. The burn failing on balance is the implicit
	// "buyer must still hold the tokens" guarantee.
	TokenVault [20]byte
}

// Refund reverses a purchase strictly before the refund deadline: the full
// escrowed amount returns to the buyer, the purchased tokens are burned and
// the payment record and vault are closed.
func (e *Engine) Refund(params RefundParams) error {
	if err := e.ready(); err != nil {
		return err
	}
	payment, err := e.loadPayment(params.Payment)
	if err != nil {
		return err
	}
	if payment.Buyer != params.Caller {
		return ErrIncorrectPaymentAuthority
	}
	if e.now() >= payment.RefundConsumedAt {
		return ErrTimeForRefundHasConsumed
	}
	assetAddr, _ := DeriveAsset(payment.AssetMint)
	asset, err := e.loadAsset(assetAddr)
	if err != nil {
		return err
	}
	vaultAddr, err := payment.Vault()
	if err != nil {
		return err
	}
	vault, ok := e.ledger.Account(vaultAddr)
	if !ok || vault.Owner != payment.Address || vault.Mint != asset.AcceptedMint {
		return ErrIncorrectPaymentVault
	}
	receiver, ok := e.ledger.Account(params.ReceiverVault)
	if !ok || receiver.Mint != asset.AcceptedMint {
		return ErrIncorrectReceiverVault
	}
	if err := e.ledger.Burn(asset.AssetMint, params.TokenVault, params.Caller, payment.Exemplars); err != nil {
		return err
	}
	if err := e.ledger.Transfer(vaultAddr, params.ReceiverVault, payment.Address, payment.TotalAmount); err != nil {
		return err
	}
	if err := e.ledger.CloseAccount(vaultAddr, payment.Buyer, payment.Address); err != nil {
		return err
	}
	asset.Sold -= payment.Exemplars
	asset.Refunded += payment.Exemplars
	if err := e.storeAsset(asset); err != nil {
		return err
	}
	if err := e.state.PaymentDelete(payment.Address); err != nil {
		return err
	}
	e.emit(NewPaymentRefundedEvent(asset, payment))
	return nil
}

// WithdrawParams identifies the seller's account graph for settling a payment.
type WithdrawParams struct {
	Caller  [20]byte
	Payment [20]byte
	// SellerVault is the seller's account of the accepted mint receiving
	// the net amount.
	SellerVault [20]byte
	// AppFeeVault receives the platform fee when the listing belongs to an
	// app with a non-zero fee policy; ignored otherwise.
	AppFeeVault [20]byte
}

// WithdrawFunds settles a payment in the seller's favour once the refund
// deadline has passed, splitting the platform fee off when the listing is
// linked to an app. The payment record and vault are closed; the record's
// storage deposit returns to the buyer who funded it.
func (e *Engine) WithdrawFunds(params WithdrawParams) error {
	if err := e.ready(); err != nil {
		return err
	}
	payment, err := e.loadPayment(params.Payment)
	if err != nil {
		return err
	}
	if payment.Seller != params.Caller {
		return ErrIncorrectPaymentAuthority
	}
	if e.now() < payment.RefundConsumedAt {
		return ErrCannotWithdrawYet
	}
	assetAddr, _ := DeriveAsset(payment.AssetMint)
	asset, err := e.loadAsset(assetAddr)
	if err != nil {
		return err
	}
	vaultAddr, err := payment.Vault()
	if err != nil {
		return err
	}
	vault, ok := e.ledger.Account(vaultAddr)
	if !ok || vault.Owner != payment.Address || vault.Mint != asset.AcceptedMint {
		return ErrIncorrectPaymentVault
	}
	sellerVault, ok := e.ledger.Account(params.SellerVault)
	if !ok || sellerVault.Mint != asset.AcceptedMint {
		return ErrIncorrectReceiverVault
	}
	totalFee := uint64(0)
	sellerAmount := payment.TotalAmount
	if asset.HasApp() {
		app, ok := e.state.AppGet(asset.App)
		if !ok {
			return ErrAppNotFound
		}
		if app.FeeBasisPoints > 0 {
			totalFee, sellerAmount, err = WithdrawAmounts(app.FeeBasisPoints, payment.TotalAmount)
			if err != nil {
				return err
			}
		}
	}
	if totalFee > 0 {
		feeVault, ok := e.ledger.Account(params.AppFeeVault)
		if !ok || feeVault.Mint != asset.AcceptedMint {
			return ErrIncorrectReceiverVault
		}
		if err := e.ledger.Transfer(vaultAddr, params.AppFeeVault, payment.Address, totalFee); err != nil {
			return err
		}
	}
	if sellerAmount > 0 {
		if err := e.ledger.Transfer(vaultAddr, params.SellerVault, payment.Address, sellerAmount); err != nil {
			return err
		}
	}
	if err := e.ledger.CloseAccount(vaultAddr, payment.Buyer, payment.Address); err != nil {
		return err
	}
	if err := e.state.PaymentDelete(payment.Address); err != nil {
		return err
	}
	e.emit(NewPaymentWithdrawnEvent(asset, payment, totalFee, sellerAmount))
	return nil
}

// Delete removes a listing once no unconsumed access tokens remain
// outstanding. The access-token mint stays registered; only the listing
// record is reclaimed.
func (e *Engine) Delete(caller, assetAddr [20]byte) error {
	if err := e.ready(); err != nil {
		return err
	}
	asset, err := e.loadAsset(assetAddr)
	if err != nil {
		return err
	}
	if asset.Authority != caller {
		return ErrIncorrectAssetAuthority
	}
	if asset.Sold+asset.Shared > asset.Used {
		return ErrUsersStillHoldUnusedTokens
	}
	if err := e.state.AssetDelete(assetAddr); err != nil {
		return err
	}
	e.emit(NewAssetDeletedEvent(asset))
	return nil
}

// App returns the app registered under the given name.
func (e *Engine) App(name string) (*App, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	addr, _, err := DeriveApp(name)
	if err != nil {
		return nil, err
	}
	app, ok := e.state.AppGet(addr)
	if !ok {
		return nil, ErrAppNotFound
	}
	return app, nil
}

// Asset returns the listing record at the given address.
func (e *Engine) Asset(addr [20]byte) (*Asset, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	asset, ok := e.state.AssetGet(addr)
	if !ok {
		return nil, ErrAssetNotFound
	}
	return asset, nil
}

// Payment returns the escrow record at the given address.
func (e *Engine) Payment(addr [20]byte) (*Payment, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	payment, ok := e.state.PaymentGet(addr)
	if !ok {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}
