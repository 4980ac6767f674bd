package core

import (
	"sync"
	"time"

	"accesschain/core/events"
	"accesschain/core/state"
	"accesschain/native/marketplace"
	"accesschain/native/token"
	"accesschain/observability"
	"accesschain/storage"
)

// eventBufferSize bounds the number of recent events kept for RPC queries.
const eventBufferSize = 1024

// Node executes marketplace instructions against the chain database. A mutex
// serializes execution the way the host runtime's account-lock scheduler
// serializes transactions touching the same records; each instruction runs on
// a copy-on-write overlay that commits only on success, so every transition
// is all-or-nothing.
type Node struct {
	mu      sync.Mutex
	db      storage.Database
	emitter *events.MemoryEmitter
	metrics *observability.InstructionMetrics
	nowFn   func() int64
}

// NewNode creates a node over the given database.
func NewNode(db storage.Database) *Node {
	return &Node{
		db:      db,
		emitter: events.NewMemoryEmitter(eventBufferSize),
		metrics: observability.Metrics(),
	}
}

// SetNowFunc overrides the node's time source. Primarily for tests.
func (n *Node) SetNowFunc(now func() int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nowFn = now
}

// Events returns a snapshot of recently emitted events.
func (n *Node) Events() []events.Event {
	return n.emitter.Events()
}

func (n *Node) execute(instruction string, fn func(*marketplace.Engine) error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	started := time.Now()
	overlay := storage.NewOverlay(n.db)
	manager := state.NewManager(overlay)
	ledger := token.NewLedger()
	ledger.SetState(manager)
	engine := marketplace.NewEngine()
	engine.SetState(manager)
	engine.SetLedger(ledger)
	// Events stage alongside the overlay and publish only once the
	// instruction's writes are committed.
	staged := events.NewMemoryEmitter(0)
	engine.SetEmitter(staged)
	if n.nowFn != nil {
		engine.SetNowFunc(n.nowFn)
	}
	err := fn(engine)
	if err == nil {
		err = overlay.Commit()
	}
	if err == nil {
		for _, evt := range staged.Events() {
			n.emitter.Emit(evt)
		}
	}
	n.metrics.Observe(instruction, err, started)
	return err
}

func (n *Node) executeToken(instruction string, fn func(*token.Ledger) error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	started := time.Now()
	overlay := storage.NewOverlay(n.db)
	manager := state.NewManager(overlay)
	ledger := token.NewLedger()
	ledger.SetState(manager)
	err := fn(ledger)
	if err == nil {
		err = overlay.Commit()
	}
	n.metrics.Observe(instruction, err, started)
	return err
}

// --- marketplace instructions ---

func (n *Node) CreateApp(authority [20]byte, name string, feeBasisPoints uint16) (*marketplace.App, error) {
	var app *marketplace.App
	err := n.execute("create_app", func(e *marketplace.Engine) error {
		created, err := e.CreateApp(authority, name, feeBasisPoints)
		app = created
		return err
	})
	return app, err
}

func (n *Node) CreateAsset(params marketplace.CreateAssetParams) (*marketplace.Asset, error) {
	var asset *marketplace.Asset
	err := n.execute("create_asset", func(e *marketplace.Engine) error {
		created, err := e.CreateAsset(params)
		asset = created
		return err
	})
	return asset, err
}

func (n *Node) EditAssetPrice(caller, asset [20]byte, newPrice uint64) (*marketplace.Asset, error) {
	var updated *marketplace.Asset
	err := n.execute("edit_asset_price", func(e *marketplace.Engine) error {
		edited, err := e.EditAssetPrice(caller, asset, newPrice)
		updated = edited
		return err
	})
	return updated, err
}

func (n *Node) BuyAsset(params marketplace.BuyParams) (*marketplace.Payment, error) {
	var payment *marketplace.Payment
	err := n.execute("buy_asset", func(e *marketplace.Engine) error {
		bought, err := e.Buy(params)
		payment = bought
		return err
	})
	return payment, err
}

func (n *Node) ShareAsset(caller, asset, receiverVault [20]byte, quantity uint64) error {
	return n.execute("share_asset", func(e *marketplace.Engine) error {
		return e.Share(caller, asset, receiverVault, quantity)
	})
}

func (n *Node) UseAsset(caller, asset, tokenVault [20]byte, quantity uint64) error {
	return n.execute("use_asset", func(e *marketplace.Engine) error {
		return e.Use(caller, asset, tokenVault, quantity)
	})
}

func (n *Node) Refund(params marketplace.RefundParams) error {
	return n.execute("refund", func(e *marketplace.Engine) error {
		return e.Refund(params)
	})
}

func (n *Node) WithdrawFunds(params marketplace.WithdrawParams) error {
	return n.execute("withdraw_funds", func(e *marketplace.Engine) error {
		return e.WithdrawFunds(params)
	})
}

func (n *Node) DeleteAsset(caller, asset [20]byte) error {
	return n.execute("delete_asset", func(e *marketplace.Engine) error {
		return e.Delete(caller, asset)
	})
}

// --- token surface ---

// EnsureCurrencyMint creates an accepted-payment mint at its derived address
// if it does not exist yet. Used when bootstrapping a local network from
// configuration.
func (n *Node) EnsureCurrencyMint(symbol string, authority [20]byte, decimals uint8) ([20]byte, error) {
	addr := token.DeriveMint(symbol)
	err := n.executeToken("create_mint", func(l *token.Ledger) error {
		if _, ok := l.Mint(addr); ok {
			return nil
		}
		_, err := l.CreateMint(addr, authority, decimals, 0)
		return err
	})
	return addr, err
}

// CreateTokenAccount creates the canonical token account for an owner and
// mint at its derived address.
func (n *Node) CreateTokenAccount(mint, owner [20]byte) (*token.Account, error) {
	var account *token.Account
	err := n.executeToken("create_token_account", func(l *token.Ledger) error {
		created, err := l.CreateAccount(token.DeriveAccount(mint, owner), mint, owner)
		account = created
		return err
	})
	return account, err
}

// MintCurrency issues accepted-payment funds; the authority must match the
// mint's configured authority.
func (n *Node) MintCurrency(mint, to, authority [20]byte, amount uint64) error {
	return n.executeToken("mint_to", func(l *token.Ledger) error {
		return l.MintTo(mint, to, authority, amount)
	})
}

// --- queries ---

func (n *Node) manager() *state.Manager {
	return state.NewManager(n.db)
}

func (n *Node) ledger() *token.Ledger {
	l := token.NewLedger()
	l.SetState(n.manager())
	return l
}

func (n *Node) GetApp(name string) (*marketplace.App, error) {
	addr, _, err := marketplace.DeriveApp(name)
	if err != nil {
		return nil, err
	}
	app, ok := n.manager().AppGet(addr)
	if !ok {
		return nil, marketplace.ErrAppNotFound
	}
	return app, nil
}

func (n *Node) GetAsset(addr [20]byte) (*marketplace.Asset, error) {
	asset, ok := n.manager().AssetGet(addr)
	if !ok {
		return nil, marketplace.ErrAssetNotFound
	}
	return asset, nil
}

func (n *Node) GetPayment(addr [20]byte) (*marketplace.Payment, error) {
	payment, ok := n.manager().PaymentGet(addr)
	if !ok {
		return nil, marketplace.ErrPaymentNotFound
	}
	return payment, nil
}

func (n *Node) GetTokenAccount(addr [20]byte) (*token.Account, error) {
	account, ok := n.ledger().Account(addr)
	if !ok {
		return nil, token.ErrAccountNotFound
	}
	return account, nil
}

func (n *Node) GetTokenMint(addr [20]byte) (*token.Mint, error) {
	mint, ok := n.ledger().Mint(addr)
	if !ok {
		return nil, token.ErrMintNotFound
	}
	return mint, nil
}

func (n *Node) GetTokenMetadata(mint [20]byte) (*token.Metadata, error) {
	meta, ok := n.ledger().Metadata(mint)
	if !ok {
		return nil, token.ErrMintNotFound
	}
	return meta, nil
}
