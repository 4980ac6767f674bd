// Package sdk provides a Go client for the accesschain JSON-RPC interface.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
)

// Client wraps the node's JSON-RPC endpoint.
type Client struct {
	endpoint   string
	authToken  string
	httpClient *http.Client
	nextID     atomic.Uint64
}

// Option mutates the client configuration during construction.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithAuthToken sets the bearer token sent with mutating calls.
func WithAuthToken(token string) Option {
	return func(c *Client) {
		c.authToken = strings.TrimSpace(token)
	}
}

// New constructs a client pointed at the supplied endpoint URL.
func New(endpoint string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, fmt.Errorf("endpoint required")
	}
	client := &Client{
		endpoint:   trimmed,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = http.DefaultClient
	}
	return client, nil
}

// RPCError carries the error object of a failed JSON-RPC call.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if e.Data != "" {
		return fmt.Sprintf("rpc error %d: %s: %s", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params interface{}, out interface{}) error {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  []interface{}{params},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var decoded rpcResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if decoded.Error != nil {
		return decoded.Error
	}
	if out != nil {
		if err := json.Unmarshal(decoded.Result, out); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}
	return nil
}

// App mirrors the marketplace_getApp result.
type App struct {
	Address        string `json:"address"`
	Authority      string `json:"authority"`
	Name           string `json:"name"`
	FeeBasisPoints uint16 `json:"feeBasisPoints"`
}

// Asset mirrors the marketplace_getAsset result.
type Asset struct {
	Address        string `json:"address"`
	App            string `json:"app,omitempty"`
	OffChainID     string `json:"offChainId"`
	Metadata       string `json:"metadata"`
	AcceptedMint   string `json:"acceptedMint"`
	AssetMint      string `json:"assetMint"`
	Authority      string `json:"authority"`
	Price          uint64 `json:"price"`
	RefundTimespan int64  `json:"refundTimespan"`
	Exemplars      int64  `json:"exemplars"`
	Sold           uint64 `json:"sold"`
	Used           uint64 `json:"used"`
	Shared         uint64 `json:"shared"`
	Refunded       uint64 `json:"refunded"`
}

// Payment mirrors the marketplace_getPayment result.
type Payment struct {
	Address          string `json:"address"`
	AssetMint        string `json:"assetMint"`
	Seller           string `json:"seller"`
	Buyer            string `json:"buyer"`
	Exemplars        uint64 `json:"exemplars"`
	Price            uint64 `json:"price"`
	TotalAmount      uint64 `json:"totalAmount"`
	PaymentTimestamp int64  `json:"paymentTimestamp"`
	RefundConsumedAt int64  `json:"refundConsumedAt"`
	Vault            string `json:"vault"`
}

// TokenMint mirrors the token_getMint result.
type TokenMint struct {
	Address   string `json:"address"`
	Authority string `json:"authority"`
	Decimals  uint8  `json:"decimals"`
	Supply    uint64 `json:"supply"`
}

// TokenAccount mirrors the token_getAccount result.
type TokenAccount struct {
	Address string `json:"address"`
	Mint    string `json:"mint"`
	Owner   string `json:"owner"`
	Balance uint64 `json:"balance"`
}

// TokenMetadata mirrors the token_getMetadata result.
type TokenMetadata struct {
	Mint   string `json:"mint"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	URI    string `json:"uri"`
}

// CreateAppParams configures marketplace_createApp.
type CreateAppParams struct {
	Authority      string `json:"authority"`
	Name           string `json:"name"`
	FeeBasisPoints uint16 `json:"feeBasisPoints"`
}

func (c *Client) CreateApp(ctx context.Context, params CreateAppParams) (*App, error) {
	var out App
	if err := c.call(ctx, "marketplace_createApp", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAssetParams configures marketplace_createAsset.
type CreateAssetParams struct {
	Authority      string `json:"authority"`
	AppName        string `json:"appName,omitempty"`
	OffChainID     string `json:"offChainId"`
	Metadata       string `json:"metadata,omitempty"`
	AcceptedMint   string `json:"acceptedMint"`
	Price          uint64 `json:"price"`
	RefundTimespan int64  `json:"refundTimespan"`
	Exemplars      int64  `json:"exemplars"`
	TokenName      string `json:"tokenName"`
	TokenSymbol    string `json:"tokenSymbol"`
	TokenURI       string `json:"tokenUri"`
}

func (c *Client) CreateAsset(ctx context.Context, params CreateAssetParams) (*Asset, error) {
	var out Asset
	if err := c.call(ctx, "marketplace_createAsset", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EditAssetPriceParams configures marketplace_editAssetPrice.
type EditAssetPriceParams struct {
	Caller string `json:"caller"`
	Asset  string `json:"asset"`
	Price  uint64 `json:"price"`
}

func (c *Client) EditAssetPrice(ctx context.Context, params EditAssetPriceParams) (*Asset, error) {
	var out Asset
	if err := c.call(ctx, "marketplace_editAssetPrice", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BuyAssetParams configures marketplace_buyAsset.
type BuyAssetParams struct {
	Buyer         string `json:"buyer"`
	Asset         string `json:"asset"`
	Timestamp     int64  `json:"timestamp"`
	Exemplars     uint64 `json:"exemplars"`
	TransferVault string `json:"transferVault"`
	TokenVault    string `json:"tokenVault"`
}

func (c *Client) BuyAsset(ctx context.Context, params BuyAssetParams) (*Payment, error) {
	var out Payment
	if err := c.call(ctx, "marketplace_buyAsset", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ShareAssetParams configures marketplace_shareAsset.
type ShareAssetParams struct {
	Caller        string `json:"caller"`
	Asset         string `json:"asset"`
	ReceiverVault string `json:"receiverVault"`
	Exemplars     uint64 `json:"exemplars"`
}

func (c *Client) ShareAsset(ctx context.Context, params ShareAssetParams) error {
	return c.call(ctx, "marketplace_shareAsset", params, nil)
}

// UseAssetParams configures marketplace_useAsset.
type UseAssetParams struct {
	Caller     string `json:"caller"`
	Asset      string `json:"asset"`
	TokenVault string `json:"tokenVault"`
	Exemplars  uint64 `json:"exemplars"`
}

func (c *Client) UseAsset(ctx context.Context, params UseAssetParams) error {
	return c.call(ctx, "marketplace_useAsset", params, nil)
}

// RefundParams configures marketplace_refund.
type RefundParams struct {
	Caller        string `json:"caller"`
	Payment       string `json:"payment"`
	ReceiverVault string `json:"receiverVault"`
	TokenVault    string `json:"tokenVault"`
}

func (c *Client) Refund(ctx context.Context, params RefundParams) error {
	return c.call(ctx, "marketplace_refund", params, nil)
}

// WithdrawFundsParams configures marketplace_withdrawFunds.
type WithdrawFundsParams struct {
	Caller      string `json:"caller"`
	Payment     string `json:"payment"`
	SellerVault string `json:"sellerVault"`
	AppFeeVault string `json:"appFeeVault,omitempty"`
}

func (c *Client) WithdrawFunds(ctx context.Context, params WithdrawFundsParams) error {
	return c.call(ctx, "marketplace_withdrawFunds", params, nil)
}

// DeleteAssetParams configures marketplace_deleteAsset.
type DeleteAssetParams struct {
	Caller string `json:"caller"`
	Asset  string `json:"asset"`
}

func (c *Client) DeleteAsset(ctx context.Context, params DeleteAssetParams) error {
	return c.call(ctx, "marketplace_deleteAsset", params, nil)
}

func (c *Client) GetApp(ctx context.Context, name string) (*App, error) {
	var out App
	params := struct {
		Name string `json:"name"`
	}{Name: name}
	if err := c.call(ctx, "marketplace_getApp", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetAsset(ctx context.Context, address string) (*Asset, error) {
	var out Asset
	if err := c.call(ctx, "marketplace_getAsset", addressParam(address), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPayment(ctx context.Context, address string) (*Payment, error) {
	var out Payment
	if err := c.call(ctx, "marketplace_getPayment", addressParam(address), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTokenAccountParams configures token_createAccount.
type CreateTokenAccountParams struct {
	Mint  string `json:"mint"`
	Owner string `json:"owner"`
}

func (c *Client) CreateTokenAccount(ctx context.Context, params CreateTokenAccountParams) (*TokenAccount, error) {
	var out TokenAccount
	if err := c.call(ctx, "token_createAccount", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MintParams configures token_mint.
type MintParams struct {
	Mint      string `json:"mint"`
	To        string `json:"to"`
	Authority string `json:"authority"`
	Amount    uint64 `json:"amount"`
}

func (c *Client) Mint(ctx context.Context, params MintParams) error {
	return c.call(ctx, "token_mint", params, nil)
}

func (c *Client) GetTokenAccount(ctx context.Context, address string) (*TokenAccount, error) {
	var out TokenAccount
	if err := c.call(ctx, "token_getAccount", addressParam(address), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTokenMint(ctx context.Context, address string) (*TokenMint, error) {
	var out TokenMint
	if err := c.call(ctx, "token_getMint", addressParam(address), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTokenMetadata(ctx context.Context, mint string) (*TokenMetadata, error) {
	var out TokenMetadata
	if err := c.call(ctx, "token_getMetadata", addressParam(mint), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func addressParam(address string) interface{} {
	return struct {
		Address string `json:"address"`
	}{Address: address}
}
