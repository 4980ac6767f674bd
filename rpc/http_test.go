package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"accesschain/core"
	"accesschain/crypto"
	"accesschain/storage"
)

const testAuthToken = "test-token"

func newTestServer(t *testing.T) (*httptest.Server, *core.Node) {
	t.Helper()
	t.Setenv("ACCESSCHAIN_RPC_TOKEN", testAuthToken)
	node := core.NewNode(storage.NewMemDB())
	node.SetNowFunc(func() int64 { return 1_700_000_000 })
	srv := httptest.NewServer(NewServer(node, nil).Handler())
	t.Cleanup(srv.Close)
	return srv, node
}

func rpcCall(t *testing.T, srv *httptest.Server, token, method string, params interface{}) (*http.Response, RPCResponse) {
	t.Helper()
	payload := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
	}
	if params != nil {
		payload["params"] = []interface{}{params}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, srv.URL, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("call %s: %v", method, err)
	}
	defer resp.Body.Close()
	var decoded RPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func testAddr(fill byte) string {
	var raw [20]byte
	for i := range raw {
		raw[i] = fill
	}
	return crypto.MustNewAddress(raw).String()
}

func TestMutatingMethodsRequireAuth(t *testing.T) {
	srv, _ := newTestServer(t)
	params := map[string]interface{}{
		"authority":      testAddr(0x01),
		"name":           "arcade",
		"feeBasisPoints": 100,
	}

	resp, decoded := rpcCall(t, srv, "", "marketplace_createApp", params)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", resp.StatusCode)
	}
	if decoded.Error == nil || decoded.Error.Code != codeUnauthorized {
		t.Fatalf("unexpected error: %+v", decoded.Error)
	}

	resp, decoded = rpcCall(t, srv, "wrong-token", "marketplace_createApp", params)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status %d with bad token, want 401", resp.StatusCode)
	}
	if decoded.Error == nil || decoded.Error.Code != codeUnauthorized {
		t.Fatalf("unexpected error with bad token: %+v", decoded.Error)
	}
}

func TestCreateAppRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, decoded := rpcCall(t, srv, testAuthToken, "marketplace_createApp", map[string]interface{}{
		"authority":      testAddr(0x01),
		"name":           "arcade",
		"feeBasisPoints": 250,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status %d: %+v", resp.StatusCode, decoded.Error)
	}
	if decoded.Error != nil {
		t.Fatalf("create failed: %+v", decoded.Error)
	}

	// Queries need no credentials.
	resp, decoded = rpcCall(t, srv, "", "marketplace_getApp", map[string]interface{}{"name": "arcade"})
	if resp.StatusCode != http.StatusOK || decoded.Error != nil {
		t.Fatalf("get status %d: %+v", resp.StatusCode, decoded.Error)
	}
	var app appJSON
	raw, err := json.Marshal(decoded.Result)
	if err != nil {
		t.Fatalf("remarshal result: %v", err)
	}
	if err := json.Unmarshal(raw, &app); err != nil {
		t.Fatalf("decode app: %v", err)
	}
	if app.Name != "arcade" || app.FeeBasisPoints != 250 {
		t.Fatalf("unexpected app: %+v", app)
	}
	if app.Authority != testAddr(0x01) {
		t.Fatalf("authority %q, want %q", app.Authority, testAddr(0x01))
	}
	if app.Address == "" {
		t.Fatal("expected derived app address")
	}
}

func TestQueryMissingRecordsReturnNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		method string
		params interface{}
		code   int
	}{
		{"marketplace_getApp", map[string]interface{}{"name": "ghost"}, codeMarketplaceNotFound},
		{"marketplace_getAsset", map[string]interface{}{"address": testAddr(0x41)}, codeMarketplaceNotFound},
		{"marketplace_getPayment", map[string]interface{}{"address": testAddr(0x42)}, codeMarketplaceNotFound},
		{"token_getMint", map[string]interface{}{"address": testAddr(0x43)}, codeTokenNotFound},
		{"token_getAccount", map[string]interface{}{"address": testAddr(0x44)}, codeTokenNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			resp, decoded := rpcCall(t, srv, "", tc.method, tc.params)
			if resp.StatusCode != http.StatusNotFound {
				t.Fatalf("status %d, want 404", resp.StatusCode)
			}
			if decoded.Error == nil || decoded.Error.Code != tc.code {
				t.Fatalf("unexpected error: %+v", decoded.Error)
			}
		})
	}
}

func TestRejectsMalformedRequests(t *testing.T) {
	srv, _ := newTestServer(t)

	// Missing params object.
	resp, decoded := rpcCall(t, srv, "", "marketplace_getApp", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
	if decoded.Error == nil || decoded.Error.Code != codeMarketplaceInvalidParams {
		t.Fatalf("unexpected error: %+v", decoded.Error)
	}

	// Unknown method.
	resp, decoded = rpcCall(t, srv, "", "marketplace_unknown", map[string]interface{}{})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d, want 404", resp.StatusCode)
	}
	if decoded.Error == nil || decoded.Error.Code != codeMethodNotFound {
		t.Fatalf("unexpected error: %+v", decoded.Error)
	}

	// Malformed address in an otherwise valid query.
	resp, decoded = rpcCall(t, srv, "", "marketplace_getAsset", map[string]interface{}{"address": "not-an-address"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
	if decoded.Error == nil || decoded.Error.Code != codeMarketplaceInvalidParams {
		t.Fatalf("unexpected error: %+v", decoded.Error)
	}
}

func TestBuyFlowOverRPC(t *testing.T) {
	srv, node := newTestServer(t)

	operator := [20]byte{0x01}
	currency, err := node.EnsureCurrencyMint("USDA", operator, 6)
	if err != nil {
		t.Fatalf("ensure mint: %v", err)
	}
	seller := [20]byte{0x12}
	buyer := [20]byte{0x13}

	_, decoded := rpcCall(t, srv, testAuthToken, "marketplace_createAsset", map[string]interface{}{
		"authority":      crypto.MustNewAddress(seller).String(),
		"offChainId":     "course-101",
		"acceptedMint":   crypto.MustNewAddress(currency).String(),
		"price":          100,
		"refundTimespan": 3600,
		"exemplars":      5,
		"tokenName":      "Course Pass",
		"tokenSymbol":    "PASS",
	})
	if decoded.Error != nil {
		t.Fatalf("create asset: %+v", decoded.Error)
	}
	var asset assetJSON
	raw, _ := json.Marshal(decoded.Result)
	if err := json.Unmarshal(raw, &asset); err != nil {
		t.Fatalf("decode asset: %v", err)
	}

	transferVault, err := node.CreateTokenAccount(currency, buyer)
	if err != nil {
		t.Fatalf("create transfer vault: %v", err)
	}
	if err := node.MintCurrency(currency, transferVault.Address, operator, 1_000); err != nil {
		t.Fatalf("fund buyer: %v", err)
	}

	_, decoded = rpcCall(t, srv, testAuthToken, "token_createAccount", map[string]interface{}{
		"mint":  asset.AssetMint,
		"owner": crypto.MustNewAddress(buyer).String(),
	})
	if decoded.Error != nil {
		t.Fatalf("create token vault: %+v", decoded.Error)
	}
	var tokenVault accountJSON
	raw, _ = json.Marshal(decoded.Result)
	if err := json.Unmarshal(raw, &tokenVault); err != nil {
		t.Fatalf("decode token vault: %v", err)
	}

	_, decoded = rpcCall(t, srv, testAuthToken, "marketplace_buyAsset", map[string]interface{}{
		"buyer":         crypto.MustNewAddress(buyer).String(),
		"asset":         asset.Address,
		"timestamp":     1_700_000_000,
		"exemplars":     2,
		"transferVault": crypto.MustNewAddress(transferVault.Address).String(),
		"tokenVault":    tokenVault.Address,
	})
	if decoded.Error != nil {
		t.Fatalf("buy: %+v", decoded.Error)
	}
	var payment paymentJSON
	raw, _ = json.Marshal(decoded.Result)
	if err := json.Unmarshal(raw, &payment); err != nil {
		t.Fatalf("decode payment: %v", err)
	}
	if payment.TotalAmount != 200 {
		t.Fatalf("total %d, want 200", payment.TotalAmount)
	}
	if payment.RefundConsumedAt != 1_700_000_000+3600 {
		t.Fatalf("deadline %d", payment.RefundConsumedAt)
	}

	// Buying beyond the remaining supply maps to the conflict code.
	resp, decoded := rpcCall(t, srv, testAuthToken, "marketplace_buyAsset", map[string]interface{}{
		"buyer":         crypto.MustNewAddress(buyer).String(),
		"asset":         asset.Address,
		"timestamp":     1_700_000_001,
		"exemplars":     4,
		"transferVault": crypto.MustNewAddress(transferVault.Address).String(),
		"tokenVault":    tokenVault.Address,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status %d, want 409", resp.StatusCode)
	}
	if decoded.Error == nil || decoded.Error.Code != codeMarketplaceConflict {
		t.Fatalf("unexpected error: %+v", decoded.Error)
	}
}

func TestRequestBodyValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.Client().Post(srv.URL, "application/json", bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty body status %d, want 400", resp.StatusCode)
	}

	resp, err = srv.Client().Post(srv.URL, "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad json status %d, want 400", resp.StatusCode)
	}
	var decoded RPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Error == nil || decoded.Error.Code != codeParseError {
		t.Fatalf("unexpected error: %+v", decoded.Error)
	}

	oversized := fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":"marketplace_getApp","params":[{"name":%q}]}`,
		bytes.Repeat([]byte{'a'}, maxRequestBytes))
	resp, err = srv.Client().Post(srv.URL, "application/json", bytes.NewReader([]byte(oversized)))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized status %d, want 413", resp.StatusCode)
	}
}
