package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientCallsMethodWithAuth(t *testing.T) {
	var gotMethod string
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
			ID     uint64            `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		gotMethod = req.Method
		if len(req.Params) != 1 {
			t.Fatalf("expected one params object, got %d", len(req.Params))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result": map[string]interface{}{
				"address":        "acc1qqqsyqcyq5rqwzqfpg9scrgwpugpzysn0q9qhh2",
				"authority":      "acc1qqqsyqcyq5rqwzqfpg9scrgwpugpzysn0q9qhh2",
				"name":           "arcade",
				"feeBasisPoints": 250,
			},
		})
	}))
	defer srv.Close()

	client, err := New(srv.URL, WithAuthToken("secret"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	app, err := client.CreateApp(context.Background(), CreateAppParams{
		Authority:      "acc1qqqsyqcyq5rqwzqfpg9scrgwpugpzysn0q9qhh2",
		Name:           "arcade",
		FeeBasisPoints: 250,
	})
	if err != nil {
		t.Fatalf("create app: %v", err)
	}
	if gotMethod != "marketplace_createApp" {
		t.Fatalf("unexpected method: %q", gotMethod)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if app.Name != "arcade" || app.FeeBasisPoints != 250 {
		t.Fatalf("unexpected app: %+v", app)
	}
}

func TestClientSurfacesRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      1,
			"error": map[string]interface{}{
				"code":    -32062,
				"message": "not_found",
				"data":    "marketplace: asset not found",
			},
		})
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.GetAsset(context.Background(), "acc1qqqsyqcyq5rqwzqfpg9scrgwpugpzysn0q9qhh2")
	if err == nil {
		t.Fatal("expected error")
	}
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected RPCError, got %T: %v", err, err)
	}
	if rpcErr.Code != -32062 {
		t.Fatalf("unexpected code: %d", rpcErr.Code)
	}
}
