package rpc

import (
	"errors"
	"net/http"

	"accesschain/native/token"
)

const (
	codeTokenInvalidParams = -32071
	codeTokenNotFound      = -32072
	codeTokenForbidden     = -32073
	codeTokenConflict      = -32074
	codeTokenInternal      = -32075
)

type mintJSON struct {
	Address   string `json:"address"`
	Authority string `json:"authority"`
	Decimals  uint8  `json:"decimals"`
	Supply    uint64 `json:"supply"`
}

type accountJSON struct {
	Address string `json:"address"`
	Mint    string `json:"mint"`
	Owner   string `json:"owner"`
	Balance uint64 `json:"balance"`
}

type metadataJSON struct {
	Mint   string `json:"mint"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	URI    string `json:"uri"`
}

func mintToJSON(m *token.Mint) mintJSON {
	return mintJSON{
		Address:   formatAddress(m.Address),
		Authority: formatAddress(m.Authority),
		Decimals:  m.Decimals,
		Supply:    m.Supply,
	}
}

func accountToJSON(a *token.Account) accountJSON {
	return accountJSON{
		Address: formatAddress(a.Address),
		Mint:    formatAddress(a.Mint),
		Owner:   formatAddress(a.Owner),
		Balance: a.Balance,
	}
}

func metadataToJSON(m *token.Metadata) metadataJSON {
	return metadataJSON{
		Mint:   formatAddress(m.Mint),
		Name:   m.Name,
		Symbol: m.Symbol,
		URI:    m.URI,
	}
}

func writeTokenError(w http.ResponseWriter, id interface{}, err error) {
	switch {
	case errors.Is(err, token.ErrMintNotFound),
		errors.Is(err, token.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, id, codeTokenNotFound, "not_found", err.Error())
	case errors.Is(err, token.ErrIncorrectAuthority):
		writeError(w, http.StatusForbidden, id, codeTokenForbidden, "forbidden", err.Error())
	case errors.Is(err, token.ErrMintAlreadyExists),
		errors.Is(err, token.ErrAccountAlreadyExists),
		errors.Is(err, token.ErrInsufficientFunds),
		errors.Is(err, token.ErrAccountNotEmpty):
		writeError(w, http.StatusConflict, id, codeTokenConflict, "conflict", err.Error())
	case errors.Is(err, token.ErrMintMismatch),
		errors.Is(err, token.ErrAmountOverflow),
		errors.Is(err, token.ErrInvalidMetadata):
		writeError(w, http.StatusBadRequest, id, codeTokenInvalidParams, "invalid_params", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, id, codeTokenInternal, "internal_error", err.Error())
	}
}

type createTokenAccountParams struct {
	Mint  string `json:"mint"`
	Owner string `json:"owner"`
}

func (s *Server) handleTokenCreateAccount(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params createTokenAccountParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeTokenInvalidParams, "invalid_params", err.Error())
		return
	}
	mint, err := parseAddress(params.Mint)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeTokenInvalidParams, "invalid_params", err.Error())
		return
	}
	owner, err := parseAddress(params.Owner)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeTokenInvalidParams, "invalid_params", err.Error())
		return
	}
	account, err := s.node.CreateTokenAccount(mint, owner)
	if err != nil {
		writeTokenError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, accountToJSON(account))
}

type mintCurrencyParams struct {
	Mint      string `json:"mint"`
	To        string `json:"to"`
	Authority string `json:"authority"`
	Amount    uint64 `json:"amount"`
}

func (s *Server) handleTokenMint(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params mintCurrencyParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeTokenInvalidParams, "invalid_params", err.Error())
		return
	}
	mint, err := parseAddress(params.Mint)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeTokenInvalidParams, "invalid_params", err.Error())
		return
	}
	to, err := parseAddress(params.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeTokenInvalidParams, "invalid_params", err.Error())
		return
	}
	authority, err := parseAddress(params.Authority)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeTokenInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.node.MintCurrency(mint, to, authority, params.Amount); err != nil {
		writeTokenError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleTokenGetAccount(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params addressParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeTokenInvalidParams, "invalid_params", err.Error())
		return
	}
	addr, err := parseAddress(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeTokenInvalidParams, "invalid_params", err.Error())
		return
	}
	account, err := s.node.GetTokenAccount(addr)
	if err != nil {
		writeTokenError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, accountToJSON(account))
}

func (s *Server) handleTokenGetMint(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params addressParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeTokenInvalidParams, "invalid_params", err.Error())
		return
	}
	addr, err := parseAddress(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeTokenInvalidParams, "invalid_params", err.Error())
		return
	}
	mint, err := s.node.GetTokenMint(addr)
	if err != nil {
		writeTokenError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, mintToJSON(mint))
}

func (s *Server) handleTokenGetMetadata(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params addressParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeTokenInvalidParams, "invalid_params", err.Error())
		return
	}
	addr, err := parseAddress(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeTokenInvalidParams, "invalid_params", err.Error())
		return
	}
	metadata, err := s.node.GetTokenMetadata(addr)
	if err != nil {
		writeTokenError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, metadataToJSON(metadata))
}
