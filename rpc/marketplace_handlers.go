package rpc

import (
	"errors"
	"net/http"

	"accesschain/native/marketplace"
)

const (
	codeMarketplaceInvalidParams = -32061
	codeMarketplaceNotFound      = -32062
	codeMarketplaceForbidden     = -32063
	codeMarketplaceConflict      = -32064
	codeMarketplaceInternal      = -32065
)

type appJSON struct {
	Address        string `json:"address"`
	Authority      string `json:"authority"`
	Name           string `json:"name"`
	FeeBasisPoints uint16 `json:"feeBasisPoints"`
}

type assetJSON struct {
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

type paymentJSON struct {
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

func appToJSON(a *marketplace.App) appJSON {
	return appJSON{
		Address:        formatAddress(a.Address),
		Authority:      formatAddress(a.Authority),
		Name:           a.Name,
		FeeBasisPoints: a.FeeBasisPoints,
	}
}

func assetToJSON(a *marketplace.Asset) assetJSON {
	out := assetJSON{
		Address:        formatAddress(a.Address),
		OffChainID:     a.OffChainID,
		Metadata:       a.Metadata,
		AcceptedMint:   formatAddress(a.AcceptedMint),
		AssetMint:      formatAddress(a.AssetMint),
		Authority:      formatAddress(a.Authority),
		Price:          a.Price,
		RefundTimespan: a.RefundTimespan,
		Exemplars:      a.Exemplars,
		Sold:           a.Sold,
		Used:           a.Used,
		Shared:         a.Shared,
		Refunded:       a.Refunded,
	}
	if a.HasApp() {
		out.App = formatAddress(a.App)
	}
	return out
}

func paymentToJSON(p *marketplace.Payment) paymentJSON {
	vault, _ := marketplace.DerivePaymentVault(p.Address)
	return paymentJSON{
		Address:          formatAddress(p.Address),
		AssetMint:        formatAddress(p.AssetMint),
		Seller:           formatAddress(p.Seller),
		Buyer:            formatAddress(p.Buyer),
		Exemplars:        p.Exemplars,
		Price:            p.Price,
		TotalAmount:      p.TotalAmount,
		PaymentTimestamp: p.PaymentTimestamp,
		RefundConsumedAt: p.RefundConsumedAt,
		Vault:            formatAddress(vault),
	}
}

// writeMarketplaceError maps engine sentinel errors onto the module's RPC
// error codes.
func writeMarketplaceError(w http.ResponseWriter, id interface{}, err error) {
	switch {
	case errors.Is(err, marketplace.ErrAppNotFound),
		errors.Is(err, marketplace.ErrAssetNotFound),
		errors.Is(err, marketplace.ErrPaymentNotFound):
		writeError(w, http.StatusNotFound, id, codeMarketplaceNotFound, "not_found", err.Error())
	case errors.Is(err, marketplace.ErrIncorrectAssetAuthority),
		errors.Is(err, marketplace.ErrIncorrectPaymentAuthority):
		writeError(w, http.StatusForbidden, id, codeMarketplaceForbidden, "forbidden", err.Error())
	case errors.Is(err, marketplace.ErrNotEnoughTokensAvailable),
		errors.Is(err, marketplace.ErrTimeForRefundHasConsumed),
		errors.Is(err, marketplace.ErrCannotWithdrawYet),
		errors.Is(err, marketplace.ErrUsersStillHoldUnusedTokens),
		errors.Is(err, marketplace.ErrAppAlreadyExists),
		errors.Is(err, marketplace.ErrAssetAlreadyExists),
		errors.Is(err, marketplace.ErrPaymentAlreadyExists):
		writeError(w, http.StatusConflict, id, codeMarketplaceConflict, "conflict", err.Error())
	case errors.Is(err, marketplace.ErrStringTooLong),
		errors.Is(err, marketplace.ErrIncorrectFee),
		errors.Is(err, marketplace.ErrInvalidQuantity),
		errors.Is(err, marketplace.ErrNumericalOverflow),
		errors.Is(err, marketplace.ErrIncorrectPaymentToken),
		errors.Is(err, marketplace.ErrIncorrectBuyerTransferVault),
		errors.Is(err, marketplace.ErrIncorrectBuyerTokenVault),
		errors.Is(err, marketplace.ErrIncorrectReceiverVault),
		errors.Is(err, marketplace.ErrIncorrectPaymentVault),
		errors.Is(err, marketplace.ErrBumpMismatch):
		writeError(w, http.StatusBadRequest, id, codeMarketplaceInvalidParams, "invalid_params", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, id, codeMarketplaceInternal, "internal_error", err.Error())
	}
}

type createAppParams struct {
	Authority      string `json:"authority"`
	Name           string `json:"name"`
	FeeBasisPoints uint16 `json:"feeBasisPoints"`
}

func (s *Server) handleCreateApp(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params createAppParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	authority, err := parseAddress(params.Authority)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	app, err := s.node.CreateApp(authority, params.Name, params.FeeBasisPoints)
	if err != nil {
		writeMarketplaceError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, appToJSON(app))
}

type createAssetParams struct {
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

func (s *Server) handleCreateAsset(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params createAssetParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	authority, err := parseAddress(params.Authority)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	acceptedMint, err := parseAddress(params.AcceptedMint)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	asset, err := s.node.CreateAsset(marketplace.CreateAssetParams{
		Authority:      authority,
		AppName:        params.AppName,
		OffChainID:     params.OffChainID,
		Metadata:       params.Metadata,
		AcceptedMint:   acceptedMint,
		Price:          params.Price,
		RefundTimespan: params.RefundTimespan,
		Exemplars:      params.Exemplars,
		TokenName:      params.TokenName,
		TokenSymbol:    params.TokenSymbol,
		TokenURI:       params.TokenURI,
	})
	if err != nil {
		writeMarketplaceError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, assetToJSON(asset))
}

type editAssetPriceParams struct {
	Caller string `json:"caller"`
	Asset  string `json:"asset"`
	Price  uint64 `json:"price"`
}

func (s *Server) handleEditAssetPrice(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params editAssetPriceParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	asset, err := parseAddress(params.Asset)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	updated, err := s.node.EditAssetPrice(caller, asset, params.Price)
	if err != nil {
		writeMarketplaceError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, assetToJSON(updated))
}

type buyAssetParams struct {
	Buyer         string `json:"buyer"`
	Asset         string `json:"asset"`
	Timestamp     int64  `json:"timestamp"`
	Exemplars     uint64 `json:"exemplars"`
	TransferVault string `json:"transferVault"`
	TokenVault    string `json:"tokenVault"`
}

func (s *Server) handleBuyAsset(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params buyAssetParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	buyer, err := parseAddress(params.Buyer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	asset, err := parseAddress(params.Asset)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	transferVault, err := parseAddress(params.TransferVault)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	tokenVault, err := parseAddress(params.TokenVault)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	payment, err := s.node.BuyAsset(marketplace.BuyParams{
		Buyer:         buyer,
		Asset:         asset,
		Timestamp:     params.Timestamp,
		Exemplars:     params.Exemplars,
		TransferVault: transferVault,
		TokenVault:    tokenVault,
	})
	if err != nil {
		writeMarketplaceError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, paymentToJSON(payment))
}

type shareAssetParams struct {
	Caller        string `json:"caller"`
	Asset         string `json:"asset"`
	ReceiverVault string `json:"receiverVault"`
	Exemplars     uint64 `json:"exemplars"`
}

func (s *Server) handleShareAsset(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params shareAssetParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	asset, err := parseAddress(params.Asset)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	receiver, err := parseAddress(params.ReceiverVault)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.node.ShareAsset(caller, asset, receiver, params.Exemplars); err != nil {
		writeMarketplaceError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type useAssetParams struct {
	Caller     string `json:"caller"`
	Asset      string `json:"asset"`
	TokenVault string `json:"tokenVault"`
	Exemplars  uint64 `json:"exemplars"`
}

func (s *Server) handleUseAsset(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params useAssetParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	asset, err := parseAddress(params.Asset)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	tokenVault, err := parseAddress(params.TokenVault)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.node.UseAsset(caller, asset, tokenVault, params.Exemplars); err != nil {
		writeMarketplaceError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type refundParams struct {
	Caller        string `json:"caller"`
	Payment       string `json:"payment"`
	ReceiverVault string `json:"receiverVault"`
	TokenVault    string `json:"tokenVault"`
}

func (s *Server) handleRefund(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params refundParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	payment, err := parseAddress(params.Payment)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	receiver, err := parseAddress(params.ReceiverVault)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	tokenVault, err := parseAddress(params.TokenVault)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.node.Refund(marketplace.RefundParams{
		Caller:        caller,
		Payment:       payment,
		ReceiverVault: receiver,
		TokenVault:    tokenVault,
	}); err != nil {
		writeMarketplaceError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type withdrawFundsParams struct {
	Caller      string `json:"caller"`
	Payment     string `json:"payment"`
	SellerVault string `json:"sellerVault"`
	AppFeeVault string `json:"appFeeVault,omitempty"`
}

func (s *Server) handleWithdrawFunds(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params withdrawFundsParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	payment, err := parseAddress(params.Payment)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	sellerVault, err := parseAddress(params.SellerVault)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	var appFeeVault [20]byte
	if params.AppFeeVault != "" {
		appFeeVault, err = parseAddress(params.AppFeeVault)
		if err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
			return
		}
	}
	if err := s.node.WithdrawFunds(marketplace.WithdrawParams{
		Caller:      caller,
		Payment:     payment,
		SellerVault: sellerVault,
		AppFeeVault: appFeeVault,
	}); err != nil {
		writeMarketplaceError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type deleteAssetParams struct {
	Caller string `json:"caller"`
	Asset  string `json:"asset"`
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params deleteAssetParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	asset, err := parseAddress(params.Asset)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.node.DeleteAsset(caller, asset); err != nil {
		writeMarketplaceError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type getAppParams struct {
	Name string `json:"name"`
}

func (s *Server) handleGetApp(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params getAppParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	app, err := s.node.GetApp(params.Name)
	if err != nil {
		writeMarketplaceError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, appToJSON(app))
}

type addressParams struct {
	Address string `json:"address"`
}

func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params addressParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	addr, err := parseAddress(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	asset, err := s.node.GetAsset(addr)
	if err != nil {
		writeMarketplaceError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, assetToJSON(asset))
}

func (s *Server) handleGetPayment(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params addressParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	addr, err := parseAddress(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketplaceInvalidParams, "invalid_params", err.Error())
		return
	}
	payment, err := s.node.GetPayment(addr)
	if err != nil {
		writeMarketplaceError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, paymentToJSON(payment))
}
