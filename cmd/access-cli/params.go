package main

import "accesschain/sdk"

type createAssetArgs struct {
	authority    string
	appName      string
	offChainID   string
	metadata     string
	acceptedMint string
	price        uint64
	refundSecs   int64
	exemplars    int64
	tokenName    string
	tokenSymbol  string
	tokenURI     string
}

type buyArgs struct {
	buyer         string
	asset         string
	timestamp     int64
	exemplars     uint64
	transferVault string
	tokenVault    string
}

func sdkCreateAppParams(authority, name string, feeBps uint16) sdk.CreateAppParams {
	return sdk.CreateAppParams{Authority: authority, Name: name, FeeBasisPoints: feeBps}
}

func sdkCreateAssetParams(args createAssetArgs) sdk.CreateAssetParams {
	return sdk.CreateAssetParams{
		Authority:      args.authority,
		AppName:        args.appName,
		OffChainID:     args.offChainID,
		Metadata:       args.metadata,
		AcceptedMint:   args.acceptedMint,
		Price:          args.price,
		RefundTimespan: args.refundSecs,
		Exemplars:      args.exemplars,
		TokenName:      args.tokenName,
		TokenSymbol:    args.tokenSymbol,
		TokenURI:       args.tokenURI,
	}
}

func sdkEditAssetPriceParams(caller, asset string, price uint64) sdk.EditAssetPriceParams {
	return sdk.EditAssetPriceParams{Caller: caller, Asset: asset, Price: price}
}

func sdkBuyAssetParams(args buyArgs) sdk.BuyAssetParams {
	return sdk.BuyAssetParams{
		Buyer:         args.buyer,
		Asset:         args.asset,
		Timestamp:     args.timestamp,
		Exemplars:     args.exemplars,
		TransferVault: args.transferVault,
		TokenVault:    args.tokenVault,
	}
}

func sdkShareAssetParams(caller, asset, receiverVault string, exemplars uint64) sdk.ShareAssetParams {
	return sdk.ShareAssetParams{Caller: caller, Asset: asset, ReceiverVault: receiverVault, Exemplars: exemplars}
}

func sdkUseAssetParams(caller, asset, tokenVault string, exemplars uint64) sdk.UseAssetParams {
	return sdk.UseAssetParams{Caller: caller, Asset: asset, TokenVault: tokenVault, Exemplars: exemplars}
}

func sdkRefundParams(caller, payment, receiverVault, tokenVault string) sdk.RefundParams {
	return sdk.RefundParams{Caller: caller, Payment: payment, ReceiverVault: receiverVault, TokenVault: tokenVault}
}

func sdkWithdrawParams(caller, payment, sellerVault, appFeeVault string) sdk.WithdrawFundsParams {
	return sdk.WithdrawFundsParams{Caller: caller, Payment: payment, SellerVault: sellerVault, AppFeeVault: appFeeVault}
}

func sdkDeleteAssetParams(caller, asset string) sdk.DeleteAssetParams {
	return sdk.DeleteAssetParams{Caller: caller, Asset: asset}
}
