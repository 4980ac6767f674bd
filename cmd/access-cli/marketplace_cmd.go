package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"
)

const rpcTimeout = 10 * time.Second

func callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), rpcTimeout)
}

func runAppCommand(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Usage: access-cli app <create|get> [flags]")
		return 1
	}
	switch args[0] {
	case "create":
		return runAppCreate(args[1:], stdout, stderr)
	case "get":
		return runAppGet(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown app subcommand: %s\n", args[0])
		return 1
	}
}

func runAppCreate(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("app create", flag.ContinueOnError)
	fs.SetOutput(stderr)
	authority := fs.String("authority", "", "app authority bech32 address")
	name := fs.String("name", "", "app name (max 32 bytes)")
	feeBps := fs.Uint("fee-bps", 0, "platform fee in basis points")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *authority == "" || *name == "" {
		fmt.Fprintln(stderr, "Error: --authority and --name are required")
		return 1
	}
	if *feeBps > 10_000 {
		fmt.Fprintln(stderr, "Error: --fee-bps must be <= 10000")
		return 1
	}
	client, err := newClient()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	ctx, cancel := callContext()
	defer cancel()
	app, err := client.CreateApp(ctx, sdkCreateAppParams(*authority, *name, uint16(*feeBps)))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	printJSON(stdout, app)
	return 0
}

func runAppGet(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage: access-cli app get <name>")
		return 1
	}
	client, err := newClient()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	ctx, cancel := callContext()
	defer cancel()
	app, err := client.GetApp(ctx, args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	printJSON(stdout, app)
	return 0
}

func runAssetCommand(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Usage: access-cli asset <create|get|edit-price|buy|share|use|delete> [flags]")
		return 1
	}
	switch args[0] {
	case "create":
		return runAssetCreate(args[1:], stdout, stderr)
	case "get":
		return runAssetGet(args[1:], stdout, stderr)
	case "edit-price":
		return runAssetEditPrice(args[1:], stdout, stderr)
	case "buy":
		return runAssetBuy(args[1:], stdout, stderr)
	case "share":
		return runAssetShare(args[1:], stdout, stderr)
	case "use":
		return runAssetUse(args[1:], stdout, stderr)
	case "delete":
		return runAssetDelete(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown asset subcommand: %s\n", args[0])
		return 1
	}
}

func runAssetCreate(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("asset create", flag.ContinueOnError)
	fs.SetOutput(stderr)
	authority := fs.String("authority", "", "seller bech32 address")
	appName := fs.String("app", "", "optional app name the listing belongs to")
	offChainID := fs.String("id", "", "off-chain identifier (max 32 bytes)")
	metadata := fs.String("metadata", "", "optional metadata reference (max 64 bytes)")
	acceptedMint := fs.String("accepted-mint", "", "payment currency mint address")
	price := fs.Uint64("price", 0, "price per exemplar in accepted-mint base units")
	refundSecs := fs.Int64("refund-timespan", 0, "refund window in seconds")
	exemplars := fs.Int64("exemplars", -1, "supply cap (-1 for unlimited)")
	tokenName := fs.String("token-name", "", "access token display name")
	tokenSymbol := fs.String("token-symbol", "", "access token symbol")
	tokenURI := fs.String("token-uri", "", "access token metadata URI")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *authority == "" || *offChainID == "" || *acceptedMint == "" {
		fmt.Fprintln(stderr, "Error: --authority, --id and --accepted-mint are required")
		return 1
	}
	client, err := newClient()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	ctx, cancel := callContext()
	defer cancel()
	asset, err := client.CreateAsset(ctx, sdkCreateAssetParams(createAssetArgs{
		authority:    *authority,
		appName:      *appName,
		offChainID:   *offChainID,
		metadata:     *metadata,
		acceptedMint: *acceptedMint,
		price:        *price,
		refundSecs:   *refundSecs,
		exemplars:    *exemplars,
		tokenName:    *tokenName,
		tokenSymbol:  *tokenSymbol,
		tokenURI:     *tokenURI,
	}))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	printJSON(stdout, asset)
	return 0
}

func runAssetGet(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage: access-cli asset get <address>")
		return 1
	}
	client, err := newClient()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	ctx, cancel := callContext()
	defer cancel()
	asset, err := client.GetAsset(ctx, args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	printJSON(stdout, asset)
	return 0
}

func runAssetEditPrice(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("asset edit-price", flag.ContinueOnError)
	fs.SetOutput(stderr)
	caller := fs.String("caller", "", "listing authority bech32 address")
	asset := fs.String("asset", "", "listing address")
	price := fs.Uint64("price", 0, "new price per exemplar")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *caller == "" || *asset == "" {
		fmt.Fprintln(stderr, "Error: --caller and --asset are required")
		return 1
	}
	client, err := newClient()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	ctx, cancel := callContext()
	defer cancel()
	updated, err := client.EditAssetPrice(ctx, sdkEditAssetPriceParams(*caller, *asset, *price))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	printJSON(stdout, updated)
	return 0
}

func runAssetBuy(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("asset buy", flag.ContinueOnError)
	fs.SetOutput(stderr)
	buyer := fs.String("buyer", "", "buyer bech32 address")
	asset := fs.String("asset", "", "listing address")
	exemplars := fs.Uint64("exemplars", 1, "number of exemplars to buy")
	transferVault := fs.String("transfer-vault", "", "buyer account of the accepted mint")
	tokenVault := fs.String("token-vault", "", "buyer account of the asset mint")
	timestamp := fs.Int64("timestamp", 0, "payment derivation timestamp (defaults to now)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *buyer == "" || *asset == "" || *transferVault == "" || *tokenVault == "" {
		fmt.Fprintln(stderr, "Error: --buyer, --asset, --transfer-vault and --token-vault are required")
		return 1
	}
	ts := *timestamp
	if ts == 0 {
		ts = time.Now().Unix()
	}
	client, err := newClient()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	ctx, cancel := callContext()
	defer cancel()
	payment, err := client.BuyAsset(ctx, sdkBuyAssetParams(buyArgs{
		buyer:         *buyer,
		asset:         *asset,
		timestamp:     ts,
		exemplars:     *exemplars,
		transferVault: *transferVault,
		tokenVault:    *tokenVault,
	}))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	printJSON(stdout, payment)
	return 0
}

func runAssetShare(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("asset share", flag.ContinueOnError)
	fs.SetOutput(stderr)
	caller := fs.String("caller", "", "listing authority bech32 address")
	asset := fs.String("asset", "", "listing address")
	receiverVault := fs.String("receiver-vault", "", "recipient account of the asset mint")
	exemplars := fs.Uint64("exemplars", 1, "number of exemplars to grant")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *caller == "" || *asset == "" || *receiverVault == "" {
		fmt.Fprintln(stderr, "Error: --caller, --asset and --receiver-vault are required")
		return 1
	}
	client, err := newClient()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	ctx, cancel := callContext()
	defer cancel()
	if err := client.ShareAsset(ctx, sdkShareAssetParams(*caller, *asset, *receiverVault, *exemplars)); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "ok")
	return 0
}

func runAssetUse(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("asset use", flag.ContinueOnError)
	fs.SetOutput(stderr)
	caller := fs.String("caller", "", "token holder bech32 address")
	asset := fs.String("asset", "", "listing address")
	tokenVault := fs.String("token-vault", "", "holder account of the asset mint")
	exemplars := fs.Uint64("exemplars", 1, "number of exemplars to redeem")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *caller == "" || *asset == "" || *tokenVault == "" {
		fmt.Fprintln(stderr, "Error: --caller, --asset and --token-vault are required")
		return 1
	}
	client, err := newClient()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	ctx, cancel := callContext()
	defer cancel()
	if err := client.UseAsset(ctx, sdkUseAssetParams(*caller, *asset, *tokenVault, *exemplars)); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "ok")
	return 0
}

func runAssetDelete(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("asset delete", flag.ContinueOnError)
	fs.SetOutput(stderr)
	caller := fs.String("caller", "", "listing authority bech32 address")
	asset := fs.String("asset", "", "listing address")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *caller == "" || *asset == "" {
		fmt.Fprintln(stderr, "Error: --caller and --asset are required")
		return 1
	}
	client, err := newClient()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	ctx, cancel := callContext()
	defer cancel()
	if err := client.DeleteAsset(ctx, sdkDeleteAssetParams(*caller, *asset)); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "ok")
	return 0
}

func runPaymentCommand(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Usage: access-cli payment <get|refund|withdraw> [flags]")
		return 1
	}
	switch args[0] {
	case "get":
		return runPaymentGet(args[1:], stdout, stderr)
	case "refund":
		return runPaymentRefund(args[1:], stdout, stderr)
	case "withdraw":
		return runPaymentWithdraw(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown payment subcommand: %s\n", args[0])
		return 1
	}
}

func runPaymentGet(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage: access-cli payment get <address>")
		return 1
	}
	client, err := newClient()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	ctx, cancel := callContext()
	defer cancel()
	payment, err := client.GetPayment(ctx, args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	printJSON(stdout, payment)
	return 0
}

func runPaymentRefund(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("payment refund", flag.ContinueOnError)
	fs.SetOutput(stderr)
	caller := fs.String("caller", "", "buyer bech32 address")
	payment := fs.String("payment", "", "payment record address")
	receiverVault := fs.String("receiver-vault", "", "buyer account of the accepted mint")
	tokenVault := fs.String("token-vault", "", "buyer account of the asset mint")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *caller == "" || *payment == "" || *receiverVault == "" || *tokenVault == "" {
		fmt.Fprintln(stderr, "Error: --caller, --payment, --receiver-vault and --token-vault are required")
		return 1
	}
	client, err := newClient()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	ctx, cancel := callContext()
	defer cancel()
	if err := client.Refund(ctx, sdkRefundParams(*caller, *payment, *receiverVault, *tokenVault)); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "ok")
	return 0
}

func runPaymentWithdraw(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("payment withdraw", flag.ContinueOnError)
	fs.SetOutput(stderr)
	caller := fs.String("caller", "", "seller bech32 address")
	payment := fs.String("payment", "", "payment record address")
	sellerVault := fs.String("seller-vault", "", "seller account of the accepted mint")
	appFeeVault := fs.String("app-fee-vault", "", "app fee account of the accepted mint (required for app listings with a fee)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *caller == "" || *payment == "" || *sellerVault == "" {
		fmt.Fprintln(stderr, "Error: --caller, --payment and --seller-vault are required")
		return 1
	}
	client, err := newClient()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	ctx, cancel := callContext()
	defer cancel()
	if err := client.WithdrawFunds(ctx, sdkWithdrawParams(*caller, *payment, *sellerVault, *appFeeVault)); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "ok")
	return 0
}
