package main

import (
	"flag"
	"fmt"
	"io"

	"accesschain/sdk"
)

func runTokenCommand(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Usage: access-cli token <create-account|mint|account|mint-info|metadata> [flags]")
		return 1
	}
	switch args[0] {
	case "create-account":
		return runTokenCreateAccount(args[1:], stdout, stderr)
	case "mint":
		return runTokenMint(args[1:], stdout, stderr)
	case "account":
		return runTokenAccount(args[1:], stdout, stderr)
	case "mint-info":
		return runTokenMintInfo(args[1:], stdout, stderr)
	case "metadata":
		return runTokenMetadata(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown token subcommand: %s\n", args[0])
		return 1
	}
}

func runTokenCreateAccount(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("token create-account", flag.ContinueOnError)
	fs.SetOutput(stderr)
	mint := fs.String("mint", "", "mint bech32 address")
	owner := fs.String("owner", "", "account owner bech32 address")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *mint == "" || *owner == "" {
		fmt.Fprintln(stderr, "Error: --mint and --owner are required")
		return 1
	}
	client, err := newClient()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	ctx, cancel := callContext()
	defer cancel()
	account, err := client.CreateTokenAccount(ctx, sdk.CreateTokenAccountParams{Mint: *mint, Owner: *owner})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	printJSON(stdout, account)
	return 0
}

func runTokenMint(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("token mint", flag.ContinueOnError)
	fs.SetOutput(stderr)
	mint := fs.String("mint", "", "mint bech32 address")
	to := fs.String("to", "", "destination token account address")
	authority := fs.String("authority", "", "mint authority bech32 address")
	amount := fs.Uint64("amount", 0, "amount in base units")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *mint == "" || *to == "" || *authority == "" || *amount == 0 {
		fmt.Fprintln(stderr, "Error: --mint, --to, --authority and a non-zero --amount are required")
		return 1
	}
	client, err := newClient()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	ctx, cancel := callContext()
	defer cancel()
	if err := client.Mint(ctx, sdk.MintParams{Mint: *mint, To: *to, Authority: *authority, Amount: *amount}); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "ok")
	return 0
}

func runTokenAccount(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage: access-cli token account <address>")
		return 1
	}
	client, err := newClient()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	ctx, cancel := callContext()
	defer cancel()
	account, err := client.GetTokenAccount(ctx, args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	printJSON(stdout, account)
	return 0
}

func runTokenMintInfo(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage: access-cli token mint-info <address>")
		return 1
	}
	client, err := newClient()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	ctx, cancel := callContext()
	defer cancel()
	mint, err := client.GetTokenMint(ctx, args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	printJSON(stdout, mint)
	return 0
}

func runTokenMetadata(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage: access-cli token metadata <mint address>")
		return 1
	}
	client, err := newClient()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	ctx, cancel := callContext()
	defer cancel()
	metadata, err := client.GetTokenMetadata(ctx, args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	printJSON(stdout, metadata)
	return 0
}
