package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"accesschain/crypto"
	"accesschain/sdk"
)

var (
	rpcEndpoint  = defaultRPCEndpoint()
	rpcAuthToken = os.Getenv("ACCESSCHAIN_RPC_TOKEN")
)

func main() {
	args := os.Args[1:]
	args, err := applyGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if len(args) < 1 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	switch args[0] {
	case "generate-key":
		os.Exit(runGenerateKey(args[1:], os.Stdout, os.Stderr))
	case "app":
		os.Exit(runAppCommand(args[1:], os.Stdout, os.Stderr))
	case "asset":
		os.Exit(runAssetCommand(args[1:], os.Stdout, os.Stderr))
	case "payment":
		os.Exit(runPaymentCommand(args[1:], os.Stdout, os.Stderr))
	case "token":
		os.Exit(runTokenCommand(args[1:], os.Stdout, os.Stderr))
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		printUsage(os.Stderr)
		os.Exit(1)
	}
}

func defaultRPCEndpoint() string {
	if v := strings.TrimSpace(os.Getenv("RPC_URL")); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}

// applyGlobalFlags strips a leading --rpc flag before subcommand dispatch.
func applyGlobalFlags(args []string) ([]string, error) {
	out := args
	for len(out) > 0 {
		arg := out[0]
		switch {
		case arg == "--rpc":
			if len(out) < 2 {
				return nil, fmt.Errorf("--rpc requires a value")
			}
			rpcEndpoint = strings.TrimSpace(out[1])
			out = out[2:]
		case strings.HasPrefix(arg, "--rpc="):
			rpcEndpoint = strings.TrimSpace(strings.TrimPrefix(arg, "--rpc="))
			out = out[1:]
		default:
			return out, nil
		}
	}
	return out, nil
}

func newClient() (*sdk.Client, error) {
	return sdk.New(rpcEndpoint, sdk.WithAuthToken(rpcAuthToken))
}

func printJSON(w io.Writer, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "%+v\n", v)
		return
	}
	fmt.Fprintln(w, string(data))
}

func runGenerateKey(args []string, stdout, stderr io.Writer) int {
	path := "wallet.keystore"
	if len(args) > 0 {
		path = args[0]
	}
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to generate key: %v\n", err)
		return 1
	}
	passphraseValue := os.Getenv("ACCESSCHAIN_WALLET_PASS")
	if err := crypto.SaveToKeystore(path, key, passphraseValue); err != nil {
		fmt.Fprintf(stderr, "Error: failed to save keystore: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "New key saved to %s\n", path)
	fmt.Fprintf(stdout, "Address: %s\n", key.PubKey().Address().String())
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage: access-cli [--rpc <url>] <command> [args]

Commands:
  generate-key [file]        Generate a wallet key and save it as a keystore
  app create|get             Manage marketplace apps
  asset create|get|edit-price|buy|share|use|delete
                             Manage marketplace listings
  payment get|refund|withdraw
                             Inspect and settle escrowed payments
  token create-account|mint|account|mint-info|metadata
                             Token ledger operations

Environment:
  RPC_URL                    Node JSON-RPC endpoint (default http://127.0.0.1:8080)
  ACCESSCHAIN_RPC_TOKEN      Bearer token for mutating calls
  ACCESSCHAIN_WALLET_PASS    Passphrase for generate-key keystores`)
}
