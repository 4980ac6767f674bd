package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"accesschain/cmd/internal/passphrase"
	"accesschain/config"
	"accesschain/core"
	"accesschain/crypto"
	"accesschain/observability/logging"
	"accesschain/rpc"
	"accesschain/storage"
)

const operatorPassEnv = "ACCESSCHAIN_OPERATOR_PASS"

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	ephemeral := flag.Bool("ephemeral", false, "DEV ONLY: keep all state in memory instead of the data directory")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("ACCESSCHAIN_ENV"))

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger := logging.Setup("accesschaind", env, cfg.LogFile)

	var db storage.Database
	if *ephemeral {
		db = storage.NewMemDB()
	} else {
		leveldb, err := storage.NewLevelDB(cfg.DataDir)
		if err != nil {
			panic(fmt.Sprintf("Failed to open database: %v", err))
		}
		db = leveldb
	}
	defer db.Close()

	passSource := passphrase.NewSource(operatorPassEnv)
	operatorKey, err := loadOperatorKey(cfg, passSource.Get)
	if err != nil {
		panic(fmt.Sprintf("Failed to load operator key: %v", err))
	}
	operatorAddr := operatorKey.PubKey().Address()
	logger.Info("operator key loaded", slog.String("address", operatorAddr.String()))

	node := core.NewNode(db)

	for _, mint := range cfg.CurrencyMints {
		addr, err := node.EnsureCurrencyMint(mint.Symbol, operatorAddr.Raw(), mint.Decimals)
		if err != nil {
			logger.Error("failed to bootstrap currency mint",
				slog.String("symbol", mint.Symbol), slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("currency mint ready",
			slog.String("symbol", mint.Symbol),
			slog.String("address", crypto.MustNewAddress(addr).String()))
	}

	rpcServer := rpc.NewServer(node, logger)
	rpcErrCh := make(chan error, 1)
	go func() {
		rpcErrCh <- rpcServer.Start(cfg.RPCAddress)
	}()
	logger.Info("node initialised and running",
		slog.String("network", cfg.NetworkName),
		slog.String("rpc", cfg.RPCAddress))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-rpcErrCh:
		if err != nil {
			logger.Error("RPC server terminated", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("shutting down", slog.String("signal", sig.String()))
	}
}

func loadOperatorKey(cfg *config.Config, pass func() (string, error)) (*crypto.PrivateKey, error) {
	passphraseValue, err := pass()
	if err != nil {
		return nil, err
	}
	return crypto.LoadFromKeystore(cfg.OperatorKeystorePath, passphraseValue)
}
