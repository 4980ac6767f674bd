package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"accesschain/crypto"

	"github.com/BurntSushi/toml"
)

// CurrencyMint declares a payment currency the node guarantees exists at
// startup. The mint address is derived from the symbol, so every node
// bootstrapping the same symbol agrees on the address.
type CurrencyMint struct {
	Symbol   string `toml:"Symbol"`
	Decimals uint8  `toml:"Decimals"`
}

type Config struct {
	RPCAddress           string         `toml:"RPCAddress"`
	DataDir              string         `toml:"DataDir"`
	NetworkName          string         `toml:"NetworkName"`
	LogFile              string         `toml:"LogFile"`
	OperatorKeystorePath string         `toml:"OperatorKeystorePath"`
	CurrencyMints        []CurrencyMint `toml:"CurrencyMints"`
}

// Load loads the configuration from the given path, creating a default file
// (and an operator keystore next to it) when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if err := ensureKeystore(path, cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "accesschain-local"
	}
	if cfg.CurrencyMints == nil {
		cfg.CurrencyMints = []CurrencyMint{}
	}
	for i, mint := range cfg.CurrencyMints {
		if strings.TrimSpace(mint.Symbol) == "" {
			return nil, fmt.Errorf("config file %s: CurrencyMints[%d] has an empty Symbol", path, i)
		}
	}

	return cfg, nil
}

func ensureKeystore(configPath string, cfg *Config) error {
	keystorePath := cfg.OperatorKeystorePath
	if keystorePath == "" {
		keystorePath = defaultKeystorePath(configPath)
	}

	if _, err := os.Stat(keystorePath); os.IsNotExist(err) {
		key, genErr := crypto.GeneratePrivateKey()
		if genErr != nil {
			return genErr
		}
		if err := crypto.SaveToKeystore(keystorePath, key, ""); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if cfg.OperatorKeystorePath != keystorePath {
		cfg.OperatorKeystorePath = keystorePath
		return persist(configPath, cfg)
	}

	return nil
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}

	keystorePath := defaultKeystorePath(path)
	if err := crypto.SaveToKeystore(keystorePath, key, ""); err != nil {
		return nil, err
	}

	cfg := &Config{
		RPCAddress:  ":8080",
		DataDir:     "./accesschain-data",
		NetworkName: "accesschain-local",
		CurrencyMints: []CurrencyMint{
			{Symbol: "USDA", Decimals: 6},
		},
	}
	cfg.OperatorKeystorePath = keystorePath

	if err := persist(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

func defaultKeystorePath(configPath string) string {
	dir := filepath.Dir(configPath)
	if dir == "." || dir == "" {
		dir = ""
	}
	return filepath.Join(dir, "operator.keystore")
}
