package crypto

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/accounts/keystore"
)

// SaveToKeystore encrypts an operator or wallet key into a v3 keystore file at
// the given path. The write goes through a temporary sibling directory and a
// rename so a crash never leaves a half-written keystore behind; missing
// parent directories are created with 0700 permissions and the file itself
// ends up 0600.
func SaveToKeystore(path string, key *PrivateKey, passphrase string) error {
	if key == nil {
		return errors.New("crypto: nil private key")
	}
	if path == "" {
		return errors.New("crypto: empty keystore path")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("crypto: create keystore directory: %w", err)
	}

	tmpDir, err := os.MkdirTemp(dir, "keystore-")
	if err != nil {
		return fmt.Errorf("crypto: stage keystore: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	ks := keystore.NewKeyStore(tmpDir, keystore.StandardScryptN, keystore.StandardScryptP)
	if _, err := ks.ImportECDSA(key.PrivateKey, passphrase); err != nil {
		return fmt.Errorf("crypto: encrypt key: %w", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return fmt.Errorf("crypto: stage keystore: %w", err)
	}
	if len(entries) == 0 {
		return errors.New("crypto: keystore file was not created")
	}

	src := filepath.Join(tmpDir, entries[0].Name())
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("crypto: replace keystore: %w", err)
	}
	if err := os.Rename(src, path); err != nil {
		return fmt.Errorf("crypto: replace keystore: %w", err)
	}
	return os.Chmod(path, 0o600)
}

// LoadFromKeystore decrypts a v3 keystore file and checks that the decrypted
// key still derives the address recorded in the file, so a corrupted or
// hand-edited keystore fails loudly instead of signing as the wrong identity.
func LoadFromKeystore(path, passphrase string) (*PrivateKey, error) {
	if path == "" {
		return nil, errors.New("crypto: empty keystore path")
	}

	keyJSON, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("crypto: read keystore: %w", err)
	}

	decrypted, err := keystore.DecryptKey(keyJSON, passphrase)
	if err != nil {
		return nil, fmt.Errorf("crypto: decrypt keystore: %w", err)
	}

	key := &PrivateKey{PrivateKey: decrypted.PrivateKey}
	if !bytes.Equal(key.PubKey().Address().Bytes(), decrypted.Address.Bytes()) {
		return nil, errors.New("crypto: keystore address does not match its key")
	}
	return key, nil
}
