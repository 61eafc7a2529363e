package deployer

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/zoopx/evm-thin-router/log"
)

// Wallet is the deployer account
type Wallet struct {
	Key     *ecdsa.PrivateKey
	Address common.Address
}

// NewWallet loads the key from the keystore when configured, otherwise from the hex private key
func NewWallet(cfg Config) (*Wallet, error) {
	if cfg.Keystore.Path != "" {
		key, err := newKeyFromKeystore(cfg.Keystore.Path, cfg.Keystore.Password)
		if err != nil {
			return nil, err
		}
		return &Wallet{Key: key.PrivateKey, Address: key.Address}, nil
	}
	hexKey := strings.TrimPrefix(strings.TrimSpace(cfg.PrivateKey), "0x")
	if hexKey == "" {
		return nil, ErrMissingKey
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid deployer private key: %w", err)
	}
	return WalletFromKey(key), nil
}

// WalletFromKey wraps an existing key
func WalletFromKey(key *ecdsa.PrivateKey) *Wallet {
	return &Wallet{Key: key, Address: crypto.PubkeyToAddress(key.PublicKey)}
}

func newKeyFromKeystore(path, password string) (*keystore.Key, error) {
	keystoreEncrypted, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	log.Infof("decrypting key from: %v", path)
	key, err := keystore.DecryptKey(keystoreEncrypted, password)
	if err != nil {
		return nil, err
	}
	return key, nil
}
