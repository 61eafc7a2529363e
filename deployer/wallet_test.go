package deployer

import (
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestNewWalletFromHexKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := hexutil.Encode(crypto.FromECDSA(key))

	w, err := NewWallet(Config{PrivateKey: hexKey})
	require.NoError(t, err)
	require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), w.Address)

	w, err = NewWallet(Config{PrivateKey: hexKey[2:]})
	require.NoError(t, err)
	require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), w.Address)

	_, err = NewWallet(Config{})
	require.ErrorIs(t, err, ErrMissingKey)
	_, err = NewWallet(Config{PrivateKey: "0x1234"})
	require.Error(t, err)
}

func TestNewWalletFromKeystore(t *testing.T) {
	dir := t.TempDir()
	ks := keystore.NewKeyStore(dir, keystore.LightScryptN, keystore.LightScryptP)
	account, err := ks.NewAccount("secret")
	require.NoError(t, err)

	w, err := NewWallet(Config{
		PrivateKey: "0x00",
		Keystore:   KeystoreConfig{Path: account.URL.Path, Password: "secret"},
	})
	require.NoError(t, err)
	require.Equal(t, account.Address, w.Address)

	_, err = NewWallet(Config{Keystore: KeystoreConfig{Path: account.URL.Path, Password: "wrong"}})
	require.Error(t, err)
	_, err = NewWallet(Config{Keystore: KeystoreConfig{Path: filepath.Join(dir, "missing")}})
	require.Error(t, err)
}
