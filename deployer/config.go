package deployer

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/shopspring/decimal"
	cmn "github.com/zoopx/evm-thin-router/common"
	configTypes "github.com/zoopx/evm-thin-router/config/types"
)

// KeystoreConfig points to an encrypted go-ethereum keystore file
type KeystoreConfig struct {
	// Path is the keystore file path
	Path string `mapstructure:"Path"`
	// Password is the keystore password
	Password string `mapstructure:"Password"`
}

// ChainConfig is one target network
type ChainConfig struct {
	// Name is the human readable network name, also accepted by the allow list
	Name string `mapstructure:"Name"`
	// ChainID is the expected EVM chain id, checked against the RPC
	ChainID uint64 `mapstructure:"ChainID"`
	// RPC is the JSON-RPC endpoint. Empty skips the chain
	RPC string `mapstructure:"RPC"`
	// Explorer is informational, printed next to deployed addresses
	Explorer string `mapstructure:"Explorer"`
	// GasLimit overrides gas estimation when non zero
	GasLimit uint64 `mapstructure:"GasLimit"`
	// GasPriceGwei overrides the suggested gas price when set
	GasPriceGwei string `mapstructure:"GasPriceGwei"`
	// DefaultTarget overrides Router.DefaultTarget for direct router deployments on this chain
	DefaultTarget string `mapstructure:"DefaultTarget"`
}

// Config of the multi-chain deployment orchestrator
type Config struct {
	// PrivateKey is the hex deployer key, used when Keystore.Path is empty
	PrivateKey string `mapstructure:"PrivateKey"`
	// Keystore takes precedence over PrivateKey when its path is set
	Keystore KeystoreConfig `mapstructure:"Keystore"`
	// Salt is the bytes32 CREATE2 salt shared by every chain
	Salt string `mapstructure:"Salt"`
	// ArtifactPath is the compiled router artifact (bytecode + abi)
	ArtifactPath string `mapstructure:"ArtifactPath"`
	// FactoryArtifactPath is the compiled CREATE2 factory artifact
	FactoryArtifactPath string `mapstructure:"FactoryArtifactPath"`
	// ConstructorArgsJSON is a JSON array (or object, in ABI order) appended to the creation code
	ConstructorArgsJSON string `mapstructure:"ConstructorArgsJSON"`
	// MinBalanceEth skips chains where the deployer holds less, in ether
	MinBalanceEth string `mapstructure:"MinBalanceEth"`
	// AllowList restricts the run to these chain names or ids. Empty means all
	AllowList []string `mapstructure:"AllowList"`
	// MaxConcurrency is the number of chains processed at the same time
	MaxConcurrency int `mapstructure:"MaxConcurrency"`
	// RequestsPerSecond is the per chain RPC rate limit
	RequestsPerSecond float64 `mapstructure:"RequestsPerSecond"`
	// RequestsBurst is the per chain RPC burst
	RequestsBurst int `mapstructure:"RequestsBurst"`
	// ReceiptTimeout bounds the wait for a deployment receipt
	ReceiptTimeout configTypes.Duration `mapstructure:"ReceiptTimeout"`
	// ReceiptPollInterval is the receipt polling period
	ReceiptPollInterval configTypes.Duration `mapstructure:"ReceiptPollInterval"`
	// FactoryGasCeiling is the explicit gas used when estimation of the factory creation fails
	FactoryGasCeiling uint64 `mapstructure:"FactoryGasCeiling"`
	// Create2GasCeiling is the explicit gas used when estimation of factory.deploy fails
	Create2GasCeiling uint64 `mapstructure:"Create2GasCeiling"`
	// DirectGasCeiling is the explicit gas used when estimation of the router creation fails
	DirectGasCeiling uint64 `mapstructure:"DirectGasCeiling"`
	// FactoryRecordsPath is the chainId -> factory address document
	FactoryRecordsPath string `mapstructure:"FactoryRecordsPath"`
	// Create2RecordsPath is the chainId -> CREATE2 deployment document
	Create2RecordsPath string `mapstructure:"Create2RecordsPath"`
	// RouterRecordsPath is the chainId -> direct router deployment document
	RouterRecordsPath string `mapstructure:"RouterRecordsPath"`
	// Chains is the network catalogue
	Chains []ChainConfig `mapstructure:"Chains"`
}

// MinBalanceWei parses MinBalanceEth. Empty means zero
func (c Config) MinBalanceWei() (*big.Int, error) {
	return EthToWei(c.MinBalanceEth)
}

// SelectedChains returns the chains matching AllowList, in catalogue order
func (c Config) SelectedChains() []ChainConfig {
	allow := make(map[string]struct{}, len(c.AllowList))
	for _, a := range c.AllowList {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			allow[a] = struct{}{}
		}
	}
	if len(allow) == 0 {
		return append([]ChainConfig(nil), c.Chains...)
	}
	out := make([]ChainConfig, 0, len(allow))
	for _, ch := range c.Chains {
		_, byName := allow[strings.ToLower(ch.Name)]
		_, byID := allow[cmn.ChainKey(ch.ChainID)]
		if byName || byID {
			out = append(out, ch)
		}
	}
	return out
}

// GasPriceWei parses GasPriceGwei. nil means use the node suggestion
func (c ChainConfig) GasPriceWei() (*big.Int, error) {
	s := strings.TrimSpace(c.GasPriceGwei)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid gas price %q for %s: %w", s, c.Name, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("negative gas price %q for %s", s, c.Name)
	}
	return d.Mul(decimal.NewFromInt(params.GWei)).BigInt(), nil
}

// DefaultTargetOr returns the chain override, or fallback when unset
func (c ChainConfig) DefaultTargetOr(fallback common.Address) (common.Address, error) {
	s := strings.TrimSpace(c.DefaultTarget)
	if s == "" {
		return fallback, nil
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid default target %q for %s", s, c.Name)
	}
	return common.HexToAddress(s), nil
}

// EthToWei converts a decimal ether amount to wei, truncating below 1 wei
func EthToWei(eth string) (*big.Int, error) {
	s := strings.TrimSpace(eth)
	if s == "" {
		return new(big.Int), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid ether amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("negative ether amount %q", s)
	}
	return d.Shift(18).BigInt(), nil //nolint:mnd
}

// WeiToEth formats wei as a decimal ether amount
func WeiToEth(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -18).String() //nolint:mnd
}
