package deployer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const create2FactoryABI = `[
	{"type":"function","name":"deploy","stateMutability":"payable",
	 "inputs":[{"name":"salt","type":"bytes32"},{"name":"creationCode","type":"bytes"}],
	 "outputs":[{"name":"","type":"address"}]}
]`

const routerGettersABI = `[
	{"type":"function","name":"admin","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"feeRecipient","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"defaultTarget","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"SRC_CHAIN_ID","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint16"}]}
]`

var (
	factoryABI = mustParseABI(create2FactoryABI)
	gettersABI = mustParseABI(routerGettersABI)

	// RouterConstructorArgs is (admin, feeRecipient, defaultTarget, srcChainId),
	// used when the router artifact carries no ABI
	RouterConstructorArgs = abi.Arguments{
		{Name: "admin", Type: mustType("address")},
		{Name: "feeRecipient", Type: mustType("address")},
		{Name: "defaultTarget", Type: mustType("address")},
		{Name: "srcChainId", Type: mustType("uint16")},
	}
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// FactoryDeployCalldata encodes factory.deploy(salt, creationCode)
func FactoryDeployCalldata(salt common.Hash, creationCode []byte) ([]byte, error) {
	return factoryABI.Pack("deploy", salt, creationCode)
}

// Getters are the fixed construction parameters of a deployed router
type Getters struct {
	Admin         common.Address `json:"admin"`
	FeeRecipient  common.Address `json:"feeRecipient"`
	DefaultTarget common.Address `json:"defaultTarget"`
	SrcChainID    uint16         `json:"srcChainId"`
}

// ReadGetters calls the router getters at address
func ReadGetters(ctx context.Context, client EthClienter, address common.Address) (Getters, error) {
	var g Getters
	for _, getter := range []struct {
		method string
		assign func(v interface{}) bool
	}{
		{"admin", func(v interface{}) (ok bool) { g.Admin, ok = v.(common.Address); return }},
		{"feeRecipient", func(v interface{}) (ok bool) { g.FeeRecipient, ok = v.(common.Address); return }},
		{"defaultTarget", func(v interface{}) (ok bool) { g.DefaultTarget, ok = v.(common.Address); return }},
		{"SRC_CHAIN_ID", func(v interface{}) (ok bool) { g.SrcChainID, ok = v.(uint16); return }},
	} {
		data, err := gettersABI.Pack(getter.method)
		if err != nil {
			return Getters{}, err
		}
		out, err := client.CallContract(ctx, ethereum.CallMsg{To: &address, Data: data}, nil)
		if err != nil {
			return Getters{}, fmt.Errorf("%w: calling %s: %w", ErrRPCUnavailable, getter.method, err)
		}
		if len(out) == 0 {
			return Getters{}, fmt.Errorf("%s returned no data, is there code at %s?", getter.method, address.Hex())
		}
		values, err := gettersABI.Unpack(getter.method, out)
		if err != nil {
			return Getters{}, fmt.Errorf("error decoding %s: %w", getter.method, err)
		}
		if len(values) != 1 || !getter.assign(values[0]) {
			return Getters{}, fmt.Errorf("unexpected %s result %v", getter.method, values)
		}
	}
	return g, nil
}
