package deployer

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

const routerABI = `[{"type":"constructor","inputs":[
	{"name":"admin","type":"address"},
	{"name":"feeRecipient","type":"address"},
	{"name":"defaultTarget","type":"address"},
	{"name":"srcChainId","type":"uint16"}]}]`

func TestParseArtifactLayouts(t *testing.T) {
	for name, doc := range map[string]string{
		"hardhat":   `{"bytecode":"0x6080"}`,
		"foundry":   `{"bytecode":{"object":"0x6080"}}`,
		"no prefix": `{"bytecode":"6080"}`,
		"object":    `{"object":"0x6080"}`,
		"solc":      `{"evm":{"bytecode":{"object":"6080"}}}`,
	} {
		t.Run(name, func(t *testing.T) {
			a, err := ParseArtifact([]byte(doc))
			require.NoError(t, err)
			require.Equal(t, []byte{0x60, 0x80}, a.Bytecode)
			require.Nil(t, a.ABI)
		})
	}
}

func TestParseArtifactErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":    `{}`,
		"unlinked": `{"bytecode":"0x6080__$abc$__"}`,
		"bad hex":  `{"bytecode":"0xzz"}`,
		"bad abi":  `{"bytecode":"0x6080","abi":{"x":1}}`,
		"bad json": `{`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseArtifact([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestLoadArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Router.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"abi":`+routerABI+`,"bytecode":"0x6080"}`), 0o600))

	a, err := LoadArtifact(path)
	require.NoError(t, err)
	require.Equal(t, path, a.Path)
	require.NotNil(t, a.ABI)
	require.Len(t, a.ABI.Constructor.Inputs, 4)

	_, err = LoadArtifact(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestCreationCodeArguments(t *testing.T) {
	a, err := ParseArtifact([]byte(`{"abi":` + routerABI + `,"bytecode":"0x6080"}`))
	require.NoError(t, err)
	admin := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	fee := common.HexToAddress("0x00000000000000000000000000000000000000fe")
	target := common.HexToAddress("0x00000000000000000000000000000000000000de")
	want, err := RouterConstructorArgs.Pack(admin, fee, target, uint16(14466))
	require.NoError(t, err)
	want = append([]byte{0x60, 0x80}, want...)

	fromArray, err := a.CreationCode(`["` + admin.Hex() + `","` + fee.Hex() + `","` + target.Hex() + `",14466]`)
	require.NoError(t, err)
	require.Equal(t, want, fromArray)

	fromObject, err := a.CreationCode(`{"srcChainId":"14466","defaultTarget":"` + target.Hex() +
		`","feeRecipient":"` + fee.Hex() + `","admin":"` + admin.Hex() + `"}`)
	require.NoError(t, err)
	require.Equal(t, want, fromObject)

	typed, err := a.CreationCodeWith(RouterConstructorArgs, admin, fee, target, uint16(14466))
	require.NoError(t, err)
	require.Equal(t, want, typed)

	bare, err := a.CreationCode("  ")
	require.NoError(t, err)
	require.Equal(t, []byte{0x60, 0x80}, bare)

	for name, args := range map[string]string{
		"too few":      `["` + admin.Hex() + `"]`,
		"overflow":     `["` + admin.Hex() + `","` + fee.Hex() + `","` + target.Hex() + `",65536]`,
		"negative":     `["` + admin.Hex() + `","` + fee.Hex() + `","` + target.Hex() + `",-1]`,
		"bad address":  `["0x12","` + fee.Hex() + `","` + target.Hex() + `",1]`,
		"missing name": `{"admin":"` + admin.Hex() + `"}`,
		"scalar":       `42`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := a.CreationCode(args)
			require.Error(t, err)
		})
	}
}

func TestCreationCodeWithoutABI(t *testing.T) {
	a := &Artifact{Bytecode: []byte{0x60, 0x80}}
	_, err := a.CreationCode(`[1]`)
	require.Error(t, err)

	code, err := a.CreationCodeWith(RouterConstructorArgs,
		common.Address{1}, common.Address{2}, common.Address{3}, uint16(97))
	require.NoError(t, err)
	require.Len(t, code, 2+4*32)
	require.Equal(t, big.NewInt(97), new(big.Int).SetBytes(code[len(code)-32:]))
}

func TestConvertArgTypes(t *testing.T) {
	a, err := ParseArtifact([]byte(`{"bytecode":"0x00","abi":[{"type":"constructor","inputs":[
		{"name":"flag","type":"bool"},{"name":"label","type":"string"},
		{"name":"blob","type":"bytes"},{"name":"id","type":"bytes32"},
		{"name":"big","type":"uint256"},{"name":"signed","type":"int8"}]}]}`))
	require.NoError(t, err)
	id := "0x" + common.Bytes2Hex(common.HexToHash("0x01").Bytes())
	code, err := a.CreationCode(`[true,"zoopx","0xbeef","` + id + `","115792089237316195423570985008687907853269984665640564039457584007913129639935",-128]`)
	require.NoError(t, err)
	require.Greater(t, len(code), 1+6*32)

	_, err = a.CreationCode(`[true,"zoopx","0xbeef","0x01",1,1]`)
	require.ErrorContains(t, err, "expected 32 bytes")
	_, err = a.CreationCode(`[true,"zoopx","0xbeef","` + id + `",1,128]`)
	require.ErrorContains(t, err, "does not fit in int8")
}
