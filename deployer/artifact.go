package deployer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	cmn "github.com/zoopx/evm-thin-router/common"
)

var bigIntType = reflect.TypeOf(&big.Int{})

// Artifact is a compiled contract: creation bytecode and, optionally, its ABI
type Artifact struct {
	Path     string
	Bytecode []byte
	ABI      *abi.ABI
}

type rawArtifact struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode json.RawMessage `json:"bytecode"`
	Object   string          `json:"object"`
	EVM      struct {
		Bytecode struct {
			Object string `json:"object"`
		} `json:"bytecode"`
	} `json:"evm"`
}

// LoadArtifact reads a hardhat, foundry or solc standard JSON artifact
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("error reading artifact %s: %w", path, err)
	}
	a, err := ParseArtifact(data)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	a.Path = path
	return a, nil
}

// ParseArtifact decodes an artifact. bytecode may be a hex string or an
// object with an "object" field
func ParseArtifact(data []byte) (*Artifact, error) {
	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	code, err := raw.bytecode()
	if err != nil {
		return nil, err
	}
	a := &Artifact{Bytecode: code}
	if len(raw.ABI) > 0 && string(raw.ABI) != "null" {
		parsed, err := abi.JSON(bytes.NewReader(raw.ABI))
		if err != nil {
			return nil, fmt.Errorf("invalid abi: %w", err)
		}
		a.ABI = &parsed
	}
	return a, nil
}

func (r rawArtifact) bytecode() ([]byte, error) {
	var hexCode string
	if len(r.Bytecode) > 0 {
		var asString string
		if err := json.Unmarshal(r.Bytecode, &asString); err == nil {
			hexCode = asString
		} else {
			var asObject struct {
				Object string `json:"object"`
			}
			if err := json.Unmarshal(r.Bytecode, &asObject); err != nil {
				return nil, fmt.Errorf("unexpected bytecode field: %w", err)
			}
			hexCode = asObject.Object
		}
	}
	if hexCode == "" {
		hexCode = r.Object
	}
	if hexCode == "" {
		hexCode = r.EVM.Bytecode.Object
	}
	hexCode = strings.TrimPrefix(strings.TrimSpace(hexCode), "0x")
	if hexCode == "" {
		return nil, errors.New("missing bytecode")
	}
	if strings.Contains(hexCode, "__") {
		return nil, errors.New("bytecode has unlinked libraries")
	}
	code, err := hexutil.Decode("0x" + hexCode)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode: %w", err)
	}
	return code, nil
}

// CreationCode returns the bytecode followed by the ABI encoding of the
// constructor arguments in argsJSON. argsJSON is a JSON array, or an object
// whose keys are the constructor parameter names. Empty, "[]" and "{}" mean no arguments
func (a *Artifact) CreationCode(argsJSON string) ([]byte, error) {
	trimmed := strings.TrimSpace(argsJSON)
	if trimmed == "" || trimmed == "{}" || trimmed == "[]" {
		return append([]byte(nil), a.Bytecode...), nil
	}
	if a.ABI == nil {
		return nil, errors.New("constructor arguments given but the artifact has no abi")
	}
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	var decoded interface{}
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("invalid constructor arguments: %w", err)
	}
	inputs := a.ABI.Constructor.Inputs
	var values []interface{}
	switch v := decoded.(type) {
	case []interface{}:
		values = v
	case map[string]interface{}:
		values = make([]interface{}, len(inputs))
		for i, in := range inputs {
			arg, ok := v[in.Name]
			if !ok {
				return nil, fmt.Errorf("constructor argument %q missing", in.Name)
			}
			values[i] = arg
		}
	default:
		return nil, errors.New("constructor arguments must be a JSON array or object")
	}
	if len(values) != len(inputs) {
		return nil, fmt.Errorf("constructor takes %d arguments, got %d", len(inputs), len(values))
	}
	converted := make([]interface{}, len(values))
	for i, in := range inputs {
		c, err := convertArg(in.Type, values[i])
		if err != nil {
			return nil, fmt.Errorf("constructor argument %d (%s %s): %w", i, in.Type.String(), in.Name, err)
		}
		converted[i] = c
	}
	return a.creationCodeWith(converted...)
}

// CreationCodeWith appends already typed constructor arguments. Without an ABI
// the arguments are packed against fallback
func (a *Artifact) CreationCodeWith(fallback abi.Arguments, args ...interface{}) ([]byte, error) {
	if a.ABI != nil && len(a.ABI.Constructor.Inputs) > 0 {
		return a.creationCodeWith(args...)
	}
	packed, err := fallback.Pack(args...)
	if err != nil {
		return nil, fmt.Errorf("error packing constructor arguments: %w", err)
	}
	return append(append([]byte(nil), a.Bytecode...), packed...), nil
}

func (a *Artifact) creationCodeWith(args ...interface{}) ([]byte, error) {
	packed, err := a.ABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("error packing constructor arguments: %w", err)
	}
	return append(append([]byte(nil), a.Bytecode...), packed...), nil
}

// convertArg turns a JSON decoded value into the Go type abi.Pack expects for t
func convertArg(t abi.Type, v interface{}) (interface{}, error) {
	switch t.T {
	case abi.AddressTy:
		s, ok := v.(string)
		if !ok || !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid address %v", v)
		}
		return common.HexToAddress(s), nil
	case abi.BoolTy:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			if b == "true" || b == "false" {
				return b == "true", nil
			}
		}
		return nil, fmt.Errorf("invalid bool %v", v)
	case abi.StringTy:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("invalid string %v", v)
		}
		return s, nil
	case abi.BytesTy:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("invalid bytes %v", v)
		}
		return hexutil.Decode(s)
	case abi.FixedBytesTy:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("invalid bytes%d %v", t.Size, v)
		}
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, err
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", t.Size, len(b))
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil
	case abi.UintTy, abi.IntTy:
		return convertInt(t, v)
	default:
		return nil, fmt.Errorf("unsupported constructor type %s", t.String())
	}
}

func convertInt(t abi.Type, v interface{}) (interface{}, error) {
	var s string
	switch n := v.(type) {
	case json.Number:
		s = n.String()
	case string:
		s = n
	default:
		return nil, fmt.Errorf("invalid integer %v", v)
	}
	n, err := cmn.ParseBigInt(s)
	if err != nil {
		return nil, err
	}
	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, fmt.Errorf("%s does not fit in uint%d", n, t.Size)
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("%s does not fit in int%d", n, t.Size)
		}
	}
	typ := t.GetType()
	if typ == bigIntType {
		return n, nil
	}
	out := reflect.New(typ).Elem()
	if t.T == abi.UintTy {
		out.SetUint(n.Uint64())
	} else {
		out.SetInt(n.Int64())
	}
	return out.Interface(), nil
}
