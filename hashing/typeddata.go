package hashing

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// DomainName is the EIP-712 domain name of the router
	DomainName = "Zoopx Router"
	// DomainVersion is the EIP-712 domain version of the router
	DomainVersion = "1"

	signatureLength = 65
	recoveryIDIndex = 64
	// legacy recovery ids are shifted by 27
	legacyRecoveryOffset = 27
)

var (
	// ErrInvalidSignature is returned for malformed or non canonical signatures
	ErrInvalidSignature = errors.New("invalid signature")

	eip712DomainTypeHash = crypto.Keccak256Hash([]byte(
		"EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"))
	routeIntentTypeHash = crypto.Keccak256Hash([]byte(
		"RouteIntent(bytes32 routeId,address token,uint256 amount,uint256 protocolFee,uint256 relayerFee," +
			"address target,uint256 dstChainId,uint256 nonce,uint256 expiry,bytes32 payloadHash,address recipient)"))

	bytes32Ty, _ = abi.NewType("bytes32", "", nil)
	uint256Ty, _ = abi.NewType("uint256", "", nil)
	addressTy, _ = abi.NewType("address", "", nil)

	domainArgs = abi.Arguments{
		{Type: bytes32Ty}, {Type: bytes32Ty}, {Type: bytes32Ty}, {Type: uint256Ty}, {Type: addressTy},
	}
	intentArgs = abi.Arguments{
		{Type: bytes32Ty}, // typeHash
		{Type: bytes32Ty}, // routeId
		{Type: addressTy}, // token
		{Type: uint256Ty}, // amount
		{Type: uint256Ty}, // protocolFee
		{Type: uint256Ty}, // relayerFee
		{Type: addressTy}, // target
		{Type: uint256Ty}, // dstChainId
		{Type: uint256Ty}, // nonce
		{Type: uint256Ty}, // expiry
		{Type: bytes32Ty}, // payloadHash
		{Type: addressTy}, // recipient
	}
)

// Domain binds a signature to one router on one chain
type Domain struct {
	Name              string
	Version           string
	ChainID           uint64
	VerifyingContract common.Address
}

// NewDomain returns the router domain for the given chain and router address
func NewDomain(chainID uint64, router common.Address) Domain {
	return Domain{
		Name:              DomainName,
		Version:           DomainVersion,
		ChainID:           chainID,
		VerifyingContract: router,
	}
}

// Separator is the EIP-712 domain separator
func (d Domain) Separator() common.Hash {
	packed, err := domainArgs.Pack(
		eip712DomainTypeHash,
		crypto.Keccak256Hash([]byte(d.Name)),
		crypto.Keccak256Hash([]byte(d.Version)),
		new(big.Int).SetUint64(d.ChainID),
		d.VerifyingContract,
	)
	if err != nil {
		// static types only, packing can not fail
		panic(fmt.Sprintf("packing domain: %v", err))
	}
	return crypto.Keccak256Hash(packed)
}

// RouteIntent is the payload a recipient signs to let a relayer route on their behalf
type RouteIntent struct {
	RouteID     common.Hash    `json:"routeId"`
	Token       common.Address `json:"token"`
	Amount      *big.Int       `json:"amount"`
	ProtocolFee *big.Int       `json:"protocolFee"`
	RelayerFee  *big.Int       `json:"relayerFee"`
	Target      common.Address `json:"target"`
	DstChainID  uint64         `json:"dstChainId"`
	Nonce       uint64         `json:"nonce"`
	Expiry      uint64         `json:"expiry"`
	PayloadHash common.Hash    `json:"payloadHash"`
	Recipient   common.Address `json:"recipient"`
}

// StructHash is the EIP-712 hashStruct of the intent
func (i RouteIntent) StructHash() common.Hash {
	packed, err := intentArgs.Pack(
		routeIntentTypeHash,
		i.RouteID,
		i.Token,
		orZero(i.Amount),
		orZero(i.ProtocolFee),
		orZero(i.RelayerFee),
		i.Target,
		new(big.Int).SetUint64(i.DstChainID),
		new(big.Int).SetUint64(i.Nonce),
		new(big.Int).SetUint64(i.Expiry),
		i.PayloadHash,
		i.Recipient,
	)
	if err != nil {
		panic(fmt.Sprintf("packing route intent: %v", err))
	}
	return crypto.Keccak256Hash(packed)
}

// TypedDataHash is keccak(0x1901 | domainSeparator | hashStruct(intent))
func TypedDataHash(domain Domain, intent RouteIntent) common.Hash {
	separator := domain.Separator()
	structHash := intent.StructHash()
	return crypto.Keccak256Hash([]byte{0x19, 0x01}, separator.Bytes(), structHash.Bytes())
}

// SignIntent signs the typed data hash of intent. The returned signature is
// r | s | v with v in {27, 28}
func SignIntent(key *ecdsa.PrivateKey, domain Domain, intent RouteIntent) ([]byte, error) {
	digest := TypedDataHash(domain, intent)
	sig, err := crypto.Sign(digest.Bytes(), key)
	if err != nil {
		return nil, err
	}
	sig[recoveryIDIndex] += legacyRecoveryOffset
	return sig, nil
}

// RecoverSigner returns the address that produced sig over digest.
// v may be 0/1 or 27/28; signatures with s in the upper half of the curve order are rejected
func RecoverSigner(digest common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != signatureLength {
		return common.Address{}, fmt.Errorf("%w: length %d", ErrInvalidSignature, len(sig))
	}
	normalized := make([]byte, signatureLength)
	copy(normalized, sig)
	if normalized[recoveryIDIndex] >= legacyRecoveryOffset {
		normalized[recoveryIDIndex] -= legacyRecoveryOffset
	}
	r := new(big.Int).SetBytes(normalized[:32])
	s := new(big.Int).SetBytes(normalized[32:64])
	if !crypto.ValidateSignatureValues(normalized[recoveryIDIndex], r, s, true) {
		return common.Address{}, fmt.Errorf("%w: bad r, s or v", ErrInvalidSignature)
	}
	pub, err := crypto.SigToPub(digest.Bytes(), normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

func orZero(n *big.Int) *big.Int {
	if n == nil {
		return new(big.Int)
	}
	return n
}
