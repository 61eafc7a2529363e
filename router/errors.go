package router

import (
	"errors"

	"github.com/zoopx/evm-thin-router/auth"
	"github.com/zoopx/evm-thin-router/fees"
	"github.com/zoopx/evm-thin-router/hashing"
	"github.com/zoopx/evm-thin-router/replay"
)

var (
	// ErrInvalidFee fees are not strictly below the amount
	ErrInvalidFee = fees.ErrInvalidFee
	// ErrUnauthorized caller or signer lacks the required authority
	ErrUnauthorized = auth.ErrUnauthorized
	// ErrReplay message or intent already consumed
	ErrReplay = replay.ErrReplay
	// ErrInvalidSignature signature is malformed or does not match the claimed signer
	ErrInvalidSignature = hashing.ErrInvalidSignature

	// ErrExpiredIntent the signed intent is past its expiry
	ErrExpiredIntent = errors.New("expired intent")
	// ErrTransferFailure the asset movement failed, nothing was applied
	ErrTransferFailure = errors.New("transfer failure")
	// ErrConfiguration invalid admin input, nothing was applied
	ErrConfiguration = errors.New("configuration error")
	// ErrSameChain destination chain equals the source chain
	ErrSameChain = errors.New("destination chain equals source chain")
	// ErrIntentMismatch the call arguments differ from the signed intent
	ErrIntentMismatch = errors.New("arguments do not match intent")
	// ErrInvalidTarget neither the route nor the router provide a target
	ErrInvalidTarget = errors.New("invalid target")
)
