package deployer

import "errors"

var (
	// ErrRPCUnavailable the chain endpoint could not be dialed or answered with an error
	ErrRPCUnavailable = errors.New("rpc unavailable")
	// ErrChainIDMismatch the endpoint serves a different chain than configured
	ErrChainIDMismatch = errors.New("chain id mismatch")
	// ErrInsufficientBalance the deployer holds less than the configured minimum
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrAlreadyDeployed code already exists at the expected address
	ErrAlreadyDeployed = errors.New("already deployed")
	// ErrGasEstimation both the estimated and the explicit gas attempts failed
	ErrGasEstimation = errors.New("gas estimation failure")
	// ErrFactoryMissing the CREATE2 factory has no code on the chain
	ErrFactoryMissing = errors.New("factory missing")
	// ErrConfirmationTimeout no receipt in time and no code at the expected address
	ErrConfirmationTimeout = errors.New("confirmation timeout")
	// ErrDeploymentReverted the deployment transaction was mined with a failed status
	ErrDeploymentReverted = errors.New("deployment reverted")
	// ErrMissingSalt CREATE2 deployments need a salt
	ErrMissingSalt = errors.New("missing salt")
	// ErrMissingKey neither a private key nor a keystore is configured
	ErrMissingKey = errors.New("missing deployer key")
	// ErrNoRouterRecord there is no persisted router deployment for the chain
	ErrNoRouterRecord = errors.New("no router record")
)
