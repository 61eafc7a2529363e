package config

// DefaultMandatoryVars are the values that depend on the environment and
// have no sensible default
const DefaultMandatoryVars = `
# Hex encoded bytes32 salt shared by every chain for CREATE2 deployments
SALT_HEX = ""
# Deployer key, used when no keystore is configured
DEPLOYER_PRIVATE_KEY = ""
`

// DefaultVars has the default values for the vars referenced by DefaultValues.
// Any of them can be overridden from the environment, either as ROUTER_<VAR> or <VAR>
const DefaultVars = `
PathRWData = "./state"
DeployerKeystorePath = ""
DeployerKeystorePassword = ""
ROUTER_ARTIFACT = "out/Router.sol/Router.json"
FACTORY_ARTIFACT = "out/Create2Factory.sol/Create2Factory.json"
CONSTRUCTOR_ARGS_JSON = ""
DEPLOY_MIN_BAL_ETH = "0"
SELECT_RPCS = ""

ADMIN = "0x0000000000000000000000000000000000000000"
FEE_RECIPIENT = "0x0000000000000000000000000000000000000000"
DEFAULT_TARGET = "0x0000000000000000000000000000000000000000"
FEE_COLLECTOR = "0x0000000000000000000000000000000000000000"
ADAPTER_ADDRESSES = ""
PROTOCOL_FEE_BPS = 0
RELAYER_FEE_BPS = 0
PROTOCOL_SHARE_BPS = 0
LP_SHARE_BPS = 0

RPC_SEPOLIA = ""
RPC_OP_SEPOLIA = ""
RPC_BASE_SEPOLIA = ""
RPC_BERACHAIN_BEPOLIA = ""
RPC_QUBETICS_TESTNET = ""
RPC_ARB_SEPOLIA = ""
RPC_LINEA_SEPOLIA = ""
RPC_BSC_TESTNET = ""
RPC_AVAX_FUJI = ""
RPC_POLYGON_AMOY = ""
RPC_CRONOS_TESTNET = ""
RPC_CELO_ALFAJORES = ""
RPC_BOB_TESTNET = ""
RPC_WORLD_TESTNET = ""
RPC_UNICHAIN_TESTNET = ""
RPC_XDC_TESTNET = ""
RPC_PLUME_TESTNET = ""
RPC_SEI_EVM_TESTNET = ""
RPC_SONIC_EVM_TESTNET = ""
`

// DefaultValues is the default configuration
const DefaultValues = `
[Log]
Environment = "development" # "production" or "development"
Level = "info"
Outputs = ["stderr"]

[Deployer]
PrivateKey = "{{DEPLOYER_PRIVATE_KEY}}"
Salt = "{{SALT_HEX}}"
ArtifactPath = "{{ROUTER_ARTIFACT}}"
FactoryArtifactPath = "{{FACTORY_ARTIFACT}}"
ConstructorArgsJSON = "{{CONSTRUCTOR_ARGS_JSON}}"
MinBalanceEth = "{{DEPLOY_MIN_BAL_ETH}}"
AllowList = "{{SELECT_RPCS}}"
MaxConcurrency = 4
RequestsPerSecond = 5.0
RequestsBurst = 2
ReceiptTimeout = "120s"
ReceiptPollInterval = "2s"
FactoryGasCeiling = 1200000
Create2GasCeiling = 2000000
DirectGasCeiling = 2500000
FactoryRecordsPath = "{{PathRWData}}/factories.json"
Create2RecordsPath = "{{PathRWData}}/create2-deploys.json"
RouterRecordsPath = "{{PathRWData}}/router-deploys.json"
	[Deployer.Keystore]
	Path = "{{DeployerKeystorePath}}"
	Password = "{{DeployerKeystorePassword}}"

	[[Deployer.Chains]]
	Name = "ethereum-sepolia"
	ChainID = 11155111
	RPC = "{{RPC_SEPOLIA}}"
	Explorer = "https://sepolia.etherscan.io"

	[[Deployer.Chains]]
	Name = "optimism-sepolia"
	ChainID = 420
	RPC = "{{RPC_OP_SEPOLIA}}"

	[[Deployer.Chains]]
	Name = "base-sepolia"
	ChainID = 84532
	RPC = "{{RPC_BASE_SEPOLIA}}"

	[[Deployer.Chains]]
	Name = "berachain-bepolia"
	ChainID = 80069
	RPC = "{{RPC_BERACHAIN_BEPOLIA}}"

	[[Deployer.Chains]]
	Name = "qubetics-testnet"
	ChainID = 9029
	RPC = "{{RPC_QUBETICS_TESTNET}}"

	[[Deployer.Chains]]
	Name = "arbitrum-sepolia"
	ChainID = 421614
	RPC = "{{RPC_ARB_SEPOLIA}}"

	[[Deployer.Chains]]
	Name = "linea-sepolia"
	ChainID = 59141
	RPC = "{{RPC_LINEA_SEPOLIA}}"

	[[Deployer.Chains]]
	Name = "bsc-testnet"
	ChainID = 97
	RPC = "{{RPC_BSC_TESTNET}}"

	[[Deployer.Chains]]
	Name = "avalanche-fuji"
	ChainID = 43113
	RPC = "{{RPC_AVAX_FUJI}}"

	[[Deployer.Chains]]
	Name = "polygon-amoy"
	ChainID = 80002
	RPC = "{{RPC_POLYGON_AMOY}}"

	[[Deployer.Chains]]
	Name = "cronos-testnet"
	ChainID = 338
	RPC = "{{RPC_CRONOS_TESTNET}}"

	[[Deployer.Chains]]
	Name = "celo-alfajores"
	ChainID = 44787
	RPC = "{{RPC_CELO_ALFAJORES}}"

	# chain id still unconfirmed, shares 97 with bsc-testnet
	[[Deployer.Chains]]
	Name = "bob-testnet"
	ChainID = 97
	RPC = "{{RPC_BOB_TESTNET}}"

	[[Deployer.Chains]]
	Name = "world-testnet"
	ChainID = 4801
	RPC = "{{RPC_WORLD_TESTNET}}"

	[[Deployer.Chains]]
	Name = "unichain-testnet"
	ChainID = 1301
	RPC = "{{RPC_UNICHAIN_TESTNET}}"

	[[Deployer.Chains]]
	Name = "xdc-apothem"
	ChainID = 51
	RPC = "{{RPC_XDC_TESTNET}}"

	[[Deployer.Chains]]
	Name = "plume-testnet"
	ChainID = 98867
	RPC = "{{RPC_PLUME_TESTNET}}"

	[[Deployer.Chains]]
	Name = "sei-evm-testnet"
	ChainID = 1328
	RPC = "{{RPC_SEI_EVM_TESTNET}}"

	[[Deployer.Chains]]
	Name = "sonic-evm-testnet"
	ChainID = 57054
	RPC = "{{RPC_SONIC_EVM_TESTNET}}"

[Router]
Admin = "{{ADMIN}}"
FeeRecipient = "{{FEE_RECIPIENT}}"
DefaultTarget = "{{DEFAULT_TARGET}}"
FeeCollector = "{{FEE_COLLECTOR}}"
Adapters = "{{ADAPTER_ADDRESSES}}"
ProtocolFeeBps = {{PROTOCOL_FEE_BPS}}
RelayerFeeBps = {{RELAYER_FEE_BPS}}
ProtocolShareBps = {{PROTOCOL_SHARE_BPS}}
LPShareBps = {{LP_SHARE_BPS}}

[RouteIndex]
DBPath = "{{PathRWData}}/routeindex.sqlite"
`
