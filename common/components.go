package common

const (
	// FACTORY name to identify the CREATE2 factory deployment
	FACTORY = "factory"
	// CREATE2 name to identify the router deployment through the factory
	CREATE2 = "create2"
	// ROUTER name to identify the plain router deployment, one creation tx per chain
	ROUTER = "router"
)
