package routeindex

// Config of the route index
type Config struct {
	// DBPath is the sqlite file holding indexed routes. Empty disables the index
	DBPath string `mapstructure:"DBPath"`
}
