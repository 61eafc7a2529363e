package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/urfave/cli/v2"
	"github.com/zoopx/evm-thin-router/config"
)

func configCmd(cliCtx *cli.Context) error {
	// String buffer to concatenate all the default config vars
	defaultConfig := strings.Builder{}
	defaultConfig.WriteString(config.DefaultMandatoryVars)
	if !cliCtx.Bool(config.FlagMinConfig) {
		defaultConfig.WriteString(config.DefaultVars)
		defaultConfig.WriteString(config.DefaultValues)
	}

	_, err := os.Stdout.WriteString(defaultConfig.String())
	return err
}

func configSchemaCmd(cliCtx *cli.Context) error {
	schema, err := configSchema()
	if err != nil {
		return err
	}
	if out := cliCtx.String(config.FlagOutputFile); out != "" {
		return os.WriteFile(out, schema, config.DefaultCreationFilePermissions)
	}
	_, err = os.Stdout.Write(schema)
	return err
}

func configSchema() ([]byte, error) {
	r := &jsonschema.Reflector{ExpandedStruct: true}
	schema := r.Reflect(&config.Config{})
	schema.Title = appName + " configuration"
	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
