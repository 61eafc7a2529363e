package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
	"github.com/zoopx/evm-thin-router/deployer"
	"github.com/zoopx/evm-thin-router/log"
	"github.com/zoopx/evm-thin-router/routeindex"
	"github.com/zoopx/evm-thin-router/router"
)

const (
	// FlagCfg is the flag for cfg.
	FlagCfg = "cfg"
	// FlagSaveConfigPath is the flag to save the final configuration file
	FlagSaveConfigPath = "save-config-path"
	// FlagDisableDefaultConfigVars is the flag to force all variables to be set on config-files
	FlagDisableDefaultConfigVars = "disable-default-config-vars"
	// FlagChains restricts the run to the given chain names or ids
	FlagChains = "chains"
	// FlagKeyStorePath is the path of the key store file containing the private key
	FlagKeyStorePath = "key-store-path"
	// FlagPassword is the password needed to decrypt the key store
	FlagPassword = "password"
	// FlagPrivateKey is a hex encoded private key, takes precedence over the keystore
	FlagPrivateKey = "private-key"
	// FlagOutputFile is the flag for the output file
	FlagOutputFile = "output"
	// FlagMinConfig only prints the mandatory vars
	FlagMinConfig = "mandatory"

	EnvVarPrefix       = "ROUTER"
	ConfigType         = "toml"
	SaveConfigFileName = "router_config.toml"

	DefaultCreationFilePermissions = os.FileMode(0600)
)

/*
Config represents the configuration of the router tooling.
The file is [TOML format]. Every value can reference vars with the {{VAR}}
syntax; vars are resolved from the environment (ROUTER_VAR or VAR) and then
from the config files themselves.

[TOML format]: https://en.wikipedia.org/wiki/TOML
*/
type Config struct {
	// Configure Log level for all the services, allow also to store the logs in a file
	Log log.Config
	// Deployer is the configuration of the multi-chain deployment orchestrator
	Deployer deployer.Config
	// Router holds the identity and post-deploy settings applied to every router
	Router router.Settings
	// RouteIndex is the configuration of the local route event index
	RouteIndex routeindex.Config
}

// Load loads the configuration
func Load(ctx *cli.Context) (*Config, error) {
	configFilePath := ctx.StringSlice(FlagCfg)
	filesData, err := readFiles(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading files:  Err:%w", err)
	}
	saveConfigPath := ctx.String(FlagSaveConfigPath)
	defaultConfigVars := !ctx.Bool(FlagDisableDefaultConfigVars)
	return LoadFile(filesData, saveConfigPath, defaultConfigVars)
}

func readFiles(files []string) ([]FileData, error) {
	result := make([]FileData, 0)
	for _, file := range files {
		fileContent, err := readFileToString(file)
		if err != nil {
			return nil, fmt.Errorf("error reading file content: %s. Err:%w", file, err)
		}
		fileExtension := getFileExtension(file)
		if fileExtension != ConfigType {
			fileContent, err = convertFileToToml(fileContent, fileExtension)
			if err != nil {
				return nil, fmt.Errorf("error converting file: %s from %s to TOML. Err:%w", file, fileExtension, err)
			}
		}
		result = append(result, FileData{Name: file, Content: fileContent})
	}
	return result, nil
}

func getFileExtension(fileName string) string {
	return fileName[strings.LastIndex(fileName, ".")+1:]
}

// LoadFileFromString decodes an already rendered configuration
func LoadFileFromString(configFileData string, configType string) (*Config, error) {
	cfg := &Config{}
	err := loadString(cfg, configFileData, configType, true, EnvVarPrefix)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfigToString returns the JSON form of cfg
func SaveConfigToString(cfg Config) (string, error) {
	b, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// LoadFile merges the default config with files, renders the vars and decodes the result
func LoadFile(files []FileData, saveConfigPath string, setDefaultVars bool) (*Config, error) {
	fileData := make([]FileData, 0)
	if setDefaultVars {
		fileData = append(fileData, FileData{Name: "default_mandatory_vars", Content: DefaultMandatoryVars})
		fileData = append(fileData, FileData{Name: "default_vars", Content: DefaultVars})
	}
	fileData = append(fileData, FileData{Name: "default_values", Content: DefaultValues})
	fileData = append(fileData, files...)

	merger := NewConfigRender(fileData, EnvVarPrefix)

	renderedCfg, err := merger.Render()
	if err != nil {
		return nil, err
	}
	if saveConfigPath != "" {
		if err := saveRenderedConfig(renderedCfg, saveConfigPath); err != nil {
			log.Error(err)
			return nil, err
		}
	}
	cfg, err := LoadFileFromString(renderedCfg, ConfigType)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// saveRenderedConfig normalizes the rendered TOML and writes it under dir
func saveRenderedConfig(renderedCfg, dir string) error {
	var doc map[string]interface{}
	if err := toml.Unmarshal([]byte(renderedCfg), &doc); err != nil {
		return fmt.Errorf("error parsing rendered config. Err: %w", err)
	}
	out, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error encoding rendered config. Err: %w", err)
	}
	fullPath := filepath.Join(dir, SaveConfigFileName)
	if err := os.WriteFile(fullPath, out, DefaultCreationFilePermissions); err != nil {
		return fmt.Errorf("error writing config file: %s. Err: %w", fullPath, err)
	}
	return nil
}

func loadString(cfg *Config, configData string, configType string,
	allowEnvVars bool, envPrefix string) error {
	v := viper.New()
	v.SetConfigType(configType)
	if allowEnvVars {
		replacer := strings.NewReplacer(".", "_")
		v.SetEnvKeyReplacer(replacer)
		v.SetEnvPrefix(envPrefix)
		v.AutomaticEnv()
	}
	err := v.ReadConfig(bytes.NewBuffer([]byte(configData)))
	if err != nil {
		return err
	}
	decodeHooks := []viper.DecoderConfigOption{
		// this allows arrays to be decoded from env var separated by ",", example: MY_VAR="value1,value2,value3"
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(), mapstructure.StringToSliceHookFunc(","))),
	}

	return v.Unmarshal(&cfg, decodeHooks...)
}
