package config

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/valyala/fasttemplate"
	"github.com/zoopx/evm-thin-router/log"
)

const (
	startTag = "{{"
	endTag   = "}}"
	// intMark tags an unquoted var so the TOML parser accepts it as a string
	intMark = ":int"
)

var (
	ErrCycleVars                 = fmt.Errorf("cycle vars")
	ErrMissingVars               = fmt.Errorf("missing vars")
	ErrUnsupportedConfigFileType = fmt.Errorf("unsupported config file type")

	unquotedVarRe = regexp.MustCompile(`=\s*\{\{([^}:]+)\}\}`)
	quotedIntRe   = regexp.MustCompile(`=\s*\"\{\{([^}:]+):int\}\}\"`)
	intMarkRe     = regexp.MustCompile(`\{\{([^}:]+):int\}\}`)
)

// FileData is a named configuration fragment
type FileData struct {
	Name    string
	Content string
}

// ConfigRender merges configuration fragments and resolves {{VAR}} references
type ConfigRender struct {
	// FilesData sorted by priority, last one wins
	FilesData []FileData
	// LookupEnvFunc resolves environment variables, typically os.LookupEnv
	LookupEnvFunc func(key string) (string, bool)
	// EnvPrefix is tried first when looking up a var in the environment
	EnvPrefix string
}

// NewConfigRender creates a ConfigRender that resolves vars from the process environment
func NewConfigRender(filesData []FileData, envPrefix string) *ConfigRender {
	return &ConfigRender{
		FilesData:     filesData,
		LookupEnvFunc: os.LookupEnv,
		EnvPrefix:     envPrefix,
	}
}

// Render merges all files and resolves the vars inside
func (c *ConfigRender) Render() (string, error) {
	mergedData, err := c.Merge()
	if err != nil {
		return "", fmt.Errorf("fail to merge files. Err: %w", err)
	}
	return c.ResolveVars(mergedData)
}

// Merge loads every fragment into a single TOML document. Later fragments override earlier ones
func (c *ConfigRender) Merge() (string, error) {
	k := koanf.New(".")
	for _, data := range c.FilesData {
		dataToml := markUnquotedVars(data.Content)
		if err := k.Load(rawbytes.Provider([]byte(dataToml)), toml.Parser()); err != nil {
			log.Errorf("error loading file %s. Err:%v", data.Name, err)
			return "", fmt.Errorf("fail to load converted template %s to toml. Err: %w", data.Name, err)
		}
	}
	marshaled, err := k.Marshal(toml.Parser())
	if err != nil {
		return "", fmt.Errorf("fail to marshal to toml. Err: %w", err)
	}
	return RemoveQuotesForVars(string(marshaled)), nil
}

// ResolveVars replaces every {{VAR}} in fullConfigData. Vars defined nowhere
// produce ErrMissingVars, vars that only reference each other produce ErrCycleVars
func (c *ConfigRender) ResolveVars(fullConfigData string) (string, error) {
	tpl, defined, err := c.readTemplate(fullConfigData)
	if err != nil {
		return "", err
	}
	rendered := RemoveTypeMarks(c.execute(tpl, defined))
	if missing := c.missingVars(tpl, defined); len(missing) > 0 {
		return rendered, fmt.Errorf("missing vars: %v. Err: %w", missing, ErrMissingVars)
	}
	// a var whose value is another var needs more passes; if a pass does not
	// reduce the pending set the vars reference each other
	final, err := c.ResolveCycle(rendered)
	if err != nil {
		return fullConfigData, err
	}
	return final, nil
}

// ResolveCycle keeps rendering until no vars are left. Each pass must reduce
// the pending vars, otherwise they form a cycle
func (c *ConfigRender) ResolveCycle(partialResolvedConfigData string) (string, error) {
	current := RemoveQuotesForVars(partialResolvedConfigData)
	pending := c.GetVars(current)
	if len(pending) == 0 {
		return partialResolvedConfigData, nil
	}
	log.Debugf("ResolveCycle: pending vars: %v", pending)
	for len(pending) > 0 {
		previous := pending
		tpl, defined, err := c.readTemplate(current)
		if err != nil {
			return "", fmt.Errorf("fails to read template ResolveCycle. Err: %w", err)
		}
		current = RemoveTypeMarks(RemoveQuotesForVars(c.execute(tpl, defined)))
		pending = c.GetVars(current)
		if len(pending) == len(previous) {
			return partialResolvedConfigData, fmt.Errorf("not resolved cycle vars: %v. Err: %w", pending, ErrCycleVars)
		}
	}
	return current, nil
}

// readTemplate parses data as a template and returns the values it defines.
// Vars must appear unquoted: A={{B}}, not A="{{B}}"
func (c *ConfigRender) readTemplate(data string) (*fasttemplate.Template, map[string]interface{}, error) {
	tpl, err := fasttemplate.NewTemplate(data, startTag, endTag)
	if err != nil {
		return nil, nil, fmt.Errorf("fail to load template. Err:%w", err)
	}
	k := koanf.New(".")
	err = k.Load(rawbytes.Provider([]byte(markUnquotedVars(data))), toml.Parser())
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing template values. Err: %w", err)
	}
	return tpl, k.All(), nil
}

func (c *ConfigRender) execute(tpl *fasttemplate.Template, defined map[string]interface{}) string {
	return tpl.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		if v, ok := c.lookupEnv(tag); ok {
			return w.Write([]byte(v))
		}
		if v, ok := defined[tag]; ok {
			return w.Write([]byte(fmt.Sprintf("%v", v)))
		}
		return w.Write([]byte(startTag + tag + endTag))
	})
}

func (c *ConfigRender) missingVars(tpl *fasttemplate.Template, defined map[string]interface{}) []string {
	var missing []string
	tpl.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		if _, ok := c.lookupEnv(tag); ok {
			return 0, nil
		}
		if _, ok := defined[tag]; !ok && !contains(missing, tag) {
			missing = append(missing, tag)
		}
		return 0, nil
	})
	return missing
}

// GetVars returns the vars in template
func (c *ConfigRender) GetVars(configData string) []string {
	tpl, err := fasttemplate.NewTemplate(configData, startTag, endTag)
	if err != nil {
		return []string{}
	}
	var vars []string
	tpl.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		vars = append(vars, tag)
		return 0, nil
	})
	return vars
}

// lookupEnv resolves tag as <prefix>_<tag> and then as the bare tag
func (c *ConfigRender) lookupEnv(tag string) (string, bool) {
	tag = strings.TrimSuffix(tag, intMark)
	envTag := strings.ReplaceAll(tag, ".", "_")
	if c.EnvPrefix != "" {
		if v, ok := c.LookupEnvFunc(c.EnvPrefix + "_" + envTag); ok {
			return v, true
		}
	}
	return c.LookupEnvFunc(envTag)
}

func markUnquotedVars(data string) string {
	return unquotedVarRe.ReplaceAllString(data, `= "{{${1}`+intMark+`}}"`)
}

// RemoveQuotesForVars turns A = "{{B:int}}" back into A = {{B}}
func RemoveQuotesForVars(data string) string {
	return quotedIntRe.ReplaceAllString(data, "= {{${1}}}")
}

// RemoveTypeMarks strips the :int mark from every var
func RemoveTypeMarks(data string) string {
	return intMarkRe.ReplaceAllString(data, "{{${1}}}")
}

func contains(vars []string, search string) bool {
	for _, v := range vars {
		if v == search {
			return true
		}
	}
	return false
}

func readFileToString(filename string) (string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func convertFileToToml(fileData string, fileType string) (string, error) {
	switch strings.ToLower(fileType) {
	case "json":
		k := koanf.New(".")
		err := k.Load(rawbytes.Provider([]byte(fileData)), json.Parser())
		if err != nil {
			return fileData, fmt.Errorf("error loading json file. Err: %w", err)
		}
		tomlData, err := toml.Parser().Marshal(k.Raw())
		if err != nil {
			return fileData, fmt.Errorf("error converting json to toml. Err: %w", err)
		}
		return string(tomlData), nil
	case "yml", "yaml", "ini":
		return fileData, fmt.Errorf("cant convert from %s to TOML. Err: %w", fileType, ErrUnsupportedConfigFileType)
	default:
		log.Warnf("filetype %s unknown, assuming is a TOML file", fileType)
		return fileData, nil
	}
}
