package generator

import (
	"fmt"
	"os"
	"strings"

	"github.com/bluesky-social/apigen/naming"

	"gopkg.in/yaml.v3"
)

// Roles lists, per parameter role, the schema parameter names that select it.
type Roles struct {
	Context   []string `yaml:"context"`
	Params    []string `yaml:"params"`
	AppObject []string `yaml:"app_object"`
}

// Config controls naming and layout of generated packages. The zero value is
// not usable; start from DefaultConfig or ParseConfig.
type Config struct {
	// ImportPrefix is the import path under which one package per module is
	// generated: <prefix>/<package>.
	ImportPrefix string `yaml:"import_prefix"`
	// RuntimeImport is the import path of the runtime package generated code
	// dispatches through.
	RuntimeImport string `yaml:"runtime_import"`
	// DiscriminatorKey is the JSON member naming a variant's type.
	DiscriminatorKey string `yaml:"discriminator_key"`
	// ParamsStructPrefix marks input-parameter structs, whose fields are
	// inlined into generated function signatures.
	ParamsStructPrefix string `yaml:"params_struct_prefix"`
	LineWidth          int    `yaml:"line_width"`
	// PresenceAccessors adds HasX methods for optional struct fields.
	PresenceAccessors bool `yaml:"presence_accessors"`
	// Reserved adds to or overrides the reserved identifier table.
	Reserved map[string]string `yaml:"reserved"`
	// OpenMapTypes are schema type names rendered as map[string]any.
	OpenMapTypes []string `yaml:"open_map_types"`
	// ContextTypes are schema type names for the call-context handle.
	ContextTypes []string `yaml:"context_types"`
	Roles        Roles    `yaml:"roles"`

	// SourceName is mentioned in the generated file header.
	SourceName string `yaml:"-"`
}

func DefaultConfig() *Config {
	return &Config{
		ImportPrefix:       "example.com/apisdk",
		RuntimeImport:      "github.com/bluesky-social/apigen/sdk",
		DiscriminatorKey:   "type",
		ParamsStructPrefix: "ParamsOf",
		LineWidth:          100,
		PresenceAccessors:  true,
		OpenMapTypes:       []string{"Value", "API"},
		ContextTypes:       []string{"ClientContext"},
		Roles: Roles{
			Context:   []string{"context", "_context"},
			Params:    []string{"params"},
			AppObject: []string{"app_object", "password_provider"},
		},
	}
}

// ParseConfig reads YAML configuration on top of the defaults.
func ParseConfig(b []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parsing generator config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading generator config: %w", err)
	}
	cfg, err := ParseConfig(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ImportPrefix == "" || strings.HasSuffix(c.ImportPrefix, "/") || strings.ContainsAny(c.ImportPrefix, " \\") {
		return fmt.Errorf("invalid import_prefix %q", c.ImportPrefix)
	}
	if c.RuntimeImport == "" {
		return fmt.Errorf("runtime_import must be set")
	}
	if c.DiscriminatorKey == "" {
		return fmt.Errorf("discriminator_key must be set")
	}
	if c.ParamsStructPrefix == "" {
		return fmt.Errorf("params_struct_prefix must be set")
	}
	if c.LineWidth < 40 {
		return fmt.Errorf("line_width %d is too narrow (minimum 40)", c.LineWidth)
	}
	for from, to := range c.Reserved {
		if !naming.IsIdentifier(to) {
			return fmt.Errorf("reserved substitute %q for %q is not a valid identifier", to, from)
		}
	}

	seen := make(map[string]string)
	for role, names := range map[string][]string{
		"context":    c.Roles.Context,
		"params":     c.Roles.Params,
		"app_object": c.Roles.AppObject,
	} {
		for _, n := range names {
			if prev, ok := seen[n]; ok && prev != role {
				return fmt.Errorf("parameter name %q assigned to both %s and %s roles", n, prev, role)
			}
			seen[n] = role
		}
	}
	return nil
}

func (c *Config) reservedTable() *naming.Reserved {
	r := naming.DefaultReserved()
	for from, to := range c.Reserved {
		r.Set(from, to)
	}
	return r
}
