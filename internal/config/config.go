// Package config loads translator settings using
// https://github.com/spf13/viper.
//
// A config file is optional. Values come from, in increasing precedence, the
// built-in defaults, the file, and MBSTYLE_<KEY> environment variables:
//
//	zoom_variable: wms_scale_denominator
//	crs: EPSG:3857
//	default_types: Point,Line,Polygon
//	colors:
//	  brand: "#336699"
//	enumerations:
//	  line-join:
//	    miter: mitre
package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/roach88/mbstyle/internal/ast"
	"github.com/roach88/mbstyle/internal/parse"
)

// Keys of the configuration file.
const (
	ZoomVariableKey = "zoom_variable"
	CRSKey          = "crs"
	DefaultTypesKey = "default_types"
	ColorsKey       = "colors"
	EnumerationsKey = "enumerations"
)

// EnvPrefix is the prefix of environment overrides, e.g. MBSTYLE_CRS.
const EnvPrefix = "MBSTYLE"

// Config holds the translator settings.
type Config struct {
	ZoomVariable string `mapstructure:"zoom_variable"`
	CRS          string `mapstructure:"crs"`
	DefaultTypes string `mapstructure:"default_types"`

	// Colors maps extra color names to color strings.
	Colors map[string]string `mapstructure:"colors"`

	// Enumerations maps an enumeration name to member name -> target literal.
	// Members of a built-in enumeration are overridden or added; unknown
	// enumerations are created.
	Enumerations map[string]map[string]string `mapstructure:"enumerations"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		ZoomVariable: parse.DefaultZoomVariable,
		CRS:          parse.DefaultCRS,
		DefaultTypes: "Point,Line,Polygon",
	}
}

// Load reads the config file at path from fsys. An empty path loads the
// defaults and environment only.
func Load(fsys afero.Fs, path string) (*Config, error) {
	v := viper.New()
	v.SetFs(fsys)

	def := Default()
	v.SetDefault(ZoomVariableKey, def.ZoomVariable)
	v.SetDefault(CRSKey, def.CRS)
	v.SetDefault(DefaultTypesKey, def.DefaultTypes)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if _, err := cfg.SemanticTypes(); err != nil {
		return nil, fmt.Errorf("%s: %w", DefaultTypesKey, err)
	}
	return cfg, nil
}

// SemanticTypes parses DefaultTypes.
func (c *Config) SemanticTypes() (ast.SemanticTypeSet, error) {
	return ast.ParseSemanticTypeSet(c.DefaultTypes)
}

// Context builds the translation context described by c.
func (c *Config) Context(logger *slog.Logger) *parse.Context {
	ctx := parse.NewContext()
	if logger != nil {
		ctx.Logger = logger
	}
	if c.ZoomVariable != "" {
		ctx.ZoomVariable = c.ZoomVariable
	}
	if c.CRS != "" {
		ctx.CRS = c.CRS
	}

	if len(c.Colors) > 0 {
		ctx.Colors = make(map[string]string, len(c.Colors))
		for name, color := range c.Colors {
			ctx.Colors[strings.ToLower(name)] = color
		}
	}

	for name, members := range c.Enumerations {
		ctx.Enumerations[name] = mergeEnumeration(ctx.Enumerations[name], name, members)
	}
	return ctx
}

// mergeEnumeration overrides the literals of existing members and appends new
// members in name order.
func mergeEnumeration(e parse.Enumeration, name string, members map[string]string) parse.Enumeration {
	out := parse.Enumeration{Name: name, Members: slices.Clone(e.Members)}

	var added []string
	for member := range members {
		if i := slices.IndexFunc(out.Members, func(m parse.Member) bool {
			return strings.EqualFold(m.Name, member)
		}); i >= 0 {
			out.Members[i].Literal = members[member]
			continue
		}
		added = append(added, member)
	}
	slices.Sort(added)
	for _, member := range added {
		out.Members = append(out.Members, parse.Member{Name: member, Literal: members[member]})
	}
	return out
}
