// Package config loads cork's YAML configuration file.
//
// The file is checked against an embedded CUE schema before it is decoded,
// so unknown keys and out-of-range values are reported with the offending
// field instead of being silently ignored.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/cork/internal/numeral"
)

//go:embed schema.cue
var schemaCUE string

// DefaultPrompt is the REPL prompt when none is configured.
const DefaultPrompt = "cork> "

// Config holds user preferences shared by every command.
type Config struct {
	Prompt          string        `yaml:"prompt"`
	Header          bool          `yaml:"header"`
	OutputRadix     numeral.Radix `yaml:"output_radix"`
	PunctuateOutput bool          `yaml:"punctuate_output"`
	Mode            numeral.Mode  `yaml:"mode"`

	// Source is the file the config was read from ("" for defaults).
	Source string `yaml:"-"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Prompt:      DefaultPrompt,
		Header:      true,
		OutputRadix: numeral.RadixHex,
		Mode:        numeral.ModeHex,
	}
}

// Formatter returns the output formatter described by the config.
func (c Config) Formatter() numeral.Formatter {
	return numeral.Formatter{Radix: c.OutputRadix, Punctuate: c.PunctuateOutput}
}

// Overrides are command-line values that take precedence over the file.
// Zero values leave the file's setting alone.
type Overrides struct {
	Mode      numeral.Mode
	Radix     numeral.Radix
	Punctuate bool
}

// ApplyOverrides returns c with every set override applied.
func (c Config) ApplyOverrides(o Overrides) Config {
	if o.Mode != "" {
		c.Mode = o.Mode
	}
	if o.Radix != "" {
		c.OutputRadix = o.Radix
	}
	if o.Punctuate {
		c.PunctuateOutput = true
	}
	return c
}

// Error reports an invalid configuration file.
type Error struct {
	Path    string
	Field   string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("config %s: %s: %s", e.Path, e.Field, e.Message)
	default:
		return fmt.Sprintf("config %s: %s", e.Path, e.Message)
	}
}

// Locations lists the files searched, in order, when no explicit path is
// given. Later files win.
func Locations(home string) []string {
	if home == "" {
		return nil
	}
	return []string{
		filepath.Join(home, ".cork.yml"),
		filepath.Join(home, ".cork", "cork.yml"),
		filepath.Join(home, ".config", "cork", "cork.yml"),
	}
}

// Load reads the config at path. With an empty path it searches Locations
// under the user's home directory and falls back to Default when none of
// them exist. An explicit path that does not exist is an error.
func Load(path string) (Config, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		return Parse(path, data)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Default(), nil
	}

	found := ""
	var data []byte
	for _, loc := range Locations(home) {
		b, err := os.ReadFile(loc)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		found, data = loc, b
	}
	if found == "" {
		return Default(), nil
	}
	return Parse(found, data)
}

// Parse validates and decodes a YAML document. Missing keys keep their
// default values. name is used in error messages only.
func Parse(name string, data []byte) (Config, error) {
	cfg := Default()
	cfg.Source = name

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, &Error{Path: name, Message: err.Error()}
	}
	if len(raw) == 0 {
		return cfg, nil
	}

	if err := validate(name, raw); err != nil {
		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &Error{Path: name, Message: err.Error()}
	}
	return cfg, nil
}

// validate unifies the decoded document with #Config.
func validate(name string, raw map[string]any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	doc := ctx.Encode(raw)
	if err := doc.Err(); err != nil {
		return &Error{Path: name, Message: err.Error()}
	}

	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(name, err)
	}
	return nil
}

// formatCUEError reduces a CUE error list to its first entry, keeping the
// path of the offending field.
func formatCUEError(name string, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Path: name, Message: err.Error()}
	}

	first := errs[0]
	format, args := first.Msg()
	return &Error{
		Path:    name,
		Field:   fieldPath(first.Path()),
		Message: fmt.Sprintf(format, args...),
	}
}

func fieldPath(path []string) string {
	parts := make([]string, 0, len(path))
	for _, p := range path {
		if p == "#Config" {
			continue
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, ".")
}

// IsError returns true if err is or wraps a *Error.
func IsError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}
