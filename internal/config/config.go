// Package config holds the command line's configuration file
package config

import (
	"bytes"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/cottand/mqcheck/internal/log"
	"github.com/drone/envsubst"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no file is given
const DefaultFile = ".mqcheck.yaml"

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"

	FormatText = "text"
	FormatYAML = "yaml"
)

type Config struct {
	LogLevel string `yaml:"log_level"`
	// Color is one of ColorAuto, ColorAlways or ColorNever
	Color string `yaml:"color"`
	// Input is the type of the current value programs start with, see mqcheck.ParseInputType
	Input string `yaml:"input"`
	// Format is one of FormatText or FormatYAML
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		LogLevel: "warn",
		Color:    ColorAuto,
		Input:    "any",
		Format:   FormatText,
	}
}

// Level is the parsed LogLevel. Only valid after Validate succeeded
func (c Config) Level() slog.Level {
	l, _ := log.ParseLevel(c.LogLevel)
	return l
}

func (c Config) Validate() error {
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		return errors.Errorf("invalid log_level %q", c.LogLevel)
	}
	if !slices.Contains([]string{ColorAuto, ColorAlways, ColorNever}, c.Color) {
		return errors.Errorf("invalid color %q, expected auto, always or never", c.Color)
	}
	if !slices.Contains([]string{FormatText, FormatYAML}, c.Format) {
		return errors.Errorf("invalid format %q, expected text or yaml", c.Format)
	}
	return nil
}

// Parse reads a configuration file over the defaults. ${VAR} references are
// expanded from the environment before the YAML is read, and unknown keys
// are rejected.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	buf, err := io.ReadAll(r)
	if err != nil {
		return cfg, errors.Wrap(err, "failed to read config")
	}
	expanded, err := envsubst.EvalEnv(string(buf))
	if err != nil {
		return cfg, errors.Wrap(err, "failed to expand env vars in config")
	}
	dec := yaml.NewDecoder(bytes.NewBufferString(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, errors.Wrap(err, "failed to parse config")
	}
	return cfg, cfg.Validate()
}

// Load reads path, or DefaultFile when path is empty. A missing DefaultFile
// is not an error and yields Default().
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), errors.Wrapf(err, "failed to open config file %s", path)
	}
	defer f.Close()
	cfg, err := Parse(f)
	return cfg, errors.Wrapf(err, "config file %s", path)
}
