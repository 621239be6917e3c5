// Package configuration loads the resolver daemon's YAML configuration.
package configuration

import (
	"errors"
	"io"

	"gopkg.in/yaml.v2"
)

// Configuration is the resolver daemon's top-level configuration document.
//
// Note that yaml field names should never include _ characters, since some
// deployments derive environment variable overrides from them.
type Configuration struct {
	// Log configures the logging subsystem.
	Log Log `yaml:"log"`

	// HTTP configures the debug/metrics listener.
	HTTP HTTP `yaml:"http,omitempty"`

	// Pushrebase holds pushrebase engine parameters.
	Pushrebase Pushrebase `yaml:"pushrebase,omitempty"`

	// Hooks configures which pre-commit hooks run and against which
	// bookmarks.
	Hooks Hooks `yaml:"hooks,omitempty"`
}

// Log configures the logging subsystem.
type Log struct {
	// Level is the granularity at which the resolver logs.
	Level string `yaml:"level,omitempty"`

	// Formatter overrides the default formatter. Options include "text"
	// and "json".
	Formatter string `yaml:"formatter,omitempty"`

	// Fields allows static string fields to be included in every log
	// entry.
	Fields map[string]interface{} `yaml:"fields,omitempty"`

	// ReportCaller enables caller reporting in log output.
	ReportCaller bool `yaml:"reportcaller,omitempty"`
}

// HTTP configures the debug/metrics listener.
type HTTP struct {
	// Addr specifies the bind address for the debug listener. Empty
	// disables it.
	Addr string `yaml:"addr,omitempty"`
}

// Pushrebase holds the parameters for the pushrebase engine; the resolver
// itself never interprets them. Parse fills in RecursionLimit's default,
// but the daemon does not hand this section to the resolver or the engine.
type Pushrebase struct {
	RecursionLimit          int  `yaml:"recursionlimit,omitempty"`
	CasefoldCheck           bool `yaml:"casefoldcheck,omitempty"`
	EmitObsmarkers          bool `yaml:"emitobsmarkers,omitempty"`
	AllowCasefoldingRenames bool `yaml:"allowcasefoldingrenames,omitempty"`
}

// Hooks configures pre-commit hook enforcement.
type Hooks struct {
	// Enabled lists the hook names to run, in order.
	Enabled []string `yaml:"enabled,omitempty"`

	// Bookmarks restricts hook enforcement to the named bookmarks. An
	// empty list means every bookmark is checked.
	Bookmarks []string `yaml:"bookmarks,omitempty"`
}

// Parse parses a YAML configuration document into a Configuration,
// applying the resolver's defaults to anything left unset.
func Parse(rd io.Reader) (*Configuration, error) {
	in, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}

	config := new(Configuration)
	if err := yaml.Unmarshal(in, config); err != nil {
		return nil, err
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Pushrebase.RecursionLimit == 0 {
		config.Pushrebase.RecursionLimit = 16384
	}

	return config, nil
}

// ErrNoConfiguration is returned by callers that expected a configuration
// path but received none.
var ErrNoConfiguration = errors.New("configuration: no configuration file specified")
