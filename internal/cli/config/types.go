// Package config provides configuration management for the DocSteer CLI.
//
// Configuration is layered: built-in defaults, then a docsteer.yaml file
// found by upward search from the working directory, then DOCSTEER_
// environment variables, then command-line flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	GuidelinesDir string `koanf:"guidelines_dir"`
	Verbose       bool   `koanf:"verbose"`
	OutputFormat  string `koanf:"output"`

	// ProjectRoot is the directory the config file was found in (or the
	// working directory); relative paths resolve against it.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultGuidelinesDir = "guidelines"
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)
