// Package config loads facts.yaml configuration files.
// A configuration relocates the files and commands the fact plugins inspect,
// overrides host attributes and injects static facts.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/facts/exec"
	"github.com/zero-day-ai/facts/puppet"
)

// File names searched when Load is given a directory, in order.
const (
	FileName    = "facts.yaml"
	AltFileName = "facts.yml"
)

// Config represents a facts.yaml configuration file. Every section is
// optional; getters fall back to the built-in defaults.
type Config struct {
	Puppet  *PuppetConfig  `yaml:"puppet,omitempty"`
	Command *CommandConfig `yaml:"command,omitempty"`

	// Attributes override the detected host attributes (kernel, hostname, ...)
	Attributes map[string]string `yaml:"attributes,omitempty"`

	// ExternalFacts are registered as static string facts, e.g. puppetversion
	ExternalFacts map[string]ExternalFact `yaml:"external_facts,omitempty"`

	Log *LogConfig `yaml:"log,omitempty"`
}

// PuppetConfig locates the Puppet files and commands.
type PuppetConfig struct {
	TrustDir             string `yaml:"trust_dir,omitempty"`
	ExcludedSuffix       string `yaml:"excluded_suffix,omitempty"`
	AgentBinary          string `yaml:"agent_binary,omitempty"`
	ServerVersionCommand string `yaml:"server_version_command,omitempty"`
	User                 string `yaml:"user,omitempty"`
	IDCommand            string `yaml:"id_command,omitempty"`
}

// Options converts the section into puppet.Options. Unset fields are left
// empty and take the puppet package defaults.
func (p *PuppetConfig) Options() puppet.Options {
	if p == nil {
		return puppet.Options{}
	}
	return puppet.Options{
		TrustDir:             p.TrustDir,
		ExcludedSuffix:       p.ExcludedSuffix,
		AgentBinary:          p.AgentBinary,
		ServerVersionCommand: p.ServerVersionCommand,
		User:                 p.User,
		IDCommand:            p.IDCommand,
	}
}

// ExternalFact is a static fact supplied by configuration. It is written
// either as a plain value or as a mapping with an optional confine:
//
//	external_facts:
//	  datacenter: ams1
//	  puppetversion:
//	    value: 7.2.1
//	    confine: host.kernel == "Linux"
type ExternalFact struct {
	Value string `yaml:"value"`

	// Confine is a CEL expression over host attributes; empty applies everywhere
	Confine string `yaml:"confine,omitempty"`
}

// UnmarshalYAML accepts a scalar value or the mapping form.
func (e *ExternalFact) UnmarshalYAML(node *yaml.Node) error {
	*e = ExternalFact{}
	switch node.Kind {
	case yaml.ScalarNode:
		e.Value = node.Value
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			if val.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: external fact field %q must be a string", val.Line, key.Value)
			}
			switch key.Value {
			case "value":
				e.Value = val.Value
			case "confine":
				e.Confine = val.Value
			default:
				return fmt.Errorf("line %d: unknown external fact field %q", key.Line, key.Value)
			}
		}
		return nil
	default:
		return fmt.Errorf("line %d: external fact must be a string or a mapping", node.Line)
	}
}

// CommandConfig controls external command execution.
type CommandConfig struct {
	// Shell is the interpreter used for command lines.
	// Default: /bin/sh
	Shell string `yaml:"shell,omitempty"`

	// Timeout bounds each command.
	// Format: Go duration string (e.g., "30s", "1m")
	// Default: 30s
	Timeout string `yaml:"timeout,omitempty"`
}

// GetShell returns the configured shell or the default value.
func (c *CommandConfig) GetShell() string {
	if c == nil || c.Shell == "" {
		return exec.DefaultShell
	}
	return c.Shell
}

// GetTimeout parses the timeout string and returns a duration.
// Returns the default value if not set, invalid or not positive.
func (c *CommandConfig) GetTimeout() time.Duration {
	if c == nil || c.Timeout == "" {
		return puppet.DefaultCommandTimeout
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return puppet.DefaultCommandTimeout
	}
	return d
}

// Runner builds the shell runner described by the section.
func (c *CommandConfig) Runner() *exec.ShellRunner {
	return &exec.ShellRunner{Shell: c.GetShell(), Timeout: c.GetTimeout()}
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: warn
	Level string `yaml:"level,omitempty"`

	// Format is text or json.
	// Default: text
	Format string `yaml:"format,omitempty"`
}

// GetLevel returns the configured level or slog.LevelWarn.
func (l *LogConfig) GetLevel() slog.Level {
	if l == nil || l.Level == "" {
		return slog.LevelWarn
	}
	level, err := ParseLevel(l.Level)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// GetFormat returns "json" or "text".
func (l *LogConfig) GetFormat() string {
	if l != nil && strings.EqualFold(l.Format, "json") {
		return "json"
	}
	return "text"
}

// ParseLevel parses a level name such as "debug" or "WARN".
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// Default returns an empty configuration; every getter yields its default.
func Default() *Config {
	return &Config{}
}

// Parse decodes a facts.yaml document. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var config Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		if errors.Is(err, io.EOF) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &config, nil
}

// Load reads and parses a facts.yaml file from the given path.
// If the path is a directory, it looks for facts.yaml or facts.yml in that directory.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	configPath := path
	if info.IsDir() {
		configPath, err = findInDir(path)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

func findInDir(dir string) (string, error) {
	for _, name := range []string{FileName, AltFileName} {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no %s or %s found in %s", FileName, AltFileName, dir)
}

// LoadOrDefault loads path when it is set and returns Default otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
