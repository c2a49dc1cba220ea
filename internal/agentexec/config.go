// Package agentexec owns the process-wide agent executor: a singleton
// connection to an LLM runtime fronted by an in-process HTTP MCP
// server exposing the tool registry the runtime calls back into.
package agentexec

import (
	"fmt"
	"os"
)

// ModelSourceKind distinguishes where the model comes from.
type ModelSourceKind string

const (
	ModelSourceHuggingFace ModelSourceKind = "huggingface"
	ModelSourceLocal       ModelSourceKind = "local"
)

// ModelSource describes where to obtain the model.
type ModelSource struct {
	Kind ModelSourceKind

	// HuggingFace fields.
	Repo     string
	Filename string
	Folder   string

	// Local field: path to a .gguf file.
	Path string
}

// DisplayName renders a human-readable identifier for logs.
func (m ModelSource) DisplayName() string {
	switch m.Kind {
	case ModelSourceHuggingFace:
		switch {
		case m.Folder != "":
			return fmt.Sprintf("%s/%s", m.Repo, m.Folder)
		case m.Filename != "":
			return fmt.Sprintf("%s/%s", m.Repo, m.Filename)
		default:
			return m.Repo
		}
	case ModelSourceLocal:
		return fmt.Sprintf("local:%s", m.Path)
	default:
		return "unknown"
	}
}

// ModelConfig is the model half of Config.
type ModelConfig struct {
	Source    ModelSource
	BatchSize int
	Debug     bool
}

// MCPServerConfig controls the in-process HTTP MCP server.
type MCPServerConfig struct {
	// Port is the bind port; 0 means OS-assigned.
	Port int
	// TimeoutSeconds bounds MCP tool-call round trips.
	TimeoutSeconds int
}

// Config is the full agent executor configuration.
type Config struct {
	Model     ModelConfig
	MCPServer MCPServerConfig
}

// ConfigError is a configuration validation failure.
type ConfigError struct{ Message string }

func (e *ConfigError) Error() string { return e.Message }

// Validate checks the configuration per spec §4.12 item 1: model source
// must be a HuggingFace repo (with optional filename/folder) or a
// local .gguf file that exists; MCP server timeout must be > 0.
func (c Config) Validate() error {
	switch c.Model.Source.Kind {
	case ModelSourceHuggingFace:
		if c.Model.Source.Repo == "" {
			return &ConfigError{"HuggingFace repository name cannot be empty"}
		}
	case ModelSourceLocal:
		path := c.Model.Source.Path
		if len(path) < 5 || path[len(path)-5:] != ".gguf" {
			return &ConfigError{fmt.Sprintf("local model file must end with .gguf extension, got: %s", path)}
		}
		if _, err := os.Stat(path); err != nil {
			return &ConfigError{fmt.Sprintf("local model file not found: %s", path)}
		}
	default:
		return &ConfigError{"model source must be huggingface or local"}
	}

	if c.MCPServer.TimeoutSeconds <= 0 {
		return &ConfigError{"MCP server timeout must be greater than 0 seconds"}
	}
	return nil
}
