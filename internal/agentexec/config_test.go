package agentexec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRejectsEmptyHuggingFaceRepo(t *testing.T) {
	c := Config{
		Model:     ModelConfig{Source: ModelSource{Kind: ModelSourceHuggingFace}},
		MCPServer: MCPServerConfig{TimeoutSeconds: 30},
	}
	require.Error(t, c.Validate())
}

func TestValidateRejectsMissingLocalFile(t *testing.T) {
	c := Config{
		Model:     ModelConfig{Source: ModelSource{Kind: ModelSourceLocal, Path: "/no/such/model.gguf"}},
		MCPServer: MCPServerConfig{TimeoutSeconds: 30},
	}
	require.Error(t, c.Validate())
}

func TestValidateRejectsNonGGUFExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.bin")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	c := Config{
		Model:     ModelConfig{Source: ModelSource{Kind: ModelSourceLocal, Path: path}},
		MCPServer: MCPServerConfig{TimeoutSeconds: 30},
	}
	require.Error(t, c.Validate())
}

func TestValidateRejectsZeroTimeout(t *testing.T) {
	c := Config{
		Model:     ModelConfig{Source: ModelSource{Kind: ModelSourceHuggingFace, Repo: "org/model"}},
		MCPServer: MCPServerConfig{TimeoutSeconds: 0},
	}
	require.Error(t, c.Validate())
}

func TestValidateAcceptsValidHuggingFaceConfig(t *testing.T) {
	c := Config{
		Model:     ModelConfig{Source: ModelSource{Kind: ModelSourceHuggingFace, Repo: "org/model", Filename: "model.gguf"}},
		MCPServer: MCPServerConfig{TimeoutSeconds: 30},
	}
	require.NoError(t, c.Validate())
}

func TestDisplayNamePrefersFolderOverFilename(t *testing.T) {
	m := ModelSource{Kind: ModelSourceHuggingFace, Repo: "org/model", Filename: "a.gguf", Folder: "variant"}
	require.Equal(t, "org/model/variant", m.DisplayName())
}
