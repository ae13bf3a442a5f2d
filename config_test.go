package boilerscore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.2, cfg.TailSize)
	assert.Equal(t, 1500*2000, cfg.DocumentArea)
	assert.Equal(t, 0.2, cfg.MinimumContentThreshold)
	assert.Equal(t, 2, cfg.Delta)
	assert.Equal(t, 20, cfg.MaxIterations)
	assert.Zero(t, cfg.MaxTokenLength)
}

func TestConfigValidateCollectsAllErrors(t *testing.T) {
	err := Config{}.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var es ErrorSlice
	require.True(t, errors.As(err, &es))
	assert.Len(t, es, 2) // documentArea and delta

	cfg := DefaultConfig()
	cfg.TailSize = 0.5
	cfg.MinimumContentThreshold = 1.5
	cfg.MaxIterations = -1
	cfg.MaxTokenLength = -1
	cfg.Delta = 101
	err = cfg.Validate()
	require.True(t, errors.As(err, &es))
	assert.Len(t, es, 5)

	cfg = DefaultConfig()
	cfg.TailSize = -0.1
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidArgument)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigFileYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "tailSize: 0.1\nmaxIterations: 5\nmaxTokenLength: 12\n")

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.TailSize)
	assert.Equal(t, 5, cfg.MaxIterations)
	assert.Equal(t, 12, cfg.MaxTokenLength)
	assert.Equal(t, DefaultDelta, cfg.Delta)
	assert.Equal(t, DefaultDocumentArea, cfg.DocumentArea)
}

func TestLoadConfigFileJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"delta": 3, "minimumContentThreshold": 0.4}`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Delta)
	assert.Equal(t, 0.4, cfg.MinimumContentThreshold)
	assert.Equal(t, DefaultTailSize, cfg.TailSize)
}

func TestLoadConfigFileInvalid(t *testing.T) {
	_, err := LoadConfigFile(writeFile(t, "config.yml", "tailSize: 0.7\n"))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = LoadConfigFile(writeFile(t, "config.json", "{"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidArgument)

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
