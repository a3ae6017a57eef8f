package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/valheimsave/pkg/config"
)

func TestInitCommand(t *testing.T) {
	env := newTestEnv(t)

	t.Run("creates config", func(t *testing.T) {
		out, err := env.run(t, "", "init", "--print-key")
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration created at "+env.configPath)
		assert.Contains(t, out, "API key: ")

		cfg, err := config.LoadConfig(env.configPath)
		require.NoError(t, err)
		assert.Equal(t, env.dataDir, cfg.DataDir)
		assert.Len(t, cfg.Security.APIKey, 64)
	})

	t.Run("keeps existing config", func(t *testing.T) {
		before, err := config.LoadConfig(env.configPath)
		require.NoError(t, err)

		out, err := env.run(t, "", "init")
		require.NoError(t, err)
		assert.Contains(t, out, "already exists")

		after, err := config.LoadConfig(env.configPath)
		require.NoError(t, err)
		assert.Equal(t, before.Security.APIKey, after.Security.APIKey)
	})

	t.Run("force regenerates key", func(t *testing.T) {
		before, err := config.LoadConfig(env.configPath)
		require.NoError(t, err)

		_, err = env.run(t, "", "init", "--force")
		require.NoError(t, err)

		after, err := config.LoadConfig(env.configPath)
		require.NoError(t, err)
		assert.NotEqual(t, before.Security.APIKey, after.Security.APIKey)
	})
}
