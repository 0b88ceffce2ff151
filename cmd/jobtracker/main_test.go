package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "sweep", "migrate"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, serveCmd.Flags().Lookup("port"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestSweep_MemoryStore(t *testing.T) {
	t.Setenv("STORE", "memory")
	t.Setenv("REDIS_ADDR", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"sweep"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "closed 0 expired job(s)\n", out.String())
}

func TestMigrate_RequiresPostgres(t *testing.T) {
	t.Setenv("STORE", "memory")

	rootCmd.SetArgs([]string{"migrate"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE=postgres")
}
