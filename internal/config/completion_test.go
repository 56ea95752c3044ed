package config_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/tbckr/asnmap/internal/config"
)

func TestCompleteOutputFormat(t *testing.T) {
	vals, directive := config.CompleteOutputFormat(nil, nil, "")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	assert.ElementsMatch(t, []string{"table", "json", "text"}, vals)
}

func TestCompleteFile(t *testing.T) {
	vals, directive := config.CompleteFile("yaml", "yml")(nil, nil, "")
	assert.Equal(t, cobra.ShellCompDirectiveFilterFileExt, directive)
	assert.Equal(t, []string{"yaml", "yml"}, vals)
}

func TestKeyCompletions(t *testing.T) {
	assert.Equal(t, []string{"true", "false"}, config.KeyCompletions("dedup-ips"))
	assert.ElementsMatch(t, []string{"table", "json", "text"}, config.KeyCompletions("output"))
	assert.Nil(t, config.KeyCompletions("resolver"))
	assert.Nil(t, config.KeyCompletions("nonexistent"))
}

func TestRegisterFlagCompletions(t *testing.T) {
	cmd := &cobra.Command{Use: "asnmap"}
	config.RegisterFlags(cmd.PersistentFlags())
	assert.NotPanics(t, func() { config.RegisterFlagCompletions(cmd) })
}
