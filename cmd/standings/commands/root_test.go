package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubcommands(t *testing.T) {
	names := []string{}
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"update", "snapshot", "weekly", "backfill", "validate"})
}

func TestSubcommandsTakeNoArguments(t *testing.T) {
	for _, name := range []string{"update", "snapshot", "weekly", "backfill", "validate"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Error(t, cmd.Args(cmd, []string{"2025-04-01"}), name)
	}
}
