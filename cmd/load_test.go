package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoadCmd_Subcommands(t *testing.T) {
	cmd := getLoadCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "load", cmd.Use)
	assert.Nil(t, cmd.RunE, "load needs a tier subcommand")
	assert.Contains(t, cmd.Long, "load_log")

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"hourly", "daily"}, names)
}

func TestGetLoadCmd_TierFlags(t *testing.T) {
	cmd := getLoadCmd()

	for _, sub := range cmd.Commands() {
		t.Run(sub.Name(), func(t *testing.T) {
			assert.NotNil(t, sub.RunE)
			assert.Contains(t, sub.Short, sub.Name())

			backend := sub.Flags().Lookup("backend")
			require.NotNil(t, backend)
			assert.Equal(t, "b", backend.Shorthand)
			assert.Contains(t, backend.Usage, "sqlite")

			file := sub.Flags().Lookup("file")
			require.NotNil(t, file)
			assert.Equal(t, "f", file.Shorthand)

			assert.NotNil(t, sub.Flags().Lookup("year"))
			assert.NotNil(t, sub.Flags().Lookup("months"))
		})
	}
}
