package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHourlyCmd_Exists(t *testing.T) {
	cmd := getHourlyCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "hourly", cmd.Use)
	assert.NotNil(t, cmd.RunE, "RunE should be set")
	assert.Contains(t, cmd.Short, "hourly")
	assert.Contains(t, cmd.Long, "region=<id>/year=<y>/month=<mm>.nc")
	assert.Contains(t, cmd.Long, "skipped")
}

func TestGetHourlyCmd_Flags(t *testing.T) {
	cmd := getHourlyCmd()

	tests := []struct {
		name, short, def string
	}{
		{"year", "y", "0"},
		{"months", "m", "[1,2,3,4,5,6,7,8,9,10,11,12]"},
		{"regions", "r", "[]"},
		{"vars", "", "[]"},
		{"jobs", "j", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag, "--%s flag should exist", tt.name)
			assert.Equal(t, tt.short, flag.Shorthand)
			assert.Equal(t, tt.def, flag.DefValue)
			assert.NotEmpty(t, flag.Usage)
		})
	}
}
