package region_test

import (
	"testing"

	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/errcode"
	"github.com/OsinDmitrii/Big-data-in-agriculture/pkg/region"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const regionsYAML = `
rostov:
  area: [47.5, 38.0, 46.0, 41.0]
krasnodar:
  area: [46.5, 36.5, 43.5, 41.5]
disabled:
  area: [0, 0, 0, 0]
`

func TestParse(t *testing.T) {
	reg, err := region.Parse([]byte(regionsYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"disabled", "krasnodar", "rostov"}, reg.IDs())

	r, ok := reg.Get("rostov")
	require.True(t, ok)
	assert.Equal(t, region.BBox{North: 47.5, West: 38, South: 46, East: 41}, r.Area)

	_, ok = reg.Get("moscow")
	assert.False(t, ok)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		msg  string
		data string
		code gn.ErrorCode
	}{
		{"bad yaml", "rostov: [", errcode.RegionsFileError},
		{"short area", "rostov:\n  area: [1, 2, 3]\n", errcode.RegionAreaError},
		{"missing area", "rostov: {}\n", errcode.RegionAreaError},
	}

	for _, v := range tests {
		_, err := region.Parse([]byte(v.data))
		require.Error(t, err, v.msg)
		assert.True(t, errcode.Is(err, v.code), v.msg)
	}
}

func TestActive(t *testing.T) {
	reg, err := region.Parse([]byte(regionsYAML))
	require.NoError(t, err)

	var ids []string
	for _, v := range reg.Active() {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"krasnodar", "rostov"}, ids)
	assert.Len(t, reg.IDs(), 3)
}

func TestSelect(t *testing.T) {
	reg, err := region.Parse([]byte(regionsYAML))
	require.NoError(t, err)

	tests := []struct {
		msg string
		ids []string
		res []string
	}{
		{"all active", nil, []string{"krasnodar", "rostov"}},
		{"one", []string{"rostov"}, []string{"rostov"}},
		{"registry order", []string{"rostov", "krasnodar"}, []string{"krasnodar", "rostov"}},
		{"disabled dropped", []string{"disabled"}, nil},
	}

	for _, v := range tests {
		regs, err := reg.Select(v.ids)
		require.NoError(t, err, v.msg)
		var ids []string
		for _, r := range regs {
			ids = append(ids, r.ID)
		}
		assert.Equal(t, v.res, ids, v.msg)
	}

	_, err = reg.Select([]string{"moscow"})
	assert.True(t, errcode.Is(err, errcode.RegionNotFoundError))
}
