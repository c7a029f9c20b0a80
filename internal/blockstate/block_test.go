package blockstate

import (
	"testing"

	"BlockVision/shared/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBlock(t *testing.T) {
	tests := []struct {
		in      string
		id      string
		props   string
		wantErr bool
	}{
		{"minecraft:stone", "minecraft:stone", "", false},
		{"stone", "minecraft:stone", "", false},
		{"mymod:lamp[lit=true]", "mymod:lamp", "lit=true", false},
		{"oak_log[ axis = y ]", "minecraft:oak_log", "axis=y", false},
		{"fence[west=true,north=false]", "minecraft:fence", "north=false,west=true", false},
		{"fence[a=1,a=2]", "minecraft:fence", "a=2", false},
		{"fence[north]", "", "", true},
		{"fence[north=true", "", "", true},
		{":stone", "", "", true},
		{"", "", "", true},
	}
	for _, tt := range tests {
		b, err := ParseBlock(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidBlock, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.id, b.ID(), tt.in)
		assert.Equal(t, tt.props, b.PropsString(), tt.in)
	}
}

func TestBlockIdentity(t *testing.T) {
	a, _ := ParseBlock("minecraft:fence[north=true,east=false]")
	b, _ := ParseBlock("fence[east=false,north=true]")
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, "north", a.Properties[0].Name, "ordem de entrada é preservada")
}

func TestBlockClassification(t *testing.T) {
	w, _ := ParseBlock("flowing_water[level=4]")
	assert.Equal(t, util.LiquidWater, w.Liquid())
	assert.Equal(t, 4, w.Level())

	l, _ := ParseBlock("lava[level=x]")
	assert.Equal(t, util.LiquidLava, l.Liquid())
	assert.Equal(t, 0, l.Level())

	f, _ := ParseBlock("oak_fence[waterlogged=true]")
	assert.Equal(t, util.LiquidNone, f.Liquid())
	assert.True(t, f.Waterlogged())
}
