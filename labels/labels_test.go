package labels

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/labelpress/layout"
)

func TestLookup(t *testing.T) {
	l, err := Lookup("62")
	require.NoError(t, err)
	assert.Equal(t, 696, l.DotsPrintable.X)
	assert.Equal(t, 0, l.DotsPrintable.Y)
	assert.Equal(t, layout.Endless, l.Kind)
	assert.False(t, l.TwoColor)

	red, err := Lookup("62red")
	require.NoError(t, err)
	assert.True(t, red.TwoColor)

	round, err := Lookup("d24")
	require.NoError(t, err)
	assert.True(t, round.Round())
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("99x99")
	var unknown *layout.UnknownLabelSizeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "99x99", unknown.ID)
}

func TestTableConsistency(t *testing.T) {
	seen := map[string]bool{}
	for _, l := range All() {
		assert.False(t, seen[l.ID], "重复的标签 %s", l.ID)
		seen[l.ID] = true
		assert.LessOrEqual(t, l.DotsPrintable.X+l.RightOffset, 1296, "%s 超出宽幅打印头宽度", l.ID)
		if l.Kind == layout.Endless {
			assert.Zero(t, l.DotsPrintable.Y, l.ID)
		} else {
			assert.Positive(t, l.DotsPrintable.Y, l.ID)
		}
	}
	assert.Equal(t, "12", All()[0].ID)
}

func TestPrintableMM(t *testing.T) {
	l, err := Lookup("29x90")
	require.NoError(t, err)
	w, h := l.PrintableMM()
	assert.InDelta(t, 25.908, w, 1e-9)
	assert.InDelta(t, 83.9046, h, 1e-3)

	endless, err := Lookup("62")
	require.NoError(t, err)
	w, h = endless.PrintableMM()
	assert.InDelta(t, 58.928, w, 1e-9)
	assert.Zero(t, h)
}
