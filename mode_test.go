package tilemap3d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTool(t *testing.T) {
	for _, tool := range []Tool{ToolNone, ToolPick, ToolPaint, ToolFill, ToolErase} {
		got, err := ParseTool(tool.String())
		require.NoError(t, err)
		assert.Equal(t, tool, got)
	}

	_, err := ParseTool("spray")
	assert.Error(t, err)
	assert.Equal(t, "Tool(9)", Tool(9).String())
}

func TestMode(t *testing.T) {
	assert.Equal(t, "default", ModeDefault.String())
	assert.Equal(t, "autotiles", ModeAutoTiles.String())
	assert.Equal(t, "Mode(2)", Mode(2).String())
}
