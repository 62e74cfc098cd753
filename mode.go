package tilemap3d

import "fmt"

// Tool is the painting tool the host applies to a clicked cell.
type Tool int

const (
	// ToolNone does nothing
	ToolNone Tool = iota
	// ToolPick copies the clicked tile into the selection
	ToolPick
	// ToolPaint paints the selected tile or auto-tile
	ToolPaint
	// ToolFill flood fills with the selected tile
	ToolFill
	// ToolErase erases an auto-tile
	ToolErase
)

var toolNames = [...]string{
	ToolNone:  "none",
	ToolPick:  "pick",
	ToolPaint: "paint",
	ToolFill:  "fill",
	ToolErase: "erase",
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// ParseTool returns the tool with the given name.
func ParseTool(s string) (Tool, error) {
	for i, name := range toolNames {
		if name == s {
			return Tool(i), nil
		}
	}
	return ToolNone, fmt.Errorf("unknown tool %q", s)
}

// Mode selects between plain and auto-tile painting.
type Mode int

const (
	// ModeDefault paints tile indices directly
	ModeDefault Mode = iota
	// ModeAutoTiles paints through the layer's selected auto-tile layout
	ModeAutoTiles
)

func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeAutoTiles:
		return "autotiles"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}
