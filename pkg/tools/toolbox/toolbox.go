package toolbox

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// UnknownToolError is returned by [ToolBox.Call] for a name nothing is
// registered under.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %q", e.Name)
}

// ToolBox is a named collection of tools. Register everything before the box
// is shared; lookups are then safe for concurrent use.
type ToolBox struct {
	tools map[string]Tool
}

// New creates a new ToolBox holding tools.
func New(tools ...Tool) *ToolBox {
	tb := &ToolBox{
		tools: make(map[string]Tool, len(tools)),
	}
	tb.Register(tools...)
	return tb
}

// Register adds one or more tools to the ToolBox. If a tool with the same name
// already exists, it is replaced.
func (tb *ToolBox) Register(tools ...Tool) {
	for _, t := range tools {
		tb.tools[t.Name] = t
	}
}

// Get returns a tool by name and a boolean indicating whether it was found.
func (tb *ToolBox) Get(name string) (Tool, bool) {
	t, ok := tb.tools[name]
	return t, ok
}

// Tools returns all registered tools ordered by name.
func (tb *ToolBox) Tools() []Tool {
	result := make([]Tool, 0, len(tb.tools))
	for _, t := range tb.tools {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Call runs the tool registered under name with args. An unknown name yields
// an *UnknownToolError; handler errors are returned unchanged.
func (tb *ToolBox) Call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	t, ok := tb.tools[name]
	if !ok {
		return "", &UnknownToolError{Name: name}
	}

	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	return t.Handler(ctx, args)
}
