// Package tools provides the tool registry and its MCP (Model Context
// Protocol) server front end.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/askllm/pkg/tools/toolbox]: Tool type and ToolBox for registering, listing and calling tools by name
//   - [github.com/germanamz/askllm/pkg/tools/mcpserver]: MCP server over stdio using the official MCP Go SDK
//
// The toolbox sub-package is the foundation layer; mcpserver depends on it
// for the Tool type and is a thin wrapper around
// github.com/modelcontextprotocol/go-sdk.
package tools
