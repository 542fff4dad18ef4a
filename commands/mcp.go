package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/m4xw311/prompter/errors"
)

// ToolCaller calls tools on named MCP servers.
type ToolCaller interface {
	Servers() []string
	ListTools(ctx context.Context, server string) ([]string, error)
	Call(ctx context.Context, server, tool string, args map[string]any) (string, error)
}

// MCPCommand lists or calls tools of configured MCP servers.
type MCPCommand struct {
	caller ToolCaller
}

func (c *MCPCommand) Name() string { return "mcp" }
func (c *MCPCommand) Description() string {
	return "Call an MCP tool. Args: [server [tool [json-args]]]."
}

// ExecuteRaw keeps the JSON arguments exactly as typed.
func (c *MCPCommand) ExecuteRaw(ctx context.Context, rest string) (string, error) {
	server, rest := cutWord(rest)
	tool, rawArgs := cutWord(rest)
	switch {
	case server == "":
		return c.Execute(ctx, nil)
	case tool == "":
		return c.Execute(ctx, []string{server})
	}
	return c.call(ctx, server, tool, rawArgs)
}

func (c *MCPCommand) Execute(ctx context.Context, args []string) (string, error) {
	switch len(args) {
	case 0:
		servers := c.caller.Servers()
		if len(servers) == 0 {
			return "No MCP servers configured.", nil
		}
		return "MCP servers: " + strings.Join(servers, ", "), nil
	case 1:
		tools, err := c.caller.ListTools(ctx, args[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Tools on '%s': %s", args[0], strings.Join(tools, ", ")), nil
	}

	return c.call(ctx, args[0], args[1], strings.Join(args[2:], " "))
}

func (c *MCPCommand) call(ctx context.Context, server, tool, rawArgs string) (string, error) {
	toolArgs, err := parseToolArgs(rawArgs)
	if err != nil {
		return "", err
	}
	return c.caller.Call(ctx, server, tool, toolArgs)
}

// parseToolArgs decodes a JSON object. Empty input yields an empty map.
func parseToolArgs(raw string) (map[string]any, error) {
	args := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, errors.Wrapf(err, "tool arguments must be a JSON object")
	}
	return args, nil
}
