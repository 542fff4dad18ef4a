// Package mcp connects to Model Context Protocol servers started as
// subprocesses and calls their tools.
package mcp

import (
	"context"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"github.com/m4xw311/prompter/config"
	"github.com/m4xw311/prompter/errors"
	"github.com/m4xw311/prompter/logging"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Client manages the connection to a single MCP server subprocess.
type Client struct {
	Name  string
	cmd   *exec.Cmd
	conn  *mcpsdk.ClientSession
	tools map[string]string // tool name to description
}

// NewClient starts the MCP server subprocess, connects to it and discovers
// its tools.
func NewClient(ctx context.Context, name, command string, args []string) (*Client, error) {
	cmd := exec.Command(command, args...)
	cmd.Stderr = os.Stderr
	mcpClient := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "prompter", Version: "v1.0.0"}, nil)
	conn, err := mcpClient.Connect(ctx, mcpsdk.NewCommandTransport(cmd))
	if err != nil {
		kill(cmd)
		return nil, errors.Wrapf(err, "failed to connect to MCP server '%s'", name)
	}

	client := &Client{
		Name:  name,
		cmd:   cmd,
		conn:  conn,
		tools: make(map[string]string),
	}
	toolListParams := &mcpsdk.ListToolsParams{}
	for {
		toolList, err := conn.ListTools(ctx, toolListParams)
		if err != nil {
			conn.Close()
			kill(cmd)
			return nil, errors.Wrapf(err, "failed to list tools from MCP server '%s'", name)
		}
		for _, t := range toolList.Tools {
			client.tools[t.Name] = t.Description
		}
		if toolList.NextCursor == "" {
			break
		}
		toolListParams.Cursor = toolList.NextCursor
	}

	logging.L().Infow("mcp client initialized", "server", name, "tools", len(client.tools))
	return client, nil
}

// Tools returns the tool names sorted alphabetically.
func (c *Client) Tools() []string {
	names := make([]string, 0, len(c.tools))
	for n := range c.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Call invokes a tool and concatenates its text content.
func (c *Client) Call(ctx context.Context, tool string, args map[string]any) (string, error) {
	if _, ok := c.tools[tool]; !ok {
		return "", errors.New("server '%s' has no tool '%s'", c.Name, tool)
	}
	result, err := c.conn.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      tool,
		Arguments: args,
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to call tool '%s'", tool)
	}

	var out strings.Builder
	for _, content := range result.Content {
		if text, ok := content.(*mcpsdk.TextContent); ok {
			out.WriteString(text.Text)
		}
	}
	if result.IsError {
		return "", errors.New("tool '%s' failed: %s", tool, out.String())
	}
	return out.String(), nil
}

// Close terminates the MCP server subprocess.
func (c *Client) Close() error {
	if c.conn != nil {
		c.conn.Close()
	}
	logging.L().Infow("terminating mcp server", "server", c.Name)
	return kill(c.cmd)
}

func kill(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

// Manager starts configured servers on first use and keeps them running
// until Close.
type Manager struct {
	cfg     *config.Config
	connect func(ctx context.Context, srv config.MCPServer) (*Client, error)

	mu      sync.Mutex
	clients map[string]*Client
}

func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		cfg: cfg,
		connect: func(ctx context.Context, srv config.MCPServer) (*Client, error) {
			return NewClient(ctx, srv.Name, srv.Command, srv.Args)
		},
		clients: make(map[string]*Client),
	}
}

// Servers returns the configured server names.
func (m *Manager) Servers() []string {
	names := make([]string, 0, len(m.cfg.MCPServers))
	for _, s := range m.cfg.MCPServers {
		names = append(names, s.Name)
	}
	return names
}

// ListTools returns the tools of the named server, starting it if needed.
func (m *Manager) ListTools(ctx context.Context, server string) ([]string, error) {
	c, err := m.client(ctx, server)
	if err != nil {
		return nil, err
	}
	return c.Tools(), nil
}

// Call invokes tool on the named server, starting it if needed.
func (m *Manager) Call(ctx context.Context, server, tool string, args map[string]any) (string, error) {
	c, err := m.client(ctx, server)
	if err != nil {
		return "", err
	}
	return c.Call(ctx, tool, args)
}

// Close stops every server that was started.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for name, c := range m.clients {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "failed to stop MCP server '%s'", name)
		}
		delete(m.clients, name)
	}
	return firstErr
}

func (m *Manager) client(ctx context.Context, name string) (*Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.clients[name]; ok {
		return c, nil
	}
	srv, ok := m.cfg.GetMCPServer(name)
	if !ok {
		return nil, errors.New("MCP server '%s' is not configured", name)
	}
	c, err := m.connect(ctx, *srv)
	if err != nil {
		return nil, err
	}
	m.clients[name] = c
	return c, nil
}
