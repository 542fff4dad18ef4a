package config

import (
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/m4xw311/prompter/errors"
	"gopkg.in/yaml.v3"
)

// DirName is the per-user and per-project configuration directory.
const DirName = ".prompter"

type FilesystemAccess struct {
	Hidden []string `yaml:"hidden"`
}

type MCPServer struct {
	Name    string   `yaml:"name"`
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

type Config struct {
	LLMClient        string           `yaml:"llm"`
	Model            string           `yaml:"model"`
	SystemPrompt     string           `yaml:"system_prompt"`
	CommandPrefixes  []string         `yaml:"command_prefixes"`
	AllowedCommands  []string         `yaml:"allowed_commands"`
	FilesystemAccess FilesystemAccess `yaml:"filesystem_access"`
	MCPServers       []MCPServer      `yaml:"mcp_servers"`
	LogLevel         string           `yaml:"log_level"`
	HistoryFile      string           `yaml:"history_file"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		CommandPrefixes: []string{":"},
		FilesystemAccess: FilesystemAccess{
			Hidden: []string{DirName, DirName + "/**"},
		},
	}
}

// LoadConfig loads configuration from the user's home directory and the current
// working directory, with the latter taking precedence.
func LoadConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrapf(err, "could not get working directory")
	}
	return LoadFrom(home, wd)
}

// LoadFrom loads <home>/.prompter/config.yaml and then
// <project>/.prompter/config.yaml on top of the defaults. Missing files are
// skipped; an empty home is ignored.
func LoadFrom(home, project string) (*Config, error) {
	cfg := Default()

	if home != "" {
		userConfigPath := filepath.Join(home, DirName, "config.yaml")
		if _, err := os.Stat(userConfigPath); err == nil {
			if err := loadFromFile(userConfigPath, cfg); err != nil {
				return nil, errors.Wrapf(err, "error loading user config")
			}
		}
	}

	projectConfigPath := filepath.Join(project, DirName, "config.yaml")
	if _, err := os.Stat(projectConfigPath); err == nil {
		if err := loadFromFile(projectConfigPath, cfg); err != nil {
			return nil, errors.Wrapf(err, "error loading project config")
		}
	}

	if _, err := cfg.Prefixes(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// Fields present in the file replace earlier values, lists included.
	return yaml.Unmarshal(data, cfg)
}

// Prefixes converts CommandPrefixes to runes. Each entry must be exactly one
// character. An empty list yields the default ":".
func (c *Config) Prefixes() ([]rune, error) {
	if len(c.CommandPrefixes) == 0 {
		return []rune{':'}, nil
	}
	out := make([]rune, 0, len(c.CommandPrefixes))
	for _, p := range c.CommandPrefixes {
		if utf8.RuneCountInString(p) != 1 {
			return nil, errors.New("command prefix %q must be a single character", p)
		}
		r, _ := utf8.DecodeRuneInString(p)
		out = append(out, r)
	}
	return out, nil
}

// GetMCPServer finds an MCP server definition by name.
func (c *Config) GetMCPServer(name string) (*MCPServer, bool) {
	for i := range c.MCPServers {
		if c.MCPServers[i].Name == name {
			return &c.MCPServers[i], true
		}
	}
	return nil, false
}
