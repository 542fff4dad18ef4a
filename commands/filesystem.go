package commands

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m4xw311/prompter/config"
	"github.com/m4xw311/prompter/errors"
)

// ReadFileCommand prints a file unless it matches a hidden pattern.
type ReadFileCommand struct {
	fsAccess *config.FilesystemAccess
}

func (c *ReadFileCommand) Name() string { return "read" }
func (c *ReadFileCommand) Description() string {
	return "Print the content of a file. Args: path."
}

func (c *ReadFileCommand) Execute(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("usage: read <path>")
	}
	path := filepath.Clean(args[0])

	hidden, err := isPathRestricted(filepath.ToSlash(path), c.fsAccess.Hidden)
	if err != nil {
		return "", err
	}
	if hidden {
		return "", errors.New("access denied: path '%s' is hidden", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read file '%s'", path)
	}
	return string(content), nil
}
