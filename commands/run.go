package commands

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/m4xw311/prompter/errors"
)

// RunCommand executes a program whose name matches an allowlist glob.
type RunCommand struct {
	allowedCommands []string
}

func (c *RunCommand) Name() string { return "run" }
func (c *RunCommand) Description() string {
	if len(c.allowedCommands) == 0 {
		return "Run a program. No programs are currently allowed."
	}
	return fmt.Sprintf("Run a program. Allowed: %s.", strings.Join(c.allowedCommands, ", "))
}

func (c *RunCommand) Execute(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("usage: run <program> [args...]")
	}

	allowed, err := isProgramAllowed(args[0], c.allowedCommands)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", errors.New("program '%s' is not in the list of allowed commands", args[0])
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", errors.Wrapf(err, "command execution failed. Output:\n%s", string(output))
	}
	return strings.TrimRight(string(output), "\n"), nil
}
