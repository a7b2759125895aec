package platform

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/google/shlex"
	"github.com/rotisserie/eris"
)

// ExecuteCommand runs a command line and waits for it. A command that ran
// and exited non-zero is not an error; its exit code is returned instead.
func ExecuteCommand(ctx context.Context, commandLine string) (int, error) {
	args, err := shlex.Split(commandLine)
	if err != nil {
		return -1, eris.Wrapf(err, "failed to parse the command \"%s\"", commandLine)
	}
	if len(args) == 0 {
		return -1, eris.New("the command is empty")
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, eris.Wrapf(err, "failed to execute \"%s\"", commandLine)
	}
	return 0, nil
}

// GetEnvironmentVariable fails for keys that aren't set.
func GetEnvironmentVariable(key string) (string, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", eris.Errorf("the environment variable \"%s\" is not set", key)
	}
	return value, nil
}
