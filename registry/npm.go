package registry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/nulifyer/pkgpilot/logger"
)

// Runner executes a command and returns its stdout. Replaced in tests.
type Runner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// ExecRunner runs the command with os/exec, folding stderr into the error.
func ExecRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%s %s: %w\n%s", name, strings.Join(args, " "), err, msg)
		}
		return nil, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return stdout.Bytes(), nil
}

// NpmClient shells out to `npm view`.
type NpmClient struct {
	Command string // defaults to "npm"
	Dir     string // working directory, so project .npmrc applies
	Detail  Detail
	Run     Runner
}

func NewNpmClient(command, dir string, detail Detail) *NpmClient {
	if command == "" {
		command = "npm"
	}
	return &NpmClient{Command: command, Dir: dir, Detail: detail, Run: ExecRunner}
}

func (c *NpmClient) Lookup(ctx context.Context, name string) (*Metadata, error) {
	if strings.TrimSpace(name) == "" {
		return nil, lookupErr(name, "empty package name")
	}
	// Manifest keys are untrusted; never let one be read as an npm flag.
	if strings.HasPrefix(name, "-") {
		return nil, lookupErr(name, "invalid package name")
	}
	run := c.Run
	if run == nil {
		run = ExecRunner
	}

	args := []string{"view", "--json", "--", name}
	if c.Detail == DetailDescription {
		args = []string{"view", "--", name, "description"}
	}
	logger.Debug("Running %s %s", c.Command, strings.Join(args, " "))

	out, err := run(ctx, c.Dir, c.Command, args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &LookupError{Package: name, Err: fmt.Errorf("timed out: %w (%v)", ctx.Err(), err)}
		}
		return nil, &LookupError{Package: name, Err: err}
	}

	if c.Detail == DetailDescription {
		return &Metadata{Name: name, Description: strings.TrimSpace(string(out))}, nil
	}
	return decodeRecord(name, out)
}
