// Package cmdexec executes external processes synchronously. A failed
// invocation is never retried here: infrastructure mutations must not be
// attempted twice without the operator noticing.
package cmdexec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

type Error struct {
	Cmd      string
	Args     []string
	Dir      string
	ExitCode int
	Stderr   string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("(in %s) %s %s", e.Dir, e.Cmd, strings.Join(e.Args, " "))
	if e.Stderr != "" {
		return fmt.Sprintf("%s: exit %d\n%s", msg, e.ExitCode, strings.TrimSpace(e.Stderr))
	}
	return fmt.Sprintf("%s: exit %d", msg, e.ExitCode)
}

// Output runs the command and returns its stdout. Stderr is captured and
// included in the returned error on nonzero exit.
func Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	if !filepath.IsAbs(dir) {
		return "", errors.Newf("cmdexec: dir must be absolute, got %q", dir)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", wrapErr(dir, name, args, err, stderr.String())
	}
	return string(out), nil
}

// Run runs the command with the operator's terminal attached, so the child
// process output (plan diffs, apply progress) is visible as it happens.
func Run(ctx context.Context, dir, name string, args ...string) error {
	if !filepath.IsAbs(dir) {
		return errors.Newf("cmdexec: dir must be absolute, got %q", dir)
	}

	var stderrBuf bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = io.MultiWriter(os.Stderr, &stderrBuf)

	if err := cmd.Run(); err != nil {
		return wrapErr(dir, name, args, err, stderrBuf.String())
	}
	return nil
}

// RunQuiet runs the command with its stdout and stderr kept off the
// operator's terminal. Used for noisy bookkeeping calls; stderr is still
// captured for the error on nonzero exit.
func RunQuiet(ctx context.Context, dir, name string, args ...string) error {
	if !filepath.IsAbs(dir) {
		return errors.Newf("cmdexec: dir must be absolute, got %q", dir)
	}

	var stderrBuf bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		return wrapErr(dir, name, args, err, stderrBuf.String())
	}
	return nil
}

func wrapErr(dir, name string, args []string, err error, stderr string) error {
	exitCode := 1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
		if stderr == "" {
			stderr = string(exitErr.Stderr)
		}
	}
	return &Error{
		Cmd:      name,
		Args:     args,
		Dir:      dir,
		ExitCode: exitCode,
		Stderr:   stderr,
	}
}
