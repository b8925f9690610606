// Package shell runs the external compiler driver.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/fmagic/internal/core/domain"
	"go.trai.ch/zerr"
)

// Invoker implements ports.ToolInvoker using os/exec with captured output.
type Invoker struct{}

// NewInvoker creates a new Invoker.
func NewInvoker() *Invoker {
	return &Invoker{}
}

// Run executes the invocation, buffering its output and flushing it
// according to the invocation's display policy.
func (i *Invoker) Run(ctx context.Context, inv domain.Invocation) (int, error) {
	stdout := writerOrDiscard(inv.Stdout)
	stderr := writerOrDiscard(inv.Stderr)

	if len(inv.Command) == 0 {
		return domain.LaunchFailed, zerr.New("empty command")
	}

	if inv.Policy.Verbosity > 1 {
		_, _ = fmt.Fprintf(stdout, "Running...\n   %s\n", strings.Join(inv.Command, " "))
	}

	name := inv.Command[0]
	env := resolveEnvironment(os.Environ(), withWorkDir(inv.Env, inv.Dir))

	executable, err := resolveExecutable(name, inv.Dir, env)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Couldn't find program: '%s'\n", name)
		return domain.LaunchFailed, nil
	}

	cmd := exec.CommandContext(ctx, executable, inv.Command[1:]...) //nolint:gosec // driver argv is built by the resolver
	cmd.Args[0] = name
	cmd.Dir = inv.Dir
	cmd.Env = env

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	exitCode := 0
	runErr := cmd.Run()
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			flush(stdout, stderr, &outBuf, &errBuf)
			return domain.LaunchFailed, zerr.With(zerr.Wrap(runErr, "failed to start driver"), "program", name)
		}
		exitCode = exitErr.ExitCode()
	}

	if inv.Policy.Show(exitCode) {
		flush(stdout, stderr, &outBuf, &errBuf)
	}

	if ctxErr := ctx.Err(); ctxErr != nil && exitCode != 0 {
		return exitCode, zerr.Wrap(ctxErr, "driver interrupted")
	}
	return exitCode, nil
}

// flush writes captured stderr before captured stdout.
func flush(stdout, stderr io.Writer, outBuf, errBuf *bytes.Buffer) {
	if errBuf.Len() > 0 {
		_, _ = stderr.Write(errBuf.Bytes())
	}
	if outBuf.Len() > 0 {
		_, _ = stdout.Write(outBuf.Bytes())
	}
}

// withWorkDir points PWD at the working directory of the child.
func withWorkDir(env map[string]string, dir string) map[string]string {
	if dir == "" {
		return env
	}
	out := make(map[string]string, len(env)+1)
	for k, v := range env {
		out[k] = v
	}
	out["PWD"] = dir
	return out
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// resolveEnvironment overlays overrides on the inherited environment.
// The result is sorted so invocations are reproducible.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// resolveExecutable finds the program to run. Names containing a path
// separator are checked directly, relative ones against the working
// directory of the child; bare names are searched in PATH.
func resolveExecutable(name, dir string, env []string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		path := name
		if !filepath.IsAbs(path) && dir != "" {
			path = filepath.Join(dir, path)
		}
		if err := findExecutable(path); err != nil {
			return "", err
		}
		return path, nil
	}
	return lookPath(name, env)
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
