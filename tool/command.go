/*
Copyright 2026 The Flux authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package tool

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/fluxcd/pkg/envsubst"
	"github.com/go-logr/logr"
	"github.com/google/shlex"

	rslerrors "github.com/fluxcd/rsl/errors"
	"github.com/fluxcd/rsl/logger"
)

const (
	// DefaultOptimizerCommand is the command line of the optimizer when none
	// is configured.
	DefaultOptimizerCommand = "optimizer -input ${input} -output ${output}"

	// DefaultDigestCommand is the command line of the digest tool when none
	// is configured.
	DefaultDigestCommand = "digest -digest.rsl-file ${payload} -digest.swc-path ${archive} -digest.signed=${signed}"

	// stderrTail is the number of trailing stderr bytes kept for errors.
	stderrTail = 4096
)

// Command is an external program invocation. Arguments may reference
// variables in the form of '${name}', which are substituted on every Run.
type Command struct {
	// Name identifies the tool in logs and errors.
	Name string
	// Path is the program to execute, looked up in PATH if it has no separator.
	Path string
	// Args are passed to the program after substitution.
	Args []string
	// Env is appended to the environment of the current process.
	Env []string
	// Dir is the working directory of the process.
	Dir string
	// Timeout bounds a single run, zero means no limit.
	Timeout time.Duration
	// Logger receives the tool output at debug level.
	Logger logr.Logger
}

// ParseCommand splits a shell-like command line into a Command.
func ParseCommand(name, cmdline string) (*Command, error) {
	parts, err := shlex.Split(cmdline)
	if err != nil {
		return nil, fmt.Errorf("invalid %s command '%s': %w", name, cmdline, err)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%s command is empty", name)
	}
	return &Command{
		Name:   name,
		Path:   parts[0],
		Args:   parts[1:],
		Logger: logr.Discard(),
	}, nil
}

// Expand returns the arguments with the given variables substituted.
func (c *Command) Expand(vars map[string]string) ([]string, error) {
	mapping := func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
	args := make([]string, 0, len(c.Args))
	for _, arg := range c.Args {
		v, err := envsubst.Eval(arg, mapping)
		if err != nil {
			return nil, fmt.Errorf("failed to expand argument '%s': %w", arg, err)
		}
		args = append(args, v)
	}
	return args, nil
}

// Run executes the command and waits for it to exit. A non-zero exit status,
// or a failure to start the process, is returned as an
// *errors.ExternalToolError.
func (c *Command) Run(ctx context.Context, vars map[string]string) error {
	args, err := c.Expand(vars)
	if err != nil {
		return &rslerrors.ExternalToolError{Tool: c.Name, ExitCode: -1, Err: err}
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log := c.Logger.WithValues("tool", c.Name)
	log.V(logger.DebugLevel).Info("running external tool", "path", c.Path, "args", args)

	start := time.Now()
	runErr := cmd.Run()
	logOutput(log, "stdout", stdout.Bytes())
	logOutput(log, "stderr", stderr.Bytes())

	if runErr == nil {
		log.V(logger.DebugLevel).Info("external tool finished", "duration", time.Since(start).String())
		return nil
	}

	toolErr := &rslerrors.ExternalToolError{
		Tool:     c.Name,
		ExitCode: -1,
		Stderr:   tail(stderr.Bytes(), stderrTail),
	}
	var exitErr *exec.ExitError
	switch {
	case ctx.Err() != nil:
		toolErr.Err = ctx.Err()
		if cmd.ProcessState != nil {
			toolErr.ExitCode = cmd.ProcessState.ExitCode()
		}
	case errors.As(runErr, &exitErr):
		toolErr.ExitCode = exitErr.ExitCode()
	default:
		toolErr.Err = runErr
	}
	return toolErr
}

// logOutput logs every non-empty line of the tool output.
func logOutput(log logr.Logger, stream string, out []byte) {
	if !log.V(logger.DebugLevel).Enabled() {
		return
	}
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			log.V(logger.DebugLevel).Info(line, "stream", stream)
		}
	}
}

// tail returns at most the last n bytes of b, trimmed of surrounding space.
func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return strings.TrimSpace(string(b))
}

// CommandOptimizer is an Optimizer backed by an external program. The
// command line may reference ${input} and ${output}.
type CommandOptimizer struct {
	Command *Command
}

// NewCommandOptimizer returns an Optimizer running the given command line.
func NewCommandOptimizer(cmdline string, timeout time.Duration, log logr.Logger) (*CommandOptimizer, error) {
	if strings.TrimSpace(cmdline) == "" {
		cmdline = DefaultOptimizerCommand
	}
	c, err := ParseCommand("optimizer", cmdline)
	if err != nil {
		return nil, err
	}
	c.Timeout = timeout
	c.Logger = log
	return &CommandOptimizer{Command: c}, nil
}

// Optimize removes any existing output, runs the optimizer and checks that
// it wrote output.
func (o *CommandOptimizer) Optimize(ctx context.Context, input, output string) error {
	if err := os.Remove(output); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &rslerrors.ExternalToolError{Tool: o.Command.Name, ExitCode: -1, Err: err}
	}
	err := o.Command.Run(ctx, map[string]string{
		"input":  input,
		"output": output,
	})
	if err != nil {
		return err
	}
	if fi, err := os.Stat(output); err != nil || !fi.Mode().IsRegular() {
		return &rslerrors.ExternalToolError{
			Tool:     o.Command.Name,
			ExitCode: 0,
			Err:      fmt.Errorf("output '%s' was not written", output),
		}
	}
	return nil
}

// CommandDigester is a Digester backed by an external program. The command
// line may reference ${archive}, ${payload} and ${signed}.
type CommandDigester struct {
	Command *Command
}

// NewCommandDigester returns a Digester running the given command line.
func NewCommandDigester(cmdline string, timeout time.Duration, log logr.Logger) (*CommandDigester, error) {
	if strings.TrimSpace(cmdline) == "" {
		cmdline = DefaultDigestCommand
	}
	c, err := ParseCommand("digest", cmdline)
	if err != nil {
		return nil, err
	}
	c.Timeout = timeout
	c.Logger = log
	return &CommandDigester{Command: c}, nil
}

// Digest runs the digest tool against the request.
func (d *CommandDigester) Digest(ctx context.Context, req DigestRequest) error {
	return d.Command.Run(ctx, map[string]string{
		"archive": req.Archive,
		"payload": req.Payload,
		"signed":  strconv.FormatBool(req.Signed),
	})
}
