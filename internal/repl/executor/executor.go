// Package executor provides command execution for the chronosh REPL using
// mvdan/sh, managing environment variables and working directory state.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// threadSafeBuffer provides a thread-safe wrapper around bytes.Buffer
type threadSafeBuffer struct {
	buffer bytes.Buffer
	mutex  sync.Mutex
}

// Write implements io.Writer interface
func (b *threadSafeBuffer) Write(p []byte) (n int, err error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.Write(p)
}

// String returns the contents of the buffer as a string
func (b *threadSafeBuffer) String() string {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.String()
}

// ExecMiddleware is a function that wraps an ExecHandlerFunc to provide
// additional functionality (e.g., timing instrumentation).
type ExecMiddleware = func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc

// REPLExecutor handles command execution for the REPL using mvdan/sh.
type REPLExecutor struct {
	runner    *interp.Runner
	logger    *zap.Logger
	varsMutex sync.RWMutex // Protects concurrent access to runner.Vars
}

// NewREPLExecutor creates a new REPLExecutor.
// The logger is optional (can be nil).
// The execHandlers are optional middleware for intercepting command
// execution (e.g., the timing instrumentation hook).
func NewREPLExecutor(logger *zap.Logger, execHandlers ...ExecMiddleware) (*REPLExecutor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	env := expand.ListEnviron(os.Environ()...)

	runner, err := interp.New(
		interp.Interactive(true),
		interp.Env(env),
		interp.StdIO(os.Stdin, os.Stdout, os.Stderr),
		interp.ExecHandlers(execHandlers...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bash runner: %w", err)
	}

	return &REPLExecutor{
		runner: runner,
		logger: logger,
	}, nil
}

// ExecuteBash runs a bash command with output going to stdout/stderr.
// Returns the exit code and any execution error.
func (e *REPLExecutor) ExecuteBash(ctx context.Context, command string) (int, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return 1, fmt.Errorf("failed to parse bash command: %w", err)
	}

	err = e.runner.Run(ctx, prog)
	if err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return int(exitStatus), nil
		}
		return 1, err
	}

	return 0, nil
}

// ExecuteBashInSubshell runs a bash command in a subshell, capturing output.
// Returns stdout, stderr, exit code, and any execution error.
func (e *REPLExecutor) ExecuteBashInSubshell(ctx context.Context, command string) (string, string, int, error) {
	subShell := e.runner.Subshell()

	outBuf := &threadSafeBuffer{}
	errBuf := &threadSafeBuffer{}
	interp.StdIO(nil, io.Writer(outBuf), io.Writer(errBuf))(subShell) //nolint:errcheck

	var prog *syntax.Stmt
	err := syntax.NewParser().Stmts(strings.NewReader(command), func(stmt *syntax.Stmt) bool {
		prog = stmt
		return false
	})
	if err != nil {
		return "", "", 1, fmt.Errorf("failed to parse bash command: %w", err)
	}

	if prog == nil {
		return "", "", 0, nil
	}

	err = subShell.Run(ctx, prog)

	exitCode := 0
	if err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			exitCode = int(exitStatus)
			// Non-zero exit code is not an execution error, just return the code
			return outBuf.String(), errBuf.String(), exitCode, nil
		}
		// Real execution error (parse error, etc.)
		return outBuf.String(), errBuf.String(), 1, err
	}

	return outBuf.String(), errBuf.String(), exitCode, nil
}

// GetEnv gets an environment variable value.
// This reads from the runner's Vars map, which is populated during command execution.
func (e *REPLExecutor) GetEnv(name string) string {
	e.varsMutex.RLock()
	defer e.varsMutex.RUnlock()
	if e.runner.Vars == nil {
		return ""
	}
	return e.runner.Vars[name].String()
}

// SetEnv sets an environment variable directly in the runner's Vars map.
// For variables that need to be available in subshells, use ExecuteBash with export.
func (e *REPLExecutor) SetEnv(name, value string) {
	e.varsMutex.Lock()
	defer e.varsMutex.Unlock()
	if e.runner.Vars == nil {
		e.runner.Vars = make(map[string]expand.Variable)
	}
	e.runner.Vars[name] = expand.Variable{
		Exported: true,
		Kind:     expand.String,
		Str:      value,
	}
}

// GetPwd returns the current working directory.
func (e *REPLExecutor) GetPwd() string {
	return e.runner.Dir
}

// Runner returns the underlying mvdan/sh runner.
// This is useful for advanced use cases that need direct access.
func (e *REPLExecutor) Runner() *interp.Runner {
	return e.runner
}

// RunBashScriptFromReader runs a bash script from an io.Reader.
func (e *REPLExecutor) RunBashScriptFromReader(ctx context.Context, reader io.Reader, name string) error {
	prog, err := syntax.NewParser().Parse(reader, name)
	if err != nil {
		return err
	}
	return e.runner.Run(ctx, prog)
}

// RunBashScriptFromFile runs a bash script from a file.
func (e *REPLExecutor) RunBashScriptFromFile(ctx context.Context, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()
	return e.RunBashScriptFromReader(ctx, f, filePath)
}
