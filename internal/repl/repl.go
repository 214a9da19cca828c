// Package repl implements the interactive chronosh shell loop: prompt
// rendering through the middleware chain, command execution through the
// instrumented executor, and the builtin `timing` command surface.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chronosh/chronosh/internal/config"
	"github.com/chronosh/chronosh/internal/history"
	"github.com/chronosh/chronosh/internal/instrument"
	"github.com/chronosh/chronosh/internal/repl/executor"
	"github.com/chronosh/chronosh/internal/styles"
)

// Executor is the slice of the command executor the REPL needs.
type Executor interface {
	ExecuteBash(ctx context.Context, command string) (int, error)
	GetPwd() string
}

// Options configures a new REPL.
type Options struct {
	Logger *zap.Logger

	// ConfigPath points at the YAML config file; a missing file falls
	// back to defaults.
	ConfigPath string

	// HistoryPath points at the sqlite history database. Empty disables
	// persistence regardless of configuration.
	HistoryPath string

	// BuildVersion is shown on the welcome screen.
	BuildVersion string

	// RCFiles are startup scripts sourced by the default executor before
	// the first prompt. Missing files are skipped.
	RCFiles []string

	// Input and Output default to stdin/stdout. Overridable for tests.
	Input  io.Reader
	Output io.Writer

	// Executor overrides the default mvdan/sh executor. When set, the
	// caller is responsible for wiring the session's exec middleware.
	Executor Executor
}

// REPL is the interactive shell.
type REPL struct {
	logger       *zap.Logger
	config       *config.Config
	executor     Executor
	historyMgr   *history.HistoryManager
	session      *instrument.Session
	prompts      *instrument.PromptChain
	reader       *bufio.Reader
	out          io.Writer
	buildVersion string
}

// NewREPL creates a REPL from the given options.
func NewREPL(opts Options) (*REPL, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	in := opts.Input
	if in == nil {
		in = os.Stdin
	}

	var recorder instrument.Recorder
	var historyMgr *history.HistoryManager
	if cfg.History && opts.HistoryPath != "" {
		historyMgr, err = history.NewHistoryManager(opts.HistoryPath)
		if err != nil {
			// Persistence is best effort: degrade to memory-only stats.
			logger.Warn("failed to open history database", zap.Error(err))
			historyMgr = nil
		} else {
			recorder = historyMgr
		}
	}

	session := instrument.NewSession(instrument.Options{
		Logger:              logger,
		Recorder:            recorder,
		Output:              out,
		SeriesCapacity:      cfg.Timing.SeriesCapacity,
		SlowThreshold:       time.Duration(cfg.Timing.SlowThresholdMs) * time.Millisecond,
		SuspiciousThreshold: time.Duration(cfg.Timing.SuspiciousThresholdMs) * time.Millisecond,
		MaxCommandDepth:     cfg.Timing.MaxCommandDepth,
		Exclude:             append(instrument.DefaultExclusions, cfg.Timing.Exclude...),
	})

	exec := opts.Executor
	if exec == nil {
		replExec, execErr := executor.NewREPLExecutor(logger, session.ExecMiddleware)
		if execErr != nil {
			return nil, fmt.Errorf("failed to initialize executor: %w", execErr)
		}
		for _, rcFile := range opts.RCFiles {
			if stat, statErr := os.Stat(rcFile); statErr == nil && stat.Size() > 0 {
				if rcErr := replExec.RunBashScriptFromFile(context.Background(), rcFile); rcErr != nil {
					fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", rcFile, rcErr)
				}
			}
		}
		exec = replExec
	}

	prompts := instrument.NewPromptChain(basePrompt(cfg, exec))
	prompts.Use(session.PromptMiddleware())

	return &REPL{
		logger:       logger,
		config:       cfg,
		executor:     exec,
		historyMgr:   historyMgr,
		session:      session,
		prompts:      prompts,
		reader:       bufio.NewReader(in),
		out:          out,
		buildVersion: opts.BuildVersion,
	}, nil
}

// basePrompt returns the terminal renderer of the prompt chain: the
// configured prompt text prefixed with the working directory basename.
func basePrompt(cfg *config.Config, exec Executor) instrument.PromptFunc {
	return func() string {
		pwd := exec.GetPwd()
		if idx := strings.LastIndex(pwd, "/"); idx >= 0 && idx < len(pwd)-1 {
			pwd = pwd[idx+1:]
		}
		if pwd == "" {
			return cfg.Prompt
		}
		return pwd + " " + cfg.Prompt
	}
}

// Run starts the interactive loop. It returns nil when the user exits.
func (r *REPL) Run(ctx context.Context) error {
	r.showWelcomeScreen()

	for {
		fmt.Fprint(r.out, r.prompts.Render())

		line, readErr := r.reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("failed to read input: %w", readErr)
		}

		input := strings.TrimSpace(line)
		if input != "" {
			handled, cmdErr := r.handleBuiltinCommand(input)
			if errors.Is(cmdErr, ErrExit) {
				return nil
			}
			if !handled {
				exitCode, execErr := r.executor.ExecuteBash(ctx, input)
				if execErr != nil {
					fmt.Fprintln(os.Stderr, styles.ERROR(fmt.Sprintf("chronosh: %v", execErr)))
				}
				r.session.SetLastExitCode(exitCode)
			}
		}

		if errors.Is(readErr, io.EOF) {
			fmt.Fprintln(r.out)
			return nil
		}
	}
}

// Config returns the loaded configuration.
func (r *REPL) Config() *config.Config {
	return r.config
}

// Session returns the instrumentation session.
func (r *REPL) Session() *instrument.Session {
	return r.session
}

// PromptChain returns the prompt middleware chain. Prompt themes use it to
// re-point the base renderer via SetBase.
func (r *REPL) PromptChain() *instrument.PromptChain {
	return r.prompts
}

// History returns the history manager, or nil when persistence is off.
func (r *REPL) History() *history.HistoryManager {
	return r.historyMgr
}

// Close releases resources held by the REPL.
func (r *REPL) Close() error {
	return nil
}
