package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"
	"mvdan.cc/sh/v3/interp"

	"github.com/chronosh/chronosh/internal/appupdate"
	"github.com/chronosh/chronosh/internal/core"
	"github.com/chronosh/chronosh/internal/environment"
	"github.com/chronosh/chronosh/internal/filesystem"
	"github.com/chronosh/chronosh/internal/repl"
	"github.com/chronosh/chronosh/internal/repl/executor"
)

var BUILD_VERSION = "dev"

var command = flag.String("c", "", "run a command")
var loginShell = flag.Bool("l", false, "run as a login shell")

var helpFlag = flag.Bool("h", false, "display help information")
var versionFlag = flag.Bool("ver", false, "display build version")

const helpText = `chronosh - A shell that times every command you run

USAGE:
  chronosh [options] [script.sh] [args...]

MODES:
  chronosh                Start an interactive shell with command timing
  chronosh -l             Start as a login shell
  chronosh script.sh      Execute a bash script file
  chronosh -c "command"   Execute a shell command

In interactive mode, run 'timing' to inspect per-command statistics.

OPTIONS:
`

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Println(BUILD_VERSION)
		return
	}

	if *helpFlag {
		fmt.Print(helpText)
		flag.PrintDefaults()
		return
	}

	// Initialize the logger
	logger, err := initializeLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // Flush any buffered log entries

	logger.Info("-------- new chronosh session --------", zap.Any("args", os.Args))

	// Check for updates in background
	appupdate.HandleSelfUpdate(
		BUILD_VERSION,
		logger,
		filesystem.DefaultFileSystem{},
		appupdate.DefaultUpdater{},
	)

	// Start running
	err = run(logger)

	// Handle exit status
	var exitStatus interp.ExitStatus
	if errors.As(err, &exitStatus) {
		os.Exit(int(exitStatus))
	}

	if err != nil {
		logger.Error("unhandled error", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger) error {
	ctx := context.Background()

	// chronosh -c "echo hello"
	if *command != "" {
		exec, err := initializeExecutor(logger)
		if err != nil {
			return err
		}
		return exec.RunBashScriptFromReader(ctx, strings.NewReader(*command), "chronosh")
	}

	// chronosh
	if flag.NArg() == 0 {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return runInteractiveShell(ctx, logger)
		}

		exec, err := initializeExecutor(logger)
		if err != nil {
			return err
		}
		return exec.RunBashScriptFromReader(ctx, os.Stdin, "chronosh")
	}

	// chronosh script.sh
	exec, err := initializeExecutor(logger)
	if err != nil {
		return err
	}
	for _, filePath := range flag.Args() {
		if err := exec.RunBashScriptFromFile(ctx, filePath); err != nil {
			return err
		}
	}

	return nil
}

// runInteractiveShell starts the instrumented REPL. A version cached by an
// earlier update check is surfaced before the first prompt.
func runInteractiveShell(ctx context.Context, logger *zap.Logger) error {
	if latest := appupdate.ReadLatestVersion(filesystem.DefaultFileSystem{}); latest != "" && latest != BUILD_VERSION {
		fmt.Fprintf(os.Stderr, "A newer chronosh version is available: %s\n", latest)
	}


	r, err := repl.NewREPL(repl.Options{
		Logger:       logger,
		ConfigPath:   core.ConfigFile(),
		HistoryPath:  core.HistoryFile(),
		BuildVersion: BUILD_VERSION,
		RCFiles: []string{
			filepath.Join(core.HomeDir(), ".chronoshrc"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer r.Close()

	return r.Run(ctx)
}

// initializeExecutor builds a plain executor for non-interactive modes and
// loads the startup files a shell is expected to source.
func initializeExecutor(logger *zap.Logger) (*executor.REPLExecutor, error) {
	exec, err := executor.NewREPLExecutor(logger)
	if err != nil {
		return nil, err
	}

	configFiles := []string{
		filepath.Join(core.HomeDir(), ".chronoshrc"),
	}

	// Check if this is a login shell
	if *loginShell || strings.HasPrefix(os.Args[0], "-") {
		configFiles = append(
			[]string{
				"/etc/profile",
				filepath.Join(core.HomeDir(), ".chronosh_profile"),
			},
			configFiles...,
		)
	}

	for _, configFile := range configFiles {
		if stat, err := os.Stat(configFile); err == nil && stat.Size() > 0 {
			if err := exec.RunBashScriptFromFile(context.Background(), configFile); err != nil {
				fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", configFile, err)
			}
		}
	}

	return exec, nil
}

func initializeLogger() (*zap.Logger, error) {
	logLevel := environment.GetLogLevel()
	if BUILD_VERSION == "dev" {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	if environment.ShouldCleanLogFile() {
		os.Remove(core.LogFile())
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	loggerConfig.OutputPaths = []string{
		core.LogFile(),
	}

	// Logs only go to file to avoid interfering with the interactive prompt.
	// Use `tail -f ~/.chronosh/chronosh.log` to monitor logs in real-time.

	return loggerConfig.Build()
}
