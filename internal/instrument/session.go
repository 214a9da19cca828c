// Package instrument measures the wall-clock duration of each top-level
// command in an interactive session. Arming happens in an exec-handler
// middleware when the shell resolves a command; stopping happens at the
// start of the next prompt render, so the measurement covers the whole
// invocation end to end. All state lives in an explicit Session so nothing
// here depends on process-wide globals.
package instrument

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"mvdan.cc/sh/v3/interp"

	"github.com/chronosh/chronosh/internal/styles"
)

const (
	// DefaultSlowThreshold is the duration above which a slow-command
	// notice is printed before the next prompt.
	DefaultSlowThreshold = 1000 * time.Millisecond

	// DefaultSuspiciousThreshold is the duration above which a measurement
	// most likely spans idle time between turns rather than execution,
	// e.g. when the hook armed on an earlier turn and no command ran
	// before this prompt. The value is still recorded.
	DefaultSuspiciousThreshold = 5000 * time.Millisecond

	// DefaultMaxCommandDepth is the exec nesting depth above which a
	// command is treated as internal.
	DefaultMaxCommandDepth = 3
)

// promptMiddlewareName identifies the timing middleware in a PromptChain.
const promptMiddlewareName = "command-timing"

// Options configures a Session. Zero values fall back to defaults.
type Options struct {
	Logger   *zap.Logger
	Recorder Recorder

	// Output receives slow-command notices and advisories. Defaults to
	// stdout so notices appear right above the next prompt.
	Output io.Writer

	SeriesCapacity      int
	SlowThreshold       time.Duration
	SuspiciousThreshold time.Duration
	MaxCommandDepth     int

	// Exclude overrides DefaultExclusions when non-nil.
	Exclude []string
}

// Session is the instrumentation context for one interactive session.
// It is not safe for concurrent use; the shell drives it from a single
// goroutine and "concurrency" here means synchronous reentrancy only.
type Session struct {
	logger *zap.Logger
	out    io.Writer

	store    *Store
	timer    *CommandTimer
	guard    ReentrancyGuard
	filter   *ExclusionFilter
	recorder Recorder

	slowThreshold       time.Duration
	suspiciousThreshold time.Duration

	depth        int
	lastExitCode int

	now func() time.Time
}

// NewSession creates a session from the given options.
func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	slow := opts.SlowThreshold
	if slow == 0 {
		slow = DefaultSlowThreshold
	}
	suspicious := opts.SuspiciousThreshold
	if suspicious == 0 {
		suspicious = DefaultSuspiciousThreshold
	}
	maxDepth := opts.MaxCommandDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxCommandDepth
	}
	exclude := opts.Exclude
	if exclude == nil {
		exclude = DefaultExclusions
	}

	return &Session{
		logger:              logger,
		out:                 out,
		store:               NewStore(opts.SeriesCapacity),
		filter:              NewExclusionFilter(exclude, maxDepth),
		recorder:            opts.Recorder,
		slowThreshold:       slow,
		suspiciousThreshold: suspicious,
		now:                 time.Now,
	}
}

// Store returns the session's stats store.
func (s *Session) Store() *Store {
	return s.store
}

// Reporter returns a read-only insights reporter over the stats store.
func (s *Session) Reporter() *Reporter {
	return NewReporter(s.store)
}

// ClearStats discards all recorded statistics. The timer slot and guard
// are left untouched.
func (s *Session) ClearStats() {
	s.store.Reset()
}

// SetLastExitCode records the exit code of the most recent command so the
// stop path can include it in persisted records.
func (s *Session) SetLastExitCode(code int) {
	s.lastExitCode = code
}

// LastExitCode returns the most recently recorded exit code.
func (s *Session) LastExitCode() int {
	return s.lastExitCode
}

// ActiveCommand returns the name of the command currently being measured,
// or "" when the timer is idle.
func (s *Session) ActiveCommand() string {
	if s.timer == nil {
		return ""
	}
	return s.timer.Name
}

// CommandResolved is the hook the shell fires once per attempted top-level
// command resolution. It may fire redundantly for one logical action
// (alias and function resolution re-enter the lookup machinery); only the
// first firing arms the timer. Failures are logged and never surfaced.
func (s *Session) CommandResolved(name string) {
	if !s.guard.Enter() {
		return
	}
	defer s.guard.Release()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug("failed to arm command timer", zap.Any("cause", r))
		}
	}()

	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if s.filter.ExcludedName(name) {
		return
	}
	if s.filter.TooDeep(s.depth) {
		s.logger.Debug("skipping nested command",
			zap.String("command", name),
			zap.Int("depth", s.depth))
		return
	}

	// An earlier resolution step in this turn may have armed the timer
	// already; overwriting it would undercount the command.
	if s.timer != nil {
		return
	}

	s.timer = &CommandTimer{Name: name, StartedAt: s.now()}
}

// ExecMiddleware adapts the session to the interpreter's exec handler
// chain. The hook fires before the command body runs; the depth counter
// tracks in-flight exec frames so commands spawned by other commands are
// recognized as internal rather than top-level.
func (s *Session) ExecMiddleware(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		if len(args) > 0 {
			s.CommandResolved(args[0])
		}
		s.depth++
		defer func() { s.depth-- }()
		return next(ctx, args)
	}
}

// PromptMiddleware returns the middleware that stops the active timer at
// the very start of prompt rendering, before any other prompt work, so the
// rendering cost itself is not counted. The guard stays latched for the
// rest of the render: commands a prompt theme shells out to (git status
// and the like) must not arm a fresh timer.
func (s *Session) PromptMiddleware() PromptMiddleware {
	return PromptMiddleware{
		Name: promptMiddlewareName,
		Wrap: func(next PromptFunc) PromptFunc {
			return func() string {
				if s.guard.Enter() {
					defer s.guard.Release()
				}
				s.finishMeasurement()
				return next()
			}
		},
	}
}

// finishMeasurement stops the active timer, records the measurement, and
// clears the slot. The slot is cleared even when recording panics so a
// single bad measurement cannot wedge every future one. Stopping with no
// active timer is a no-op.
func (s *Session) finishMeasurement() {
	timer := s.timer
	if timer == nil {
		return
	}
	defer func() {
		s.timer = nil
		if r := recover(); r != nil {
			s.logger.Warn("failed to record command duration", zap.Any("cause", r))
		}
	}()

	end := s.now()
	elapsed := end.Sub(timer.StartedAt)
	ms := durationMs(elapsed)

	if elapsed > s.suspiciousThreshold {
		fmt.Fprintln(s.out, styles.ADVISORY(fmt.Sprintf(
			"chronosh: %s ran for %.1fs; the measurement may include idle time before this prompt",
			timer.Name, elapsed.Seconds())))
	}

	s.store.Observe(timer.Name, ms)

	if elapsed > s.slowThreshold {
		fmt.Fprintln(s.out, styles.SLOW_COMMAND(fmt.Sprintf(
			"chronosh: %s took %.1fs", timer.Name, elapsed.Seconds())))
	}

	if s.recorder != nil {
		if err := s.recorder.Record(timer.Name, ms, s.lastExitCode, timer.StartedAt, end); err != nil {
			s.logger.Warn("failed to persist command record",
				zap.String("command", timer.Name),
				zap.Error(err))
		}
	}
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
