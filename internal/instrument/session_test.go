package instrument

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"mvdan.cc/sh/v3/interp"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

type recordedCall struct {
	command    string
	durationMs float64
	exitCode   int
}

type fakeRecorder struct {
	calls     []recordedCall
	err       error
	panicking bool
}

func (r *fakeRecorder) Record(commandLine string, durationMs float64, exitCode int, start, end time.Time) error {
	if r.panicking {
		panic("recorder exploded")
	}
	r.calls = append(r.calls, recordedCall{
		command:    commandLine,
		durationMs: durationMs,
		exitCode:   exitCode,
	})
	return r.err
}

func newTestSession(t *testing.T, opts Options) (*Session, *fakeClock, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	if opts.Logger == nil {
		opts.Logger = zaptest.NewLogger(t)
	}
	if opts.Output == nil {
		opts.Output = out
	}

	session := NewSession(opts)
	clock := newFakeClock()
	session.now = clock.now

	return session, clock, out
}

// finish drives the stop path the way prompt rendering does.
func finish(s *Session) string {
	chain := NewPromptChain(func() string { return "$ " })
	chain.Use(s.PromptMiddleware())
	return chain.Render()
}

func TestSession_MeasuresCommandEndToEnd(t *testing.T) {
	recorder := &fakeRecorder{}
	session, clock, _ := newTestSession(t, Options{Recorder: recorder})

	session.CommandResolved("git")
	assert.Equal(t, "git", session.ActiveCommand())

	clock.advance(150 * time.Millisecond)
	session.SetLastExitCode(0)
	finish(session)

	// Timer slot is idle again
	assert.Equal(t, "", session.ActiveCommand())

	series := session.Store().Series("git")
	require.NotNil(t, series)
	assert.Equal(t, 1, series.Count())
	assert.InDelta(t, 150.0, series.Values()[0], 0.001)

	require.Len(t, recorder.calls, 1)
	assert.Equal(t, "git", recorder.calls[0].command)
	assert.InDelta(t, 150.0, recorder.calls[0].durationMs, 0.001)
	assert.Equal(t, 0, recorder.calls[0].exitCode)
}

func TestSession_StopWithoutActiveTimerIsNoop(t *testing.T) {
	recorder := &fakeRecorder{}
	session, _, out := newTestSession(t, Options{Recorder: recorder})

	prompt := finish(session)

	assert.Equal(t, "$ ", prompt)
	assert.Equal(t, 0, session.Store().Len())
	assert.Empty(t, recorder.calls)
	assert.Empty(t, out.String())
}

func TestSession_RedundantResolutionKeepsFirstTimer(t *testing.T) {
	session, clock, _ := newTestSession(t, Options{})

	// Alias and function resolution can fire the hook more than once for
	// one logical command.
	session.CommandResolved("git")
	clock.advance(100 * time.Millisecond)
	session.CommandResolved("git")

	clock.advance(100 * time.Millisecond)
	finish(session)

	series := session.Store().Series("git")
	require.NotNil(t, series)
	require.Equal(t, 1, series.Count())

	// Duration spans from the first firing, not the second
	assert.InDelta(t, 200.0, series.Values()[0], 0.001)
}

func TestSession_ExcludedNamesNeverArm(t *testing.T) {
	session, _, _ := newTestSession(t, Options{})

	for _, name := range []string{"chronosh", "timing", "exit"} {
		session.CommandResolved(name)
		assert.Equal(t, "", session.ActiveCommand(), "%s should not arm the timer", name)
	}

	finish(session)
	assert.Equal(t, 0, session.Store().Len())
}

func TestSession_CustomExclusions(t *testing.T) {
	session, _, _ := newTestSession(t, Options{
		Exclude: append(DefaultExclusions, "starship"),
	})

	session.CommandResolved("starship")
	assert.Equal(t, "", session.ActiveCommand())

	session.CommandResolved("git")
	assert.Equal(t, "git", session.ActiveCommand())
}

func TestSession_EmptyNameNeverArms(t *testing.T) {
	session, _, _ := newTestSession(t, Options{})

	session.CommandResolved("")
	session.CommandResolved("   ")

	assert.Equal(t, "", session.ActiveCommand())
}

func TestSession_DeepFramesNeverArm(t *testing.T) {
	session, _, _ := newTestSession(t, Options{MaxCommandDepth: 2})

	session.depth = 3
	session.CommandResolved("git")

	assert.Equal(t, "", session.ActiveCommand())
}

func TestSession_ReentrantHookIsIgnored(t *testing.T) {
	session, clock, _ := newTestSession(t, Options{})

	// A prompt theme shelling out fires the resolution hook while the
	// guard is latched; no timer may be armed for it.
	chain := NewPromptChain(func() string {
		session.CommandResolved("git")
		return "$ "
	})
	chain.Use(session.PromptMiddleware())

	prompt := chain.Render()
	assert.Equal(t, "$ ", prompt)
	assert.Equal(t, "", session.ActiveCommand())

	clock.advance(time.Second)
	finish(session)
	assert.Equal(t, 0, session.Store().Len())
}

func TestSession_GuardReleasedAfterPanickingPrompt(t *testing.T) {
	session, _, _ := newTestSession(t, Options{})

	chain := NewPromptChain(func() string {
		panic("prompt exploded")
	})
	chain.Use(session.PromptMiddleware())

	func() {
		defer func() { _ = recover() }()
		chain.Render()
	}()

	assert.False(t, session.guard.Held())

	// The session still measures normally afterwards
	session.CommandResolved("git")
	assert.Equal(t, "git", session.ActiveCommand())
}

func TestSession_SlowCommandNotice(t *testing.T) {
	session, clock, out := newTestSession(t, Options{})

	session.CommandResolved("make")
	clock.advance(2500 * time.Millisecond)
	finish(session)

	assert.Contains(t, out.String(), "make took 2.5s")
}

func TestSession_FastCommandPrintsNothing(t *testing.T) {
	session, clock, out := newTestSession(t, Options{})

	session.CommandResolved("ls")
	clock.advance(50 * time.Millisecond)
	finish(session)

	assert.Empty(t, out.String())
	assert.Equal(t, 1, session.Store().Series("ls").Count())
}

func TestSession_SuspiciousDurationStillRecorded(t *testing.T) {
	recorder := &fakeRecorder{}
	session, clock, out := newTestSession(t, Options{Recorder: recorder})

	session.CommandResolved("sleep")
	clock.advance(6 * time.Second)
	finish(session)

	// Advisory is printed but the value is kept
	assert.Contains(t, out.String(), "may include idle time")
	require.NotNil(t, session.Store().Series("sleep"))
	assert.Equal(t, 1, session.Store().Series("sleep").Count())
	assert.Len(t, recorder.calls, 1)
}

func TestSession_ConfiguredThresholds(t *testing.T) {
	session, clock, out := newTestSession(t, Options{
		SlowThreshold:       100 * time.Millisecond,
		SuspiciousThreshold: 10 * time.Second,
	})

	session.CommandResolved("git")
	clock.advance(200 * time.Millisecond)
	finish(session)

	assert.Contains(t, out.String(), "git took 0.2s")
	assert.NotContains(t, out.String(), "may include idle time")
}

func TestSession_RecorderFailureKeepsInMemoryStats(t *testing.T) {
	recorder := &fakeRecorder{err: fmt.Errorf("disk full")}
	session, clock, _ := newTestSession(t, Options{Recorder: recorder})

	session.CommandResolved("git")
	clock.advance(50 * time.Millisecond)
	finish(session)

	require.NotNil(t, session.Store().Series("git"))
	assert.Equal(t, 1, session.Store().Series("git").Count())
}

func TestSession_PanickingRecorderClearsTimerSlot(t *testing.T) {
	recorder := &fakeRecorder{panicking: true}
	session, clock, _ := newTestSession(t, Options{Recorder: recorder})

	session.CommandResolved("git")
	clock.advance(50 * time.Millisecond)
	finish(session)

	// The slot is cleared even though recording panicked, so the next
	// measurement proceeds normally
	assert.Equal(t, "", session.ActiveCommand())

	recorder.panicking = false
	session.CommandResolved("ls")
	clock.advance(30 * time.Millisecond)
	finish(session)

	assert.Equal(t, 1, session.Store().Series("ls").Count())
	require.Len(t, recorder.calls, 1)
	assert.Equal(t, "ls", recorder.calls[0].command)
}

func TestSession_ClearStats(t *testing.T) {
	session, clock, _ := newTestSession(t, Options{})

	session.CommandResolved("git")
	clock.advance(50 * time.Millisecond)
	finish(session)
	require.Equal(t, 1, session.Store().Len())

	session.CommandResolved("ls")
	session.ClearStats()

	assert.Equal(t, 0, session.Store().Len())

	// An in-flight measurement survives the reset
	clock.advance(40 * time.Millisecond)
	finish(session)
	require.NotNil(t, session.Store().Series("ls"))
	assert.InDelta(t, 40.0, session.Store().Series("ls").Values()[0], 0.001)
}

func TestSession_ExecMiddlewareArmsFromFirstArg(t *testing.T) {
	session, _, _ := newTestSession(t, Options{})

	inner := func(ctx context.Context, args []string) error {
		assert.Equal(t, 1, session.depth)
		return nil
	}
	handler := session.ExecMiddleware(interp.ExecHandlerFunc(inner))

	err := handler(context.Background(), []string{"git", "status"})
	require.NoError(t, err)

	assert.Equal(t, "git", session.ActiveCommand())
	assert.Equal(t, 0, session.depth)
}

func TestSession_ExecMiddlewareNestedFramesAreInternal(t *testing.T) {
	session, _, _ := newTestSession(t, Options{MaxCommandDepth: 1})

	var handler interp.ExecHandlerFunc
	depth := 0
	inner := func(ctx context.Context, args []string) error {
		depth++
		if depth < 4 {
			return handler(ctx, []string{fmt.Sprintf("nested-%d", depth)})
		}
		return nil
	}
	handler = session.ExecMiddleware(interp.ExecHandlerFunc(inner))

	err := handler(context.Background(), []string{"outer"})
	require.NoError(t, err)

	// Only the top-level command armed the timer
	assert.Equal(t, "outer", session.ActiveCommand())

	finish(session)
	assert.Equal(t, []string{"outer"}, session.Store().Commands())
}

func TestSession_ExecMiddlewareEmptyArgs(t *testing.T) {
	session, _, _ := newTestSession(t, Options{})

	called := false
	handler := session.ExecMiddleware(func(ctx context.Context, args []string) error {
		called = true
		return nil
	})

	err := handler(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "", session.ActiveCommand())
}

func TestDurationMs(t *testing.T) {
	assert.Equal(t, 1500.0, durationMs(1500*time.Millisecond))
	assert.Equal(t, 0.5, durationMs(500*time.Microsecond))
	assert.Equal(t, 0.0, durationMs(0))
}
