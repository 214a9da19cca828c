package instrument

// ReentrancyGuard is a latch that keeps the instrumentation from processing
// side effects of its own code, such as commands spawned while rendering
// the prompt. The shell and the instrumentation share one goroutine within
// an interactive turn, so a plain boolean is sufficient; what matters is
// that every guarded region releases the latch on all exit paths.
type ReentrancyGuard struct {
	held bool
}

// Enter latches the guard. It returns false when the guard is already
// held, in which case the caller is inside a guarded region and must
// return without releasing.
func (g *ReentrancyGuard) Enter() bool {
	if g.held {
		return false
	}
	g.held = true
	return true
}

// Release clears the latch.
func (g *ReentrancyGuard) Release() {
	g.held = false
}

// Held reports whether the guard is currently latched.
func (g *ReentrancyGuard) Held() bool {
	return g.held
}
