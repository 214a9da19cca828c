package instrument

// DefaultExclusions lists command names the shell's own plumbing dispatches.
// Arming a timer for them would cascade into measuring the instrumentation
// itself instead of the user's command.
var DefaultExclusions = []string{"chronosh", "timing", "exit"}

// ExclusionFilter decides which resolved command names must never arm the
// timer. It combines a static name set with a nesting-depth threshold:
// commands dispatched while another command is already executing belong to
// that command, not to a new top-level invocation.
type ExclusionFilter struct {
	names    map[string]struct{}
	maxDepth int
}

// NewExclusionFilter builds a filter from the given names and depth
// threshold. The threshold is a tunable heuristic; it depends on how the
// host shell nests its exec frames and does not generalize across hosts.
func NewExclusionFilter(names []string, maxDepth int) *ExclusionFilter {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return &ExclusionFilter{
		names:    set,
		maxDepth: maxDepth,
	}
}

// ExcludedName reports whether the command name is statically excluded.
func (f *ExclusionFilter) ExcludedName(name string) bool {
	_, ok := f.names[name]
	return ok
}

// TooDeep reports whether the given exec nesting depth indicates an
// internal call rather than a top-level command.
func (f *ExclusionFilter) TooDeep(depth int) bool {
	return depth > f.maxDepth
}
