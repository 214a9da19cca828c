package instrument

import "time"

// CommandTimer is the single active measurement slot. At most one instance
// exists per session at any time: the command hook arms it and the prompt
// middleware clears it, or the stop path force-clears it on failure.
type CommandTimer struct {
	Name      string
	StartedAt time.Time
}
