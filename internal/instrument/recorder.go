package instrument

import "time"

// Recorder is an optional sink for durable command records. A nil Recorder
// leaves the session in memory-only mode. Record errors are logged by the
// session and never interrupt the shell or the in-memory stats.
type Recorder interface {
	Record(commandLine string, durationMs float64, exitCode int, start, end time.Time) error
}
