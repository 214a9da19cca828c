package render

import (
	"bytes"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chronosh/chronosh/internal/history"
	"github.com/chronosh/chronosh/internal/instrument"
)

func TestRenderInsights_EmptyStore(t *testing.T) {
	out := &bytes.Buffer{}
	RenderInsights(out, instrument.NewReporter(instrument.NewStore(0)))

	assert.Contains(t, out.String(), "tracked commands: 0")
	assert.Contains(t, out.String(), "nothing measured yet")
}

func TestRenderInsights_WithData(t *testing.T) {
	store := instrument.NewStore(0)
	store.Observe("git", 150)
	store.Observe("git", 250)
	store.Observe("ls", 2)

	out := &bytes.Buffer{}
	RenderInsights(out, instrument.NewReporter(store))

	text := out.String()
	assert.Contains(t, text, "tracked commands: 2")
	assert.Contains(t, text, "Slowest commands")
	assert.Contains(t, text, "Most executed")
	assert.Contains(t, text, "git")
	assert.Contains(t, text, "ls")
	assert.NotContains(t, text, "nothing measured yet")
}

func TestRenderCommandDetail(t *testing.T) {
	out := &bytes.Buffer{}
	RenderCommandDetail(out, "git", []instrument.CommandStat{
		{Name: "git", Count: 3, Avg: 733.33, Max: 2000, Total: 2200},
	})

	text := out.String()
	assert.Contains(t, text, `Commands matching "git"`)
	assert.Contains(t, text, "git")
	assert.Contains(t, text, "733.3")
	assert.Contains(t, text, "2000.0")
}

func TestRenderCommandDetail_NoMatch(t *testing.T) {
	out := &bytes.Buffer{}
	RenderCommandDetail(out, "zzz", nil)

	assert.Contains(t, out.String(), `no tracked command matches "zzz"`)
}

func TestRenderHealth(t *testing.T) {
	out := &bytes.Buffer{}
	RenderHealth(out, instrument.Health{
		MemoryBytes: 64 * 1024 * 1024,
		Rating:      instrument.RatingExcellent,
	})

	text := out.String()
	assert.Contains(t, text, "Session health")
	assert.Contains(t, text, "64 MiB")
	assert.Contains(t, text, "Excellent")
}

func TestRenderRecentRecords(t *testing.T) {
	out := &bytes.Buffer{}
	RenderRecentRecords(out, []history.CommandRecord{
		{
			Command:    "git status",
			DurationMs: 52.4,
			ExitCode:   sql.NullInt32{Int32: 0, Valid: true},
			StartedAt:  time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			Command:    "make build",
			DurationMs: 1800,
			ExitCode:   sql.NullInt32{Valid: false},
			StartedAt:  time.Date(2024, 1, 1, 9, 31, 0, 0, time.UTC),
		},
	})

	text := out.String()
	assert.Contains(t, text, "Recent commands")
	assert.Contains(t, text, "git status")
	assert.Contains(t, text, "09:30:00")
	assert.Contains(t, text, "exit 0")
	assert.Contains(t, text, "exit ?")
}

func TestRenderRecentRecords_Empty(t *testing.T) {
	out := &bytes.Buffer{}
	RenderRecentRecords(out, nil)

	assert.Contains(t, out.String(), "no persisted command records")
}
