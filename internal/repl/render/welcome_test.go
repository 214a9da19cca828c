package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderWelcome_WideTerminal(t *testing.T) {
	out := &bytes.Buffer{}
	RenderWelcome(out, WelcomeInfo{
		Version:         "1.2.3",
		HistoryEnabled:  true,
		SlowThresholdMs: 1000,
	}, 120)

	text := out.String()
	assert.Contains(t, text, "The Timing-Aware Shell")
	assert.Contains(t, text, "1.2.3")
	assert.Contains(t, text, "history: ")
	assert.Contains(t, text, "on")
	assert.Contains(t, text, "1000ms")
	assert.Contains(t, text, "tip: ")
}

func TestRenderWelcome_DevVersion(t *testing.T) {
	out := &bytes.Buffer{}
	RenderWelcome(out, WelcomeInfo{Version: "dev", SlowThresholdMs: 1000}, 120)

	assert.Contains(t, out.String(), "development")
}

func TestRenderWelcome_NarrowTerminalSkipsLogo(t *testing.T) {
	out := &bytes.Buffer{}
	RenderWelcome(out, WelcomeInfo{Version: "1.2.3", SlowThresholdMs: 500}, 40)

	text := out.String()
	assert.Contains(t, text, "The Timing-Aware Shell")
	assert.Contains(t, text, "500ms")
	assert.NotContains(t, text, "___")
}

func TestRenderWelcome_HistoryDisabled(t *testing.T) {
	out := &bytes.Buffer{}
	RenderWelcome(out, WelcomeInfo{Version: "1.2.3", HistoryEnabled: false, SlowThresholdMs: 1000}, 120)

	assert.Contains(t, out.String(), "off")
}

func TestGetTipOfTheDay_Stable(t *testing.T) {
	first := getTipOfTheDay()
	second := getTipOfTheDay()

	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
	assert.True(t, strings.ContainsAny(first, "abcdefghijklmnopqrstuvwxyz"))
}
