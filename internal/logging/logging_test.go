package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/laurencehw/fiscal-policy-calculator/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ scoring.Logger = Printf{}

func TestPrintf_LevelsAndComponent(t *testing.T) {
	var buf bytes.Buffer
	log := NewPrintf(New(slog.LevelInfo, "json", &buf), "scorer")

	log.Debugf("hidden %d", 1)
	log.Infof("scored %s", "Top rate")
	log.Warnf("clamped %d", 2)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2, "debug is below the configured level")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "scored Top rate", rec["msg"])
	assert.Equal(t, "scorer", rec["component"])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(slog.LevelDebug, "text", &buf).Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "k=v")
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing")
}
