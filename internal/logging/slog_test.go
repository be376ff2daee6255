package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLogger_ComponentLoggers(t *testing.T) {
	var buf bytes.Buffer
	root, err := New(FormatText, "debug", &buf)
	require.NoError(t, err)
	ctx := context.Background()

	query := root.With("component", "query").With("kind", "reports")
	query.Debug(ctx, "stale response discarded", "generation", 3)
	root.With("component", "session").Info(ctx, "logged in", "user_id", 6, "role", "admin")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "level=DEBUG")
	assert.Contains(t, lines[0], `msg="stale response discarded"`)
	assert.Contains(t, lines[0], "component=query")
	assert.Contains(t, lines[0], "kind=reports")
	assert.Contains(t, lines[0], "generation=3")

	assert.Contains(t, lines[1], "component=session")
	assert.Contains(t, lines[1], "user_id=6")
	assert.NotContains(t, lines[1], "component=query", "With must not leak into the parent")
}

func TestSlogLogger_JSONCarriesErrors(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(FormatJSON, "info", &buf)
	require.NoError(t, err)

	l.With("component", "mutation").Warn(context.Background(), "action failed",
		"action", "deactivate", "id", int64(7), "error", errors.New("falha interna"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "action failed", rec["msg"])
	assert.Equal(t, "mutation", rec["component"])
	assert.Equal(t, "deactivate", rec["action"])
	assert.Equal(t, float64(7), rec["id"])
	assert.Equal(t, "falha interna", rec["error"])
}

func TestSlogLogger_LevelNames(t *testing.T) {
	tests := []struct {
		level  string
		hidden []string
		shown  []string
	}{
		{"debug", nil, []string{"dbg", "inf", "wrn", "err"}},
		{"", []string{"dbg"}, []string{"inf", "wrn", "err"}},
		{"WARN", []string{"dbg", "inf"}, []string{"wrn", "err"}},
		{"error", []string{"dbg", "inf", "wrn"}, []string{"err"}},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New(FormatText, tt.level, &buf)
			require.NoError(t, err)
			ctx := context.Background()

			l.Debug(ctx, "dbg")
			l.Info(ctx, "inf")
			l.Warn(ctx, "wrn")
			l.Error(ctx, "err")

			out := buf.String()
			for _, m := range tt.hidden {
				assert.NotContains(t, out, "msg="+m)
			}
			for _, m := range tt.shown {
				assert.Contains(t, out, "msg="+m)
			}
		})
	}
}
