package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"mahami/internal/task"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func sample() []task.Task {
	return []task.Task{
		{ID: "0123456789abcdef", Title: "Buy milk", Category: "تسوق", Priority: task.PriorityLow, DueDate: "2024-03-01", CreatedAt: now},
		{ID: "fedcba9876543210", Title: "Report", Priority: task.PriorityHigh, Completed: true, CreatedAt: now},
	}
}

func TestDetect(t *testing.T) {
	t.Setenv("MAHAMI_OUTPUT", "")
	assert.Equal(t, FormatTable, Detect(false, false, false))
	assert.Equal(t, FormatJSON, Detect(true, true, true))
	assert.Equal(t, FormatYAML, Detect(false, true, true))
	assert.Equal(t, FormatCompact, Detect(false, false, true))

	t.Setenv("MAHAMI_OUTPUT", "yaml")
	assert.Equal(t, FormatYAML, Detect(false, false, false))
	assert.True(t, FormatYAML.Structured())
	assert.False(t, FormatCompact.Structured())
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatJSON, sample()))
	var decoded []task.Task
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sample(), decoded)

	buf.Reset()
	require.NoError(t, Encode(&buf, FormatYAML, sample()[0]))
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "Buy milk", doc["title"])
	assert.Equal(t, "2024-03-01", doc["dueDate"])
	assert.NotContains(t, doc, "reminder")
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	JSONError(&buf, "TASK_NOT_FOUND", "task not found: x", nil)
	assert.JSONEq(t, `{"error":"task not found: x","code":"TASK_NOT_FOUND"}`, buf.String())
}

func TestTaskTable(t *testing.T) {
	DisableColor()
	var out, errOut bytes.Buffer
	TaskTable(&out, &errOut, sample(), now)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "PRIORITY")
	assert.Contains(t, lines[1], "01234567")
	assert.Contains(t, lines[1], "2024-03-01!")
	assert.Contains(t, lines[2], "[x]")
	assert.Empty(t, errOut.String())

	out.Reset()
	TaskTable(&out, &errOut, nil, now)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "No tasks found.")
}

func TestTaskCompact(t *testing.T) {
	var out, errOut bytes.Buffer
	TaskCompact(&out, &errOut, sample())
	assert.Equal(t,
		"01234567 [ ] (low) Buy milk #تسوق due:2024-03-01\nfedcba98 [x] (high) Report\n",
		out.String())
}

func TestStatsTable(t *testing.T) {
	DisableColor()
	var out bytes.Buffer
	StatsTable(&out, task.ComputeStats(sample(), now))
	s := out.String()
	assert.Contains(t, s, "50%")
	assert.Contains(t, s, "تسوق")
	assert.Contains(t, s, "high")
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[----]", ProgressBar(0, 4))
	assert.Equal(t, "[##--]", ProgressBar(50, 4))
	assert.Equal(t, "[####]", ProgressBar(150, 4))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "مرحبا ...", truncate("مرحبا بالعالم", 9))
}
