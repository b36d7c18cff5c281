package output

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func captureStdout(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func captureStderr(f func()) string {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	f()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestSuccess(t *testing.T) {
	out := captureStdout(func() {
		Success("loaded %d rows", 120)
	})

	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "loaded 120 rows")
}

func TestError(t *testing.T) {
	out := captureStderr(func() {
		Error("failed to read %s", "log.csv")
	})

	assert.Contains(t, out, "✗")
	assert.Contains(t, out, "failed to read log.csv")
}

func TestWarn(t *testing.T) {
	out := captureStdout(func() {
		Warn("%d rows had unparseable timestamps", 3)
	})

	assert.Contains(t, out, "⚠")
	assert.Contains(t, out, "3 rows had unparseable timestamps")
}

func TestJSON(t *testing.T) {
	out := captureStdout(func() {
		require.NoError(t, JSON(map[string]int{"total": 7}))
	})

	var parsed map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, 7, parsed["total"])
	assert.Contains(t, out, "  \"total\"")
}

func TestYAML(t *testing.T) {
	out := captureStdout(func() {
		require.NoError(t, YAML(map[string]int{"total": 7}))
	})

	var parsed map[string]int
	require.NoError(t, yaml.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, 7, parsed["total"])
}

func TestRender(t *testing.T) {
	captureStdout(func() {
		assert.NoError(t, Render("json", map[string]int{"a": 1}))
		assert.NoError(t, Render("yaml", map[string]int{"a": 1}))
		assert.Error(t, Render("csv", map[string]int{"a": 1}))
	})
}

func TestTableRender(t *testing.T) {
	table := NewTable("NIK", "HITS")
	table.AddRow("3201010101010001", "12")
	table.AddRow("3201010101010002", "3")

	out := captureStdout(table.Render)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Contains(t, out, "NIK")
	assert.Contains(t, out, "----")
	assert.Contains(t, out, "3201010101010001")
	assert.Contains(t, out, "12")
}

func TestTableRenderWidensColumns(t *testing.T) {
	table := NewTable("ID", "SOURCE")
	table.AddRow("1", "a source result name longer than the header")

	out := captureStdout(table.Render)
	assert.Contains(t, out, "a source result name longer than the header")
}
