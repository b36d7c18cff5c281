package color

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeq(t *testing.T) {
	tests := []struct {
		name     string
		params   []int
		expected string
	}{
		{"single color", []int{FgRed}, "\033[31m"},
		{"color with bold", []int{FgGreen, Bold}, "\033[32;1m"},
		{"multiple attributes", []int{FgYellow, Bold, Underline}, "\033[33;1;4m"},
		{"no params", []int{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.params...).seq())
		})
	}
}

func TestSprintf(t *testing.T) {
	c := New(FgGreen, Bold)
	result := c.Sprintf("source %s scored %.2f", "DUKCAPIL", 0.91)

	assert.Contains(t, result, "source DUKCAPIL scored 0.91")
	assert.Contains(t, result, "\033[32;1m")
	assert.Contains(t, result, reset)
}

func TestSprint_NoParams(t *testing.T) {
	// With no attributes the text passes through untouched.
	assert.Equal(t, "plain", New().Sprint("plain"))
}

func TestFprintf(t *testing.T) {
	var buf bytes.Buffer
	New(FgMagenta).Fprintf(&buf, "count: %d", 42)

	assert.Contains(t, buf.String(), "count: 42")
	assert.Contains(t, buf.String(), "\033[35m")
}

func TestNoColor(t *testing.T) {
	NoColor = true
	defer func() { NoColor = false }()

	assert.Equal(t, "warning", New(FgYellow, Bold).Sprint("warning"))
}
