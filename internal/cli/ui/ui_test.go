package ui

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestStatusLines(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	Success(&buf, "registered %d fields", 3)
	Failure(&buf, "user %s", "42")
	Warn(&buf, "no values")
	Field(&buf, "platform", "Library")

	assert.Equal(t, "✓ registered 3 fields\n✗ user 42\n! no values\n  platform: Library\n", buf.String())
}
