package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mwhsu/dataferry/internal/cli"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		accepted bool
	}{
		{name: "lowercase y accepts", input: "y\n", accepted: true},
		{name: "uppercase Y accepts", input: "Y\n", accepted: true},
		{name: "yes accepts", input: "yes\n", accepted: true},
		{name: "mixed case yes accepts", input: "YeS\n", accepted: true},
		{name: "padded y accepts", input: "  y  \n", accepted: true},
		{name: "empty defaults to no", input: "\n", accepted: false},
		{name: "n declines", input: "n\n", accepted: false},
		{name: "garbage declines", input: "sure\n", accepted: false},
		{name: "eof declines", input: "", accepted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			result := cli.Confirm(&out, strings.NewReader(tt.input), "Run this query?", true)

			assert.Equal(t, tt.accepted, result.Accepted)
			assert.False(t, result.Cancelled)
			assert.Contains(t, out.String(), "Run this query? [y/N]")
		})
	}
}

func TestConfirm_NonInteractiveDeclines(t *testing.T) {
	// Without a TTY the prompt must not block waiting for input.
	var out bytes.Buffer
	result := cli.Confirm(&out, strings.NewReader("y\n"), "Run this query?", false)

	assert.False(t, result.Accepted)
	assert.Empty(t, out.String())
}
