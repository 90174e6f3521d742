package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "blank and whitespace-only lines produce no token",
			input:    "  a  \n\nb\n   \nc",
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "only terminators",
			input:    "\n\r\n\n",
			expected: nil,
		},
		{
			name:     "crlf terminators",
			input:    "first\r\nsecond\r\n",
			expected: []string{"first", "second"},
		},
		{
			name:     "lone carriage return is a terminator",
			input:    "left\rright",
			expected: []string{"left", "right"},
		},
		{
			name:     "inner whitespace is kept",
			input:    "\t statechange.closed date \t",
			expected: []string{"statechange.closed date"},
		},
		{
			name:     "no trailing newline",
			input:    "single",
			expected: []string{"single"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Tokens(tc.input))
		})
	}
}

func TestTokenizer_Line(t *testing.T) {
	tok := NewTokenizer("\n\nfirst\r\n\nsecond")

	s, ok := tok.Next()
	assert.True(t, ok)
	assert.Equal(t, "first", s)
	assert.Equal(t, 3, tok.Line())

	s, ok = tok.Next()
	assert.True(t, ok)
	assert.Equal(t, "second", s)
	assert.Equal(t, 5, tok.Line())

	_, ok = tok.Next()
	assert.False(t, ok)
}

func TestTokenizer_NotRestartable(t *testing.T) {
	tok := NewTokenizer("a\nb")

	var first []string
	for s := range tok.All() {
		first = append(first, s)
	}
	var second []string
	for s := range tok.All() {
		second = append(second, s)
	}

	assert.Equal(t, []string{"a", "b"}, first)
	assert.Empty(t, second)
}

func TestTokenizer_AllStopsEarly(t *testing.T) {
	tok := NewTokenizer("a\nb\nc")

	for s := range tok.All() {
		if s == "a" {
			break
		}
	}

	rest, ok := tok.Next()
	assert.True(t, ok)
	assert.Equal(t, "b", rest)
}
