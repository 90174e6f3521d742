package template

import (
	"iter"
	"strings"
)

// Tokenizer splits template text into line tokens.
//
// A token is a maximal run of characters without a line terminator ('\n' or
// '\r'), trimmed of surrounding whitespace. Runs that are empty after
// trimming produce no token. A Tokenizer is consumed once; it never fails.
type Tokenizer struct {
	rest string
	line int
	done bool
}

// NewTokenizer returns a tokenizer over text.
func NewTokenizer(text string) *Tokenizer {
	return &Tokenizer{rest: text, done: text == ""}
}

// Next returns the next token, or false once the input is exhausted.
func (t *Tokenizer) Next() (string, bool) {
	for !t.done {
		var raw string
		i := strings.IndexAny(t.rest, "\r\n")
		if i < 0 {
			raw, t.rest, t.done = t.rest, "", true
		} else {
			raw = t.rest[:i]
			// \r\n counts as a single terminator.
			if t.rest[i] == '\r' && i+1 < len(t.rest) && t.rest[i+1] == '\n' {
				i++
			}
			t.rest = t.rest[i+1:]
		}
		t.line++

		if tok := strings.TrimSpace(raw); tok != "" {
			return tok, true
		}
	}
	return "", false
}

// Line returns the 1-based source line of the token last returned by Next.
func (t *Tokenizer) Line() int {
	return t.line
}

// All returns the remaining tokens as a single-use sequence.
func (t *Tokenizer) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			tok, ok := t.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

// Tokens returns every token of text.
func Tokens(text string) []string {
	var tokens []string
	for tok := range NewTokenizer(text).All() {
		tokens = append(tokens, tok)
	}
	return tokens
}
