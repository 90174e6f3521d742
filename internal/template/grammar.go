package template

import (
	"fmt"
	"maps"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
)

// markerLine matches a section marker token such as "[[parameters]]".
var markerLine = regexp.MustCompile(`^\[\[\s*([A-Za-z0-9_-]+)\s*\]\]$`)

// SectionParser builds a section from the tokens of its body.
type SectionParser func(body []string) (domain.Section, error)

// SyntaxError reports a template document that does not follow the grammar.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("template: line %d: %s", e.Line, e.Msg)
}

// Unwrap allows errors.Is(err, domain.ErrInvalidTemplate).
func (e *SyntaxError) Unwrap() error {
	return domain.ErrInvalidTemplate
}

// Grammar maps section kinds to their parsers.
type Grammar struct {
	parsers map[domain.SectionKind]SectionParser
}

// NewGrammar returns a grammar with the built-in section kinds registered.
func NewGrammar() *Grammar {
	g := &Grammar{parsers: make(map[domain.SectionKind]SectionParser)}
	g.Register(domain.SectionParameters, parseParameters)
	return g
}

// Register adds or replaces the parser for kind. Kinds are case-insensitive.
func (g *Grammar) Register(kind domain.SectionKind, parser SectionParser) {
	g.parsers[domain.SectionKind(strings.ToLower(string(kind)))] = parser
}

// Kinds returns the registered section kinds in sorted order.
func (g *Grammar) Kinds() []domain.SectionKind {
	return slices.Sorted(maps.Keys(g.parsers))
}

func (g *Grammar) kindList() string {
	names := make([]string, 0, len(g.parsers))
	for _, k := range g.Kinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

type pendingSection struct {
	kind   domain.SectionKind
	line   int
	parser SectionParser
	body   []string
}

// Parse parses a template document named name.
func (g *Grammar) Parse(name, text string) (*domain.Template, error) {
	var (
		sections []domain.Section
		current  *pendingSection
	)

	flush := func() error {
		if current == nil {
			return nil
		}
		s, err := current.parser(current.body)
		if err != nil {
			return &SyntaxError{Line: current.line, Msg: fmt.Sprintf("section %q: %v", current.kind, err)}
		}
		sections = append(sections, s)
		return nil
	}

	tok := NewTokenizer(text)
	for token, ok := tok.Next(); ok; token, ok = tok.Next() {
		m := markerLine.FindStringSubmatch(token)
		if m == nil {
			if current == nil {
				return nil, &SyntaxError{Line: tok.Line(), Msg: fmt.Sprintf("%q outside of any section", token)}
			}
			current.body = append(current.body, token)
			continue
		}

		if err := flush(); err != nil {
			return nil, err
		}
		kind := domain.SectionKind(strings.ToLower(m[1]))
		parser, known := g.parsers[kind]
		if !known {
			return nil, &SyntaxError{Line: tok.Line(), Msg: fmt.Sprintf("unknown section kind %q (known: %s)", m[1], g.kindList())}
		}
		current = &pendingSection{kind: kind, line: tok.Line(), parser: parser}
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return domain.NewTemplate(name, sections), nil
}

var defaultGrammar = NewGrammar()

// Parse parses text with the default grammar.
func Parse(text string) (*domain.Template, error) {
	return defaultGrammar.Parse("", text)
}

// ParseFile reads and parses the template document at path.
func ParseFile(path string) (*domain.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return defaultGrammar.Parse(path, string(data))
}
