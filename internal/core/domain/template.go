package domain

// SectionKind identifies a section variant of the template grammar.
type SectionKind string

const (
	// SectionParameters declares the parameter names a template consumes.
	SectionParameters SectionKind = "parameters"
)

// Section is one recognised block of a template document.
// The set of implementations is closed to this package; sections are
// created by parsers through named constructors and never mutated.
type Section interface {
	// Kind returns the section variant.
	Kind() SectionKind

	isSection()
}

// ParameterSection lists the parameter names a template declares, in source
// order, duplicates preserved.
type ParameterSection struct {
	names []string
}

// NewParameterSection creates a parameter section holding a copy of names.
func NewParameterSection(names []string) ParameterSection {
	cp := make([]string, len(names))
	copy(cp, names)
	return ParameterSection{names: cp}
}

// Kind returns SectionParameters.
func (ParameterSection) Kind() SectionKind { return SectionParameters }

func (ParameterSection) isSection() {}

// ParameterNames returns a copy of the declared names.
func (s ParameterSection) ParameterNames() []string {
	cp := make([]string, len(s.names))
	copy(cp, s.names)
	return cp
}

// Len returns the number of declared names.
func (s ParameterSection) Len() int {
	return len(s.names)
}

// Template is a parsed template document.
type Template struct {
	// Name identifies the template (usually its file path).
	Name string

	sections []Section
}

// NewTemplate creates a template owning a copy of sections.
func NewTemplate(name string, sections []Section) *Template {
	cp := make([]Section, len(sections))
	copy(cp, sections)
	return &Template{Name: name, sections: cp}
}

// Sections returns a copy of the template's sections in document order.
func (t *Template) Sections() []Section {
	cp := make([]Section, len(t.sections))
	copy(cp, t.sections)
	return cp
}

// Parameters returns every declared parameter name across all parameter
// sections, in document order.
func (t *Template) Parameters() []string {
	var names []string
	for _, s := range t.sections {
		if ps, ok := s.(ParameterSection); ok {
			names = append(names, ps.names...)
		}
	}
	return names
}

// MissingParameters returns the declared parameters that dict cannot resolve.
func (t *Template) MissingParameters(dict *Dictionary) []string {
	var missing []string
	for _, name := range t.Parameters() {
		if !dict.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}
