package domain

import "time"

// Binding is the result of binding one or more records to a template.
type Binding struct {
	// ID uniquely identifies this binding, for logs and output metadata.
	ID string

	// Template is the parsed template, nil when none was supplied.
	Template *Template

	// Dictionary is the assembled substitution table.
	Dictionary *Dictionary

	// Missing lists template parameters the dictionary does not provide.
	Missing []string

	// CreatedAt is when the binding was assembled.
	CreatedAt time.Time
}
