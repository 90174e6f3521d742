// Package template parses template documents into sections.
//
// A template document is line oriented. Blank lines are ignored and every
// other line is trimmed. A marker line of the form
//
//	[[parameters]]
//
// opens a section of the named kind; the section's body is every following
// line up to the next marker line. The parameters section declares one
// parameter name per line:
//
//	[[parameters]]
//	  title
//	  System.AssignedTo
//	  statechange.closed.date
//
// New section kinds are added by registering a SectionParser with a
// Grammar; the tokenizer and the marker rule stay the same.
package template
