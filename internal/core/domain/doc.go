// Package domain defines the core business entities for docket.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: A tracked work item with fields, revisions and attachments
//   - Comment: One entry of a record's discussion thread
//   - Template: A parsed template document made of Sections
//   - Dictionary: The substitution table handed to a renderer
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
