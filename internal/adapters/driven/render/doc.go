// Package render writes bindings as YAML or JSON documents that a template
// engine or word processor plug-in can merge.
//
// Both formats carry the same document:
//
//	binding: 7d0c...
//	template: report.docx
//	created: 2024-03-01T12:00:00Z
//	missing: [sprint]
//	html: [description, comments]
//	values:
//	  id: 42
//	  title: Login fails
//	  description: <p>...</p>
//
// values keeps the dictionary's insertion order. html lists the keys whose
// value is rich text.
package render
