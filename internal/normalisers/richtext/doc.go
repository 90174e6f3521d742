// Package richtext normalises HTML-bearing field values so they can be
// embedded in a generated document.
//
// Normalisation is total: malformed markup degrades the value to a visible
// diagnostic and every image reference is resolved in isolation, so one
// broken image never prevents the rest of the field from being embedded.
// Fetching is delegated to a Resolver so the normaliser itself performs no
// I/O and can be tested with a stub.
package richtext
