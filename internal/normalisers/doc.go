// Package normalisers turns tracker records into render-safe values.
//
//   - richtext: sanitises HTML field values and inlines remote images
//   - workitem: flattens a record into a substitution dictionary
package normalisers
