// Package workitem flattens a tracker record into the substitution
// dictionary a renderer merges into a template.
//
// A FieldExtractor copies the record's attributes with type coercion and
// normalises rich-text values; a HistoryExtractor derives keys from the
// revision log; an Assembler runs both and namespaces the result.
package workitem
