package domain

import (
	"strings"
	"time"
)

// Well-known field reference names. Trackers map their own attributes onto
// these so the dictionary exposes the same keys regardless of the source.
const (
	FieldTitle       = "System.Title"
	FieldDescription = "System.Description"
	FieldState       = "System.State"
	FieldAreaPath    = "System.AreaPath"
	FieldAssignedTo  = "System.AssignedTo"
	FieldCreatedBy   = "System.CreatedBy"
	FieldCreatedDate = "System.CreatedDate"
	FieldChangedDate = "System.ChangedDate"
	FieldTags        = "System.Tags"
)

// FieldType is the declared type of a record field.
type FieldType int

const (
	// FieldTypeString is plain single-line text.
	FieldTypeString FieldType = iota
	// FieldTypeInteger is a whole number.
	FieldTypeInteger
	// FieldTypeDouble is a floating point number.
	FieldTypeDouble
	// FieldTypeDateTime is a point in time.
	FieldTypeDateTime
	// FieldTypeHTML is rich text that must be normalised before embedding.
	FieldTypeHTML
	// FieldTypeIdentity is a user reference.
	FieldTypeIdentity
	// FieldTypeTreePath is a hierarchical path (area, iteration, milestone).
	FieldTypeTreePath
	// FieldTypeBoolean is a true/false flag.
	FieldTypeBoolean
)

// String returns the lowercase name of the field type.
func (t FieldType) String() string {
	switch t {
	case FieldTypeString:
		return "string"
	case FieldTypeInteger:
		return "integer"
	case FieldTypeDouble:
		return "double"
	case FieldTypeDateTime:
		return "datetime"
	case FieldTypeHTML:
		return "html"
	case FieldTypeIdentity:
		return "identity"
	case FieldTypeTreePath:
		return "treepath"
	case FieldTypeBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// ParseFieldType converts a name produced by String back to a FieldType.
// Unknown names map to FieldTypeString.
func ParseFieldType(s string) FieldType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "integer", "int":
		return FieldTypeInteger
	case "double", "float", "number":
		return FieldTypeDouble
	case "datetime", "date":
		return FieldTypeDateTime
	case "html", "richtext":
		return FieldTypeHTML
	case "identity", "user":
		return FieldTypeIdentity
	case "treepath", "path":
		return FieldTypeTreePath
	case "boolean", "bool":
		return FieldTypeBoolean
	default:
		return FieldTypeString
	}
}

// Field is one attribute of a record.
type Field struct {
	// Name is the display name (e.g. "Assigned To").
	Name string

	// ReferenceName is the fully qualified name (e.g. "System.AssignedTo").
	ReferenceName string

	// Type is the declared field type.
	Type FieldType

	// Value is the typed value; nil when the field is empty.
	Value any
}

// Record is one tracked work item as exposed by a tracker.
type Record struct {
	// ID is the tracker's identifier for the record.
	ID string

	// Title is the display name.
	Title string

	// Fields holds the flat attribute set in tracker order.
	Fields []Field

	// Revisions is the ordered change history, oldest first.
	Revisions []Revision

	// Attachments lists files attached to the record.
	Attachments []Attachment
}

// Field returns the field with the given reference name (case-insensitive).
func (r *Record) Field(referenceName string) (Field, bool) {
	for _, f := range r.Fields {
		if strings.EqualFold(f.ReferenceName, referenceName) {
			return f, true
		}
	}
	return Field{}, false
}

// Attachment returns the attachment with the given ID.
func (r *Record) Attachment(id string) (Attachment, bool) {
	for _, a := range r.Attachments {
		if a.ID == id {
			return a, true
		}
	}
	return Attachment{}, false
}

// Revision is a point-in-time snapshot of the fields that changed.
type Revision struct {
	// Author is who made the change.
	Author string

	// ChangedAt is when the change was made.
	ChangedAt time.Time

	// Changes lists the fields that took a new value in this revision.
	Changes []FieldChange
}

// FieldChange is a single field's new value within a revision.
type FieldChange struct {
	ReferenceName string
	Name          string
	Value         any
}

// Comment is one entry of a record's discussion thread.
type Comment struct {
	Author    string
	CreatedAt time.Time

	// Body is HTML.
	Body string
}

// Attachment is a file attached to a record.
type Attachment struct {
	ID   string
	Name string
	URL  string
}

// Extension returns the attachment's file extension without the leading dot.
func (a Attachment) Extension() string {
	i := strings.LastIndex(a.Name, ".")
	if i < 0 {
		return ""
	}
	return strings.Trim(a.Name[i:], ".")
}

// Resource is a fetched binary resource (usually an image) ready for inlining.
type Resource struct {
	Data []byte

	// Extension is the file extension without the leading dot, may be empty.
	Extension string
}
