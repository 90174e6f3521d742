package domain

import (
	"strconv"
	"strings"
)

// Value is one entry of a substitution Dictionary.
// The set of implementations is closed: Text, Number and RichText.
type Value interface {
	// String returns the plain representation of the value.
	String() string

	isValue()
}

// Text is a plain string value.
type Text string

func (t Text) String() string { return string(t) }

func (Text) isValue() {}

// Number is a typed numeric value.
type Number int64

func (n Number) String() string { return strconv.FormatInt(int64(n), 10) }

func (Number) isValue() {}

// RichText wraps HTML that has already been normalised for embedding.
// Renderers must insert it as-is, without sanitising or escaping it again.
type RichText struct {
	HTML string
}

func (r RichText) String() string { return r.HTML }

func (RichText) isValue() {}

type dictEntry struct {
	key   string
	value Value
}

// Dictionary is the substitution table a renderer merges into a template.
// Keys are case-insensitive; the spelling of the first write is kept.
// Later writes to the same key overwrite the value but keep the position.
//
// A Dictionary is not safe for concurrent use.
type Dictionary struct {
	order   []string
	entries map[string]*dictEntry
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{entries: make(map[string]*dictEntry)}
}

// Set stores value under key, overwriting any previous value.
func (d *Dictionary) Set(key string, value Value) {
	folded := strings.ToLower(key)
	if e, ok := d.entries[folded]; ok {
		e.value = value
		return
	}
	d.entries[folded] = &dictEntry{key: key, value: value}
	d.order = append(d.order, folded)
}

// SetText is shorthand for Set(key, Text(s)).
func (d *Dictionary) SetText(key, s string) {
	d.Set(key, Text(s))
}

// Get returns the value stored under key.
func (d *Dictionary) Get(key string) (Value, bool) {
	e, ok := d.entries[strings.ToLower(key)]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Has reports whether key is present.
func (d *Dictionary) Has(key string) bool {
	_, ok := d.entries[strings.ToLower(key)]
	return ok
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.order)
}

// Keys returns the keys in insertion order.
func (d *Dictionary) Keys() []string {
	keys := make([]string, len(d.order))
	for i, folded := range d.order {
		keys[i] = d.entries[folded].key
	}
	return keys
}

// Range calls fn for each entry in insertion order until fn returns false.
func (d *Dictionary) Range(fn func(key string, value Value) bool) {
	for _, folded := range d.order {
		e := d.entries[folded]
		if !fn(e.key, e.value) {
			return
		}
	}
}

// Merge copies every entry of src into d under prefix+key.
// Entries of src overwrite existing entries of d.
func (d *Dictionary) Merge(src *Dictionary, prefix string) {
	if src == nil {
		return
	}
	src.Range(func(key string, value Value) bool {
		d.Set(prefix+key, value)
		return true
	})
}

