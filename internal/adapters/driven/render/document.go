package render

import (
	"fmt"
	"time"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
)

// entry is one dictionary value in output order.
type entry struct {
	key   string
	value any // string or int64
}

// document is the format-neutral projection of a binding.
type document struct {
	binding  string
	template string
	created  time.Time
	missing  []string
	html     []string
	values   []entry
}

func newDocument(b *domain.Binding) (*document, error) {
	if b == nil || b.Dictionary == nil {
		return nil, fmt.Errorf("binding: %w", domain.ErrInvalidInput)
	}

	doc := &document{
		binding: b.ID,
		created: b.CreatedAt.UTC(),
		missing: b.Missing,
		values:  make([]entry, 0, b.Dictionary.Len()),
	}
	if b.Template != nil {
		doc.template = b.Template.Name
	}

	b.Dictionary.Range(func(key string, value domain.Value) bool {
		switch v := value.(type) {
		case domain.Number:
			doc.values = append(doc.values, entry{key: key, value: int64(v)})
		case domain.RichText:
			doc.html = append(doc.html, key)
			doc.values = append(doc.values, entry{key: key, value: v.HTML})
		default:
			doc.values = append(doc.values, entry{key: key, value: value.String()})
		}
		return true
	})
	return doc, nil
}
