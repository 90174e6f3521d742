package workitem

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
	"github.com/custodia-labs/docket-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docket-cli/internal/normalisers/richtext"
)

// Fixed dictionary keys.
const (
	KeyID              = "id"
	KeyTitle           = "title"
	KeyAssignedTo      = "assignedto"
	KeyCreatedBy       = "createdby"
	KeyDescription     = "description"
	KeyDescriptionText = "description.txt"
	KeyComments        = "comments"
)

const commentDateLayout = "2006/01/02 03:04"

// FieldExtractor copies a record's attributes into a dictionary.
type FieldExtractor struct {
	tracker    driven.Tracker
	normaliser *richtext.Normaliser
	opts       Options
}

// NewFieldExtractor creates a field extractor. tracker supplies comments and
// image content; it may be nil, in which case neither is fetched.
func NewFieldExtractor(tracker driven.Tracker, normaliser *richtext.Normaliser, opts Options) *FieldExtractor {
	if normaliser == nil {
		normaliser = richtext.New(richtext.Options{})
	}
	return &FieldExtractor{tracker: tracker, normaliser: normaliser, opts: opts}
}

// Extract returns the record's fields as dictionary entries.
// Only a failure to fetch the comment thread is returned; rich-text
// problems degrade the affected value instead.
func (e *FieldExtractor) Extract(ctx context.Context, record *domain.Record) (*domain.Dictionary, error) {
	dict := domain.NewDictionary()
	resolver := e.resolver(record)

	dict.Set(KeyID, idValue(record.ID))
	dict.SetText(KeyTitle, record.Title)
	dict.SetText(KeyAssignedTo, e.fieldText(record, domain.FieldAssignedTo))
	dict.SetText(KeyCreatedBy, e.fieldText(record, domain.FieldCreatedBy))

	description := ""
	if f, ok := descriptionField(record); ok && f.Value != nil {
		description = fmt.Sprint(f.Value)
	}
	plain := richtext.Text(description)
	if e.opts.SkipHTMLFields {
		dict.SetText(KeyDescription, plain)
	} else {
		dict.Set(KeyDescription, domain.RichText{HTML: e.normaliser.Normalise(ctx, description, resolver)})
	}
	dict.SetText(KeyDescriptionText, plain)

	for _, f := range record.Fields {
		if isDescription(f) {
			continue
		}
		v := e.coerce(ctx, f, resolver)
		for _, key := range []string{f.Name, f.ReferenceName} {
			if key != "" && !isFixedKey(key) {
				dict.Set(key, v)
			}
		}
	}

	comments, err := e.comments(ctx, record, resolver)
	if err != nil {
		return nil, err
	}
	dict.Set(KeyComments, comments)

	return dict, nil
}

func (e *FieldExtractor) resolver(record *domain.Record) richtext.Resolver {
	if e.tracker == nil {
		return nil
	}
	return richtext.NewCachedResolver(richtext.NewTrackerResolver(e.tracker, record), e.opts.Cache)
}

func (e *FieldExtractor) coerce(ctx context.Context, f domain.Field, resolver richtext.Resolver) domain.Value {
	switch v := f.Value.(type) {
	case nil:
		return domain.Text("")
	case time.Time:
		return domain.Text(v.Format(e.opts.dateLayout()))
	case *time.Time:
		if v == nil {
			return domain.Text("")
		}
		return domain.Text(v.Format(e.opts.dateLayout()))
	}
	if f.Type == domain.FieldTypeHTML {
		return domain.RichText{HTML: e.normaliser.Normalise(ctx, fmt.Sprint(f.Value), resolver)}
	}
	return domain.Text(fmt.Sprint(f.Value))
}

func (e *FieldExtractor) fieldText(record *domain.Record, referenceName string) string {
	f, ok := record.Field(referenceName)
	if !ok || f.Value == nil {
		return ""
	}
	return fmt.Sprint(f.Value)
}

func (e *FieldExtractor) comments(
	ctx context.Context, record *domain.Record, resolver richtext.Resolver,
) (domain.Value, error) {
	if e.tracker == nil {
		return domain.Text(""), nil
	}
	thread, err := e.tracker.Comments(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("fetch comments: %w", err)
	}
	if len(thread) == 0 {
		return domain.Text(""), nil
	}

	entries := make([]string, len(thread))
	for i, c := range thread {
		entries[i] = fmt.Sprintf("<b>Author:</b> %s in date %s<br>%s",
			html.EscapeString(c.Author), c.CreatedAt.Format(commentDateLayout), c.Body)
	}
	block := strings.Join(entries, "<br>")

	if e.opts.SkipHTMLFields {
		return domain.Text(richtext.Text(block)), nil
	}
	return domain.RichText{HTML: e.normaliser.Normalise(ctx, block, resolver)}, nil
}

func idValue(id string) domain.Value {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return domain.Number(n)
	}
	return domain.Text(id)
}

func descriptionField(record *domain.Record) (domain.Field, bool) {
	if f, ok := record.Field(domain.FieldDescription); ok {
		return f, true
	}
	for _, f := range record.Fields {
		if strings.EqualFold(f.Name, KeyDescription) {
			return f, true
		}
	}
	return domain.Field{}, false
}

// isFixedKey reports whether key is produced from the record itself and
// must not be overwritten by a field of the same name.
func isFixedKey(key string) bool {
	switch strings.ToLower(key) {
	case KeyID, KeyTitle, KeyDescriptionText, KeyComments:
		return true
	}
	return false
}

func isDescription(f domain.Field) bool {
	return strings.EqualFold(f.Name, KeyDescription) ||
		strings.EqualFold(f.ReferenceName, domain.FieldDescription)
}
