package workitem

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
)

// HistoryExtractor derives keys from a record's revision log:
//
//	statechange.<state>.author, statechange.<state>.date
//	lastareapathchange.author, lastareapathchange.date
//
// When several revisions produce the same key the most recent one wins.
type HistoryExtractor struct {
	opts Options
}

// NewHistoryExtractor creates a history extractor.
func NewHistoryExtractor(opts Options) *HistoryExtractor {
	return &HistoryExtractor{opts: opts}
}

// Extract returns the derived keys. No revisions yields an empty dictionary.
func (h *HistoryExtractor) Extract(revisions []domain.Revision) *domain.Dictionary {
	dict := domain.NewDictionary()
	if len(revisions) == 0 {
		return dict
	}

	ordered := slices.Clone(revisions)
	slices.SortStableFunc(ordered, func(a, b domain.Revision) int {
		return a.ChangedAt.Compare(b.ChangedAt)
	})

	lower := cases.Lower(language.Und)
	layout := h.opts.dateLayout()
	for _, rev := range ordered {
		date := rev.ChangedAt.Format(layout)
		for _, change := range rev.Changes {
			switch {
			case strings.EqualFold(change.ReferenceName, domain.FieldState):
				if change.Value == nil {
					continue
				}
				state := lower.String(fmt.Sprint(change.Value))
				dict.SetText("statechange."+state+".author", rev.Author)
				dict.SetText("statechange."+state+".date", date)
			case strings.EqualFold(change.ReferenceName, domain.FieldAreaPath):
				dict.SetText("lastareapathchange.author", rev.Author)
				dict.SetText("lastareapathchange.date", date)
			}
		}
	}
	return dict
}
