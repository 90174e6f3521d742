package workitem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
)

func stateChange(author string, at time.Time, state string) domain.Revision {
	return domain.Revision{
		Author:    author,
		ChangedAt: at,
		Changes:   []domain.FieldChange{{ReferenceName: domain.FieldState, Name: "State", Value: state}},
	}
}

func TestHistoryExtractor_LaterStateChangeWins(t *testing.T) {
	d1 := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC)
	h := NewHistoryExtractor(Options{})

	dict := h.Extract([]domain.Revision{
		stateChange("U1", d1, "Active"),
		stateChange("U2", d2, "Active"),
	})

	assert.Equal(t, map[string]string{
		"statechange.active.author": "U2",
		"statechange.active.date":   "02/20/2024",
	}, flatten(dict))
}

func TestHistoryExtractor_OrdersByTimestamp(t *testing.T) {
	d1 := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC)
	h := NewHistoryExtractor(Options{})

	dict := h.Extract([]domain.Revision{
		stateChange("U2", d2, "Active"),
		stateChange("U1", d1, "Active"),
	})

	v, _ := dict.Get("statechange.active.author")
	assert.Equal(t, domain.Text("U2"), v)
}

func TestHistoryExtractor_StatesAndAreaPath(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	revisions := []domain.Revision{
		stateChange("ann", base, "New"),
		{
			Author:    "bo",
			ChangedAt: base.AddDate(0, 0, 1),
			Changes: []domain.FieldChange{
				{ReferenceName: domain.FieldAreaPath, Value: `Proj\Team A`},
				{ReferenceName: domain.FieldState, Value: "Resolved"},
			},
		},
		{
			Author:    "cy",
			ChangedAt: base.AddDate(0, 0, 2),
			Changes:   []domain.FieldChange{{ReferenceName: domain.FieldAreaPath, Value: `Proj\Team B`}},
		},
		{
			Author:    "di",
			ChangedAt: base.AddDate(0, 0, 3),
			Changes:   []domain.FieldChange{{ReferenceName: "System.Title", Value: "renamed"}},
		},
	}

	dict := NewHistoryExtractor(Options{DateLayout: "2006-01-02"}).Extract(revisions)

	assert.Equal(t, map[string]string{
		"statechange.new.author":      "ann",
		"statechange.new.date":        "2024-05-01",
		"statechange.resolved.author": "bo",
		"statechange.resolved.date":   "2024-05-02",
		"lastareapathchange.author":   "cy",
		"lastareapathchange.date":     "2024-05-03",
	}, flatten(dict))
}

func TestHistoryExtractor_NoRevisions(t *testing.T) {
	h := NewHistoryExtractor(Options{})

	assert.Equal(t, 0, h.Extract(nil).Len())
	assert.Equal(t, 0, h.Extract([]domain.Revision{}).Len())
}

func TestHistoryExtractor_LowercasesState(t *testing.T) {
	h := NewHistoryExtractor(Options{})

	dict := h.Extract([]domain.Revision{stateChange("u", time.Now(), "In Progress")})

	assert.True(t, dict.Has("statechange.in progress.author"))
	assert.Equal(t, []string{"statechange.in progress.author", "statechange.in progress.date"}, dict.Keys())
}

func TestHistoryExtractor_DoesNotMutateInput(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	revisions := []domain.Revision{
		stateChange("late", d1.AddDate(0, 1, 0), "Done"),
		stateChange("early", d1, "Done"),
	}

	NewHistoryExtractor(Options{}).Extract(revisions)

	assert.Equal(t, "late", revisions[0].Author)
}
