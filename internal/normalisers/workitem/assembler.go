package workitem

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
	"github.com/custodia-labs/docket-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docket-cli/internal/normalisers/richtext"
)

// Assembler builds the dictionary for one record.
type Assembler struct {
	fields  *FieldExtractor
	history *HistoryExtractor
}

// NewAssembler creates an assembler reading from tracker.
func NewAssembler(tracker driven.Tracker, normaliser *richtext.Normaliser, opts Options) *Assembler {
	return &Assembler{
		fields:  NewFieldExtractor(tracker, normaliser, opts),
		history: NewHistoryExtractor(opts),
	}
}

// Assemble returns the record's fields and history keys, each stored under
// prefix+key. History keys win over field keys.
func (a *Assembler) Assemble(ctx context.Context, record *domain.Record, prefix string) (*domain.Dictionary, error) {
	dict := domain.NewDictionary()
	if err := a.AssembleInto(ctx, dict, record, prefix); err != nil {
		return nil, err
	}
	return dict, nil
}

// AssembleInto is Assemble writing into an existing dictionary, so several
// records can be composed under different prefixes.
func (a *Assembler) AssembleInto(ctx context.Context, dst *domain.Dictionary, record *domain.Record, prefix string) error {
	if record == nil {
		return fmt.Errorf("assemble record: %w", domain.ErrInvalidInput)
	}

	dict, err := a.fields.Extract(ctx, record)
	if err != nil {
		return fmt.Errorf("extract record %s: %w", record.ID, err)
	}
	dict.Merge(a.history.Extract(record.Revisions), "")

	dst.Merge(dict, prefix)
	return nil
}
