package recordfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
)

// recordFile is the on-disk form of a record.
type recordFile struct {
	ID          string           `yaml:"id"`
	Title       string           `yaml:"title"`
	Fields      []fieldFile      `yaml:"fields"`
	Revisions   []revisionFile   `yaml:"revisions"`
	Comments    []commentFile    `yaml:"comments"`
	Attachments []attachmentFile `yaml:"attachments"`
}

type fieldFile struct {
	Name  string `yaml:"name"`
	Ref   string `yaml:"ref"`
	Type  string `yaml:"type"`
	Value any    `yaml:"value"`
}

type revisionFile struct {
	Author  string       `yaml:"author"`
	Date    time.Time    `yaml:"date"`
	Changes []changeFile `yaml:"changes"`
}

type changeFile struct {
	Name  string `yaml:"name"`
	Ref   string `yaml:"ref"`
	Value any    `yaml:"value"`
}

type commentFile struct {
	Author string    `yaml:"author"`
	Date   time.Time `yaml:"date"`
	Body   string    `yaml:"body"`
}

type attachmentFile struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// loaded is a parsed record file with its side data.
type loaded struct {
	record   *domain.Record
	comments []domain.Comment
	paths    map[string]string // attachment id -> absolute path
	dir      string            // directory of the record file
}

// load reads and converts a record file.
func load(path string) (*loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record file: %w", err)
	}

	var rf recordFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse record file %s: %w", path, err)
	}
	if rf.ID == "" {
		return nil, fmt.Errorf("record file %s: missing id: %w", path, domain.ErrInvalidInput)
	}

	dir := filepath.Dir(path)
	out := &loaded{
		record: &domain.Record{ID: rf.ID, Title: rf.Title},
		paths:  make(map[string]string, len(rf.Attachments)),
		dir:    dir,
	}

	for _, f := range rf.Fields {
		if f.Name == "" && f.Ref == "" {
			return nil, fmt.Errorf("record file %s: field without name: %w", path, domain.ErrInvalidInput)
		}
		typ := domain.ParseFieldType(f.Type)
		value, err := coerce(typ, f.Value)
		if err != nil {
			return nil, fmt.Errorf("record file %s: field %s: %w", path, fieldLabel(f), err)
		}
		out.record.Fields = append(out.record.Fields, domain.Field{
			Name:          f.Name,
			ReferenceName: f.Ref,
			Type:          typ,
			Value:         value,
		})
	}

	for _, r := range rf.Revisions {
		rev := domain.Revision{Author: r.Author, ChangedAt: r.Date}
		for _, c := range r.Changes {
			rev.Changes = append(rev.Changes, domain.FieldChange{ReferenceName: c.Ref, Name: c.Name, Value: c.Value})
		}
		out.record.Revisions = append(out.record.Revisions, rev)
	}

	for _, c := range rf.Comments {
		out.comments = append(out.comments, domain.Comment{Author: c.Author, CreatedAt: c.Date, Body: c.Body})
	}

	for _, a := range rf.Attachments {
		name := a.Name
		if name == "" {
			name = filepath.Base(a.Path)
		}
		out.record.Attachments = append(out.record.Attachments, domain.Attachment{ID: a.ID, Name: name, URL: a.Path})
		p := a.Path
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		out.paths[a.ID] = p
	}

	return out, nil
}

// coerce converts a decoded YAML scalar to the Go type of the declared field type.
func coerce(typ domain.FieldType, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch typ {
	case domain.FieldTypeDateTime:
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case string:
			for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
				if parsed, err := time.Parse(layout, strings.TrimSpace(t)); err == nil {
					return parsed, nil
				}
			}
			return nil, fmt.Errorf("invalid date %q: %w", t, domain.ErrInvalidInput)
		}
	case domain.FieldTypeInteger:
		switch n := v.(type) {
		case int:
			return n, nil
		case string:
			parsed, err := strconv.Atoi(strings.TrimSpace(n))
			if err != nil {
				return nil, fmt.Errorf("invalid integer %q: %w", n, domain.ErrInvalidInput)
			}
			return parsed, nil
		}
	}
	return v, nil
}

func fieldLabel(f fieldFile) string {
	if f.Ref != "" {
		return f.Ref
	}
	return f.Name
}
