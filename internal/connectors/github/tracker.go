package github

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
	"github.com/custodia-labs/docket-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docket-cli/internal/logger"
)

// Ensure Tracker implements the interface.
var _ driven.Tracker = (*Tracker)(nil)

// Field reference names specific to GitHub issues.
const (
	FieldRepository  = "GitHub.Repository"
	FieldNumber      = "GitHub.Number"
	FieldURL         = "GitHub.URL"
	FieldStateReason = "GitHub.StateReason"
	FieldClosedDate  = "GitHub.ClosedDate"
	FieldComments    = "GitHub.CommentCount"
)

// Tracker reads GitHub issues as records.
type Tracker struct {
	client   *Client
	patterns []*regexp.Regexp
}

// New creates a GitHub tracker. tokenProvider may be nil for anonymous access.
func New(tokenProvider driven.TokenProvider, cfg Config) *Tracker {
	client := NewClient(tokenProvider, cfg)
	return &Tracker{client: client, patterns: attachmentPatterns(client.WebURL())}
}

// attachmentPatterns returns the shapes of images uploaded to issues and
// comments on the given web host.
func attachmentPatterns(webURL string) []*regexp.Regexp {
	base := regexp.QuoteMeta(webURL)
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)^` + base + `/user-attachments/assets/(?P<fileId>[0-9a-f-]+)`),
		regexp.MustCompile(`(?i)^` + base + `/[^/]+/[^/]+/assets/\d+/(?P<fileId>[0-9a-f-]+)`),
	}
}

// Type returns the tracker type identifier.
func (t *Tracker) Type() string {
	return TrackerType
}

// Authenticated reports whether a token is configured.
func (t *Tracker) Authenticated() bool {
	return t.client.Authenticated()
}

// URLPatterns returns the GitHub attachment URL shapes.
func (t *Tracker) URLPatterns() []*regexp.Regexp {
	return t.patterns
}

// Record fetches an issue with its events. ref is "owner/repo#N" or an
// issue URL.
func (t *Tracker) Record(ctx context.Context, ref string) (*domain.Record, error) {
	r, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}

	issue, err := t.client.GetIssue(ctx, r.Owner, r.Repo, r.Number)
	if err != nil {
		return nil, fmt.Errorf("fetch issue %s: %w", r, err)
	}

	events, err := t.client.ListIssueEvents(ctx, r.Owner, r.Repo, r.Number)
	if err != nil {
		return nil, fmt.Errorf("fetch events of %s: %w", r, err)
	}

	description := t.renderBody(ctx, issue.GetBody(), r.Repository())
	return buildRecord(r, issue, description, events), nil
}

// Comments fetches the issue's comments with bodies rendered to HTML.
func (t *Tracker) Comments(ctx context.Context, record *domain.Record) ([]domain.Comment, error) {
	r, err := refOf(record)
	if err != nil {
		return nil, err
	}

	comments, err := t.client.ListIssueComments(ctx, r.Owner, r.Repo, r.Number)
	if err != nil {
		return nil, fmt.Errorf("fetch comments of %s: %w", r, err)
	}

	out := make([]domain.Comment, len(comments))
	for i, c := range comments {
		out[i] = domain.Comment{
			Author:    c.GetUser().GetLogin(),
			CreatedAt: c.GetCreatedAt().Time,
			Body:      t.renderBody(ctx, c.GetBody(), r.Repository()),
		}
	}
	return out, nil
}

// AttachmentContent is not supported: GitHub has no attachment API and
// uploaded files are referenced by URL.
func (t *Tracker) AttachmentContent(context.Context, *domain.Record, domain.Attachment) ([]byte, error) {
	return nil, fmt.Errorf("github attachments: %w", domain.ErrNotImplemented)
}

// Download fetches a GitHub-hosted URL with the session token.
func (t *Tracker) Download(ctx context.Context, rawURL string) ([]byte, error) {
	return t.client.Fetch(ctx, rawURL, true)
}

// Content fetches an uploaded asset by its identifier without credentials.
// Only assets of public repositories are reachable this way.
func (t *Tracker) Content(ctx context.Context, _ *domain.Record, resourceID, _ string) ([]byte, error) {
	if resourceID == "" {
		return nil, fmt.Errorf("asset id: %w", domain.ErrInvalidInput)
	}
	return t.client.Fetch(ctx, t.client.WebURL()+"/user-attachments/assets/"+url.PathEscape(resourceID), false)
}

// renderBody renders markdown through the API, falling back to escaped
// text when rendering fails.
func (t *Tracker) renderBody(ctx context.Context, body, repository string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	rendered, err := t.client.RenderMarkdown(ctx, body, repository)
	if err != nil {
		logger.Warn("unable to render markdown for %s, using plain text: %v", repository, err)
		return "<pre>" + html.EscapeString(body) + "</pre>"
	}
	return rendered
}

func refOf(record *domain.Record) (IssueRef, error) {
	if record == nil {
		return IssueRef{}, fmt.Errorf("record: %w", domain.ErrInvalidInput)
	}
	f, ok := record.Field(FieldRepository)
	if !ok {
		return IssueRef{}, fmt.Errorf("%w: record %s has no repository", ErrInvalidRef, record.ID)
	}
	return ParseRef(fmt.Sprintf("%v#%s", f.Value, record.ID))
}

func buildRecord(r IssueRef, issue *gh.Issue, description string, events []*gh.IssueEvent) *domain.Record {
	labels := make([]string, len(issue.Labels))
	for i, l := range issue.Labels {
		labels[i] = l.GetName()
	}

	assignees := make([]string, len(issue.Assignees))
	for i, a := range issue.Assignees {
		assignees[i] = a.GetLogin()
	}
	if len(assignees) == 0 && issue.Assignee != nil {
		assignees = []string{issue.GetAssignee().GetLogin()}
	}

	var milestone string
	if issue.Milestone != nil {
		milestone = issue.Milestone.GetTitle()
	}

	var closedAt any
	if issue.ClosedAt != nil {
		closedAt = issue.GetClosedAt().Time
	}

	record := &domain.Record{
		ID:    strconv.Itoa(r.Number),
		Title: issue.GetTitle(),
		Fields: []domain.Field{
			{Name: "Title", ReferenceName: domain.FieldTitle, Type: domain.FieldTypeString, Value: issue.GetTitle()},
			{Name: "Description", ReferenceName: domain.FieldDescription, Type: domain.FieldTypeHTML, Value: description},
			{Name: "State", ReferenceName: domain.FieldState, Type: domain.FieldTypeString, Value: issue.GetState()},
			{Name: "State Reason", ReferenceName: FieldStateReason, Type: domain.FieldTypeString, Value: issue.GetStateReason()},
			{Name: "Assigned To", ReferenceName: domain.FieldAssignedTo, Type: domain.FieldTypeIdentity, Value: strings.Join(assignees, ", ")},
			{Name: "Created By", ReferenceName: domain.FieldCreatedBy, Type: domain.FieldTypeIdentity, Value: issue.GetUser().GetLogin()},
			{Name: "Created Date", ReferenceName: domain.FieldCreatedDate, Type: domain.FieldTypeDateTime, Value: issue.GetCreatedAt().Time},
			{Name: "Changed Date", ReferenceName: domain.FieldChangedDate, Type: domain.FieldTypeDateTime, Value: issue.GetUpdatedAt().Time},
			{Name: "Closed Date", ReferenceName: FieldClosedDate, Type: domain.FieldTypeDateTime, Value: closedAt},
			{Name: "Tags", ReferenceName: domain.FieldTags, Type: domain.FieldTypeString, Value: strings.Join(labels, "; ")},
			{Name: "Area Path", ReferenceName: domain.FieldAreaPath, Type: domain.FieldTypeTreePath, Value: milestone},
			{Name: "Repository", ReferenceName: FieldRepository, Type: domain.FieldTypeString, Value: r.Repository()},
			{Name: "Number", ReferenceName: FieldNumber, Type: domain.FieldTypeInteger, Value: issue.GetNumber()},
			{Name: "URL", ReferenceName: FieldURL, Type: domain.FieldTypeString, Value: issue.GetHTMLURL()},
			{Name: "Comment Count", ReferenceName: FieldComments, Type: domain.FieldTypeInteger, Value: issue.GetComments()},
		},
	}

	record.Revisions = append(record.Revisions, domain.Revision{
		Author:    issue.GetUser().GetLogin(),
		ChangedAt: issue.GetCreatedAt().Time,
		Changes:   []domain.FieldChange{{ReferenceName: domain.FieldState, Name: "State", Value: "open"}},
	})
	for _, e := range events {
		if rev, ok := revisionOf(e); ok {
			record.Revisions = append(record.Revisions, rev)
		}
	}
	return record
}

// revisionOf maps the issue events that change state or milestone.
func revisionOf(e *gh.IssueEvent) (domain.Revision, bool) {
	var change domain.FieldChange
	switch e.GetEvent() {
	case "closed":
		change = domain.FieldChange{ReferenceName: domain.FieldState, Name: "State", Value: "closed"}
	case "reopened":
		change = domain.FieldChange{ReferenceName: domain.FieldState, Name: "State", Value: "open"}
	case "milestoned":
		change = domain.FieldChange{ReferenceName: domain.FieldAreaPath, Name: "Area Path", Value: e.GetMilestone().GetTitle()}
	case "demilestoned":
		change = domain.FieldChange{ReferenceName: domain.FieldAreaPath, Name: "Area Path", Value: ""}
	default:
		return domain.Revision{}, false
	}
	return domain.Revision{
		Author:    e.GetActor().GetLogin(),
		ChangedAt: e.GetCreatedAt().Time,
		Changes:   []domain.FieldChange{change},
	}, true
}
