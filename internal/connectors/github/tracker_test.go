package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
)

type staticToken string

func (s staticToken) GetToken(context.Context) (string, error) { return string(s), nil }
func (s staticToken) AuthMethod() domain.AuthMethod {
	if s == "" {
		return domain.AuthMethodNone
	}
	return domain.AuthMethodPAT
}
func (s staticToken) IsAuthenticated() bool { return s != "" }

const issueJSON = `{
	"number": 7,
	"title": "Crash on start",
	"body": "It **fails**",
	"state": "closed",
	"state_reason": "completed",
	"user": {"login": "alice"},
	"assignees": [{"login": "bob"}, {"login": "cy"}],
	"labels": [{"name": "bug"}, {"name": "p1"}],
	"milestone": {"title": "v1.0"},
	"created_at": "2024-01-10T09:00:00Z",
	"updated_at": "2024-02-01T10:00:00Z",
	"closed_at": "2024-02-01T10:00:00Z",
	"html_url": "https://github.com/octo/hello/issues/7",
	"comments": 2
}`

const eventsJSON = `[
	{"event": "labeled", "actor": {"login": "bob"}, "created_at": "2024-01-11T09:00:00Z"},
	{"event": "milestoned", "actor": {"login": "cy"}, "milestone": {"title": "v1.0"}, "created_at": "2024-01-12T09:00:00Z"},
	{"event": "closed", "actor": {"login": "bob"}, "created_at": "2024-02-01T10:00:00Z"}
]`

const commentsJSON = `[
	{"user": {"login": "bob"}, "body": "Confirmed", "created_at": "2024-01-11T10:00:00Z"},
	{"user": {"login": "alice"}, "body": "Thanks", "created_at": "2024-01-12T10:00:00Z"}
]`

type fakeGitHub struct {
	*httptest.Server
	markdownStatus int
	authHeaders    []string
}

func newFakeGitHub(t *testing.T) *fakeGitHub {
	t.Helper()
	f := &fakeGitHub{markdownStatus: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v3/repos/octo/hello/issues/7", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, issueJSON)
	})
	mux.HandleFunc("GET /api/v3/repos/octo/hello/issues/7/events", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, eventsJSON)
	})
	mux.HandleFunc("GET /api/v3/repos/octo/hello/issues/7/comments", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, commentsJSON)
	})
	mux.HandleFunc("GET /api/v3/repos/octo/hello/issues/404", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message": "Not Found"}`)
	})
	mux.HandleFunc("POST /api/v3/markdown", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Text    string `json:"text"`
			Mode    string `json:"mode"`
			Context string `json:"context"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if f.markdownStatus != http.StatusOK {
			w.WriteHeader(f.markdownStatus)
			_, _ = io.WriteString(w, `{"message": "unavailable"}`)
			return
		}
		_, _ = io.WriteString(w, "<p>["+body.Mode+" "+body.Context+"] "+body.Text+"</p>")
	})
	mux.HandleFunc("GET /user-attachments/assets/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
		if r.PathValue("id") != "0a1b2c3d-0000-4000-8000-000000000001" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, "PNGDATA")
	})
	mux.HandleFunc("GET /sized/{n}", func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(r.PathValue("n"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write(make([]byte, n))
	})
	mux.HandleFunc("GET /limited", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(HeaderRetryAfter, "60")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeGitHub) tracker(token string) *Tracker {
	return New(staticToken(token), Config{
		BaseURL:     f.URL + "/api/v3/",
		WebURL:      f.URL,
		RequestRate: rate.Inf,
	})
}

func TestTracker_Record(t *testing.T) {
	srv := newFakeGitHub(t)
	tracker := srv.tracker("")

	record, err := tracker.Record(context.Background(), "octo/hello#7")
	require.NoError(t, err)

	assert.Equal(t, "7", record.ID)
	assert.Equal(t, "Crash on start", record.Title)

	field := func(ref string) any {
		f, ok := record.Field(ref)
		require.True(t, ok, "missing field %s", ref)
		return f.Value
	}
	assert.Equal(t, "<p>[gfm octo/hello] It **fails**</p>", field(domain.FieldDescription))
	assert.Equal(t, "closed", field(domain.FieldState))
	assert.Equal(t, "completed", field(FieldStateReason))
	assert.Equal(t, "bob, cy", field(domain.FieldAssignedTo))
	assert.Equal(t, "alice", field(domain.FieldCreatedBy))
	assert.Equal(t, "bug; p1", field(domain.FieldTags))
	assert.Equal(t, "v1.0", field(domain.FieldAreaPath))
	assert.Equal(t, "octo/hello", field(FieldRepository))
	assert.Equal(t, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), field(domain.FieldCreatedDate))

	desc, _ := record.Field(domain.FieldDescription)
	assert.Equal(t, domain.FieldTypeHTML, desc.Type)

	require.Len(t, record.Revisions, 3)
	assert.Equal(t, "alice", record.Revisions[0].Author)
	assert.Equal(t, "open", record.Revisions[0].Changes[0].Value)
	assert.Equal(t, domain.FieldAreaPath, record.Revisions[1].Changes[0].ReferenceName)
	assert.Equal(t, "cy", record.Revisions[1].Author)
	assert.Equal(t, "closed", record.Revisions[2].Changes[0].Value)
	assert.Equal(t, "bob", record.Revisions[2].Author)
}

func TestTracker_RecordByURL(t *testing.T) {
	srv := newFakeGitHub(t)

	record, err := srv.tracker("").Record(context.Background(), "https://github.com/octo/hello/issues/7")

	require.NoError(t, err)
	assert.Equal(t, "7", record.ID)
}

func TestTracker_RecordNotFound(t *testing.T) {
	srv := newFakeGitHub(t)

	_, err := srv.tracker("").Record(context.Background(), "octo/hello#404")

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTracker_RecordInvalidRef(t *testing.T) {
	srv := newFakeGitHub(t)

	_, err := srv.tracker("").Record(context.Background(), "not a ref")

	assert.ErrorIs(t, err, ErrInvalidRef)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTracker_MarkdownFailureFallsBackToText(t *testing.T) {
	srv := newFakeGitHub(t)
	srv.markdownStatus = http.StatusServiceUnavailable

	record, err := srv.tracker("").Record(context.Background(), "octo/hello#7")

	require.NoError(t, err)
	desc, _ := record.Field(domain.FieldDescription)
	assert.Equal(t, "<pre>It **fails**</pre>", desc.Value)
}

func TestTracker_Comments(t *testing.T) {
	srv := newFakeGitHub(t)
	tracker := srv.tracker("")
	record, err := tracker.Record(context.Background(), "octo/hello#7")
	require.NoError(t, err)

	comments, err := tracker.Comments(context.Background(), record)

	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "bob", comments[0].Author)
	assert.Equal(t, "<p>[gfm octo/hello] Confirmed</p>", comments[0].Body)
	assert.Equal(t, time.Date(2024, 1, 11, 10, 0, 0, 0, time.UTC), comments[0].CreatedAt)
	assert.Equal(t, "alice", comments[1].Author)
}

func TestTracker_CommentsWithoutRepository(t *testing.T) {
	srv := newFakeGitHub(t)

	_, err := srv.tracker("").Comments(context.Background(), &domain.Record{ID: "7"})

	assert.ErrorIs(t, err, ErrInvalidRef)
}

func TestTracker_ContentAndDownload(t *testing.T) {
	srv := newFakeGitHub(t)
	assetURL := srv.URL + "/user-attachments/assets/0a1b2c3d-0000-4000-8000-000000000001"

	anon := srv.tracker("")
	assert.False(t, anon.Authenticated())
	data, err := anon.Content(context.Background(), nil, "0a1b2c3d-0000-4000-8000-000000000001", "")
	require.NoError(t, err)
	assert.Equal(t, []byte("PNGDATA"), data)

	_, err = anon.Download(context.Background(), assetURL)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	authed := srv.tracker("s3cret")
	assert.True(t, authed.Authenticated())
	data, err = authed.Download(context.Background(), assetURL)
	require.NoError(t, err)
	assert.Equal(t, []byte("PNGDATA"), data)

	assert.Equal(t, []string{"", "Bearer s3cret"}, srv.authHeaders)
}

func TestTracker_ContentMissing(t *testing.T) {
	srv := newFakeGitHub(t)

	_, err := srv.tracker("").Content(context.Background(), nil, "ffff", "")

	assert.True(t, IsNotFound(err))
}

func TestTracker_FetchRateLimited(t *testing.T) {
	srv := newFakeGitHub(t)

	_, err := srv.tracker("tok").Download(context.Background(), srv.URL+"/limited")

	assert.True(t, IsRateLimited(err))
}

func TestTracker_FetchSizeLimit(t *testing.T) {
	srv := newFakeGitHub(t)
	tracker := srv.tracker("tok")
	ctx := context.Background()

	data, err := tracker.Download(ctx, srv.URL+"/sized/"+strconv.Itoa(MaxDownloadSize))
	require.NoError(t, err)
	assert.Len(t, data, MaxDownloadSize)

	data, err = tracker.Download(ctx, srv.URL+"/sized/"+strconv.Itoa(MaxDownloadSize+1))
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Nil(t, data)
}

func TestTracker_URLPatterns(t *testing.T) {
	tracker := New(nil, Config{})
	id := "0a1b2c3d-0000-4000-8000-000000000001"

	matches := func(src string) string {
		for _, p := range tracker.URLPatterns() {
			if m := p.FindStringSubmatch(src); m != nil {
				return m[p.SubexpIndex("fileId")]
			}
		}
		return ""
	}

	assert.Equal(t, id, matches("https://github.com/user-attachments/assets/"+id))
	assert.Equal(t, id, matches("https://github.com/octo/hello/assets/12345/"+id))
	assert.Empty(t, matches("https://example.com/user-attachments/assets/"+id))
}

func TestTracker_AttachmentContentNotSupported(t *testing.T) {
	_, err := New(nil, Config{}).AttachmentContent(context.Background(), &domain.Record{}, domain.Attachment{ID: "1"})

	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    IssueRef
		wantErr bool
	}{
		{name: "short", ref: "octo/hello#7", want: IssueRef{Owner: "octo", Repo: "hello", Number: 7}},
		{name: "dotted repo", ref: "octo/hello.go#12", want: IssueRef{Owner: "octo", Repo: "hello.go", Number: 12}},
		{name: "issue url", ref: "https://github.com/octo/hello/issues/7", want: IssueRef{Owner: "octo", Repo: "hello", Number: 7}},
		{name: "pull url", ref: "https://github.com/octo/hello/pull/9#discussion", want: IssueRef{Owner: "octo", Repo: "hello", Number: 9}},
		{name: "missing number", ref: "octo/hello", wantErr: true},
		{name: "zero", ref: "octo/hello#0", wantErr: true},
		{name: "empty", ref: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRef(tt.ref)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRef)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIssueRef_String(t *testing.T) {
	r := IssueRef{Owner: "octo", Repo: "hello", Number: 7}

	assert.Equal(t, "octo/hello#7", r.String())
	assert.Equal(t, "octo/hello", r.Repository())
}

func TestConfig_WebURLDefaults(t *testing.T) {
	assert.Equal(t, DefaultWebURL, Config{}.withDefaults().WebURL)
	assert.Equal(t, DefaultWebURL, Config{BaseURL: "https://api.github.com/"}.withDefaults().WebURL)
	assert.Equal(t, "https://ghe.corp", Config{BaseURL: "https://ghe.corp/api/v3/"}.withDefaults().WebURL)
	assert.Equal(t, "https://ghe.corp", Config{WebURL: "https://ghe.corp/"}.withDefaults().WebURL)
	assert.Equal(t, rate.Limit(ProactiveRate), Config{}.withDefaults().RequestRate)
}
