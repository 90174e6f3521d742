package github

import (
	"fmt"
	"regexp"
	"strconv"
)

// IssueRef identifies one issue.
type IssueRef struct {
	Owner  string
	Repo   string
	Number int
}

// Repository returns "owner/repo".
func (r IssueRef) Repository() string {
	return r.Owner + "/" + r.Repo
}

func (r IssueRef) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

var (
	shortRefPattern = regexp.MustCompile(`^([\w.-]+)/([\w.-]+)#(\d+)$`)
	urlRefPattern   = regexp.MustCompile(`^https?://[^/]+/([\w.-]+)/([\w.-]+)/(?:issues|pull)/(\d+)(?:[/?#].*)?$`)
)

// ParseRef parses "owner/repo#N" or an issue / pull request URL.
func ParseRef(ref string) (IssueRef, error) {
	m := shortRefPattern.FindStringSubmatch(ref)
	if m == nil {
		m = urlRefPattern.FindStringSubmatch(ref)
	}
	if m == nil {
		return IssueRef{}, fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}

	number, err := strconv.Atoi(m[3])
	if err != nil || number <= 0 {
		return IssueRef{}, fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	return IssueRef{Owner: m[1], Repo: m[2], Number: number}, nil
}
