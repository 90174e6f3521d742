// Package auth provides token providers for trackers.
//
// A GitHub Personal Access Token is read from DOCKET_GITHUB_TOKEN or from the
// github.token configuration key. Without one, trackers use anonymous access.
package auth
