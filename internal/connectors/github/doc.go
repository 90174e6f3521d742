// Package github implements a tracker that reads GitHub issues as records.
//
// # Records
//
// An issue is addressed as "owner/repo#N" or by its URL. The issue maps onto
// the well-known field names: title, state, assignees, author, dates, labels
// (System.Tags) and milestone (System.AreaPath). The markdown body is
// rendered to HTML through the Markdown API so it can be normalised like any
// other rich-text field.
//
// Issue events become revisions: "closed" and "reopened" change System.State,
// "milestoned" and "demilestoned" change System.AreaPath. The creation of the
// issue is recorded as a transition into "open".
//
// # Attachments
//
// GitHub has no attachment API. Images pasted into issues are uploaded to
// user-attachments assets and referenced by URL; URLPatterns describes those
// shapes. With a token the asset URL is downloaded directly, otherwise the
// asset is requested anonymously by its identifier, which only succeeds for
// public repositories.
//
// # Authentication
//
// A personal access token is read lazily from the token provider on the
// first request. Without one, requests are anonymous and limited to 60 per
// hour by GitHub.
//
// # Rate Limiting
//
//  1. Proactive throttling: a token bucket limits requests to approximately
//     1.2 requests per second.
//
//  2. Reactive handling: X-RateLimit-Remaining and X-RateLimit-Reset headers
//     are tracked and requests wait for the reset once the quota runs low.
package github
