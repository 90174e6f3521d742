package domain

// AuthMethod defines how a tracker authenticates.
type AuthMethod string

const (
	// AuthMethodNone requires no authentication (e.g., local record files).
	AuthMethodNone AuthMethod = "none"
	// AuthMethodPAT uses a Personal Access Token.
	AuthMethodPAT AuthMethod = "pat"
)
