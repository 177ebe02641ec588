package service

import "errors"

// Fatal sync error taxonomy. These surface in the run log and in the
// structured result returned to callers; they never escape as panics.
var (
	// ErrCredentialMissing means no delegated credential has ever been
	// stored. Recovery requires an admin to re-run the LinkedIn
	// authorization flow; retrying the sync will not help.
	ErrCredentialMissing = errors.New("no stored credential: linkedin authorization required")

	// ErrCredentialExpired means the access token lapsed and no refresh
	// token is available to renew it.
	ErrCredentialExpired = errors.New("credential expired and no refresh token available")

	// ErrNotConfigured means the LinkedIn client id/secret are absent, so
	// a live sync cannot even begin the token flow.
	ErrNotConfigured = errors.New("linkedin client credentials not configured")
)
