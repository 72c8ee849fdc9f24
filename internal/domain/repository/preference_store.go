package repository

import "context"

// PreferenceStore persists user preferences across restarts.
type PreferenceStore interface {
	DisclaimerAccepted(ctx context.Context) (bool, error)
	SetDisclaimerAccepted(ctx context.Context, accepted bool) error
}
