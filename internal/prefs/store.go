// Package prefs persists per-visitor preferences: the remembered client
// profile, UI theme, last searched phone and the welcome-dialog dismissal.
// It is the server-side stand-in for the site's old localStorage keys.
package prefs

import (
	"context"
	"time"
)

// Theme values. Light is the default for visitors with no saved choice.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// WelcomeReshowAfter is how long a dismissal suppresses the welcome dialog.
const WelcomeReshowAfter = 30 * 24 * time.Hour

// Profile is the remembered client contact data.
type Profile struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// Store is the visitor preference capability. Implementations must treat a
// missing value as the zero value, not an error.
type Store interface {
	Profile(ctx context.Context, visitorID string) (*Profile, error)
	SaveProfile(ctx context.Context, visitorID string, p Profile) error
	Theme(ctx context.Context, visitorID string) (string, error)
	SaveTheme(ctx context.Context, visitorID, theme string) error
	SearchPhone(ctx context.Context, visitorID string) (string, error)
	SaveSearchPhone(ctx context.Context, visitorID, phone string) error
	WelcomeDismissedAt(ctx context.Context, visitorID string) (time.Time, error)
	MarkWelcomeDismissed(ctx context.Context, visitorID string, at time.Time) error
	Clear(ctx context.Context, visitorID string) error
}

// ShouldShowWelcome reports whether the welcome dialog should appear: it is
// shown to first-time visitors and re-shown once the dismissal is older than
// WelcomeReshowAfter.
func ShouldShowWelcome(dismissedAt, now time.Time) bool {
	if dismissedAt.IsZero() {
		return true
	}
	return now.Sub(dismissedAt) > WelcomeReshowAfter
}
