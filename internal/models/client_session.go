package models

import "time"

// ClientSession is the server-side record of one browser's client state:
// its API tokens, locale preference and daily check-in stamps.
type ClientSession struct {
	ID           string
	AccessToken  string
	RefreshToken string
	Locale       string
	LastCheckIn  string // YYYY-MM-DD
	LastSkip     string // YYYY-MM-DD
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// DateStamp is the layout of the check-in and skip stamps
const DateStamp = "2006-01-02"

// IsExpired checks if the session has expired
func (s *ClientSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// HasToken reports whether an access token is stored
func (s *ClientSession) HasToken() bool {
	return s != nil && s.AccessToken != ""
}

// NeedsCheckIn reports whether the daily check-in prompt should show on day
func (s *ClientSession) NeedsCheckIn(day time.Time) bool {
	if !s.HasToken() {
		return false
	}
	today := day.Format(DateStamp)
	return s.LastCheckIn != today && s.LastSkip != today
}
