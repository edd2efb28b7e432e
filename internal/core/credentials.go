package core

import "time"

// Credentials is the opaque token bundle issued by the authentication
// backend. It is owned by the session layer and always persisted and read
// as a single atomic unit.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Expired reports whether the access token is past (or within skew of)
// its expiry and needs a refresh before protected calls.
func (c Credentials) Expired(now time.Time, skew time.Duration) bool {
	return !now.Add(skew).Before(c.ExpiresAt)
}
