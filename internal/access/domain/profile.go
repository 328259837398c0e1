package domain

import "time"

// Profile is the optional one-to-one companion of a User, keyed by the
// user's id. It is created lazily on first profile update and removed with
// the owning user.
type Profile struct {
	UserID   string     // PK, FK to users
	Name     *string
	AboutMe  *string
	Birthday *time.Time
	Image    []byte // raw image blob
}
