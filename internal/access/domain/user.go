package domain

import "time"

type User struct {
	ID           string // UUID
	Email        string // globally unique
	Username     string // globally unique
	PasswordHash string // argon2id encoded, never plaintext
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Existence is the advisory pre-check used by registration to produce
// precise duplicate messages. The UNIQUE constraints in the store remain
// the authoritative arbiter.
type Existence struct {
	EmailExists    bool
	UsernameExists bool
}
