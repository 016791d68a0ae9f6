package adapter

import "time"

// User is the flat user shape the authentication middleware works
// with. Exactly one canonical email; profile data folded in.
type User struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	EmailVerified *time.Time `json:"emailVerified"`
	Image         *string    `json:"image,omitempty"`
}

// Session is the middleware-facing session shape.
type Session struct {
	SessionToken string    `json:"sessionToken"`
	UserID       string    `json:"userId"`
	Expires      time.Time `json:"expires"`
}

// SessionAndUser pairs a session with its owning user for the joined
// lookup verb.
type SessionAndUser struct {
	Session Session
	User    User
}

// Account is the middleware-facing OAuth account shape. Token fields
// keep the snake_case names of the OAuth spec; the relational side
// uses camelCase columns, the mapper renames between the two.
type Account struct {
	Type              string  `json:"type"`
	Provider          string  `json:"provider"`
	ProviderAccountID string  `json:"providerAccountId"`
	UserID            string  `json:"userId"`
	RefreshToken      *string `json:"refresh_token,omitempty"`
	AccessToken       *string `json:"access_token,omitempty"`
	ExpiresAt         *int64  `json:"expires_at,omitempty"`
	TokenType         *string `json:"token_type,omitempty"`
	Scope             *string `json:"scope,omitempty"`
	IDToken           *string `json:"id_token,omitempty"`
	SessionState      *string `json:"session_state,omitempty"`
}

// VerificationToken is the middleware-facing one-time token shape.
type VerificationToken struct {
	Identifier string    `json:"identifier"`
	Token      string    `json:"token"`
	Expires    time.Time `json:"expires"`
}

// CreateUserInput carries the fields the middleware supplies when a
// user signs in for the first time.
type CreateUserInput struct {
	Name          string
	Email         string
	EmailVerified *time.Time
	Image         *string
}

// UpdateUserInput is a partial update. A nil field means "no change",
// never "clear".
type UpdateUserInput struct {
	ID            string
	Name          *string
	Email         *string
	EmailVerified *time.Time
	Image         *string
}

// UpdateSessionInput is a partial session update addressed by token.
type UpdateSessionInput struct {
	SessionToken string
	Expires      *time.Time
	UserID       *string
}
