package adapter

import (
	"errors"
	"fmt"

	"github.com/nixysoftware/authbridge/internal/schema"
)

var (
	// ErrNoPrimaryEmail indicates a stored user with no email address
	// flagged primary. The generic shape requires exactly one canonical
	// email, so such a record cannot be translated.
	ErrNoPrimaryEmail = errors.New("adapter: user has no primary email address")
	// ErrDuplicateEmail indicates more than one user shares an email
	// address. The schema should prevent this; the mapper refuses to
	// silently pick one.
	ErrDuplicateEmail = errors.New("adapter: multiple users share the same email address")
)

// toAdapterUser projects a user with its entity and email addresses
// loaded onto the flat middleware shape. The primary-flagged address
// supplies the canonical email and verification timestamp.
func toAdapterUser(user schema.User) (*User, error) {
	var primary *schema.EmailAddress
	for i := range user.Entity.EmailAddresses {
		if user.Entity.EmailAddresses[i].IsPrimary {
			primary = &user.Entity.EmailAddresses[i]
			break
		}
	}
	if primary == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNoPrimaryEmail, user.ID)
	}

	return &User{
		ID:            user.ID,
		Name:          user.Entity.Name.Resolve(),
		Email:         primary.Email,
		EmailVerified: primary.VerifiedAt,
		Image:         user.Entity.ProfileImageURL,
	}, nil
}

// toNullableAdapterUser maps nil to nil and defers to toAdapterUser
// otherwise.
func toNullableAdapterUser(user *schema.User) (*User, error) {
	if user == nil {
		return nil, nil
	}
	return toAdapterUser(*user)
}

func toAdapterSession(session schema.Session) *Session {
	return &Session{
		SessionToken: session.Token,
		UserID:       session.UserID,
		Expires:      session.ExpiresAt,
	}
}

// toAdapterAccount renames the camelCase connection columns onto the
// snake_case OAuth field names. Pure renaming, no semantic transform.
func toAdapterAccount(connection schema.OAuthClientConnection) *Account {
	return &Account{
		Type:              "oauth",
		Provider:          connection.ProviderID,
		ProviderAccountID: connection.Identifier,
		UserID:            connection.UserID,
		RefreshToken:      connection.RefreshToken,
		AccessToken:       connection.AccessToken,
		ExpiresAt:         connection.ExpiresAt,
		TokenType:         connection.TokenType,
		Scope:             connection.Scope,
		IDToken:           connection.IDToken,
		SessionState:      connection.SessionState,
	}
}

// fromAdapterAccount is the inverse renaming for writes.
func fromAdapterAccount(account Account) schema.OAuthClientConnection {
	return schema.OAuthClientConnection{
		UserID:       account.UserID,
		ProviderID:   account.Provider,
		Identifier:   account.ProviderAccountID,
		RefreshToken: account.RefreshToken,
		AccessToken:  account.AccessToken,
		ExpiresAt:    account.ExpiresAt,
		TokenType:    account.TokenType,
		Scope:        account.Scope,
		IDToken:      account.IDToken,
		SessionState: account.SessionState,
	}
}

func toVerificationToken(token schema.AuthToken) *VerificationToken {
	return &VerificationToken{
		Identifier: token.Email,
		Token:      token.Token,
		Expires:    token.ExpiresAt,
	}
}
