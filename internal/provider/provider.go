package provider

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"

	"github.com/nixysoftware/authbridge/internal/schema"
)

// ErrUnknownProviderType indicates a stored provider type with no
// registered constructor. This is a deployment/programming error, not
// a recoverable condition: a type was added to the stored enum without
// a matching registry entry.
var ErrUnknownProviderType = errors.New("provider: no constructor registered for provider type")

// Kind distinguishes plain OAuth 2.0 providers from OIDC ones.
type Kind string

const (
	KindOAuth Kind = "oauth"
	KindOIDC  Kind = "oidc"
)

// Profile maps a raw userinfo payload onto the normalized profile
// keys (id, name, email, image). Custom providers keep the payload
// unmodified since no schema is known for them.
type Profile func(raw map[string]any) map[string]any

// Runtime is the resolved OAuth client configuration handed to the
// authentication middleware.
type Runtime struct {
	ID            string
	Name          string
	Kind          Kind
	ClientID      string
	ClientSecret  string
	WellKnown     string
	Issuer        string
	Authorization Endpoint
	Token         Endpoint
	UserInfo      Endpoint
	Scopes        []string
	Checks        string
	Profile       Profile
}

// OAuth2Config builds an x/oauth2 client configuration for callers
// that drive the token exchange themselves. Only meaningful for
// providers with explicit authorization and token endpoints.
func (r Runtime) OAuth2Config(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     r.ClientID,
		ClientSecret: r.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  r.Authorization.URL,
			TokenURL: r.Token.URL,
		},
		Scopes:      r.Scopes,
		RedirectURL: redirectURL,
	}
}

// options carries the record-sourced inputs handed to a vendor
// constructor. Endpoint fields are zero when the record supplies no
// override.
type options struct {
	ClientID      string
	ClientSecret  string
	Authorization Endpoint
	Token         Endpoint
	UserInfo      Endpoint
}

// Resolve maps a stored provider record onto its runtime
// configuration. Generic OAUTH/OIDC records are built entirely from
// their own fields; vendor-typed records go through the registry and
// fail loudly when no constructor is registered for the type.
func Resolve(record schema.OAuthClientProvider) (Runtime, error) {
	if record.Type == schema.ProviderTypeOAuth || record.Type == schema.ProviderTypeOIDC {
		return resolveCustom(record)
	}

	construct, ok := registry[record.Type]
	if !ok {
		return Runtime{}, fmt.Errorf("%w: %s", ErrUnknownProviderType, record.Type)
	}

	opts, err := optionsFromRecord(record)
	if err != nil {
		return Runtime{}, err
	}

	runtime := construct(opts)
	runtime.ID = record.ID
	runtime.Name = record.Name

	// Record fields override the vendor defaults. Issuer-based vendors
	// have no fixed addresses at all; theirs come entirely from here.
	if issuer := deref(record.Issuer); issuer != "" {
		runtime.Issuer = issuer
	}
	if wellKnown := deref(record.WellKnown); wellKnown != "" {
		runtime.WellKnown = wellKnown
	}
	if !opts.Authorization.IsZero() {
		runtime.Authorization = opts.Authorization
	}
	if !opts.Token.IsZero() {
		runtime.Token = opts.Token
	}
	if !opts.UserInfo.IsZero() {
		runtime.UserInfo = opts.UserInfo
	}

	return runtime, nil
}

func resolveCustom(record schema.OAuthClientProvider) (Runtime, error) {
	runtime := Runtime{
		ID:           record.ID,
		Name:         record.Name,
		Kind:         KindOAuth,
		ClientID:     deref(record.ClientID),
		ClientSecret: deref(record.ClientSecret),
		WellKnown:    deref(record.WellKnown),
		Issuer:       deref(record.Issuer),
		Checks:       strings.ToLower(deref(record.Checks)),
		Profile:      identityProfile,
	}
	if record.Type == schema.ProviderTypeOIDC {
		runtime.Kind = KindOIDC
	}

	var err error
	if runtime.Authorization, err = ParseEndpoint(deref(record.Authorization)); err != nil {
		return Runtime{}, err
	}
	if runtime.Token, err = ParseEndpoint(deref(record.Token)); err != nil {
		return Runtime{}, err
	}
	if runtime.UserInfo, err = ParseEndpoint(deref(record.UserInfo)); err != nil {
		return Runtime{}, err
	}
	return runtime, nil
}

func optionsFromRecord(record schema.OAuthClientProvider) (options, error) {
	opts := options{
		ClientID:     deref(record.ClientID),
		ClientSecret: deref(record.ClientSecret),
	}

	var err error
	if opts.Authorization, err = ParseEndpoint(deref(record.Authorization)); err != nil {
		return options{}, err
	}
	if opts.Token, err = ParseEndpoint(deref(record.Token)); err != nil {
		return options{}, err
	}
	if opts.UserInfo, err = ParseEndpoint(deref(record.UserInfo)); err != nil {
		return options{}, err
	}
	return opts, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// identityProfile hands the raw userinfo payload back unmodified.
func identityProfile(raw map[string]any) map[string]any {
	return raw
}

// pickProfile maps the named raw keys onto the normalized profile
// shape.
func pickProfile(id, name, email, image string) Profile {
	return func(raw map[string]any) map[string]any {
		return map[string]any{
			"id":    raw[id],
			"name":  raw[name],
			"email": raw[email],
			"image": raw[image],
		}
	}
}

// oidcProfile covers the standard OIDC claim names.
var oidcProfile = pickProfile("sub", "name", "email", "picture")
