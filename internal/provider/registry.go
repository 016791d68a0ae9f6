package provider

import (
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/nixysoftware/authbridge/internal/schema"
)

// factory builds a runtime configuration from record-sourced client
// credentials. Defaults (endpoints, scopes, profile mapping) belong to
// the factory; the resolver applies record overrides afterwards.
type factory func(opts options) Runtime

// registry holds one constructor per supported vendor. Extending to a
// new vendor is additive: one enum constant, one entry here.
var registry = map[schema.ProviderType]factory{
	schema.ProviderTypeApple: oauthVendor(KindOIDC, oauth2.Endpoint{
		AuthURL:  "https://appleid.apple.com/auth/authorize",
		TokenURL: "https://appleid.apple.com/auth/token",
	}, "", oidcProfile, "name", "email"),
	schema.ProviderTypeAtlassian: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://auth.atlassian.com/authorize",
		TokenURL: "https://auth.atlassian.com/oauth/token",
	}, "https://api.atlassian.com/me", pickProfile("account_id", "name", "email", "picture"), "read:me"),
	schema.ProviderTypeAuth0:      issuerVendor("openid", "profile", "email"),
	schema.ProviderTypeAuthentik:  issuerVendor("openid", "profile", "email"),
	schema.ProviderTypeAzureAD:    azureAD,
	schema.ProviderTypeAzureADB2C: issuerVendor("openid", "profile", "email", "offline_access"),
	schema.ProviderTypeBattleNet: wellKnownVendor(
		"https://oauth.battle.net/.well-known/openid-configuration",
		pickProfile("sub", "battletag", "email", "picture"), "openid"),
	schema.ProviderTypeBox: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://account.box.com/api/oauth2/authorize",
		TokenURL: "https://api.box.com/oauth2/token",
	}, "https://api.box.com/2.0/users/me", pickProfile("id", "name", "login", "avatar_url")),
	schema.ProviderTypeBungie: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://www.bungie.net/en/OAuth/Authorize",
		TokenURL: "https://www.bungie.net/platform/app/oauth/token/",
	}, "https://www.bungie.net/platform/User/GetBungieNetUser/", identityProfile),
	schema.ProviderTypeCognito:  issuerVendor("openid", "profile", "email"),
	schema.ProviderTypeCoinbase: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://www.coinbase.com/oauth/authorize",
		TokenURL: "https://www.coinbase.com/oauth/token",
	}, "https://api.coinbase.com/v2/user", pickProfile("id", "name", "email", "avatar_url"), "wallet:user:email", "wallet:user:read"),
	schema.ProviderTypeDiscord: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://discord.com/api/oauth2/authorize",
		TokenURL: "https://discord.com/api/oauth2/token",
	}, "https://discord.com/api/users/@me", pickProfile("id", "username", "email", "avatar"), "identify", "email"),
	schema.ProviderTypeDropbox: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://www.dropbox.com/oauth2/authorize",
		TokenURL: "https://api.dropboxapi.com/oauth2/token",
	}, "https://api.dropboxapi.com/2/users/get_current_account", pickProfile("account_id", "name", "email", "profile_photo_url"), "account_info.read"),
	schema.ProviderTypeEVEOnline: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://login.eveonline.com/v2/oauth/authorize",
		TokenURL: "https://login.eveonline.com/v2/oauth/token",
	}, "https://login.eveonline.com/oauth/verify", pickProfile("CharacterID", "CharacterName", "email", "portrait"), "publicData"),
	schema.ProviderTypeFacebook: oauthVendor(KindOAuth, endpoints.Facebook,
		"https://graph.facebook.com/me?fields=id,name,email,picture",
		pickProfile("id", "name", "email", "picture"), "email"),
	schema.ProviderTypeFaceIt: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://accounts.faceit.com",
		TokenURL: "https://api.faceit.com/auth/v1/oauth/token",
	}, "https://api.faceit.com/auth/v1/resources/userinfo", pickProfile("guid", "nickname", "email", "picture"), "openid", "email", "profile"),
	schema.ProviderTypeFoursquare: oauthVendor(KindOAuth, endpoints.Foursquare,
		"https://api.foursquare.com/v2/users/self", identityProfile),
	schema.ProviderTypeFreshbooks: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://auth.freshbooks.com/service/auth/oauth/authorize",
		TokenURL: "https://api.freshbooks.com/auth/oauth/token",
	}, "https://api.freshbooks.com/auth/api/v1/users/me", identityProfile),
	schema.ProviderTypeFusionAuth: issuerVendor("openid", "offline_access"),
	schema.ProviderTypeGitHub: oauthVendor(KindOAuth, endpoints.GitHub,
		"https://api.github.com/user", githubProfile, "read:user", "user:email"),
	schema.ProviderTypeGitLab: oauthVendor(KindOAuth, endpoints.GitLab,
		"https://gitlab.com/api/v4/user", pickProfile("id", "name", "email", "avatar_url"), "read_user"),
	schema.ProviderTypeGoogle: wellKnownVendor(
		"https://accounts.google.com/.well-known/openid-configuration",
		oidcProfile, "openid", "email", "profile"),
	schema.ProviderTypeHubSpot: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://app.hubspot.com/oauth/authorize",
		TokenURL: "https://api.hubapi.com/oauth/v1/token",
	}, "https://api.hubapi.com/oauth/v1/access-tokens", pickProfile("user_id", "user", "user", "avatar"), "oauth"),
	schema.ProviderTypeInstagram: oauthVendor(KindOAuth, endpoints.Instagram,
		"https://graph.instagram.com/me?fields=id,username", pickProfile("id", "username", "email", "picture"), "user_profile"),
	schema.ProviderTypeKakao: oauthVendor(KindOAuth, endpoints.KaKao,
		"https://kapi.kakao.com/v2/user/me", identityProfile),
	schema.ProviderTypeKeycloak: issuerVendor("openid", "email", "profile"),
	schema.ProviderTypeLine: wellKnownVendor(
		"https://access.line.me/.well-known/openid-configuration",
		oidcProfile, "openid", "profile"),
	schema.ProviderTypeLinkedIn: oauthVendor(KindOIDC, endpoints.LinkedIn,
		"https://api.linkedin.com/v2/userinfo", oidcProfile, "openid", "profile", "email"),
	schema.ProviderTypeMailchimp: oauthVendor(KindOAuth, endpoints.Mailchimp,
		"https://login.mailchimp.com/oauth2/metadata", identityProfile),
	schema.ProviderTypeMailRu: oauthVendor(KindOAuth, endpoints.Mailru,
		"https://oauth.mail.ru/userinfo", pickProfile("id", "name", "email", "image"), "userinfo"),
	schema.ProviderTypeMedium: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://medium.com/m/oauth/authorize",
		TokenURL: "https://api.medium.com/v1/tokens",
	}, "https://api.medium.com/v1/me", pickProfile("id", "name", "email", "imageUrl"), "basicProfile"),
	schema.ProviderTypeNaver: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://nid.naver.com/oauth2.0/authorize",
		TokenURL: "https://nid.naver.com/oauth2.0/token",
	}, "https://openapi.naver.com/v1/nid/me", identityProfile),
	schema.ProviderTypeNetlify: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://app.netlify.com/authorize",
		TokenURL: "https://api.netlify.com/oauth/token",
	}, "https://api.netlify.com/api/v1/user", pickProfile("id", "full_name", "email", "avatar_url")),
	schema.ProviderTypeOkta:     issuerVendor("openid", "email", "profile"),
	schema.ProviderTypeOneLogin: issuerVendor("openid", "profile", "email"),
	schema.ProviderTypeOsso:     issuerVendor("openid", "email"),
	schema.ProviderTypeOsu: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://osu.ppy.sh/oauth/authorize",
		TokenURL: "https://osu.ppy.sh/oauth/token",
	}, "https://osu.ppy.sh/api/v2/me", pickProfile("id", "username", "email", "avatar_url"), "identify"),
	schema.ProviderTypePatreon: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://www.patreon.com/oauth2/authorize",
		TokenURL: "https://www.patreon.com/api/oauth2/token",
	}, "https://www.patreon.com/api/oauth2/api/current_user", identityProfile, "identity"),
	schema.ProviderTypePinterest: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://www.pinterest.com/oauth/",
		TokenURL: "https://api.pinterest.com/v5/oauth/token",
	}, "https://api.pinterest.com/v5/user_account", pickProfile("id", "username", "email", "profile_image"), "user_accounts:read"),
	schema.ProviderTypePipedrive: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://oauth.pipedrive.com/oauth/authorize",
		TokenURL: "https://oauth.pipedrive.com/oauth/token",
	}, "https://api.pipedrive.com/users/me", identityProfile),
	schema.ProviderTypeReddit: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://www.reddit.com/api/v1/authorize",
		TokenURL: "https://www.reddit.com/api/v1/access_token",
	}, "https://oauth.reddit.com/api/v1/me", pickProfile("id", "name", "email", "icon_img"), "identity"),
	schema.ProviderTypeSalesforce: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://login.salesforce.com/services/oauth2/authorize",
		TokenURL: "https://login.salesforce.com/services/oauth2/token",
	}, "https://login.salesforce.com/services/oauth2/userinfo", oidcProfile, "openid"),
	schema.ProviderTypeSlack: oauthVendor(KindOIDC, endpoints.Slack,
		"https://slack.com/api/openid.connect.userInfo", oidcProfile, "openid", "profile", "email"),
	schema.ProviderTypeSpotify: oauthVendor(KindOAuth, endpoints.Spotify,
		"https://api.spotify.com/v1/me", pickProfile("id", "display_name", "email", "images"), "user-read-email"),
	schema.ProviderTypeStrava: oauthVendor(KindOAuth, endpoints.Strava,
		"https://www.strava.com/api/v3/athlete", pickProfile("id", "firstname", "email", "profile"), "read"),
	schema.ProviderTypeTodoist: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://todoist.com/oauth/authorize",
		TokenURL: "https://todoist.com/oauth/access_token",
	}, "https://api.todoist.com/sync/v9/user", pickProfile("id", "full_name", "email", "avatar_big"), "data:read"),
	schema.ProviderTypeTrakt: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://trakt.tv/oauth/authorize",
		TokenURL: "https://api.trakt.tv/oauth/token",
	}, "https://api.trakt.tv/users/me?extended=full", identityProfile),
	schema.ProviderTypeTwitch: wellKnownVendor(
		"https://id.twitch.tv/oauth2/.well-known/openid-configuration",
		oidcProfile, "openid", "user:read:email"),
	schema.ProviderTypeTwitter: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://twitter.com/i/oauth2/authorize",
		TokenURL: "https://api.twitter.com/2/oauth2/token",
	}, "https://api.twitter.com/2/users/me", twitterProfile, "users.read", "tweet.read", "offline.access"),
	schema.ProviderTypeVK: oauthVendor(KindOAuth, endpoints.Vk,
		"https://api.vk.com/method/users.get?v=5.131", identityProfile, "email"),
	schema.ProviderTypeWikimedia: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://meta.wikimedia.org/w/rest.php/oauth2/authorize",
		TokenURL: "https://meta.wikimedia.org/w/rest.php/oauth2/access_token",
	}, "https://meta.wikimedia.org/w/rest.php/oauth2/resource/profile", pickProfile("sub", "username", "email", "picture")),
	schema.ProviderTypeWordPress: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://public-api.wordpress.com/oauth2/authorize",
		TokenURL: "https://public-api.wordpress.com/oauth2/token",
	}, "https://public-api.wordpress.com/rest/v1/me", pickProfile("ID", "display_name", "email", "avatar_URL"), "auth"),
	schema.ProviderTypeWorkOS: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://api.workos.com/sso/authorize",
		TokenURL: "https://api.workos.com/sso/token",
	}, "https://api.workos.com/sso/profile", pickProfile("id", "first_name", "email", "picture")),
	schema.ProviderTypeYandex: oauthVendor(KindOAuth, endpoints.Yandex,
		"https://login.yandex.ru/info?format=json", pickProfile("id", "real_name", "default_email", "default_avatar_id"), "login:email", "login:info"),
	schema.ProviderTypeZitadel: issuerVendor("openid", "email", "profile"),
	schema.ProviderTypeZoho: oauthVendor(KindOAuth, oauth2.Endpoint{
		AuthURL:  "https://accounts.zoho.com/oauth/v2/auth",
		TokenURL: "https://accounts.zoho.com/oauth/v2/token",
	}, "https://accounts.zoho.com/oauth/user/info", pickProfile("ZUID", "Display_Name", "Email", "picture"), "AaaServer.profile.Read"),
	schema.ProviderTypeZoom: oauthVendor(KindOAuth, endpoints.Zoom,
		"https://api.zoom.us/v2/users/me", pickProfile("id", "display_name", "email", "pic_url")),
}

// oauthVendor builds a factory around explicit authorization/token
// endpoints, typically from the x/oauth2 endpoints catalogue.
func oauthVendor(kind Kind, endpoint oauth2.Endpoint, userInfoURL string, profile Profile, scopes ...string) factory {
	return func(opts options) Runtime {
		checks := "state"
		if kind == KindOIDC {
			checks = "pkce"
		}
		return Runtime{
			Kind:          kind,
			ClientID:      opts.ClientID,
			ClientSecret:  opts.ClientSecret,
			Authorization: Endpoint{URL: endpoint.AuthURL},
			Token:         Endpoint{URL: endpoint.TokenURL},
			UserInfo:      Endpoint{URL: userInfoURL},
			Scopes:        scopes,
			Checks:        checks,
			Profile:       profile,
		}
	}
}

// wellKnownVendor builds a factory for OIDC vendors whose endpoints
// come from a fixed discovery document.
func wellKnownVendor(wellKnown string, profile Profile, scopes ...string) factory {
	return func(opts options) Runtime {
		return Runtime{
			Kind:         KindOIDC,
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			WellKnown:    wellKnown,
			Scopes:       scopes,
			Checks:       "pkce",
			Profile:      profile,
		}
	}
}

// issuerVendor covers self-hosted OIDC vendors (Keycloak, Okta, ...)
// whose discovery URL depends on a deployment-specific issuer. The
// record's own endpoint or well-known fields supply the addresses.
func issuerVendor(scopes ...string) factory {
	return func(opts options) Runtime {
		return Runtime{
			Kind:         KindOIDC,
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Scopes:       scopes,
			Checks:       "pkce",
			Profile:      oidcProfile,
		}
	}
}

// azureAD embeds the client id into the discovery URL so the
// middleware can resolve tenant-specific endpoints per application.
func azureAD(opts options) Runtime {
	return Runtime{
		Kind:         KindOIDC,
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		WellKnown: fmt.Sprintf(
			"https://login.microsoftonline.com/common/v2.0/.well-known/openid-configuration?appid=%s",
			opts.ClientID),
		Scopes:  []string{"openid", "profile", "email"},
		Checks:  "pkce",
		Profile: oidcProfile,
	}
}

// githubProfile falls back to the login when the display name is
// unset, matching what GitHub returns for accounts without one.
func githubProfile(raw map[string]any) map[string]any {
	name := raw["name"]
	if name == nil || name == "" {
		name = raw["login"]
	}
	return map[string]any{
		"id":    raw["id"],
		"name":  name,
		"email": raw["email"],
		"image": raw["avatar_url"],
	}
}

// twitterProfile unwraps the data envelope of the v2 users endpoint.
func twitterProfile(raw map[string]any) map[string]any {
	data, ok := raw["data"].(map[string]any)
	if !ok {
		return raw
	}
	return map[string]any{
		"id":    data["id"],
		"name":  data["name"],
		"email": data["email"],
		"image": data["profile_image_url"],
	}
}
