package schema

import "time"

// ProviderType enumerates the stored identity-provider kinds. One
// constant per supported vendor, plus the generic OAUTH and OIDC
// markers used for custom providers configured entirely from their
// own record fields.
type ProviderType string

const (
	ProviderTypeOAuth ProviderType = "OAUTH"
	ProviderTypeOIDC  ProviderType = "OIDC"

	ProviderTypeApple        ProviderType = "APPLE"
	ProviderTypeAtlassian    ProviderType = "ATLASSIAN"
	ProviderTypeAuth0        ProviderType = "AUTH0"
	ProviderTypeAuthentik    ProviderType = "AUTHENTIK"
	ProviderTypeAzureAD      ProviderType = "AZURE_AD"
	ProviderTypeAzureADB2C   ProviderType = "AZURE_AD_B2C"
	ProviderTypeBattleNet    ProviderType = "BATTLENET"
	ProviderTypeBox          ProviderType = "BOX"
	ProviderTypeBungie       ProviderType = "BUNGIE"
	ProviderTypeCognito      ProviderType = "COGNITO"
	ProviderTypeCoinbase     ProviderType = "COINBASE"
	ProviderTypeDiscord      ProviderType = "DISCORD"
	ProviderTypeDropbox      ProviderType = "DROPBOX"
	ProviderTypeEVEOnline    ProviderType = "EVEONLINE"
	ProviderTypeFacebook     ProviderType = "FACEBOOK"
	ProviderTypeFaceIt       ProviderType = "FACEIT"
	ProviderTypeFoursquare   ProviderType = "FOURSQUARE"
	ProviderTypeFreshbooks   ProviderType = "FRESHBOOKS"
	ProviderTypeFusionAuth   ProviderType = "FUSIONAUTH"
	ProviderTypeGitHub       ProviderType = "GITHUB"
	ProviderTypeGitLab       ProviderType = "GITLAB"
	ProviderTypeGoogle       ProviderType = "GOOGLE"
	ProviderTypeHubSpot      ProviderType = "HUBSPOT"
	ProviderTypeInstagram    ProviderType = "INSTAGRAM"
	ProviderTypeKakao        ProviderType = "KAKAO"
	ProviderTypeKeycloak     ProviderType = "KEYCLOAK"
	ProviderTypeLine         ProviderType = "LINE"
	ProviderTypeLinkedIn     ProviderType = "LINKEDIN"
	ProviderTypeMailchimp    ProviderType = "MAILCHIMP"
	ProviderTypeMailRu       ProviderType = "MAILRU"
	ProviderTypeMedium       ProviderType = "MEDIUM"
	ProviderTypeNaver        ProviderType = "NAVER"
	ProviderTypeNetlify      ProviderType = "NETLIFY"
	ProviderTypeOkta         ProviderType = "OKTA"
	ProviderTypeOneLogin     ProviderType = "ONELOGIN"
	ProviderTypeOsso         ProviderType = "OSSO"
	ProviderTypeOsu          ProviderType = "OSU"
	ProviderTypePatreon      ProviderType = "PATREON"
	ProviderTypePinterest    ProviderType = "PINTEREST"
	ProviderTypePipedrive    ProviderType = "PIPEDRIVE"
	ProviderTypeReddit       ProviderType = "REDDIT"
	ProviderTypeSalesforce   ProviderType = "SALESFORCE"
	ProviderTypeSlack        ProviderType = "SLACK"
	ProviderTypeSpotify      ProviderType = "SPOTIFY"
	ProviderTypeStrava       ProviderType = "STRAVA"
	ProviderTypeTodoist      ProviderType = "TODOIST"
	ProviderTypeTrakt        ProviderType = "TRAKT"
	ProviderTypeTwitch       ProviderType = "TWITCH"
	ProviderTypeTwitter      ProviderType = "TWITTER"
	ProviderTypeVK           ProviderType = "VK"
	ProviderTypeWikimedia    ProviderType = "WIKIMEDIA"
	ProviderTypeWordPress    ProviderType = "WORDPRESS"
	ProviderTypeWorkOS       ProviderType = "WORKOS"
	ProviderTypeYandex       ProviderType = "YANDEX"
	ProviderTypeZitadel      ProviderType = "ZITADEL"
	ProviderTypeZoho         ProviderType = "ZOHO"
	ProviderTypeZoom         ProviderType = "ZOOM"
)

// VendorProviderTypes lists every vendor constant, excluding the
// generic OAUTH and OIDC markers.
func VendorProviderTypes() []ProviderType {
	return []ProviderType{
		ProviderTypeApple, ProviderTypeAtlassian, ProviderTypeAuth0,
		ProviderTypeAuthentik, ProviderTypeAzureAD, ProviderTypeAzureADB2C,
		ProviderTypeBattleNet, ProviderTypeBox, ProviderTypeBungie,
		ProviderTypeCognito, ProviderTypeCoinbase, ProviderTypeDiscord,
		ProviderTypeDropbox, ProviderTypeEVEOnline, ProviderTypeFacebook,
		ProviderTypeFaceIt, ProviderTypeFoursquare, ProviderTypeFreshbooks,
		ProviderTypeFusionAuth, ProviderTypeGitHub, ProviderTypeGitLab,
		ProviderTypeGoogle, ProviderTypeHubSpot, ProviderTypeInstagram,
		ProviderTypeKakao, ProviderTypeKeycloak, ProviderTypeLine,
		ProviderTypeLinkedIn, ProviderTypeMailchimp, ProviderTypeMailRu,
		ProviderTypeMedium, ProviderTypeNaver, ProviderTypeNetlify,
		ProviderTypeOkta, ProviderTypeOneLogin, ProviderTypeOsso,
		ProviderTypeOsu, ProviderTypePatreon, ProviderTypePinterest,
		ProviderTypePipedrive, ProviderTypeReddit, ProviderTypeSalesforce,
		ProviderTypeSlack, ProviderTypeSpotify, ProviderTypeStrava,
		ProviderTypeTodoist, ProviderTypeTrakt, ProviderTypeTwitch,
		ProviderTypeTwitter, ProviderTypeVK, ProviderTypeWikimedia,
		ProviderTypeWordPress, ProviderTypeWorkOS, ProviderTypeYandex,
		ProviderTypeZitadel, ProviderTypeZoho, ProviderTypeZoom,
	}
}

// OAuthClientProvider is a persisted OAuth/OIDC client configuration.
// Vendor-typed records only need client credentials; the endpoint
// columns exist for the generic OAUTH/OIDC path and for per-record
// overrides of vendor defaults. Endpoint columns hold either a bare
// URL or a JSON object with url and params.
type OAuthClientProvider struct {
	ID            string       `gorm:"column:id;primaryKey;size:190;not null"`
	Type          ProviderType `gorm:"column:type;size:32;not null;index"`
	Name          string       `gorm:"column:name;size:190;not null"`
	IsGlobal      bool         `gorm:"column:is_global;not null;default:false;index"`
	WellKnown     *string      `gorm:"column:well_known;size:512"`
	Issuer        *string      `gorm:"column:issuer;size:512"`
	Authorization *string      `gorm:"column:authorization;type:text"`
	Token         *string      `gorm:"column:token;type:text"`
	UserInfo      *string      `gorm:"column:userinfo;type:text"`
	ClientID      *string      `gorm:"column:client_id;size:190"`
	ClientSecret  *string      `gorm:"column:client_secret;size:190"`
	Checks        *string      `gorm:"column:checks;size:32"`
	CreatedAt     time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName provides the explicit table binding for GORM.
func (OAuthClientProvider) TableName() string {
	return "oauth_client_providers"
}
