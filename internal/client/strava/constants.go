package strava

const (
	// AuthorizePath is the path of the OAuth authorization page.
	AuthorizePath = "/oauth/authorize"
	// LoginPath is the path of the login page.
	LoginPath = "/login"
	// SessionPath is the path the login form is submitted to.
	SessionPath = "/session"
	// AcceptApplicationPath is the path the consent form is submitted to.
	AcceptApplicationPath = "/oauth/accept_application"
	// TokenPath is the path of the token endpoint, used by both grant types.
	TokenPath = "/oauth/token"
)

const (
	// GrantTypeAuthorizationCode exchanges an authorization code for a token.
	GrantTypeAuthorizationCode = "authorization_code"
	// GrantTypeRefreshToken exchanges a refresh token for a new token.
	GrantTypeRefreshToken = "refresh_token"
)

// Form and query parameter names.
const (
	paramAccessToken  = "access_token"
	paramClientID     = "client_id"
	paramClientSecret = "client_secret"
	paramCode         = "code"
	paramGrantType    = "grant_type"
	paramRefreshToken = "refresh_token"
)

const (
	// contentTypeHeader is the HTTP header name for Content-Type.
	contentTypeHeader = "Content-Type"
	// formContentType is the content type of URL-encoded form bodies.
	formContentType = "application/x-www-form-urlencoded"
	// doNotTrackHeader is the HTTP header name for Do Not Track.
	doNotTrackHeader = "DNT"
	// hostHeader is the HTTP header name for Host.
	hostHeader = "Host"
	// userAgentHeader is the HTTP header name for User-Agent.
	userAgentHeader = "User-Agent"
)
