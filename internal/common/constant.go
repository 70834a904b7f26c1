// Package common contains shared constants and sentinel errors used across
// JobBoard components.
package common

// Header names carried on every outbound API request.
const (
	HeaderAuthorization  = "Authorization"
	HeaderAcceptLanguage = "Accept-Language"
	HeaderFingerprint    = "X-Client-Fingerprint"
	HeaderContentType    = "Content-Type"
	HeaderAccept         = "Accept"
)

// BearerScheme prefixes the access token in the Authorization header.
const BearerScheme = "Bearer "

// ContentTypeJSON is the media type of every non-multipart request body.
const ContentTypeJSON = "application/json"

// Fixed API paths shared by the client and the mock backend.
const (
	RefreshPath = "/auth/refresh"
	LoginPath   = "/auth/login"
	LogoutPath  = "/auth/logout"
	MePath      = "/auth/me"
)
