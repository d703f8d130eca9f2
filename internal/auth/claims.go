package auth

import "time"

// AccessClaims represents the claims stored in a PASETO access token.
// These are encrypted in v4.local tokens, so they're not readable without the key.
type AccessClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// DeviceInfo describes the client that opened a session.
// Stored on the session for display and security review.
type DeviceInfo struct {
	DeviceType    string `json:"device_type"`    // mobile, desktop, web
	Platform      string `json:"platform"`       // iOS, Windows, Web, ...
	ClientName    string `json:"client_name"`    // MyMediaList Web
	ClientVersion string `json:"client_version"` // 1.0.0
}
