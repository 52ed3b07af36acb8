package auth

import "github.com/golang-jwt/jwt/v5"

// ScopeCallsRead is the only scope this service ever asks the upstream for.
const ScopeCallsRead = "calls:read"

// Claims is the payload of the service tokens sent to the call API.
type Claims struct {
	jwt.RegisteredClaims

	Scope string `json:"scope"`
}
