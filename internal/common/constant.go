// Package common contains shared constants and sentinel errors used across
// the admin console components.
package common

// AuthorizationHeaderName is the HTTP header used to carry the bearer token
// on outbound API requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token inside the Authorization header value.
const BearerPrefix = "Bearer "

// RequestIDHeaderName tags every outbound request so client and server logs
// can be correlated.
const RequestIDHeaderName = "X-Request-Id"

// Credential store keys. They mirror the two durable entries the console
// keeps between runs.
const (
	CredentialTokenKey = "token"
	CredentialUserKey  = "user"
)

// ResetConfirmationPhrase must be sent verbatim to the maintenance reset
// endpoint.
const ResetConfirmationPhrase = "RESET_DB"
