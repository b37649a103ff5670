// Package common contains shared constants and sentinel errors used across
// ubadesk components.
package common

const (
	// AuthorizationHeaderName carries the bearer credential on authenticated requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token inside the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName correlates a client request with server logs.
	RequestIDHeaderName = "X-Request-Id"

	// AuthPathPrefix is the base path of the authentication API.
	AuthPathPrefix = "/api/auth"
)
