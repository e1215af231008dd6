// Package common contains shared constants and sentinel errors used across
// GophGate components.
package common

// AuthorizationHeaderName is the gRPC metadata key used to carry the
// bearer token on inbound and outbound requests.
const AuthorizationHeaderName = "authorization"

// BearerScheme is the authorization scheme prefix expected before the token.
const BearerScheme = "Bearer"

// WWWAuthenticateHeaderName is the response header sent with unauthenticated errors.
const WWWAuthenticateHeaderName = "www-authenticate"
