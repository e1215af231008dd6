package common

import "strings"

// BearerValue formats token as an authorization header value.
func BearerValue(token string) string {
	return BearerScheme + " " + token
}

// ParseBearer extracts the token from an authorization header value of the
// form "Bearer <token>". The scheme is matched case-insensitively. It reports
// false for an empty value, a different scheme or an empty token.
func ParseBearer(value string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(value), " ")
	if !ok || !strings.EqualFold(scheme, BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
