package common

import "errors"

// Token errors shared by the dev backend's JWT layer and its middleware.
// Callers should use errors.Is to match these values.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
