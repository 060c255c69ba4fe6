package handlers

import "time"

const (
	SessionCookieName    = "session_id"
	ResetTokenCookieName = "reset_token"
	OAuthStateCookieName = "oauth_state"

	RequestIDHeader = "X-Request-Id"

	ErrInvalidFormData     = "Invalid form data"
	ErrUnauthorized        = "Unauthorized"
	ErrForbidden           = "Forbidden"
	ErrInternalServerError = "Internal server error"
	ErrTooManyRequests     = "Too many requests, please try again later"
	ErrInvalidCSRF         = "Invalid or missing CSRF token"
	ErrLessonNotEligible   = "The selected lesson cannot take this import"

	resetTokenTTL         = 15 * time.Minute
	oauthStateTTL         = 10 * time.Minute
	googleExchangeTimeout = 10 * time.Second

	adminPageSize  = 20
	lessonPageSize = 12
)
