package domain

import (
	"net/http"

	apperrors "github.com/turfaa/halodoc-medisend-api/pkg/errors"
)

// Cookie names the Medisend API reads the session from.
const (
	UserIDCookie    = "afUserId"
	SessionIDCookie = "medisend-session-prod"
)

// Cookies is the caller-supplied credential pair sent with every request.
type Cookies struct {
	UserID    string `validate:"required"`
	SessionID string `validate:"required"`
}

// CookiesFromMap reads the credential pair keyed by cookie name.
func CookiesFromMap(m map[string]string) (Cookies, error) {
	userID, ok := m[UserIDCookie]
	if !ok {
		return Cookies{}, apperrors.MissingField(UserIDCookie)
	}
	sessionID, ok := m[SessionIDCookie]
	if !ok {
		return Cookies{}, apperrors.MissingField(SessionIDCookie)
	}
	return Cookies{UserID: userID, SessionID: sessionID}, nil
}

// ToMap returns the credential pair keyed by cookie name.
func (c Cookies) ToMap() map[string]string {
	return map[string]string{
		UserIDCookie:    c.UserID,
		SessionIDCookie: c.SessionID,
	}
}

// HTTPCookies returns the request cookies for the credential pair.
func (c Cookies) HTTPCookies() []*http.Cookie {
	return []*http.Cookie{
		{Name: UserIDCookie, Value: c.UserID},
		{Name: SessionIDCookie, Value: c.SessionID},
	}
}
