package session

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const CookieName = "hospitalsuite_session"

func NewID() string {
	return uuid.NewString()
}

// IDFromRequest returns the session id carried by the request cookie, if it
// is a well-formed id.
func IDFromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	id := strings.TrimSpace(c.Value)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func SetCookie(w http.ResponseWriter, id string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ExpireCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
