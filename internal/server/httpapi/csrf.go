package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Form names under which single-use tokens are issued and verified.
const (
	formLogin       = "login"
	formRegister    = "register"
	formProfile     = "profile"
	formReservation = "reservation"
	formCancel      = "cancel"
	formCat         = "cat"
)

const csrfField = "_csrf"

// formOwner identifies who a form token belongs to: the session id for
// logged-in users, a random cookie-backed id for anonymous visitors filling
// the login or registration form.
func (s *Server) formOwner(c *gin.Context) string {
	if session := currentSession(c); session != nil {
		return session.ID
	}

	if id, err := c.Cookie(formOwnerCookie); err == nil && id != "" {
		return id
	}

	id := uuid.New().String()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(formOwnerCookie, id, int(s.config.CSRFTokenTTL.Seconds()), "/", "", false, true)
	return id
}

// issueToken binds a fresh token to (owner, form) and returns it for
// embedding in the form.
func (s *Server) issueToken(c *gin.Context, form string) string {
	return s.tokens.Issue(s.formOwner(c), form)
}

// verifyToken consumes the submitted token. The value is read from the form
// field first and the X-CSRF-Token header as a fallback.
func (s *Server) verifyToken(c *gin.Context, form string) bool {
	submitted := c.PostForm(csrfField)
	if submitted == "" {
		submitted = c.GetHeader("X-CSRF-Token")
	}
	return s.tokens.Verify(s.formOwner(c), form, submitted)
}

// abortInvalidToken is the uniform response for any CSRF failure.
func abortInvalidToken(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid or expired form token"})
}
