package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentacat/rentacat/internal/common"
	"github.com/rentacat/rentacat/internal/server/auth"
	"github.com/rentacat/rentacat/internal/server/models"
	"github.com/rentacat/rentacat/internal/server/ratelimit"
)

const (
	sessionCookieName = "session_token"
	formOwnerCookie   = "form_owner"

	ctxSessionKey = "session"
)

// requestLogger logs one line per request in the structured format the rest
// of the app uses.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

// rateLimit applies the site-wide per-address budget.
func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.generalLimiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				gin.H{"error": "too many requests, try again later"})
			return
		}
		c.Next()
	}
}

// resolveSession reads the signed session cookie and, when it maps to a live
// server-side session, attaches the session record to the request. Requests
// with a missing, invalid or expired cookie proceed as anonymous; a dead
// cookie is cleared on the way out.
func (s *Server) resolveSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(sessionCookieName)
		if err != nil || tokenString == "" {
			c.Next()
			return
		}

		sessionID, err := auth.SessionIDFromToken(tokenString, s.jwtSecret)
		if err != nil {
			s.clearSessionCookie(c)
			c.Next()
			return
		}

		session, err := s.users.Authenticate(c.Request.Context(), sessionID)
		if err != nil {
			if errors.Is(err, common.ErrUnauthorized) || errors.Is(err, common.ErrSessionExpired) {
				s.clearSessionCookie(c)
			}
			c.Next()
			return
		}

		c.Set(ctxSessionKey, session)
		c.Next()
	}
}

// requireAuth rejects anonymous requests. Browsers navigating to a page get
// a redirect to the login form; everything else gets a JSON 401.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentSession(c) != nil {
			c.Next()
			return
		}

		if c.Request.Method == http.MethodGet {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	}
}

// requireAdmin rejects sessions without the admin flag. Runs after
// requireAuth.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := currentSession(c)
		if session == nil || !session.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// loginAllowed applies the tighter per-address-and-email login budget.
func (s *Server) loginAllowed(c *gin.Context, email string) bool {
	return s.loginLimiter.Allow(ratelimit.LoginKey(c.ClientIP(), email))
}

func currentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(ctxSessionKey)
	if !ok {
		return nil
	}
	session, ok := v.(*models.Session)
	if !ok {
		return nil
	}
	return session
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookieName, token, int(s.config.SessionLifetime.Seconds()), "/", "", false, true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
}
