package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentacat/rentacat/internal/server/auth"
	"github.com/rentacat/rentacat/internal/server/services"
)

// handleLoginForm issues the single-use token the login form must submit.
func (s *Server) handleLoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"csrf_token": s.issueToken(c, formLogin)})
}

func (s *Server) handleLogin(c *gin.Context) {
	if !s.verifyToken(c, formLogin) {
		abortInvalidToken(c)
		return
	}

	email := c.PostForm("email")
	password := c.PostForm("password")

	if !s.loginAllowed(c, email) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts, try again later"})
		return
	}

	session, err := s.users.Login(c.Request.Context(), email, password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	token, err := auth.GenerateSessionToken(session.ID, s.jwtSecret, s.config.SessionLifetime)
	if err != nil {
		s.logger.Error(c.Request.Context(), "signing session token failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	// the anonymous form owner is obsolete once the user is logged in
	s.tokens.DropSession(s.formOwner(c))
	s.setSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    session.UserID,
			"name":  session.Name,
			"email": session.Email,
			"admin": session.Admin,
		},
	})
}

func (s *Server) handleRegisterForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"csrf_token": s.issueToken(c, formRegister)})
}

func (s *Server) handleRegister(c *gin.Context) {
	if !s.verifyToken(c, formRegister) {
		abortInvalidToken(c)
		return
	}

	user, err := s.users.Register(c.Request.Context(), services.RegisterInput{
		Nom:         c.PostForm("nom"),
		Prenom:      c.PostForm("prenom"),
		Email:       c.PostForm("email"),
		Password:    c.PostForm("password"),
		Description: c.PostForm("description"),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"name":  user.DisplayName(),
			"email": user.Email,
		},
	})
}

// handleLogout destroys the server-side session and everything attached to
// it: the form tokens and the cookie. A failure to delete the session row is
// logged but never blocks the logout; the cookie and tokens go regardless.
func (s *Server) handleLogout(c *gin.Context) {
	session := currentSession(c)

	if err := s.users.Logout(c.Request.Context(), session.ID); err != nil {
		s.logger.Error(c.Request.Context(), "destroying session failed",
			"session_id", session.ID, "error", err)
	}

	s.tokens.DropSession(session.ID)
	s.clearSessionCookie(c)

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
