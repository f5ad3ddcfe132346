package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentacat/rentacat/internal/server/services"
)

// handleProfileForm returns the current profile plus the token for the edit
// form.
func (s *Server) handleProfileForm(c *gin.Context) {
	session := currentSession(c)

	user, err := s.users.GetProfile(c.Request.Context(), session.UserID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	imageURL, err := s.images.ResolveURL(c.Request.Context(), user.Image)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":    toProfileView(user, imageURL),
		"csrf_token": s.issueToken(c, formProfile),
	})
}

// handleProfileUpdate processes the multipart edit form. An uploaded picture
// is stored first; if the profile update itself then fails the fresh file is
// discarded, and on success the previous one is removed.
func (s *Server) handleProfileUpdate(c *gin.Context) {
	if !s.verifyToken(c, formProfile) {
		abortInvalidToken(c)
		return
	}

	session := currentSession(c)
	ctx := c.Request.Context()

	var imageRef string
	if fh, err := c.FormFile("profileImage"); err == nil {
		imageRef, err = s.images.ProcessProfileImage(ctx, fh, session.UserID)
		if err != nil {
			s.writeError(c, err)
			return
		}
	}

	user, oldImage, err := s.users.UpdateProfile(ctx, session.UserID, services.UpdateProfileInput{
		Nom:         c.PostForm("nom"),
		Prenom:      c.PostForm("prenom"),
		Email:       c.PostForm("email"),
		Description: c.PostForm("description"),
		Image:       imageRef,
	})
	if err != nil {
		s.images.DiscardUpload(ctx, imageRef)
		s.writeError(c, err)
		return
	}

	s.images.RemoveProfileImage(ctx, oldImage)

	imageURL, err := s.images.ResolveURL(ctx, user.Image)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": toProfileView(user, imageURL)})
}
