package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rentacat/rentacat/internal/common"
	"github.com/rentacat/rentacat/internal/server/models"
)

// Admin-only catalogue management.

func (s *Server) handleCatForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"csrf_token": s.issueToken(c, formCat)})
}

// handleCatGet returns one cat together with the token for the edit form.
func (s *Server) handleCatGet(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.writeError(c, common.ErrNotFound)
		return
	}

	cat, err := s.cats.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cat":        toCatView(cat),
		"csrf_token": s.issueToken(c, formCat),
	})
}

func (s *Server) handleCatCreate(c *gin.Context) {
	if !s.verifyToken(c, formCat) {
		abortInvalidToken(c)
		return
	}

	cat, err := catFromForm(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	created, err := s.cats.Create(c.Request.Context(), cat)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"cat": toCatView(created)})
}

func (s *Server) handleCatUpdate(c *gin.Context) {
	if !s.verifyToken(c, formCat) {
		abortInvalidToken(c)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.writeError(c, common.ErrNotFound)
		return
	}

	cat, err := catFromForm(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	cat.ID = id

	if err := s.cats.Update(c.Request.Context(), cat); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cat": toCatView(cat)})
}

func (s *Server) handleCatDelete(c *gin.Context) {
	if !s.verifyToken(c, formCat) {
		abortInvalidToken(c)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.writeError(c, common.ErrNotFound)
		return
	}

	if err := s.cats.Delete(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func catFromForm(c *gin.Context) (*models.Cat, error) {
	age, err := strconv.Atoi(c.DefaultPostForm("age", "0"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid age", common.ErrValidation)
	}

	prix, err := strconv.ParseFloat(c.DefaultPostForm("prix", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid prix", common.ErrValidation)
	}

	disponible := true
	if v := c.PostForm("disponible"); v != "" {
		disponible, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid disponible flag", common.ErrValidation)
		}
	}

	return &models.Cat{
		Nom:          c.PostForm("nom"),
		Age:          age,
		Race:         c.PostForm("race"),
		Couleur:      c.PostForm("couleur"),
		Caractere:    c.PostForm("caractere"),
		JouetPrefere: c.PostForm("jouet_prefere"),
		Prix:         prix,
		Description:  c.PostForm("description"),
		Image:        c.PostForm("image"),
		Disponible:   disponible,
	}, nil
}
