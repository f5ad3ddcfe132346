package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rentacat/rentacat/internal/common"
)

// handleCatalogue lists the rentable cats. Logged-in visitors also get the
// token for the booking form shown next to the catalogue.
func (s *Server) handleCatalogue(c *gin.Context) {
	cats, err := s.cats.ListAvailable(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	response := gin.H{"cats": toCatViews(cats)}
	if currentSession(c) != nil {
		response["csrf_token"] = s.issueToken(c, formReservation)
	}

	c.JSON(http.StatusOK, response)
}

func (s *Server) handleReservationCreate(c *gin.Context) {
	if !s.verifyToken(c, formReservation) {
		abortInvalidToken(c)
		return
	}

	catID, err := strconv.ParseInt(c.PostForm("cat_id"), 10, 64)
	if err != nil {
		s.writeError(c, fmt.Errorf("%w: invalid cat id", common.ErrValidation))
		return
	}

	start, err := parseDate(c.PostForm("date_debut"))
	if err != nil {
		s.writeError(c, fmt.Errorf("%w: invalid start date, expected YYYY-MM-DD", common.ErrValidation))
		return
	}
	end, err := parseDate(c.PostForm("date_fin"))
	if err != nil {
		s.writeError(c, fmt.Errorf("%w: invalid end date, expected YYYY-MM-DD", common.ErrValidation))
		return
	}

	session := currentSession(c)
	reservation, err := s.reservations.Create(c.Request.Context(), session.UserID, catID, start, end)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"reservation": toReservationView(reservation)})
}

func (s *Server) handleReservationList(c *gin.Context) {
	session := currentSession(c)

	list, err := s.reservations.ListForUser(c.Request.Context(), session.UserID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservations": toReservationViews(list)})
}

// handleReservationGet shows one reservation and issues the token for its
// cancellation form.
func (s *Server) handleReservationGet(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.writeError(c, common.ErrNotFound)
		return
	}

	session := currentSession(c)
	reservation, err := s.reservations.Get(c.Request.Context(), session.UserID, id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reservation": toReservationView(reservation),
		"csrf_token":  s.issueToken(c, formCancel),
	})
}

func (s *Server) handleReservationCancel(c *gin.Context) {
	if !s.verifyToken(c, formCancel) {
		abortInvalidToken(c)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.writeError(c, common.ErrNotFound)
		return
	}

	session := currentSession(c)
	reservation, err := s.reservations.Cancel(c.Request.Context(), session.UserID, id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservation": toReservationView(reservation)})
}
