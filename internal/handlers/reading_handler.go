package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leiturapay/leiturapay-backend/internal/models"
	"github.com/leiturapay/leiturapay-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReadingHandler handles the reading session HTTP surface
type ReadingHandler struct {
	readingService services.ReadingService
}

// NewReadingHandler creates a new ReadingHandler
func NewReadingHandler(readingService services.ReadingService) *ReadingHandler {
	return &ReadingHandler{
		readingService: readingService,
	}
}

// StartReading handles POST /api/books/:id/start-reading
func (h *ReadingHandler) StartReading(c *gin.Context) {
	bookID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID inválido")
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	session, err := h.readingService.StartReading(c.Request.Context(), userID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrLevelRequired):
			respondError(c, http.StatusForbidden, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, errInternal)
		}
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"sessionId": session.ID.Hex(),
		"startTime": session.StartTime,
	})
}

// CompleteReading handles POST /api/books/:id/complete
func (h *ReadingHandler) CompleteReading(c *gin.Context) {
	bookID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID inválido")
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	var req models.CompleteReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Dados inválidos")
		return
	}

	result, err := h.readingService.CompleteReading(c.Request.Context(), userID, bookID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrSessionNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrSessionClosed):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, errInternal)
		}
		return
	}

	respondData(c, http.StatusOK, result)
}
