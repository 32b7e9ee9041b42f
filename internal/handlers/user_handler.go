package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leiturapay/leiturapay-backend/internal/services"
)

// UserHandler handles user account HTTP requests
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetMe handles GET /api/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, errInternal)
		return
	}

	respondData(c, http.StatusOK, user)
}

// GetMyTransactions handles GET /api/users/me/transactions
func (h *UserHandler) GetMyTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}
	page, limit := pagination(c)

	transactions, err := h.userService.GetTransactions(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, errInternal)
		return
	}

	respondData(c, http.StatusOK, transactions)
}
