package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leiturapay/leiturapay-backend/internal/models"
	"github.com/leiturapay/leiturapay-backend/internal/services"
)

// WithdrawalHandler handles the reader-facing withdrawal HTTP surface
type WithdrawalHandler struct {
	withdrawalService services.WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler
func NewWithdrawalHandler(withdrawalService services.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalService: withdrawalService,
	}
}

// RequestWithdrawal handles POST /api/withdrawals
func (h *WithdrawalHandler) RequestWithdrawal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	var req models.WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Dados inválidos")
		return
	}

	withdrawal, err := h.withdrawalService.RequestWithdrawal(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput),
			errors.Is(err, services.ErrWithdrawalTooSmall):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrInsufficientBalance):
			respondError(c, http.StatusUnprocessableEntity, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, errInternal)
		}
		return
	}

	respondData(c, http.StatusCreated, withdrawal)
}

// GetMyWithdrawals handles GET /api/withdrawals
func (h *WithdrawalHandler) GetMyWithdrawals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}
	page, limit := pagination(c)

	withdrawals, err := h.withdrawalService.GetUserWithdrawals(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, errInternal)
		return
	}

	respondData(c, http.StatusOK, withdrawals)
}
