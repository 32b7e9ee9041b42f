package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leiturapay/leiturapay-backend/internal/models"
	"github.com/leiturapay/leiturapay-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminHandler handles the admin panel HTTP surface: users, books and
// withdrawal settlement.
type AdminHandler struct {
	userService       services.UserService
	bookService       services.BookService
	withdrawalService services.WithdrawalService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	userService services.UserService,
	bookService services.BookService,
	withdrawalService services.WithdrawalService,
) *AdminHandler {
	return &AdminHandler{
		userService:       userService,
		bookService:       bookService,
		withdrawalService: withdrawalService,
	}
}

// GetUsers handles GET /api/admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	page, limit := pagination(c)

	users, err := h.userService.GetAllUsers(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, errInternal)
		return
	}

	respondData(c, http.StatusOK, users)
}

// GetUserCount handles GET /api/admin/users/count
func (h *AdminHandler) GetUserCount(c *gin.Context) {
	count, err := h.userService.GetUserCount(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, errInternal)
		return
	}

	respondData(c, http.StatusOK, gin.H{"count": count})
}

// UpdateUserPlan handles PUT /api/admin/users/:id/plan
func (h *AdminHandler) UpdateUserPlan(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID inválido")
		return
	}

	var req struct {
		PlanType string `json:"planType" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Dados inválidos")
		return
	}

	if err := h.userService.UpdatePlan(c.Request.Context(), id, req.PlanType); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, errInternal)
		}
		return
	}

	respondData(c, http.StatusOK, gin.H{"message": "Plano atualizado"})
}

// GetBooks handles GET /api/admin/books (all statuses)
func (h *AdminHandler) GetBooks(c *gin.Context) {
	page, limit := pagination(c)

	books, err := h.bookService.GetBooks(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, errInternal)
		return
	}

	respondData(c, http.StatusOK, books)
}

// CreateBook handles POST /api/admin/books
func (h *AdminHandler) CreateBook(c *gin.Context) {
	var book models.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		respondError(c, http.StatusBadRequest, "Dados inválidos")
		return
	}

	if err := h.bookService.CreateBook(c.Request.Context(), &book); err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, errInternal)
		return
	}

	respondData(c, http.StatusCreated, book)
}

// UpdateBook handles PUT /api/admin/books/:id
func (h *AdminHandler) UpdateBook(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID inválido")
		return
	}

	var book models.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		respondError(c, http.StatusBadRequest, "Dados inválidos")
		return
	}
	book.ID = id

	if err := h.bookService.UpdateBook(c.Request.Context(), &book); err != nil {
		if errors.Is(err, services.ErrBookNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, errInternal)
		return
	}

	respondData(c, http.StatusOK, book)
}

// DeleteBook handles DELETE /api/admin/books/:id
func (h *AdminHandler) DeleteBook(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID inválido")
		return
	}

	if err := h.bookService.DeleteBook(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrBookNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, errInternal)
		return
	}

	respondData(c, http.StatusOK, gin.H{"message": "Livro removido"})
}

// GetWithdrawals handles GET /api/admin/withdrawals
func (h *AdminHandler) GetWithdrawals(c *gin.Context) {
	page, limit := pagination(c)

	withdrawals, err := h.withdrawalService.GetWithdrawalsByStatus(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, errInternal)
		return
	}

	respondData(c, http.StatusOK, withdrawals)
}

// ApproveWithdrawal handles POST /api/admin/withdrawals/:id/approve
func (h *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	h.settleWithdrawal(c, h.withdrawalService.ApproveWithdrawal)
}

// RejectWithdrawal handles POST /api/admin/withdrawals/:id/reject
func (h *AdminHandler) RejectWithdrawal(c *gin.Context) {
	h.settleWithdrawal(c, h.withdrawalService.RejectWithdrawal)
}

func (h *AdminHandler) settleWithdrawal(c *gin.Context, settle func(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error)) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID inválido")
		return
	}

	withdrawal, err := settle(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWithdrawalNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrWithdrawalSettled):
			respondError(c, http.StatusConflict, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, errInternal)
		}
		return
	}

	respondData(c, http.StatusOK, withdrawal)
}
