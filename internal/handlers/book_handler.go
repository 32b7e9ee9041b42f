package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leiturapay/leiturapay-backend/internal/models"
	"github.com/leiturapay/leiturapay-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookHandler handles book catalog HTTP requests
type BookHandler struct {
	bookService services.BookService
}

// NewBookHandler creates a new BookHandler
func NewBookHandler(bookService services.BookService) *BookHandler {
	return &BookHandler{
		bookService: bookService,
	}
}

// GetBooks handles GET /api/books. Readers only see published titles.
func (h *BookHandler) GetBooks(c *gin.Context) {
	page, limit := pagination(c)

	books, err := h.bookService.GetBooks(c.Request.Context(), models.BookStatusPublished, page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, errInternal)
		return
	}

	respondData(c, http.StatusOK, books)
}

// GetBookByID handles GET /api/books/:id
func (h *BookHandler) GetBookByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID inválido")
		return
	}

	book, err := h.bookService.GetBookByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrBookNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, errInternal)
		return
	}

	respondData(c, http.StatusOK, book)
}

// GetBookReviews handles GET /api/books/:id/reviews
func (h *BookHandler) GetBookReviews(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID inválido")
		return
	}
	page, limit := pagination(c)

	reviews, err := h.bookService.GetBookReviews(c.Request.Context(), id, page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, errInternal)
		return
	}

	respondData(c, http.StatusOK, reviews)
}
