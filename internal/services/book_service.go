package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leiturapay/leiturapay-backend/internal/models"
	"github.com/leiturapay/leiturapay-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure BookServiceImpl implements BookService
var _ BookService = (*BookServiceImpl)(nil)

// BookServiceImpl handles book catalog business logic
type BookServiceImpl struct {
	bookRepo   repositories.BookRepository
	reviewRepo repositories.ReviewRepository
}

// NewBookService creates a new BookServiceImpl
func NewBookService(bookRepo repositories.BookRepository, reviewRepo repositories.ReviewRepository) *BookServiceImpl {
	return &BookServiceImpl{
		bookRepo:   bookRepo,
		reviewRepo: reviewRepo,
	}
}

// GetBooks retrieves books, optionally filtered by status
func (s *BookServiceImpl) GetBooks(ctx context.Context, status string, page, limit int) ([]*models.Book, error) {
	return s.bookRepo.FindAll(ctx, status, page, limit)
}

// GetBookByID retrieves a book by ID
func (s *BookServiceImpl) GetBookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to load book: %w", err)
	}
	return book, nil
}

// GetBookReviews retrieves a book's reviews with pagination
func (s *BookServiceImpl) GetBookReviews(ctx context.Context, id primitive.ObjectID, page, limit int) ([]*models.Review, error) {
	return s.reviewRepo.FindByBookID(ctx, id, page, limit)
}

// CreateBook creates a new book
func (s *BookServiceImpl) CreateBook(ctx context.Context, book *models.Book) error {
	if strings.TrimSpace(book.Title) == "" || book.WordCount <= 0 {
		return ErrInvalidInput
	}
	if book.Status == "" {
		book.Status = models.BookStatusDraft
	}
	return s.bookRepo.Create(ctx, book)
}

// UpdateBook updates an existing book
func (s *BookServiceImpl) UpdateBook(ctx context.Context, book *models.Book) error {
	err := s.bookRepo.Update(ctx, book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrBookNotFound
	}
	return err
}

// DeleteBook deletes a book by ID
func (s *BookServiceImpl) DeleteBook(ctx context.Context, id primitive.ObjectID) error {
	err := s.bookRepo.Delete(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrBookNotFound
	}
	return err
}
