package service

import (
	"context"

	"github.com/ashmetov/booklib/admin/internal/model"
	"github.com/ashmetov/booklib/admin/internal/repository"
	"go.uber.org/zap"
)

type Service struct {
	log  *zap.Logger
	repo repository.Repository
}

func NewService(repo repository.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log,
		repo: repo,
	}
}

func (s *Service) CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error) {
	return s.repo.CreateBook(ctx, req)
}

func (s *Service) UpdateBook(ctx context.Context, id int, req model.BookRequest) (model.Book, error) {
	return s.repo.UpdateBook(ctx, id, req)
}

func (s *Service) DeleteBook(ctx context.Context, id int) (string, error) {
	return s.repo.DeleteBook(ctx, id)
}

func (s *Service) ListBooks(ctx context.Context, page, size int) ([]model.Book, error) {
	return s.repo.ListBooks(ctx, page, size)
}

func (s *Service) ListUsers(ctx context.Context) ([]model.LibraryUser, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) UnavailableBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.UnavailableBooks(ctx)
}
