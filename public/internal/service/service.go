package service

import (
	"context"

	"github.com/ashmetov/booklib/public/internal/model"
	"github.com/ashmetov/booklib/public/internal/repository"
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

func (s *Service) ListBooks(ctx context.Context, filter model.BooksFilter) (model.ListBooks, error) {
	return s.repo.ListBooks(ctx, filter)
}

func (s *Service) GetBook(ctx context.Context, id int) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) Borrow(ctx context.Context, userName string, bookID, days int) (model.BorrowedBook, error) {
	return s.repo.Borrow(ctx, userName, bookID, days)
}

func (s *Service) Return(ctx context.Context, userName, borrowUID string) (model.BorrowedBook, error) {
	return s.repo.Return(ctx, userName, borrowUID)
}

func (s *Service) MyBorrowed(ctx context.Context, userName string) ([]model.BorrowedBook, error) {
	return s.repo.MyBorrowed(ctx, userName)
}

func (s *Service) UpsertBook(ctx context.Context, req model.SyncBookRequest) (model.Book, bool, error) {
	return s.repo.UpsertBook(ctx, req)
}

func (s *Service) DeleteBook(ctx context.Context, isbn string) error {
	return s.repo.DeleteBook(ctx, isbn)
}
