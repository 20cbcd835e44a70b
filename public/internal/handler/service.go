package handler

import (
	"context"

	"github.com/ashmetov/booklib/public/internal/model"
	"github.com/ashmetov/booklib/public/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type PublicService interface {
	ListBooks(ctx context.Context, filter model.BooksFilter) (model.ListBooks, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	Borrow(ctx context.Context, userName string, bookID, days int) (model.BorrowedBook, error)
	Return(ctx context.Context, userName, borrowUID string) (model.BorrowedBook, error)
	MyBorrowed(ctx context.Context, userName string) ([]model.BorrowedBook, error)
	UpsertBook(ctx context.Context, req model.SyncBookRequest) (model.Book, bool, error)
	DeleteBook(ctx context.Context, isbn string) error
}

var _ PublicService = (*service.Service)(nil)
