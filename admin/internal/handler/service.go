package handler

import (
	"context"

	"github.com/ashmetov/booklib/admin/internal/model"
	"github.com/ashmetov/booklib/admin/internal/service"
	"github.com/ashmetov/booklib/admin/internal/sync"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type AdminService interface {
	CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, id int, req model.BookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int) (string, error)
	ListBooks(ctx context.Context, page, size int) ([]model.Book, error)
	ListUsers(ctx context.Context) ([]model.LibraryUser, error)
	UnavailableBooks(ctx context.Context) ([]model.Book, error)
}

// Enqueuer hands catalog mutations to the sync dispatcher; it never blocks
// and never fails the calling request.
type Enqueuer interface {
	EnqueueUpsert(book model.SyncBook)
	EnqueueDelete(isbn string)
}

var (
	_ AdminService = (*service.Service)(nil)
	_ Enqueuer     = (*sync.Dispatcher)(nil)
)
