package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ashmetov/booklib/public/internal/errs"
	"github.com/ashmetov/booklib/public/internal/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Repository interface {
	ListBooks(ctx context.Context, filter model.BooksFilter) (model.ListBooks, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	Borrow(ctx context.Context, userName string, bookID, days int) (model.BorrowedBook, error)
	Return(ctx context.Context, userName, borrowUID string) (model.BorrowedBook, error)
	MyBorrowed(ctx context.Context, userName string) ([]model.BorrowedBook, error)
	UpsertBook(ctx context.Context, req model.SyncBookRequest) (model.Book, bool, error)
	DeleteBook(ctx context.Context, isbn string) error
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName         = `books`
	publishersTableName    = `publishers`
	categoriesTableName    = `categories`
	borrowedBooksTableName = `borrowed_books`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func bookSelect() sq.SelectBuilder {
	return qb.Select(
		"b.id", "b.title", "b.author", "b.isbn",
		`p.name as publisher_name`, `c.name as category_name`,
		"b.published_date", "b.description", "b.is_available").
		From(booksTableName + " b").
		Join(publishersTableName + " p on p.id = b.publisher_id").
		Join(categoriesTableName + " c on c.id = b.category_id")
}

func (r *repository) ListBooks(ctx context.Context, filter model.BooksFilter) (model.ListBooks, error) {
	q := bookSelect().
		Where(sq.Eq{"b.is_available": true}).
		OrderBy("b.id")

	if filter.PublisherName != "" {
		q = q.Where(sq.ILike{"p.name": "%" + filter.PublisherName + "%"})
	}
	if filter.CategoryName != "" {
		q = q.Where(sq.ILike{"c.name": "%" + filter.CategoryName + "%"})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(sq.Or{
			sq.ILike{"b.title": pattern},
			sq.ILike{"b.author": pattern},
			sq.ILike{"b.isbn": pattern},
		})
	}
	if filter.Page != 0 && filter.Size != 0 {
		q = q.Limit(uint64(filter.Size)).Offset(uint64((filter.Page - 1) * filter.Size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          filter.Page,
			PageSize:      filter.Size,
			TotalElements: len(books),
		},
		Items: books,
	}, nil
}

func (r *repository) GetBook(ctx context.Context, id int) (model.Book, error) {
	query, args, err := bookSelect().
		Where(sq.Eq{"b.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) getBookTx(ctx context.Context, tx *sqlx.Tx, id int) (model.Book, error) {
	query, args, err := bookSelect().
		Where(sq.Eq{"b.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := tx.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

// Borrow flips Available -> Borrowed and writes the ledger entry as one
// transaction. The row lock on the book serializes concurrent borrows for the
// same book: the loser observes is_available=false and gets ErrNotAvailable.
func (r *repository) Borrow(ctx context.Context, userName string, bookID, days int) (model.BorrowedBook, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.BorrowedBook{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	var isAvailable bool
	err = tx.QueryRowContext(ctx,
		`select is_available from books where id = $1 for update`, bookID).Scan(&isAvailable)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BorrowedBook{}, errs.ErrBookNotFound
		}
		return model.BorrowedBook{}, err
	}
	if !isAvailable {
		return model.BorrowedBook{}, errs.ErrNotAvailable
	}

	if _, err = tx.ExecContext(ctx,
		`update books set is_available = false, updated_at = now() where id = $1`, bookID); err != nil {
		return model.BorrowedBook{}, err
	}

	now := time.Now().UTC()
	query, args, err := qb.Insert(borrowedBooksTableName).
		Columns("borrow_uid", "user_name", "book_id", "borrowed_date", "return_date").
		Values(uuid.New(), userName, bookID, now, now.AddDate(0, 0, days)).
		Suffix("returning id, borrow_uid, user_name, book_id, borrowed_date, return_date, actual_return_date").
		ToSql()
	if err != nil {
		return model.BorrowedBook{}, err
	}

	var borrowed model.BorrowedBook
	if err = tx.GetContext(ctx, &borrowed, query, args...); err != nil {
		r.log.Error("Borrow", zap.String("q", query), zap.Any("args", args))
		return model.BorrowedBook{}, err
	}
	if borrowed.Book, err = r.getBookTx(ctx, tx, bookID); err != nil {
		return model.BorrowedBook{}, err
	}

	return borrowed, tx.Commit()
}

// Return sets actual_return_date exactly once and flips the book back to
// Available in the same transaction. A second return matches zero rows and is
// rejected, never overwriting the original timestamp.
func (r *repository) Return(ctx context.Context, userName, borrowUID string) (model.BorrowedBook, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.BorrowedBook{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	q := `update borrowed_books
	set actual_return_date = now()
where borrow_uid = $1 and user_name = $2 and actual_return_date is null
returning id, borrow_uid, user_name, book_id, borrowed_date, return_date, actual_return_date`

	var borrowed model.BorrowedBook
	if err = tx.GetContext(ctx, &borrowed, q, borrowUID, userName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var returned bool
			checkErr := tx.QueryRowContext(ctx,
				`select actual_return_date is not null from borrowed_books where borrow_uid = $1 and user_name = $2`,
				borrowUID, userName).Scan(&returned)
			if checkErr == nil && returned {
				return model.BorrowedBook{}, errs.ErrAlreadyReturned
			}
			return model.BorrowedBook{}, errs.ErrNotFound
		}
		return model.BorrowedBook{}, err
	}

	if _, err = tx.ExecContext(ctx,
		`update books set is_available = true, updated_at = now() where id = $1`, borrowed.BookID); err != nil {
		return model.BorrowedBook{}, err
	}
	if borrowed.Book, err = r.getBookTx(ctx, tx, borrowed.BookID); err != nil {
		return model.BorrowedBook{}, err
	}

	return borrowed, tx.Commit()
}

func (r *repository) MyBorrowed(ctx context.Context, userName string) ([]model.BorrowedBook, error) {
	query, args, err := qb.Select(
		"bb.id", "bb.borrow_uid", "bb.user_name", "bb.book_id",
		"bb.borrowed_date", "bb.return_date", "bb.actual_return_date",
		`b.id as "book.id"`, `b.title as "book.title"`, `b.author as "book.author"`,
		`b.isbn as "book.isbn"`, `p.name as "book.publisher_name"`, `c.name as "book.category_name"`,
		`b.published_date as "book.published_date"`, `b.description as "book.description"`,
		`b.is_available as "book.is_available"`).
		From(borrowedBooksTableName + " bb").
		Join(booksTableName + " b on b.id = bb.book_id").
		Join(publishersTableName + " p on p.id = b.publisher_id").
		Join(categoriesTableName + " c on c.id = b.category_id").
		Where(sq.Eq{"bb.user_name": userName}).
		Where("bb.actual_return_date is null").
		OrderBy("bb.borrowed_date desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	var items []model.BorrowedBook
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertBook applies a catalog mutation from the admin service. Keyed by isbn
// so repeated delivery converges on the same row. On update is_available is
// left alone: only this service records borrowing activity.
func (r *repository) UpsertBook(ctx context.Context, req model.SyncBookRequest) (model.Book, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Book{}, false, err
	}
	defer tx.Rollback() //nolint:errcheck

	publisherID, err := getOrCreateByName(ctx, tx, publishersTableName, req.PublisherName)
	if err != nil {
		return model.Book{}, false, errors.Wrap(err, "publisher get-or-create")
	}
	categoryID, err := getOrCreateByName(ctx, tx, categoriesTableName, req.CategoryName)
	if err != nil {
		return model.Book{}, false, errors.Wrap(err, "category get-or-create")
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	q := `
insert into books (title, author, isbn, publisher_id, category_id, published_date, description, is_available)
values ($1, $2, $3, $4, $5, $6, $7, $8)
on conflict (isbn) do update set
    title = excluded.title,
    author = excluded.author,
    publisher_id = excluded.publisher_id,
    category_id = excluded.category_id,
    published_date = excluded.published_date,
    description = excluded.description,
    updated_at = now()
returning id, (xmax = 0) as created`

	var (
		id      int
		created bool
	)
	if err = tx.QueryRowContext(ctx, q,
		req.Title, req.Author, req.ISBN, publisherID, categoryID,
		req.PublishedDate, req.Description, isAvailable).Scan(&id, &created); err != nil {
		r.log.Error("UpsertBook", zap.String("isbn", req.ISBN), zap.Error(err))
		return model.Book{}, false, err
	}

	book, err := r.getBookTx(ctx, tx, id)
	if err != nil {
		return model.Book{}, false, err
	}
	return book, created, tx.Commit()
}

// DeleteBook removes the book by isbn; ledger rows go with it via the FK
// cascade. Zero affected rows is reported as not found, the end state is
// correct either way.
func (r *repository) DeleteBook(ctx context.Context, isbn string) error {
	res, err := r.db.ExecContext(ctx, `delete from books where isbn = $1`, isbn)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func getOrCreateByName(ctx context.Context, tx *sqlx.Tx, table, name string) (int, error) {
	// the no-op update makes the insert always return the row id
	q := `insert into ` + table + ` (name) values ($1)
on conflict (name) do update set updated_at = now()
returning id`
	var id int
	err := tx.QueryRowContext(ctx, q, name).Scan(&id)
	return id, err
}
