package repository

import (
	"context"
	"database/sql"

	"github.com/ashmetov/booklib/admin/internal/errs"
	"github.com/ashmetov/booklib/admin/internal/model"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Repository interface {
	CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, id int, req model.BookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int) (string, error)
	ListBooks(ctx context.Context, page, size int) ([]model.Book, error)
	ListUsers(ctx context.Context) ([]model.LibraryUser, error)
	UnavailableBooks(ctx context.Context) ([]model.Book, error)
	StoreDeadLetter(ctx context.Context, kind, isbn string, payload []byte, attempts int, lastErr string) error
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
	booksTableName       = `books`
	publishersTableName  = `publishers`
	categoriesTableName  = `categories`
	usersTableName       = `library_users`
	deadLettersTableName = `sync_dead_letters`
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

func (r *repository) CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Book{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	publisherID, err := getOrCreateByName(ctx, tx, publishersTableName, req.PublisherName)
	if err != nil {
		return model.Book{}, errors.Wrap(err, "publisher get-or-create")
	}
	categoryID, err := getOrCreateByName(ctx, tx, categoriesTableName, req.CategoryName)
	if err != nil {
		return model.Book{}, errors.Wrap(err, "category get-or-create")
	}

	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "isbn", "publisher_id", "category_id", "published_date", "description").
		Values(req.Title, req.Author, req.ISBN, publisherID, categoryID, req.PublishedDate, req.Description).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var id int
	if err = tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.Book{}, errs.ErrISBNExists
		}
		r.log.Error("CreateBook", zap.String("q", query), zap.Any("args", args))
		return model.Book{}, err
	}

	book, err := r.getBookTx(ctx, tx, id)
	if err != nil {
		return model.Book{}, err
	}
	return book, tx.Commit()
}

func (r *repository) UpdateBook(ctx context.Context, id int, req model.BookRequest) (model.Book, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Book{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	publisherID, err := getOrCreateByName(ctx, tx, publishersTableName, req.PublisherName)
	if err != nil {
		return model.Book{}, errors.Wrap(err, "publisher get-or-create")
	}
	categoryID, err := getOrCreateByName(ctx, tx, categoriesTableName, req.CategoryName)
	if err != nil {
		return model.Book{}, errors.Wrap(err, "category get-or-create")
	}

	query, args, err := qb.Update(booksTableName).
		Set("title", req.Title).
		Set("author", req.Author).
		Set("isbn", req.ISBN).
		Set("publisher_id", publisherID).
		Set("category_id", categoryID).
		Set("published_date", req.PublishedDate).
		Set("description", req.Description).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	if err = tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.Book{}, errs.ErrISBNExists
		}
		return model.Book{}, err
	}

	book, err := r.getBookTx(ctx, tx, id)
	if err != nil {
		return model.Book{}, err
	}
	return book, tx.Commit()
}

func (r *repository) DeleteBook(ctx context.Context, id int) (string, error) {
	var isbn string
	err := r.db.QueryRowContext(ctx,
		`delete from books where id = $1 returning isbn`, id).Scan(&isbn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", errs.ErrNotFound
		}
		return "", err
	}
	return isbn, nil
}

func (r *repository) ListBooks(ctx context.Context, page, size int) ([]model.Book, error) {
	q := bookSelect().OrderBy("b.id")
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) ListUsers(ctx context.Context) ([]model.LibraryUser, error) {
	query, args, err := qb.Select("id", "email", "first_name", "last_name", "enrollment_date").
		From(usersTableName).
		OrderBy("enrollment_date").
		ToSql()
	if err != nil {
		return nil, err
	}

	var users []model.LibraryUser
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, err
	}
	return users, nil
}

// UnavailableBooks reads the advisory availability flag; the authoritative
// state lives on the public service.
func (r *repository) UnavailableBooks(ctx context.Context) ([]model.Book, error) {
	query, args, err := bookSelect().
		Where(sq.Eq{"b.is_available": false}).
		OrderBy("b.id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) StoreDeadLetter(ctx context.Context, kind, isbn string, payload []byte, attempts int, lastErr string) error {
	query, args, err := qb.Insert(deadLettersTableName).
		Columns("kind", "isbn", "payload", "attempts", "last_error").
		Values(kind, isbn, payload, attempts, lastErr).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
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
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
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
