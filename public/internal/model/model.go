package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Date is a calendar date (YYYY-MM-DD) on the wire and in the store.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(time.DateOnly) + `"`), nil
}

func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v
		return nil
	case nil:
		return nil
	}
	return fmt.Errorf("unsupported date type %T", src)
}

type Book struct {
	ID            int    `json:"id" db:"id"`
	Title         string `json:"title" db:"title"`
	Author        string `json:"author" db:"author"`
	ISBN          string `json:"isbn" db:"isbn"`
	PublisherName string `json:"publisherName" db:"publisher_name"`
	CategoryName  string `json:"categoryName" db:"category_name"`
	PublishedDate Date   `json:"publishedDate" db:"published_date"`
	Description   string `json:"description" db:"description"`
	IsAvailable   bool   `json:"isAvailable" db:"is_available"`
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ListBooks struct {
	Paging
	Items  []Book `json:"items"`
}

type BooksFilter struct {
	PublisherName string
	CategoryName  string
	Search        string
	Page          int
	Size          int
}

type BorrowRequest struct {
	BookID int `json:"bookId" validate:"required"`
	Days   int `json:"days" validate:"required,min=1,max=30"`
}

// BorrowedBook is one ledger entry of a borrow-to-return cycle. Entries are
// never deleted; actual_return_date is set exactly once.
type BorrowedBook struct {
	ID               int        `json:"-" db:"id"`
	BorrowUID        string     `json:"borrowUid" db:"borrow_uid"`
	UserName         string     `json:"-" db:"user_name"`
	BookID           int        `json:"bookId" db:"book_id"`
	BorrowedDate     time.Time  `json:"borrowedDate" db:"borrowed_date"`
	ReturnDate       time.Time  `json:"returnDate" db:"return_date"`
	ActualReturnDate *time.Time `json:"actualReturnDate" db:"actual_return_date"`
	Book             Book       `json:"bookDetails" db:"book"`
}

// SyncBookRequest is the denormalized catalog payload pushed by the admin
// service. Records are correlated by isbn, never by id: surrogate ids are not
// guaranteed to match across services. Field names follow the inter-service
// wire format.
type SyncBookRequest struct {
	Title         string `json:"title" validate:"required"`
	Author        string `json:"author" validate:"required"`
	ISBN          string `json:"isbn" validate:"required,max=13"`
	PublisherName string `json:"publisher_name" validate:"required"`
	CategoryName  string `json:"category_name" validate:"required"`
	PublishedDate Date   `json:"published_date" validate:"required"`
	Description   string `json:"description"`
	IsAvailable   *bool  `json:"is_available"`
}

// SyncMessage is the Kafka envelope for catalog sync, keyed by isbn.
type SyncMessage struct {
	Kind string           `json:"kind"`
	ISBN string           `json:"isbn"`
	Book *SyncBookRequest `json:"book,omitempty"`
}

const (
	SyncKindUpsert = "upsert"
	SyncKindDelete = "delete"
)
