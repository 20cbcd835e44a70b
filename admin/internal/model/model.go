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
	// IsAvailable here is advisory only; the public service owns the real
	// availability since only it records borrowing.
	IsAvailable bool `json:"isAvailable" db:"is_available"`
}

type BookRequest struct {
	Title         string `json:"title" validate:"required,max=200"`
	Author        string `json:"author" validate:"required,max=100"`
	ISBN          string `json:"isbn" validate:"required,max=13"`
	PublisherName string `json:"publisherName" validate:"required,max=100"`
	CategoryName  string `json:"categoryName" validate:"required,max=50"`
	PublishedDate Date   `json:"publishedDate" validate:"required"`
	Description   string `json:"description"`
}

type LibraryUser struct {
	ID             int       `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	FirstName      string    `json:"firstName" db:"first_name"`
	LastName       string    `json:"lastName" db:"last_name"`
	EnrollmentDate time.Time `json:"enrollmentDate" db:"enrollment_date"`
}

// SyncBook is the denormalized payload the dispatcher pushes to the public
// service; keyed by isbn on the receiving side. Field names follow the
// inter-service wire format.
type SyncBook struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn"`
	PublisherName string `json:"publisher_name"`
	CategoryName  string `json:"category_name"`
	PublishedDate Date   `json:"published_date"`
	Description   string `json:"description"`
	IsAvailable   bool   `json:"is_available"`
}

func ToSyncBook(b Book) SyncBook {
	return SyncBook{
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		PublisherName: b.PublisherName,
		CategoryName:  b.CategoryName,
		PublishedDate: b.PublishedDate,
		Description:   b.Description,
		IsAvailable:   b.IsAvailable,
	}
}
