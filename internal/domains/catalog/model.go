package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Book is the read projection returned by every catalog query. Status,
// BorrowerID and BorrowerName are only filled by queries that join the
// circulation record.
type Book struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	PublicationYear *int       `json:"publication_year,omitempty"`
	Language        string     `json:"language"`
	PageCount       *int       `json:"page_count,omitempty"`
	CoverImageURL   *string    `json:"cover_image_url,omitempty"`
	SourceURL       *string    `json:"source_url,omitempty"`
	ISBN            *string    `json:"isbn,omitempty"`
	IsPublished     bool       `json:"is_published"`
	Views           int64      `json:"views"`
	FavoriteCount   int64      `json:"favorite_count"`
	CreatedAt       time.Time  `json:"created_at"`
	AuthorID        uuid.UUID  `json:"author_id"`
	AuthorName      string     `json:"author_name"`
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	CategoryName    *string    `json:"category_name,omitempty"`
	Status          string     `json:"status,omitempty"`
	BorrowerID      *uuid.UUID `json:"borrower_id,omitempty"`
	BorrowerName    *string    `json:"borrower_name,omitempty"`
}

type Source struct {
	SourceName string `json:"source_name"`
	SourceURL  string `json:"source_url"`
	IsFree     bool   `json:"is_free"`
}

type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	BookCount   int64     `json:"book_count"`
}

// BookDetails is the book page: the book with its current status plus
// where it can be read.
type BookDetails struct {
	Book
	Sources []Source `json:"sources"`
}

// NewBook is what CreateBook persists.
type NewBook struct {
	Title           string
	Description     *string
	CategoryID      uuid.UUID
	AuthorID        uuid.UUID
	PublicationYear *int
	Language        string
	PageCount       *int
	CoverImageURL   *string
	SourceURL       *string
	ISBN            *string
	IsPublished     bool
	Sources         []Source
}
