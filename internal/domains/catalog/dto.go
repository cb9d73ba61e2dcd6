package catalog

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"library-backend/internal/domains/catalog/query"
)

const defaultLanguage = "English"

type SearchParams struct {
	Term     string
	Category string
	Sort     query.Sort
	Limit    int
}

type SourceInput struct {
	SourceName string `json:"source_name"`
	SourceURL  string `json:"source_url"`
	IsFree     bool   `json:"is_free"`
}

func (s SourceInput) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.SourceName, validation.Required, validation.Length(1, 200)),
		validation.Field(&s.SourceURL, validation.Required, is.URL),
	)
}

type CreateBookRequest struct {
	Title           string        `json:"title"`
	Description     *string       `json:"description,omitempty"`
	CategoryID      string        `json:"category_id"`
	PublicationYear *int          `json:"publication_year,omitempty"`
	Language        string        `json:"language,omitempty"`
	PageCount       *int          `json:"page_count,omitempty"`
	CoverImageURL   *string       `json:"cover_image_url,omitempty"`
	SourceURL       *string       `json:"source_url,omitempty"`
	ISBN            *string       `json:"isbn,omitempty"`
	Sources         []SourceInput `json:"sources,omitempty"`
}

func (r CreateBookRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	maxYear := time.Now().Year() + 1
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 500),
		),
		validation.Field(&r.CategoryID,
			validation.Required.Error("category_id is required"),
			is.UUID.Error("category_id must be a UUID"),
		),
		validation.Field(&r.PublicationYear, validation.Min(1), validation.Max(maxYear)),
		validation.Field(&r.PageCount, validation.Min(1)),
		validation.Field(&r.Language, validation.Length(0, 50)),
		validation.Field(&r.CoverImageURL, is.URL),
		validation.Field(&r.SourceURL, is.URL),
		validation.Field(&r.ISBN, validation.Length(10, 20)),
		validation.Field(&r.Sources, validation.Length(0, 20)),
	)
}

// ToNewBook applies defaults. Validate must have passed.
func (r CreateBookRequest) ToNewBook(authorID uuid.UUID) NewBook {
	lang := strings.TrimSpace(r.Language)
	if lang == "" {
		lang = defaultLanguage
	}

	sources := make([]Source, 0, len(r.Sources))
	for _, s := range r.Sources {
		sources = append(sources, Source(s))
	}

	return NewBook{
		Title:           strings.TrimSpace(r.Title),
		Description:     r.Description,
		CategoryID:      uuid.MustParse(r.CategoryID),
		AuthorID:        authorID,
		PublicationYear: r.PublicationYear,
		Language:        lang,
		PageCount:       r.PageCount,
		CoverImageURL:   r.CoverImageURL,
		SourceURL:       r.SourceURL,
		ISBN:            r.ISBN,
		IsPublished:     true,
		Sources:         sources,
	}
}
