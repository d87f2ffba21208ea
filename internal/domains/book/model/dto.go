package model

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"books-api/internal/shared/patch"
)

const (
	MinTitleLength = 3
	MaxTitleLength = 255
	ISBNDigits     = 10
)

var isbnPattern = regexp.MustCompile(`^[0-9-]{10,13}$`)

// isbnRules accepts 10 to 13 digits and hyphens, of which exactly ten are
// digits.
var isbnRules = []validation.Rule{
	validation.Match(isbnPattern).Error("ISBN must be 10-13 characters containing only digits and hyphens"),
	validation.By(func(value interface{}) error {
		v, _ := validation.Indirect(value)
		s, _ := v.(string)
		if s == "" {
			return nil
		}
		if len(strings.ReplaceAll(s, "-", "")) != ISBNDigits {
			return errors.New("ISBN must contain exactly 10 digits (excluding hyphens)")
		}
		return nil
	}),
}

// CreateBookRequest - POST /api/books
type CreateBookRequest struct {
	Title    string  `json:"title"`
	Summary  *string `json:"summary"`
	ISBN     string  `json:"isbn"`
	AuthorID int64   `json:"author_id"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(MinTitleLength, MaxTitleLength).Error("title must be at least 3 characters long"),
		),
		validation.Field(&r.ISBN,
			append([]validation.Rule{validation.Required.Error("ISBN is required")}, isbnRules...)...,
		),
		validation.Field(&r.AuthorID,
			validation.Required.Error("author id is required"),
			validation.Min(int64(1)).Error("author id must be a positive integer"),
		),
	)
}

func (r CreateBookRequest) ToBook() *Book {
	return &Book{
		Title:    r.Title,
		Summary:  r.Summary,
		ISBN:     r.ISBN,
		AuthorID: r.AuthorID,
	}
}

// UpdateBookRequest - PATCH /api/books/:id
// Summary is written whenever the key is sent, so "" empties it and null
// clears it; the other fields ignore empty or zero values.
type UpdateBookRequest struct {
	Title    *string                `json:"title"`
	Summary  patch.Nullable[string] `json:"summary"`
	ISBN     *string                `json:"isbn"`
	AuthorID *int64                 `json:"author_id"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.RuneLength(MinTitleLength, MaxTitleLength).Error("title must be at least 3 characters long"),
		),
		validation.Field(&r.ISBN, isbnRules...),
		validation.Field(&r.AuthorID,
			validation.Min(int64(1)).Error("author id must be a positive integer"),
		),
	)
}

// Fields returns the candidate columns in table order.
func (r UpdateBookRequest) Fields() []patch.Field {
	return []patch.Field{
		patch.TruthyField("title", r.Title),
		patch.DefinedField("summary", r.Summary),
		patch.TruthyField("isbn", r.ISBN),
		patch.TruthyField("author_id", r.AuthorID),
	}
}

// ReferencedAuthor returns the author id the update points the book at, or
// zero when the author is left unchanged.
func (r UpdateBookRequest) ReferencedAuthor() int64 {
	if r.AuthorID == nil {
		return 0
	}
	return *r.AuthorID
}
