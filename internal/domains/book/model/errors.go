package model

import "books-api/internal/shared/apperror"

var (
	ErrBookNotFound   = apperror.NotFound("book not found")
	ErrAuthorNotFound = apperror.NotFound("author not found")
	ErrISBNExists     = apperror.Conflict("a book with this ISBN already exists")
)

// Constraint names generated by postgres for the books table.
const (
	ISBNUniqueConstraint       = "books_isbn_key"
	AuthorForeignKeyConstraint = "books_author_id_fkey"
)
