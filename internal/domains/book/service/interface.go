package service

import (
	"context"

	authormodel "books-api/internal/domains/author/model"
	"books-api/internal/domains/book/model"
	"books-api/internal/shared/pagination"
)

// AuthorBooks is an author together with one page of their books.
type AuthorBooks struct {
	Author *authormodel.Author                 `json:"author"`
	Books  pagination.Result[model.BookDetail] `json:"books"`
}

// ServiceInterface defines business operations on books.
type ServiceInterface interface {
	// Create returns model.ErrAuthorNotFound when the author is unknown and
	// model.ErrISBNExists when the ISBN is taken.
	Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error)
	GetByID(ctx context.Context, id int64) (*model.BookDetail, error)

	// List pages through books ordered by title. A non-zero Filter.AuthorID
	// must reference an existing author.
	List(ctx context.Context, f model.Filter, p pagination.Params) (pagination.Result[model.BookDetail], error)
	ListByAuthor(ctx context.Context, authorID int64, p pagination.Params) (pagination.Result[model.BookDetail], error)
	AuthorWithBooks(ctx context.Context, authorID int64, p pagination.Params) (*AuthorBooks, error)

	// Update locks the book, checks a changed author reference and applies
	// the partial update. It returns the joined record; an update naming no
	// usable field returns the current record untouched.
	Update(ctx context.Context, id int64, req *model.UpdateBookRequest) (*model.BookDetail, error)
	Delete(ctx context.Context, id int64) error
}
