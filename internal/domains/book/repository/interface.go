package repository

import (
	"context"

	"books-api/internal/domains/book/model"
	"books-api/internal/shared/pagination"
	"books-api/internal/shared/patch"
)

// RepositoryInterface is the book persistence contract. Every read returns
// the book joined with its author.
type RepositoryInterface interface {
	Create(ctx context.Context, b *model.Book) (*model.Book, error)
	GetByID(ctx context.Context, id int64) (*model.BookDetail, error)
	List(ctx context.Context, f model.Filter, p pagination.Params) ([]model.BookDetail, int64, error)
	Delete(ctx context.Context, id int64) error
	AuthorExists(ctx context.Context, authorID int64) (bool, error)

	// GetForUpdate reads a book and locks its row. Only meaningful inside InTx.
	GetForUpdate(ctx context.Context, id int64) (*model.BookDetail, error)
	// Update applies a non-empty patch plan and re-reads the joined record.
	Update(ctx context.Context, plan patch.Plan) (*model.BookDetail, error)

	InTx(ctx context.Context, fn func(tx RepositoryInterface) error) error
}
