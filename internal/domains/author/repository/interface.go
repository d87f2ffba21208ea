package repository

import (
	"context"

	"books-api/internal/domains/author/model"
	"books-api/internal/shared/pagination"
	"books-api/internal/shared/patch"
)

// RepositoryInterface is the author persistence contract.
type RepositoryInterface interface {
	Create(ctx context.Context, a *model.Author) (*model.Author, error)
	GetByID(ctx context.Context, id int64) (*model.Author, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, p pagination.Params) ([]model.Author, int64, error)
	Delete(ctx context.Context, id int64) error

	// GetForUpdate reads and row-locks an author. Only meaningful inside InTx.
	GetForUpdate(ctx context.Context, id int64) (*model.Author, error)
	// Update applies a non-empty patch plan and returns the new row.
	Update(ctx context.Context, plan patch.Plan) (*model.Author, error)

	// InTx runs fn with a repository bound to a single transaction.
	InTx(ctx context.Context, fn func(tx RepositoryInterface) error) error
	// Evict drops cached reads of the author and of author listings.
	Evict(ctx context.Context, id int64)
}
