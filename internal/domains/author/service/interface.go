package service

import (
	"context"

	"books-api/internal/domains/author/model"
	"books-api/internal/shared/pagination"
)

// ServiceInterface defines business operations on authors.
type ServiceInterface interface {
	// Create inserts a validated author and returns the stored row.
	Create(ctx context.Context, req *model.CreateAuthorRequest) (*model.Author, error)

	// GetByID returns model.ErrAuthorNotFound when the id is unknown.
	GetByID(ctx context.Context, id int64) (*model.Author, error)

	// List pages through authors ordered by name.
	List(ctx context.Context, p pagination.Params) (pagination.Result[model.Author], error)

	// Update applies a partial update. The existence check and the write
	// share one transaction holding a row lock, so a concurrent delete
	// surfaces as not found rather than a silent zero-row update. An update
	// naming no usable field returns the current record untouched.
	Update(ctx context.Context, id int64, req *model.UpdateAuthorRequest) (*model.Author, error)

	// Delete removes the author and, through the foreign key cascade, every
	// book that references it.
	Delete(ctx context.Context, id int64) error
}
