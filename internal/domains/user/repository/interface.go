package repository

import (
	"context"

	"books-api/internal/domains/user/model"
	"books-api/internal/shared/pagination"
	"books-api/internal/shared/patch"
)

// RepositoryInterface is the user persistence contract.
type RepositoryInterface interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetByEmail includes the password digest.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// EmailTaken reports whether another user than exceptID owns email.
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	List(ctx context.Context, p pagination.Params) ([]model.User, int64, error)
	Delete(ctx context.Context, id int64) error

	GetForUpdate(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, plan patch.Plan) (*model.User, error)
	InTx(ctx context.Context, fn func(tx RepositoryInterface) error) error
}
