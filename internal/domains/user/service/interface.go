package service

import (
	"context"

	"books-api/internal/domains/user/model"
	"books-api/internal/shared/pagination"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64, email, role string) (string, error)
}

// Options tunes registration and password hashing.
type Options struct {
	// AllowRoleOnRegister honours the role sent with a registration.
	// When false every new account is a plain user.
	AllowRoleOnRegister bool
	BcryptCost          int
}

// ServiceInterface defines account operations.
type ServiceInterface interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
	// Login answers model.ErrInvalidCredentials for an unknown email and for
	// a wrong password alike.
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)

	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, p pagination.Params) (pagination.Result[model.User], error)

	// Update applies a partial profile update inside a transaction. Changing
	// the role requires asAdmin; a new email must not belong to another
	// account; a new password is stored as a bcrypt digest.
	Update(ctx context.Context, id int64, req *model.UpdateUserRequest, asAdmin bool) (*model.User, error)
	Delete(ctx context.Context, id int64) error
}
