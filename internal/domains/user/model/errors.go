package model

import "books-api/internal/shared/apperror"

var (
	ErrUserNotFound        = apperror.NotFound("user not found")
	ErrEmailExists         = apperror.Conflict("a user with this email already exists")
	ErrInvalidCredentials  = apperror.Unauthenticated("invalid credentials")
	ErrRoleChangeForbidden = apperror.Forbidden("only an admin can change a role")
)

// EmailUniqueConstraint is the postgres name of the users.email unique index.
const EmailUniqueConstraint = "users_email_key"
