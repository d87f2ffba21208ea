package model

import "books-api/internal/shared/apperror"

var (
	ErrAuthorNotFound = apperror.NotFound("author not found")
)
