package pagination

import (
	"strconv"

	sq "github.com/Masterminds/squirrel"

	"books-api/internal/shared/apperror"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params is a validated page request.
type Params struct {
	Page  int
	Limit int
}

// Parse reads raw page and limit query values. Absent or non-numeric values
// fall back to the defaults; numeric values out of range are rejected.
func Parse(pageRaw, limitRaw string) (Params, error) {
	p := Params{
		Page:  parseOr(pageRaw, DefaultPage),
		Limit: parseOr(limitRaw, DefaultLimit),
	}

	var fields []apperror.FieldError
	if p.Page < 1 {
		fields = append(fields, apperror.FieldError{Field: "page", Message: "page must be a positive integer"})
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		fields = append(fields, apperror.FieldError{Field: "limit", Message: "limit must be between 1 and 100"})
	}
	if len(fields) > 0 {
		return Params{}, apperror.Validation("invalid pagination parameters", fields...)
	}
	return p, nil
}

func parseOr(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Apply adds LIMIT and OFFSET to an item query.
func (p Params) Apply(b sq.SelectBuilder) sq.SelectBuilder {
	return b.Limit(uint64(p.Limit)).Offset(uint64(p.Offset()))
}

// Result is the list envelope returned by every paginated endpoint.
type Result[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func NewResult[T any](items []T, total int64, p Params) Result[T] {
	if items == nil {
		items = []T{}
	}
	limit := int64(p.Limit)
	return Result[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: int((total + limit - 1) / limit),
	}
}
