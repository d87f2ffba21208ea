package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"books-api/internal/shared/patch"
)

const (
	MinNameLength = 2
	MaxNameLength = 100
	MaxBioLength  = 150
)

// CreateAuthorRequest - POST /api/authors
type CreateAuthorRequest struct {
	Name      string  `json:"name"`
	BirthDate string  `json:"birthDate"`
	Biography *string `json:"biography"`
}

func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(MinNameLength, MaxNameLength).Error("name must be 2-100 characters long"),
		),
		validation.Field(&r.BirthDate,
			validation.Required.Error("birth date is required"),
			validation.Date(DateLayout).Error("birth date must be in YYYY-MM-DD format"),
		),
		validation.Field(&r.Biography,
			validation.RuneLength(0, MaxBioLength).Error("biography cannot exceed 150 characters"),
		),
	)
}

// ToAuthor assumes Validate has passed.
func (r CreateAuthorRequest) ToAuthor() *Author {
	birth, _ := time.Parse(DateLayout, r.BirthDate)
	return &Author{
		Name:      r.Name,
		BirthDate: birth,
		Biography: r.Biography,
	}
}

// UpdateAuthorRequest - PATCH /api/authors/:id
// Every field is optional; name and birth date ignore empty values while
// biography is written whenever the key is sent, and null clears it.
type UpdateAuthorRequest struct {
	Name      *string                `json:"name"`
	BirthDate *string                `json:"birthDate"`
	Biography patch.Nullable[string] `json:"biography"`
}

func (r UpdateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.RuneLength(MinNameLength, MaxNameLength).Error("name must be 2-100 characters long"),
		),
		validation.Field(&r.BirthDate,
			validation.Date(DateLayout).Error("birth date must be in YYYY-MM-DD format"),
		),
		validation.Field(&r.Biography,
			validation.RuneLength(0, MaxBioLength).Error("biography cannot exceed 150 characters"),
		),
	)
}

// Fields returns the candidate columns in table order.
func (r UpdateAuthorRequest) Fields() []patch.Field {
	var birth *time.Time
	if r.BirthDate != nil && *r.BirthDate != "" {
		if t, err := time.Parse(DateLayout, *r.BirthDate); err == nil {
			birth = &t
		}
	}

	return []patch.Field{
		patch.TruthyField("name", r.Name),
		patch.TruthyField("birth_date", birth),
		patch.DefinedField("biography", r.Biography),
	}
}
