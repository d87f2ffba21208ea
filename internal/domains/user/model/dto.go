package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"books-api/internal/shared/patch"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 100
	MinPasswordLength = 6
	// bcrypt ignores everything past 72 bytes
	MaxPasswordLength = 72
)

var (
	usernameRule = validation.RuneLength(MinUsernameLength, MaxUsernameLength).Error("username must be at least 3 characters long")
	passwordRule = validation.Length(MinPasswordLength, MaxPasswordLength).Error("password must be 6-72 characters long")
	roleRule     = validation.In(RoleUser, RoleAdmin).Error(`role must be "user" or "admin"`)
)

// RegisterRequest - POST /api/users/register
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required.Error("username is required"), usernameRule),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("invalid email format"),
			validation.Length(0, 255),
		),
		validation.Field(&r.Password, validation.Required.Error("password is required"), passwordRule),
		validation.Field(&r.Role, roleRule),
	)
}

// LoginRequest - POST /api/users/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("email is required"), is.EmailFormat.Error("invalid email format")),
		validation.Field(&r.Password, validation.Required.Error("password is required")),
	)
}

// UpdateUserRequest - PUT /api/users/profile/:id
// Empty values are ignored. "name" is accepted as an alias of "username".
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, usernameRule),
		validation.Field(&r.Name, usernameRule),
		validation.Field(&r.Email, is.EmailFormat.Error("invalid email format")),
		validation.Field(&r.Password, passwordRule),
		validation.Field(&r.Role, roleRule),
	)
}

// NewUsername resolves the username alias; username wins over name.
func (r UpdateUserRequest) NewUsername() *string {
	if r.Username != nil && *r.Username != "" {
		return r.Username
	}
	return r.Name
}

func (r UpdateUserRequest) NewEmail() string    { return deref(r.Email) }
func (r UpdateUserRequest) NewPassword() string { return deref(r.Password) }
func (r UpdateUserRequest) NewRole() string     { return deref(r.Role) }

// Fields returns the candidate columns in table order. The caller hashes
// the password first.
func (r UpdateUserRequest) Fields(passwordHash *string) []patch.Field {
	return []patch.Field{
		patch.TruthyField("username", r.NewUsername()),
		patch.TruthyField("email", r.Email),
		patch.TruthyField("password", passwordHash),
		patch.TruthyField("role", r.Role),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
