package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"books-api/internal/domains/user/model"
	"books-api/internal/domains/user/repository"
	"books-api/internal/shared/apperror"
	"books-api/internal/shared/pagination"
	"books-api/internal/shared/patch"
)

type userService struct {
	repo   repository.RepositoryInterface
	tokens TokenIssuer
	opts   Options

	// dummyDigest is compared against when the email is unknown so that a
	// failed login costs one bcrypt comparison either way.
	dummyDigest []byte
	compare     func(digest, password []byte) error
}

func NewUserService(repo repository.RepositoryInterface, tokens TokenIssuer, opts Options) ServiceInterface {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("books-api-unknown-user"), opts.BcryptCost)
	if err != nil {
		log.Warn().Err(err).Int("cost", opts.BcryptCost).Msg("Failed to prepare dummy password digest")
	}
	return &userService{
		repo:        repo,
		tokens:      tokens,
		opts:        opts,
		dummyDigest: dummy,
		compare:     bcrypt.CompareHashAndPassword,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	taken, err := s.repo.EmailTaken(ctx, req.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.ErrEmailExists
	}

	digest, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	role := model.RoleUser
	if s.opts.AllowRoleOnRegister && req.Role != "" {
		role = req.Role
	}

	// the unique index still guards against a concurrent registration
	u, err := s.repo.Create(ctx, &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: digest,
		Role:     role,
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("user_id", u.ID).Str("role", u.Role).Msg("User registered")
	return s.authResponse(u)
}

func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			_ = s.compare(s.dummyDigest, []byte(req.Password))
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.compare([]byte(u.Password), []byte(req.Password)); err != nil {
		log.Debug().Int64("user_id", u.ID).Msg("Login rejected: wrong password")
		return nil, model.ErrInvalidCredentials
	}

	u.Password = ""
	return s.authResponse(u)
}

// ========================================
// PROFILE
// ========================================

func (s *userService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	u.Password = ""
	return u, nil
}

func (s *userService) List(ctx context.Context, p pagination.Params) (pagination.Result[model.User], error) {
	users, total, err := s.repo.List(ctx, p)
	if err != nil {
		return pagination.Result[model.User]{}, err
	}
	return pagination.NewResult(users, total, p), nil
}

func (s *userService) Update(ctx context.Context, id int64, req *model.UpdateUserRequest, asAdmin bool) (*model.User, error) {
	var passwordHash *string
	if pw := req.NewPassword(); pw != "" {
		digest, err := s.hash(pw)
		if err != nil {
			return nil, err
		}
		passwordHash = &digest
	}

	var result *model.User
	err := s.repo.InTx(ctx, func(tx repository.RepositoryInterface) error {
		current, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if role := req.NewRole(); role != "" && role != current.Role && !asAdmin {
			return model.ErrRoleChangeForbidden
		}

		if email := req.NewEmail(); email != "" && email != current.Email {
			taken, err := tx.EmailTaken(ctx, email, id)
			if err != nil {
				return err
			}
			if taken {
				return model.ErrEmailExists
			}
		}

		plan := patch.Compile(id, req.Fields(passwordHash)...)
		if plan.Empty() {
			result = current
			return nil
		}

		result, err = tx.Update(ctx, plan)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Int64("user_id", id).Msg("User deleted")
	return nil
}

func (s *userService) hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return "", apperror.Storage("hash password", err)
	}
	return string(digest), nil
}

func (s *userService) authResponse(u *model.User) (*model.AuthResponse, error) {
	token, err := s.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, apperror.Storage("issue token", fmt.Errorf("user %d: %w", u.ID, err))
	}
	return &model.AuthResponse{User: u, Token: token}, nil
}
