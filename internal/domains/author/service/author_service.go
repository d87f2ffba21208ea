package service

import (
	"context"

	"books-api/internal/domains/author/model"
	"books-api/internal/domains/author/repository"
	"books-api/internal/shared/pagination"
	"books-api/internal/shared/patch"
)

type authorService struct {
	repo repository.RepositoryInterface
}

func NewAuthorService(repo repository.RepositoryInterface) ServiceInterface {
	return &authorService{repo: repo}
}

func (s *authorService) Create(ctx context.Context, req *model.CreateAuthorRequest) (*model.Author, error) {
	return s.repo.Create(ctx, req.ToAuthor())
}

func (s *authorService) GetByID(ctx context.Context, id int64) (*model.Author, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *authorService) List(ctx context.Context, p pagination.Params) (pagination.Result[model.Author], error) {
	authors, total, err := s.repo.List(ctx, p)
	if err != nil {
		return pagination.Result[model.Author]{}, err
	}
	return pagination.NewResult(authors, total, p), nil
}

func (s *authorService) Update(ctx context.Context, id int64, req *model.UpdateAuthorRequest) (*model.Author, error) {
	var result *model.Author
	changed := false

	err := s.repo.InTx(ctx, func(tx repository.RepositoryInterface) error {
		current, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		plan := patch.Compile(id, req.Fields()...)
		if plan.Empty() {
			result = current
			return nil
		}

		result, err = tx.Update(ctx, plan)
		changed = err == nil
		return err
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.repo.Evict(ctx, id)
	}
	return result, nil
}

func (s *authorService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
