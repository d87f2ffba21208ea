package service

import (
	"context"

	"github.com/rs/zerolog/log"

	authorrepo "books-api/internal/domains/author/repository"
	"books-api/internal/domains/book/model"
	"books-api/internal/domains/book/repository"
	"books-api/internal/shared/pagination"
	"books-api/internal/shared/patch"
)

type bookService struct {
	repo    repository.RepositoryInterface
	authors authorrepo.RepositoryInterface
}

func NewBookService(repo repository.RepositoryInterface, authors authorrepo.RepositoryInterface) ServiceInterface {
	return &bookService{repo: repo, authors: authors}
}

func (s *bookService) Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error) {
	if err := s.requireAuthor(ctx, s.repo, req.AuthorID); err != nil {
		return nil, err
	}

	book, err := s.repo.Create(ctx, req.ToBook())
	if err != nil {
		return nil, err
	}

	log.Info().Int64("book_id", book.ID).Int64("author_id", book.AuthorID).Msg("Book created")
	return book, nil
}

func (s *bookService) GetByID(ctx context.Context, id int64) (*model.BookDetail, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *bookService) List(ctx context.Context, f model.Filter, p pagination.Params) (pagination.Result[model.BookDetail], error) {
	if f.AuthorID > 0 {
		if err := s.requireAuthor(ctx, s.repo, f.AuthorID); err != nil {
			return pagination.Result[model.BookDetail]{}, err
		}
	}

	books, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		return pagination.Result[model.BookDetail]{}, err
	}
	return pagination.NewResult(books, total, p), nil
}

func (s *bookService) ListByAuthor(ctx context.Context, authorID int64, p pagination.Params) (pagination.Result[model.BookDetail], error) {
	return s.List(ctx, model.Filter{AuthorID: authorID}, p)
}

func (s *bookService) AuthorWithBooks(ctx context.Context, authorID int64, p pagination.Params) (*AuthorBooks, error) {
	author, err := s.authors.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	books, total, err := s.repo.List(ctx, model.Filter{AuthorID: authorID}, p)
	if err != nil {
		return nil, err
	}

	return &AuthorBooks{
		Author: author,
		Books:  pagination.NewResult(books, total, p),
	}, nil
}

func (s *bookService) Update(ctx context.Context, id int64, req *model.UpdateBookRequest) (*model.BookDetail, error) {
	var result *model.BookDetail

	err := s.repo.InTx(ctx, func(tx repository.RepositoryInterface) error {
		current, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if authorID := req.ReferencedAuthor(); authorID > 0 && authorID != current.AuthorID {
			if err := s.requireAuthor(ctx, tx, authorID); err != nil {
				return err
			}
		}

		plan := patch.Compile(id, req.Fields()...)
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

func (s *bookService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *bookService) requireAuthor(ctx context.Context, repo repository.RepositoryInterface, authorID int64) error {
	ok, err := repo.AuthorExists(ctx, authorID)
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrAuthorNotFound
	}
	return nil
}
