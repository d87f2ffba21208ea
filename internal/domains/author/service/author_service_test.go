package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"books-api/internal/domains/author/model"
	"books-api/internal/domains/author/repository"
	"books-api/internal/shared/pagination"
	"books-api/internal/shared/patch"
	"books-api/pkg/cache"
)

func ptr[T any](v T) *T { return &v }

// fakeRepo is an in-memory RepositoryInterface.
type fakeRepo struct {
	authors map[int64]model.Author
	nextID  int64
	updates int
	evicted []int64
}

func newFakeRepo(authors ...model.Author) *fakeRepo {
	r := &fakeRepo{authors: map[int64]model.Author{}, nextID: 1}
	for _, a := range authors {
		r.authors[a.ID] = a
		if a.ID >= r.nextID {
			r.nextID = a.ID + 1
		}
	}
	return r
}

func (r *fakeRepo) Create(_ context.Context, a *model.Author) (*model.Author, error) {
	created := *a
	created.ID = r.nextID
	r.nextID++
	r.authors[created.ID] = created
	return &created, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*model.Author, error) {
	a, ok := r.authors[id]
	if !ok {
		return nil, model.ErrAuthorNotFound
	}
	return &a, nil
}

func (r *fakeRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.authors[id]
	return ok, nil
}

func (r *fakeRepo) List(_ context.Context, p pagination.Params) ([]model.Author, int64, error) {
	out := []model.Author{}
	for id := int64(1); id < r.nextID; id++ {
		if a, ok := r.authors[id]; ok {
			out = append(out, a)
		}
	}
	total := int64(len(out))
	start := p.Offset()
	if start > len(out) {
		start = len(out)
	}
	end := start + p.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.authors[id]; !ok {
		return model.ErrAuthorNotFound
	}
	delete(r.authors, id)
	return nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, id int64) (*model.Author, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeRepo) Update(_ context.Context, plan patch.Plan) (*model.Author, error) {
	r.updates++
	id := plan.Args[len(plan.Args)-1].(int64)
	a := r.authors[id]
	for i, col := range plan.Columns() {
		switch col {
		case "name":
			a.Name = plan.Args[i].(string)
		case "birth_date":
			a.BirthDate = plan.Args[i].(time.Time)
		case "biography":
			if bio, ok := plan.Args[i].(string); ok {
				a.Biography = &bio
			} else {
				a.Biography = nil
			}
		}
	}
	r.authors[id] = a
	return &a, nil
}

func (r *fakeRepo) InTx(_ context.Context, fn func(tx repository.RepositoryInterface) error) error {
	return fn(r)
}

func (r *fakeRepo) Evict(_ context.Context, id int64) {
	r.evicted = append(r.evicted, id)
}

var leGuin = model.Author{
	ID:        1,
	Name:      "Ursula K. Le Guin",
	BirthDate: time.Date(1929, 10, 21, 0, 0, 0, 0, time.UTC),
	CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
}

func TestCreate(t *testing.T) {
	repo := newFakeRepo()
	svc := NewAuthorService(repo)

	a, err := svc.Create(context.Background(), &model.CreateAuthorRequest{Name: "Octavia Butler", BirthDate: "1947-06-22"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, 1947, a.BirthDate.Year())
}

func TestUpdateAppliesPresentFields(t *testing.T) {
	repo := newFakeRepo(leGuin)
	svc := NewAuthorService(repo)

	got, err := svc.Update(context.Background(), 1, &model.UpdateAuthorRequest{
		Name:      ptr(""),
		Biography: patch.Some(""),
	})
	require.NoError(t, err)

	assert.Equal(t, leGuin.Name, got.Name, "empty name is ignored")
	assert.Equal(t, ptr(""), got.Biography, "empty biography clears it")
	assert.Equal(t, 1, repo.updates)
	assert.Equal(t, []int64{1}, repo.evicted)
}

func TestUpdateEmptyIsNoop(t *testing.T) {
	repo := newFakeRepo(leGuin)
	svc := NewAuthorService(repo)

	first, err := svc.Update(context.Background(), 1, &model.UpdateAuthorRequest{})
	require.NoError(t, err)
	second, err := svc.Update(context.Background(), 1, &model.UpdateAuthorRequest{Name: ptr("")})
	require.NoError(t, err)

	assert.Equal(t, leGuin, *first)
	assert.Equal(t, *first, *second)
	assert.Zero(t, repo.updates)
	assert.Empty(t, repo.evicted)
}

func TestUpdateMissing(t *testing.T) {
	svc := NewAuthorService(newFakeRepo())

	_, err := svc.Update(context.Background(), 5, &model.UpdateAuthorRequest{Name: ptr("Someone")})
	require.ErrorIs(t, err, model.ErrAuthorNotFound)
}

func TestList(t *testing.T) {
	repo := newFakeRepo()
	svc := NewAuthorService(repo)
	for i := 0; i < 25; i++ {
		_, err := svc.Create(context.Background(), &model.CreateAuthorRequest{Name: "Author", BirthDate: "1900-01-01"})
		require.NoError(t, err)
	}

	res, err := svc.List(context.Background(), pagination.Params{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, res.Items, 5)
	assert.Equal(t, int64(25), res.Total)
	assert.Equal(t, 3, res.TotalPages)
}

// The empty update never reaches the database: only the locking read runs
// inside the transaction.
func TestUpdateEmptyIssuesNoStatement(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	svc := NewAuthorService(repository.NewPostgresRepository(mock, cache.Noop{}))
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FROM authors WHERE id = $1 FOR UPDATE")).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows(model.Columns).
				AddRow(int64(1), leGuin.Name, leGuin.BirthDate, nil, created))
		mock.ExpectCommit()
	}

	first, err := svc.Update(context.Background(), 1, &model.UpdateAuthorRequest{})
	require.NoError(t, err)
	second, err := svc.Update(context.Background(), 1, &model.UpdateAuthorRequest{BirthDate: ptr("")})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.NoError(t, mock.ExpectationsWereMet())
}
