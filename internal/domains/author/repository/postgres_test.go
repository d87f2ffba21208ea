package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"books-api/internal/domains/author/model"
	"books-api/internal/shared/apperror"
	"books-api/internal/shared/pagination"
	"books-api/internal/shared/patch"
)

var (
	birth   = time.Date(1929, 10, 21, 0, 0, 0, 0, time.UTC)
	created = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
)

// memCache is an in-memory cache.Cache.
type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
	ttls  map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{items: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = raw
	m.ttls[key] = ttl
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *memCache) DeletePattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			delete(m.items, k)
		}
	}
	return nil
}

func (m *memCache) Ping(context.Context) error { return nil }

func (m *memCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[key]
	return ok
}

func newRepo(t *testing.T) (pgxmock.PgxPoolIface, *memCache, RepositoryInterface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	c := newMemCache()
	return mock, c, NewPostgresRepository(mock, c)
}

func authorRows() *pgxmock.Rows {
	return pgxmock.NewRows(model.Columns)
}

func q(s string) string { return regexp.QuoteMeta(s) }

func TestCreate(t *testing.T) {
	mock, c, repo := newRepo(t)
	require.NoError(t, c.Set(context.Background(), "authors:list:1:10", "stale", time.Minute))

	bio := "Wrote Earthsea."
	mock.ExpectQuery(q("INSERT INTO authors (name,birth_date,biography) VALUES ($1,$2,$3) RETURNING id, name, birth_date, biography, created_at")).
		WithArgs("Ursula K. Le Guin", birth, &bio).
		WillReturnRows(authorRows().AddRow(int64(1), "Ursula K. Le Guin", birth, &bio, created))

	got, err := repo.Create(context.Background(), &model.Author{Name: "Ursula K. Le Guin", BirthDate: birth, Biography: &bio})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, &bio, got.Biography)
	assert.False(t, c.has("authors:list:1:10"), "list cache invalidated")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDReadsThroughCache(t *testing.T) {
	mock, c, repo := newRepo(t)

	mock.ExpectQuery(q("SELECT id, name, birth_date, biography, created_at FROM authors WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnRows(authorRows().AddRow(int64(4), "Octavia Butler", birth, nil, created))

	first, err := repo.GetByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Nil(t, first.Biography)
	assert.True(t, c.has("author:4"))
	assert.Equal(t, time.Minute, c.ttls["author:4"])

	// second read is served from the cache; no further query is expected
	second, err := repo.GetByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	assert.True(t, first.BirthDate.Equal(second.BirthDate))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	mock, _, repo := newRepo(t)
	mock.ExpectQuery(q("FROM authors WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnRows(authorRows())

	_, err := repo.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, model.ErrAuthorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDStorageError(t *testing.T) {
	mock, _, repo := newRepo(t)
	mock.ExpectQuery(q("FROM authors WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetByID(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, apperror.KindStorage, apperror.KindOf(err))
}

func TestExists(t *testing.T) {
	mock, _, repo := newRepo(t)
	mock.ExpectQuery(q("SELECT EXISTS (SELECT 1 FROM authors WHERE id = $1)")).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList(t *testing.T) {
	mock, c, repo := newRepo(t)

	mock.ExpectQuery(q("SELECT COUNT(*) FROM authors")).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(25)))
	mock.ExpectQuery(q("SELECT id, name, birth_date, biography, created_at FROM authors ORDER BY name LIMIT 10 OFFSET 10")).
		WillReturnRows(authorRows().
			AddRow(int64(11), "K", birth, nil, created).
			AddRow(int64(12), "L", birth, nil, created))

	authors, total, err := repo.List(context.Background(), pagination.Params{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, authors, 2)
	assert.True(t, c.has("authors:list:2:10"))

	// cached page
	authors, total, err = repo.List(context.Background(), pagination.Params{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, authors, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInTransaction(t *testing.T) {
	mock, _, repo := newRepo(t)
	name := "Ursula Le Guin"
	bio := ""

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT id, name, birth_date, biography, created_at FROM authors WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(authorRows().AddRow(int64(1), "Ursula K. Le Guin", birth, nil, created))
	mock.ExpectQuery(q("UPDATE authors SET name = $1, biography = $2 WHERE id = $3 RETURNING id, name, birth_date, biography, created_at")).
		WithArgs(name, bio, int64(1)).
		WillReturnRows(authorRows().AddRow(int64(1), name, birth, &bio, created))
	mock.ExpectCommit()

	var updated *model.Author
	err := repo.InTx(context.Background(), func(tx RepositoryInterface) error {
		if _, err := tx.GetForUpdate(context.Background(), 1); err != nil {
			return err
		}
		plan := patch.Compile(int64(1), model.UpdateAuthorRequest{Name: &name, Biography: patch.Some(bio)}.Fields()...)
		var err error
		updated, err = tx.Update(context.Background(), plan)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, &bio, updated.Biography)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetForUpdateMissingRollsBack(t *testing.T) {
	mock, _, repo := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q("FOR UPDATE")).
		WithArgs(int64(8)).
		WillReturnRows(authorRows())
	mock.ExpectRollback()

	err := repo.InTx(context.Background(), func(tx RepositoryInterface) error {
		_, err := tx.GetForUpdate(context.Background(), 8)
		return err
	})

	require.ErrorIs(t, err, model.ErrAuthorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	mock, c, repo := newRepo(t)
	require.NoError(t, c.Set(context.Background(), "author:3", model.Author{ID: 3}, time.Minute))

	mock.ExpectExec(q("DELETE FROM authors WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.False(t, c.has("author:3"))

	mock.ExpectExec(q("DELETE FROM authors WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.ErrorIs(t, repo.Delete(context.Background(), 4), model.ErrAuthorNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
