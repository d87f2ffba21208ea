package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"books-api/internal/domains/author/model"
	"books-api/internal/shared/apperror"
	"books-api/internal/shared/pagination"
	"books-api/internal/shared/patch"
	"books-api/pkg/cache"
	"books-api/pkg/database"
)

// Cache key constants
const (
	authorCacheKeyPrefix = "author:"
	authorListKeyPrefix  = "authors:list:"
	// cacheTTL bounds how long a read that raced a write can serve the old
	// row after the writer's eviction.
	cacheTTL = time.Minute
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// postgresRepository implements RepositoryInterface on PostgreSQL with a
// read-through cache in front of single-author and list reads.
type postgresRepository struct {
	db    database.DB
	q     database.Querier
	cache cache.Cache
}

func NewPostgresRepository(db database.DB, c cache.Cache) RepositoryInterface {
	if c == nil {
		c = cache.Noop{}
	}
	return &postgresRepository{db: db, q: db, cache: c}
}

func (r *postgresRepository) InTx(ctx context.Context, fn func(tx RepositoryInterface) error) error {
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&postgresRepository{db: r.db, q: tx, cache: r.cache})
	})
}

func (r *postgresRepository) Create(ctx context.Context, a *model.Author) (*model.Author, error) {
	query, args, err := psql.Insert("authors").
		Columns("name", "birth_date", "biography").
		Values(a.Name, a.BirthDate, a.Biography).
		Suffix("RETURNING " + returning()).
		ToSql()
	if err != nil {
		return nil, apperror.Storage("build insert author", err)
	}

	var created model.Author
	if err := pgxscan.Get(ctx, r.q, &created, query, args...); err != nil {
		return nil, apperror.Storage("insert author", err)
	}

	r.invalidateList(ctx)
	return &created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Author, error) {
	key := authorKey(id)

	var a model.Author
	if found, err := r.cache.Get(ctx, key, &a); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("author cache read failed")
	} else if found {
		return &a, nil
	}

	if err := r.getOne(ctx, &a, selectAuthors().Where(sq.Eq{"id": id})); err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, a, cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("author cache write failed")
	}
	return &a, nil
}

func (r *postgresRepository) GetForUpdate(ctx context.Context, id int64) (*model.Author, error) {
	var a model.Author
	if err := r.getOne(ctx, &a, selectAuthors().Where(sq.Eq{"id": id}).Suffix("FOR UPDATE")); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *postgresRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM authors WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, apperror.Storage("check author exists", err)
	}
	return exists, nil
}

func (r *postgresRepository) List(ctx context.Context, p pagination.Params) ([]model.Author, int64, error) {
	key := fmt.Sprintf("%s%d:%d", authorListKeyPrefix, p.Page, p.Limit)

	var cached struct {
		Items []model.Author `json:"items"`
		Total int64          `json:"total"`
	}
	if found, err := r.cache.Get(ctx, key, &cached); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("author list cache read failed")
	} else if found {
		return cached.Items, cached.Total, nil
	}

	var total int64
	countSQL, countArgs, err := psql.Select("COUNT(*)").From("authors").ToSql()
	if err != nil {
		return nil, 0, apperror.Storage("build count authors", err)
	}
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperror.Storage("count authors", err)
	}

	query, args, err := p.Apply(selectAuthors().OrderBy("name")).ToSql()
	if err != nil {
		return nil, 0, apperror.Storage("build list authors", err)
	}
	var authors []model.Author
	if err := pgxscan.Select(ctx, r.q, &authors, query, args...); err != nil {
		return nil, 0, apperror.Storage("list authors", err)
	}

	cached.Items, cached.Total = authors, total
	if err := r.cache.Set(ctx, key, cached, cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("author list cache write failed")
	}
	return authors, total, nil
}

func (r *postgresRepository) Update(ctx context.Context, plan patch.Plan) (*model.Author, error) {
	query, args, err := plan.Builder("authors", model.Columns...).ToSql()
	if err != nil {
		return nil, apperror.Storage("build update author", err)
	}

	var updated model.Author
	if err := pgxscan.Get(ctx, r.q, &updated, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, apperror.Storage("update author", err)
	}
	return &updated, nil
}

// Delete removes the author. Books referencing it go with it through the
// ON DELETE CASCADE foreign key.
func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete("authors").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return apperror.Storage("build delete author", err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return apperror.Storage("delete author", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}

	r.Evict(ctx, id)
	return nil
}

func (r *postgresRepository) Evict(ctx context.Context, id int64) {
	if err := r.cache.Delete(ctx, authorKey(id)); err != nil {
		log.Warn().Err(err).Int64("author_id", id).Msg("author cache eviction failed")
	}
	r.invalidateList(ctx)
}

func (r *postgresRepository) invalidateList(ctx context.Context) {
	if err := r.cache.DeletePattern(ctx, authorListKeyPrefix+"*"); err != nil {
		log.Warn().Err(err).Msg("author list cache invalidation failed")
	}
}

func (r *postgresRepository) getOne(ctx context.Context, dest *model.Author, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return apperror.Storage("build select author", err)
	}
	if err := pgxscan.Get(ctx, r.q, dest, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return model.ErrAuthorNotFound
		}
		return apperror.Storage("select author", err)
	}
	return nil
}

func selectAuthors() sq.SelectBuilder {
	return psql.Select(model.Columns...).From("authors")
}

func returning() string {
	return strings.Join(model.Columns, ", ")
}

func authorKey(id int64) string {
	return authorCacheKeyPrefix + strconv.FormatInt(id, 10)
}
