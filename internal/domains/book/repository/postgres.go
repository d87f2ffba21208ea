package repository

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"books-api/internal/domains/book/model"
	"books-api/internal/shared/apperror"
	"books-api/internal/shared/pagination"
	"books-api/internal/shared/patch"
	"books-api/pkg/database"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type postgresRepository struct {
	db database.DB
	q  database.Querier
}

func NewPostgresRepository(db database.DB) RepositoryInterface {
	return &postgresRepository{db: db, q: db}
}

func (r *postgresRepository) InTx(ctx context.Context, fn func(tx RepositoryInterface) error) error {
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&postgresRepository{db: r.db, q: tx})
	})
}

func (r *postgresRepository) Create(ctx context.Context, b *model.Book) (*model.Book, error) {
	query, args, err := psql.Insert("books").
		Columns("title", "summary", "isbn", "author_id").
		Values(b.Title, b.Summary, b.ISBN, b.AuthorID).
		Suffix("RETURNING " + strings.Join(model.Columns, ", ")).
		ToSql()
	if err != nil {
		return nil, apperror.Storage("build insert book", err)
	}

	var created model.Book
	if err := pgxscan.Get(ctx, r.q, &created, query, args...); err != nil {
		return nil, mapWriteError("insert book", err)
	}
	return &created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.BookDetail, error) {
	return r.getDetail(ctx, selectDetails().Where(sq.Eq{"b.id": id}))
}

// GetForUpdate locks the book row only; the author row stays unlocked.
func (r *postgresRepository) GetForUpdate(ctx context.Context, id int64) (*model.BookDetail, error) {
	return r.getDetail(ctx, selectDetails().Where(sq.Eq{"b.id": id}).Suffix("FOR UPDATE OF b"))
}

func (r *postgresRepository) AuthorExists(ctx context.Context, authorID int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM authors WHERE id = $1)", authorID).Scan(&exists)
	if err != nil {
		return false, apperror.Storage("check author exists", err)
	}
	return exists, nil
}

// List applies the same filter predicate to the count and to the page query
// so that total always describes the filtered set.
func (r *postgresRepository) List(ctx context.Context, f model.Filter, p pagination.Params) ([]model.BookDetail, int64, error) {
	pred := filterPredicate(f)

	count := psql.Select("COUNT(*)").From("books b")
	if len(pred) > 0 {
		count = count.Where(pred)
	}
	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return nil, 0, apperror.Storage("build count books", err)
	}
	var total int64
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperror.Storage("count books", err)
	}

	items := selectDetails()
	if len(pred) > 0 {
		items = items.Where(pred)
	}
	query, args, err := p.Apply(items.OrderBy("b.title", "b.id")).ToSql()
	if err != nil {
		return nil, 0, apperror.Storage("build list books", err)
	}

	var books []model.BookDetail
	if err := pgxscan.Select(ctx, r.q, &books, query, args...); err != nil {
		return nil, 0, apperror.Storage("list books", err)
	}
	return books, total, nil
}

func (r *postgresRepository) Update(ctx context.Context, plan patch.Plan) (*model.BookDetail, error) {
	query, args, err := plan.Builder("books", "id").ToSql()
	if err != nil {
		return nil, apperror.Storage("build update book", err)
	}

	var id int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, mapWriteError("update book", err)
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete("books").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return apperror.Storage("build delete book", err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return apperror.Storage("delete book", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) getDetail(ctx context.Context, b sq.SelectBuilder) (*model.BookDetail, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, apperror.Storage("build select book", err)
	}

	var book model.BookDetail
	if err := pgxscan.Get(ctx, r.q, &book, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, model.ErrBookNotFound
		}
		return nil, apperror.Storage("select book", err)
	}
	return &book, nil
}

func selectDetails() sq.SelectBuilder {
	return psql.Select(model.DetailColumns...).
		From("books b").
		Join("authors a ON a.id = b.author_id")
}

func filterPredicate(f model.Filter) sq.And {
	var pred sq.And
	if f.Title != "" {
		pred = append(pred, sq.ILike{"b.title": "%" + escapeLike(f.Title) + "%"})
	}
	if f.AuthorID > 0 {
		pred = append(pred, sq.Eq{"b.author_id": f.AuthorID})
	}
	return pred
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// mapWriteError translates constraint violations raised by inserts and
// updates into domain errors.
func mapWriteError(op string, err error) error {
	switch {
	case database.IsUniqueViolation(err, model.ISBNUniqueConstraint):
		return model.ErrISBNExists
	case database.IsForeignKeyViolation(err, model.AuthorForeignKeyConstraint):
		return model.ErrAuthorNotFound
	default:
		return apperror.Storage(op, err)
	}
}
