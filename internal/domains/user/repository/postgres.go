package repository

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"books-api/internal/domains/user/model"
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

func (r *postgresRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	query, args, err := psql.Insert("users").
		Columns("username", "email", "password", "role").
		Values(u.Username, u.Email, u.Password, u.Role).
		Suffix("RETURNING " + strings.Join(model.Columns, ", ")).
		ToSql()
	if err != nil {
		return nil, apperror.Storage("build insert user", err)
	}

	var created model.User
	if err := pgxscan.Get(ctx, r.q, &created, query, args...); err != nil {
		return nil, mapWriteError("insert user", err)
	}
	return &created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, psql.Select(model.Columns...).From("users").Where(sq.Eq{"id": id}))
}

func (r *postgresRepository) GetForUpdate(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, psql.Select(model.Columns...).From("users").Where(sq.Eq{"id": id}).Suffix("FOR UPDATE"))
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, psql.Select(model.CredentialColumns...).From("users").Where(sq.Eq{"email": email}))
}

func (r *postgresRepository) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	var taken bool
	err := r.q.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)",
		email, exceptID,
	).Scan(&taken)
	if err != nil {
		return false, apperror.Storage("check email taken", err)
	}
	return taken, nil
}

func (r *postgresRepository) List(ctx context.Context, p pagination.Params) ([]model.User, int64, error) {
	var total int64
	if err := r.q.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, apperror.Storage("count users", err)
	}

	query, args, err := p.Apply(psql.Select(model.Columns...).From("users").OrderBy("created_at DESC", "id DESC")).ToSql()
	if err != nil {
		return nil, 0, apperror.Storage("build list users", err)
	}

	var users []model.User
	if err := pgxscan.Select(ctx, r.q, &users, query, args...); err != nil {
		return nil, 0, apperror.Storage("list users", err)
	}
	return users, total, nil
}

func (r *postgresRepository) Update(ctx context.Context, plan patch.Plan) (*model.User, error) {
	query, args, err := plan.Builder("users", model.Columns...).ToSql()
	if err != nil {
		return nil, apperror.Storage("build update user", err)
	}

	var updated model.User
	if err := pgxscan.Get(ctx, r.q, &updated, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, model.ErrUserNotFound
		}
		return nil, mapWriteError("update user", err)
	}
	return &updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return apperror.Storage("build delete user", err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return apperror.Storage("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) getOne(ctx context.Context, b sq.SelectBuilder) (*model.User, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, apperror.Storage("build select user", err)
	}

	var u model.User
	if err := pgxscan.Get(ctx, r.q, &u, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, model.ErrUserNotFound
		}
		return nil, apperror.Storage("select user", err)
	}
	return &u, nil
}

func mapWriteError(op string, err error) error {
	if database.IsUniqueViolation(err, model.EmailUniqueConstraint) {
		return model.ErrEmailExists
	}
	return apperror.Storage(op, err)
}
