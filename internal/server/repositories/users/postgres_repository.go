package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/chatauth/internal/common"
	"github.com/dmitrijs2005/chatauth/internal/dbx"
	"github.com/dmitrijs2005/chatauth/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation = "23505"
	pgInvalidTextRepr = "22P02"
	userColumns       = `id, name, email, password_hash, pic, created_at`
	searchLimit       = 50
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (name, email, password_hash, pic)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Pic).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return nil, mapError(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE lower(email) = lower($1)
		 `
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 `
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 FOR UPDATE
		 `
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Pic, &user.CreatedAt)

	if err != nil {
		return nil, mapError(err)
	}

	return user, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users SET name = $2, email = $3, pic = $4
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, user.ID, user.Name, user.Email, user.Pic)
	if err != nil {
		return mapError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// Search returns users whose name or email contains filter.Search, ignoring
// case, ordered by name. The password hash is not selected.
func (r *PostgresRepository) Search(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	query :=
		`SELECT id, name, email, pic, created_at FROM users
		 WHERE ($1 = '' OR id::text <> $1)
		   AND ($2 = '' OR name ILIKE $3 OR email ILIKE $3)
		 ORDER BY name, id
		 LIMIT $4
		 `

	pattern := "%" + escapeLike(filter.Search) + "%"

	rows, err := r.db.QueryContext(ctx, query, filter.ExcludeID, filter.Search, pattern, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Pic, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return common.ErrEmailTaken
		case pgInvalidTextRepr:
			// malformed uuid: no such row
			return common.ErrorNotFound
		}
	}

	return fmt.Errorf("db error: %w", err)
}
