package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type sqlxRepository struct {
	db *sqlx.DB
}

// NewSQLXRepository returns a Repository backed by database/sql, used with DB_DRIVER=pq.
func NewSQLXRepository(db *sqlx.DB) Repository {
	return &sqlxRepository{db: db}
}

func (r *sqlxRepository) Save(ctx context.Context, user *User) (*User, error) {
	if user.ID != 0 {
		if err := r.Update(ctx, user); err != nil {
			return nil, err
		}
		stored := *user
		return &stored, nil
	}

	query := `INSERT INTO user_service.users (name, email) VALUES ($1, $2) RETURNING id, name, email`

	var stored User
	if err := r.db.QueryRowxContext(ctx, query, user.Name, user.Email).StructScan(&stored); err != nil {
		return nil, persistenceError("failed to insert user", pqSQLState(err), err)
	}

	return &stored, nil
}

func (r *sqlxRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `SELECT id, name, email FROM user_service.users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, persistenceError("failed to select user by id", pqSQLState(err), err)
	}

	return &user, nil
}

func (r *sqlxRepository) List(ctx context.Context) ([]User, error) {
	users := make([]User, 0)
	if err := r.db.SelectContext(ctx, &users, `SELECT id, name, email FROM user_service.users ORDER BY id`); err != nil {
		return nil, persistenceError("failed to query users", pqSQLState(err), err)
	}

	return users, nil
}

func (r *sqlxRepository) Update(ctx context.Context, user *User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_service.users SET name = $1, email = $2 WHERE id = $3`,
		user.Name, user.Email, user.ID,
	)
	if err != nil {
		return persistenceError("failed to update user", pqSQLState(err), err)
	}

	return requireAffected(res)
}

func (r *sqlxRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_service.users WHERE id = $1`, id)
	if err != nil {
		return persistenceError("failed to delete user", pqSQLState(err), err)
	}

	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return persistenceError("failed to read affected rows", "", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func pqSQLState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
