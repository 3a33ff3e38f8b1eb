package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository stores users by identity.
type Repository interface {
	// Save inserts a user without an ID, assigning the generated one, and
	// updates a user that already has one. It returns the stored record.
	Save(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
}

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresRepository struct {
	db DB
}

func NewRepository(db DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Save(ctx context.Context, user *User) (*User, error) {
	if user.ID != 0 {
		if err := r.Update(ctx, user); err != nil {
			return nil, err
		}
		stored := *user
		return &stored, nil
	}

	query := `
		INSERT INTO user_service.users (name, email)
		VALUES ($1, $2)
		RETURNING id
	`

	stored := *user
	if err := r.db.QueryRow(ctx, query, user.Name, user.Email).Scan(&stored.ID); err != nil {
		return nil, persistenceError("failed to insert user", pgSQLState(err), err)
	}

	return &stored, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, name, email
		FROM user_service.users
		WHERE id = $1
	`

	var user User
	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Name, &user.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, persistenceError("failed to select user by id", pgSQLState(err), err)
	}

	return &user, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]User, error) {
	query := `
		SELECT id, name, email
		FROM user_service.users
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, persistenceError("failed to query users", pgSQLState(err), err)
	}

	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[User])
	if err != nil {
		return nil, persistenceError("failed to scan users", pgSQLState(err), err)
	}

	return users, nil
}

func (r *postgresRepository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE user_service.users
		SET name = $1, email = $2
		WHERE id = $3
	`

	cmdTag, err := r.db.Exec(ctx, query, user.Name, user.Email, user.ID)
	if err != nil {
		return persistenceError("failed to update user", pgSQLState(err), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM user_service.users WHERE id = $1`, id)
	if err != nil {
		return persistenceError("failed to delete user", pgSQLState(err), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func pgSQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
