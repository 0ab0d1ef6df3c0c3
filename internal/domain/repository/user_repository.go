package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"userhub/internal/common"
	"userhub/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository interface {
	CRUD[model.User, model.UserCreate, model.UserUpdate]
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `uid, username, email, first_name, last_name, is_active, hashed_password`

func (r *pgUserRepository) scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.UID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
		&user.IsActive, &user.HashedPassword,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) Create(ctx context.Context, data model.UserCreate) (*model.User, error) {
	query := `INSERT INTO "user" (username, email, first_name, last_name, is_active, hashed_password)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, query,
		data.Username, data.Email, data.FirstName, data.LastName, data.IsActive, data.HashedPassword,
	)
	user, err := r.scanUser(row)
	if err != nil {
		if conflict := conflictFromPg(err); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) Read(ctx context.Context, uid int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM "user" WHERE uid = $1`
	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, uid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.Read: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM "user" WHERE username = $1`
	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByUsername: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM "user" WHERE email = $1`
	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByEmail: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) ReadMany(ctx context.Context, offset, limit int) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM "user" ORDER BY uid OFFSET $1 LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.ReadMany: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.UID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
			&user.IsActive, &user.HashedPassword,
		); err != nil {
			return nil, fmt.Errorf("pgUserRepository.ReadMany: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgUserRepository.ReadMany: %w", err)
	}
	return users, nil
}

func (r *pgUserRepository) Update(ctx context.Context, uid int64, data model.UserUpdate) (*model.User, error) {
	query := `UPDATE "user"
	          SET username = $1, email = $2, first_name = $3, last_name = $4
	          WHERE uid = $5
	          RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, query,
		data.Username, data.Email, data.FirstName, data.LastName, uid,
	)
	user, err := r.scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		if conflict := conflictFromPg(err); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("pgUserRepository.Update: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) Delete(ctx context.Context, uid int64) error {
	query := `DELETE FROM "user" WHERE uid = $1`
	if _, err := r.db.ExecContext(ctx, query, uid); err != nil {
		return fmt.Errorf("pgUserRepository.Delete: %w", err)
	}
	return nil
}

// conflictFromPg turns a unique violation into the matching duplicate error
// by constraint name. The signup pre-checks are advisory only; these
// constraints are what actually enforce uniqueness under concurrent signups.
func conflictFromPg(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	if strings.Contains(pgErr.ConstraintName, "email") {
		return common.ErrDuplicateEmail
	}
	return common.ErrDuplicateUsername
}
