package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/dbx"
	"github.com/dmitrijs2005/userdir/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (user_id, username, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.UserID, user.Username, user.Role.String(), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	query :=
		`SELECT user_id, username, role, created_at, updated_at FROM users
		 WHERE user_id = $1
		 `

	return r.scanUser(r.db.QueryRowContext(ctx, query, userID))
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT user_id, username, role, created_at, updated_at FROM users
		 WHERE username = $1
		 LIMIT 1
		 `

	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresRepository) List(ctx context.Context, limit int32, cursor string) ([]*models.User, string, error) {
	// Keyset continuation on the primary key. One extra row tells us whether
	// a next page exists; callers must not rely on the resulting order.
	query :=
		`SELECT user_id, username, role, created_at, updated_at FROM users
		 WHERE user_id > $1
		 ORDER BY user_id
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, cursor, limit+1)
	if err != nil {
		return nil, "", fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u := &models.User{}
		var roleValue string
		if err := rows.Scan(&u.UserID, &u.Username, &roleValue, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, "", fmt.Errorf("db error: %w", err)
		}
		if u.Role, err = models.ParseRole(roleValue); err != nil {
			return nil, "", fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("db error: %w", err)
	}

	next := ""
	if len(result) > int(limit) {
		result = result[:limit]
		next = result[len(result)-1].UserID
	}
	return result, next, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	query :=
		`DELETE FROM users
		 WHERE user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var roleValue string

	err := row.Scan(&u.UserID, &u.Username, &roleValue, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if u.Role, err = models.ParseRole(roleValue); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}
