package cataloginfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Abraxas-365/ensamble/pkg/catalog"
	"github.com/Abraxas-365/ensamble/pkg/errx"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresUserRepository es la implementación en PostgreSQL de
// catalog.UserRepository.
type PostgresUserRepository struct {
	db *sqlx.DB
}

// NewPostgresUserRepository crea una nueva instancia del repositorio.
func NewPostgresUserRepository(db *sqlx.DB) catalog.UserRepository {
	return &PostgresUserRepository{db: db}
}

type userRow struct {
	UserID     string `db:"user_id"`
	Name       string `db:"name"`
	ProfileURL string `db:"profile_url"`
}

// ByID busca un usuario por su ID.
func (r *PostgresUserRepository) ByID(ctx context.Context, userID string) (catalog.User, error) {
	var row userRow
	query := `SELECT user_id, name, profile_url FROM users WHERE user_id = $1`

	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.User{}, catalog.ErrUserNotFound().WithDetail("user_id", userID)
		}
		return catalog.User{}, errx.Wrap(err, "failed to fetch user", errx.TypeInternal).
			WithDetail("user_id", userID)
	}

	return catalog.User{
		UserID:     row.UserID,
		Name:       row.Name,
		ProfileURL: row.ProfileURL,
	}, nil
}

// Save inserta o actualiza un usuario.
func (r *PostgresUserRepository) Save(ctx context.Context, user catalog.User) error {
	query := `
		INSERT INTO users (user_id, name, profile_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			profile_url = EXCLUDED.profile_url`

	if _, err := r.db.ExecContext(ctx, query, user.UserID, user.Name, user.ProfileURL); err != nil {
		return errx.Wrap(err, "failed to save user", errx.TypeInternal).
			WithDetail("user_id", user.UserID)
	}
	return nil
}
