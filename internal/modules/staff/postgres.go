package staff

import (
	"context"
	"database/sql"
	"errors"

	"github.com/georgemunganga/freshpavilion-backend/internal/platform/apperr"
	"github.com/georgemunganga/freshpavilion-backend/internal/platform/postgres"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL staff repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func scanMember(scan func(dest ...interface{}) error) (Member, error) {
	var (
		m     Member
		phone sql.NullString
		role  sql.NullString
	)
	if err := scan(&m.ID, &m.Username, &m.PasswordHash, &phone, &role); err != nil {
		return Member{}, err
	}
	m.Phone = phone.String
	m.Role = Role(role.String)
	if !m.Role.Valid() {
		m.Role = RoleStaff
	}
	return m, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, password_hash, phone, role
		FROM admin_users
		ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		m, err := scanMember(rows.Scan)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *postgresRepository) Create(ctx context.Context, m Member) error {
	query := `
		INSERT INTO admin_users (id, username, password_hash, phone, role)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, m.ID, m.Username, m.PasswordHash, m.Phone, m.Role)
	if postgres.IsUniqueViolation(err) {
		return ErrUsernameTaken
	}
	return err
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM admin_users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) GetByUsername(ctx context.Context, username string) (Member, error) {
	query := `
		SELECT id, username, password_hash, phone, role
		FROM admin_users
		WHERE username = $1
	`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, username).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Member{}, apperr.ErrNotFound
	}
	return m, err
}
