package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tasafe/tasafe-api/pkg/models"
)

// Repository handles user data access
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new user repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, course, photo_url, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user := &models.User{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Course,
		&user.PhotoURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// List returns a page of member summaries ordered by name, with the
// total count
func (r *Repository) List(ctx context.Context, limit, offset int) ([]models.UserSummary, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, name, email, role, course, photo_url
		FROM users
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []models.UserSummary
	for rows.Next() {
		summary := models.UserSummary{}
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Email,
			&summary.Role, &summary.Course, &summary.PhotoURL); err != nil {
			return nil, 0, err
		}
		result = append(result, summary)
	}
	return result, total, rows.Err()
}

// UpdateProfile applies the non-nil patch fields and returns the user
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, patch *UpdateProfileRequest) (*models.User, error) {
	set := []string{"updated_at = NOW()"}
	args := []interface{}{}
	argIdx := 1

	addSet := func(column string, value interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if patch.Name != nil {
		addSet("name", *patch.Name)
	}
	if patch.Course != nil {
		addSet("course", *patch.Course)
	}
	if patch.PhotoURL != nil {
		addSet("photo_url", *patch.PhotoURL)
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`, strings.Join(set, ", "), argIdx)
	args = append(args, id)

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return r.GetByID(ctx, id)
}
