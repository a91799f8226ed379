package repository

import (
	"context"
	"fmt"

	"streaming-catalog/internal/data/entity"
	"streaming-catalog/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*entity.Role, error)
	FindNamesByUserID(ctx context.Context, userID uuid.UUID) ([]string, error)
	AssignToUser(ctx context.Context, userID, roleID uuid.UUID) error
	RemoveFromUser(ctx context.Context, userID, roleID uuid.UUID) error
}

type roleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRoleRepository(db database.PgxIface, log *zap.Logger) RoleRepository {
	return &roleRepository{
		db:  db,
		log: log.With(zap.String("repository", "role")),
	}
}

func (r *roleRepository) FindByName(ctx context.Context, name string) (*entity.Role, error) {
	query := `SELECT id, name, created_at FROM roles WHERE LOWER(name) = LOWER($1)`

	var role entity.Role
	err := r.db.QueryRow(ctx, query, name).Scan(&role.ID, &role.Name, &role.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find role by name", zap.Error(err), zap.String("role", name))
		return nil, fmt.Errorf("find role %s: %w", name, err)
	}

	return &role, nil
}

func (r *roleRepository) FindNamesByUserID(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT r.name
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find roles for user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find roles for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	roles := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}

	return roles, nil
}

// AssignToUser is idempotent: assigning a role the user already holds is a no-op.
func (r *roleRepository) AssignToUser(ctx context.Context, userID, roleID uuid.UUID) error {
	query := `
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, userID, roleID); err != nil {
		r.log.Error("Failed to assign role",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("role_id", roleID.String()),
		)
		return fmt.Errorf("assign role %s to user %s: %w", roleID.String(), userID.String(), classify(err))
	}

	return nil
}

func (r *roleRepository) RemoveFromUser(ctx context.Context, userID, roleID uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	if err != nil {
		r.log.Error("Failed to remove role",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("role_id", roleID.String()),
		)
		return fmt.Errorf("remove role %s from user %s: %w", roleID.String(), userID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("role %s on user %s: %w", roleID.String(), userID.String(), ErrNotFound)
	}

	return nil
}
