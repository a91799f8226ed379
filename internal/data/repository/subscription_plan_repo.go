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

type SubscriptionPlanRepository interface {
	Create(ctx context.Context, plan *entity.SubscriptionPlan) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.SubscriptionPlan, error)
	FindByName(ctx context.Context, name string) (*entity.SubscriptionPlan, error)
	FindAll(ctx context.Context) ([]*entity.SubscriptionPlan, error)
	Update(ctx context.Context, plan *entity.SubscriptionPlan) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type subscriptionPlanRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSubscriptionPlanRepository(db database.PgxIface, log *zap.Logger) SubscriptionPlanRepository {
	return &subscriptionPlanRepository{
		db:  db,
		log: log.With(zap.String("repository", "subscription_plan")),
	}
}

const planColumns = `id, name, price, quality, max_devices, duration_days, created_at, updated_at`

func scanPlan(row pgx.Row) (*entity.SubscriptionPlan, error) {
	var plan entity.SubscriptionPlan
	err := row.Scan(
		&plan.ID,
		&plan.Name,
		&plan.Price,
		&plan.Quality,
		&plan.MaxDevices,
		&plan.DurationDays,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *subscriptionPlanRepository) Create(ctx context.Context, plan *entity.SubscriptionPlan) error {
	query := `
		INSERT INTO subscription_plans (id, name, price, quality, max_devices, duration_days,
		                                created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		plan.ID,
		plan.Name,
		plan.Price,
		plan.Quality,
		plan.MaxDevices,
		plan.DurationDays,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create subscription plan", zap.Error(err), zap.String("name", plan.Name))
		return fmt.Errorf("create subscription plan %s: %w", plan.Name, classify(err))
	}

	return nil
}

func (r *subscriptionPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.SubscriptionPlan, error) {
	plan, err := scanPlan(r.db.QueryRow(ctx, `SELECT `+planColumns+` FROM subscription_plans WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find subscription plan", zap.Error(err), zap.String("plan_id", id.String()))
		return nil, fmt.Errorf("find subscription plan %s: %w", id.String(), err)
	}

	return plan, nil
}

func (r *subscriptionPlanRepository) FindByName(ctx context.Context, name string) (*entity.SubscriptionPlan, error) {
	query := `SELECT ` + planColumns + ` FROM subscription_plans WHERE LOWER(name) = LOWER($1)`

	plan, err := scanPlan(r.db.QueryRow(ctx, query, name))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find subscription plan by name", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("find subscription plan %s: %w", name, err)
	}

	return plan, nil
}

func (r *subscriptionPlanRepository) FindAll(ctx context.Context) ([]*entity.SubscriptionPlan, error) {
	rows, err := r.db.Query(ctx, `SELECT `+planColumns+` FROM subscription_plans ORDER BY price, name`)
	if err != nil {
		r.log.Error("Failed to find subscription plans", zap.Error(err))
		return nil, fmt.Errorf("find subscription plans: %w", err)
	}
	defer rows.Close()

	plans := []*entity.SubscriptionPlan{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription plan: %w", err)
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscription plans: %w", err)
	}

	return plans, nil
}

func (r *subscriptionPlanRepository) Update(ctx context.Context, plan *entity.SubscriptionPlan) error {
	query := `
		UPDATE subscription_plans
		SET name = $2, price = $3, quality = $4, max_devices = $5, duration_days = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		plan.ID,
		plan.Name,
		plan.Price,
		plan.Quality,
		plan.MaxDevices,
		plan.DurationDays,
		plan.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update subscription plan", zap.Error(err), zap.String("plan_id", plan.ID.String()))
		return fmt.Errorf("update subscription plan %s: %w", plan.ID.String(), classify(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("subscription plan %s: %w", plan.ID.String(), ErrNotFound)
	}

	return nil
}

// Delete fails with ErrReferenced while any user subscription points at the plan.
func (r *subscriptionPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM subscription_plans WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete subscription plan", zap.Error(err), zap.String("plan_id", id.String()))
		return fmt.Errorf("delete subscription plan %s: %w", id.String(), classify(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("subscription plan %s: %w", id.String(), ErrNotFound)
	}

	return nil
}
