package repository

import (
	"context"
	"fmt"
	"time"

	"streaming-catalog/internal/data/entity"
	"streaming-catalog/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type UserSubscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.UserSubscription) error
	FindActiveByUserID(ctx context.Context, userID uuid.UUID, at time.Time) (*entity.UserSubscription, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.UserSubscription, error)
	CountByPlanID(ctx context.Context, planID uuid.UUID) (int64, error)
	Update(ctx context.Context, subscription *entity.UserSubscription) error
	// Replace closes every subscription of the user still running at the new start date
	// and inserts the new one, both or neither.
	Replace(ctx context.Context, subscription *entity.UserSubscription) error
}

type userSubscriptionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserSubscriptionRepository(db database.PgxIface, log *zap.Logger) UserSubscriptionRepository {
	return &userSubscriptionRepository{
		db:  db,
		log: log.With(zap.String("repository", "user_subscription")),
	}
}

const subscriptionColumns = `id, user_id, plan_id, start_date, end_date, auto_renew, created_at, updated_at`

func scanSubscription(row pgx.Row) (*entity.UserSubscription, error) {
	var sub entity.UserSubscription
	err := row.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.PlanID,
		&sub.StartDate,
		&sub.EndDate,
		&sub.AutoRenew,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *userSubscriptionRepository) Create(ctx context.Context, sub *entity.UserSubscription) error {
	return r.insert(ctx, r.db, sub)
}

func (r *userSubscriptionRepository) insert(ctx context.Context, db execer, sub *entity.UserSubscription) error {
	query := `
		INSERT INTO user_subscriptions (id, user_id, plan_id, start_date, end_date, auto_renew,
		                                created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := db.Exec(ctx, query,
		sub.ID,
		sub.UserID,
		sub.PlanID,
		sub.StartDate,
		sub.EndDate,
		sub.AutoRenew,
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create user subscription",
			zap.Error(err),
			zap.String("user_id", sub.UserID.String()),
			zap.String("plan_id", sub.PlanID.String()),
		)
		return fmt.Errorf("create subscription for user %s: %w", sub.UserID.String(), classify(err))
	}

	return nil
}

func (r *userSubscriptionRepository) FindActiveByUserID(ctx context.Context, userID uuid.UUID, at time.Time) (*entity.UserSubscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM user_subscriptions
		WHERE user_id = $1 AND start_date <= $2 AND end_date > $2
		ORDER BY start_date DESC
		LIMIT 1
	`

	sub, err := scanSubscription(r.db.QueryRow(ctx, query, userID, at))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active subscription",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find active subscription for user %s: %w", userID.String(), err)
	}

	return sub, nil
}

func (r *userSubscriptionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.UserSubscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM user_subscriptions WHERE user_id = $1 ORDER BY start_date DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find subscriptions",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find subscriptions for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	subs := []*entity.UserSubscription{}
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}

	return subs, nil
}

func (r *userSubscriptionRepository) CountByPlanID(ctx context.Context, planID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM user_subscriptions WHERE plan_id = $1`, planID).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count plan subscriptions", zap.Error(err), zap.String("plan_id", planID.String()))
		return 0, fmt.Errorf("count subscriptions for plan %s: %w", planID.String(), err)
	}
	return total, nil
}

func (r *userSubscriptionRepository) Update(ctx context.Context, sub *entity.UserSubscription) error {
	query := `
		UPDATE user_subscriptions
		SET plan_id = $2, start_date = $3, end_date = $4, auto_renew = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		sub.ID,
		sub.PlanID,
		sub.StartDate,
		sub.EndDate,
		sub.AutoRenew,
		sub.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update subscription", zap.Error(err), zap.String("subscription_id", sub.ID.String()))
		return fmt.Errorf("update subscription %s: %w", sub.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("subscription %s: %w", sub.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *userSubscriptionRepository) Replace(ctx context.Context, sub *entity.UserSubscription) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace subscription: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE user_subscriptions
		SET end_date = $2, auto_renew = false, updated_at = $2
		WHERE user_id = $1 AND start_date <= $2 AND end_date > $2
	`

	if _, err := tx.Exec(ctx, query, sub.UserID, sub.StartDate); err != nil {
		r.log.Error("Failed to end active subscriptions", zap.Error(err), zap.String("user_id", sub.UserID.String()))
		return fmt.Errorf("end active subscriptions for user %s: %w", sub.UserID.String(), err)
	}

	if err := r.insert(ctx, tx, sub); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace subscription: %w", err)
	}

	return nil
}
