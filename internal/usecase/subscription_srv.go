package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"streaming-catalog/internal/data/entity"
	"streaming-catalog/internal/data/repository"
	"streaming-catalog/internal/dto/request"
	"streaming-catalog/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPlanDays = 30

type SubscriptionService interface {
	// Plans
	GetPlans(ctx context.Context) ([]response.PlanResponse, error)
	GetPlan(ctx context.Context, planID string) (*response.PlanResponse, error)
	CreatePlan(ctx context.Context, req *request.PlanRequest) (*response.PlanResponse, error)
	UpdatePlan(ctx context.Context, planID string, req *request.PlanRequest) (*response.PlanResponse, error)
	DeletePlan(ctx context.Context, planID string) error

	// User subscriptions
	Subscribe(ctx context.Context, userID uuid.UUID, req *request.SubscribeRequest) (*response.SubscriptionResponse, error)
	Current(ctx context.Context, userID uuid.UUID) (*response.SubscriptionResponse, error)
	Cancel(ctx context.Context, userID uuid.UUID) (*response.SubscriptionResponse, error)
	Assign(ctx context.Context, req *request.AssignSubscriptionRequest) (*response.SubscriptionResponse, error)
	GetUserSubscriptions(ctx context.Context, userID string) ([]response.SubscriptionResponse, error)
}

type subscriptionService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewSubscriptionService(repo *repository.Repository, log *zap.Logger) SubscriptionService {
	return &subscriptionService{
		repo: repo,
		log:  log.With(zap.String("service", "subscription")),
		now:  time.Now,
	}
}

func errPlanExists() error {
	return newValidationError("name", "Plan name already exists")
}

func (s *subscriptionService) GetPlans(ctx context.Context) ([]response.PlanResponse, error) {
	plans, err := s.repo.SubscriptionPlan.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list plans", zap.Error(err))
		return nil, fmt.Errorf("list plans: %w", err)
	}

	out := make([]response.PlanResponse, len(plans))
	for i, p := range plans {
		out[i] = response.PlanToResponse(p)
	}
	return out, nil
}

func (s *subscriptionService) plan(ctx context.Context, id uuid.UUID) (*entity.SubscriptionPlan, error) {
	plan, err := s.repo.SubscriptionPlan.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find plan", zap.Error(err), zap.String("plan_id", id.String()))
		return nil, fmt.Errorf("find plan: %w", err)
	}
	if plan == nil {
		return nil, notFound("subscription plan")
	}
	return plan, nil
}

func (s *subscriptionService) GetPlan(ctx context.Context, planID string) (*response.PlanResponse, error) {
	id, err := parseID(planID, "plan id")
	if err != nil {
		return nil, err
	}
	plan, err := s.plan(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := response.PlanToResponse(plan)
	return &resp, nil
}

func (s *subscriptionService) CreatePlan(ctx context.Context, req *request.PlanRequest) (*response.PlanResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)

	existing, err := s.repo.SubscriptionPlan.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check plan name: %w", err)
	}
	if existing != nil {
		return nil, errPlanExists()
	}

	now := s.now()
	plan := &entity.SubscriptionPlan{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:         name,
		Price:        req.Price,
		Quality:      entity.VideoQuality(req.Quality),
		MaxDevices:   req.MaxDevices,
		DurationDays: req.DurationDays,
	}
	if plan.DurationDays == 0 {
		plan.DurationDays = defaultPlanDays
	}

	if err := s.repo.SubscriptionPlan.Create(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errPlanExists()
		}
		s.log.Error("Failed to create plan", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("create plan: %w", err)
	}

	s.log.Info("Plan created", zap.String("plan_id", plan.ID.String()), zap.String("name", name))
	resp := response.PlanToResponse(plan)
	return &resp, nil
}

func (s *subscriptionService) UpdatePlan(ctx context.Context, planID string, req *request.PlanRequest) (*response.PlanResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	id, err := parseID(planID, "plan id")
	if err != nil {
		return nil, err
	}
	plan, err := s.plan(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	existing, err := s.repo.SubscriptionPlan.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check plan name: %w", err)
	}
	if existing != nil && existing.ID != plan.ID {
		return nil, errPlanExists()
	}

	plan.Name = name
	plan.Price = req.Price
	plan.Quality = entity.VideoQuality(req.Quality)
	plan.MaxDevices = req.MaxDevices
	if req.DurationDays > 0 {
		plan.DurationDays = req.DurationDays
	}
	plan.UpdatedAt = s.now()

	if err := s.repo.SubscriptionPlan.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errPlanExists()
		}
		s.log.Error("Failed to update plan", zap.Error(err), zap.String("plan_id", planID))
		return nil, fmt.Errorf("update plan: %w", err)
	}

	resp := response.PlanToResponse(plan)
	return &resp, nil
}

// DeletePlan refuses plans that any subscription, past or present, still points at.
func (s *subscriptionService) DeletePlan(ctx context.Context, planID string) error {
	id, err := parseID(planID, "plan id")
	if err != nil {
		return err
	}

	count, err := s.repo.UserSubscription.CountByPlanID(ctx, id)
	if err != nil {
		return fmt.Errorf("count plan subscriptions: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("plan has %d subscriptions: %w", count, ErrConflict)
	}

	if err := s.repo.SubscriptionPlan.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound("subscription plan")
		case errors.Is(err, repository.ErrReferenced):
			return fmt.Errorf("plan is in use: %w", ErrConflict)
		}
		s.log.Error("Failed to delete plan", zap.Error(err), zap.String("plan_id", planID))
		return fmt.Errorf("delete plan: %w", err)
	}

	s.log.Info("Plan deleted", zap.String("plan_id", planID))
	return nil
}

// start ends any running subscription and opens a new one on the plan.
func (s *subscriptionService) start(ctx context.Context, userID, planID uuid.UUID, autoRenew bool) (*response.SubscriptionResponse, error) {
	plan, err := s.plan(ctx, planID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sub := &entity.UserSubscription{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		UserID:    userID,
		PlanID:    plan.ID,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, plan.DurationDays),
		AutoRenew: autoRenew,
	}
	// Ends whatever is active now and inserts sub atomically
	if err := s.repo.UserSubscription.Replace(ctx, sub); err != nil {
		s.log.Error("Failed to start subscription", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("start subscription: %w", err)
	}

	s.log.Info("Subscription started",
		zap.String("user_id", userID.String()),
		zap.String("plan", plan.Name),
		zap.Time("end_date", sub.EndDate))

	resp := response.SubscriptionToResponse(sub, plan, now)
	return &resp, nil
}

func (s *subscriptionService) Subscribe(ctx context.Context, userID uuid.UUID, req *request.SubscribeRequest) (*response.SubscriptionResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		return nil, newValidationError("planId", "Invalid plan id")
	}
	return s.start(ctx, userID, planID, req.AutoRenew)
}

func (s *subscriptionService) Assign(ctx context.Context, req *request.AssignSubscriptionRequest) (*response.SubscriptionResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, newValidationError("userId", "Invalid user id")
	}
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		return nil, newValidationError("planId", "Invalid plan id")
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, notFound("user")
	}

	return s.start(ctx, userID, planID, req.AutoRenew)
}

func (s *subscriptionService) active(ctx context.Context, userID uuid.UUID) (*entity.UserSubscription, error) {
	sub, err := s.repo.UserSubscription.FindActiveByUserID(ctx, userID, s.now())
	if err != nil {
		s.log.Error("Failed to find subscription", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	if sub == nil {
		return nil, notFound("active subscription")
	}
	return sub, nil
}

func (s *subscriptionService) Current(ctx context.Context, userID uuid.UUID) (*response.SubscriptionResponse, error) {
	sub, err := s.active(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan, err := s.repo.SubscriptionPlan.FindByID(ctx, sub.PlanID)
	if err != nil {
		return nil, fmt.Errorf("find plan: %w", err)
	}
	resp := response.SubscriptionToResponse(sub, plan, s.now())
	return &resp, nil
}

// Cancel stops renewal; access lasts until the paid period ends.
func (s *subscriptionService) Cancel(ctx context.Context, userID uuid.UUID) (*response.SubscriptionResponse, error) {
	sub, err := s.active(ctx, userID)
	if err != nil {
		return nil, err
	}

	sub.AutoRenew = false
	sub.UpdatedAt = s.now()
	if err := s.repo.UserSubscription.Update(ctx, sub); err != nil {
		s.log.Error("Failed to cancel subscription", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("cancel subscription: %w", err)
	}

	plan, err := s.repo.SubscriptionPlan.FindByID(ctx, sub.PlanID)
	if err != nil {
		return nil, fmt.Errorf("find plan: %w", err)
	}

	s.log.Info("Subscription cancelled", zap.String("user_id", userID.String()), zap.Time("end_date", sub.EndDate))
	resp := response.SubscriptionToResponse(sub, plan, s.now())
	return &resp, nil
}

func (s *subscriptionService) GetUserSubscriptions(ctx context.Context, userID string) ([]response.SubscriptionResponse, error) {
	id, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}

	subs, err := s.repo.UserSubscription.FindByUserID(ctx, id)
	if err != nil {
		s.log.Error("Failed to list subscriptions", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	plans := map[uuid.UUID]*entity.SubscriptionPlan{}
	now := s.now()
	out := make([]response.SubscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		plan, ok := plans[sub.PlanID]
		if !ok {
			if plan, err = s.repo.SubscriptionPlan.FindByID(ctx, sub.PlanID); err != nil {
				return nil, fmt.Errorf("find plan: %w", err)
			}
			plans[sub.PlanID] = plan
		}
		out = append(out, response.SubscriptionToResponse(sub, plan, now))
	}
	return out, nil
}
