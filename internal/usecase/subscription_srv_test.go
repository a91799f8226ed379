package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"streaming-catalog/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (h *harness) plan(t *testing.T, name string, days int) string {
	t.Helper()
	p, err := h.svc.Subscription.CreatePlan(context.Background(), &request.PlanRequest{
		Name: name, Price: 9.99, Quality: "HD", MaxDevices: 2, DurationDays: days,
	})
	require.NoError(t, err)
	return p.ID
}

func TestSubscriptionService_Plans(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	id := h.plan(t, "Basic", 0)
	p, err := h.svc.Subscription.GetPlan(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 30, p.DurationDays, "duration defaults to thirty days")

	_, err = h.svc.Subscription.CreatePlan(ctx, &request.PlanRequest{Name: "basic", Quality: "SD", MaxDevices: 1})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")

	_, err = h.svc.Subscription.CreatePlan(ctx, &request.PlanRequest{Name: "Ultra", Quality: "8K", MaxDevices: 1})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "quality")

	updated, err := h.svc.Subscription.UpdatePlan(ctx, id, &request.PlanRequest{Name: "Basic", Price: 4.99, Quality: "SD", MaxDevices: 1})
	require.NoError(t, err)
	assert.Equal(t, 4.99, updated.Price)
	assert.Equal(t, 30, updated.DurationDays)

	require.NoError(t, h.svc.Subscription.DeletePlan(ctx, id))
	_, err = h.svc.Subscription.GetPlan(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubscriptionService_SubscribeReplacesActive(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	srv := h.svc.Subscription.(*subscriptionService)
	userID, err := uuid.Parse(h.register(t, "switch", "switch@matrix.io", "secret1"))
	require.NoError(t, err)
	basic := h.plan(t, "Basic", 30)
	premium := h.plan(t, "Premium", 365)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	srv.now = func() time.Time { return start }
	first, err := h.svc.Subscription.Subscribe(ctx, userID, &request.SubscribeRequest{PlanID: basic, AutoRenew: true})
	require.NoError(t, err)
	assert.True(t, first.IsActive)
	assert.Equal(t, start.AddDate(0, 0, 30), first.EndDate)

	later := start.Add(48 * time.Hour)
	srv.now = func() time.Time { return later }
	second, err := h.svc.Subscription.Subscribe(ctx, userID, &request.SubscribeRequest{PlanID: premium})
	require.NoError(t, err)

	current, err := h.svc.Subscription.Current(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)
	require.NotNil(t, current.Plan)
	assert.Equal(t, "Premium", current.Plan.Name)

	history, err := h.svc.Subscription.GetUserSubscriptions(ctx, userID.String())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.False(t, history[1].IsActive)
	assert.Equal(t, later, history[1].EndDate, "the old subscription ends when the new one starts")

	err = h.svc.Subscription.DeletePlan(ctx, basic)
	assert.ErrorIs(t, err, ErrConflict, "plans with history cannot be deleted")
}

func TestSubscriptionService_FailedSwitchKeepsCurrent(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	userID, err := uuid.Parse(h.register(t, "apoc", "apoc@matrix.io", "secret1"))
	require.NoError(t, err)
	basic := h.plan(t, "Basic", 30)
	premium := h.plan(t, "Premium", 365)

	first, err := h.svc.Subscription.Subscribe(ctx, userID, &request.SubscribeRequest{PlanID: basic})
	require.NoError(t, err)

	h.db.failSubscriptionReplace = errors.New("connection reset")
	_, err = h.svc.Subscription.Subscribe(ctx, userID, &request.SubscribeRequest{PlanID: premium})
	require.Error(t, err)
	h.db.failSubscriptionReplace = nil

	current, err := h.svc.Subscription.Current(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, first.ID, current.ID)
	assert.True(t, current.IsActive)
}

func TestSubscriptionService_CancelKeepsAccess(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	userID, err := uuid.Parse(h.register(t, "mouse", "mouse@matrix.io", "secret1"))
	require.NoError(t, err)
	plan := h.plan(t, "Basic", 30)

	_, err = h.svc.Subscription.Cancel(ctx, userID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = h.svc.Subscription.Subscribe(ctx, userID, &request.SubscribeRequest{PlanID: plan, AutoRenew: true})
	require.NoError(t, err)

	cancelled, err := h.svc.Subscription.Cancel(ctx, userID)
	require.NoError(t, err)
	assert.False(t, cancelled.AutoRenew)
	assert.True(t, cancelled.IsActive)
}

func TestSubscriptionService_Assign(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	plan := h.plan(t, "Gift", 7)

	_, err := h.svc.Subscription.Assign(ctx, &request.AssignSubscriptionRequest{UserID: uuid.NewString(), PlanID: plan})
	assert.ErrorIs(t, err, ErrNotFound)

	userID := h.register(t, "dozer", "dozer@matrix.io", "secret1")
	sub, err := h.svc.Subscription.Assign(ctx, &request.AssignSubscriptionRequest{UserID: userID, PlanID: plan})
	require.NoError(t, err)
	assert.Equal(t, userID, sub.UserID)

	_, err = h.svc.Subscription.Assign(ctx, &request.AssignSubscriptionRequest{UserID: userID, PlanID: uuid.NewString()})
	assert.ErrorIs(t, err, ErrNotFound)
}
