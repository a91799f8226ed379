package adaptor

import (
	"net/http"

	"streaming-catalog/internal/dto/request"
	"streaming-catalog/internal/usecase"
	"streaming-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SubscriptionHandler struct {
	service usecase.SubscriptionService
	log     *zap.Logger
}

func NewSubscriptionHandler(service usecase.SubscriptionService, log *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
		log:     log.With(zap.String("handler", "subscription")),
	}
}

// ==================== PLANS ====================

// GetPlans handles GET /api/subscription-plans/get
func (h *SubscriptionHandler) GetPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.GetPlans(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get plans")
		return
	}

	utils.ResponseSuccess(w, "Plans retrieved successfully", plans)
}

// GetPlan handles GET /api/subscription-plans/get/{id}
func (h *SubscriptionHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.service.GetPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get plan")
		return
	}

	utils.ResponseSuccess(w, "Plan retrieved successfully", plan)
}

// CreatePlan handles POST /api/subscription-plans/create
func (h *SubscriptionHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req request.PlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	plan, err := h.service.CreatePlan(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create plan")
		return
	}

	utils.ResponseCreated(w, "Plan created successfully", plan)
}

// UpdatePlan handles PUT /api/subscription-plans/update/{id}
func (h *SubscriptionHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	var req request.PlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	plan, err := h.service.UpdatePlan(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update plan")
		return
	}

	utils.ResponseSuccess(w, "Plan updated successfully", plan)
}

// DeletePlan handles DELETE /api/subscription-plans/delete/{id}
func (h *SubscriptionHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePlan(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete plan")
		return
	}

	utils.ResponseSuccess(w, "Plan deleted successfully", nil)
}

// ==================== SUBSCRIPTIONS ====================

// Subscribe handles POST /api/subscriptions/subscribe
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.SubscribeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	subscription, err := h.service.Subscribe(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "subscribe")
		return
	}

	utils.ResponseCreated(w, "Subscribed successfully", subscription)
}

// Current handles GET /api/subscriptions/me
func (h *SubscriptionHandler) Current(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	subscription, err := h.service.Current(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get subscription")
		return
	}

	utils.ResponseSuccess(w, "Subscription retrieved successfully", subscription)
}

// Cancel handles POST /api/subscriptions/cancel
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	subscription, err := h.service.Cancel(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel subscription")
		return
	}

	utils.ResponseSuccess(w, "Auto-renew cancelled; access lasts until the end date", subscription)
}

// Assign handles POST /api/admin/subscriptions/assign
func (h *SubscriptionHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req request.AssignSubscriptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	subscription, err := h.service.Assign(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "assign subscription")
		return
	}

	utils.ResponseCreated(w, "Subscription assigned successfully", subscription)
}

// GetUserSubscriptions handles GET /api/admin/subscriptions/user/{userId}
func (h *SubscriptionHandler) GetUserSubscriptions(w http.ResponseWriter, r *http.Request) {
	subscriptions, err := h.service.GetUserSubscriptions(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get user subscriptions")
		return
	}

	utils.ResponseSuccess(w, "Subscriptions retrieved successfully", subscriptions)
}
