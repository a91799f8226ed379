package wire

import (
	"net/http"

	"streaming-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireSubscription(
	r chi.Router,
	subscriptionHandler *adaptor.SubscriptionHandler,
	auth, admin func(http.Handler) http.Handler,
) {
	// ==================== PLANS ====================
	r.Route("/api/subscription-plans", func(r chi.Router) {
		r.Get("/get", subscriptionHandler.GetPlans)
		r.Get("/get/{id}", subscriptionHandler.GetPlan)

		r.Group(func(r chi.Router) {
			r.Use(auth, admin)
			r.Post("/create", subscriptionHandler.CreatePlan)
			r.Put("/update/{id}", subscriptionHandler.UpdatePlan)
			r.Delete("/delete/{id}", subscriptionHandler.DeletePlan)
		})
	})

	// ==================== PROTECTED ROUTES ====================
	r.With(auth).Route("/api/subscriptions", func(r chi.Router) {
		r.Post("/subscribe", subscriptionHandler.Subscribe)
		r.Get("/me", subscriptionHandler.Current)
		r.Post("/cancel", subscriptionHandler.Cancel)
	})

	// ==================== ADMIN ROUTES ====================
	r.With(auth, admin).Route("/api/admin/subscriptions", func(r chi.Router) {
		r.Post("/assign", subscriptionHandler.Assign)
		r.Get("/user/{userId}", subscriptionHandler.GetUserSubscriptions)
	})
}
