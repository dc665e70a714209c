package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/volunteerhub/pkg/app"
	"github.com/ghuser/volunteerhub/services/resource/application/handlers"
	appsvcs "github.com/ghuser/volunteerhub/services/resource/application/services"
)

// ResourceRoutes registers resource endpoints on the provided chi router.
// The router is expected to sit behind auth.RequireAuth.
func ResourceRoutes(r chi.Router, a *app.Application) {
	Mount(r, appsvcs.New(a))
}

// Mount registers the resource endpoints backed by svcs.
func Mount(r chi.Router, svcs *appsvcs.Services) {
	res := handlers.NewResourceHandlers(svcs)
	r.Group(func(r chi.Router) {
		r.Route("/resources", func(r chi.Router) {
			r.Post("/", res.Create)
			r.Get("/", res.List)
			r.Post("/provision", handlers.NewPostProvisionHandler(svcs).Execute)
			r.Post("/distribute", handlers.NewPostDistributeHandler(svcs).Execute)
			r.Post("/return/request", handlers.NewPostReturnRequestHandler(svcs).Execute)
			r.Post("/return/confirm", handlers.NewPostConfirmReturnHandler(svcs).Execute)
			r.Get("/{id}", res.Get)
			r.Get("/{id}/assignments", res.Assignments)
			r.Get("/{id}/history", handlers.NewGetHistoryHandler(svcs).Execute)
			r.Get("/{id}/custody/verify", handlers.NewGetVerifyHandler(svcs).Execute)
		})
	})
}
