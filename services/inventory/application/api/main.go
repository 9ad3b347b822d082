package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/stocktake/services/inventory/application/handlers"
	appsvcs "github.com/ghuser/stocktake/services/inventory/application/services"
)

// InventoryRoutes registers item, category and report endpoints on r.
func InventoryRoutes(r chi.Router, svcs *appsvcs.Services, production bool) {
	items := handlers.NewItemsHandler(svcs, production)
	cats := handlers.NewCategoriesHandler(svcs, production)
	reports := handlers.NewReportsHandler(svcs)

	r.Group(func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", items.List)
			r.Post("/", items.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", items.Get)
				r.Patch("/", items.Update)
				r.Delete("/", items.Delete)
				r.Post("/increment", items.Increment)
				r.Post("/decrement", items.Decrement)
			})
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", cats.List)
			r.Post("/", cats.Create)
			r.Put("/{id}", cats.Rename)
			r.Delete("/{id}", cats.Delete)
		})
		r.Get("/summary", reports.Summary)
		r.Get("/export.csv", reports.Export)
	})
}
