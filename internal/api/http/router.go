package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/provisioning-service/internal/api/http/handlers"
	"github.com/spec-kit/provisioning-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Requests       *handlers.RequestsHandler
	Contracts      *handlers.ContractsHandler
	Tickets        *handlers.TicketsHandler
	Statuses       *handlers.StatusesHandler
	Catalog        *handlers.CatalogHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// status vocabulary is public read-only data
	app.Get("/statuses", cfg.Statuses.ListStatuses)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	protected.Post("/connection-requests", cfg.Requests.CreateRequest)
	protected.Get("/connection-requests", cfg.Requests.ListRequests)
	protected.Get("/connection-requests/:id", cfg.Requests.GetRequest)
	protected.Post("/connection-requests/:id/approve", cfg.Requests.ApproveRequest)
	protected.Patch("/connection-requests/:id/decline", cfg.Requests.DeclineRequest)

	protected.Get("/contracts", cfg.Contracts.ListContracts)
	protected.Get("/contracts/:id", cfg.Contracts.GetContract)
	protected.Patch("/contracts/:id/terminate-contract", cfg.Contracts.TerminateContract)

	protected.Post("/support-tickets", cfg.Tickets.CreateTicket)
	protected.Get("/support-tickets", cfg.Tickets.ListTickets)
	protected.Get("/support-tickets/:id", cfg.Tickets.GetTicket)
	protected.Put("/support-tickets/:id", cfg.Tickets.UpdateTicket)

	protected.Get("/equipment", cfg.Catalog.ListEquipment)
	protected.Get("/equipment/:id", cfg.Catalog.GetEquipment)
	protected.Post("/equipment", cfg.Catalog.CreateEquipment)
	protected.Put("/equipment/:id", cfg.Catalog.UpdateEquipment)
	protected.Delete("/equipment/:id", cfg.Catalog.DeleteEquipment)

	protected.Get("/tariffs", cfg.Catalog.ListTariffs)
	protected.Post("/tariffs", cfg.Catalog.CreateTariff)
	protected.Put("/tariffs/:id", cfg.Catalog.UpdateTariff)
	protected.Delete("/tariffs/:id", cfg.Catalog.DeleteTariff)
}
