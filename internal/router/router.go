package router

import (
	"asset-registry-api/internal/config"
	"asset-registry-api/internal/handler"
	"asset-registry-api/internal/middleware"
	"asset-registry-api/internal/model"

	"github.com/gorilla/mux"
)

// Resources bundles the per-entity handlers the router exposes.
type Resources struct {
	Providers  *handler.Resource[model.Provider]
	Persons    *handler.Resource[model.Person]
	Equipment  *handler.Resource[model.Equipment]
	Tech       *handler.Resource[model.TechEquipment]
	Biomedical *handler.Resource[model.BiomedicalEquipment]
	Requests   *handler.Resource[model.EntryRequest]
	Health     *handler.HealthHandler
}

// NewRouter creates a new router and sets up the routes with security middleware.
func NewRouter(res Resources, cfg *config.Config, logger *middleware.RequestLogger) *mux.Router {
	r := mux.NewRouter()

	securityMW := middleware.NewSecurityMiddleware(&cfg.Security)

	// Apply global middleware in order
	r.Use(logger.Log)
	r.Use(securityMW.SecurityHeaders)
	r.Use(securityMW.CORS)
	r.Use(securityMW.RateLimit)
	r.Use(securityMW.RequestTimeout)

	api := r.PathPrefix("/api/v1").Subrouter()

	registerResource(api, "/providers", res.Providers)
	registerResource(api, "/persons", res.Persons)
	registerResource(api, "/equipment", res.Equipment)
	registerResource(api, "/tech-equipment", res.Tech)
	registerResource(api, "/biomedical-equipment", res.Biomedical)
	registerResource(api, "/entry-requests", res.Requests)

	// Health check
	api.HandleFunc("/health", res.Health.Handle).Methods("GET")

	return r
}

// registerResource wires the CRUD routes for one entity kind.
func registerResource[E any](api *mux.Router, path string, res *handler.Resource[E]) {
	api.HandleFunc(path, res.CreateHandler).Methods("POST")
	api.HandleFunc(path, res.ListHandler).Methods("GET")
	api.HandleFunc(path+"/{id}", res.GetHandler).Methods("GET")
	api.HandleFunc(path+"/{id}", res.UpdateHandler).Methods("PUT")
	api.HandleFunc(path+"/{id}", res.DeleteHandler).Methods("DELETE")
}
