package dashboard

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all dashboard routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger)

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	r.HandleFunc("/", handler.Index).Methods("GET")
	r.HandleFunc("/compare", handler.Compare).Methods("GET", "POST")

	return r
}
