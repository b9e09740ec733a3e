package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"bundle-manager/app/controller"
	"bundle-manager/app/middleware"
)

type Controllers struct {
	Dashboard *controller.DashboardController
	Bundle    *controller.BundleController
	Product   *controller.ProductController
}

// Auth holds the credentials used to verify session tokens
type Auth struct {
	APIKey    string
	APISecret string
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes builds the HTTP handler of the app
func SetupRoutes(controllers *Controllers, auth Auth) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.LogMiddleware, middleware.MetricsMiddleware)

	// Unauthenticated endpoints
	r.HandleFunc("/ping", pingHandler).Methods(http.MethodGet)
	r.Handle("/metrics", middleware.MetricsHandler()).Methods(http.MethodGet)

	// Embedded admin pages
	app := r.PathPrefix("/app").Subrouter()
	app.Use(middleware.SessionAuth(auth.APIKey, auth.APISecret))

	app.HandleFunc("", controllers.Dashboard.Index).Methods(http.MethodGet)
	app.HandleFunc("", controllers.Dashboard.GenerateProduct).Methods(http.MethodPost)

	app.HandleFunc("/bundles", controllers.Bundle.List).Methods(http.MethodGet)
	app.HandleFunc("/bundles", controllers.Bundle.Action).Methods(http.MethodPost)
	// Registered before /bundles/{id} so they are not taken as ids
	app.HandleFunc("/bundles/export.pdf", controllers.Bundle.Export).Methods(http.MethodGet)
	app.HandleFunc("/bundles/import", controllers.Bundle.Import).Methods(http.MethodPost)
	app.HandleFunc("/bundles/{id}", controllers.Bundle.Detail).Methods(http.MethodGet)
	app.HandleFunc("/bundles/{id}", controllers.Bundle.Update).Methods(http.MethodPost)

	app.HandleFunc("/products", controllers.Product.Search).Methods(http.MethodGet)
	app.HandleFunc("/products/{id}/thumbnail", controllers.Product.Thumbnail).Methods(http.MethodGet)

	return r
}
