package controller

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"bundle-manager/service"
	"bundle-manager/view"
)

// DashboardController handles the app home page
type DashboardController struct {
	bundleService service.BundleServiceInterface
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(bundleService service.BundleServiceInterface) *DashboardController {
	return &DashboardController{
		bundleService: bundleService,
	}
}

// Index handles GET /app
func (c *DashboardController) Index(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOrUnauthorized(w, r)
	if !ok {
		return
	}
	renderPage(w, http.StatusOK, view.PageDashboard, &view.DashboardPage{Shop: shop})
}

// GenerateProduct handles POST /app and creates a demo product
func (c *DashboardController) GenerateProduct(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOrUnauthorized(w, r)
	if !ok {
		return
	}

	log.Printf("📥 GenerateProduct: shop=%s", shop)
	result, err := c.bundleService.GenerateDemoProduct(r.Context(), shop)
	if err != nil {
		log.Printf("❌ GenerateProduct: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to generate product"})
		return
	}

	log.Printf("✅ GenerateProduct: created product %s", result.Product.ProductID)
	writeJSON(w, http.StatusOK, result)
}
