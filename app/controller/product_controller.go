package controller

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"bundle-manager/models"
	"bundle-manager/repository"
	"bundle-manager/service"
)

// ProductController serves catalog products to the product picker
type ProductController struct {
	productService service.ProductServiceInterface
}

// NewProductController creates a new ProductController
func NewProductController(productService service.ProductServiceInterface) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// Search handles GET /app/products?query=&limit=
func (c *ProductController) Search(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOrUnauthorized(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("query")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "limit must be a number", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	products, err := c.productService.SearchProducts(r.Context(), shop, query, limit)
	if errors.Is(err, repository.ErrSessionNotFound) {
		http.Error(w, "Shop is not installed", http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Printf("❌ SearchProducts: %v", err)
		http.Error(w, "Failed to search products", http.StatusBadGateway)
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	writeJSON(w, http.StatusOK, models.ProductSearchResponse{Products: products})
}

// Thumbnail handles GET /app/products/{id}/thumbnail?size=thumb|medium
func (c *ProductController) Thumbnail(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOrUnauthorized(w, r)
	if !ok {
		return
	}
	productID := mux.Vars(r)["id"]
	size := r.URL.Query().Get("size")

	data, err := c.productService.Thumbnail(r.Context(), shop, productID, size)
	if errors.Is(err, service.ErrProductNotFound) {
		http.Error(w, "Product image not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("❌ Thumbnail: product=%s: %v", productID, err)
		http.Error(w, "Failed to load image", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("❌ Thumbnail: error writing image: %v", err)
	}
}
