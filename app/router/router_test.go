package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundle-manager/app/controller"
	"bundle-manager/app/middleware"
	"bundle-manager/models"
)

type stubBundleService struct {
	detailIDs []string
}

func (s *stubBundleService) ListBundles(ctx context.Context, shop string) ([]models.BundleSummary, error) {
	return nil, nil
}

func (s *stubBundleService) GetBundleDetail(ctx context.Context, shop string, id string) (*models.BundleDetail, error) {
	s.detailIDs = append(s.detailIDs, id)
	return &models.BundleDetail{ID: id, Title: "Summer kit", Status: models.BundleStatusActive}, nil
}

func (s *stubBundleService) CreateBundle(ctx context.Context, shop string, req models.CreateBundleRequest) (*models.Bundle, error) {
	return &models.Bundle{ID: "b-1"}, nil
}

func (s *stubBundleService) UpdateBundle(ctx context.Context, shop string, id string, req models.UpdateBundleRequest) error {
	return nil
}

func (s *stubBundleService) GenerateDemoProduct(ctx context.Context, shop string) (*models.DemoProductResponse, error) {
	return &models.DemoProductResponse{}, nil
}

func (s *stubBundleService) ReconcileOrphans(ctx context.Context) (*models.ReconcileResult, error) {
	return &models.ReconcileResult{}, nil
}

type stubExport struct{}

func (stubExport) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	return []byte("%PDF"), nil
}

type stubProducts struct{}

func (stubProducts) SearchProducts(ctx context.Context, shop string, query string, limit int) ([]models.Product, error) {
	return nil, nil
}

func (stubProducts) Thumbnail(ctx context.Context, shop string, productID string, size string) ([]byte, error) {
	return []byte{0xff}, nil
}

func newTestHandler(bundles *stubBundleService) http.Handler {
	return SetupRoutes(&Controllers{
		Dashboard: controller.NewDashboardController(bundles),
		Bundle:    controller.NewBundleController(bundles, stubExport{}, nil),
		Product:   controller.NewProductController(stubProducts{}),
	}, Auth{APIKey: "app-key", APISecret: "app-secret"})
}

func sessionToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.SessionClaims{
		Dest: "https://demo.myshopify.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{"app-key"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString([]byte("app-secret"))
	require.NoError(t, err)
	return token
}

func TestPublicEndpoints(t *testing.T) {
	handler := newTestHandler(&stubBundleService{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAppRequiresSessionToken(t *testing.T) {
	handler := newTestHandler(&stubBundleService{})

	for _, path := range []string{"/app", "/app/bundles", "/app/bundles/b-1", "/app/products"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestAppRoutes(t *testing.T) {
	bundles := &stubBundleService{}
	handler := newTestHandler(bundles)
	token := sessionToken(t)

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, get("/app").Code)

	rec := get("/app/bundles/export.pdf")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Empty(t, bundles.detailIDs)

	assert.Equal(t, http.StatusOK, get("/app/bundles/b-1").Code)
	assert.Equal(t, []string{"b-1"}, bundles.detailIDs)

	rec = get("/app/products/201/thumbnail")
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
}
