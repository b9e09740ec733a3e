package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"bundle-manager/app/middleware"
	"bundle-manager/models"
	"bundle-manager/service"
)

const testShop = "demo.myshopify.com"

type fakeBundleService struct {
	bundles   []models.BundleSummary
	listErr   error
	detail    *models.BundleDetail
	detailErr error
	created   *models.Bundle
	createErr error
	updateErr error
	demo      *models.DemoProductResponse
	demoErr   error

	createReqs []models.CreateBundleRequest
	updateReqs []models.UpdateBundleRequest
	shops      []string
}

var _ service.BundleServiceInterface = (*fakeBundleService)(nil)

func (f *fakeBundleService) ListBundles(ctx context.Context, shop string) ([]models.BundleSummary, error) {
	f.shops = append(f.shops, shop)
	return f.bundles, f.listErr
}

func (f *fakeBundleService) GetBundleDetail(ctx context.Context, shop string, id string) (*models.BundleDetail, error) {
	f.shops = append(f.shops, shop)
	return f.detail, f.detailErr
}

func (f *fakeBundleService) CreateBundle(ctx context.Context, shop string, req models.CreateBundleRequest) (*models.Bundle, error) {
	f.createReqs = append(f.createReqs, req)
	return f.created, f.createErr
}

func (f *fakeBundleService) UpdateBundle(ctx context.Context, shop string, id string, req models.UpdateBundleRequest) error {
	f.updateReqs = append(f.updateReqs, req)
	return f.updateErr
}

func (f *fakeBundleService) GenerateDemoProduct(ctx context.Context, shop string) (*models.DemoProductResponse, error) {
	return f.demo, f.demoErr
}

func (f *fakeBundleService) ReconcileOrphans(ctx context.Context) (*models.ReconcileResult, error) {
	return &models.ReconcileResult{}, nil
}

type fakeExportService struct {
	html string
	pdf  []byte
	err  error
}

func (f *fakeExportService) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	f.html = html
	return f.pdf, f.err
}

type fakeImporter struct {
	enabled bool
	result  *models.BulkImportResult
	err     error
	fileIDs []string
}

func (f *fakeImporter) Enabled() bool { return f.enabled }

func (f *fakeImporter) ImportBundles(ctx context.Context, shop string, fileID string) (*models.BulkImportResult, error) {
	f.fileIDs = append(f.fileIDs, fileID)
	return f.result, f.err
}

type fakeProductService struct {
	products  []models.Product
	searchErr error
	image     []byte
	imageErr  error
	limits    []int
}

func (f *fakeProductService) SearchProducts(ctx context.Context, shop string, query string, limit int) ([]models.Product, error) {
	f.limits = append(f.limits, limit)
	return f.products, f.searchErr
}

func (f *fakeProductService) Thumbnail(ctx context.Context, shop string, productID string, size string) ([]byte, error) {
	return f.image, f.imageErr
}

// newRequest builds an authenticated request; form values are sent url-encoded
func newRequest(method string, target string, form url.Values, html bool, vars map[string]string) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if html {
		req.Header.Set("Accept", "text/html")
	}
	req = req.WithContext(middleware.WithShop(req.Context(), testShop))
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}
