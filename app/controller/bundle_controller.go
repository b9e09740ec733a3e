package controller

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"bundle-manager/models"
	"bundle-manager/service"
	"bundle-manager/view"
)

const (
	actionCreateBundle = "create_bundle"
	actionUpdateBundle = "update_bundle"

	msgCreateFailed = "Failed to create bundle"
	msgUpdateFailed = "Failed to update bundle"
)

// BundleImporter imports bundles from a spreadsheet
type BundleImporter interface {
	Enabled() bool
	ImportBundles(ctx context.Context, shop string, fileID string) (*models.BulkImportResult, error)
}

// BundleController handles the bundle list and detail pages
type BundleController struct {
	bundleService service.BundleServiceInterface
	exportService service.ExportServiceInterface
	importer      BundleImporter
	now           func() time.Time
}

// NewBundleController creates a new BundleController
func NewBundleController(
	bundleService service.BundleServiceInterface,
	exportService service.ExportServiceInterface,
	importer BundleImporter,
) *BundleController {
	return &BundleController{
		bundleService: bundleService,
		exportService: exportService,
		importer:      importer,
		now:           time.Now,
	}
}

func (c *BundleController) importEnabled() bool {
	return c.importer != nil && c.importer.Enabled()
}

// loadListPage loads every bundle of the shop; a load failure yields the error page
func (c *BundleController) loadListPage(r *http.Request, shop string) (*view.ListPage, []models.BundleSummary, error) {
	bundles, err := c.bundleService.ListBundles(r.Context(), shop)
	if err != nil {
		return view.NewListErrorPage(), nil, err
	}
	page := view.NewListPage(bundles, r.URL.Query().Get("tab"))
	page.ImportEnabled = c.importEnabled()
	return page, bundles, nil
}

// List handles GET /app/bundles
func (c *BundleController) List(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOrUnauthorized(w, r)
	if !ok {
		return
	}

	page, bundles, err := c.loadListPage(r, shop)
	if err != nil {
		log.Printf("❌ ListBundles: %v", err)
		if !wantsHTML(r) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load bundles"})
			return
		}
		renderPage(w, http.StatusOK, view.PageBundles, page)
		return
	}

	log.Printf("✓ ListBundles: shop=%s bundles=%d", shop, len(bundles))
	if !wantsHTML(r) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"bundles": bundles})
		return
	}
	renderPage(w, http.StatusOK, view.PageBundles, page)
}

// Action handles POST /app/bundles, dispatching on the action form field
func (c *BundleController) Action(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOrUnauthorized(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	switch r.PostForm.Get("action") {
	case actionCreateBundle:
		c.create(w, r, shop)
	default:
		// unknown actions are a no-op
		writeJSON(w, http.StatusOK, nil)
	}
}

func (c *BundleController) create(w http.ResponseWriter, r *http.Request, shop string) {
	req := models.CreateBundleRequest{
		Title:        r.PostForm.Get("title"),
		Type:         r.PostForm.Get("type"),
		IsNewProduct: r.PostForm.Get("isNewProduct") == "true",
	}
	log.Printf("📥 CreateBundle: shop=%s type=%s title=%q", shop, req.Type, req.Title)

	bundle, err := c.bundleService.CreateBundle(r.Context(), shop, req)
	if err != nil {
		msg := createErrorMessage(err)
		log.Printf("❌ CreateBundle: %v", err)
		if wantsHTML(r) {
			page, _, loadErr := c.loadListPage(r, shop)
			if loadErr == nil {
				page.Banner = view.CreateErrorBanner(msg)
			}
			renderPage(w, http.StatusOK, view.PageBundles, page)
			return
		}
		writeJSON(w, http.StatusOK, models.CreateBundleResponse{Error: msg})
		return
	}

	log.Printf("✅ CreateBundle: bundle %s for product %s", bundle.ID, bundle.ProductID)
	if wantsHTML(r) {
		page, _, loadErr := c.loadListPage(r, shop)
		if loadErr == nil {
			page.Banner = view.CreatedBanner()
		}
		renderPage(w, http.StatusOK, view.PageBundles, page)
		return
	}
	writeJSON(w, http.StatusOK, models.CreateBundleResponse{Success: true, Bundle: bundle})
}

// createErrorMessage maps a create failure to the message shown to the merchant
func createErrorMessage(err error) string {
	var userErrs service.UserErrors
	var persistErr *service.PersistError
	switch {
	case errors.Is(err, service.ErrInvalidBundleType):
		return service.ErrInvalidBundleType.Error()
	case errors.Is(err, service.ErrInvalidTitle):
		return service.ErrInvalidTitle.Error()
	case errors.As(err, &userErrs):
		return userErrs.Error()
	case errors.As(err, &persistErr):
		return persistErr.Error()
	}
	return msgCreateFailed
}

// Detail handles GET /app/bundles/{id}
func (c *BundleController) Detail(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOrUnauthorized(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	detail, err := c.bundleService.GetBundleDetail(r.Context(), shop, id)
	if errors.Is(err, service.ErrBundleNotFound) {
		log.Printf("⚠️  BundleDetail: bundle %s not found for shop %s", id, shop)
		http.Redirect(w, r, "/app/bundles", http.StatusFound)
		return
	}
	if err != nil {
		log.Printf("❌ BundleDetail: %v", err)
		http.Error(w, "Failed to load bundle", http.StatusInternalServerError)
		return
	}

	if !wantsHTML(r) {
		writeJSON(w, http.StatusOK, detail)
		return
	}
	page := view.NewDetailPage(detail, r.URL.Query().Get("mode") == "edit")
	renderPage(w, http.StatusOK, view.PageBundleDetail, page)
}

// Update handles POST /app/bundles/{id}
func (c *BundleController) Update(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOrUnauthorized(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	if r.PostForm.Get("action") != actionUpdateBundle {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	// fields missing from the post keep the values the page was loaded with
	loaded, err := c.bundleService.GetBundleDetail(r.Context(), shop, id)
	if errors.Is(err, service.ErrBundleNotFound) {
		log.Printf("⚠️  UpdateBundle: bundle %s not found for shop %s", id, shop)
		http.Redirect(w, r, "/app/bundles", http.StatusSeeOther)
		return
	}
	if err != nil {
		log.Printf("❌ UpdateBundle: load bundle %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, models.UpdateBundleResponse{Success: false, Error: msgUpdateFailed})
		return
	}

	req := view.NewEditForm(loaded).Apply(r.PostForm).Request()
	log.Printf("📥 UpdateBundle: shop=%s id=%s status=%s", shop, id, req.Status)

	err = c.bundleService.UpdateBundle(r.Context(), shop, id, req)
	if errors.Is(err, service.ErrBundleNotFound) {
		log.Printf("⚠️  UpdateBundle: bundle %s not found for shop %s", id, shop)
		http.Redirect(w, r, "/app/bundles", http.StatusSeeOther)
		return
	}
	if err != nil {
		log.Printf("❌ UpdateBundle: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.UpdateBundleResponse{Success: false, Error: msgUpdateFailed})
		return
	}

	log.Printf("✅ UpdateBundle: bundle %s saved", id)
	if !wantsHTML(r) {
		writeJSON(w, http.StatusOK, models.UpdateBundleResponse{Success: true})
		return
	}

	// reload from persistence so the form starts without changes
	detail, err := c.bundleService.GetBundleDetail(r.Context(), shop, id)
	if err != nil {
		log.Printf("❌ UpdateBundle: reload failed: %v", err)
		http.Error(w, "Failed to load bundle", http.StatusInternalServerError)
		return
	}
	page := view.NewDetailPage(detail, true)
	page.Banner = &view.Banner{Tone: view.ToneSuccess, Title: "Bundle saved"}
	renderPage(w, http.StatusOK, view.PageBundleDetail, page)
}

// Export handles GET /app/bundles/export.pdf
func (c *BundleController) Export(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOrUnauthorized(w, r)
	if !ok {
		return
	}

	log.Printf("📥 ExportBundles: shop=%s", shop)
	bundles, err := c.bundleService.ListBundles(r.Context(), shop)
	if err != nil {
		log.Printf("❌ ExportBundles: %v", err)
		http.Error(w, "Failed to load bundles", http.StatusInternalServerError)
		return
	}

	var html bytes.Buffer
	if err := view.Render(&html, view.PageExport, view.NewExportPage(shop, bundles, c.now())); err != nil {
		log.Printf("❌ ExportBundles: %v", err)
		http.Error(w, "Failed to render export", http.StatusInternalServerError)
		return
	}

	pdf, err := c.exportService.RenderPDF(r.Context(), html.String())
	if err != nil {
		log.Printf("❌ ExportBundles: %v", err)
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ ExportBundles: %d bundles, %d bytes", len(bundles), len(pdf))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="bundles.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("❌ ExportBundles: error writing PDF: %v", err)
	}
}

// Import handles POST /app/bundles/import
func (c *BundleController) Import(w http.ResponseWriter, r *http.Request) {
	shop, ok := shopOrUnauthorized(w, r)
	if !ok {
		return
	}
	if !c.importEnabled() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": service.ErrImportDisabled.Error()})
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	fileID := r.PostForm.Get("fileId")
	if fileID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "fileId is required"})
		return
	}

	log.Printf("📥 ImportBundles: shop=%s file=%s", shop, fileID)
	result, err := c.importer.ImportBundles(r.Context(), shop, fileID)
	if err != nil {
		log.Printf("❌ ImportBundles: %v", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	log.Printf("🎉 ImportBundles: %s", result.Message)
	if wantsHTML(r) {
		page, _, loadErr := c.loadListPage(r, shop)
		if loadErr == nil {
			tone := view.ToneSuccess
			if result.ErrorsCount > 0 {
				tone = view.ToneCritical
			}
			page.Banner = &view.Banner{Tone: tone, Title: "Import finished", Message: result.Message}
		}
		renderPage(w, http.StatusOK, view.PageBundles, page)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
