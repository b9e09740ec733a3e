package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"bundle-manager/models"
	"bundle-manager/pricing"
	"bundle-manager/repository"
	"bundle-manager/utils"
)

const (
	// PlaceholderImageURL is shown for items the platform did not return
	PlaceholderImageURL = "https://cdn.shopify.com/s/files/1/0757/9955/files/empty-state.svg"
	placeholderPrice    = "$0.00"
	placeholderVariant  = "Default"

	demoProductPrice  = "100.00"
	compensateTimeout = 30 * time.Second
)

var demoColors = []string{"Red", "Orange", "Yellow", "Green"}

// BundleService orchestrates bundle persistence and the platform product behind each bundle
// Implements BundleServiceInterface
type BundleService struct {
	bundles         repository.BundleRepositoryInterface
	sessions        repository.SessionRepositoryInterface
	reconciliations repository.ReconciliationRepositoryInterface
	platform        PlatformServiceInterface
	pricing         *pricing.Engine
	validate        *validator.Validate

	now   func() time.Time
	newID func() string
	pick  func(n int) int
}

var _ BundleServiceInterface = (*BundleService)(nil)

// NewBundleService creates a new BundleService
func NewBundleService(
	bundles repository.BundleRepositoryInterface,
	sessions repository.SessionRepositoryInterface,
	reconciliations repository.ReconciliationRepositoryInterface,
	platform PlatformServiceInterface,
	engine *pricing.Engine,
) *BundleService {
	return &BundleService{
		bundles:         bundles,
		sessions:        sessions,
		reconciliations: reconciliations,
		platform:        platform,
		pricing:         engine,
		validate:        validator.New(),
		now:             func() time.Time { return time.Now().UTC() },
		newID:           uuid.NewString,
		pick:            rand.Intn,
	}
}

func (s *BundleService) adminSession(ctx context.Context, shop string) (AdminSession, error) {
	token, err := s.sessions.GetAccessToken(ctx, shop)
	if err != nil {
		return AdminSession{}, err
	}
	return AdminSession{Shop: shop, AccessToken: token}, nil
}

// ListBundles returns the shop's bundles, newest first, with their item counts
func (s *BundleService) ListBundles(ctx context.Context, shop string) ([]models.BundleSummary, error) {
	bundles, err := s.bundles.ListBundles(ctx, shop)
	if err != nil {
		log.Errorf("❌ ListBundles: shop=%s: %v", shop, err)
		return nil, err
	}

	ids := make([]string, len(bundles))
	for i, b := range bundles {
		ids[i] = b.ID
	}
	counts, err := s.bundles.CountItemsByBundle(ctx, ids)
	if err != nil {
		log.Errorf("❌ ListBundles: count items: %v", err)
		return nil, err
	}

	summaries := make([]models.BundleSummary, 0, len(bundles))
	for _, b := range bundles {
		summaries = append(summaries, models.BundleSummary{
			ID:           b.ID,
			Title:        b.Title,
			Type:         b.Type,
			Status:       b.Status,
			ProductID:    b.ProductID,
			ProductCount: counts[b.ID],
		})
	}

	log.Debugf("ListBundles: shop=%s, bundles=%d", shop, len(summaries))
	return summaries, nil
}

// GetBundleDetail loads a bundle with its items resolved against the platform catalog.
// Platform failures degrade to placeholder items; a missing bundle returns ErrBundleNotFound.
func (s *BundleService) GetBundleDetail(ctx context.Context, shop string, id string) (*models.BundleDetail, error) {
	bundle, err := s.bundles.GetBundle(ctx, id, shop)
	if err != nil {
		return nil, err
	}

	items, err := s.bundles.ListItems(ctx, bundle.ID)
	if err != nil {
		log.Errorf("❌ GetBundleDetail: list items of %s: %v", bundle.ID, err)
		return nil, err
	}

	detail := &models.BundleDetail{
		ID:        bundle.ID,
		Title:     bundle.Title,
		Type:      bundle.Type,
		Status:    bundle.Status,
		ProductID: bundle.ProductID,
		Items:     make([]models.BundleItemView, 0, len(items)),
	}

	products := map[string]models.Product{}
	session, err := s.adminSession(ctx, shop)
	if err != nil {
		log.Warnf("⚠️  GetBundleDetail: no admin session for %s: %v", shop, err)
	} else {
		ids := make([]string, len(items))
		for i, item := range items {
			ids[i] = item.ProductID
		}
		found, err := s.platform.GetProducts(ctx, session, ids)
		if err != nil {
			log.Warnf("⚠️  GetBundleDetail: catalog lookup failed: %v", err)
		}
		for _, p := range found {
			products[p.ID] = p
		}

		if variant, err := s.platform.GetVariantPrice(ctx, session, bundle.ProductID); err != nil {
			log.Warnf("⚠️  GetBundleDetail: variant price of product %s: %v", bundle.ProductID, err)
		} else {
			detail.VariantID = variant.VariantID
			detail.Price = variant.Price
		}
	}

	var itemPrices []decimal.Decimal
	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			detail.Items = append(detail.Items, models.BundleItemView{
				ID:        item.ID,
				ProductID: item.ProductID,
				Title:     item.ProductID,
				ImageURL:  PlaceholderImageURL,
				Price:     placeholderPrice,
				Variant:   placeholderVariant,
			})
			continue
		}

		view := models.BundleItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Title:     p.Title,
			ImageURL:  p.ImageURL,
			Price:     utils.FormatPrice(p.Price),
			Variant:   p.Variant,
		}
		if view.ImageURL == "" {
			view.ImageURL = PlaceholderImageURL
		}
		if view.Variant == "" {
			view.Variant = placeholderVariant
		}
		detail.Items = append(detail.Items, view)

		if price, err := utils.ParsePrice(p.Price); err == nil {
			itemPrices = append(itemPrices, price)
		}
	}

	if s.pricing != nil {
		if suggested, ok := s.pricing.SuggestPrice(bundle.Type, itemPrices); ok {
			detail.SuggestedPrice = utils.FormatMoney(suggested)
		}
	}

	return detail, nil
}

// CreateBundle creates a platform product and links a new ACTIVE bundle to it
func (s *BundleService) CreateBundle(ctx context.Context, shop string, req models.CreateBundleRequest) (*models.Bundle, error) {
	log.Infof("📥 CreateBundle: shop=%s, type=%s, title=%q, isNewProduct=%t", shop, req.Type, req.Title, req.IsNewProduct)

	bundleType := models.BundleType(req.Type)
	if !bundleType.Valid() {
		log.Warnf("⚠️  CreateBundle: invalid bundle type %q", req.Type)
		return nil, ErrInvalidBundleType
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validate.Struct(req); err != nil {
		return nil, errors.Wrap(ErrInvalidTitle, err.Error())
	}

	session, err := s.adminSession(ctx, shop)
	if err != nil {
		log.Errorf("❌ CreateBundle: admin session for %s: %v", shop, err)
		return nil, errors.Wrap(err, "admin session")
	}

	created, err := s.platform.CreateProduct(ctx, session, req.Title)
	if err != nil {
		var userErrs UserErrors
		if errors.As(err, &userErrs) {
			return nil, userErrs
		}
		log.Errorf("❌ CreateBundle: create product: %v", err)
		return nil, err
	}

	now := s.now()
	bundle := &models.Bundle{
		ID:        s.newID(),
		Shop:      shop,
		Title:     req.Title,
		Type:      bundleType,
		ProductID: created.ProductID,
		Status:    models.BundleStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.bundles.InsertBundle(ctx, bundle); err != nil {
		log.Errorf("❌ CreateBundle: insert bundle for product %s: %v", created.ProductID, err)
		s.compensate(ctx, session, created.ProductID, err)
		return nil, &PersistError{Err: err}
	}

	log.Infof("✅ CreateBundle: bundle=%s, productId=%s", bundle.ID, bundle.ProductID)
	return bundle, nil
}

// compensate deletes a product whose bundle row could not be saved.
// If that fails too, the product is recorded for ReconcileOrphans.
func (s *BundleService) compensate(ctx context.Context, session AdminSession, productID string, cause error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()

	err := s.platform.DeleteProduct(ctx, session, productID)
	if err == nil {
		log.Infof("🔄 CreateBundle: deleted product %s after failed insert", productID)
		return
	}

	log.Errorf("❌ CreateBundle: delete product %s: %v", productID, err)
	reason := fmt.Sprintf("insert failed: %v; delete failed: %v", cause, err)
	if recErr := s.reconciliations.RecordOrphan(ctx, session.Shop, productID, reason); recErr != nil {
		log.Errorf("❌ CreateBundle: orphaned product %s in shop %s could not be recorded: %v", productID, session.Shop, recErr)
	}
}

// UpdateBundle overwrites title and status, and pushes a changed price to the backing variant.
// An empty title or status keeps the stored value. The price is pushed before the row is
// written, so a failed platform call leaves the bundle unchanged.
func (s *BundleService) UpdateBundle(ctx context.Context, shop string, id string, req models.UpdateBundleRequest) error {
	log.Infof("📥 UpdateBundle: shop=%s, bundle=%s, status=%s", shop, id, req.Status)

	req.Title = strings.TrimSpace(req.Title)
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Field() == "BuildOption" {
					return errors.Wrap(ErrInvalidBuildOption, req.BuildOption)
				}
			}
		}
		return errors.Wrap(ErrInvalidTitle, err.Error())
	}

	if req.Status != "" && !models.BundleStatus(req.Status).Valid() {
		return errors.Wrap(ErrInvalidStatus, req.Status)
	}

	var price string
	if strings.TrimSpace(req.Price) != "" {
		normalized, err := utils.NormalizePrice(req.Price)
		if err != nil {
			return err
		}
		price = normalized
	}

	bundle, err := s.bundles.GetBundle(ctx, id, shop)
	if err != nil {
		return err
	}

	fields := models.BundleUpdate{Title: bundle.Title, Status: bundle.Status}
	if req.Title != "" {
		fields.Title = req.Title
	}
	if req.Status != "" {
		fields.Status = models.BundleStatus(req.Status)
	}

	if price != "" {
		if err := s.syncPrice(ctx, shop, bundle.ProductID, price); err != nil {
			log.Errorf("❌ UpdateBundle: price of product %s: %v", bundle.ProductID, err)
			return err
		}
	}

	if err := s.bundles.UpdateBundle(ctx, id, shop, fields); err != nil {
		log.Errorf("❌ UpdateBundle: %v", err)
		return err
	}

	log.Infof("✅ UpdateBundle: bundle=%s", id)
	return nil
}

// GenerateDemoProduct creates a "<Color> Snowboard" product priced at 100.00
func (s *BundleService) GenerateDemoProduct(ctx context.Context, shop string) (*models.DemoProductResponse, error) {
	session, err := s.adminSession(ctx, shop)
	if err != nil {
		return nil, errors.Wrap(err, "admin session")
	}

	title := demoColors[s.pick(len(demoColors))] + " Snowboard"
	created, err := s.platform.CreateProduct(ctx, session, title)
	if err != nil {
		return nil, err
	}

	if err := s.platform.SetVariantPrice(ctx, session, created.ProductID, created.VariantID, demoProductPrice); err != nil {
		return nil, err
	}

	log.Infof("✅ GenerateDemoProduct: %s (%s)", title, created.ProductID)
	return &models.DemoProductResponse{
		Product: *created,
		Variant: models.VariantPrice{
			ProductID: created.ProductID,
			VariantID: created.VariantID,
			Price:     demoProductPrice,
		},
	}, nil
}

// ReconcileOrphans retries the deletion of products recorded by failed bundle creations
func (s *BundleService) ReconcileOrphans(ctx context.Context) (*models.ReconcileResult, error) {
	entries, err := s.reconciliations.ListUnresolved(ctx)
	if err != nil {
		return nil, err
	}

	result := &models.ReconcileResult{Total: len(entries)}
	log.Infof("🔄 ReconcileOrphans: %d unresolved entries", len(entries))

	for _, entry := range entries {
		if err := s.reconcileOne(ctx, entry); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d (product %s): %v", entry.ID, entry.ProductID, err))
			log.Warnf("⚠️  ReconcileOrphans: entry %d: %v", entry.ID, err)
			continue
		}
		result.Resolved++
	}

	log.Infof("🎉 ReconcileOrphans: resolved=%d, failed=%d", result.Resolved, result.Failed)
	return result, nil
}

func (s *BundleService) reconcileOne(ctx context.Context, entry models.Reconciliation) error {
	session, err := s.adminSession(ctx, entry.Shop)
	if err != nil {
		return errors.Wrap(err, "admin session")
	}
	if err := s.platform.DeleteProduct(ctx, session, entry.ProductID); err != nil {
		return err
	}
	return s.reconciliations.MarkResolved(ctx, entry.ID)
}
