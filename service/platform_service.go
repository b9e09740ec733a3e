package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"bundle-manager/config"
	"bundle-manager/models"
)

const (
	productGIDPrefix = "gid://shopify/Product/"
	variantGIDPrefix = "gid://shopify/ProductVariant/"

	bundleProductType = "Bundle"
)

// AdminSession identifies the shop an Admin API call is made for
type AdminSession struct {
	Shop        string
	AccessToken string
}

// UserError is a field-level error returned by an Admin API mutation
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// UserErrors is the non-empty list of user errors of a mutation.
// Its message is the message of the first entry.
type UserErrors []UserError

func (e UserErrors) Error() string {
	if len(e) == 0 {
		return "user error"
	}
	return e[0].Message
}

// PlatformService calls the platform GraphQL Admin API
// Implements PlatformServiceInterface
type PlatformService struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiVersion string
	baseURL    string
}

var _ PlatformServiceInterface = (*PlatformService)(nil)

// NewPlatformService creates a new PlatformService from the Shopify settings
func NewPlatformService(cfg config.ShopifyConfig) *PlatformService {
	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}
	return &PlatformService{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(limit, burst),
		apiVersion: cfg.APIVersion,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
	}
}

// ProductGID converts a numeric product id to its global id
func ProductGID(id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return productGIDPrefix + id
}

// StripProductGID returns the numeric part of a product global id
func StripProductGID(gid string) string {
	return strings.TrimPrefix(gid, productGIDPrefix)
}

func variantGID(id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return variantGIDPrefix + id
}

func (s *PlatformService) endpoint(shop string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/admin/api/%s/graphql.json", s.baseURL, s.apiVersion)
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shop, s.apiVersion)
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// execute runs a GraphQL operation and decodes the "data" member into out
func (s *PlatformService) execute(ctx context.Context, session AdminSession, query string, variables map[string]interface{}, out interface{}) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limiter")
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint(session.Shop), bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", session.AccessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}
	if resp.StatusCode >= 300 {
		return errors.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return errors.Wrap(err, "parse response")
	}
	if len(envelope.Errors) > 0 {
		return errors.Errorf("graphql: %s", envelope.Errors[0].Message)
	}
	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return errors.Wrap(err, "parse data")
	}
	return nil
}

type variantNode struct {
	ID    string `json:"id"`
	Price string `json:"price"`
	Title string `json:"title"`
}

type productNode struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	FeaturedImage *struct {
		URL string `json:"url"`
	} `json:"featuredImage"`
	Variants struct {
		Edges []struct {
			Node variantNode `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

func (n productNode) firstVariant() (variantNode, bool) {
	if len(n.Variants.Edges) == 0 {
		return variantNode{}, false
	}
	return n.Variants.Edges[0].Node, true
}

func (n productNode) toProduct() models.Product {
	p := models.Product{
		ID:    StripProductGID(n.ID),
		Title: n.Title,
	}
	if n.FeaturedImage != nil {
		p.ImageURL = n.FeaturedImage.URL
	}
	if v, ok := n.firstVariant(); ok {
		p.Price = v.Price
		p.Variant = v.Title
		p.VariantID = v.ID
	}
	return p
}

const productFields = `
	id
	title
	featuredImage { url }
	variants(first: 1) { edges { node { id price title } } }
`

const productCreateMutation = `mutation productCreate($input: ProductInput!) {
	productCreate(input: $input) {
		product {
			id
			title
			variants(first: 1) { edges { node { id price } } }
		}
		userErrors { field message }
	}
}`

// CreateProduct creates the backing product of a bundle
func (s *PlatformService) CreateProduct(ctx context.Context, session AdminSession, title string) (*models.CreatedProduct, error) {
	log.Infof("🛒 CreateProduct: shop=%s, title=%q", session.Shop, title)

	var data struct {
		ProductCreate struct {
			Product    *productNode `json:"product"`
			UserErrors UserErrors   `json:"userErrors"`
		} `json:"productCreate"`
	}
	variables := map[string]interface{}{
		"input": map[string]interface{}{
			"title":       title,
			"productType": bundleProductType,
		},
	}
	if err := s.execute(ctx, session, productCreateMutation, variables, &data); err != nil {
		log.Errorf("❌ CreateProduct: %v", err)
		return nil, errors.Wrap(err, "productCreate")
	}
	if len(data.ProductCreate.UserErrors) > 0 {
		log.Warnf("⚠️  CreateProduct: user errors: %s", data.ProductCreate.UserErrors.Error())
		return nil, data.ProductCreate.UserErrors
	}
	if data.ProductCreate.Product == nil || data.ProductCreate.Product.ID == "" {
		return nil, errors.New("productCreate: no product returned")
	}

	product := data.ProductCreate.Product
	created := &models.CreatedProduct{
		ProductID: StripProductGID(product.ID),
		Title:     product.Title,
	}
	if v, ok := product.firstVariant(); ok {
		created.VariantID = v.ID
	}

	log.Infof("✅ CreateProduct: productId=%s", created.ProductID)
	return created, nil
}

const variantsBulkUpdateMutation = `mutation productVariantsBulkUpdate($productId: ID!, $variants: [ProductVariantsBulkInput!]!) {
	productVariantsBulkUpdate(productId: $productId, variants: $variants) {
		productVariants { id price }
		userErrors { field message }
	}
}`

// SetVariantPrice sets the price of a variant of the product
func (s *PlatformService) SetVariantPrice(ctx context.Context, session AdminSession, productID string, variantID string, price string) error {
	var data struct {
		ProductVariantsBulkUpdate struct {
			UserErrors UserErrors `json:"userErrors"`
		} `json:"productVariantsBulkUpdate"`
	}
	variables := map[string]interface{}{
		"productId": ProductGID(productID),
		"variants": []map[string]interface{}{
			{"id": variantGID(variantID), "price": price},
		},
	}
	if err := s.execute(ctx, session, variantsBulkUpdateMutation, variables, &data); err != nil {
		log.Errorf("❌ SetVariantPrice: %v", err)
		return errors.Wrap(err, "productVariantsBulkUpdate")
	}
	if len(data.ProductVariantsBulkUpdate.UserErrors) > 0 {
		return data.ProductVariantsBulkUpdate.UserErrors
	}
	log.Infof("✅ SetVariantPrice: productId=%s, price=%s", productID, price)
	return nil
}

const productVariantQuery = `query productVariant($id: ID!) {
	product(id: $id) {
		id
		variants(first: 1) { edges { node { id price } } }
	}
}`

// GetVariantPrice returns the first variant and its price
func (s *PlatformService) GetVariantPrice(ctx context.Context, session AdminSession, productID string) (*models.VariantPrice, error) {
	var data struct {
		Product *productNode `json:"product"`
	}
	if err := s.execute(ctx, session, productVariantQuery, map[string]interface{}{"id": ProductGID(productID)}, &data); err != nil {
		return nil, errors.Wrap(err, "product")
	}
	if data.Product == nil {
		return nil, errors.Errorf("product %s not found", productID)
	}
	v, ok := data.Product.firstVariant()
	if !ok {
		return nil, errors.Errorf("product %s has no variants", productID)
	}
	return &models.VariantPrice{ProductID: productID, VariantID: v.ID, Price: v.Price}, nil
}

const productDeleteMutation = `mutation productDelete($input: ProductDeleteInput!) {
	productDelete(input: $input) {
		deletedProductId
		userErrors { field message }
	}
}`

// DeleteProduct deletes a product. Used to compensate a failed bundle creation.
func (s *PlatformService) DeleteProduct(ctx context.Context, session AdminSession, productID string) error {
	var data struct {
		ProductDelete struct {
			DeletedProductID string     `json:"deletedProductId"`
			UserErrors       UserErrors `json:"userErrors"`
		} `json:"productDelete"`
	}
	variables := map[string]interface{}{"input": map[string]interface{}{"id": ProductGID(productID)}}
	if err := s.execute(ctx, session, productDeleteMutation, variables, &data); err != nil {
		return errors.Wrap(err, "productDelete")
	}
	if len(data.ProductDelete.UserErrors) > 0 {
		return data.ProductDelete.UserErrors
	}
	log.Infof("🗑️  DeleteProduct: productId=%s", productID)
	return nil
}

const nodesQuery = `query products($ids: [ID!]!) {
	nodes(ids: $ids) {
		... on Product {` + productFields + `}
	}
}`

// GetProducts looks up products by id. Unknown ids are skipped.
func (s *PlatformService) GetProducts(ctx context.Context, session AdminSession, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	gids := make([]string, len(ids))
	for i, id := range ids {
		gids[i] = ProductGID(id)
	}

	var data struct {
		Nodes []*productNode `json:"nodes"`
	}
	if err := s.execute(ctx, session, nodesQuery, map[string]interface{}{"ids": gids}, &data); err != nil {
		return nil, errors.Wrap(err, "nodes")
	}

	products := make([]models.Product, 0, len(data.Nodes))
	for _, node := range data.Nodes {
		if node == nil || node.ID == "" {
			continue
		}
		products = append(products, node.toProduct())
	}
	return products, nil
}

const productSearchQuery = `query productSearch($first: Int!, $query: String) {
	products(first: $first, query: $query) {
		edges { node {` + productFields + `} }
	}
}`

// SearchProducts returns up to limit products matching the search query
func (s *PlatformService) SearchProducts(ctx context.Context, session AdminSession, query string, limit int) ([]models.Product, error) {
	if limit <= 0 || limit > 50 {
		limit = 25
	}
	variables := map[string]interface{}{"first": limit}
	if strings.TrimSpace(query) != "" {
		variables["query"] = query
	}

	var data struct {
		Products struct {
			Edges []struct {
				Node productNode `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := s.execute(ctx, session, productSearchQuery, variables, &data); err != nil {
		return nil, errors.Wrap(err, "products")
	}

	products := make([]models.Product, 0, len(data.Products.Edges))
	for _, edge := range data.Products.Edges {
		products = append(products, edge.Node.toProduct())
	}
	return products, nil
}
