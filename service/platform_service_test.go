package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundle-manager/config"
)

type recordedRequest struct {
	Path      string
	Token     string
	Query     string
	Variables map[string]interface{}
}

// newFakeAdminAPI serves canned GraphQL responses keyed by the operation's root field
func newFakeAdminAPI(t *testing.T, responses map[string]string) (*PlatformService, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		requests = append(requests, recordedRequest{
			Path:      r.URL.Path,
			Token:     r.Header.Get("X-Shopify-Access-Token"),
			Query:     body.Query,
			Variables: body.Variables,
		})

		for field, resp := range responses {
			if strings.Contains(body.Query, field+"(") {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(resp))
				return
			}
		}
		http.Error(w, "unexpected operation", http.StatusBadRequest)
	}))
	t.Cleanup(server.Close)

	svc := NewPlatformService(config.ShopifyConfig{
		APIVersion: "2025-01",
		BaseURL:    server.URL,
		RateLimit:  0,
	})
	return svc, &requests
}

var testSession = AdminSession{Shop: "demo.myshopify.com", AccessToken: "shpat_test"}

func TestCreateProduct(t *testing.T) {
	svc, requests := newFakeAdminAPI(t, map[string]string{
		"productCreate": `{"data":{"productCreate":{"product":{"id":"gid://shopify/Product/101","title":"Summer kit",
			"variants":{"edges":[{"node":{"id":"gid://shopify/ProductVariant/9","price":"0.00"}}]}},"userErrors":[]}}}`,
	})

	created, err := svc.CreateProduct(context.Background(), testSession, "Summer kit")
	require.NoError(t, err)
	assert.Equal(t, "101", created.ProductID)
	assert.Equal(t, "gid://shopify/ProductVariant/9", created.VariantID)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, "/admin/api/2025-01/graphql.json", req.Path)
	assert.Equal(t, "shpat_test", req.Token)
	input := req.Variables["input"].(map[string]interface{})
	assert.Equal(t, "Bundle", input["productType"])
	assert.Equal(t, "Summer kit", input["title"])
}

func TestCreateProductUserErrors(t *testing.T) {
	svc, _ := newFakeAdminAPI(t, map[string]string{
		"productCreate": `{"data":{"productCreate":{"product":null,"userErrors":[
			{"field":["title"],"message":"Title can't be blank"},
			{"field":["handle"],"message":"Handle is taken"}]}}}`,
	})

	_, err := svc.CreateProduct(context.Background(), testSession, "")
	var userErrs UserErrors
	require.True(t, errors.As(err, &userErrs))
	assert.Len(t, userErrs, 2)
	assert.Equal(t, "Title can't be blank", err.Error())
}

func TestCreateProductTopLevelErrors(t *testing.T) {
	svc, _ := newFakeAdminAPI(t, map[string]string{
		"productCreate": `{"errors":[{"message":"Throttled"}]}`,
	})

	_, err := svc.CreateProduct(context.Background(), testSession, "Summer kit")
	require.Error(t, err)
	var userErrs UserErrors
	assert.False(t, errors.As(err, &userErrs))
	assert.Contains(t, err.Error(), "Throttled")
}

func TestCreateProductHTTPFailure(t *testing.T) {
	svc, _ := newFakeAdminAPI(t, map[string]string{})

	_, err := svc.CreateProduct(context.Background(), testSession, "Summer kit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestSetVariantPrice(t *testing.T) {
	svc, requests := newFakeAdminAPI(t, map[string]string{
		"productVariantsBulkUpdate": `{"data":{"productVariantsBulkUpdate":{"productVariants":[{"id":"gid://shopify/ProductVariant/9","price":"100.00"}],"userErrors":[]}}}`,
	})

	require.NoError(t, svc.SetVariantPrice(context.Background(), testSession, "101", "9", "100.00"))

	vars := (*requests)[0].Variables
	assert.Equal(t, "gid://shopify/Product/101", vars["productId"])
	variants := vars["variants"].([]interface{})
	variant := variants[0].(map[string]interface{})
	assert.Equal(t, "gid://shopify/ProductVariant/9", variant["id"])
	assert.Equal(t, "100.00", variant["price"])
}

func TestGetVariantPrice(t *testing.T) {
	svc, _ := newFakeAdminAPI(t, map[string]string{
		"product": `{"data":{"product":{"id":"gid://shopify/Product/101",
			"variants":{"edges":[{"node":{"id":"gid://shopify/ProductVariant/9","price":"15.99"}}]}}}}`,
	})

	variant, err := svc.GetVariantPrice(context.Background(), testSession, "101")
	require.NoError(t, err)
	assert.Equal(t, "15.99", variant.Price)
	assert.Equal(t, "gid://shopify/ProductVariant/9", variant.VariantID)
}

func TestDeleteProduct(t *testing.T) {
	svc, requests := newFakeAdminAPI(t, map[string]string{
		"productDelete": `{"data":{"productDelete":{"deletedProductId":"gid://shopify/Product/101","userErrors":[]}}}`,
	})

	require.NoError(t, svc.DeleteProduct(context.Background(), testSession, "101"))
	input := (*requests)[0].Variables["input"].(map[string]interface{})
	assert.Equal(t, "gid://shopify/Product/101", input["id"])
}

func TestGetProductsSkipsUnknownIDs(t *testing.T) {
	svc, requests := newFakeAdminAPI(t, map[string]string{
		"nodes": `{"data":{"nodes":[
			{"id":"gid://shopify/Product/201","title":"Wax","featuredImage":{"url":"https://cdn/wax.png"},
			 "variants":{"edges":[{"node":{"id":"gid://shopify/ProductVariant/5","price":"20.00","title":"Large"}}]}},
			null]}}`,
	})

	products, err := svc.GetProducts(context.Background(), testSession, []string{"201", "999"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "201", products[0].ID)
	assert.Equal(t, "https://cdn/wax.png", products[0].ImageURL)
	assert.Equal(t, "Large", products[0].Variant)
	assert.Equal(t, []interface{}{"gid://shopify/Product/201", "gid://shopify/Product/999"}, (*requests)[0].Variables["ids"])

	empty, err := svc.GetProducts(context.Background(), testSession, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Len(t, *requests, 1)
}

func TestSearchProducts(t *testing.T) {
	svc, requests := newFakeAdminAPI(t, map[string]string{
		"products": `{"data":{"products":{"edges":[
			{"node":{"id":"gid://shopify/Product/301","title":"Red Snowboard","variants":{"edges":[]}}}]}}}`,
	})

	products, err := svc.SearchProducts(context.Background(), testSession, "snow", 500)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Red Snowboard", products[0].Title)

	vars := (*requests)[0].Variables
	assert.Equal(t, float64(25), vars["first"])
	assert.Equal(t, "snow", vars["query"])
}

func TestProductGID(t *testing.T) {
	assert.Equal(t, "gid://shopify/Product/1", ProductGID("1"))
	assert.Equal(t, "gid://shopify/Product/1", ProductGID("gid://shopify/Product/1"))
	assert.Equal(t, "1", StripProductGID("gid://shopify/Product/1"))
}
