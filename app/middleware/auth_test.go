package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey    = "app-key"
	testAPISecret = "app-secret"
)

func signSessionToken(t *testing.T, secret string, claims SessionClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims() SessionClaims {
	return SessionClaims{
		Dest: "https://demo.myshopify.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://demo.myshopify.com/admin",
			Audience:  jwt.ClaimStrings{testAPIKey},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
}

func shopEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		shop, _ := ShopFromContext(r.Context())
		w.Write([]byte(shop))
	})
}

func TestSessionAuth(t *testing.T) {
	handler := SessionAuth(testAPIKey, testAPISecret)(shopEcho())
	token := signSessionToken(t, testAPISecret, validClaims())

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/app", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "demo.myshopify.com", rec.Body.String())
	})

	t.Run("id_token query parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/app?id_token="+token, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "demo.myshopify.com", rec.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/app", nil)
		req.Header.Set("Authorization", "Bearer "+signSessionToken(t, "other", validClaims()))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestValidateSessionToken(t *testing.T) {
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	otherApp := validClaims()
	otherApp.Audience = jwt.ClaimStrings{"another-app"}

	foreignIssuer := validClaims()
	foreignIssuer.Issuer = "https://evil.myshopify.com/admin"

	suffixedIssuer := validClaims()
	suffixedIssuer.Issuer = "https://demo.myshopify.com.evil.com/admin"

	noDest := validClaims()
	noDest.Dest = ""

	for name, claims := range map[string]SessionClaims{
		"expired":                       expired,
		"other audience":                otherApp,
		"foreign issuer":                foreignIssuer,
		"issuer host with extra suffix": suffixedIssuer,
		"missing dest":                  noDest,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateSessionToken(signSessionToken(t, testAPISecret, claims), testAPIKey, testAPISecret)
			assert.Error(t, err)
		})
	}

	t.Run("unsigned token", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims()).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = ValidateSessionToken(token, testAPIKey, testAPISecret)
		assert.Error(t, err)
	})

	t.Run("secret not configured", func(t *testing.T) {
		_, err := ValidateSessionToken(signSessionToken(t, testAPISecret, validClaims()), testAPIKey, "")
		assert.Error(t, err)
	})
}

func TestShopFromContext(t *testing.T) {
	_, ok := ShopFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)

	shop, ok := ShopFromContext(WithShop(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "demo.myshopify.com"))
	assert.True(t, ok)
	assert.Equal(t, "demo.myshopify.com", shop)
}
