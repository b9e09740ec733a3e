package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const shopKey contextKey = "shop"

// SessionClaims are the claims of a platform session token
type SessionClaims struct {
	Dest string `json:"dest"`
	SID  string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// SessionAuth verifies the session token of embedded app requests and stores the shop in the context.
// The token is read from the Authorization bearer header or the id_token query parameter.
func SessionAuth(apiKey string, apiSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				log.Warnf("⚠️  SessionAuth: missing token for %s %s", r.Method, r.URL.Path)
				http.Error(w, "Authorization required", http.StatusUnauthorized)
				return
			}

			shop, err := ValidateSessionToken(tokenString, apiKey, apiSecret)
			if err != nil {
				log.Warnf("⚠️  SessionAuth: %v", err)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithShop(r.Context(), shop)))
		})
	}
}

// ValidateSessionToken checks signature, lifetime and audience and returns the shop domain
func ValidateSessionToken(tokenString string, apiKey string, apiSecret string) (string, error) {
	if apiSecret == "" {
		return "", errors.New("app secret is not configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(apiSecret), nil
	})
	if err != nil {
		return "", errors.Wrap(err, "parse session token")
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	if apiKey != "" && !claims.VerifyAudience(apiKey, true) {
		return "", errors.New("token audience does not match the app")
	}

	dest, err := url.Parse(claims.Dest)
	if err != nil || dest.Hostname() == "" {
		return "", errors.Errorf("invalid dest claim %q", claims.Dest)
	}
	if claims.Issuer != "" {
		iss, err := url.Parse(claims.Issuer)
		if err != nil || !strings.EqualFold(iss.Hostname(), dest.Hostname()) {
			return "", errors.New("token issuer does not match its destination")
		}
	}
	return dest.Hostname(), nil
}

func extractToken(r *http.Request) string {
	bearer := r.Header.Get("Authorization")
	if len(bearer) > 7 && strings.ToUpper(bearer[0:7]) == "BEARER " {
		return bearer[7:]
	}
	return r.URL.Query().Get("id_token")
}

// WithShop returns a context carrying the authenticated shop
func WithShop(ctx context.Context, shop string) context.Context {
	return context.WithValue(ctx, shopKey, shop)
}

// ShopFromContext returns the authenticated shop
func ShopFromContext(ctx context.Context) (string, bool) {
	shop, ok := ctx.Value(shopKey).(string)
	return shop, ok && shop != ""
}
