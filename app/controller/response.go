package controller

import (
	"encoding/json"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"bundle-manager/app/middleware"
	"bundle-manager/view"
)

// wantsHTML reports whether the client asked for a rendered page instead of JSON
func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Error encoding JSON response: %v", err)
	}
}

func renderPage(w http.ResponseWriter, status int, page string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := view.Render(w, page, data); err != nil {
		log.Printf("❌ Error rendering page %s: %v", page, err)
	}
}

// shopOrUnauthorized returns the authenticated shop or writes a 401
func shopOrUnauthorized(w http.ResponseWriter, r *http.Request) (string, bool) {
	shop, ok := middleware.ShopFromContext(r.Context())
	if !ok {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return "", false
	}
	return shop, true
}
