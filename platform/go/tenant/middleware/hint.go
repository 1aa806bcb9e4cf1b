package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// HintCarrier attempts to pull an explicit tenant hint from one request
// location. Carriers run in a fixed order; the first non-empty result wins.
type HintCarrier func(r *http.Request) (string, bool)

// HeaderHintCarrier reads the X-Tenant-Id header.
func HeaderHintCarrier(r *http.Request) (string, bool) {
	v := strings.TrimSpace(r.Header.Get("X-Tenant-Id"))
	return v, v != ""
}

// PathHintCarrier reads the {tenantID} chi route parameter.
func PathHintCarrier(r *http.Request) (string, bool) {
	v := strings.TrimSpace(chi.URLParam(r, "tenantID"))
	return v, v != ""
}

// QueryHintCarrier reads the tenantId query parameter.
func QueryHintCarrier(r *http.Request) (string, bool) {
	v := strings.TrimSpace(r.URL.Query().Get("tenantId"))
	return v, v != ""
}

// DefaultHintCarriers is the documented tenant hint precedence:
// header, then path, then query.
func DefaultHintCarriers() []HintCarrier {
	return []HintCarrier{
		HeaderHintCarrier,
		PathHintCarrier,
		QueryHintCarrier,
	}
}

// ExtractHint walks the carriers in order and returns the first hint found.
func ExtractHint(r *http.Request, carriers []HintCarrier) (string, bool) {
	for _, carrier := range carriers {
		if v, ok := carrier(r); ok {
			return v, true
		}
	}
	return "", false
}
