package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/hookless-go/hookless"
)

// CORSConfig holds the configuration for the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins is a list of origins a cross-domain request can be
	// executed from. If the list contains "*", all origins are allowed.
	// Default: ["*"]
	AllowedOrigins []string

	// AllowedHeaders is a list of headers the client is allowed to use.
	// Default: ["Content-Type", "Authorization"]
	AllowedHeaders []string

	// ExposedHeaders indicates which headers are safe to expose.
	// Default: []
	ExposedHeaders []string

	// AllowCredentials indicates whether the request can include credentials.
	// Default: false
	AllowCredentials bool

	// MaxAge indicates how long (in seconds) the results of a preflight
	// request can be cached. Default: 0 (not set)
	MaxAge int

	// Servlet, if set, supplies the preflight Access-Control-Allow-Methods
	// value by reflecting the Servlet's own registered handlers — the same
	// set its own OPTIONS response advertises via Allow (see
	// Servlet.AllowedMethods) — instead of a fixed list that can drift out
	// of sync with what the wrapped Servlet actually serves. A nil Servlet
	// falls back to AllowedMethods.
	Servlet *hookless.Servlet

	// AllowedMethods is the static preflight method list used when Servlet
	// is nil. Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string
}

// DefaultCORSConfig returns a permissive configuration suitable for
// development: all origins, the three safe static methods, and the two
// most common request headers.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}
}

// CORS returns an HTTP middleware that handles CORS preflight requests and
// sets CORS headers. It wraps the entire http.Handler — typically a
// hookless/nethttp.Container — rather than intercepting individual RPC
// calls.
func CORS(cfg *CORSConfig) func(http.Handler) http.Handler {
	if cfg == nil {
		cfg = DefaultCORSConfig()
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{"Content-Type", "Authorization"}
	}

	staticMethods := cfg.AllowedMethods
	if len(staticMethods) == 0 {
		staticMethods = []string{"GET", "POST", "OPTIONS"}
	}

	allowedHeadersStr := strings.Join(allowedHeaders, ", ")
	exposedHeadersStr := strings.Join(cfg.ExposedHeaders, ", ")
	staticMethodsStr := strings.Join(staticMethods, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := contains(allowedOrigins, "*")
			if !allowed && origin != "" {
				allowed = contains(allowedOrigins, origin)
			}

			if allowed && origin != "" {
				setAllowOrigin(w, origin, allowedOrigins, cfg.AllowCredentials)
			}

			if r.Method == http.MethodOptions {
				methods := staticMethodsStr
				if cfg.Servlet != nil {
					methods = strings.Join(cfg.Servlet.AllowedMethods(), ", ")
				}
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", allowedHeadersStr)
				if exposedHeadersStr != "" {
					w.Header().Set("Access-Control-Expose-Headers", exposedHeadersStr)
				}
				if cfg.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// setAllowOrigin sets Access-Control-Allow-Origin (and, if configured,
// Access-Control-Allow-Credentials) for an already-allowed origin. The CORS
// spec forbids pairing "*" with credentials, so a wildcard config with
// credentials enabled echoes back the requesting origin instead.
func setAllowOrigin(w http.ResponseWriter, origin string, allowedOrigins []string, allowCredentials bool) {
	wildcard := contains(allowedOrigins, "*")
	switch {
	case origin != "" && !wildcard:
		w.Header().Set("Access-Control-Allow-Origin", origin)
	case origin != "" && allowCredentials:
		w.Header().Set("Access-Control-Allow-Origin", origin)
	default:
		w.Header().Set("Access-Control-Allow-Origin", "*")
	}

	if allowCredentials {
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
