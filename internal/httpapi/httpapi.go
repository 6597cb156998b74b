package httpapi

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dtarqui/project-ci-cd-sub000/internal/auth"
	"github.com/dtarqui/project-ci-cd-sub000/internal/domain"
	"github.com/dtarqui/project-ci-cd-sub000/internal/service"
	"github.com/dtarqui/project-ci-cd-sub000/internal/xid"
)

const (
	codeTooManyAttempts  = "TOO_MANY_ATTEMPTS"
	codeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	codeNotFound         = "NOT_FOUND"
	codeInternal         = "INTERNAL_ERROR"

	requestIDHeader = "X-Request-ID"
)

type API struct {
	service       *service.Service
	auth          *AuthManager
	gate          *auth.Gate
	allowedOrigin string
	loginLimiter  *attemptLimiter
}

func New(svc *service.Service, authManager *AuthManager, gate *auth.Gate, allowedOrigin string) *API {
	return &API{
		service:       svc,
		auth:          authManager,
		gate:          gate,
		allowedOrigin: allowedOrigin,
		loginLimiter:  newAttemptLimiter(5, time.Minute),
	}
}

type attemptLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string][]time.Time
}

func newAttemptLimiter(max int, window time.Duration) *attemptLimiter {
	if max < 1 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &attemptLimiter{max: max, window: window, entries: make(map[string][]time.Time)}
}

// Allow records an attempt for key and reports whether it fits in the
// sliding window.
func (l *attemptLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.entries[key][:0]
	for _, ts := range l.entries[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.entries[key] = kept
		return false
	}
	l.entries[key] = append(kept, now)
	return true
}

func clientKey(r *http.Request) string {
	host := strings.TrimSpace(r.RemoteAddr)
	if host == "" {
		return "unknown"
	}
	if addr, err := netip.ParseAddrPort(host); err == nil {
		return addr.Addr().String()
	}
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		return host[:idx]
	}
	return host
}

func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", a.handleHealth)
	mux.HandleFunc("/api/auth/login", a.handleLogin)
	mux.HandleFunc("/api/auth/logout", a.requireAuth(a.handleLogout))
	mux.HandleFunc("/api/auth/me", a.handleMe)

	mux.HandleFunc("/api/products", a.requireAuth(a.handleProducts))
	mux.HandleFunc("/api/products/", a.requireAuth(a.handleProductActions))
	mux.HandleFunc("/api/customers", a.requireAuth(a.handleCustomers))
	mux.HandleFunc("/api/customers/", a.requireAuth(a.handleCustomerActions))
	mux.HandleFunc("/api/sales", a.requireAuth(a.handleSales))
	mux.HandleFunc("/api/sales/", a.requireAuth(a.handleSaleActions))
	mux.HandleFunc("/api/dashboard/stats", a.requireAuth(a.handleDashboardStats))

	mux.HandleFunc("/", a.handleNotFound)

	return a.withMiddleware(mux)
}

// requireAuth only allows or denies; handlers never see an identity.
func (a *API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := a.gate.Authenticate(r.Context(), r.Header.Get("Authorization")); err != nil {
			writeError(w, err)
			return
		}
		next(w, r)
	}
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"status": "ok"}, "")
}

func (a *API) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeErrorCode(w, http.StatusNotFound, codeNotFound, "route not found: "+r.URL.Path)
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.status = code
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}

func (a *API) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = xid.New("req")
		}

		w.Header().Set(requestIDHeader, requestID)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Access-Control-Allow-Origin", a.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
		w.Header().Set("Vary", "Origin")

		if r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodPut {
			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		startedAt := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				log.Printf("panic serving %s %s request_id=%s: %v", r.Method, r.URL.Path, requestID, recovered)
				// a started response cannot be replaced
				if !rec.wroteHeader {
					writeErrorCode(rec, http.StatusInternalServerError, codeInternal, "internal server error")
				}
			}
			log.Printf("%s %s %d %s request_id=%s", r.Method, r.URL.Path, rec.status, time.Since(startedAt), requestID)
		}()

		next.ServeHTTP(rec, r)
	})
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	return nil
}

// parseID reads a positive base-10 id from a path segment.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 1 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

// splitPath returns the path segments after prefix.
func splitPath(path string, prefix string) []string {
	tail := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if tail == "" {
		return nil
	}
	return strings.Split(tail, "/")
}

type envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Count     *int   `json:"count,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func writeList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	count := len(items)
	writeJSON(w, http.StatusOK, envelope{
		Success:   true,
		Data:      items,
		Count:     &count,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeErrorCode(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
}

var statusByCode = map[string]int{
	domain.ErrProductNotFound.Code:    http.StatusNotFound,
	domain.ErrCustomerNotFound.Code:   http.StatusNotFound,
	domain.ErrSaleNotFound.Code:       http.StatusNotFound,
	domain.ErrUserNotFound.Code:       http.StatusNotFound,
	domain.ErrInvalidRequest.Code:     http.StatusBadRequest,
	domain.ErrMissingFields.Code:      http.StatusBadRequest,
	domain.ErrInvalidStatus.Code:      http.StatusBadRequest,
	domain.ErrInvalidID.Code:          http.StatusBadRequest,
	domain.ErrMissingAuthToken.Code:   http.StatusUnauthorized,
	domain.ErrInvalidTokenFormat.Code: http.StatusUnauthorized,
	domain.ErrInvalidToken.Code:       http.StatusUnauthorized,
	domain.ErrInvalidCredentials.Code: http.StatusUnauthorized,
}

// writeError maps a domain error to its status. Anything without a known code
// becomes a 500 whose details are only logged.
func writeError(w http.ResponseWriter, err error) {
	code := domain.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		log.Printf("internal error: %v", err)
		writeErrorCode(w, http.StatusInternalServerError, codeInternal, "internal server error")
		return
	}
	writeErrorCode(w, status, code, err.Error())
}

func writeErrorCode(w http.ResponseWriter, status int, code string, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
