package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/debangshucode/client-management-system/internal/auth"
	"github.com/debangshucode/client-management-system/internal/gate"
	"github.com/debangshucode/client-management-system/internal/handlers"
	"github.com/debangshucode/client-management-system/internal/httpx"
	"github.com/debangshucode/client-management-system/internal/models"
	"github.com/debangshucode/client-management-system/internal/services"
)

// New constructs the root http.Handler with all routes, the identity
// middleware and the per-route role allow-lists applied.
func New(db *gorm.DB, tokens *auth.Service, log *zap.Logger, secure bool) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	admin := []string{models.RoleAdmin}
	adminSub := []string{models.RoleAdmin, models.RoleSubadmin}
	everyone := []string{models.RoleAdmin, models.RoleSubadmin, models.RoleUser}

	ah := handlers.NewAuthHandler(db, tokens, secure)
	mux.HandleFunc("POST /auth/register", ah.Register)
	mux.HandleFunc("POST /auth/login", ah.Login)
	mux.HandleFunc("POST /auth/logout", ah.Logout)
	mux.HandleFunc("GET /auth/me", gate.Require(ah.Me, everyone...))

	ch := handlers.NewClientHandler(db)
	mux.HandleFunc("GET /clients", gate.Require(ch.List, adminSub...))
	mux.HandleFunc("POST /clients", gate.Require(ch.Create, admin...))
	mux.HandleFunc("GET /clients/{id}", gate.Require(ch.Get, admin...))
	mux.HandleFunc("PUT /clients/{id}", gate.Require(ch.Update, admin...))
	mux.HandleFunc("DELETE /clients/{id}", gate.Require(ch.Delete, admin...))

	ph := handlers.NewProjectHandler(db)
	mux.HandleFunc("GET /projects", gate.Require(ph.List, admin...))
	mux.HandleFunc("POST /projects", gate.Require(ph.Create, admin...))
	mux.HandleFunc("GET /projects/{id}", gate.Require(ph.Get, admin...))
	mux.HandleFunc("PUT /projects/{id}", gate.Require(ph.Update, admin...))
	mux.HandleFunc("DELETE /projects/{id}", gate.Require(ph.Delete, admin...))

	fh := handlers.NewFeatureHandler(db)
	mux.HandleFunc("GET /features", gate.Require(fh.List, admin...))
	mux.HandleFunc("POST /features", gate.Require(fh.Create, admin...))
	mux.HandleFunc("GET /features/{id}", gate.Require(fh.Get, admin...))
	mux.HandleFunc("PUT /features/{id}", gate.Require(fh.Update, admin...))
	mux.HandleFunc("DELETE /features/{id}", gate.Require(fh.Delete, admin...))

	qh := handlers.NewQuoteHandler(db, services.NewQuoteService())
	mux.HandleFunc("GET /quotes", gate.Require(qh.List, admin...))
	mux.HandleFunc("POST /quotes", gate.Require(qh.Create, admin...))
	mux.HandleFunc("GET /quotes/{id}", gate.Require(qh.Get, adminSub...))
	mux.HandleFunc("PUT /quotes/{id}", gate.Require(qh.Update, adminSub...))
	mux.HandleFunc("PATCH /quotes/{id}/status", gate.Require(qh.SetStatus, adminSub...))

	uh := handlers.NewUserHandler(db)
	mux.HandleFunc("GET /users", gate.Require(uh.List, adminSub...))
	mux.HandleFunc("DELETE /users/{id}", gate.Require(uh.Delete, admin...))
	mux.HandleFunc("PATCH /users/{id}/role", gate.Require(uh.UpdateRole, admin...))

	dh := handlers.NewDashboardHandler(services.NewDashboardService(db))
	mux.HandleFunc("GET /dashboard/stats", gate.Require(dh.Stats, admin...))

	return tokens.Middleware(withRecover(log, withLogging(log, mux)))
}

// statusWriter captures the response code for the request log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func withLogging(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func withRecover(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
