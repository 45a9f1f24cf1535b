package web

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-code-store/internal/domain/model"
	"telegram-code-store/internal/usecase"
)

// Server is the read-only admin API over the store and the ledger.
type Server struct {
	invUC    usecase.InventoryUseCase
	reportUC usecase.ReportUseCase
	catalog  model.Catalog
	auth     *AuthManager
	password string
	log      *zerolog.Logger
}

func NewServer(
	invUC usecase.InventoryUseCase,
	reportUC usecase.ReportUseCase,
	catalog model.Catalog,
	auth *AuthManager,
	password string,
	logger *zerolog.Logger,
) *Server {
	webLog := logger.With().Str("component", "AdminAPI").Logger()
	return &Server{
		invUC:    invUC,
		reportUC: reportUC,
		catalog:  catalog,
		auth:     auth,
		password: password,
		log:      &webLog,
	}
}

// Router builds the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/api/v1/login", s.handleLogin)
	r.Post("/api/v1/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/api/v1/stock", s.handleStock)
		r.Get("/api/v1/reports/{window}", s.handleReport)
		r.Get("/api/v1/leaderboard/{role}", s.handleLeaderboard)
	})

	return r
}

// authMiddleware rejects requests without a valid session token.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.password) == 0 {
			s.log.Error().Msg("admin password is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) passwordMatches(candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(s.password)) == 1
}
