package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"telegram-code-store/internal/domain"
	"telegram-code-store/internal/domain/model"
)

type loginRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if s.password == "" || !s.passwordMatches(req.Password) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	token, err := s.auth.Mint(w)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to mint session token")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(struct {
		Token string `json:"token"`
	}{Token: token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleStock reports unused counts per product.
func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	type stockEntry struct {
		Type   string `json:"type"`
		Title  string `json:"title"`
		Unused int    `json:"unused"`
	}
	entries := make([]stockEntry, 0, len(model.AllProductTypes()))
	for _, typ := range model.AllProductTypes() {
		n, err := s.invUC.CountUnused(ctx, typ)
		if err != nil {
			http.Error(w, "Failed to count stock", http.StatusInternalServerError)
			return
		}
		product, _ := s.catalog.Lookup(typ)
		entries = append(entries, stockEntry{Type: string(typ), Title: product.Title, Unused: n})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(struct {
		Data []stockEntry `json:"data"`
	}{Data: entries})
}

// handleReport serves a sales summary for /api/v1/reports/{window}, where
// window is "today", "month", "all" or a trailing day count.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	window, ok := parseWindowArg(chi.URLParam(r, "window"))
	if !ok {
		http.Error(w, "Unknown report window", http.StatusBadRequest)
		return
	}

	summary, err := s.reportUC.Summarize(ctx, window)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			http.Error(w, "Unknown report window", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to build report", http.StatusInternalServerError)
		return
	}

	type typeTotal struct {
		Type     string `json:"type"`
		Quantity int64  `json:"quantity"`
		Revenue  int64  `json:"revenue"`
	}
	totals := make([]typeTotal, 0, len(summary.PerType))
	for _, typ := range model.AllProductTypes() {
		if tt, ok := summary.PerType[typ]; ok {
			totals = append(totals, typeTotal{Type: string(typ), Quantity: tt.Quantity, Revenue: tt.Revenue})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(struct {
		TotalQuantity int64       `json:"total_quantity"`
		TotalRevenue  int64       `json:"total_revenue"`
		PerType       []typeTotal `json:"per_type"`
	}{
		TotalQuantity: summary.TotalQuantity,
		TotalRevenue:  summary.TotalRevenue,
		PerType:       totals,
	})
}

// handleLeaderboard serves /api/v1/leaderboard/{role}?limit=n.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var role model.LeaderboardRole
	switch chi.URLParam(r, "role") {
	case "buyer", "buyers":
		role = model.RoleBuyer
	case "seller", "sellers":
		role = model.RoleSeller
	default:
		http.Error(w, "Unknown leaderboard role", http.StatusBadRequest)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := s.reportUC.Leaderboard(ctx, role, limit)
	if err != nil {
		http.Error(w, "Failed to build leaderboard", http.StatusInternalServerError)
		return
	}

	type entry struct {
		Identity string `json:"identity"`
		Quantity int64  `json:"quantity"`
	}
	out := make([]entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, entry{Identity: e.Identity, Quantity: e.TotalQuantity})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(struct {
		Role string  `json:"role"`
		Data []entry `json:"data"`
	}{Role: string(role), Data: out})
}

func parseWindowArg(arg string) (model.Window, bool) {
	switch arg {
	case "today":
		return model.Today(), true
	case "month":
		return model.ThisMonth(), true
	case "all", "total":
		return model.AllTime(), true
	}
	if n, err := strconv.Atoi(arg); err == nil && n > 0 {
		return model.TrailingDays(n), true
	}
	return model.Window{}, false
}
