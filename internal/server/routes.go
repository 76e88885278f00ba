package server

import (
	"net/http"

	"github.com/bobmcallan/planlens/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Funds
	mux.HandleFunc("/api/funds/search", s.handleFundSearch)
	mux.HandleFunc("/api/funds/", s.routeFunds)

	// Portfolios
	mux.HandleFunc("/api/portfolios/", s.routePortfolios)
	mux.HandleFunc("/api/portfolios", s.handlePortfolioList)
}

// routeFunds dispatches /api/funds/{code}[/counterpart].
func (s *Server) routeFunds(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/api/funds/")
	switch {
	case len(parts) == 1:
		s.handleFundGet(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "counterpart":
		s.handleFundCounterpart(w, r, parts[0])
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// routePortfolios dispatches /api/portfolios/{name}/...
func (s *Server) routePortfolios(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/api/portfolios/")
	if len(parts) == 0 {
		s.handlePortfolioList(w, r)
		return
	}

	name := parts[0]
	switch {
	case len(parts) == 1:
		s.handlePortfolio(w, r, name)
	case len(parts) == 2 && parts[1] == "compare":
		s.handlePortfolioCompare(w, r, name)
	case len(parts) == 2 && parts[1] == "investments":
		s.handleInvestmentAdd(w, r, name)
	case len(parts) == 3 && parts[1] == "investments":
		s.handleInvestmentRemove(w, r, name, parts[2])
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
