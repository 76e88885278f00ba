package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/planlens/internal/interfaces"
	"github.com/bobmcallan/planlens/internal/models"
)

// --- Funds ---

func (s *Server) handleFundSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		WriteError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	results, err := s.app.MarketService.SearchFunds(r.Context(), query)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": results,
	})
}

func (s *Server) handleFundGet(w http.ResponseWriter, r *http.Request, code string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	fund, err := s.app.MarketService.GetFund(r.Context(), code)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, fund)
}

func (s *Server) handleFundCounterpart(w http.ResponseWriter, r *http.Request, code string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	match, err := s.app.MarketService.ResolveCounterpart(r.Context(), code)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, match)
}

// --- Portfolios ---

func (s *Server) handlePortfolioList(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		names, err := s.app.PortfolioService.ListPortfolios(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"portfolios": names})

	case http.MethodPost:
		var p models.Portfolio
		if !DecodeJSON(w, r, &p) {
			return
		}
		if _, err := s.app.PortfolioService.GetPortfolio(r.Context(), strings.TrimSpace(p.Name)); err == nil {
			WriteErrorWithCode(w, http.StatusConflict, "portfolio already exists: "+p.Name, "portfolio_exists")
			return
		}
		saved, err := s.app.PortfolioService.SavePortfolio(r.Context(), &p)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, saved)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request, name string) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		p, err := s.app.PortfolioService.GetPortfolio(ctx, name)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, p)

	case http.MethodPut:
		var p models.Portfolio
		if !DecodeJSON(w, r, &p) {
			return
		}
		// The path names the portfolio; a differing body name is ignored.
		p.Name = name
		saved, err := s.app.PortfolioService.SavePortfolio(ctx, &p)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, saved)

	case http.MethodDelete:
		if err := s.app.PortfolioService.DeletePortfolio(ctx, name); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (s *Server) handleInvestmentAdd(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var inv models.Investment
	if !DecodeJSON(w, r, &inv) {
		return
	}

	p, err := s.app.PortfolioService.AddInvestment(r.Context(), name, inv)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) handleInvestmentRemove(w http.ResponseWriter, r *http.Request, name, id string) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	p, err := s.app.PortfolioService.RemoveInvestment(r.Context(), name, id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, p)
}

func (s *Server) handlePortfolioCompare(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	cmp, err := s.app.PortfolioService.Compare(r.Context(), name, interfaces.CompareOptions{
		BenchmarkCode: r.URL.Query().Get("benchmark"),
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, cmp)
}
