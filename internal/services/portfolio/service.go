// Package portfolio provides portfolio management and Direct vs Regular plan comparison
package portfolio

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/planlens/internal/common"
	"github.com/bobmcallan/planlens/internal/interfaces"
	"github.com/bobmcallan/planlens/internal/models"
	"github.com/bobmcallan/planlens/internal/navseries"
)

// Service implements PortfolioService
type Service struct {
	storage interfaces.StorageManager
	market  interfaces.MarketService
	cfg     models.MetricsConfig
	logger  *common.Logger

	// now is swapped in tests
	now func() time.Time
}

// NewService creates a new portfolio service
func NewService(
	storage interfaces.StorageManager,
	market interfaces.MarketService,
	cfg models.MetricsConfig,
	logger *common.Logger,
) *Service {
	return &Service{
		storage: storage,
		market:  market,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// GetPortfolio retrieves a saved portfolio
func (s *Service) GetPortfolio(ctx context.Context, name string) (*models.Portfolio, error) {
	return s.storage.PortfolioStore().GetPortfolio(ctx, name)
}

// ListPortfolios returns available portfolio names
func (s *Service) ListPortfolios(ctx context.Context) ([]string, error) {
	return s.storage.PortfolioStore().ListPortfolios(ctx)
}

// SavePortfolio validates and stores a portfolio, replacing any existing one of
// the same name. Investments without an ID are given one.
func (s *Service) SavePortfolio(ctx context.Context, portfolio *models.Portfolio) (*models.Portfolio, error) {
	if portfolio == nil {
		return nil, fmt.Errorf("%w: portfolio is required", models.ErrInvalid)
	}
	portfolio.Name = strings.TrimSpace(portfolio.Name)
	if portfolio.Name == "" {
		return nil, fmt.Errorf("%w: portfolio name is required", models.ErrInvalid)
	}
	if portfolio.Investments == nil {
		portfolio.Investments = []models.Investment{}
	}

	for i := range portfolio.Investments {
		inv := &portfolio.Investments[i]
		if inv.ID == "" {
			inv.ID = uuid.NewString()
		}
		if err := inv.Validate(); err != nil {
			return nil, fmt.Errorf("%w: investment %d: %v", models.ErrInvalid, i+1, err)
		}
	}

	if existing, err := s.storage.PortfolioStore().GetPortfolio(ctx, portfolio.Name); err == nil {
		portfolio.CreatedAt = existing.CreatedAt
	}

	if err := s.storage.PortfolioStore().SavePortfolio(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	s.logger.Info().Str("name", portfolio.Name).Int("investments", len(portfolio.Investments)).Msg("Portfolio saved")
	return portfolio, nil
}

// DeletePortfolio removes a portfolio
func (s *Service) DeletePortfolio(ctx context.Context, name string) error {
	if err := s.storage.PortfolioStore().DeletePortfolio(ctx, name); err != nil {
		return err
	}
	s.logger.Info().Str("name", name).Msg("Portfolio deleted")
	return nil
}

// AddInvestment validates inv, assigns it an ID and appends it to the portfolio.
// When no counterpart code is given the sibling plan is looked up; a failed
// lookup is logged and the investment is saved without one.
func (s *Service) AddInvestment(ctx context.Context, name string, inv models.Investment) (*models.Portfolio, error) {
	portfolio, err := s.GetPortfolio(ctx, name)
	if err != nil {
		return nil, err
	}

	inv.ID = uuid.NewString()
	inv.SchemeCode = strings.TrimSpace(inv.SchemeCode)
	if err := inv.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalid, err)
	}

	if inv.CounterpartCode == "" && s.market != nil {
		match, err := s.market.ResolveCounterpart(ctx, inv.SchemeCode)
		switch {
		case err != nil:
			s.logger.Warn().Str("scheme", inv.SchemeCode).Err(err).Msg("Counterpart lookup failed")
		case match.PrimaryPlan != inv.Plan:
			s.logger.Warn().
				Str("scheme", inv.SchemeCode).
				Str("declared", string(inv.Plan)).
				Str("detected", string(match.PrimaryPlan)).
				Msg("Declared plan does not match scheme name, counterpart not set")
		default:
			inv.CounterpartCode = match.Counterpart.SchemeCode
			inv.CounterpartName = match.Counterpart.SchemeName
			if inv.SchemeName == "" {
				inv.SchemeName = match.Primary.SchemeName
			}
		}
	}

	portfolio.Investments = append(portfolio.Investments, inv)
	if err := s.storage.PortfolioStore().SavePortfolio(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	s.logger.Info().Str("name", name).Str("investment", inv.ID).Str("scheme", inv.SchemeCode).Msg("Investment added")
	return portfolio, nil
}

// RemoveInvestment removes the investment with the given ID
func (s *Service) RemoveInvestment(ctx context.Context, name, investmentID string) (*models.Portfolio, error) {
	portfolio, err := s.GetPortfolio(ctx, name)
	if err != nil {
		return nil, err
	}

	idx := portfolio.FindInvestment(investmentID)
	if idx < 0 {
		return nil, fmt.Errorf("investment %s in portfolio %s: %w", investmentID, name, models.ErrInvestmentNotFound)
	}
	portfolio.Investments = append(portfolio.Investments[:idx], portfolio.Investments[idx+1:]...)

	if err := s.storage.PortfolioStore().SavePortfolio(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	s.logger.Info().Str("name", name).Str("investment", investmentID).Msg("Investment removed")
	return portfolio, nil
}

// seriesResult is one fetched NAV history
type seriesResult struct {
	series *navseries.Series
	name   string
	err    error
}

// Compare replays the portfolio against actual and counterpart NAV histories.
// Malformed investment dates and failed primary fetches are errors; a missing or
// unavailable counterpart or benchmark degrades the result with a warning.
func (s *Service) Compare(ctx context.Context, name string, options interfaces.CompareOptions) (*models.Comparison, error) {
	s.logger.Info().Str("name", name).Msg("Comparing plans")

	portfolio, err := s.GetPortfolio(ctx, name)
	if err != nil {
		return nil, err
	}

	benchmarkCode := strings.TrimSpace(options.BenchmarkCode)
	if benchmarkCode == "" {
		benchmarkCode = portfolio.BenchmarkCode
	}

	schedules := make([]models.ContributionSchedule, len(portfolio.Investments))
	for i, inv := range portfolio.Investments {
		sched, err := inv.Schedule()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrInvalid, err)
		}
		schedules[i] = sched
	}

	primaries := make([]seriesResult, len(portfolio.Investments))
	counterparts := make([]seriesResult, len(portfolio.Investments))
	var bench seriesResult

	var wg sync.WaitGroup
	fetch := func(code string, out *seriesResult) {
		defer wg.Done()
		fund, err := s.market.GetFund(ctx, code)
		if err != nil {
			out.err = err
			return
		}
		out.series = navseries.FromFund(fund)
		out.name = fund.Meta.SchemeName
	}

	for i, inv := range portfolio.Investments {
		wg.Add(1)
		go fetch(inv.SchemeCode, &primaries[i])
		if inv.CounterpartCode != "" {
			wg.Add(1)
			go fetch(inv.CounterpartCode, &counterparts[i])
		}
	}
	if benchmarkCode != "" {
		wg.Add(1)
		go fetch(benchmarkCode, &bench)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var warnings []string
	resolved := make([]ResolvedInvestment, len(portfolio.Investments))
	for i, inv := range portfolio.Investments {
		if primaries[i].err != nil {
			return nil, fmt.Errorf("failed to load NAV history for %s: %w", inv.SchemeCode, primaries[i].err)
		}
		if inv.SchemeName == "" {
			inv.SchemeName = primaries[i].name
		}
		if counterparts[i].err != nil {
			s.logger.Warn().Str("scheme", inv.SchemeCode).Str("counterpart", inv.CounterpartCode).
				Err(counterparts[i].err).Msg("Counterpart NAV unavailable")
		}
		resolved[i] = ResolvedInvestment{
			Investment:  inv,
			Schedule:    schedules[i],
			Primary:     primaries[i].series,
			Counterpart: counterparts[i].series,
		}
	}

	if bench.err != nil {
		s.logger.Warn().Str("benchmark", benchmarkCode).Err(bench.err).Msg("Benchmark NAV unavailable")
		warnings = append(warnings, fmt.Sprintf("benchmark %s unavailable; alpha and beta omitted", benchmarkCode))
		benchmarkCode = ""
	}

	result := ComputeComparison(resolved, bench.series, s.now(), s.cfg)
	result.PortfolioName = portfolio.Name
	result.BenchmarkCode = benchmarkCode
	result.Warnings = append(warnings, result.Warnings...)

	s.logger.Info().
		Str("name", name).
		Int("funds", len(result.Funds)).
		Int("snapshots", len(result.Snapshots)).
		Float64("net_impact", result.Metrics.NetImpact).
		Msg("Comparison complete")

	return &result, nil
}

// Compile-time check
var _ interfaces.PortfolioService = (*Service)(nil)
