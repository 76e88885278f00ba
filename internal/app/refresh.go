package app

import (
	"context"
	"os"
	"sort"
	"time"

	"github.com/bobmcallan/planlens/internal/common"
	"github.com/bobmcallan/planlens/internal/interfaces"
)

// schemeCodes returns every scheme referenced by saved portfolios: held funds,
// their counterparts and benchmarks. Sorted and de-duplicated.
func schemeCodes(ctx context.Context, portfolioService interfaces.PortfolioService, logger *common.Logger) []string {
	names, err := portfolioService.ListPortfolios(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("NAV refresh: failed to list portfolios")
		return nil
	}

	seen := make(map[string]bool)
	add := func(code string) {
		if code != "" {
			seen[code] = true
		}
	}
	for _, name := range names {
		p, err := portfolioService.GetPortfolio(ctx, name)
		if err != nil {
			logger.Warn().Err(err).Str("portfolio", name).Msg("NAV refresh: portfolio unreadable")
			continue
		}
		add(p.BenchmarkCode)
		for _, inv := range p.Investments {
			add(inv.SchemeCode)
			add(inv.CounterpartCode)
		}
	}

	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// refreshNAVs pulls every referenced scheme through the market service, which
// only calls the provider for stale entries. Returns how many schemes loaded.
func refreshNAVs(ctx context.Context, portfolioService interfaces.PortfolioService, marketService interfaces.MarketService, logger *common.Logger) int {
	start := time.Now()

	codes := schemeCodes(ctx, portfolioService, logger)
	if len(codes) == 0 {
		return 0
	}

	loaded := 0
	for _, code := range codes {
		if ctx.Err() != nil {
			break
		}
		if _, err := marketService.GetFund(ctx, code); err != nil {
			logger.Warn().Err(err).Str("scheme", code).Msg("NAV refresh: fetch failed")
			continue
		}
		loaded++
	}

	logger.Info().
		Int("schemes", len(codes)).
		Int("loaded", loaded).
		Dur("elapsed", time.Since(start)).
		Msg("NAV refresh: complete")
	return loaded
}

// runNAVRefresher refreshes once immediately and then on every tick until ctx ends.
func runNAVRefresher(ctx context.Context, portfolioService interfaces.PortfolioService, marketService interfaces.MarketService, logger *common.Logger, interval time.Duration) {
	refreshNAVs(ctx, portfolioService, marketService, logger)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("NAV refresh: stopped")
			return
		case <-ticker.C:
			refreshNAVs(ctx, portfolioService, marketService, logger)
		}
	}
}

// StartNAVRefresh launches the background NAV cache refresher. It runs every
// common.FreshnessNAV so cached histories rarely go stale between requests.
// PLANLENS_WARM_CACHE=off disables it.
func (a *App) StartNAVRefresh() {
	if os.Getenv("PLANLENS_WARM_CACHE") == "off" {
		a.Logger.Info().Msg("NAV refresh: disabled via PLANLENS_WARM_CACHE=off")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.refreshCancel = cancel
	go runNAVRefresher(ctx, a.PortfolioService, a.MarketService, a.Logger, common.FreshnessNAV)
}
