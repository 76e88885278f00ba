// Package market provides NAV data services
package market

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/planlens/internal/common"
	"github.com/bobmcallan/planlens/internal/interfaces"
	"github.com/bobmcallan/planlens/internal/models"
)

// Service implements MarketService
type Service struct {
	storage  interfaces.StorageManager
	provider interfaces.NAVProvider
	logger   *common.Logger

	searchMu    sync.Mutex
	searchCache map[string]searchEntry
}

type searchEntry struct {
	results   []models.FundSearchResult
	fetchedAt time.Time
}

// NewService creates a new market service
func NewService(storage interfaces.StorageManager, provider interfaces.NAVProvider, logger *common.Logger) *Service {
	return &Service{
		storage:     storage,
		provider:    provider,
		logger:      logger,
		searchCache: make(map[string]searchEntry),
	}
}

// GetFund returns a scheme's NAV history. Cached data younger than
// common.FreshnessNAV is served without a provider call. When the provider
// fails, stale cached data is served instead of an error.
func (s *Service) GetFund(ctx context.Context, schemeCode string) (*models.FundNAV, error) {
	schemeCode = strings.TrimSpace(schemeCode)
	if schemeCode == "" {
		return nil, fmt.Errorf("scheme code is required")
	}

	cached, err := s.storage.NAVStore().GetNAV(ctx, schemeCode)
	if err != nil {
		s.logger.Warn().Str("scheme", schemeCode).Err(err).Msg("Failed to read cached NAV data")
		cached = nil
	}
	if cached != nil && common.IsFresh(cached.FetchedAt, common.FreshnessNAV) {
		s.logger.Debug().Str("scheme", schemeCode).Msg("NAV cache hit")
		return cached, nil
	}

	fund, err := s.provider.GetNAVHistory(ctx, schemeCode)
	if err != nil {
		if cached != nil {
			s.logger.Warn().Str("scheme", schemeCode).Err(err).
				Time("cached_at", cached.FetchedAt).
				Msg("NAV fetch failed, serving stale cache")
			return cached, nil
		}
		return nil, fmt.Errorf("failed to fetch NAV history for %s: %w", schemeCode, err)
	}

	if fund.FetchedAt.IsZero() {
		fund.FetchedAt = time.Now()
	}
	if err := s.storage.NAVStore().SaveNAV(ctx, fund); err != nil {
		s.logger.Warn().Str("scheme", schemeCode).Err(err).Msg("Failed to cache NAV data")
	}

	s.logger.Info().Str("scheme", schemeCode).Int("samples", len(fund.Samples)).Msg("NAV history refreshed")
	return fund, nil
}

// SearchFunds finds schemes by name. Results are memoised per query for
// common.FreshnessSearch.
func (s *Service) SearchFunds(ctx context.Context, query string) ([]models.FundSearchResult, error) {
	key := strings.ToLower(strings.Join(strings.Fields(query), " "))
	if key == "" {
		return []models.FundSearchResult{}, nil
	}

	s.searchMu.Lock()
	entry, ok := s.searchCache[key]
	s.searchMu.Unlock()
	if ok && common.IsFresh(entry.fetchedAt, common.FreshnessSearch) {
		return cloneResults(entry.results), nil
	}

	results, err := s.provider.SearchFunds(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fund search failed: %w", err)
	}

	s.searchMu.Lock()
	s.evictStaleSearches()
	s.searchCache[key] = searchEntry{results: cloneResults(results), fetchedAt: time.Now()}
	s.searchMu.Unlock()

	return results, nil
}

// evictStaleSearches drops expired entries. Caller holds searchMu.
func (s *Service) evictStaleSearches() {
	for key, entry := range s.searchCache {
		if !common.IsFresh(entry.fetchedAt, common.FreshnessSearch) {
			delete(s.searchCache, key)
		}
	}
}

func cloneResults(results []models.FundSearchResult) []models.FundSearchResult {
	out := make([]models.FundSearchResult, len(results))
	copy(out, results)
	return out
}

// Compile-time check
var _ interfaces.MarketService = (*Service)(nil)
