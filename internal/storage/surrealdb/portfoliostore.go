package surrealdb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/planlens/internal/common"
	"github.com/bobmcallan/planlens/internal/models"
)

// portfolioRecord wraps a portfolio so its own ID does not collide with the record id.
type portfolioRecord struct {
	Name      string           `json:"name"`
	Portfolio models.Portfolio `json:"portfolio"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// PortfolioStore implements interfaces.PortfolioStore.
type PortfolioStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewPortfolioStore(db *surrealdb.DB, logger *common.Logger) *PortfolioStore {
	return &PortfolioStore{db: db, logger: logger}
}

func portfolioRID(name string) surrealmodels.RecordID {
	return surrealmodels.NewRecordID(tablePortfolio, name)
}

func (s *PortfolioStore) GetPortfolio(ctx context.Context, name string) (*models.Portfolio, error) {
	rec, err := surrealdb.Select[portfolioRecord](ctx, s.db, portfolioRID(name))
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("portfolio '%s': %w", name, models.ErrPortfolioNotFound)
		}
		return nil, fmt.Errorf("failed to select portfolio: %w", err)
	}
	if rec == nil || rec.Name == "" {
		return nil, fmt.Errorf("portfolio '%s': %w", name, models.ErrPortfolioNotFound)
	}
	return &rec.Portfolio, nil
}

func (s *PortfolioStore) SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error {
	now := time.Now()
	portfolio.UpdatedAt = now
	if portfolio.CreatedAt.IsZero() {
		portfolio.CreatedAt = now
	}
	if portfolio.ID == "" {
		portfolio.ID = portfolio.Name
	}

	rec := portfolioRecord{Name: portfolio.Name, Portfolio: *portfolio, UpdatedAt: now}
	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{"rid": portfolioRID(portfolio.Name), "record": rec}

	if _, err := surrealdb.Query[[]portfolioRecord](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save portfolio: %w", err)
	}
	s.logger.Debug().Str("name", portfolio.Name).Msg("Portfolio saved")
	return nil
}

func (s *PortfolioStore) ListPortfolios(ctx context.Context) ([]string, error) {
	type nameResult struct {
		Name string `json:"name"`
	}

	sql := "SELECT name FROM " + tablePortfolio
	results, err := surrealdb.Query[[]nameResult](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}

	names := []string{}
	if results != nil && len(*results) > 0 {
		for _, r := range (*results)[0].Result {
			names = append(names, r.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *PortfolioStore) DeletePortfolio(ctx context.Context, name string) error {
	_, err := surrealdb.Delete[portfolioRecord](ctx, s.db, portfolioRID(name))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}
	s.logger.Debug().Str("name", name).Msg("Portfolio deleted")
	return nil
}
