package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/planlens/internal/common"
	"github.com/bobmcallan/planlens/internal/models"
)

type navRecord struct {
	SchemeCode string         `json:"scheme_code"`
	Fund       models.FundNAV `json:"fund"`
}

// NAVStore implements interfaces.NAVStore, caching provider NAV histories.
type NAVStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewNAVStore(db *surrealdb.DB, logger *common.Logger) *NAVStore {
	return &NAVStore{db: db, logger: logger}
}

// GetNAV returns the cached history, or nil when nothing is cached.
func (s *NAVStore) GetNAV(ctx context.Context, schemeCode string) (*models.FundNAV, error) {
	rec, err := surrealdb.Select[navRecord](ctx, s.db, surrealmodels.NewRecordID(tableNAV, schemeCode))
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to select NAV data: %w", err)
	}
	if rec == nil || rec.SchemeCode == "" {
		return nil, nil
	}
	return &rec.Fund, nil
}

func (s *NAVStore) SaveNAV(ctx context.Context, nav *models.FundNAV) error {
	code := nav.Meta.SchemeCode
	if code == "" {
		return fmt.Errorf("NAV data has no scheme code")
	}

	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{
		"rid":    surrealmodels.NewRecordID(tableNAV, code),
		"record": navRecord{SchemeCode: code, Fund: *nav},
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]navRecord](ctx, s.db, sql, vars)
		if err == nil {
			s.logger.Debug().Str("scheme", code).Int("samples", len(nav.Samples)).Msg("NAV data cached")
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save NAV data after retries: %w", lastErr)
}
