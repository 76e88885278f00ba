package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NAVSample is one published per-unit value of a fund.
type NAVSample struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// FundMeta is the descriptive metadata the provider returns with a NAV history.
type FundMeta struct {
	SchemeCode string `json:"scheme_code"`
	SchemeName string `json:"scheme_name"`
	FundHouse  string `json:"fund_house,omitempty"`
	SchemeType string `json:"scheme_type,omitempty"`
	Category   string `json:"category,omitempty"`
}

// FundNAV is a fund's metadata plus its NAV history as delivered by the provider
// (newest first). Consumers must not rely on the stored order.
type FundNAV struct {
	Meta      FundMeta    `json:"meta"`
	Samples   []NAVSample `json:"samples"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// FundSearchResult is one hit from the provider's fund search.
type FundSearchResult struct {
	SchemeCode string `json:"scheme_code"`
	SchemeName string `json:"scheme_name"`
}

// ParseNAV parses a provider decimal string into a positive per-unit value.
func ParseNAV(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid NAV %q: %w", s, err)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("invalid NAV %q: must be positive", s)
	}
	return d.InexactFloat64(), nil
}
