package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/planlens/internal/models"
)

var (
	historyStart = time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)

	directFund  = Scheme{Code: "120503", Name: "Alpha Flexi Cap Fund - Direct Plan - Growth", Start: historyStart, Days: 700, Rate: 0.0005}
	regularFund = Scheme{Code: "120504", Name: "Alpha Flexi Cap Fund - Regular Plan - Growth", Start: historyStart, Days: 700, Rate: 0.00046}
	indexFund   = Scheme{Code: "147794", Name: "Broad Market Index Fund - Direct Plan - Growth", Start: historyStart, Days: 700, Rate: 0.0004}
)

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestComparisonWorkflow(t *testing.T) {
	env := newTestEnv(t, directFund, regularFund, indexFund)
	defer env.Cleanup()

	// Counterpart lookup goes through the provider search
	resp, err := env.HTTPGet("/api/funds/120503/counterpart")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var match models.CounterpartMatch
	decode(t, resp, &match)
	assert.Equal(t, "120504", match.Counterpart.SchemeCode)
	assert.Equal(t, models.PlanDirect, match.PrimaryPlan)

	// Create a portfolio benchmarked against the index fund
	resp, err = env.HTTPDo(http.MethodPost, "/api/portfolios", map[string]string{
		"name":           "household",
		"benchmark_code": indexFund.Code,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Add a monthly SIP; the counterpart is resolved automatically
	resp, err = env.HTTPDo(http.MethodPost, "/api/portfolios/household/investments", map[string]interface{}{
		"scheme_code":       directFund.Code,
		"plan":              "direct",
		"contribution_type": "sip",
		"amount":            10000,
		"start_date":        "2022-02-05",
		"end_date":          "2023-10-31",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p models.Portfolio
	decode(t, resp, &p)
	require.Len(t, p.Investments, 1)
	assert.Equal(t, regularFund.Code, p.Investments[0].CounterpartCode)

	// Compare
	resp, err = env.HTTPGet("/api/portfolios/household/compare")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cmp models.Comparison
	decode(t, resp, &cmp)

	assert.Equal(t, "household", cmp.PortfolioName)
	assert.Equal(t, indexFund.Code, cmp.BenchmarkCode)
	require.Len(t, cmp.Funds, 1)
	assert.InDelta(t, 210000, cmp.Metrics.TotalInvested, 0.01, "21 monthly instalments Feb 2022 to Oct 2023")
	assert.Greater(t, cmp.Metrics.NetImpact, 0.0)
	assert.Greater(t, cmp.Metrics.XIRR, 0.0)
	assert.True(t, cmp.Metrics.Beta.Valid)
	assert.True(t, cmp.Funds[0].Alpha.Valid)
	assert.NotEmpty(t, cmp.Snapshots)

	last := cmp.Snapshots[len(cmp.Snapshots)-1]
	assert.InDelta(t, cmp.Metrics.ActualValue, last.ActualValue, 0.01)
	assert.Greater(t, last.DirectValue, last.RegularValue)
}

func TestUnknownFundIsNotFound(t *testing.T) {
	env := newTestEnv(t, directFund)
	defer env.Cleanup()

	resp, err := env.HTTPGet("/api/funds/999999")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
