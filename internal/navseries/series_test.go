package navseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/planlens/internal/models"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// newestFirst mirrors the provider's delivery order.
func newestFirst() []models.NAVSample {
	return []models.NAVSample{
		{Date: d(2024, 1, 10), Value: 12},
		{Date: d(2024, 1, 5), Value: 11},
		{Date: d(2024, 1, 1), Value: 10},
	}
}

func TestNew_SortsAscending(t *testing.T) {
	s := New(newestFirst())

	require.Equal(t, 3, s.Len())
	oldest, ok := s.Oldest()
	require.True(t, ok)
	assert.Equal(t, d(2024, 1, 1), oldest.Date)
	newest, ok := s.Newest()
	require.True(t, ok)
	assert.Equal(t, 12.0, newest.Value)
}

func TestNew_DuplicateDateLastWriteWins(t *testing.T) {
	s := New([]models.NAVSample{
		{Date: d(2024, 1, 1), Value: 10},
		{Date: d(2024, 1, 1).Add(15 * time.Hour), Value: 10.5},
	})

	assert.Equal(t, 1, s.Len())
	v, ok := s.At(d(2024, 1, 1))
	assert.True(t, ok)
	assert.Equal(t, 10.5, v)
}

func TestEmptySeries(t *testing.T) {
	var nilSeries *Series
	for _, s := range []*Series{nilSeries, New(nil), FromFund(nil)} {
		assert.True(t, s.Empty())
		_, ok := s.Newest()
		assert.False(t, ok)
		_, ok = s.Lookup(d(2024, 1, 1), Purchase)
		assert.False(t, ok, "empty purchase lookup is not-found")
		_, ok = s.Lookup(d(2024, 1, 1), Valuation)
		assert.False(t, ok)
		assert.Nil(t, s.Since(d(2000, 1, 1)))
	}
}

func TestLookup(t *testing.T) {
	s := New(newestFirst())

	tests := []struct {
		name   string
		target time.Time
		mode   Mode
		want   float64
		found  bool
	}{
		{"purchase exact", d(2024, 1, 5), Purchase, 11, true},
		{"purchase between takes later", d(2024, 1, 7), Purchase, 12, true},
		{"purchase before oldest takes oldest", d(2023, 12, 1), Purchase, 10, true},
		{"purchase after newest falls back to newest", d(2024, 2, 1), Purchase, 12, true},
		{"valuation exact", d(2024, 1, 5), Valuation, 11, true},
		{"valuation between takes earlier", d(2024, 1, 7), Valuation, 11, true},
		{"valuation after newest", d(2024, 3, 1), Valuation, 12, true},
		{"valuation before oldest not found", d(2023, 12, 31), Valuation, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Lookup(tt.target, tt.mode)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// For every target strictly between consecutive samples, purchase resolves
// to the later sample and valuation to the earlier one, whatever the input order.
func TestLookup_BracketingProperty(t *testing.T) {
	samples := []models.NAVSample{
		{Date: d(2024, 3, 1), Value: 30},
		{Date: d(2024, 1, 1), Value: 10},
		{Date: d(2024, 4, 15), Value: 40},
		{Date: d(2024, 2, 1), Value: 20},
	}
	s := New(samples)
	asc := s.Since(time.Time{})

	for i := 0; i+1 < len(asc); i++ {
		lo, hi := asc[i], asc[i+1]
		for day := lo.Date.AddDate(0, 0, 1); day.Before(hi.Date); day = day.AddDate(0, 0, 1) {
			p, ok := s.PurchaseValue(day)
			require.True(t, ok)
			assert.Equal(t, hi.Value, p, "purchase on %s", day)

			v, ok := s.ValuationValue(day)
			require.True(t, ok)
			assert.Equal(t, lo.Value, v, "valuation on %s", day)
		}
	}
}

func TestLookup_IgnoresClock(t *testing.T) {
	s := New(newestFirst())
	v, ok := s.Lookup(d(2024, 1, 5).Add(23*time.Hour), Valuation)
	assert.True(t, ok)
	assert.Equal(t, 11.0, v)
}

func TestSince(t *testing.T) {
	s := New(newestFirst())
	got := s.Since(d(2024, 1, 3))
	require.Len(t, got, 2)
	assert.Equal(t, 11.0, got[0].Value)
	assert.Equal(t, 12.0, got[1].Value)
}

func TestFromFund(t *testing.T) {
	f := &models.FundNAV{Samples: newestFirst()}
	assert.Equal(t, 3, FromFund(f).Len())
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "purchase", Purchase.String())
	assert.Equal(t, "valuation", Valuation.String())
}
