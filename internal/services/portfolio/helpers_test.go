package portfolio

import (
	"time"

	"github.com/bobmcallan/planlens/internal/models"
	"github.com/bobmcallan/planlens/internal/navseries"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// monthlySeries returns one sample per month on day, starting at from, with
// values[i] for month i. Samples are emitted newest first like the provider.
func monthlySeries(from time.Time, day int, values ...float64) *navseries.Series {
	samples := make([]models.NAVSample, 0, len(values))
	for i := len(values) - 1; i >= 0; i-- {
		m := from.AddDate(0, i, 0)
		samples = append(samples, models.NAVSample{
			Date:  models.ClampedDay(m.Year(), m.Month(), day),
			Value: values[i],
		})
	}
	return navseries.New(samples)
}

// dailySeries returns n consecutive daily samples starting at from with value f(i).
func dailySeries(from time.Time, n int, f func(i int) float64) *navseries.Series {
	samples := make([]models.NAVSample, n)
	for i := 0; i < n; i++ {
		samples[i] = models.NAVSample{Date: from.AddDate(0, 0, i), Value: f(i)}
	}
	return navseries.New(samples)
}

func sip(amount float64, start time.Time) models.ContributionSchedule {
	return models.ContributionSchedule{Type: models.ContributionSIP, Amount: amount, StartDate: start}
}

func lumpsum(amount float64, start time.Time) models.ContributionSchedule {
	return models.ContributionSchedule{Type: models.ContributionLumpsum, Amount: amount, StartDate: start}
}
