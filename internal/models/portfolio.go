package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Lookup errors surfaced by storage and services.
var (
	ErrPortfolioNotFound  = errors.New("portfolio not found")
	ErrInvestmentNotFound = errors.New("investment not found")
	ErrInvalid            = errors.New("invalid input")
)

// PlanType identifies which listing of a fund the investor holds.
type PlanType string

const (
	PlanDirect  PlanType = "direct"
	PlanRegular PlanType = "regular"
)

// Counterpart returns the sibling plan.
func (p PlanType) Counterpart() PlanType {
	if p == PlanDirect {
		return PlanRegular
	}
	return PlanDirect
}

// Valid reports whether p is a known plan.
func (p PlanType) Valid() bool { return p == PlanDirect || p == PlanRegular }

// ContributionType is the shape of a contribution schedule.
type ContributionType string

const (
	ContributionLumpsum ContributionType = "lumpsum"
	ContributionSIP     ContributionType = "sip"
)

// Investment is a user's holding in one fund as persisted. Dates are the ISO
// strings the user entered; Schedule parses them.
type Investment struct {
	ID               string           `json:"id"`
	SchemeCode       string           `json:"scheme_code"`
	SchemeName       string           `json:"scheme_name,omitempty"`
	Plan             PlanType         `json:"plan"`
	CounterpartCode  string           `json:"counterpart_code,omitempty"`
	CounterpartName  string           `json:"counterpart_name,omitempty"`
	ContributionType ContributionType `json:"contribution_type"`
	Amount           float64          `json:"amount"`
	StartDate        string           `json:"start_date"`
	EndDate          string           `json:"end_date,omitempty"`
}

// ContributionSchedule is the parsed, calendar-date form of an investment's contributions.
type ContributionSchedule struct {
	Type      ContributionType
	Amount    float64
	StartDate time.Time
	EndDate   time.Time // zero = open ended
}

// HasEnd reports whether the schedule stops at EndDate.
func (s ContributionSchedule) HasEnd() bool { return !s.EndDate.IsZero() }

// Schedule parses the investment's dates into a ContributionSchedule.
func (inv Investment) Schedule() (ContributionSchedule, error) {
	start, err := ParseISODate(inv.StartDate)
	if err != nil {
		return ContributionSchedule{}, fmt.Errorf("investment %s start date: %w", inv.ID, err)
	}
	s := ContributionSchedule{
		Type:      inv.ContributionType,
		Amount:    inv.Amount,
		StartDate: start,
	}
	if strings.TrimSpace(inv.EndDate) != "" {
		end, err := ParseISODate(inv.EndDate)
		if err != nil {
			return ContributionSchedule{}, fmt.Errorf("investment %s end date: %w", inv.ID, err)
		}
		s.EndDate = end
	}
	return s, nil
}

// Validate checks the fields a user can get wrong.
func (inv Investment) Validate() error {
	if strings.TrimSpace(inv.SchemeCode) == "" {
		return errors.New("scheme_code is required")
	}
	if !inv.Plan.Valid() {
		return fmt.Errorf("plan must be %q or %q, got %q", PlanDirect, PlanRegular, inv.Plan)
	}
	if inv.ContributionType != ContributionLumpsum && inv.ContributionType != ContributionSIP {
		return fmt.Errorf("contribution_type must be %q or %q, got %q", ContributionLumpsum, ContributionSIP, inv.ContributionType)
	}
	if inv.Amount <= 0 {
		return fmt.Errorf("amount must be positive, got %v", inv.Amount)
	}
	s, err := inv.Schedule()
	if err != nil {
		return err
	}
	if s.HasEnd() && s.EndDate.Before(s.StartDate) {
		return fmt.Errorf("end_date %s is before start_date %s", inv.EndDate, inv.StartDate)
	}
	return nil
}

// Portfolio is a named collection of investments compared against an optional benchmark.
type Portfolio struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	BenchmarkCode string       `json:"benchmark_code,omitempty"`
	Investments   []Investment `json:"investments"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// FindInvestment returns the index of the investment with the given id, or -1.
func (p *Portfolio) FindInvestment(id string) int {
	for i, inv := range p.Investments {
		if inv.ID == id {
			return i
		}
	}
	return -1
}
