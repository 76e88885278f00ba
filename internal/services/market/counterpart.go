package market

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/bobmcallan/planlens/internal/models"
)

// ErrNoCounterpart is returned when no sibling plan listing can be identified.
var ErrNoCounterpart = errors.New("no counterpart plan found")

// payoutOption distinguishes otherwise identical listings of one plan.
type payoutOption int

const (
	optionGrowth payoutOption = iota
	optionIDCW
	optionBonus
)

// noiseWords are dropped when comparing scheme names across plans.
var noiseWords = map[string]bool{
	"direct": true, "regular": true, "plan": true, "option": true, "options": true,
	"growth": true, "idcw": true, "dividend": true, "payout": true, "reinvestment": true,
	"reinvest": true, "bonus": true, "of": true, "the": true,
}

func nameTokens(name string) []string {
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// classifyPlan reads the plan word out of a scheme name.
func classifyPlan(name string) (models.PlanType, bool) {
	for _, tok := range nameTokens(name) {
		switch tok {
		case "direct":
			return models.PlanDirect, true
		case "regular":
			return models.PlanRegular, true
		}
	}
	return "", false
}

func classifyOption(name string) payoutOption {
	for _, tok := range nameTokens(name) {
		switch tok {
		case "idcw", "dividend":
			return optionIDCW
		case "bonus":
			return optionBonus
		}
	}
	return optionGrowth
}

// baseName is a scheme name without plan and payout words, used to match the
// two listings of one fund.
func baseName(name string) string {
	var kept []string
	for _, tok := range nameTokens(name) {
		if !noiseWords[tok] {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

// ResolveCounterpart finds the sibling Direct/Regular listing of a scheme: same
// fund, opposite plan, same payout option.
func (s *Service) ResolveCounterpart(ctx context.Context, schemeCode string) (*models.CounterpartMatch, error) {
	fund, err := s.GetFund(ctx, schemeCode)
	if err != nil {
		return nil, err
	}

	name := fund.Meta.SchemeName
	plan, ok := classifyPlan(name)
	if !ok {
		return nil, fmt.Errorf("scheme %s (%s) is neither a direct nor a regular plan: %w", schemeCode, name, ErrNoCounterpart)
	}
	want := plan.Counterpart()
	option := classifyOption(name)
	base := baseName(name)

	candidates, err := s.SearchFunds(ctx, base)
	if err != nil {
		return nil, err
	}

	for _, c := range candidates {
		if c.SchemeCode == fund.Meta.SchemeCode {
			continue
		}
		p, ok := classifyPlan(c.SchemeName)
		if !ok || p != want {
			continue
		}
		if classifyOption(c.SchemeName) != option || baseName(c.SchemeName) != base {
			continue
		}

		s.logger.Debug().Str("scheme", schemeCode).Str("counterpart", c.SchemeCode).Msg("Counterpart resolved")
		return &models.CounterpartMatch{
			Primary:     models.FundSearchResult{SchemeCode: fund.Meta.SchemeCode, SchemeName: name},
			PrimaryPlan: plan,
			Counterpart: c,
		}, nil
	}

	return nil, fmt.Errorf("scheme %s (%s): %w", schemeCode, name, ErrNoCounterpart)
}
