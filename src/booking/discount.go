package booking

import (
	"context"
	"log"

	"ebw/src/config"
)

// Quote is one reconciled pricing snapshot. At most one code discount
// and one set of automatic discounts are active at a time; both may
// coexist and each contributes independently to the final amount.
type Quote struct {
	BaseAmount    float64
	Automatic     []AutoDiscount
	Code          *CodeDiscount
	TotalDiscount float64
	FinalAmount   float64
	FeeEstimate   float64
}

func (q *Quote) CodeAmount() float64 {
	if q.Code == nil {
		return 0
	}
	return q.Code.AmountOff
}

func (q *Quote) applied() []AppliedDiscount {
	out := make([]AppliedDiscount, 0, len(q.Automatic)+1)
	for _, a := range q.Automatic {
		id := a.DiscountID
		out = append(out, AppliedDiscount{DiscountID: &id, Source: "auto", Name: a.Name, AmountOff: a.AmountOff})
	}
	if q.Code != nil {
		id := q.Code.DiscountID
		out = append(out, AppliedDiscount{DiscountID: &id, Source: "code", Name: q.Code.Name, AmountOff: q.Code.AmountOff})
	}
	return out
}

type Engine struct {
	rules DiscountRules
	codes CodeLookup
}

func NewEngine(rules DiscountRules, codes CodeLookup) *Engine {
	return &Engine{rules: rules, codes: codes}
}

// Recompute evaluates automatic rules and, when a code is entered, the
// code lookup. Applying a code never retracts automatic discounts and
// removing one (empty code) recomputes from automatics alone. The same
// rule is never summed twice: automatic results are deduplicated by
// discount id.
func (e *Engine) Recompute(ctx context.Context, eventID uint, participants []Participant, baseAmount float64, qty int, code string) (*Quote, error) {
	quote := &Quote{BaseAmount: baseAmount}
	autos, err := e.rules.EvaluateAutomatic(ctx, eventID, participants, baseAmount, qty)
	if err != nil {
		return nil, err
	}
	seen := make(map[uint]bool, len(autos))
	total := 0.0
	for _, a := range autos {
		if seen[a.DiscountID] {
			log.Printf("[DiscountEngine] duplicate automatic rule [%d] skipped\n", a.DiscountID)
			continue
		}
		seen[a.DiscountID] = true
		quote.Automatic = append(quote.Automatic, a)
		total += a.AmountOff
	}
	if total > baseAmount {
		total = baseAmount
	}
	quote.TotalDiscount = total

	if code != "" {
		cd, err := e.codes.ApplyCode(ctx, eventID, code, baseAmount, qty)
		if err != nil {
			return nil, err
		}
		quote.Code = cd
	}

	final := baseAmount - quote.TotalDiscount - quote.CodeAmount()
	if final < 0 {
		final = 0
	}
	quote.FinalAmount = final
	quote.FeeEstimate = FeeEstimate(final)
	return quote, nil
}

// FeeEstimate is display-only. The payment boundary computes the
// authoritative fee and it may differ.
func FeeEstimate(finalAmount float64) float64 {
	if finalAmount <= 0 {
		return 0
	}
	return finalAmount*config.ProcessingFeeRate + config.ProcessingFeeFlat
}
