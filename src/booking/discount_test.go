package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ebw/src/types"
)

func TestRecomputeAutomaticOnly(t *testing.T) {
	rules := &fakeRules{autos: []AutoDiscount{
		{DiscountID: 1, Name: "Group rate", AmountOff: 10},
		{DiscountID: 2, Name: "Student", AmountOff: 5},
	}}
	engine := NewEngine(rules, &fakeCodes{})

	quote, err := engine.Recompute(context.Background(), 1, nil, 100, 2, "")
	require.NoError(t, err)
	assert.Equal(t, 15.0, quote.TotalDiscount)
	assert.Equal(t, 85.0, quote.FinalAmount)
	assert.Nil(t, quote.Code)
	assert.Len(t, quote.Automatic, 2)
}

func TestRecomputeStacksCodeWithAutomatics(t *testing.T) {
	rules := &fakeRules{autos: []AutoDiscount{{DiscountID: 1, Name: "Group rate", AmountOff: 10}}}
	codes := &fakeCodes{discount: &CodeDiscount{
		DiscountID: 9, Code: "SAVE20", Name: "Save 20", ValueType: types.DISCOUNT_FIXED, Value: 20, AmountOff: 20,
	}}
	engine := NewEngine(rules, codes)

	quote, err := engine.Recompute(context.Background(), 1, nil, 100, 2, "SAVE20")
	require.NoError(t, err)
	// Applying the code never retracts the automatic discount.
	assert.Equal(t, 10.0, quote.TotalDiscount)
	assert.Equal(t, 20.0, quote.CodeAmount())
	assert.Equal(t, 70.0, quote.FinalAmount)

	// Removing the code recomputes from automatics alone.
	quote, err = engine.Recompute(context.Background(), 1, nil, 100, 2, "")
	require.NoError(t, err)
	assert.Nil(t, quote.Code)
	assert.Equal(t, 90.0, quote.FinalAmount)
}

func TestRecomputeDeduplicatesRules(t *testing.T) {
	rules := &fakeRules{autos: []AutoDiscount{
		{DiscountID: 1, Name: "Group rate", AmountOff: 10},
		{DiscountID: 1, Name: "Group rate", AmountOff: 10},
	}}
	engine := NewEngine(rules, &fakeCodes{})

	quote, err := engine.Recompute(context.Background(), 1, nil, 100, 4, "")
	require.NoError(t, err)
	assert.Equal(t, 10.0, quote.TotalDiscount)
	assert.Len(t, quote.Automatic, 1)
}

func TestRecomputeClampsAtZero(t *testing.T) {
	rules := &fakeRules{autos: []AutoDiscount{{DiscountID: 1, Name: "Comp", AmountOff: 150}}}
	codes := &fakeCodes{discount: &CodeDiscount{DiscountID: 9, Code: "EXTRA", AmountOff: 30}}
	engine := NewEngine(rules, codes)

	quote, err := engine.Recompute(context.Background(), 1, nil, 100, 1, "EXTRA")
	require.NoError(t, err)
	assert.Equal(t, 100.0, quote.TotalDiscount)
	assert.Equal(t, 0.0, quote.FinalAmount)
	assert.Equal(t, 0.0, quote.FeeEstimate)
}

func TestRecomputeCodeErrorPropagates(t *testing.T) {
	engine := NewEngine(&fakeRules{}, &fakeCodes{err: assert.AnError})
	_, err := engine.Recompute(context.Background(), 1, nil, 100, 1, "NOPE")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestFeeEstimate(t *testing.T) {
	assert.Equal(t, 0.0, FeeEstimate(0))
	assert.Equal(t, 0.0, FeeEstimate(-5))
	assert.InDelta(t, 100*0.017+0.30, FeeEstimate(100), 1e-9)
	assert.InDelta(t, 2.0*0.017+0.30, FeeEstimate(2.0), 1e-9)
}

func TestQuoteApplied(t *testing.T) {
	quote := &Quote{
		Automatic: []AutoDiscount{{DiscountID: 1, Name: "Group rate", AmountOff: 10}},
		Code:      &CodeDiscount{DiscountID: 9, Name: "Save 20", AmountOff: 20},
	}
	applied := quote.applied()
	require.Len(t, applied, 2)
	assert.Equal(t, types.DISCOUNT_SOURCE_AUTO, applied[0].Source)
	assert.Equal(t, types.DISCOUNT_SOURCE_CODE, applied[1].Source)
	require.NotNil(t, applied[0].DiscountID)
	assert.Equal(t, uint(1), *applied[0].DiscountID)
}
