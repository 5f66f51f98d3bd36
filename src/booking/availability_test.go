package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ebw/src/models"
	"ebw/src/types"
)

func TestSeatState(t *testing.T) {
	tests := []struct {
		name      string
		seats     int
		whitelist bool
		want      types.SectionState
	}{
		{"open", 5, false, types.SECTION_OPEN},
		{"open ignores whitelist flag", 5, true, types.SECTION_OPEN},
		{"zero closed", 0, false, types.SECTION_FULL_CLOSED},
		{"zero whitelist", 0, true, types.SECTION_FULL_WHITELIST},
		{"negative closed", -3, false, types.SECTION_FULL_CLOSED},
		{"negative whitelist", -3, true, types.SECTION_FULL_WHITELIST},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SeatState(tt.seats, tt.whitelist))
		})
	}
}

func TestEventState(t *testing.T) {
	ev := publishedEvent()
	assert.Equal(t, types.SECTION_OPEN, NewOracle(ev).EventState())

	ev.CurrentAttendees = 100
	assert.Equal(t, types.SECTION_FULL_CLOSED, NewOracle(ev).EventState())

	ev.WhitelistEnabled = true
	assert.Equal(t, types.SECTION_FULL_WHITELIST, NewOracle(ev).EventState())

	ev.MaxAttendees = nil
	assert.Equal(t, types.SECTION_OPEN, NewOracle(ev).EventState())
}

func TestSoldOut(t *testing.T) {
	ev := multiSectionEvent()
	assert.False(t, NewOracle(ev).SoldOut())

	// Open section fills; whitelist-full Saturday still keeps the event
	// bookable.
	ev.Sections[0].AvailableSeats = 0
	assert.False(t, NewOracle(ev).SoldOut())

	ev.Sections[1].WhitelistEnabled = false
	assert.True(t, NewOracle(ev).SoldOut())
}

func TestSelectionClass(t *testing.T) {
	oracle := NewOracle(multiSectionEvent())

	class, err := oracle.SelectionClass([]SectionSelection{{SectionID: 10, PricingID: 101, Qty: 2}})
	require.NoError(t, err)
	assert.Equal(t, types.SECTION_OPEN, class)

	class, err = oracle.SelectionClass([]SectionSelection{{SectionID: 11, PricingID: 111, Qty: 1}})
	require.NoError(t, err)
	assert.Equal(t, types.SECTION_FULL_WHITELIST, class)

	_, err = oracle.SelectionClass([]SectionSelection{
		{SectionID: 10, PricingID: 101, Qty: 1},
		{SectionID: 11, PricingID: 111, Qty: 1},
	})
	assert.ErrorIs(t, err, ErrMixedSelection)

	_, err = oracle.SelectionClass([]SectionSelection{{SectionID: 12, PricingID: 121, Qty: 1}})
	assert.ErrorIs(t, err, ErrSectionClosed)

	_, err = oracle.SelectionClass(nil)
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestCompatible(t *testing.T) {
	oracle := NewOracle(multiSectionEvent())
	current := []SectionSelection{{SectionID: 10, PricingID: 101, Qty: 1}}

	assert.NoError(t, oracle.Compatible(nil, 11))
	assert.ErrorIs(t, oracle.Compatible(current, 11), ErrMixedSelection)
	assert.ErrorIs(t, oracle.Compatible(current, 12), ErrSectionClosed)
	assert.ErrorIs(t, oracle.Compatible(current, 99), ErrNoSelection)
}

func TestShouldWhitelist(t *testing.T) {
	oracle := NewOracle(multiSectionEvent())
	waitlistSel := []SectionSelection{{SectionID: 11, PricingID: 111, Qty: 1}}
	openSel := []SectionSelection{{SectionID: 10, PricingID: 101, Qty: 1}}

	assert.True(t, oracle.ShouldWhitelist(waitlistSel, false))
	assert.False(t, oracle.ShouldWhitelist(openSel, false))
	// A resumed booking goes back to payment, never onto the waitlist.
	assert.False(t, oracle.ShouldWhitelist(waitlistSel, true))

	ev := publishedEvent()
	ev.CurrentAttendees = 100
	ev.WhitelistEnabled = true
	assert.True(t, NewOracle(ev).ShouldWhitelist(nil, false))
	assert.False(t, NewOracle(ev).ShouldWhitelist(nil, true))
}

func TestMaxQuantity(t *testing.T) {
	t.Run("single event", func(t *testing.T) {
		ev := publishedEvent()
		ev.CurrentAttendees = 96
		assert.Equal(t, 4, NewOracle(ev).MaxQuantity(nil))

		ev.CurrentAttendees = 10
		assert.Equal(t, 10, NewOracle(ev).MaxQuantity(nil))

		ev.MaxAttendees = nil
		assert.Equal(t, 10, NewOracle(ev).MaxQuantity(nil))

		ev = publishedEvent()
		ev.CurrentAttendees = 100
		assert.Equal(t, 0, NewOracle(ev).MaxQuantity(nil))

		ev.WhitelistEnabled = true
		assert.Equal(t, 10, NewOracle(ev).MaxQuantity(nil))
	})

	t.Run("sections", func(t *testing.T) {
		ev := multiSectionEvent()
		ev.Sections[0].AvailableSeats = 3
		oracle := NewOracle(ev)

		openSel := []SectionSelection{{SectionID: 10, PricingID: 101, Qty: 1}}
		assert.Equal(t, 3, oracle.MaxQuantity(openSel))

		ev.Sections[0].AvailableSeats = 50
		oracle = NewOracle(ev)
		assert.Equal(t, 10, oracle.MaxQuantity(openSel))

		// Waitlist selections register past capacity, only the flat
		// cap applies.
		waitlistSel := []SectionSelection{{SectionID: 11, PricingID: 111, Qty: 1}}
		assert.Equal(t, 10, oracle.MaxQuantity(waitlistSel))

		assert.Equal(t, 0, oracle.MaxQuantity(nil))
	})
}

func TestOracleIgnoresTopLevelCountersForSections(t *testing.T) {
	ev := multiSectionEvent()
	ev.MaxAttendees = uintPtr(1)
	ev.CurrentAttendees = 5
	oracle := NewOracle(ev)
	assert.False(t, oracle.SoldOut())

	st, ok := oracle.SectionState(10)
	require.True(t, ok)
	assert.Equal(t, types.SECTION_OPEN, st)
}

func TestOracleSnapshotIsolation(t *testing.T) {
	ev := multiSectionEvent()
	oracle := NewOracle(ev)
	ev.Sections[0].AvailableSeats = 0

	st, _ := oracle.SectionState(10)
	assert.Equal(t, types.SECTION_OPEN, st)
	assert.Equal(t, types.SECTION_FULL_CLOSED, SeatState((&models.EventSection{}).AvailableSeats, false))
}
