package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ebw/src/models"
	"ebw/src/types"
)

func savedBooking() *models.Booking {
	expires := time.Now().Add(30 * time.Minute)
	return &models.Booking{
		ID:          42,
		EventID:     1,
		UserID:      1,
		Status:      types.BOOKING_PENDING_PAYMENT,
		Qty:         2,
		TotalAmount: 100,
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		ExpiresAt:   &expires,
		Participants: []models.Participant{
			{Position: 0, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
				CustomData: types.JSONB{"club": "Chess"}},
			{Position: 1, FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"},
		},
	}
}

func TestLoadResume(t *testing.T) {
	store := newFakeStore()
	store.bookings[42] = savedBooking()

	rs, err := LoadResume(context.Background(), store, 42, 1, 2)
	require.NoError(t, err)
	assert.True(t, rs.CanResume)
	assert.Equal(t, uint(42), rs.BookingID)
	assert.Equal(t, 2, rs.Qty)
	assert.Equal(t, 100.0, rs.KnownTotal)
	assert.Equal(t, "Ada", rs.Contact.FirstName)
	require.Len(t, rs.Participants, 2)
	assert.Equal(t, "Grace", rs.Participants[1].FirstName)

	// A resumable load restores the saved registration answers so the
	// user picks up exactly where they left off.
	assert.Equal(t, "Chess", rs.Participants[0].Custom["club"])
}

func TestLoadResumeReadOnlyStates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *models.Booking)
	}{
		{"confirmed", func(b *models.Booking) { b.Status = types.BOOKING_CONFIRMED }},
		{"whitelisted", func(b *models.Booking) { b.Status = types.BOOKING_WHITELISTED }},
		{"cancelled", func(b *models.Booking) { b.Status = types.BOOKING_CANCELED }},
		{"expired", func(b *models.Booking) {
			past := time.Now().Add(-time.Minute)
			b.ExpiresAt = &past
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			b := savedBooking()
			tt.mutate(b)
			store.bookings[42] = b

			rs, err := LoadResume(context.Background(), store, 42, 1, 2)
			require.NoError(t, err)
			assert.False(t, rs.CanResume)
			// Still hydrated for display.
			assert.Equal(t, "Ada", rs.Contact.FirstName)
			require.Len(t, rs.Participants, 2)
			// Registration answers stay with the record; a read-only
			// view never carries them into a new draft.
			assert.Nil(t, rs.Participants[0].Custom)
		})
	}
}

func TestLoadResumeOwnership(t *testing.T) {
	store := newFakeStore()
	store.bookings[42] = savedBooking()

	_, err := LoadResume(context.Background(), store, 42, 7, 2)
	require.Error(t, err)
}

func TestLoadResumeMissing(t *testing.T) {
	store := newFakeStore()
	_, err := LoadResume(context.Background(), store, 42, 1, 2)
	require.Error(t, err)
}

func TestResumedJourneyHydration(t *testing.T) {
	store := newFakeStore()
	store.bookings[42] = savedBooking()
	deps, _, _, _ := journeyDeps(store)

	rs, err := LoadResume(context.Background(), store, 42, 1, 2)
	require.NoError(t, err)

	j, err := NewJourney(context.Background(), deps, Params{
		Event:         publishedEvent(),
		UserID:        1,
		Authenticated: true,
		Resume:        rs,
	})
	require.NoError(t, err)
	assert.True(t, j.Resuming())
	assert.Equal(t, 2, j.Step())
	assert.Equal(t, "Ada", j.Draft().Contact.FirstName)
	require.NotNil(t, j.Draft().Tier)
	assert.Equal(t, DefaultTierID, j.Draft().Tier.ID)
}

// The seats held by a pending booking belong to its stored selection;
// a resumed journey accepts only a matching re-submission.
func TestResumedJourneyLocksSelection(t *testing.T) {
	t.Run("tier and quantity", func(t *testing.T) {
		store := newFakeStore()
		store.bookings[42] = savedBooking()
		deps, _, _, _ := journeyDeps(store)

		rs, err := LoadResume(context.Background(), store, 42, 1, 1)
		require.NoError(t, err)
		j, err := NewJourney(context.Background(), deps, Params{
			Event: publishedEvent(), UserID: 1, Authenticated: true, Resume: rs,
		})
		require.NoError(t, err)

		assert.ErrorIs(t, j.SelectTier(DefaultTierID, 3), ErrSelectionLocked)
		require.NoError(t, j.SelectTier(DefaultTierID, 2))
		assert.Equal(t, 2, j.Draft().Qty)
	})

	t.Run("section lines", func(t *testing.T) {
		store := newFakeStore()
		b := savedBooking()
		b.SectionBookings = []models.SectionBooking{{SectionID: 10, PricingID: 101, Qty: 2}}
		store.bookings[42] = b
		deps, _, _, _ := journeyDeps(store)

		rs, err := LoadResume(context.Background(), store, 42, 1, 0)
		require.NoError(t, err)
		j, err := NewJourney(context.Background(), deps, Params{
			Event: multiSectionEvent(), UserID: 1, Authenticated: true, Resume: rs,
		})
		require.NoError(t, err)

		changed := []SectionSelection{{SectionID: 10, PricingID: 101, Qty: 3}}
		assert.ErrorIs(t, j.SelectSections(changed), ErrSelectionLocked)
		same := []SectionSelection{{SectionID: 10, PricingID: 101, Qty: 2}}
		require.NoError(t, j.SelectSections(same))
	})
}

// Completing a resumed booking twice must not duplicate participants:
// the write path replaces the set wholesale.
func TestResumedCompletionReplacesParticipants(t *testing.T) {
	store := newFakeStore()
	store.bookings[42] = savedBooking()
	deps, _, _, _ := journeyDeps(store)

	resumeAndComplete := func() {
		rs, err := LoadResume(context.Background(), store, 42, 1, 3)
		require.NoError(t, err)
		j, err := NewJourney(context.Background(), deps, Params{
			Event:         publishedEvent(),
			UserID:        1,
			Authenticated: true,
			Resume:        rs,
		})
		require.NoError(t, err)
		require.NoError(t, j.Next(context.Background()))
		require.Equal(t, StepReview, j.StepName())
		j.SetAgreedToTerms(true)
		_, err = j.Complete(context.Background())
		require.NoError(t, err)
	}

	resumeAndComplete()
	resumeAndComplete()

	assert.Len(t, store.parts[42], 2)
	assert.Equal(t, 2, store.replaceCnt)
	assert.Empty(t, store.created)
	require.Contains(t, store.updated, uint(42))
	assert.Equal(t, types.BOOKING_PENDING_PAYMENT, store.updated[42].Classification)
}

func TestResumedCompletionConfirmsAtZero(t *testing.T) {
	store := newFakeStore()
	b := savedBooking()
	b.Qty = 1
	b.Participants = b.Participants[:1]
	store.bookings[42] = b

	deps, dispatcher, _, checkout := journeyDeps(store)
	ev := publishedEvent()
	ev.Price = 0

	rs, err := LoadResume(context.Background(), store, 42, 1, 3)
	require.NoError(t, err)
	j, err := NewJourney(context.Background(), deps, Params{
		Event: ev, UserID: 1, Authenticated: true, Resume: rs,
	})
	require.NoError(t, err)
	require.NoError(t, j.Next(context.Background()))
	j.SetAgreedToTerms(true)

	out, err := j.Complete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.BOOKING_CONFIRMED, out.Classification)
	assert.Equal(t, 0, checkout.calls)
	assert.Equal(t, []uint{uint(42)}, dispatcher.confirmed)
}
