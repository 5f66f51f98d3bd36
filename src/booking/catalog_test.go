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

func TestResolveTiersSynthesizesDefault(t *testing.T) {
	tests := []struct {
		name        string
		event       *models.Event
		wantName    string
		wantTickets int
	}{
		{
			name:        "priced event",
			event:       &models.Event{ID: 1, Price: 25, MaxAttendees: uintPtr(40)},
			wantName:    "General Admission",
			wantTickets: 40,
		},
		{
			name:        "free event",
			event:       &models.Event{ID: 2, Price: 0, MaxAttendees: uintPtr(40)},
			wantName:    "Free Event",
			wantTickets: 40,
		},
		{
			name:        "unlimited capacity",
			event:       &models.Event{ID: 3, Price: 10},
			wantName:    "General Admission",
			wantTickets: 999,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := NewCatalog(&fakePricingStore{})
			tiers, err := catalog.ResolveTiers(context.Background(), tt.event, types.NON_MEMBER)
			require.NoError(t, err)
			require.Len(t, tiers, 1)
			assert.Equal(t, DefaultTierID, tiers[0].ID)
			assert.Nil(t, tiers[0].PricingID)
			assert.Equal(t, tt.wantName, tiers[0].Name)
			assert.Equal(t, tt.event.Price, tiers[0].Price)
			assert.Equal(t, tt.wantTickets, tiers[0].TicketsAvailable)
		})
	}
}

func TestResolveTiersFromStore(t *testing.T) {
	store := &fakePricingStore{tiers: []models.EventPricing{
		{ID: 7, Name: "Early Bird", Price: 20, PricingType: types.PRICING_EARLY_BIRD, AvailableTickets: 15},
		{ID: 8, Name: "Regular", Price: 30, PricingType: types.PRICING_REGULAR, AvailableTickets: 50},
	}}
	catalog := NewCatalog(store)
	tiers, err := catalog.ResolveTiers(context.Background(), publishedEvent(), types.MEMBER)
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Equal(t, "7", tiers[0].ID)
	require.NotNil(t, tiers[0].PricingID)
	assert.Equal(t, uint(7), *tiers[0].PricingID)
	assert.Equal(t, types.MEMBER, store.seen)
}

func TestResolveTiersDefaultsMembership(t *testing.T) {
	store := &fakePricingStore{}
	catalog := NewCatalog(store)
	_, err := catalog.ResolveTiers(context.Background(), publishedEvent(), "")
	require.NoError(t, err)
	assert.Equal(t, types.NON_MEMBER, store.seen)
}

func TestResolveTiersTimeout(t *testing.T) {
	store := &fakePricingStore{delay: 50 * time.Millisecond}
	catalog := NewCatalogWithTimeout(store, 5*time.Millisecond)
	_, err := catalog.ResolveTiers(context.Background(), publishedEvent(), types.NON_MEMBER)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPricingTimeout)
}

func TestResolveTiersPassesOtherErrors(t *testing.T) {
	store := &fakePricingStore{err: assert.AnError}
	catalog := NewCatalog(store)
	_, err := catalog.ResolveTiers(context.Background(), publishedEvent(), types.NON_MEMBER)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPricingTimeout)
}
