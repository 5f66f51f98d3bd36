package booking

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"ebw/src/config"
	"ebw/src/models"
	"ebw/src/types"
)

// DefaultTierID identifies the synthetic tier fabricated when an event
// has no configured pricing. It is never a real foreign key.
const DefaultTierID = "default"

type Catalog struct {
	store   PricingStore
	timeout time.Duration
}

func NewCatalog(store PricingStore) *Catalog {
	return &Catalog{store: store, timeout: config.PricingFetchTimeout}
}

func NewCatalogWithTimeout(store PricingStore, timeout time.Duration) *Catalog {
	return &Catalog{store: store, timeout: timeout}
}

// ResolveTiers returns the purchasable tiers for the buyer's membership
// classification. An empty result synthesizes exactly one default tier
// from the event's base price. The catalog never auto-selects a tier on
// the caller's behalf, even when only one exists.
func (c *Catalog) ResolveTiers(ctx context.Context, event *models.Event, membership types.MembershipClass) ([]TierOption, error) {
	if membership == "" {
		membership = types.NON_MEMBER
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	rows, err := c.store.FetchTiers(ctx, event.ID, membership)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Printf("[Catalog] tier lookup for event [%d] timed out after %s\n", event.ID, c.timeout)
			return nil, ErrPricingTimeout
		}
		return nil, err
	}
	if len(rows) == 0 {
		return []TierOption{defaultTier(event)}, nil
	}
	tiers := make([]TierOption, 0, len(rows))
	for _, row := range rows {
		id := row.ID
		tiers = append(tiers, TierOption{
			ID:               strconv.FormatUint(uint64(row.ID), 10),
			PricingID:        &id,
			Name:             row.Name,
			Price:            row.Price,
			PricingType:      row.PricingType,
			TicketsAvailable: row.AvailableTickets,
		})
	}
	return tiers, nil
}

func defaultTier(event *models.Event) TierOption {
	name := "General Admission"
	if event.Price == 0 {
		name = "Free Event"
	}
	tickets := config.UnlimitedTicketsSentinel
	if event.MaxAttendees != nil {
		tickets = int(*event.MaxAttendees)
	}
	return TierOption{
		ID:               DefaultTierID,
		Name:             name,
		Price:            event.Price,
		PricingType:      types.PRICING_REGULAR,
		TicketsAvailable: tickets,
	}
}
