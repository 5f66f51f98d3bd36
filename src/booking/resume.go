package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"ebw/src/models"
	"ebw/src/types"
)

// ResumeState carries a previously saved booking back into a journey.
// Hydration is unconditional so an expired booking still renders for
// reference; CanResume gates the parts that change behavior: the gate
// bypass, the write-back identity and the restored registration
// answers.
type ResumeState struct {
	BookingID      uint
	CanResume      bool
	Classification types.BookingClassification
	Step           int
	Qty            int
	PricingID      *uint
	Sections       []SectionSelection
	Contact        Contact
	Participants   []Participant

	// KnownTotal is the amount recorded at save time, shown while the
	// journey recomputes its own quote. Display only, never persisted.
	KnownTotal float64
}

// LoadResume fetches a saved booking for the given user and prepares it
// for re-entry at the requested step. Only pending_payment bookings that
// have not expired can be resumed; anything else hydrates as read-only.
func LoadResume(ctx context.Context, store BookingStore, bookingID uint, userID uint, step int) (*ResumeState, error) {
	b, err := store.FetchBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, fmt.Errorf("booking [%d] does not belong to user [%d]", bookingID, userID)
	}

	rs := &ResumeState{
		BookingID:      b.ID,
		Classification: b.Status,
		Step:           step,
		Qty:            b.Qty,
		PricingID:      b.PricingID,
		KnownTotal:     b.TotalAmount,
		Contact: Contact{
			FirstName:  b.FirstName,
			MiddleName: b.MiddleName,
			LastName:   b.LastName,
			Email:      b.Email,
			Phone:      b.Phone,
		},
	}
	for _, sb := range b.SectionBookings {
		rs.Sections = append(rs.Sections, SectionSelection{
			SectionID: sb.SectionID,
			PricingID: sb.PricingID,
			Qty:       sb.Qty,
		})
	}
	for _, p := range b.Participants {
		rs.Participants = append(rs.Participants, participantFromModel(p))
	}

	rs.CanResume = resumable(b)
	if !rs.CanResume {
		// Display-only hydration; the saved registration answers stay
		// with the booking record and are not carried into a new draft.
		for i := range rs.Participants {
			rs.Participants[i].Custom = nil
		}
		log.Printf("[Resume] booking [%d] hydrated read-only, status %s\n", b.ID, b.Status)
	}
	return rs, nil
}

func resumable(b *models.Booking) bool {
	if b.Status != types.BOOKING_PENDING_PAYMENT {
		return false
	}
	if b.ExpiresAt != nil && time.Now().After(*b.ExpiresAt) {
		return false
	}
	return true
}

func participantFromModel(p models.Participant) Participant {
	out := Participant{
		FirstName:   p.FirstName,
		MiddleName:  p.MiddleName,
		LastName:    p.LastName,
		Email:       p.Email,
		Phone:       p.Phone,
		DateOfBirth: p.DateOfBirth,
	}
	if len(p.CustomData) > 0 {
		out.Custom = make(map[string]string, len(p.CustomData))
		for k, v := range p.CustomData {
			if s, ok := v.(string); ok {
				out.Custom[k] = s
			}
		}
	}
	return out
}
