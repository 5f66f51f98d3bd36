package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ebw/src/models"
	"ebw/src/types"
)

var (
	// ErrPricingTimeout marks a tier lookup that exceeded its deadline.
	// Callers should offer a retry rather than treating it as zero tiers.
	ErrPricingTimeout = errors.New("pricing lookup timed out")

	ErrMixedSelection    = errors.New("selection mixes waitlist-only and open sections")
	ErrNoSelection       = errors.New("no pricing selected")
	ErrSectionClosed     = errors.New("section is sold out")
	ErrQuantityExceeded  = errors.New("quantity exceeds the booking limit")
	ErrNotAuthenticated  = errors.New("must authenticate to continue")
	ErrTermsNotAgreed    = errors.New("terms and conditions must be accepted")
	ErrJourneyComplete   = errors.New("booking journey already completed")
	ErrNotResumable      = errors.New("booking can no longer be resumed")
	ErrIncompleteContact = errors.New("contact first name, last name and email are required")
	ErrSelectionLocked   = errors.New("selection cannot be changed on a resumed booking")
)

// GateError blocks the whole journey at mount time (sold out, not
// published, entries closed). It is a step-less, read-only condition as
// opposed to a field validation error.
type GateError struct {
	Reason string
}

func (e *GateError) Error() string {
	return e.Reason
}

// ParticipantFieldError attaches a validation failure to one participant.
type ParticipantFieldError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ParticipantFieldError) Error() string {
	return fmt.Sprintf("participant %d: %s %s", e.Index+1, e.Field, e.Reason)
}

type Contact struct {
	FirstName       string
	MiddleName      string
	LastName        string
	Email           string
	Phone           string
	JoinMailingList bool
}

type Participant struct {
	FirstName   string
	MiddleName  string
	LastName    string
	Email       string
	Phone       string
	DateOfBirth *time.Time
	Custom      map[string]string
}

type SectionSelection struct {
	SectionID uint
	PricingID uint
	Qty       int
}

// TierOption is a purchasable tier resolved by the catalog. PricingID is
// nil for the synthetic default tier, which is never persisted as a
// foreign key.
type TierOption struct {
	ID               string
	PricingID        *uint
	Name             string
	Price            float64
	PricingType      types.PricingType
	TicketsAvailable int
}

type AutoDiscount struct {
	DiscountID uint
	Name       string
	RuleType   string
	AmountOff  float64
}

type CodeDiscount struct {
	DiscountID uint
	Code       string
	Name       string
	ValueType  types.DiscountValueType
	Value      float64
	AmountOff  float64
}

type AppliedDiscount struct {
	DiscountID *uint
	Source     types.DiscountSource
	Name       string
	AmountOff  float64
}

type ParticipantError struct {
	Index  int
	Reason string
}

type ValidationReport struct {
	Valid  bool
	Errors []ParticipantError
}

// Record is the finalized draft handed to the persistence boundary in
// one piece. The journey never mutates seat counters itself.
type Record struct {
	EventID        uint
	UserID         uint
	Classification types.BookingClassification
	Qty            int
	BaseAmount     float64
	DiscountAmount float64
	TotalAmount    float64
	PricingID      *uint
	Contact        Contact
	Sections       []SectionSelection
	Participants   []Participant
	Discounts      []AppliedDiscount
	ExpiresAt      *time.Time
	Description    string
}

type PricingStore interface {
	FetchEvent(ctx context.Context, id uint) (*models.Event, error)
	FetchTiers(ctx context.Context, eventID uint, membership types.MembershipClass) ([]models.EventPricing, error)
}

type DiscountRules interface {
	EvaluateAutomatic(ctx context.Context, eventID uint, participants []Participant, baseAmount float64, qty int) ([]AutoDiscount, error)
}

type CodeLookup interface {
	ApplyCode(ctx context.Context, eventID uint, code string, baseAmount float64, qty int) (*CodeDiscount, error)
}

type ParticipantValidator interface {
	ValidateParticipants(ctx context.Context, eventID uint, participants []Participant) (*ValidationReport, error)
}

type CheckoutCreator interface {
	CreateCheckoutSession(ctx context.Context, bookingID uint, eventID uint, qty int, amount float64, description string) (sessionID string, url string, err error)
}

type BookingStore interface {
	CreateBooking(ctx context.Context, rec *Record) (uint, error)
	UpdateBooking(ctx context.Context, bookingID uint, rec *Record) error
	// ReplaceParticipants is delete-and-recreate, not a merge, so a
	// resumed completion is safe to repeat.
	ReplaceParticipants(ctx context.Context, bookingID uint, participants []Participant) error
	FetchBooking(ctx context.Context, bookingID uint) (*models.Booking, error)
	SubscribeMailingList(ctx context.Context, eventID uint, email string, name string) error
}

// Dispatcher is the notification boundary. Calls are fire-and-forget;
// failures are logged by the implementation and never block the journey.
type Dispatcher interface {
	BookingWhitelisted(bookingID uint)
	ApprovalRequested(bookingID uint)
	BookingConfirmed(bookingID uint)
	PaymentPending(bookingID uint)
}

// RedirectScheduler owns the deferred redirect for confirmed zero-amount
// bookings. Scheduling again for the same booking replaces the previous
// timer; cancel must be invoked when the journey is abandoned so a stale
// redirect never fires for a different booking in the same session.
type RedirectScheduler interface {
	ScheduleRedirect(bookingID uint, after time.Duration)
	CancelRedirect(bookingID uint)
}

// ExpiryScheduler arms the timer that releases a pending booking once
// its payment window lapses.
type ExpiryScheduler interface {
	ScheduleExpiry(bookingID uint, at time.Time)
}
