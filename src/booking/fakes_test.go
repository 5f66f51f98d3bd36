package booking

import (
	"context"
	"errors"
	"time"

	"ebw/src/models"
	"ebw/src/types"
)

type fakePricingStore struct {
	tiers []models.EventPricing
	err   error
	delay time.Duration
	calls int
	seen  types.MembershipClass
}

func (f *fakePricingStore) FetchEvent(ctx context.Context, id uint) (*models.Event, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePricingStore) FetchTiers(ctx context.Context, eventID uint, membership types.MembershipClass) ([]models.EventPricing, error) {
	f.calls++
	f.seen = membership
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.tiers, nil
}

type fakeRules struct {
	autos []AutoDiscount
	err   error
	calls int
}

func (f *fakeRules) EvaluateAutomatic(ctx context.Context, eventID uint, participants []Participant, baseAmount float64, qty int) ([]AutoDiscount, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.autos, nil
}

type fakeCodes struct {
	discount *CodeDiscount
	err      error
	lastCode string
}

func (f *fakeCodes) ApplyCode(ctx context.Context, eventID uint, code string, baseAmount float64, qty int) (*CodeDiscount, error) {
	f.lastCode = code
	if f.err != nil {
		return nil, f.err
	}
	return f.discount, nil
}

type fakeValidator struct {
	report *ValidationReport
	err    error
	calls  int
}

func (f *fakeValidator) ValidateParticipants(ctx context.Context, eventID uint, participants []Participant) (*ValidationReport, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

type fakeCheckout struct {
	sessionID string
	url       string
	err       error
	calls     int
	amount    float64
}

func (f *fakeCheckout) CreateCheckoutSession(ctx context.Context, bookingID uint, eventID uint, qty int, amount float64, description string) (string, string, error) {
	f.calls++
	f.amount = amount
	if f.err != nil {
		return "", "", f.err
	}
	return f.sessionID, f.url, nil
}

type fakeStore struct {
	nextID     uint
	created    []*Record
	updated    map[uint]*Record
	bookings   map[uint]*models.Booking
	parts      map[uint][]Participant
	subscribed []string
	createErr  error
	fetchErr   error
	replaceCnt int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:   100,
		updated:  map[uint]*Record{},
		bookings: map[uint]*models.Booking{},
		parts:    map[uint][]Participant{},
	}
}

func (f *fakeStore) CreateBooking(ctx context.Context, rec *Record) (uint, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	f.created = append(f.created, rec)
	f.parts[f.nextID] = append([]Participant(nil), rec.Participants...)
	return f.nextID, nil
}

func (f *fakeStore) UpdateBooking(ctx context.Context, bookingID uint, rec *Record) error {
	f.updated[bookingID] = rec
	return nil
}

func (f *fakeStore) ReplaceParticipants(ctx context.Context, bookingID uint, participants []Participant) error {
	f.replaceCnt++
	f.parts[bookingID] = append([]Participant(nil), participants...)
	return nil
}

func (f *fakeStore) FetchBooking(ctx context.Context, bookingID uint) (*models.Booking, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	b, ok := f.bookings[bookingID]
	if !ok {
		return nil, errors.New("booking not found")
	}
	return b, nil
}

func (f *fakeStore) SubscribeMailingList(ctx context.Context, eventID uint, email string, name string) error {
	f.subscribed = append(f.subscribed, email)
	return nil
}

type fakeDispatcher struct {
	whitelisted []uint
	approvals   []uint
	confirmed   []uint
	pending     []uint
}

func (f *fakeDispatcher) BookingWhitelisted(id uint) { f.whitelisted = append(f.whitelisted, id) }
func (f *fakeDispatcher) ApprovalRequested(id uint)  { f.approvals = append(f.approvals, id) }
func (f *fakeDispatcher) BookingConfirmed(id uint)   { f.confirmed = append(f.confirmed, id) }
func (f *fakeDispatcher) PaymentPending(id uint)     { f.pending = append(f.pending, id) }

type fakeRedirects struct {
	scheduled map[uint]time.Duration
	canceled  []uint
}

func newFakeRedirects() *fakeRedirects {
	return &fakeRedirects{scheduled: map[uint]time.Duration{}}
}

func (f *fakeRedirects) ScheduleRedirect(bookingID uint, after time.Duration) {
	f.scheduled[bookingID] = after
}

func (f *fakeRedirects) CancelRedirect(bookingID uint) {
	f.canceled = append(f.canceled, bookingID)
}

type fakeExpiry struct {
	armed map[uint]time.Time
}

func newFakeExpiry() *fakeExpiry {
	return &fakeExpiry{armed: map[uint]time.Time{}}
}

func (f *fakeExpiry) ScheduleExpiry(bookingID uint, at time.Time) {
	f.armed[bookingID] = at
}

func uintPtr(v uint) *uint { return &v }

func publishedEvent() *models.Event {
	return &models.Event{
		ID:           1,
		Title:        "Winter Gala",
		Status:       types.EVENT_PUBLISHED,
		Price:        50,
		MaxAttendees: uintPtr(100),
	}
}

func multiSectionEvent() *models.Event {
	ev := publishedEvent()
	ev.Price = 0
	ev.Sections = []models.EventSection{
		{
			ID:             10,
			EventID:        1,
			Title:          "Friday",
			AvailableSeats: 20,
			Pricing: []models.SectionPricing{
				{ID: 101, SectionID: 10, Name: "Regular", Price: 30, PricingType: types.PRICING_REGULAR},
			},
		},
		{
			ID:               11,
			EventID:          1,
			Title:            "Saturday",
			AvailableSeats:   0,
			WhitelistEnabled: true,
			Pricing: []models.SectionPricing{
				{ID: 111, SectionID: 11, Name: "Regular", Price: 40, PricingType: types.PRICING_REGULAR},
			},
		},
		{
			ID:             12,
			EventID:        1,
			Title:          "Sunday",
			AvailableSeats: 0,
			Pricing: []models.SectionPricing{
				{ID: 121, SectionID: 12, Name: "Regular", Price: 25, PricingType: types.PRICING_REGULAR},
			},
		},
	}
	return ev
}

func journeyDeps(store *fakeStore) (Deps, *fakeDispatcher, *fakeRedirects, *fakeCheckout) {
	dispatcher := &fakeDispatcher{}
	redirects := newFakeRedirects()
	checkout := &fakeCheckout{sessionID: "cs_test_1", url: "https://checkout.test/cs_test_1"}
	deps := Deps{
		Pricing:   NewCatalog(&fakePricingStore{}),
		Discounts: NewEngine(&fakeRules{}, &fakeCodes{}),
		Checkout:  checkout,
		Store:     store,
		Notify:    dispatcher,
		Redirects: redirects,
	}
	return deps, dispatcher, redirects, checkout
}
