package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"ebw/src/config"
	"ebw/src/models"
	"ebw/src/types"
)

type Variant string

const (
	SingleEventJourney  Variant = "single_event"
	MultiSectionJourney Variant = "multi_section"
)

type StepLabel string

const (
	StepSections     StepLabel = "sections"
	StepPricing      StepLabel = "pricing"
	StepContact      StepLabel = "contact"
	StepParticipants StepLabel = "participants"
	StepReview       StepLabel = "review"
	StepDone         StepLabel = "done"
)

// The numeric step index is shared between variants but its meaning is
// not: simple events skip the section step and keep a pricing step, so
// each variant carries its own step-label table instead of branching on
// event shape at every turn.
var (
	journeyStepsSingle = map[int]StepLabel{
		1: StepPricing,
		2: StepContact,
		3: StepParticipants,
		4: StepReview,
		5: StepDone,
	}
	journeyStepsMulti = map[int]StepLabel{
		0: StepSections,
		1: StepContact,
		2: StepParticipants,
		3: StepReview,
		4: StepDone,
	}
)

// JourneyContext is the explicit handoff from the surrounding layout:
// the layout owns the idle display until the user interacts, the journey
// owns the step from then on. External observers must never overwrite
// journey-internal state once HasInteracted is set.
type JourneyContext struct {
	Step          int
	HasInteracted bool
	OnStepChange  func(step int)
}

type Deps struct {
	Pricing   *Catalog
	Discounts *Engine
	Validator ParticipantValidator
	Checkout  CheckoutCreator
	Store     BookingStore
	Notify    Dispatcher
	Redirects RedirectScheduler
	Expiry    ExpiryScheduler
}

type Draft struct {
	Tier           *TierOption
	Qty            int
	Sections       []SectionSelection
	Contact        Contact
	Participants   []Participant
	Code           string
	AgreedToTerms  bool
	Classification types.BookingClassification
}

type Params struct {
	Event         *models.Event
	UserID        uint
	Authenticated bool
	Membership    types.MembershipClass
	Resume        *ResumeState
	Context       JourneyContext
}

// Outcome is the terminal result of a completed journey.
type Outcome struct {
	BookingID      uint
	Classification types.BookingClassification
	CheckoutURL    string
	AmountDue      float64
	RedirectAfter  time.Duration
}

type Journey struct {
	deps    Deps
	event   *models.Event
	oracle  *Oracle
	tiers   []TierOption
	variant Variant
	steps   map[int]StepLabel
	step    int
	first   int

	authenticated bool
	userID        uint
	membership    types.MembershipClass

	draft     Draft
	quote     *Quote
	resumeID  *uint
	createdID *uint

	hasInteracted bool
	onStepChange  func(int)

	// Single user-visible error slot, last-writer-wins. Cleared at the
	// start of every user-initiated action so errors never outlive
	// their relevance.
	lastErr error

	outcome *Outcome
}

// NewJourney mounts a journey over one event snapshot. Gate conditions
// (not published, entries closed, sold out) block the journey here with
// a GateError unless a resumable booking is supplied: a booking already
// in flight must be completable even if the event since closed.
func NewJourney(ctx context.Context, deps Deps, p Params) (*Journey, error) {
	j := &Journey{
		deps:          deps,
		event:         p.Event,
		oracle:        NewOracle(p.Event),
		authenticated: p.Authenticated,
		userID:        p.UserID,
		membership:    p.Membership,
		hasInteracted: p.Context.HasInteracted,
		onStepChange:  p.Context.OnStepChange,
	}
	if p.Event.IsMultiSection() {
		j.variant = MultiSectionJourney
		j.steps = journeyStepsMulti
		j.first = 0
	} else {
		j.variant = SingleEventJourney
		j.steps = journeyStepsSingle
		j.first = 1
	}
	j.step = j.first

	bypass := p.Resume != nil && p.Resume.CanResume
	if !bypass {
		if err := j.gateCheck(); err != nil {
			return nil, err
		}
	}

	tiers, err := deps.Pricing.ResolveTiers(ctx, p.Event, p.Membership)
	if err != nil {
		return nil, err
	}
	j.tiers = tiers

	if p.Resume != nil {
		j.hydrate(p.Resume)
	}
	return j, nil
}

func (j *Journey) gateCheck() error {
	ev := j.event
	switch ev.Status {
	case types.EVENT_PUBLISHED:
	case types.EVENT_ENTRY_CLOSED:
		return &GateError{Reason: "entries for this event are closed"}
	default:
		return &GateError{Reason: "event is not open for bookings"}
	}
	if ev.EntryCloseAt != nil && time.Now().After(*ev.EntryCloseAt) {
		return &GateError{Reason: "entries for this event are closed"}
	}
	if j.oracle.SoldOut() {
		return &GateError{Reason: "event is sold out"}
	}
	return nil
}

// hydrate loads resume state into the draft. Display data is always
// hydrated; the resume identity (and with it the gate bypass) only when
// the booking can still be completed.
func (j *Journey) hydrate(rs *ResumeState) {
	j.draft.Sections = rs.Sections
	j.draft.Qty = rs.Qty
	j.draft.Contact = rs.Contact
	j.draft.Participants = rs.Participants
	if rs.PricingID != nil {
		for i := range j.tiers {
			if j.tiers[i].PricingID != nil && *j.tiers[i].PricingID == *rs.PricingID {
				j.draft.Tier = &j.tiers[i]
				break
			}
		}
	} else if j.variant == SingleEventJourney && rs.Qty > 0 {
		for i := range j.tiers {
			if j.tiers[i].ID == DefaultTierID {
				j.draft.Tier = &j.tiers[i]
				break
			}
		}
	}
	if rs.CanResume {
		id := rs.BookingID
		j.resumeID = &id
		if rs.Step >= j.first && rs.Step < j.terminalStep() {
			j.setStep(rs.Step)
		}
	}
}

func (j *Journey) terminalStep() int {
	return j.first + len(j.steps) - 1
}

func (j *Journey) setStep(step int) {
	j.step = step
	j.hasInteracted = true
	if j.onStepChange != nil {
		j.onStepChange(step)
	}
}

func (j *Journey) fail(err error) error {
	j.lastErr = err
	return err
}

// clearErr runs at the start of every user-initiated action.
func (j *Journey) clearErr() {
	j.lastErr = nil
}

func (j *Journey) Err() error { return j.lastErr }
func (j *Journey) Step() int { return j.step }
func (j *Journey) StepName() StepLabel { return j.steps[j.step] }
func (j *Journey) Variant() Variant { return j.variant }
func (j *Journey) Tiers() []TierOption { return j.tiers }
func (j *Journey) Draft() *Draft { return &j.draft }
func (j *Journey) Quote() *Quote { return j.quote }
func (j *Journey) Resuming() bool { return j.resumeID != nil }
func (j *Journey) Oracle() *Oracle { return j.oracle }
func (j *Journey) Event() *models.Event { return j.event }

func (j *Journey) totalQty() int {
	if j.variant == MultiSectionJourney {
		total := 0
		for _, s := range j.draft.Sections {
			total += s.Qty
		}
		return total
	}
	return j.draft.Qty
}

// SelectTier records an explicit tier choice on a single-event journey.
// The core never auto-selects, even with only one tier on offer.
func (j *Journey) SelectTier(tierID string, qty int) error {
	j.clearErr()
	if j.variant != SingleEventJourney {
		return j.fail(errors.New("tier selection applies to single events only"))
	}
	// A resumed booking already holds seats for its stored selection;
	// only the matching tier and quantity may be re-submitted.
	if j.resumeID != nil {
		if j.draft.Tier == nil || tierID != j.draft.Tier.ID || qty != j.draft.Qty {
			return j.fail(ErrSelectionLocked)
		}
		j.hasInteracted = true
		return nil
	}
	var tier *TierOption
	for i := range j.tiers {
		if j.tiers[i].ID == tierID {
			tier = &j.tiers[i]
			break
		}
	}
	if tier == nil {
		return j.fail(ErrNoSelection)
	}
	if qty < 1 || qty > j.oracle.MaxQuantity(nil) {
		return j.fail(ErrQuantityExceeded)
	}
	j.draft.Tier = tier
	j.draft.Qty = qty
	j.hasInteracted = true
	j.reconcileParticipants()
	return nil
}

// SelectSections records the section choices of a multi-section journey.
// Mixed whitelist/open sets are rejected here, at selection time, never
// deferred to submission.
func (j *Journey) SelectSections(sel []SectionSelection) error {
	j.clearErr()
	if j.variant != MultiSectionJourney {
		return j.fail(errors.New("section selection applies to multi-section events only"))
	}
	if j.resumeID != nil {
		if !sameSelection(sel, j.draft.Sections) {
			return j.fail(ErrSelectionLocked)
		}
		j.hasInteracted = true
		return nil
	}
	if _, err := j.oracle.SelectionClass(sel); err != nil {
		return j.fail(err)
	}
	total := 0
	for _, item := range sel {
		if item.Qty < 1 {
			return j.fail(ErrNoSelection)
		}
		if !j.sectionHasPricing(item.SectionID, item.PricingID) {
			return j.fail(ErrNoSelection)
		}
		total += item.Qty
	}
	if total > j.oracle.MaxQuantity(sel) {
		return j.fail(ErrQuantityExceeded)
	}
	j.draft.Sections = sel
	j.hasInteracted = true
	j.reconcileParticipants()
	return nil
}

// sameSelection compares selections as sets keyed by section so a
// re-submitted payload may reorder lines without counting as a change.
func sameSelection(a, b []SectionSelection) bool {
	if len(a) != len(b) {
		return false
	}
	byID := make(map[uint]SectionSelection, len(b))
	for _, item := range b {
		byID[item.SectionID] = item
	}
	for _, item := range a {
		other, ok := byID[item.SectionID]
		if !ok || other.PricingID != item.PricingID || other.Qty != item.Qty {
			return false
		}
	}
	return true
}

func (j *Journey) sectionHasPricing(sectionID, pricingID uint) bool {
	for _, s := range j.event.Sections {
		if s.ID != sectionID {
			continue
		}
		for _, p := range s.Pricing {
			if p.ID == pricingID {
				return true
			}
		}
	}
	return false
}

func (j *Journey) SetContact(c Contact) error {
	j.clearErr()
	j.draft.Contact = c
	j.hasInteracted = true
	j.reconcileParticipants()
	return nil
}

// reconcileParticipants keeps participants.length equal to the total
// selected quantity. Participant 0 is pre-seeded from the booker's
// contact record.
func (j *Journey) reconcileParticipants() {
	want := j.totalQty()
	if want < 0 {
		want = 0
	}
	for len(j.draft.Participants) < want {
		j.draft.Participants = append(j.draft.Participants, Participant{})
	}
	if len(j.draft.Participants) > want {
		j.draft.Participants = j.draft.Participants[:want]
	}
	if want > 0 {
		p := &j.draft.Participants[0]
		if p.FirstName == "" && p.LastName == "" {
			p.FirstName = j.draft.Contact.FirstName
			p.MiddleName = j.draft.Contact.MiddleName
			p.LastName = j.draft.Contact.LastName
			p.Email = j.draft.Contact.Email
			p.Phone = j.draft.Contact.Phone
		}
	}
}

func (j *Journey) SetParticipant(index int, p Participant) error {
	j.clearErr()
	if index < 0 || index >= len(j.draft.Participants) {
		return j.fail(fmt.Errorf("no participant at position %d", index+1))
	}
	j.draft.Participants[index] = p
	j.hasInteracted = true
	return nil
}

func (j *Journey) SetAgreedToTerms(agreed bool) {
	j.clearErr()
	j.draft.AgreedToTerms = agreed
	j.hasInteracted = true
}

// Next advances one step after passing the guard of the current one.
func (j *Journey) Next(ctx context.Context) error {
	j.clearErr()
	switch j.StepName() {
	case StepSections:
		if _, err := j.oracle.SelectionClass(j.draft.Sections); err != nil {
			return j.fail(err)
		}
	case StepPricing:
		if !j.authenticated {
			return j.fail(ErrNotAuthenticated)
		}
		if j.draft.Tier == nil || j.draft.Qty < 1 {
			return j.fail(ErrNoSelection)
		}
	case StepContact:
		c := j.draft.Contact
		if strings.TrimSpace(c.FirstName) == "" || strings.TrimSpace(c.LastName) == "" || strings.TrimSpace(c.Email) == "" {
			return j.fail(ErrIncompleteContact)
		}
		j.reconcileParticipants()
	case StepParticipants:
		if err := j.validateParticipantsLocal(); err != nil {
			return j.fail(err)
		}
		if err := j.validateParticipantsRemote(ctx); err != nil {
			return j.fail(err)
		}
		if err := j.Recalculate(ctx); err != nil {
			return err
		}
	case StepReview:
		return j.fail(errors.New("review is completed via Complete"))
	case StepDone:
		return j.fail(ErrJourneyComplete)
	}
	j.setStep(j.step + 1)
	return nil
}

// Back is always permitted except from the terminal step. Going back
// from the first participant re-enters contact editing; going back from
// contact on a multi-section event re-enters section selection.
func (j *Journey) Back() error {
	j.clearErr()
	if j.StepName() == StepDone {
		return j.fail(ErrJourneyComplete)
	}
	if j.step <= j.first {
		return j.fail(errors.New("already at the first step"))
	}
	j.setStep(j.step - 1)
	return nil
}

func (j *Journey) validateParticipantsLocal() error {
	if len(j.draft.Participants) != j.totalQty() {
		return fmt.Errorf("expected %d participants, have %d", j.totalQty(), len(j.draft.Participants))
	}
	required := []string{}
	for _, f := range j.event.FormFields {
		if f.Required {
			required = append(required, f.Name)
		}
	}
	for i, p := range j.draft.Participants {
		if strings.TrimSpace(p.FirstName) == "" {
			return &ParticipantFieldError{Index: i, Field: "first name", Reason: "is required"}
		}
		if strings.TrimSpace(p.LastName) == "" {
			return &ParticipantFieldError{Index: i, Field: "last name", Reason: "is required"}
		}
		for _, name := range required {
			if strings.TrimSpace(p.Custom[name]) == "" {
				return &ParticipantFieldError{Index: i, Field: name, Reason: "is required"}
			}
		}
	}
	return nil
}

// validateParticipantsRemote runs the ban-list and duplicate check. A
// reported failure blocks with the first error; an unreachable validator
// does not block, the journey favors availability over this one check.
func (j *Journey) validateParticipantsRemote(ctx context.Context) error {
	if j.deps.Validator == nil {
		return nil
	}
	report, err := j.deps.Validator.ValidateParticipants(ctx, j.event.ID, j.draft.Participants)
	if err != nil {
		log.Printf("[Journey] participant validation unavailable, proceeding: %s\n", err.Error())
		return nil
	}
	if report != nil && !report.Valid && len(report.Errors) > 0 {
		first := report.Errors[0]
		return &ParticipantFieldError{Index: first.Index, Field: "registration", Reason: first.Reason}
	}
	return nil
}

func (j *Journey) baseAmount() float64 {
	if j.variant == MultiSectionJourney {
		total := 0.0
		for _, item := range j.draft.Sections {
			for _, s := range j.event.Sections {
				if s.ID != item.SectionID {
					continue
				}
				for _, p := range s.Pricing {
					if p.ID == item.PricingID {
						total += p.Price * float64(item.Qty)
					}
				}
			}
		}
		return total
	}
	if j.draft.Tier == nil {
		return 0
	}
	return j.draft.Tier.Price * float64(j.draft.Qty)
}

// Recalculate refreshes the quote. It runs on step transitions and
// explicitly before review, not per keystroke.
func (j *Journey) Recalculate(ctx context.Context) error {
	quote, err := j.deps.Discounts.Recompute(ctx, j.event.ID, j.draft.Participants, j.baseAmount(), j.totalQty(), j.draft.Code)
	if err != nil {
		return j.fail(err)
	}
	j.quote = quote
	return nil
}

func (j *Journey) ApplyCode(ctx context.Context, code string) error {
	j.clearErr()
	prev := j.draft.Code
	j.draft.Code = strings.TrimSpace(code)
	if err := j.Recalculate(ctx); err != nil {
		j.draft.Code = prev
		return err
	}
	return nil
}

func (j *Journey) RemoveCode(ctx context.Context) error {
	j.clearErr()
	j.draft.Code = ""
	return j.Recalculate(ctx)
}

func (j *Journey) conditionalFreeSelected() bool {
	if j.variant == SingleEventJourney {
		return j.draft.Tier != nil && j.draft.Tier.PricingType == types.PRICING_CONDITIONAL_FREE
	}
	for _, item := range j.draft.Sections {
		for _, s := range j.event.Sections {
			if s.ID != item.SectionID {
				continue
			}
			for _, p := range s.Pricing {
				if p.ID == item.PricingID && p.PricingType == types.PRICING_CONDITIONAL_FREE {
					return true
				}
			}
		}
	}
	return false
}

// Description renders the human-readable selection summary handed to the
// payment boundary.
func (j *Journey) Description() string {
	if j.variant == SingleEventJourney {
		tier := "General Admission"
		if j.draft.Tier != nil {
			tier = j.draft.Tier.Name
		}
		return fmt.Sprintf("%s - %s x%d", j.event.Title, tier, j.draft.Qty)
	}
	parts := make([]string, 0, len(j.draft.Sections))
	for _, item := range j.draft.Sections {
		for _, s := range j.event.Sections {
			if s.ID == item.SectionID {
				parts = append(parts, fmt.Sprintf("%s x%d", s.Title, item.Qty))
			}
		}
	}
	return fmt.Sprintf("%s - %s", j.event.Title, strings.Join(parts, ", "))
}

func (j *Journey) buildRecord() *Record {
	rec := &Record{
		EventID:      j.event.ID,
		UserID:       j.userID,
		Qty:          j.totalQty(),
		BaseAmount:   j.baseAmount(),
		Contact:      j.draft.Contact,
		Sections:     j.draft.Sections,
		Participants: j.draft.Participants,
		Description:  j.Description(),
	}
	if j.draft.Tier != nil {
		rec.PricingID = j.draft.Tier.PricingID
	}
	if j.quote != nil {
		rec.DiscountAmount = j.quote.TotalDiscount + j.quote.CodeAmount()
		rec.TotalAmount = j.quote.FinalAmount
		rec.Discounts = j.quote.applied()
	} else {
		rec.TotalAmount = rec.BaseAmount
	}
	return rec
}

// Complete finalizes the journey: re-validates, classifies the booking
// exactly once and hands it off. The classification is monotonic; a
// journey that reached confirmed never re-derives as pending.
func (j *Journey) Complete(ctx context.Context) (*Outcome, error) {
	j.clearErr()
	if j.outcome != nil {
		return j.outcome, nil
	}
	if j.StepName() != StepReview {
		return nil, j.fail(fmt.Errorf("cannot complete from step %q", j.StepName()))
	}
	if !j.authenticated {
		return nil, j.fail(ErrNotAuthenticated)
	}
	if err := j.validateParticipantsLocal(); err != nil {
		return nil, j.fail(err)
	}
	if !j.draft.AgreedToTerms {
		return nil, j.fail(ErrTermsNotAgreed)
	}
	if err := j.Recalculate(ctx); err != nil {
		return nil, err
	}

	rec := j.buildRecord()

	if j.resumeID != nil {
		return j.completeResumed(ctx, rec)
	}
	return j.completeNew(ctx, rec)
}

func (j *Journey) completeResumed(ctx context.Context, rec *Record) (*Outcome, error) {
	bookingID := *j.resumeID
	if rec.TotalAmount == 0 {
		rec.Classification = types.BOOKING_CONFIRMED
	} else {
		rec.Classification = types.BOOKING_PENDING_PAYMENT
		expires := time.Now().Add(config.PendingBookingTTL)
		rec.ExpiresAt = &expires
	}
	if err := j.deps.Store.UpdateBooking(ctx, bookingID, rec); err != nil {
		return nil, j.fail(err)
	}
	if err := j.deps.Store.ReplaceParticipants(ctx, bookingID, rec.Participants); err != nil {
		return nil, j.fail(err)
	}
	return j.finalize(ctx, bookingID, rec)
}

func (j *Journey) completeNew(ctx context.Context, rec *Record) (*Outcome, error) {
	switch {
	case j.oracle.ShouldWhitelist(j.draft.Sections, false):
		rec.Classification = types.BOOKING_WHITELISTED
	case j.conditionalFreeSelected():
		rec.Classification = types.BOOKING_PENDING_APPROVAL
	case rec.TotalAmount == 0:
		rec.Classification = types.BOOKING_CONFIRMED
	default:
		rec.Classification = types.BOOKING_PENDING_PAYMENT
		expires := time.Now().Add(config.PendingBookingTTL)
		rec.ExpiresAt = &expires
	}
	// A booking row created on an earlier attempt is reused; only the
	// payment handoff is retried.
	if j.createdID != nil {
		return j.finalize(ctx, *j.createdID, rec)
	}
	bookingID, err := j.deps.Store.CreateBooking(ctx, rec)
	if err != nil {
		return nil, j.fail(err)
	}
	j.createdID = &bookingID
	if j.draft.Contact.JoinMailingList {
		name := strings.TrimSpace(j.draft.Contact.FirstName + " " + j.draft.Contact.LastName)
		if err := j.deps.Store.SubscribeMailingList(ctx, j.event.ID, j.draft.Contact.Email, name); err != nil {
			log.Printf("[Journey] mailing list subscription failed for booking [%d]: %s\n", bookingID, err.Error())
		}
	}
	return j.finalize(ctx, bookingID, rec)
}

func (j *Journey) finalize(ctx context.Context, bookingID uint, rec *Record) (*Outcome, error) {
	out := &Outcome{
		BookingID:      bookingID,
		Classification: rec.Classification,
		AmountDue:      rec.TotalAmount,
	}
	switch rec.Classification {
	case types.BOOKING_WHITELISTED:
		j.notify(func(d Dispatcher) { d.BookingWhitelisted(bookingID) })
	case types.BOOKING_PENDING_APPROVAL:
		j.notify(func(d Dispatcher) { d.ApprovalRequested(bookingID) })
	case types.BOOKING_CONFIRMED:
		j.notify(func(d Dispatcher) { d.BookingConfirmed(bookingID) })
		out.RedirectAfter = config.ConfirmedRedirectDelay
		if j.deps.Redirects != nil {
			j.deps.Redirects.ScheduleRedirect(bookingID, out.RedirectAfter)
		}
	case types.BOOKING_PENDING_PAYMENT:
		sessionID, url, err := j.deps.Checkout.CreateCheckoutSession(ctx, bookingID, j.event.ID, rec.Qty, rec.TotalAmount, rec.Description)
		if err != nil {
			// Leave the journey parked at review so the user can retry
			// without re-entering anything.
			return nil, j.fail(err)
		}
		log.Printf("[Journey] checkout session [%s] created for booking [%d]\n", sessionID, bookingID)
		out.CheckoutURL = url
		if j.deps.Expiry != nil && rec.ExpiresAt != nil {
			j.deps.Expiry.ScheduleExpiry(bookingID, *rec.ExpiresAt)
		}
		j.notify(func(d Dispatcher) { d.PaymentPending(bookingID) })
	}
	j.draft.Classification = rec.Classification
	j.outcome = out
	j.setStep(j.terminalStep())
	return out, nil
}

func (j *Journey) notify(fn func(Dispatcher)) {
	if j.deps.Notify == nil {
		return
	}
	fn(j.deps.Notify)
}

// Abandon cancels any pending redirect timer for the journey's booking.
// Must be called when the user navigates away so a stale redirect never
// fires for a different booking in the same session.
func (j *Journey) Abandon() {
	if j.outcome != nil && j.deps.Redirects != nil {
		j.deps.Redirects.CancelRedirect(j.outcome.BookingID)
	}
}
