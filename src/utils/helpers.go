package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"ebw/src/booking"
	"ebw/src/config"
	"ebw/src/db"
	"ebw/src/lib"
	"ebw/src/models"
	"ebw/src/types"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventsRepo backs the pricing catalog with the events tables. Tier
// lookups go through a short-lived cache keyed by event and membership.
type EventsRepo struct{}

func (r *EventsRepo) FetchEvent(ctx context.Context, id uint) (*models.Event, error) {
	conn := db.GetDb()
	var event models.Event
	err := conn.
		WithContext(ctx).
		Where(&models.Event{ID: id}).
		Preload("Sections.Pricing").
		Preload("Pricing").
		Preload("FormFields").
		First(&event).
		Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventsRepo) FetchTiers(ctx context.Context, eventID uint, membership types.MembershipClass) ([]models.EventPricing, error) {
	var tiers []models.EventPricing
	if cached, ok := lib.GetCachedEventTiers(ctx, eventID, string(membership)); ok {
		if err := json.Unmarshal(cached, &tiers); err == nil {
			return tiers, nil
		}
	}
	conn := db.GetDb()
	err := conn.
		WithContext(ctx).
		Model(&models.EventPricing{}).
		Where(&models.EventPricing{EventID: eventID, Membership: membership}).
		Order("price ASC").
		Find(&tiers).
		Error
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(tiers); err == nil {
		lib.CacheEventTiers(ctx, eventID, string(membership), data, 5*time.Minute)
	}
	return tiers, nil
}

// DiscountsRepo evaluates discount rows against a booking in progress.
// It serves both the automatic rules and the code lookup.
type DiscountsRepo struct{}

func (r *DiscountsRepo) EvaluateAutomatic(ctx context.Context, eventID uint, participants []booking.Participant, baseAmount float64, qty int) ([]booking.AutoDiscount, error) {
	conn := db.GetDb()
	var rows []models.Discount
	err := conn.
		WithContext(ctx).
		Model(&models.Discount{}).
		Where(&models.Discount{EventID: eventID, Active: true}).
		Where("code IS NULL").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := []booking.AutoDiscount{}
	for _, row := range rows {
		if row.ExpiresAt != nil && now.After(*row.ExpiresAt) {
			continue
		}
		if !ruleApplies(row.RuleType, participants, qty) {
			continue
		}
		out = append(out, booking.AutoDiscount{
			DiscountID: row.ID,
			Name:       row.Name,
			RuleType:   row.RuleType,
			AmountOff:  amountOff(row, baseAmount),
		})
	}
	return out, nil
}

func ruleApplies(ruleType string, participants []booking.Participant, qty int) bool {
	switch ruleType {
	case "group":
		return qty >= 5
	case "youth":
		cutoff := time.Now().AddDate(-18, 0, 0)
		for _, p := range participants {
			if p.DateOfBirth != nil && p.DateOfBirth.After(cutoff) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

func amountOff(d models.Discount, baseAmount float64) float64 {
	if d.ValueType == types.DISCOUNT_PERCENTAGE {
		return baseAmount * d.Value / 100
	}
	return d.Value
}

func (r *DiscountsRepo) ApplyCode(ctx context.Context, eventID uint, code string, baseAmount float64, qty int) (*booking.CodeDiscount, error) {
	conn := db.GetDb()
	var row models.Discount
	normalized := strings.ToUpper(strings.TrimSpace(code))
	err := conn.
		WithContext(ctx).
		Model(&models.Discount{}).
		Where(&models.Discount{EventID: eventID, Active: true}).
		Where("UPPER(code) = ?", normalized).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("discount code is not valid")
		}
		return nil, err
	}
	if row.ExpiresAt != nil && time.Now().After(*row.ExpiresAt) {
		return nil, errors.New("discount code has expired")
	}
	if row.UsageLimit != nil && row.UsageCount >= *row.UsageLimit {
		return nil, errors.New("discount code has reached its usage limit")
	}
	return &booking.CodeDiscount{
		DiscountID: row.ID,
		Code:       normalized,
		Name:       row.Name,
		ValueType:  row.ValueType,
		Value:      row.Value,
		AmountOff:  amountOff(row, baseAmount),
	}, nil
}

// ParticipantsChecker flags banned or already-registered participants.
type ParticipantsChecker struct{}

func (r *ParticipantsChecker) ValidateParticipants(ctx context.Context, eventID uint, participants []booking.Participant) (*booking.ValidationReport, error) {
	conn := db.GetDb()
	report := &booking.ValidationReport{Valid: true}
	for i, p := range participants {
		if p.Email == "" {
			continue
		}
		var banned int64
		err := conn.
			WithContext(ctx).
			Model(&models.BannedAttendee{}).
			Where(&models.BannedAttendee{EventID: eventID, Email: strings.ToLower(p.Email)}).
			Count(&banned).
			Error
		if err != nil {
			return nil, err
		}
		if banned > 0 {
			report.Valid = false
			report.Errors = append(report.Errors, booking.ParticipantError{Index: i, Reason: "cannot be registered for this event"})
			continue
		}
		var registered int64
		err = conn.
			WithContext(ctx).
			Model(&models.Participant{}).
			Joins("JOIN bookings ON bookings.id = participants.booking_id").
			Where("bookings.event_id = ?", eventID).
			Where("bookings.status IN ?", []types.BookingClassification{types.BOOKING_CONFIRMED, types.BOOKING_PENDING_PAYMENT, types.BOOKING_PENDING_APPROVAL}).
			Where("LOWER(participants.email) = ?", strings.ToLower(p.Email)).
			Count(&registered).
			Error
		if err != nil {
			return nil, err
		}
		if registered > 0 {
			report.Valid = false
			report.Errors = append(report.Errors, booking.ParticipantError{Index: i, Reason: "is already registered for this event"})
		}
	}
	return report, nil
}

// BookingsRepo is the persistence boundary of the journey. Seat
// counters only move here, inside the transaction that writes the
// booking; counters may go negative under concurrent submits and the
// availability read side treats that as full.
type BookingsRepo struct{}

func (r *BookingsRepo) CreateBooking(ctx context.Context, rec *booking.Record) (uint, error) {
	conn := db.GetDb()
	var bookingId uint
	err := conn.Transaction(func(tx *gorm.DB) error {
		b := models.Booking{
			EventID:        rec.EventID,
			UserID:         rec.UserID,
			Status:         rec.Classification,
			Qty:            rec.Qty,
			BaseAmount:     rec.BaseAmount,
			DiscountAmount: rec.DiscountAmount,
			TotalAmount:    rec.TotalAmount,
			Currency:       "usd",
			PricingID:      rec.PricingID,
			FirstName:      rec.Contact.FirstName,
			MiddleName:     rec.Contact.MiddleName,
			LastName:       rec.Contact.LastName,
			Email:          rec.Contact.Email,
			Phone:          rec.Contact.Phone,
			ExpiresAt:      rec.ExpiresAt,
		}
		if err := tx.Create(&b).Error; err != nil {
			err = fmt.Errorf("error in Booking transaction: %s", err.Error())
			log.Println(err.Error())
			return err
		}
		bookingId = b.ID

		for _, sel := range rec.Sections {
			var pricing models.SectionPricing
			if err := tx.Where(&models.SectionPricing{ID: sel.PricingID}).First(&pricing).Error; err != nil {
				return err
			}
			sb := models.SectionBooking{
				BookingID: b.ID,
				SectionID: sel.SectionID,
				PricingID: sel.PricingID,
				Qty:       sel.Qty,
				UnitPrice: pricing.Price,
				Subtotal:  pricing.Price * float64(sel.Qty),
			}
			if err := tx.Create(&sb).Error; err != nil {
				return err
			}
		}

		if err := createParticipants(tx, b.ID, rec.Participants); err != nil {
			return err
		}

		for _, d := range rec.Discounts {
			da := models.DiscountApplication{
				BookingID:  b.ID,
				DiscountID: d.DiscountID,
				Source:     d.Source,
				Name:       d.Name,
				AmountOff:  d.AmountOff,
			}
			if err := tx.Create(&da).Error; err != nil {
				return err
			}
			if d.Source == types.DISCOUNT_SOURCE_CODE && d.DiscountID != nil {
				if err := tx.
					Model(&models.Discount{}).
					Where(&models.Discount{ID: *d.DiscountID}).
					Update("usage_count", gorm.Expr("usage_count + 1")).
					Error; err != nil {
					return err
				}
			}
		}

		// Waitlisted registrations do not consume seats.
		if rec.Classification != types.BOOKING_WHITELISTED {
			if err := takeSeats(tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("CreateBooking failed: %s\n", err.Error())
		return 0, err
	}
	return bookingId, nil
}

func takeSeats(tx *gorm.DB, rec *booking.Record) error {
	if len(rec.Sections) > 0 {
		for _, sel := range rec.Sections {
			if err := tx.
				Model(&models.EventSection{}).
				Where(&models.EventSection{ID: sel.SectionID}).
				Update("available_seats", gorm.Expr("available_seats - ?", sel.Qty)).
				Error; err != nil {
				return err
			}
		}
		return nil
	}
	return tx.
		Model(&models.Event{}).
		Where(&models.Event{ID: rec.EventID}).
		Update("current_attendees", gorm.Expr("current_attendees + ?", rec.Qty)).
		Error
}

func releaseSeats(tx *gorm.DB, b *models.Booking) error {
	if len(b.SectionBookings) > 0 {
		for _, sb := range b.SectionBookings {
			if err := tx.
				Model(&models.EventSection{}).
				Where(&models.EventSection{ID: sb.SectionID}).
				Update("available_seats", gorm.Expr("available_seats + ?", sb.Qty)).
				Error; err != nil {
				return err
			}
		}
		return nil
	}
	return tx.
		Model(&models.Event{}).
		Where(&models.Event{ID: b.EventID}).
		Update("current_attendees", gorm.Expr("current_attendees - ?", b.Qty)).
		Error
}

func createParticipants(tx *gorm.DB, bookingId uint, participants []booking.Participant) error {
	for i, p := range participants {
		var custom types.JSONB
		if len(p.Custom) > 0 {
			custom = types.JSONB{}
			for k, v := range p.Custom {
				custom[k] = v
			}
		}
		row := models.Participant{
			BookingID:   bookingId,
			Position:    i,
			FirstName:   p.FirstName,
			MiddleName:  p.MiddleName,
			LastName:    p.LastName,
			Email:       p.Email,
			Phone:       p.Phone,
			DateOfBirth: p.DateOfBirth,
			CustomData:  custom,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *BookingsRepo) UpdateBooking(ctx context.Context, bookingID uint, rec *booking.Record) error {
	conn := db.GetDb()
	return conn.Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := tx.Where(&models.Booking{ID: bookingID}).First(&b).Error; err != nil {
			return err
		}
		updates := map[string]any{
			"status":          rec.Classification,
			"qty":             rec.Qty,
			"base_amount":     rec.BaseAmount,
			"discount_amount": rec.DiscountAmount,
			"total_amount":    rec.TotalAmount,
			"first_name":      rec.Contact.FirstName,
			"middle_name":     rec.Contact.MiddleName,
			"last_name":       rec.Contact.LastName,
			"email":           rec.Contact.Email,
			"phone":           rec.Contact.Phone,
			"expires_at":      rec.ExpiresAt,
		}
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingID}).
			Updates(updates).
			Error; err != nil {
			return err
		}
		// Discount applications mirror the latest quote.
		if err := tx.
			Where(&models.DiscountApplication{BookingID: bookingID}).
			Delete(&models.DiscountApplication{}).
			Error; err != nil {
			return err
		}
		for _, d := range rec.Discounts {
			da := models.DiscountApplication{
				BookingID:  bookingID,
				DiscountID: d.DiscountID,
				Source:     d.Source,
				Name:       d.Name,
				AmountOff:  d.AmountOff,
			}
			if err := tx.Create(&da).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *BookingsRepo) ReplaceParticipants(ctx context.Context, bookingID uint, participants []booking.Participant) error {
	conn := db.GetDb()
	return conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where(&models.Participant{BookingID: bookingID}).
			Delete(&models.Participant{}).
			Error; err != nil {
			return err
		}
		return createParticipants(tx, bookingID, participants)
	})
}

func (r *BookingsRepo) FetchBooking(ctx context.Context, bookingID uint) (*models.Booking, error) {
	conn := db.GetDb()
	var b models.Booking
	err := conn.
		WithContext(ctx).
		Where(&models.Booking{ID: bookingID}).
		Preload("SectionBookings").
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("participants.position ASC")
		}).
		Preload("DiscountApplications").
		Preload("Event").
		First(&b).
		Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingsRepo) SubscribeMailingList(ctx context.Context, eventID uint, email string, name string) error {
	conn := db.GetDb()
	sub := models.MailingListSubscriber{
		EventID: eventID,
		Email:   strings.ToLower(email),
		Name:    name,
	}
	return conn.
		WithContext(ctx).
		Where(&models.MailingListSubscriber{EventID: eventID, Email: sub.Email}).
		FirstOrCreate(&sub).
		Error
}

func CreateNewEvent(params *types.CreateEventRequestBody, organizerId uint) (uint, error) {
	startsAt, err := time.Parse(config.TIME_PARSE_FORMAT, params.StartsAt)
	if err != nil {
		log.Printf("Error parsing starts_at: %s\n", err.Error())
		return 0, err
	}
	endsAt, err := time.Parse(config.TIME_PARSE_FORMAT, params.EndsAt)
	if err != nil {
		log.Printf("Error parsing ends_at: %s\n", err.Error())
		return 0, err
	}
	eventStatus := types.EVENT_DRAFT
	if params.Publish {
		eventStatus = types.EVENT_PUBLISHED
	}
	event := models.Event{
		Title:            params.Title,
		Name:             slug.Make(params.Title),
		Location:         params.Location,
		StartsAt:         startsAt,
		EndsAt:           endsAt,
		Status:           eventStatus,
		Price:            params.Price,
		MaxAttendees:     params.MaxAttendees,
		WhitelistEnabled: params.Whitelist,
		OrganizerID:      organizerId,
	}
	if params.Description != "" {
		event.About = &params.Description
	}
	conn := db.GetDb()
	err = conn.Transaction(func(tx *gorm.DB) error {
		if params.EntryCloseAt != nil {
			closeAt, err := time.Parse(config.TIME_PARSE_FORMAT, *params.EntryCloseAt)
			if err != nil {
				return err
			}
			event.EntryCloseAt = &closeAt
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			return 0, errors.New("an event with this title already exists")
		}
		return 0, err
	}
	return event.ID, nil
}

func PublishEvent(id uint) error {
	return UpdateEventStatus(id, types.EVENT_PUBLISHED, types.EVENT_DRAFT)
}

// UpdateEventStatus transitions an event between statuses with a row
// lock so two racing transitions cannot both succeed.
func UpdateEventStatus(id uint, newStatus types.EventStatus, oldStatus types.EventStatus) error {
	conn := db.GetDb()
	log.Println("UpdateEventStatus: Begin Transaction")
	err := conn.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		conds := &models.Event{ID: id, Status: oldStatus}
		if err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
				Table:    clause.Table{Name: clause.CurrentTable},
			}).
			Where(conds).
			First(&event).
			Error; err != nil {
			log.Printf("Failed to update event status: %s\n", err.Error())
			return err
		}
		if err := tx.
			Model(&models.Event{}).
			Where(conds).
			Update("status", newStatus).
			Error; err != nil {
			log.Printf("Event status update did not complete successfully: %s\n", err.Error())
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("Error on transaction: %s\n", err.Error())
		return err
	}
	log.Println("UpdateEventStatus: End Transaction")
	return nil
}

// ExpireBooking releases a pending booking whose hold lapsed. A booking
// paid in the meantime is left alone.
func ExpireBooking(bookingID uint) {
	conn := db.GetDb()
	err := conn.Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := tx.
			Where(&models.Booking{ID: bookingID, Status: types.BOOKING_PENDING_PAYMENT}).
			Preload("SectionBookings").
			First(&b).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("[Expiry] Booking [%d] no longer pending. Skipping\n", bookingID)
				return nil
			}
			return err
		}
		if b.ExpiresAt != nil && time.Now().Before(*b.ExpiresAt) {
			log.Printf("[Expiry] Booking [%d] hold extended. Skipping\n", bookingID)
			return nil
		}
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingID, Status: types.BOOKING_PENDING_PAYMENT}).
			Update("status", types.BOOKING_EXPIRED).
			Error; err != nil {
			return err
		}
		return releaseSeats(tx, &b)
	})
	if err != nil {
		log.Printf("[Expiry] Error expiring booking [%d]: %s\n", bookingID, err.Error())
	}
}

// CreateBookingExpiryJob persists the job row and schedules the local
// timer. The row is what lets EnqueueJobs re-arm the timer on restart.
func CreateBookingExpiryJob(bookingID uint, runsAt time.Time) {
	conn := db.GetDb()
	payloadId := uuid.New().String()
	jobTask := models.JobTask{
		Name:      fmt.Sprintf("Booking_%d_Expiry", bookingID),
		JobType:   "OneTimeJobStartDateTime",
		RunsAt:    runsAt,
		PayloadID: payloadId,
		Payload: types.JSONB{
			"payloadId": payloadId,
			"id":        bookingID,
			"table":     "bookings",
		},
		Source: "Booking",
		Topic:  "ExpiredBookings",
	}
	if err := conn.Create(&jobTask).Error; err != nil {
		log.Printf("Error creating job for Booking: id=%d error=%s\n", bookingID, err.Error())
		return
	}
	if _, err := lib.CreateOneTimeJob(runsAt, func(id uint, jobId uuid.UUID) {
		ExpireBooking(id)
		markJobDone(jobId)
	}, bookingID, jobTask.ID); err != nil {
		log.Printf("Error scheduling job for Booking [%d]: %s\n", bookingID, err.Error())
		return
	}
	log.Printf("Created job for Booking[%d] with ID %s\n", bookingID, jobTask.ID.String())
}

// ExpiryTimers plugs the persisted expiry job into the booking journey.
type ExpiryTimers struct{}

func (t *ExpiryTimers) ScheduleExpiry(bookingID uint, at time.Time) {
	CreateBookingExpiryJob(bookingID, at)
}

func markJobDone(jobId uuid.UUID) {
	conn := db.GetDb()
	if err := conn.
		Model(&models.JobTask{}).
		Where("id = ?", jobId).
		Update("status", "done").
		Error; err != nil {
		log.Printf("Error updating job [%s]: %s\n", jobId.String(), err.Error())
	}
}

// EnqueueJobs re-arms pending expiry timers after a restart. Jobs whose
// run time already passed fire immediately.
func EnqueueJobs() {
	conn := db.GetDb()
	var jobs []models.JobTask
	err := conn.
		Where(&models.JobTask{Status: "pending"}).
		Find(&jobs).
		Error
	if err != nil {
		log.Printf("Error in boot Task: %s\n", err.Error())
		return
	}
	now := time.Now()
	for _, job := range jobs {
		var id uint
		switch v := job.Payload["id"].(type) {
		case float64:
			id = uint(v)
		case uint:
			id = v
		default:
			log.Printf("Job [%s] has no booking id. Skipping\n", job.ID.String())
			continue
		}
		runsAt := job.RunsAt
		if runsAt.Before(now) {
			runsAt = now.Add(time.Minute)
		}
		jobId := job.ID
		if _, err := lib.CreateOneTimeJob(runsAt, func(bid uint, jid uuid.UUID) {
			ExpireBooking(bid)
			markJobDone(jid)
		}, id, jobId); err != nil {
			log.Printf("Error re-scheduling job [%s]: %s\n", job.ID.String(), err.Error())
		}
	}
	log.Printf("Jobs re-armed: %d\n", len(jobs))
}

// CheckoutService wraps the Stripe session creation with the
// bookkeeping both sides of the webhook need: the session id lands on
// the booking row and in the redis session map.
type CheckoutService struct {
	inner booking.CheckoutCreator
}

func NewCheckoutService() *CheckoutService {
	return &CheckoutService{inner: &lib.StripeCheckout{}}
}

func (s *CheckoutService) CreateCheckoutSession(ctx context.Context, bookingID uint, eventID uint, qty int, amount float64, description string) (string, string, error) {
	sessionID, url, err := s.inner.CreateCheckoutSession(ctx, bookingID, eventID, qty, amount, description)
	if err != nil {
		return "", "", err
	}
	conn := db.GetDb()
	if err := conn.
		Model(&models.Booking{}).
		Where(&models.Booking{ID: bookingID}).
		Update("checkout_session_id", sessionID).
		Error; err != nil {
		log.Printf("Error saving checkout session for booking [%d]: %s\n", bookingID, err.Error())
	}
	lib.MapCheckoutSession(ctx, sessionID, bookingID, config.PendingBookingTTL+time.Hour)
	return sessionID, url, nil
}

// ConfirmBookingPayment settles a pending booking after the checkout
// session completes. Repeat webhook deliveries are no-ops: the status
// condition only matches the first time.
func ConfirmBookingPayment(sessionID string, amountPaid float64, currency string) (uint, error) {
	conn := db.GetDb()
	var bookingId uint
	err := conn.Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := tx.
			Where(&models.Booking{Status: types.BOOKING_PENDING_PAYMENT, CheckoutSessionId: &sessionID}).
			First(&b).
			Error; err != nil {
			return err
		}
		bookingId = b.ID
		txn := models.Transaction{
			Amount:            b.TotalAmount,
			AmountPaid:        amountPaid,
			Currency:          currency,
			Status:            types.TRANSACTION_COMPLETED,
			CheckoutSessionId: &sessionID,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}
		updates := map[string]any{
			"status":         types.BOOKING_CONFIRMED,
			"transaction_id": txn.ID,
			"expires_at":     nil,
		}
		return tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: b.ID, Status: types.BOOKING_PENDING_PAYMENT}).
			Updates(updates).
			Error
	})
	if err != nil {
		return 0, err
	}
	return bookingId, nil
}

// NewAccessToken issues the bearer token the API authenticates with.
func NewAccessToken(user *models.User) (string, error) {
	claims := &types.Claims{
		Username:   user.Email,
		Role:       user.Role,
		Membership: user.Membership,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
