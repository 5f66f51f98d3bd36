package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Metadata map[string]any

func (a Metadata) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *Metadata) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type EventStatus string

const (
	EVENT_DRAFT        EventStatus = "draft"
	EVENT_PUBLISHED    EventStatus = "published"
	EVENT_ENTRY_CLOSED EventStatus = "entry_closed"
	EVENT_CANCELED     EventStatus = "cancelled"
	EVENT_COMPLETED    EventStatus = "completed"
)

type PricingType string

const (
	PRICING_EARLY_BIRD       PricingType = "early_bird"
	PRICING_REGULAR          PricingType = "regular"
	PRICING_LATE_BIRD        PricingType = "late_bird"
	PRICING_SPECIAL          PricingType = "special"
	PRICING_CONDITIONAL_FREE PricingType = "conditional_free"
)

// SectionState is the availability tri-state for a section (or for a
// whole single event). Full means available seats <= 0, never == 0:
// counters can go negative when the persistence layer corrects
// overbooking and that must still read as full.
type SectionState string

const (
	SECTION_OPEN           SectionState = "open"
	SECTION_FULL_WHITELIST SectionState = "full_whitelist"
	SECTION_FULL_CLOSED    SectionState = "full_closed"
)

type BookingClassification string

const (
	BOOKING_CONFIRMED        BookingClassification = "confirmed"
	BOOKING_PENDING_PAYMENT  BookingClassification = "pending_payment"
	BOOKING_WHITELISTED      BookingClassification = "whitelisted"
	BOOKING_PENDING_APPROVAL BookingClassification = "pending_approval"
	BOOKING_EXPIRED          BookingClassification = "expired"
	BOOKING_CANCELED         BookingClassification = "cancelled"
)

type TransactionStatus string

const (
	TRANSACTION_PENDING   TransactionStatus = "pending"
	TRANSACTION_COMPLETED TransactionStatus = "paid"
	TRANSACTION_CANCELED  TransactionStatus = "canceled"
	TRANSACTION_EXPIRED   TransactionStatus = "expired"
)

type DiscountSource string

const (
	DISCOUNT_SOURCE_AUTO DiscountSource = "auto"
	DISCOUNT_SOURCE_CODE DiscountSource = "code"
)

type DiscountValueType string

const (
	DISCOUNT_PERCENTAGE DiscountValueType = "percentage"
	DISCOUNT_FIXED      DiscountValueType = "fixed"
)

type MembershipClass string

const (
	MEMBER     MembershipClass = "member"
	NON_MEMBER MembershipClass = "non_member"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type CreateEventRequestBody struct {
	Title        string  `json:"title" binding:"required"`
	Name         string  `json:"name,omitempty"`
	Description  string  `json:"description,omitempty"`
	Location     string  `json:"location,omitempty"`
	StartsAt     string  `json:"starts_at" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	EndsAt       string  `json:"ends_at" binding:"required,bookabledate,gtdate=StartsAt" time_format:"2006-01-02 15:04:05 -07:00"`
	EntryCloseAt *string `json:"entry_close_at,omitempty" binding:"omitempty,bookabledate,ltdate=EndsAt" time_format:"2006-01-02 15:04:05 -07:00"`
	MaxAttendees *uint   `json:"max_attendees,omitempty"`
	Price        float64 `json:"price"`
	Whitelist    bool    `json:"whitelist_enabled,omitempty"`
	Publish      bool    `json:"publish,omitempty"`
}

type SectionSelectionItem struct {
	SectionID uint `json:"section" binding:"required"`
	PricingID uint `json:"pricing" binding:"required"`
	Qty       int  `json:"qty" binding:"required,min=1"`
}

type BookingContact struct {
	FirstName       string `json:"first_name" binding:"required"`
	MiddleName      string `json:"middle_name,omitempty"`
	LastName        string `json:"last_name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone,omitempty"`
	JoinMailingList bool   `json:"join_mailing_list,omitempty"`
}

type BookingParticipant struct {
	FirstName   string            `json:"first_name" binding:"required"`
	MiddleName  string            `json:"middle_name,omitempty"`
	LastName    string            `json:"last_name" binding:"required"`
	Email       string            `json:"email,omitempty" binding:"omitempty,email"`
	Phone       string            `json:"phone,omitempty"`
	DateOfBirth *string           `json:"date_of_birth,omitempty"`
	CustomData  map[string]string `json:"custom_data,omitempty"`
}

// CreateBookingRequestBody carries the whole wizard result. The server
// replays it through the journey state machine so every step guard is
// enforced again regardless of what the client claims it validated.
type CreateBookingRequestBody struct {
	PricingID       *string                `json:"pricing,omitempty"`
	Qty             int                    `json:"qty,omitempty"`
	Sections        []SectionSelectionItem `json:"sections,omitempty"`
	Contact         BookingContact         `json:"contact" binding:"required"`
	Participants    []BookingParticipant   `json:"participants" binding:"required,min=1"`
	DiscountCode    string                 `json:"discount_code,omitempty"`
	AgreedToTerms   bool                   `json:"agreed_to_terms"`
	ResumeBookingID *uint                  `json:"resume_booking_id,omitempty"`
}

type ApplyDiscountCodeRequestBody struct {
	Code   string  `json:"code" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
	Qty    int     `json:"qty" binding:"required,min=1"`
}

type ResumeBookingURIParams struct {
	ID   uint `uri:"id" binding:"required"`
	Step int  `form:"step"`
}

type Claims struct {
	Username    string          `json:"username"`
	Role        string          `json:"role"`
	Membership  MembershipClass `json:"membership,omitempty"`
	Permissions []string        `json:"permissions"`
	jwt.RegisteredClaims
}
