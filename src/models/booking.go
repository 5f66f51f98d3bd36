package models

import (
	"ebw/src/types"
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID                uint                        `gorm:"primarykey" json:"id"`
	EventID           uint                        `json:"event_id,omitempty"`
	UserID            uint                        `json:"user_id,omitempty"`
	Status            types.BookingClassification `gorm:"default:'pending_payment'" json:"status,omitempty"`
	Qty               int                         `json:"qty,omitempty"`
	BaseAmount        float64                     `json:"base_amount"`
	DiscountAmount    float64                     `json:"discount_amount"`
	TotalAmount       float64                     `json:"total_amount"`
	Currency          string                      `gorm:"default:'usd'" json:"currency,omitempty"`
	PricingID         *uint                       `json:"pricing_id,omitempty"`
	FirstName         string                      `json:"first_name,omitempty"`
	MiddleName        string                      `json:"middle_name,omitempty"`
	LastName          string                      `json:"last_name,omitempty"`
	Email             string                      `json:"email,omitempty"`
	Phone             string                      `json:"phone,omitempty"`
	CheckoutSessionId *string                     `json:"-"`
	TransactionID     *uuid.UUID                  `gorm:"type:uuid" json:"transaction_id,omitempty"`
	ExpiresAt         *time.Time                  `json:"expires_at,omitempty"`
	Metadata          *types.Metadata             `gorm:"type:jsonb" json:"metadata,omitempty"`

	Event                *Event                `gorm:"foreignKey:event_id" json:"event,omitempty"`
	User                 *User                 `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Pricing              *EventPricing         `gorm:"foreignKey:pricing_id" json:"pricing,omitempty"`
	SectionBookings      []SectionBooking      `gorm:"foreignKey:booking_id" json:"section_bookings,omitempty"`
	Participants         []Participant         `gorm:"foreignKey:booking_id" json:"participants,omitempty"`
	DiscountApplications []DiscountApplication `gorm:"foreignKey:booking_id" json:"discount_applications,omitempty"`
	Transaction          *Transaction          `gorm:"foreignKey:transaction_id" json:"transaction,omitempty"`

	types.Timestamps
}

type SectionBooking struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	BookingID uint    `json:"booking_id,omitempty"`
	SectionID uint    `json:"section_id,omitempty"`
	PricingID uint    `json:"pricing_id,omitempty"`
	Qty       int     `json:"qty,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`

	Section *EventSection   `gorm:"foreignKey:section_id" json:"section,omitempty"`
	Pricing *SectionPricing `gorm:"foreignKey:pricing_id" json:"pricing,omitempty"`

	types.Timestamps
}

type Participant struct {
	ID          uint        `gorm:"primarykey" json:"id"`
	BookingID   uint        `json:"booking_id,omitempty"`
	Position    int         `json:"position"`
	FirstName   string      `json:"first_name,omitempty"`
	MiddleName  string      `json:"middle_name,omitempty"`
	LastName    string      `json:"last_name,omitempty"`
	Email       string      `json:"email,omitempty"`
	Phone       string      `json:"phone,omitempty"`
	DateOfBirth *time.Time  `json:"date_of_birth,omitempty"`
	CustomData  types.JSONB `gorm:"type:jsonb" json:"custom_data,omitempty"`

	types.Timestamps
}

type DiscountApplication struct {
	ID         uint                 `gorm:"primarykey" json:"id"`
	BookingID  uint                 `json:"booking_id,omitempty"`
	DiscountID *uint                `json:"discount_id,omitempty"`
	Source     types.DiscountSource `json:"source,omitempty"`
	Name       string               `json:"name,omitempty"`
	AmountOff  float64              `json:"amount_off"`

	Discount *Discount `gorm:"foreignKey:discount_id" json:"discount,omitempty"`

	types.Timestamps
}

type Transaction struct {
	ID                uuid.UUID               `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	Amount            float64                 `json:"amount"`
	AmountPaid        float64                 `json:"amount_paid"`
	Currency          string                  `json:"currency,omitempty"`
	Status            types.TransactionStatus `gorm:"default:'pending'" json:"status,omitempty"`
	CheckoutSessionId *string                 `json:"-"`
	ReferenceID       string                  `json:"reference_id,omitempty"`
	Metadata          *types.Metadata         `gorm:"type:jsonb" json:"-"`

	types.Timestamps
}
