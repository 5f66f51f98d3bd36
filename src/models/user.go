package models

import (
	"ebw/src/types"
)

type User struct {
	ID            uint                  `gorm:"primarykey" json:"id"`
	Name          string                `json:"name,omitempty"`
	Email         string                `json:"email,omitempty"`
	Role          string                `json:"role,omitempty"`
	Membership    types.MembershipClass `gorm:"default:'non_member'" json:"membership,omitempty"`
	EmailVerified bool                  `json:"email_verified,omitempty"`
	Metadata      *types.Metadata       `gorm:"type:jsonb" json:"-"`

	Bookings []Booking `gorm:"foreignKey:user_id" json:"bookings,omitempty"`

	types.Timestamps
}

// BannedAttendee blocks a participant email from registering for an
// organizer's events. Checked during the participants step.
type BannedAttendee struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	EventID uint   `json:"event_id,omitempty"`
	Email   string `gorm:"index" json:"email,omitempty"`
	Reason  string `json:"-"`

	types.Timestamps
}

type MailingListSubscriber struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	EventID uint   `json:"event_id,omitempty"`
	Email   string `gorm:"index:idx_subscriber_event_email,unique" json:"email,omitempty"`
	Name    string `json:"name,omitempty"`

	types.Timestamps
}
