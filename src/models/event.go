package models

import (
	"ebw/src/types"
	"time"
)

type Event struct {
	ID               uint              `gorm:"primarykey" json:"id"`
	Title            string            `json:"title,omitempty"`
	Name             string            `json:"name,omitempty"`
	About            *string           `json:"about,omitempty"`
	Location         string            `json:"location,omitempty"`
	StartsAt         time.Time         `json:"starts_at,omitempty"`
	EndsAt           time.Time         `json:"ends_at,omitempty"`
	EntryCloseAt     *time.Time        `json:"entry_close_at,omitempty"`
	Status           types.EventStatus `gorm:"default:'draft'" json:"status,omitempty"`
	Price            float64           `json:"price"`
	MaxAttendees     *uint             `json:"max_attendees,omitempty"`
	CurrentAttendees uint              `json:"current_attendees"`
	WhitelistEnabled bool              `json:"whitelist_enabled"`
	OrganizerID      uint              `json:"organizer,omitempty"`

	Sections   []EventSection `gorm:"foreignKey:event_id" json:"sections,omitempty"`
	Pricing    []EventPricing `gorm:"foreignKey:event_id" json:"pricing,omitempty"`
	FormFields []FormField    `gorm:"foreignKey:event_id" json:"form_fields,omitempty"`
	Organizer  User           `gorm:"foreignKey:organizer_id" json:"-"`

	types.Timestamps
}

// IsMultiSection decides which journey variant applies. A multi-section
// event ignores its own top-level price and attendee counters in favor
// of per-section accounting.
func (e *Event) IsMultiSection() bool {
	return len(e.Sections) > 0
}

type EventSection struct {
	ID               uint       `gorm:"primarykey" json:"id"`
	EventID          uint       `json:"event_id,omitempty"`
	Title            string     `json:"title,omitempty"`
	StartsAt         *time.Time `json:"starts_at,omitempty"`
	EndsAt           *time.Time `json:"ends_at,omitempty"`
	AvailableSeats   int        `json:"available_seats"`
	WhitelistEnabled bool       `json:"whitelist_enabled"`

	Pricing []SectionPricing `gorm:"foreignKey:section_id" json:"pricing,omitempty"`
	Event   *Event           `gorm:"foreignKey:event_id" json:"-"`

	types.Timestamps
}

type SectionPricing struct {
	ID               uint              `gorm:"primarykey" json:"id"`
	SectionID        uint              `json:"section_id,omitempty"`
	Name             string            `json:"name,omitempty"`
	Price            float64           `json:"price"`
	PricingType      types.PricingType `gorm:"default:'regular'" json:"pricing_type,omitempty"`
	AvailableTickets int               `json:"available_tickets"`

	Section *EventSection `gorm:"foreignKey:section_id" json:"-"`

	types.Timestamps
}

// EventPricing is the single-event equivalent of SectionPricing, scoped
// to the whole event and filtered by buyer membership.
type EventPricing struct {
	ID               uint                  `gorm:"primarykey" json:"id"`
	EventID          uint                  `json:"event_id,omitempty"`
	Name             string                `json:"name,omitempty"`
	Price            float64               `json:"price"`
	PricingType      types.PricingType     `gorm:"default:'regular'" json:"pricing_type,omitempty"`
	AvailableTickets int                   `json:"available_tickets"`
	Membership       types.MembershipClass `gorm:"default:'non_member'" json:"membership,omitempty"`

	Event *Event `gorm:"foreignKey:event_id" json:"-"`

	types.Timestamps
}

// FormField is an organizer-defined extra field collected per participant.
// Options holds either plain strings or {value,label} objects; the raw
// form is only kept at this storage boundary.
type FormField struct {
	ID       uint        `gorm:"primarykey" json:"id"`
	EventID  uint        `json:"event_id,omitempty"`
	Name     string      `json:"name,omitempty"`
	Label    string      `json:"label,omitempty"`
	Kind     string      `gorm:"default:'text'" json:"kind,omitempty"`
	Required bool        `json:"required"`
	Options  types.JSONB `gorm:"type:jsonb" json:"options,omitempty"`

	types.Timestamps
}
