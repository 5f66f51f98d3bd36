package models

import (
	"ebw/src/types"
	"time"
)

type Discount struct {
	ID         uint                    `gorm:"primarykey" json:"id"`
	EventID    uint                    `json:"event_id,omitempty"`
	Name       string                  `json:"name,omitempty"`
	Code       *string                 `gorm:"uniqueIndex" json:"code,omitempty"`
	RuleType   string                  `json:"rule_type,omitempty"`
	ValueType  types.DiscountValueType `gorm:"default:'fixed'" json:"value_type,omitempty"`
	Value      float64                 `json:"value"`
	UsageLimit *uint                   `json:"usage_limit,omitempty"`
	UsageCount uint                    `json:"usage_count"`
	ExpiresAt  *time.Time              `json:"expires_at,omitempty"`
	Active     bool                    `gorm:"default:true" json:"active"`

	Event *Event `gorm:"foreignKey:event_id" json:"-"`

	types.Timestamps
}
