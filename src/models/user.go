package models

import (
	"uems/src/types"
)

type User struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`

	Tickets       []Ticket         `gorm:"foreignKey:holder_id" json:"tickets,omitempty"`
	Registrations []Registration   `gorm:"foreignKey:holder_id" json:"registrations,omitempty"`
	Subscriptions []Subscription   `gorm:"foreignKey:user_id" json:"subscriptions,omitempty"`
	Listings      []ServiceListing `gorm:"foreignKey:owner_id" json:"listings,omitempty"`

	types.Timestamps
}
