package models

import "time"

type Staff struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AccountID uint    `gorm:"uniqueIndex" json:"account_id"`
	Account   Account `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"account"`

	FullName string `gorm:"size:100;not null" json:"fullname"`

	// Barber or TattooArtist, mirrors the account role.
	Specialization string `gorm:"size:20;not null" json:"specialization"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the name used in handler joins; gorm's pluralizer is
// ambiguous for "staff".
func (Staff) TableName() string { return "staff" }
