package models

import "time"

type Feedback struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AccountID uint    `gorm:"index" json:"account_id"`
	Account   Account `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"account"`

	Username string `gorm:"size:50" json:"username"`
	Stars    int    `gorm:"not null" json:"stars"`
	Message  string `gorm:"size:1000;not null" json:"message"`
	Reply    string `gorm:"size:1000" json:"reply"`
	Resolved bool   `gorm:"default:false" json:"resolved"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
