package models

import "time"

type Admin struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AccountID uint    `gorm:"uniqueIndex" json:"account_id"`
	Account   Account `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"account"`

	FullName string `gorm:"size:100;not null" json:"fullname"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
