package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint   `gorm:"index" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	StaffID uint  `gorm:"index" json:"staff_id"`
	Staff   Staff `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"staff"`

	// Denormalized for listing and email copy, same as the booking form.
	ClientName string `gorm:"size:100" json:"client_name"`
	StaffName  string `gorm:"size:100" json:"staff_name"`

	Service string `gorm:"size:20;not null" json:"service"`

	// Date is ISO "2006-01-02"; Time is the canonical 24h clock "15:04".
	// ISO strings keep equality and range filters portable across drivers.
	Date string `gorm:"size:10;index;not null" json:"date"`
	Time string `gorm:"size:5;not null" json:"time"`

	Remarks string `gorm:"size:255" json:"remarks"`
	Status  string `gorm:"size:20;default:'Pending'" json:"status"`

	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	ServiceHaircut = "haircut"
	ServiceTattoo  = "tattoo"
)
