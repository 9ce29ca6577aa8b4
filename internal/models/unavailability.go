package models

import "time"

// StaffUnavailability is either a staff-declared blocked slot or, when
// IsBooked is set, a slot consumed by a confirmed appointment. Cancellation
// clears Time so the slot becomes bookable again.
type StaffUnavailability struct {
	ID uint `gorm:"primaryKey" json:"id"`

	StaffID uint  `gorm:"index:idx_unavailability_staff_date" json:"staff_id"`
	Staff   Staff `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"staff"`

	Date string  `gorm:"size:10;index:idx_unavailability_staff_date" json:"date"`
	Time *string `gorm:"size:5" json:"time"`

	IsBooked bool `gorm:"default:false" json:"is_booked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
