package models

import "time"

// Notification kinds.
const (
	KindAppointmentConfirmation = "appointment_confirmation"
	KindAppointmentGeneric      = "appointment_generic"
)

// Notification statuses.
const (
	NotificationPending = "pending"
	NotificationSending = "sending"
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
)

// Notification is an outbox row written in the same transaction as the
// booking it confirms.
type Notification struct {
	ID            string `gorm:"primaryKey;type:varchar(36)"`
	Kind          string `gorm:"not null"`
	Recipient     string `gorm:"not null"`
	PatientName   string `gorm:"index"`
	DoctorName    string
	ClinicName    string
	Address       string
	DoctorProfile string
	Schedule      string
	Status        string `gorm:"not null;index"`
	Attempts      int
	LastError     string
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
	SentAt        *time.Time
}

// HasDoctor reports whether the notification names a consulting doctor.
func (n *Notification) HasDoctor() bool {
	return n.DoctorName != ""
}
