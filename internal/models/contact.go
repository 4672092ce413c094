package models

import "time"

// Contact is an emergency contact notified on emergency alerts.
type Contact struct {
	Name       string `json:"name" mapstructure:"name"`
	Phone      string `json:"phone" mapstructure:"phone"`
	DisplayRef string `json:"display_ref" mapstructure:"display_ref"`
	// Role is "doctor" or "family"; it selects the notification greeting.
	Role string `json:"role,omitempty" mapstructure:"role"`
}

// NotificationStatus is the transient delivery status shown next to a contact.
type NotificationStatus string

const (
	NotificationIdle NotificationStatus = "idle"
	NotificationSent NotificationStatus = "sent"
)

// Notification is the simulated SMS payload handed to a sender.
type Notification struct {
	AlertID     string    `json:"alert_id"`
	ContactName string    `json:"contact_name"`
	Phone       string    `json:"phone"`
	Subject     string    `json:"subject"` // who the message is about: "patient" or "relative"
	Message     string    `json:"message"`
	HeartRate   float64   `json:"heart_rate"`
	BloodOxygen float64   `json:"blood_oxygen"`
	Location    string    `json:"location"`
	SentAt      time.Time `json:"sent_at"`
}
