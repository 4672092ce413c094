package service

import "time"

// LogFilter supports alert log filtering by time range and kind.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Kind string    // "", "warning", "emergency", "prediction", "emergency_call"
}

// EmergencyCall is the information relayed to emergency services.
type EmergencyCall struct {
	User        string    `json:"user"`
	Location    string    `json:"location"`
	Time        time.Time `json:"time"`
	HeartRate   int       `json:"heart_rate"`
	BloodOxygen int       `json:"blood_oxygen"`
	Status      string    `json:"status"`
}

// Scenario is a named pair of simulated vitals.
type Scenario struct {
	Name        string
	Description string
	HeartRate   float64
	BloodOxygen float64
}

// Scenarios are the canned vitals that can be injected from the UI.
var Scenarios = map[string]Scenario{
	"normal":   {Name: "normal", Description: "normal vital signs", HeartRate: 75, BloodOxygen: 98},
	"low_hr":   {Name: "low_hr", Description: "low heart rate", HeartRate: 45, BloodOxygen: 98},
	"low_o2":   {Name: "low_o2", Description: "low blood oxygen", HeartRate: 75, BloodOxygen: 88},
	"critical": {Name: "critical", Description: "critical condition", HeartRate: 40, BloodOxygen: 85},
}
