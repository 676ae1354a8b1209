package model

import "time"

// ErrorReport is a persisted diagnostic report: one row per handled
// exception event, stored for auditing and post-mortem inspection.
type ErrorReport struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	// Where the error happened
	Service string `gorm:"size:100;index" json:"service"` // e.g. "prettytrace"
	Mode    string `gorm:"size:30" json:"mode"`           // call | function_wrap | recover

	// Error information
	Message string `gorm:"type:text" json:"message"` // err.Error()
	Report  string `gorm:"type:text" json:"report"`  // full rendered report

	// Severity level
	Level string `gorm:"size:20;index" json:"level"` // debug | info | warn | error | fatal

	// Audit info
	CreatedAt time.Time `json:"created_at"`
}
