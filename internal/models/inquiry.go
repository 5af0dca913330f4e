package models

import "time"

// ExistingSystemChoices are the options for the existing-system question of the inquiry form.
// The first one is the default.
var ExistingSystemChoices = []string{ //nolint:gochecknoglobals // fixed enumeration
	"신규 제작",
	"기존 시스템 개선",
	"단순 유지보수",
}

// Inquiry is a normalized consultation request ready to be stored.
//
// The JSON field names match the remote inquiries table.
type Inquiry struct {
	ID                int64     `json:"-"`
	Company           string    `json:"company"`
	Name              string    `json:"name"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email"`
	VehicleType       string    `json:"vehicle_type"`
	HasExistingSystem string    `json:"has_existing_system"`
	Purpose           string    `json:"purpose"`
	CreatedAt         time.Time `json:"created_at"`
}
