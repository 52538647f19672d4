package model

import (
	"fmt"
	"time"
)

type StaffRole string

const (
	RoleAdmin   StaffRole = "Admin"
	RoleBarista StaffRole = "Barista"
	RoleManager StaffRole = "Manager"
)

func (r StaffRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleBarista, RoleManager:
		return true
	default:
		return false
	}
}

func ParseStaffRole(s string) (StaffRole, error) {
	r := StaffRole(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown staff role %q", s)
	}
	return r, nil
}

type Staff struct {
	ID          string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name        string     `gorm:"not null;type:varchar(255)" json:"name"`
	Role        StaffRole  `gorm:"not null;type:varchar(16)" json:"role"`
	IsClockedIn bool       `gorm:"not null;default:false" json:"isClockedIn"`
	LastClockIn *time.Time `json:"lastClockIn,omitempty"`
	BaseModel
}

func (Staff) TableName() string {
	return "staff"
}
