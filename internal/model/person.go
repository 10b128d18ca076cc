package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is the institutional role of a person.
type Role string

const (
	RoleWatchman       Role = "WATCHMAN"
	RoleAdmin          Role = "ADMIN"
	RoleDoctor         Role = "DOCTOR"
	RoleNurse          Role = "NURSE"
	RoleSecretary      Role = "SECRETARY"
	RoleBoss           Role = "BOSS"
	RoleMaintenanceMan Role = "MAINTENANCE_MAN"
)

// ParseRole converts the stored text form into a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleWatchman, RoleAdmin, RoleDoctor, RoleNurse, RoleSecretary, RoleBoss, RoleMaintenanceMan:
		return r, nil
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

// Person represents someone who can request or be responsible for
// equipment entering the premises.
type Person struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullname"`
	Document string    `json:"document"`
	Role     Role      `json:"role"`
}
