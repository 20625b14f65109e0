package user

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Role determines which parts of the system a user may operate.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleManager   Role = "MANAGER"
	RoleSecretary Role = "SECRETARY"
	RoleSales     Role = "SALES"
	RoleDriver    Role = "DRIVER"
)

// ValidRole returns true when r is a recognised role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSecretary, RoleSales, RoleDriver:
		return true
	}
	return false
}

// User represents a staff account in the system.
type User struct {
	ID           uuid.UUID       `json:"id"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Name         string          `json:"name"`
	Role         Role            `json:"role"`
	Settings     json.RawMessage `json:"settings,omitempty"` // currency, notification prefs
	SupplierIDs  []uuid.UUID     `json:"supplier_ids,omitempty"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
