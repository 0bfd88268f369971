package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Role is the closed set of account roles. The wire carries them as integers.
type Role int

const (
	RoleUnknown Role = iota
	RoleAdministrator
	RoleNutritionist
	RolePatient
)

// RoleFromWire translates the API's roles_id.
func RoleFromWire(id int) Role {
	switch id {
	case 1:
		return RoleAdministrator
	case 2:
		return RoleNutritionist
	case 3:
		return RolePatient
	default:
		return RoleUnknown
	}
}

// Wire returns the roles_id the API expects, or 0 for RoleUnknown.
func (r Role) Wire() int {
	switch r {
	case RoleAdministrator:
		return 1
	case RoleNutritionist:
		return 2
	case RolePatient:
		return 3
	default:
		return 0
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdministrator:
		return "administrator"
	case RoleNutritionist:
		return "nutritionist"
	case RolePatient:
		return "patient"
	default:
		return "unknown"
	}
}

// DisplayName is the catalog name shown to users.
func (r Role) DisplayName() string {
	switch r {
	case RoleAdministrator:
		return "Administrador"
	case RoleNutritionist:
		return "Nutricionista"
	case RolePatient:
		return "Paciente"
	default:
		return "Desconocido"
	}
}

func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Role) UnmarshalText(b []byte) error {
	v, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// UnmarshalJSON accepts the wire integer as well as a quoted name.
func (r *Role) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*r = RoleUnknown
		return nil
	}
	return r.UnmarshalText([]byte(s))
}

// ParseRole accepts the symbolic name (English or Spanish) or the wire integer.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if r := RoleFromWire(n); r != RoleUnknown {
			return r, nil
		}
		return RoleUnknown, fmt.Errorf("unknown role %q", s)
	}
	switch s {
	case "admin", "administrator", "administrador":
		return RoleAdministrator, nil
	case "nutritionist", "nutricionista":
		return RoleNutritionist, nil
	case "patient", "paciente":
		return RolePatient, nil
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

// User models an account as returned by the scheduling API.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// RoleOption is one entry of the role catalog.
type RoleOption struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Person is the optional profile extension of a user.
type Person struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Cedula    string `json:"cedula"`
	BirthDate Date   `json:"birth_date"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
}

// UnknownUser stands in for a user whose lookup failed.
func UnknownUser(id int64) User {
	return User{ID: id, Name: "Desconocido", Email: "-"}
}
