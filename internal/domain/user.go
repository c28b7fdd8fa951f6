package domain

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Common validation errors
var (
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrUsernameTooLong     = errors.New("username must be at most 250 characters long")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

const (
	maxUsernameLength = 250
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes
	maxPasswordLength = 72
)

// Designation is the role a user holds.
type Designation string

// Known designations.
const (
	DesignationAdmin    Designation = "Admin"
	DesignationManager  Designation = "Manager"
	DesignationEmployee Designation = "Employee"
)

// Designations returns every known designation in display order.
func Designations() []Designation {
	return []Designation{DesignationAdmin, DesignationManager, DesignationEmployee}
}

// ParseDesignation converts a stored or submitted value into a Designation.
// Matching is case-insensitive; anything else is ErrInvalidDesignation.
func ParseDesignation(s string) (Designation, error) {
	for _, d := range Designations() {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, nil
		}
	}
	return "", ErrInvalidDesignation
}

// Valid reports whether d is one of the known designations.
func (d Designation) Valid() bool {
	switch d {
	case DesignationAdmin, DesignationManager, DesignationEmployee:
		return true
	default:
		return false
	}
}

// Department groups users; managers assign tasks within their own department.
type Department int

var departments = map[Department]string{
	0: "Administration",
	1: "Quality Assurance",
	2: "Network Security",
	3: "Remote Browser Isolation",
}

// DepartmentInfo pairs a department id with its display name.
type DepartmentInfo struct {
	ID   Department `json:"id"`
	Name string     `json:"name"`
}

// Departments returns the department catalogue ordered by id.
func Departments() []DepartmentInfo {
	out := make([]DepartmentInfo, 0, len(departments))
	for id, name := range departments {
		out = append(out, DepartmentInfo{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IsKnown reports whether the department exists in the catalogue.
func (d Department) IsKnown() bool {
	_, ok := departments[d]
	return ok
}

// Name returns the display name, or "" for an unknown department.
func (d Department) Name() string {
	return departments[d]
}

// User represents a registered user of the task tracker.
type User struct {
	ID             int64       `json:"id"`
	Username       string      `json:"username"`
	Password       string      `json:"-"` // Plaintext password, only set during registration
	HashedPassword string      `json:"-"`
	Designation    Designation `json:"designation"`
	Department     Department  `json:"department"`
	CreatedAt      time.Time   `json:"created_at"`
}

// NewUser creates a new User ready to be hashed and stored.
// The ID is assigned by the store.
func NewUser(username, password string, designation Designation, department Department) (*User, error) {
	user := &User{
		Username:    strings.TrimSpace(username),
		Password:    password,
		Designation: designation,
		Department:  department,
		CreatedAt:   time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.Username == "" {
		return NewValidationError("username", "cannot be empty", ErrEmptyUsername)
	}
	if len(u.Username) > maxUsernameLength {
		return NewValidationError("username", "is too long", ErrUsernameTooLong)
	}

	if !u.Designation.Valid() {
		return NewValidationError("designation", "must be Admin, Manager or Employee", ErrInvalidDesignation)
	}
	if !u.Department.IsKnown() {
		return NewValidationError("department", "is not a known department", ErrInvalidDepartment)
	}

	if u.Password != "" {
		if len(u.Password) < minPasswordLength {
			return NewValidationError("password", "is too short", ErrPasswordTooShort)
		}
		if len(u.Password) > maxPasswordLength {
			return NewValidationError("password", "is too long", ErrPasswordTooLong)
		}
	} else if u.HashedPassword == "" {
		return NewValidationError("password", "cannot be empty", ErrEmptyPassword)
	}

	return nil
}

// IsManager reports whether the user holds the Manager designation.
func (u *User) IsManager() bool {
	return u.Designation == DesignationManager
}

// CanAssignTo reports whether u, as a manager, may assign work to other.
// Candidates share the manager's department and are not the manager.
func (u *User) CanAssignTo(other *User) bool {
	return u.IsManager() && other != nil && other.ID != u.ID && other.Department == u.Department
}
