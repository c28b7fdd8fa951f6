package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("  alice ", "correct-horse", DesignationManager, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.Username != "alice" {
		t.Errorf("Expected trimmed username alice, got %q", user.Username)
	}
	if user.Password != "correct-horse" {
		t.Errorf("Expected plaintext password to be kept for hashing")
	}
	if user.ID != 0 {
		t.Errorf("Expected ID to be assigned by the store, got %d", user.ID)
	}
	if user.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}
}

func TestUserValidate(t *testing.T) {
	base := func() User {
		return User{
			Username:    "bob",
			Password:    "password123",
			Designation: DesignationEmployee,
			Department:  2,
		}
	}

	tests := []struct {
		name    string
		mutate  func(u *User)
		wantErr error
	}{
		{"valid", func(u *User) {}, nil},
		{"empty username", func(u *User) { u.Username = "" }, ErrEmptyUsername},
		{"long username", func(u *User) { u.Username = strings.Repeat("x", 251) }, ErrUsernameTooLong},
		{"unknown designation", func(u *User) { u.Designation = "Intern" }, ErrInvalidDesignation},
		{"unknown department", func(u *User) { u.Department = 42 }, ErrInvalidDepartment},
		{"short password", func(u *User) { u.Password = "short" }, ErrPasswordTooShort},
		{"long password", func(u *User) { u.Password = strings.Repeat("p", 73) }, ErrPasswordTooLong},
		{"no password at all", func(u *User) { u.Password = "" }, ErrEmptyPassword},
		{"stored user with hash only", func(u *User) { u.Password = ""; u.HashedPassword = "$2a$hash" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := base()
			tt.mutate(&u)
			err := u.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Expected error to match ErrValidation, got %v", err)
			}
		})
	}
}

func TestParseDesignation(t *testing.T) {
	for _, in := range []string{"Admin", "manager", " EMPLOYEE "} {
		if _, err := ParseDesignation(in); err != nil {
			t.Errorf("ParseDesignation(%q) returned %v", in, err)
		}
	}

	d, _ := ParseDesignation("manager")
	if d != DesignationManager {
		t.Errorf("Expected canonical Manager, got %q", d)
	}

	for _, in := range []string{"", "Boss", "Managers"} {
		if _, err := ParseDesignation(in); !errors.Is(err, ErrInvalidDesignation) {
			t.Errorf("ParseDesignation(%q) = %v, want ErrInvalidDesignation", in, err)
		}
	}
}

func TestDepartments(t *testing.T) {
	deps := Departments()
	if len(deps) != 4 {
		t.Fatalf("Expected 4 departments, got %d", len(deps))
	}
	for i, d := range deps {
		if int(d.ID) != i {
			t.Errorf("Expected departments ordered by id, got %d at %d", d.ID, i)
		}
	}
	if Department(1).Name() != "Quality Assurance" {
		t.Errorf("Unexpected name for department 1: %q", Department(1).Name())
	}
	if Department(9).IsKnown() {
		t.Error("Department 9 should be unknown")
	}
}

func TestCanAssignTo(t *testing.T) {
	manager := &User{ID: 1, Designation: DesignationManager, Department: 1}
	sameDept := &User{ID: 2, Designation: DesignationEmployee, Department: 1}
	otherDept := &User{ID: 3, Designation: DesignationEmployee, Department: 2}
	employee := &User{ID: 4, Designation: DesignationEmployee, Department: 1}

	if !manager.CanAssignTo(sameDept) {
		t.Error("Manager should be able to assign within the department")
	}
	if manager.CanAssignTo(otherDept) {
		t.Error("Manager should not assign outside the department")
	}
	if manager.CanAssignTo(manager) {
		t.Error("Manager should not assign to themselves")
	}
	if employee.CanAssignTo(sameDept) {
		t.Error("Employees cannot assign tasks")
	}
	if manager.CanAssignTo(nil) {
		t.Error("nil assignee must be rejected")
	}
}
