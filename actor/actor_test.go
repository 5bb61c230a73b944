package actor

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Role
		wantErr bool
	}{
		{"clinician", "clinician", RoleClinician, false},
		{"nurse", "nurse", RoleNurse, false},
		{"resident", "resident", RoleResident, false},
		{"admin", "admin", RoleAdmin, false},
		{"unknown", "superuser", "", true},
		{"empty", "", "", true},
		{"case sensitive", "Clinician", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownRole) {
					t.Errorf("ParseRole(%q) error = %v, want ErrUnknownRole", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRole(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRole_Valid(t *testing.T) {
	if !RoleClinician.Valid() {
		t.Error("RoleClinician should be valid")
	}
	if Role("intruder").Valid() {
		t.Error("unknown role should not be valid")
	}
}

func TestIdentity_IsZero(t *testing.T) {
	if !(Identity{}).IsZero() {
		t.Error("empty identity should be zero")
	}
	if (Identity{ID: "u1", Role: RoleNurse}).IsZero() {
		t.Error("populated identity should not be zero")
	}
}
