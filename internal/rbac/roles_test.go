package rbac

import (
	"strings"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"ADMIN", RoleAdmin, false},
		{"SELLER", RoleSeller, false},
		{"CUSTOMER", RoleCustomer, false},
		{"admin", "", true},
		{"", "", true},
		{"ROOT", "", true},
	}

	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseRole(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRole(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsValidRole(t *testing.T) {
	for _, r := range []string{"ADMIN", "SELLER", "CUSTOMER"} {
		if !IsValidRole(r) {
			t.Errorf("expected %q to be valid", r)
		}
	}
	for _, r := range []string{"", "seller", "MANAGER"} {
		if IsValidRole(r) {
			t.Errorf("expected %q to be invalid", r)
		}
	}
}

func TestValidateRoles(t *testing.T) {
	if err := ValidateRoles([]string{"ADMIN", "SELLER"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := ValidateRoles([]string{"SELLER", "MANAGER"})
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
	if !strings.Contains(err.Error(), "MANAGER") {
		t.Fatalf("error should name the offending role, got %v", err)
	}
	if err := ValidateRoles(nil); err != nil {
		t.Fatalf("empty role list should validate, got %v", err)
	}
}
