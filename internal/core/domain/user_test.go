package domain

import "testing"

func TestNormalizeRole(t *testing.T) {
	cases := []struct {
		raw  string
		want Role
	}{
		{"", RoleCitizen},
		{"citizen", RoleCitizen},
		{"staff", RoleStaff},
		{"admin", RoleAdmin},
		{"superuser", RoleUnknown},
		{"Admin", RoleUnknown},
	}
	for _, tc := range cases {
		if got := NormalizeRole(tc.raw); got != tc.want {
			t.Errorf("NormalizeRole(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestRole_Known(t *testing.T) {
	for _, r := range []Role{RoleCitizen, RoleStaff, RoleAdmin} {
		if !r.Known() {
			t.Errorf("%s should be known", r)
		}
	}
	if RoleUnknown.Known() {
		t.Errorf("unknown role must never be known")
	}
	if Role("guest").Known() {
		t.Errorf("arbitrary role must never be known")
	}
}
