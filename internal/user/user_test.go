package user

import "testing"

func TestRoleAtLeast(t *testing.T) {
	cases := []struct {
		role Role
		min  Role
		want bool
	}{
		{RoleUser, RoleUser, true},
		{RoleUser, RoleAdmin, false},
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleSuperadmin, false},
		{RoleSuperadmin, RoleAdmin, true},
		{RoleSuperadmin, RoleSuperadmin, true},
		{Role("bogus"), RoleUser, false},
	}
	for _, c := range cases {
		if got := c.role.AtLeast(c.min); got != c.want {
			t.Fatalf("AtLeast(%s, %s): expected %v, got %v", c.role, c.min, c.want, got)
		}
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleAdmin, RoleSuperadmin} {
		if !r.Valid() {
			t.Fatalf("expected %s valid", r)
		}
	}
	if Role("manager").Valid() {
		t.Fatalf("expected manager invalid")
	}
}
