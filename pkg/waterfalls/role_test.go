package waterfalls

import "testing"

func TestRoleString(t *testing.T) {
	if RoleMain.String() != "main" || RoleChild.String() != "child" {
		t.Errorf("Role strings: %s, %s", RoleMain, RoleChild)
	}
}

func TestDetectRoleEnvOverride(t *testing.T) {
	t.Setenv("WATERFALLS_ROLE", "child")
	if got := detectRole(); got != RoleChild {
		t.Errorf("WATERFALLS_ROLE=child detected as %s", got)
	}

	t.Setenv("WATERFALLS_ROLE", "main")
	if got := detectRole(); got != RoleMain {
		t.Errorf("WATERFALLS_ROLE=main detected as %s", got)
	}
}

func TestSetRoleWinsOverDetection(t *testing.T) {
	t.Cleanup(func() { SetRole(RoleMain) })

	SetRole(RoleChild)
	if got := CurrentRole(); got != RoleChild {
		t.Errorf("CurrentRole after SetRole(RoleChild): %s", got)
	}
}
