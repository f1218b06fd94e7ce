package gitutil

import "testing"

func TestIsAuthError(t *testing.T) {
	cases := map[string]bool{
		"403 forbidden":                  true,
		"bad credentials: unauthorized":  true,
		"GH_TOKEN not set":               true,
		"not logged into github.com":     true,
		"repository not found":           false,
		"connection reset by peer":       false,
	}
	for msg, want := range cases {
		if got := IsAuthError(msg); got != want {
			t.Errorf("IsAuthError(%q) = %v, want %v", msg, got, want)
		}
	}
}

func TestIsHexString(t *testing.T) {
	cases := map[string]bool{
		"a1b2c3d4":      true,
		"DEADBEEF":      true,
		"":               false,
		"g1b2c3":         false,
		"not-a-sha":      false,
	}
	for s, want := range cases {
		if got := IsHexString(s); got != want {
			t.Errorf("IsHexString(%q) = %v, want %v", s, got, want)
		}
	}
}
