package cli

import "testing"

func TestDisplayVersion(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "-"},
		{"1.2.3", "1.2.3"},
		{"v1.2.3", "1.2.3"},
		{"1.2", "1.2.0"},
		{"0.4.1-beta.2", "0.4.1-beta.2"},
		{"next", "next"},
		{"not a version", "not a version"},
	}

	for _, tt := range tests {
		if got := displayVersion(tt.raw); got != tt.want {
			t.Errorf("displayVersion(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
