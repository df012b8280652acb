package handlers

import "testing"

func TestOriginAllowed(t *testing.T) {
	cases := []struct {
		name            string
		allowed, origin string
		want            bool
	}{
		{"unconfigured allows any", "", "https://evil.example", true},
		{"unconfigured allows empty", "", "", true},
		{"exact match", "https://app.example", "https://app.example", true},
		{"mismatch rejected", "https://app.example", "https://evil.example", false},
		{"empty origin rejected when configured", "https://app.example", "", false},
		{"scheme matters", "https://app.example", "http://app.example", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := originAllowed(tc.allowed, tc.origin); got != tc.want {
				t.Fatalf("originAllowed(%q, %q) = %v; want %v", tc.allowed, tc.origin, got, tc.want)
			}
		})
	}
}
