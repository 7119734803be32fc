package utils

import "testing"

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		origin  string
		allowed bool
	}{
		{"http://localhost", true},
		{"http://localhost:8585", true},
		{"https://localhost:3000", true},

		{"http://192.168.1.10", true},
		{"http://10.0.0.1:8585", true},
		{"http://172.16.0.1", true},
		{"http://127.0.0.1:3000", true},
		{"http://169.254.1.1", true},

		{"http://shelf.local", true},
		{"http://shelf.local:8585", true},
		{"http://mediaserver:8585", true},

		{"http://example.com", false},
		{"https://evil.com", false},
		{"http://api.watchmode.com.evil.com", false},
		{"http://8.8.8.8", false},
		{"http://1.1.1.1", false},

		{"", false},
		{"not-a-url", false},
	}

	for _, tt := range tests {
		if got := IsAllowedOrigin(tt.origin); got != tt.allowed {
			t.Errorf("IsAllowedOrigin(%q) = %v, want %v", tt.origin, got, tt.allowed)
		}
	}
}
