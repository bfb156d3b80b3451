package main

import "testing"

func TestWithPresetExt(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ocean", "ocean.yaml"},
		{"ocean.yaml", "ocean.yaml"},
		{"ocean.yml", "ocean.yml"},
		{"/tmp/presets/calm", "/tmp/presets/calm.yaml"},
	}
	for _, tt := range tests {
		if got := withPresetExt(tt.in); got != tt.want {
			t.Errorf("withPresetExt(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
