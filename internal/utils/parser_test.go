package utils

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"go duration hours", "2h", 2 * time.Hour, false},
		{"go duration mixed", "1h30m", 90 * time.Minute, false},
		{"go duration seconds", "90s", 90 * time.Second, false},
		{"colon full", "02:00:00", 2 * time.Hour, false},
		{"colon unpadded", "2:30:00", 2*time.Hour + 30*time.Minute, false},
		{"colon hours minutes", "2:30", 2*time.Hour + 30*time.Minute, false},
		{"colon over a day", "36:00:00", 36 * time.Hour, false},
		{"day form", "2-12:00:00", 60 * time.Hour, false},
		{"day form short", "1-00:30", 24*time.Hour + 30*time.Minute, false},
		{"empty", "", 0, true},
		{"garbage", "soon", 0, true},
		{"negative go duration", "-2h", 0, true},
		{"negative colon form", "-2:30", 0, true},
		{"zero go duration", "0s", 0, true},
		{"zero colon form", "00:00:00", 0, true},
		{"bad day prefix", "x-12:00:00", 0, true},
		{"too many colons", "1:2:3:4", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDuration(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDuration(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatRuntime(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{2 * time.Hour, "02:00:00"},
		{30 * time.Minute, "00:30:00"},
		{2*time.Hour + 30*time.Minute, "02:30:00"},
		{36 * time.Hour, "1-12:00:00"},
		{60 * time.Hour, "2-12:00:00"},
		{24 * time.Hour, "1-00:00:00"},
		{90 * time.Second, "00:01:30"},
		{0, "00:00:00"},
		{23*time.Hour + 59*time.Minute, "23:59:00"},
		{24*time.Hour + 30*time.Minute, "1-00:30:00"},
	}

	for _, tt := range tests {
		if got := FormatRuntime(tt.input); got != tt.want {
			t.Errorf("FormatRuntime(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseDurationFormatRuntimeRoundTrip(t *testing.T) {
	for _, spec := range []string{"02:00:00", "00:30:00", "1-12:00:00", "2-12:00:00"} {
		d, err := ParseDuration(spec)
		if err != nil {
			t.Fatalf("ParseDuration(%q) unexpected error: %v", spec, err)
		}
		if got := FormatRuntime(d); got != spec {
			t.Errorf("round trip of %q produced %q", spec, got)
		}
	}
}
