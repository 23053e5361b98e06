package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses a duration string supporting multiple formats:
//   - Go duration: "2h", "30m", "1h30m", "90s"
//   - HH:MM:SS format: "02:00:00", "2:30:00", "00:30:00"
//   - H:MM format: "2:30" (interpreted as hours:minutes)
//   - D-HH:MM:SS format: "2-12:00:00" (SLURM day form)
//
// The duration must be positive: a zero or negative runtime would
// render a useless time directive instead of failing validation.
func ParseDuration(s string) (time.Duration, error) {
	orig := s
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration string")
	}

	// D-HH:MM:SS form: split the day prefix off first
	var days int
	if idx := strings.Index(s, "-"); idx > 0 && strings.Contains(s, ":") {
		d, err := strconv.Atoi(s[:idx])
		if err != nil || d < 0 {
			return 0, fmt.Errorf("invalid days: %s", s[:idx])
		}
		days = d
		s = s[idx+1:]
	}

	// HH:MM:SS or HH:MM
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		switch len(parts) {
		case 2:
			// H:MM or HH:MM format (hours:minutes)
			hours, err := strconv.Atoi(parts[0])
			if err != nil {
				return 0, fmt.Errorf("invalid hours: %s", parts[0])
			}
			minutes, err := strconv.Atoi(parts[1])
			if err != nil {
				return 0, fmt.Errorf("invalid minutes: %s", parts[1])
			}
			return positiveDuration(orig, time.Duration(days)*24*time.Hour+
				time.Duration(hours)*time.Hour+
				time.Duration(minutes)*time.Minute)
		case 3:
			// HH:MM:SS format
			hours, err := strconv.Atoi(parts[0])
			if err != nil {
				return 0, fmt.Errorf("invalid hours: %s", parts[0])
			}
			minutes, err := strconv.Atoi(parts[1])
			if err != nil {
				return 0, fmt.Errorf("invalid minutes: %s", parts[1])
			}
			seconds, err := strconv.Atoi(parts[2])
			if err != nil {
				return 0, fmt.Errorf("invalid seconds: %s", parts[2])
			}
			return positiveDuration(orig, time.Duration(days)*24*time.Hour+
				time.Duration(hours)*time.Hour+
				time.Duration(minutes)*time.Minute+
				time.Duration(seconds)*time.Second)
		default:
			return 0, fmt.Errorf("invalid time format: %s (use HH:MM:SS or HH:MM)", s)
		}
	}

	if days > 0 {
		return 0, fmt.Errorf("invalid time format: %d-%s (use D-HH:MM:SS)", days, s)
	}

	// Go duration format (2h, 30m, 1h30m, etc.)
	dur, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration: %s (use '2h', '30m', '1h30m', or '02:00:00')", s)
	}
	return positiveDuration(orig, dur)
}

// positiveDuration rejects zero and negative results after parsing.
func positiveDuration(spec string, d time.Duration) (time.Duration, error) {
	if d <= 0 {
		return 0, fmt.Errorf("runtime must be positive: %s", strings.TrimSpace(spec))
	}
	return d, nil
}

// FormatRuntime renders a duration as a SLURM time spec:
// "HH:MM:SS", or "D-HH:MM:SS" when the duration spans full days.
func FormatRuntime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if days > 0 {
		return fmt.Sprintf("%d-%02d:%02d:%02d", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
