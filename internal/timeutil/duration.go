package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParseSigned converts a signed duration string ("±HH:MM:SS", "±MM:SS" or
// "±SS") into seconds. The sign defaults to positive. A component that does
// not start with digits counts as 0; malformed input never fails.
// ok is false only for empty or blank input.
func ParseSigned(s string) (seconds int64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	sign := int64(1)
	if strings.HasPrefix(s, "-") {
		sign = -1
	}
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}

	raw := strings.Split(s, ":")
	parts := make([]int64, len(raw))
	for i, p := range raw {
		parts[i] = leadingInt(p)
	}

	switch len(parts) {
	case 3:
		return sign * (parts[0]*3600 + parts[1]*60 + parts[2]), true
	case 2:
		return sign * (parts[0]*60 + parts[1]), true
	default:
		return sign * parts[0], true
	}
}

// leadingInt reads an optionally signed run of leading digits, skipping
// leading whitespace. Anything without digits is 0.
func leadingInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\r")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	if neg {
		return -n
	}
	return n
}

// FormatSigned renders seconds as "±HH:MM:SS". Zero is always "+00:00:00".
func FormatSigned(seconds int64) string {
	sign, h, m, s := split(seconds)
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
}

// FormatShort renders seconds as "±HH:MM", the form stored in the register.
func FormatShort(seconds int64) string {
	sign, h, m, _ := split(seconds)
	return fmt.Sprintf("%s%02d:%02d", sign, h, m)
}

// FormatSignedOptional formats nil as "+00:00:00".
func FormatSignedOptional(seconds *int64) string {
	if seconds == nil {
		return FormatSigned(0)
	}
	return FormatSigned(*seconds)
}

// FormatShortOptional formats nil as "+00:00".
func FormatShortOptional(seconds *int64) string {
	if seconds == nil {
		return FormatShort(0)
	}
	return FormatShort(*seconds)
}

// NormalizeSigned returns the canonical "±HH:MM:SS" form of s, or "" when s is blank.
func NormalizeSigned(s string) string {
	seconds, ok := ParseSigned(s)
	if !ok {
		return ""
	}
	return FormatSigned(seconds)
}

// ParseShort reads a register offset ("±HH:MM") into seconds. Like
// ParseSigned it never fails on malformed components; ok is false for blank
// input.
func ParseShort(s string) (seconds int64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	sign := int64(1)
	if s[0] == '-' {
		sign = -1
	}
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	raw := strings.Split(s, ":")
	h := leadingInt(raw[0])
	var m int64
	if len(raw) > 1 {
		m = leadingInt(raw[1])
	}
	return sign * (h*3600 + m*60), true
}

var wellFormed = regexp.MustCompile(`^[+-]?\d+(:\d+){0,2}$`)

// WellFormed reports whether s is a signed duration ParseSigned reads without
// coercing anything to zero.
func WellFormed(s string) bool {
	return wellFormed.MatchString(strings.TrimSpace(s))
}

func split(seconds int64) (sign string, h, m, s int64) {
	sign = "+"
	abs := seconds
	if seconds < 0 {
		sign = "-"
		abs = -seconds
	}
	return sign, abs / 3600, (abs % 3600) / 60, abs % 60
}

// ParseQuota parses a weekly quota as entered in settings: "HH:MM:SS",
// "MM:SS" or a bare number of minutes. Quotas are unsigned.
func ParseQuota(input string) (int64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("quota cannot be empty (use HH:MM:SS, MM:SS or minutes, e.g., 10:00:00)")
	}

	raw := strings.Split(input, ":")
	if len(raw) > 3 {
		return 0, fmt.Errorf("invalid quota '%s': too many parts (use HH:MM:SS, MM:SS or minutes)", input)
	}

	parts := make([]int64, len(raw))
	for i, p := range raw {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid quota '%s': '%s' is not a whole number (use HH:MM:SS, MM:SS or minutes)", input, p)
		}
		parts[i] = n
	}

	switch len(parts) {
	case 3:
		return parts[0]*3600 + parts[1]*60 + parts[2], nil
	case 2:
		return parts[0]*60 + parts[1], nil
	default:
		return parts[0] * 60, nil
	}
}

// FormatQuota renders an unsigned quota as "HH:MM:SS".
func FormatQuota(seconds int64) string {
	return strings.TrimPrefix(FormatSigned(seconds), "+")
}
