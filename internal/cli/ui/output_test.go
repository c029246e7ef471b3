package ui

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{0, "-"},
		{500 * time.Millisecond, "<1s"},
		{time.Second, "1s"},
		{42 * time.Second, "42s"},
		{90 * time.Second, "1m30s"},
		{5 * time.Minute, "5m00s"},
		{90 * time.Minute, "1h30m"},
		{25 * time.Hour, "25h00m"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatDuration(tt.d)
			if result != tt.expected {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, result, tt.expected)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		t        time.Time
		expected string
	}{
		{"zero time", time.Time{}, "never"},
		{"seconds ago", now.Add(-30 * time.Second), "just now"},
		{"one minute", now.Add(-90 * time.Second), "1 minute ago"},
		{"minutes", now.Add(-5 * time.Minute), "5 minutes ago"},
		{"one hour", now.Add(-90 * time.Minute), "1 hour ago"},
		{"hours", now.Add(-5 * time.Hour), "5 hours ago"},
		{"one day", now.Add(-30 * time.Hour), "1 day ago"},
		{"days", now.Add(-3 * 24 * time.Hour), "3 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatTime(tt.t)
			if result != tt.expected {
				t.Errorf("FormatTime() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestShortCommit(t *testing.T) {
	if got := ShortCommit("0123456789abcdef"); got != "01234567" {
		t.Errorf("ShortCommit() = %q, want %q", got, "01234567")
	}
	if got := ShortCommit("abc"); got != "abc" {
		t.Errorf("ShortCommit() = %q, want %q", got, "abc")
	}
}

func TestFormatCommitRange(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		expected string
	}{
		{"both set", "0123456789abcdef", "fedcba9876543210", "01234567..fedcba98"},
		{"no from", "", "fedcba9876543210", "fedcba98"},
		{"same commit", "0123456789abcdef", "0123456789abcdef", "01234567"},
		{"no to", "0123456789abcdef", "", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatCommitRange(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("FormatCommitRange(%q, %q) = %q, want %q", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestStatusIcon(t *testing.T) {
	tests := []struct {
		status   string
		expected string
	}{
		{"succeeded", SuccessIcon},
		{"failed", ErrorIcon},
		{"running", RunningIcon},
		{"unknown", InfoIcon},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := StatusIcon(tt.status); got != tt.expected {
				t.Errorf("StatusIcon(%q) = %q, want %q", tt.status, got, tt.expected)
			}
		})
	}
}
