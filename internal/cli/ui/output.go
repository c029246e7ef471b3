package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/rin/pulley/internal/history"
)

// Print functions for consistent output

func Error(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorIcon, ErrorStyle.Render(fmt.Sprintf(format, args...)))
}

func Success(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", SuccessIcon, SuccessStyle.Render(fmt.Sprintf(format, args...)))
}

func Info(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", InfoIcon, InfoStyle.Render(fmt.Sprintf(format, args...)))
}

func Warning(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", WarningIcon, WarningStyle.Render(fmt.Sprintf(format, args...)))
}

// Output prints formatted text without a trailing newline
func Output(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// OutputLine prints a plain formatted line
func OutputLine(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

// PrintKeyValue prints a dimmed key with its value
func PrintKeyValue(key, value string) {
	fmt.Printf("  %s %s\n", DimStyle.Render(key+":"), value)
}

// ShortCommit returns the 8-character display form of a commit hash
func ShortCommit(hash string) string {
	if len(hash) < 8 {
		return hash
	}
	return hash[:8]
}

// FormatCommitRange renders a from..to commit range with short hashes
func FormatCommitRange(from, to string) string {
	if to == "" {
		return "-"
	}
	if from == "" || from == to {
		return ShortCommit(to)
	}
	return ShortCommit(from) + ".." + ShortCommit(to)
}

// PrintRelease displays a single release with formatting
func PrintRelease(r *history.Release) {
	fmt.Printf("%s Release %s %s %s\n",
		DeployIcon,
		BoldStyle.Render(r.ShortID()),
		StatusIcon(string(r.Status)),
		string(r.Status),
	)

	fmt.Printf("   %s %s/%s\n", DimStyle.Render("Source:"), r.Remote, r.Branch)
	fmt.Printf("   %s %s\n", DimStyle.Render("Commit:"), FormatCommitRange(r.FromCommit, r.ToCommit))
	if r.VenvCreated {
		fmt.Printf("   %s created by this deploy\n", DimStyle.Render("Virtualenv:"))
	}
	fmt.Printf("   %s %s\n", DimStyle.Render("Started:"), FormatTime(r.StartedAt))
	if !r.FinishedAt.IsZero() {
		fmt.Printf("   %s %s\n", DimStyle.Render("Duration:"), FormatDuration(r.Duration()))
	}
	if r.FailedStep != "" {
		fmt.Printf("   %s %s\n", DimStyle.Render("Failed step:"), r.FailedStep)
	}
	if r.Error != "" {
		fmt.Printf("   %s %s\n", DimStyle.Render("Error:"), r.Error)
	}
}

// PrintReleaseList displays a list of releases using a table
func PrintReleaseList(releases []*history.Release) {
	if len(releases) == 0 {
		Info("No deploys recorded yet")
		return
	}

	tbl := NewTable("RELEASE", "STATUS", "SOURCE", "COMMIT", "STARTED", "DURATION")

	for _, r := range releases {
		duration := "-"
		if !r.FinishedAt.IsZero() {
			duration = FormatDuration(r.Duration())
		}
		commit := "-"
		if r.ToCommit != "" {
			commit = ShortCommit(r.ToCommit)
		}

		tbl.AddRow(r.ShortID(), string(r.Status), r.Remote+"/"+r.Branch, commit, FormatTime(r.StartedAt), duration)
	}

	PrintSectionHeader(DeployIcon, "Deploys", len(releases))
	tbl.Print()
	fmt.Println()
}

// FormatDuration formats a deploy duration into a human-readable string
func FormatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d < time.Second:
		return "<1s"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

// FormatTime formats a time for display
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		minutes := int(diff.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02 15:04")
	}
}
