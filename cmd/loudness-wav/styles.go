package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	loudness "github.com/tphakala/go-audio-loudness"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#2E86C1")
	errorColor   = lipgloss.Color("#A40000")
	mutedColor   = lipgloss.Color("#888888")
	textColor    = lipgloss.Color("#FFFFFF")
	okColor      = lipgloss.Color("#00AA00")
	warnColor    = lipgloss.Color("#FFA500")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	FileStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	// OverStyle marks true peaks above 0 dBTP.
	OverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warnColor)
)

// PrintVersion prints version information.
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render("loudness-wav"))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Printf("%s %s\n", KeyStyle.Render("SIMD:"), ValueStyle.Render(loudness.SIMDInfo()))
	fmt.Println()
}

// PrintError prints an error message.
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// formatLUFS formats a loudness value, printing -inf for silence.
func formatLUFS(v float64) string {
	if math.IsInf(v, -1) {
		return "-inf"
	}
	return fmt.Sprintf("%.1f", v)
}

func keyValue(key, value string) string {
	return fmt.Sprintf("  %s %s", KeyStyle.Render(fmt.Sprintf("%-20s", key+":")), ValueStyle.Render(value))
}

// renderResult renders the readings of one measured file.
func renderResult(res *fileResult, mode loudness.Mode) string {
	var b strings.Builder
	r := res.result

	b.WriteString(FileStyle.Render(filepath.Base(res.path)))
	b.WriteString("\n")
	b.WriteString(keyValue("Format", fmt.Sprintf("%d Hz, %d ch, %d-bit", res.rate, res.channels, res.bitDepth)))
	b.WriteString("\n")

	if mode.Has(loudness.ModeIntegrated) {
		b.WriteString(keyValue("Integrated", formatLUFS(r.Integrated)+" LUFS"))
		b.WriteString("\n")
		b.WriteString(keyValue("Threshold", formatLUFS(r.RelativeThreshold)+" LUFS"))
		b.WriteString("\n")
	}
	if mode.Has(loudness.ModeLRA) {
		b.WriteString(keyValue("Loudness range", fmt.Sprintf("%.1f LU", r.Range)))
		b.WriteString("\n")
	}
	if mode.Has(loudness.ModeMomentary) {
		b.WriteString(keyValue("Momentary (last)", formatLUFS(r.Momentary)+" LUFS"))
		b.WriteString("\n")
	}
	if mode.Has(loudness.ModeShortTerm) {
		b.WriteString(keyValue("Short-term (last)", formatLUFS(r.ShortTerm)+" LUFS"))
		b.WriteString("\n")
	}
	if mode.Has(loudness.ModeSamplePeak) {
		b.WriteString(keyValue("Sample peak", formatLUFS(loudness.AmplitudeToDB(r.MaxSamplePeak()))+" dBFS"))
		b.WriteString("\n")
	}
	if mode.Has(loudness.ModeTruePeak) {
		tp := loudness.AmplitudeToDB(r.MaxTruePeak())
		value := formatLUFS(tp) + " dBTP"
		if tp > 0 {
			value = OverStyle.Render(value + " (over)")
		}
		b.WriteString(keyValue("True peak", value))
		b.WriteString("\n")
	}

	seconds := float64(res.frames) / float64(res.rate)
	speed := 0.0
	if res.elapsed > 0 {
		speed = seconds / res.elapsed.Seconds()
	}
	b.WriteString(keyValue("Duration", fmt.Sprintf("%.2fs, %.1fx realtime", seconds, speed)))
	b.WriteString("\n")

	return b.String()
}

// renderAlbum renders the readings over all measured files.
func renderAlbum(album *albumResult) string {
	var b strings.Builder

	b.WriteString(FileStyle.Render(fmt.Sprintf("Album (%d files)", album.files)))
	b.WriteString("\n")
	if album.hasI {
		b.WriteString(keyValue("Integrated", formatLUFS(album.integrated)+" LUFS"))
		b.WriteString("\n")
	}
	if album.hasLRA {
		b.WriteString(keyValue("Loudness range", fmt.Sprintf("%.1f LU", album.rangeLU)))
		b.WriteString("\n")
	}

	return b.String()
}

// printReport writes every outcome followed by the album readings. It returns
// the number of files that failed.
func printReport(w io.Writer, outcomes []fileOutcome, album *albumResult, mode loudness.Mode) int {
	failed := 0
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			fmt.Fprintf(w, "%s %s\n  %s\n\n", ErrorStyle.Render("✗"), FileStyle.Render(filepath.Base(o.path)), o.err)
			continue
		}
		fmt.Fprintln(w, renderResult(o.result, mode))
	}

	if album != nil {
		fmt.Fprintln(w, renderAlbum(album))
	}

	return failed
}
