// Package ui provides styled console output for the pagegen CLI and
// relay: colorized status lines, probe results and progress ticks.
package ui

import (
	"fmt"

	"github.com/fatih/color"
)

// PrintBanner displays the startup banner.
func PrintBanner(version string) {
	cyan := color.New(color.FgCyan, color.Bold)
	magenta := color.New(color.FgMagenta, color.Bold)
	white := color.New(color.FgWhite)
	dim := color.New(color.FgHiBlack)

	fmt.Println()
	cyan.Println("╔══════════════════════════════════════════════════╗")
	cyan.Print("║  ")
	magenta.Print("PAGEGEN")
	white.Print("  AI content & video panel")
	dim.Printf("  %-10s", version)
	cyan.Println("   ║")
	cyan.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()
}

// PrintMiniBanner displays a one-line banner for constrained terminals.
func PrintMiniBanner(version string) {
	cyan := color.New(color.FgCyan, color.Bold)
	magenta := color.New(color.FgMagenta, color.Bold)

	magenta.Print("pagegen ")
	cyan.Println(version)
}
