package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func printHelp() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#38bdf8")).
		Bold(true).
		Render("S K Y F A R E")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Flight search, booking and fleet management from your terminal.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"skyfare", "Open the interactive TUI"},
		{"skyfare config", "Show the effective backend endpoints"},
		{"skyfare logout", "Clear your saved session"},
		{"skyfare update", "Check for updates"},
		{"skyfare --version", "Show version"},
		{"skyfare help", "You are here"},
	}

	fmt.Printf("\n  %s\n\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}

	env := descStyle.Render("SKYFARE_CONFIG, SKYFARE_TOKEN, SKYFARE_AUTH_URL, SKYFARE_FLIGHT_URL, SKYFARE_BOOKING_URL")
	fmt.Printf("\n  Environment:\n    %s\n\n", env)
}
