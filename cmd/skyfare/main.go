package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/eazytourist/skyfare/internal/config"
	"github.com/eazytourist/skyfare/internal/session"
	"github.com/eazytourist/skyfare/internal/tui"
	"github.com/eazytourist/skyfare/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// configPath returns the config file location, honoring SKYFARE_CONFIG.
func configPath() string {
	if p := os.Getenv("SKYFARE_CONFIG"); p != "" {
		return p
	}
	p, err := config.DefaultPath()
	if err != nil {
		return ""
	}
	return p
}

func run() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("skyfare " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "config":
			return runConfig()
		case "logout":
			return runLogout()
		case "update":
			return runUpdate()
		case "--update-done":
			if len(os.Args) >= 4 {
				printUpdateSuccess(os.Args[2], os.Args[3])
			}
			return nil
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
			printHelp()
			return nil
		}
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}

	tokenPath, err := session.DefaultTokenPath()
	if err != nil {
		return err
	}
	store := session.NewStore(tokenPath, os.Getenv("SKYFARE_TOKEN"))

	timeout := cfg.Timeout()
	auth := client.NewAuth(cfg.Auth.URL, store.Current, timeout)
	flights := client.NewFlights(cfg.Flight.URL, store.Current, timeout)
	bookings := client.NewBookings(cfg.Booking.URL, store.Current, timeout)

	app := tui.NewApp(store, auth, flights, bookings, version)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func runConfig() error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}
	fmt.Printf("auth:     %s\n", cfg.Auth.URL)
	fmt.Printf("flight:   %s\n", cfg.Flight.URL)
	fmt.Printf("booking:  %s\n", cfg.Booking.URL)
	fmt.Printf("timeout:  %ds\n", cfg.TimeoutSeconds)
	return nil
}

func runLogout() error {
	tokenPath, err := session.DefaultTokenPath()
	if err != nil {
		return err
	}
	store := session.NewStore(tokenPath, "")
	if !store.HasCredential() {
		fmt.Println("Already signed out.")
		return nil
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	fmt.Println("Signed out.")
	return nil
}
