package main

import "fmt"

// ANSI color constants for update output (no lipgloss — runs outside TUI).
const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiItalic = "\033[3m"
	ansiSky    = "\033[38;2;56;189;248m"  // #38bdf8
	ansiSteel  = "\033[38;2;45;167;224m"  // #2da7e0
	ansiGold   = "\033[38;2;212;168;68m"  // #d4a844
	ansiSlate  = "\033[38;2;136;144;160m" // #8890a0
)

// printUpdateLogo prints the spaced SKYFARE wordmark in alternating blues.
func printUpdateLogo() {
	letters := "SKYFARE"
	colors := [2]string{ansiSky, ansiSteel}
	fmt.Print("\n  ")
	for i, ch := range letters {
		fmt.Printf("%s%s%c%s", colors[i%2], ansiBold, ch, ansiReset)
		if i < len(letters)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

func printUpdateSuccess(oldVersion, newVersion string) {
	printUpdateLogo()
	fmt.Printf("\n  %s%s%s  %s%s→%s  %s%s%s%s\n",
		ansiSlate, oldVersion, ansiReset,
		ansiSky, ansiBold, ansiReset,
		ansiSky, ansiBold, newVersion, ansiReset,
	)
	fmt.Printf("\n  %s✈%s %supdated — you are cleared for departure%s\n\n",
		ansiGold, ansiReset, ansiSlate+ansiItalic, ansiReset)
}

func printAlreadyCurrent(currentVersion string) {
	printUpdateLogo()
	fmt.Printf("\n  %s%s%s%s  %s%s✦%s  %s%scurrent%s\n",
		ansiSky, ansiBold, currentVersion, ansiReset,
		ansiGold, ansiBold, ansiReset,
		ansiSlate, ansiItalic, ansiReset,
	)
	fmt.Printf("\n  %salready on the latest version%s\n\n", ansiSlate+ansiItalic, ansiReset)
}
