package utils

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// VerboseMode controls whether PrintDebug output is visible.
var VerboseMode = false

// QuietMode controls whether progress messages are suppressed (errors/warnings still shown)
var QuietMode = false

// YesMode makes ShouldAnswerYes return true without prompting.
var YesMode = false

// projectPrefix is the standard tag for all console output.
const projectPrefix = "[LNC]"

// ---------------------------------------------------------
// 1. Private Color Definitions
// ---------------------------------------------------------

var (
	red      = color.New(color.FgRed).SprintFunc()
	green    = color.New(color.FgGreen).SprintFunc()
	yellow   = color.New(color.FgYellow).SprintFunc()
	blueBold = color.New(color.FgBlue, color.Bold).SprintFunc()
	magenta  = color.New(color.FgMagenta).SprintFunc()
	cyan     = color.New(color.FgCyan).SprintFunc()
	gray     = color.New(color.FgWhite).SprintFunc() // FgWhite = Gray in ANSI
	bold     = color.New(color.Bold).SprintFunc()
)

// ---------------------------------------------------------
// 2. Semantic Styles (The "Style..." API)
//    Use these for formatting specific types of data.
// ---------------------------------------------------------

// StyleError formats critical failure messages (Red).
func StyleError(msg string) string { return red(msg) }

// StyleSuccess formats success messages (Green).
func StyleSuccess(msg string) string { return green(msg) }

// StyleWarning formats non-critical warnings (Yellow).
func StyleWarning(msg string) string { return yellow(msg) }

// StyleHint formats helpful tips or suggestions (Cyan).
func StyleHint(msg string) string { return cyan(msg) }

// StyleInfo formats status labels or properties (Magenta)
func StyleInfo(msg string) string { return magenta(msg) }

// StyleDebug formats low-level technical info (Gray).
func StyleDebug(msg string) string { return gray(msg) }

// StyleCommand formats shell commands or flags (Gray/Faint).
func StyleCommand(cmd string) string { return gray(cmd) }

// StyleAction formats verbs or active operations (Yellow).
func StyleAction(act string) string { return yellow(act) }

// StyleTitle
func StyleTitle(title string) string { return bold(cyan(title)) }

// StyleNumber formats counts, sizes, or IDs (Magenta).
func StyleNumber(num interface{}) string {
	return magenta(fmt.Sprintf("%v", num))
}

// StylePath formats file paths (Bold Blue).
func StylePath(path string) string { return blueBold(path) }

// StyleName formats names, identifiers, or keys (Yellow).
func StyleName(name string) string { return yellow(name) }

// ---------------------------------------------------------
// 3. Log Printers
//    High-level functions that print entire lines with tags.
// ---------------------------------------------------------

// PrintMessage prints a standard info message.
// Output: [LNC] Message...
func PrintMessage(format string, a ...interface{}) {
	if QuietMode {
		return
	}
	msg := fmt.Sprintf(format, a...)
	fmt.Fprintf(os.Stdout, "%s %s\n", projectPrefix, msg)
}

// PrintSuccess prints a success message with a Green tag.
// Output: [LNC][PASS] Operation complete.
func PrintSuccess(format string, a ...interface{}) {
	if QuietMode {
		return
	}
	msg := fmt.Sprintf(format, a...)
	tag := StyleSuccess("[PASS]")
	fmt.Fprintf(os.Stdout, "%s%s %s\n", projectPrefix, tag, msg)
}

// PrintError prints an error message with a Red tag to Stderr.
// Output: [LNC][ERR] Something failed.
func PrintError(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	tag := StyleError("[ERR] ")
	fmt.Fprintf(os.Stderr, "%s%s %s\n", projectPrefix, tag, msg)
}

// PrintWarning prints a warning with a Yellow tag to Stderr.
// Output: [LNC][WARN] No job ID detected.
func PrintWarning(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	tag := StyleWarning("[WARN]")
	fmt.Fprintf(os.Stderr, "%s%s %s\n", projectPrefix, tag, msg)
}

// PrintHint prints a helpful hint with a Cyan tag.
// Output: [LNC][HINT] Try: module load launcher
func PrintHint(format string, a ...interface{}) {
	if QuietMode {
		return
	}
	msg := fmt.Sprintf(format, a...)
	tag := StyleHint("[HINT]")
	fmt.Fprintf(os.Stdout, "%s%s %s\n", projectPrefix, tag, msg)
}

// PrintNote prints a note with a Magenta tag.
// Output: [LNC][NOTE] Node count capped at 128.
func PrintNote(format string, a ...interface{}) {
	if QuietMode {
		return
	}
	msg := fmt.Sprintf(format, a...)
	tag := StyleInfo("[NOTE]")
	fmt.Fprintf(os.Stdout, "%s%s %s\n", projectPrefix, tag, msg)
}

// PrintDebug prints a debug message with a Gray tag (only if VerboseMode is true).
// Output: [LNC][DBG] Rendered control file: /tmp/.launcher-run-123.slurm
func PrintDebug(format string, a ...interface{}) {
	if VerboseMode {
		msg := fmt.Sprintf(format, a...)
		tag := StyleDebug("[DBG] ")
		fmt.Fprintf(os.Stderr, "%s%s %s\n", projectPrefix, tag, msg)
	}
}

// ---------------------------------------------------------
// 4. Terminal Interaction
// ---------------------------------------------------------

// IsInteractiveShell checks if stdout is connected to a TTY (interactive terminal).
// Returns true if the program is running in an interactive shell, false otherwise.
func IsInteractiveShell() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// ShouldAnswerYes asks the user for confirmation on stdin.
// Returns true immediately when YesMode is set or the shell is
// non-interactive (so scripted runs never block on a prompt).
func ShouldAnswerYes() bool {
	if YesMode || !IsInteractiveShell() {
		return true
	}
	fmt.Fprintf(os.Stdout, "%s Continue? [y/N]: ", projectPrefix)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
