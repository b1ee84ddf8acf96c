// Package diag prints compile diagnostics to the terminal. The snippet
// rendering itself lives with the source slices; this package adds the
// colored banners and message framing around it.
package diag

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"

	"github.com/glintlab/glint/pkg/compiler/source"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// SourceError is an error pointing at a range of script source. Parse and
// semantic errors both satisfy it.
type SourceError interface {
	error
	Slice() source.Slice
}

// PrintErrorMessage prints a standard Go error to the console.
func PrintErrorMessage(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// PrintInfoMessage prints an informational message to the user.
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// PrintCompileError prints a compile diagnostic: a banner naming the kind
// of error and the file, the message, and — when the error carries a
// source slice — the offending code with its position underlined.
func PrintCompileError(kind, filePath, src string, err error) {
	printBanner(kind, filePath)
	fmt.Println(err.Error())

	var se SourceError
	if errors.As(err, &se) {
		fmt.Println()
		fmt.Println(source.NewSnippet(se.Slice(), src).String())
		line, col := se.Slice().LineColumn(src)
		InfoColorFG.Printf("at %s:%d:%d\n", filepath.Base(filePath), line, col)
	}
}

func printBanner(kind, filePath string) {
	fmt.Print("\n\n-- ")
	ErrorStyleBG.Print(kind + " Error")
	fmt.Print(" ")

	fileName := filepath.Base(filePath)
	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}
	dashCount := bannerLen - len(fileName) - len(kind) - 7
	if dashCount < 3 {
		dashCount = 3
	}

	fmt.Print(strings.Repeat("-", dashCount) + " ")
	InfoColorFG.Println(fileName)
}
