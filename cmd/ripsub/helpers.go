package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	ansiBlue  = "\x1b[34m"
	ansiReset = "\x1b[0m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printHeading writes a title line with an underline rule, colorized when
// the writer is a terminal.
func printHeading(out io.Writer, title string) {
	rule := strings.Repeat("-", len(title))
	if shouldColorize(out) {
		title = ansiBlue + title + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, rule)
}
