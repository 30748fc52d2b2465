package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func printOK(w io.Writer, format string, args ...any) {
	printColored(w, ansiGreen, format, args...)
}

func printWarn(w io.Writer, format string, args ...any) {
	printColored(w, ansiYellow, format, args...)
}

func printColored(w io.Writer, color, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if shouldColorize(w) {
		line = color + line + ansiReset
	}
	fmt.Fprintln(w, line)
}
