package print

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgHiGreen)
	yellow = color.New(color.FgHiYellow)
	red    = color.New(color.FgHiRed)
)

func Success(out io.Writer, msg string, args ...interface{}) {
	green.Fprint(out, "✓ ")
	fmt.Fprintln(out, fmt.Sprintf(msg, args...))
}

func Warn(out io.Writer, msg string, args ...interface{}) {
	yellow.Fprintln(out, fmt.Sprintf(msg, args...))
}

func Error(out io.Writer, msg string, args ...interface{}) {
	red.Fprint(out, "Error: ")
	fmt.Fprintln(out, fmt.Sprintf(msg, args...))
}
