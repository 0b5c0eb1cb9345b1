package server

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	methodColors = map[string]*color.Color{
		"GET":    color.New(color.FgGreen),
		"POST":   color.New(color.FgBlue),
		"PUT":    color.New(color.FgCyan),
		"DELETE": color.New(color.FgYellow),
		"PATCH":  color.New(color.FgMagenta),
	}
	defaultMethodColor = color.New(color.FgHiBlack)
	errorColor         = color.New(color.FgRed)
	statusColor        = color.New(color.FgHiBlack)
)

// colorMethod pads the method to a fixed width and colours it.
func colorMethod(method string) string {
	padded := fmt.Sprintf(" %-7s", method)
	if c, ok := methodColors[method]; ok {
		return c.Sprint(padded)
	}
	return defaultMethodColor.Sprint(padded)
}

func logRoute(method, path string) {
	fmt.Fprintf(color.Output, "[%s] %s\n", colorMethod(method), path)
}

func logRequest(method, path string, status int) {
	if status >= 400 {
		fmt.Fprintf(color.Output, "[%s] %s %s\n", colorMethod(method), path, errorColor.Sprint(status))
		return
	}
	fmt.Fprintf(color.Output, "[%s] %s %s\n", colorMethod(method), path, statusColor.Sprint(status))
}
