package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the GoBarber banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`   ____       ____             _               `, "#ff9000"},
		{`  / ___| ___ | __ )  __ _ _ __| |__   ___ _ __ `, "#ff9f1c"},
		{` | |  _ / _ \|  _ \ / _' | '__| '_ \ / _ \ '__|`, "#ffae3a"},
		{` | |_| | (_) | |_) | (_| | |  | |_) |  __/ |   `, "#ffbd59"},
		{`  \____|\___/|____/ \__,_|_|  |_.__/ \___|_|   `, "#ffcc78"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Status colours a short status word: green when ok, red otherwise.
func Status(text string, ok bool) string {
	p := termenv.EnvColorProfile()
	color := "#04d361"
	if !ok {
		color = "#c53030"
	}
	return termenv.String(text).Foreground(p.Color(color)).Bold().String()
}
