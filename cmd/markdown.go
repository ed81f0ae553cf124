package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// renderMarkdown renders doc for the terminal, or returns it as is when stdout is not a terminal.
func renderMarkdown(doc string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return doc
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return doc
	}
	out, err := r.Render(doc)
	if err != nil {
		return doc
	}
	return out
}

func printMarkdown(doc string) {
	fmt.Print(renderMarkdown(doc))
}
