package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
)

// NotesMarkdown renders task notes as markdown when a renderer can be built,
// falling back to the raw text indented two spaces.
func NotesMarkdown(w io.Writer, notes string) {
	if strings.TrimSpace(notes) == "" {
		return
	}

	fmt.Fprintln(w)
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80), //nolint:mnd // default terminal width
	)
	if err == nil {
		if rendered, rerr := r.Render(notes); rerr == nil {
			fmt.Fprint(w, rendered)
			return
		}
	}

	for _, line := range strings.Split(notes, "\n") {
		fmt.Fprintln(w, "  "+line)
	}
}
