package display

import (
	"fmt"
	"io"

	"github.com/cuiluyi/rlds-dataset-builder/internal/term"
)

// PrintBanner prints the ASCII art banner to w; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, `     _                                        _
 ___| |__   __ _ _ __   ___ _ __  _ __ ___ | |__   ___
/ __| '_ \ / _`+"`"+` | '_ \ / _ \ '_ \| '__/ _ \| '_ \ / _ \
\__ \ | | | (_| | |_) |  __/ |_) | | | (_) | |_) |  __/
|___/_| |_|\__,_| .__/ \___| .__/|_|  \___/|_.__/ \___|
                |_|        |_|
`)
	if term.NC != "" {
		fmt.Fprintln(w, term.NC)
	}
}
