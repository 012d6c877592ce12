package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSection(w io.Writer, title string) {
	_, _ = headerColor.Fprintf(w, "▸ %s\n", title)
}

func printSuccess(w io.Writer, msg string) {
	_, _ = successColor.Fprintf(w, "✓ %s\n", msg)
}

func printWarning(w io.Writer, msg string) {
	_, _ = warningColor.Fprintf(w, "⚠ %s\n", msg)
}

func printError(w io.Writer, msg string) {
	_, _ = errorColor.Fprintf(w, "✗ %s\n", msg)
}

func printDim(w io.Writer, format string, args ...any) {
	_, _ = dimColor.Fprintf(w, format, args...)
	fmt.Fprintln(w)
}
