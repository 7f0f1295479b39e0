package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteFile writes the JSON report to path, creating parent directories.
func (r *Report) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WriteJSON(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return f.Close()
}

// WriteTable writes a human-readable per-file summary.
func (r *Report) WriteTable(w io.Writer) {
	fmt.Fprintf(w, "%-50s  %8s  %8s  %s\n", "FILE", "COMMENTS", "LINES", "STATUS")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, f := range r.Files {
		status := "ok"
		if f.Status != StatusOK {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%-50s  %8d  %8d  [%s]\n", f.File, f.Stats.Comments, f.Stats.Lines, status)
		if f.Error != "" {
			fmt.Fprintf(w, "  %s\n", f.Error)
		}
	}
	for _, p := range r.Missing {
		fmt.Fprintf(w, "WARNING no files matched %q\n", p)
	}
	fmt.Fprintf(w, "%d file(s), %d failed (run %s)\n", len(r.Files), r.Failed(), r.RunID)
}
