// Package batch strips comments from many files in one run and reports the
// outcome per file.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/strongdm/decomment/internal/decomment"
)

type Options struct {
	Root    string
	Include []string
	Exclude []string
	// Exactly one of OutDir and InPlace must be set.
	OutDir  string
	InPlace bool
	// Progress, when non-nil, gets one line per file as it is processed.
	Progress io.Writer
}

type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

type FileResult struct {
	File   string          `json:"file"`
	Output string          `json:"output,omitempty"`
	Status Status          `json:"status"`
	Line   int             `json:"line,omitempty"`
	Error  string          `json:"error,omitempty"`
	Stats  decomment.Stats `json:"stats"`
}

type Report struct {
	RunID      string       `json:"run_id"`
	Root       string       `json:"root"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Files      []FileResult `json:"files"`
	Missing    []string     `json:"missing_patterns,omitempty"`
}

// Failed returns the number of files that did not produce output.
func (r *Report) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Status != StatusOK {
			n++
		}
	}
	return n
}

// Run expands the patterns and filters each matched file in sorted order. A
// failing file is recorded in the report and does not stop the batch.
// Cancelling ctx stops the run between files; the partial report is returned
// with ctx's error.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if (strings.TrimSpace(opts.OutDir) == "") == !opts.InPlace {
		return nil, fmt.Errorf("batch: exactly one of out dir or in-place is required")
	}
	root := opts.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	var absOut string
	if !opts.InPlace {
		if absOut, err = filepath.Abs(opts.OutDir); err != nil {
			return nil, err
		}
	}

	exclude := opts.Exclude
	if rel, ok := within(absRoot, absOut); ok && rel != "." {
		// Never re-read our own output on a second run.
		exclude = append(append([]string{}, exclude...), rel)
	}
	files, missing, err := Expand(absRoot, opts.Include, exclude)
	if err != nil {
		return nil, err
	}

	runID, err := NewRunID()
	if err != nil {
		return nil, err
	}
	rep := &Report{
		RunID:     runID,
		Root:      absRoot,
		StartedAt: time.Now().UTC(),
		Files:     make([]FileResult, 0, len(files)),
		Missing:   missing,
	}
	defer func() { rep.FinishedAt = time.Now().UTC() }()

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			if cause := context.Cause(ctx); cause != nil && cause != err {
				err = fmt.Errorf("%w: %w", err, cause)
			}
			return rep, err
		}
		src := filepath.Join(absRoot, filepath.FromSlash(rel))
		dst := src
		if !opts.InPlace {
			dst = filepath.Join(absOut, filepath.FromSlash(rel))
		}
		res := processFile(src, dst, runID)
		res.File = rel
		rep.Files = append(rep.Files, res)
		if opts.Progress != nil {
			fmt.Fprintf(opts.Progress, "%-6s %s\n", res.Status, rel)
		}
	}
	return rep, nil
}

func processFile(src, dst, runID string) FileResult {
	res := FileResult{Output: dst, Status: StatusFailed}

	in, err := os.Open(src)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer in.Close()
	st, err := in.Stat()
	if err != nil {
		res.Error = err.Error()
		return res
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		res.Error = err.Error()
		return res
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+"."+runID+".*")
	if err != nil {
		res.Error = err.Error()
		return res
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	stats, runErr := decomment.Run(tmp, in)
	res.Stats = stats
	if cerr := tmp.Close(); runErr == nil && cerr != nil {
		runErr = cerr
	}
	if runErr != nil {
		if line, ok := decomment.IsUnterminated(runErr); ok {
			res.Line = line
		}
		res.Error = runErr.Error()
		res.Output = ""
		return res
	}
	if err := os.Chmod(tmpName, st.Mode().Perm()); err != nil {
		res.Error = err.Error()
		return res
	}
	if err := os.Rename(tmpName, dst); err != nil {
		res.Error = err.Error()
		return res
	}
	committed = true
	res.Status = StatusOK
	return res
}

// within reports whether target lies inside base and returns its
// slash-separated path relative to base.
func within(base, target string) (string, bool) {
	if target == "" {
		return "", false
	}
	rel, err := filepath.Rel(base, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
