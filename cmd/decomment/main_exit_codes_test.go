package main

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func buildDecommentBinary(t *testing.T) string {
	t.Helper()
	// wd is .../cmd/decomment
	bin := filepath.Join(t.TempDir(), "decomment")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build: %v\n%s", err, string(out))
	}
	return bin
}

func runDecomment(t *testing.T, bin, stdin string, args ...string) (exitCode int, stdout, stderr string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		t.Fatalf("decomment timed out\n%s", errBuf.String())
	}
	if err == nil {
		return 0, outBuf.String(), errBuf.String()
	}
	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		t.Fatalf("decomment failed: %v\n%s", err, errBuf.String())
	}
	return ee.ExitCode(), outBuf.String(), errBuf.String()
}

func TestDecommentExitCodes(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	bin := buildDecommentBinary(t)

	code, out, errOut := runDecomment(t, bin, "int x; /* c */\n")
	if code != 0 || out != "int x;  \n" || errOut != "" {
		t.Fatalf("success: code=%d out=%q err=%q", code, out, errOut)
	}

	code, out, errOut = runDecomment(t, bin, "int x;/")
	if code != 0 || out != "int x;/" {
		t.Fatalf("trailing slash: code=%d out=%q err=%q", code, out, errOut)
	}

	code, out, errOut = runDecomment(t, bin, "a/*b")
	if code == 0 {
		t.Fatalf("unterminated comment should fail")
	}
	if out != "a " {
		t.Fatalf("stdout=%q want %q", out, "a ")
	}
	if errOut != "Error: line 1: unterminated comment\n" {
		t.Fatalf("stderr=%q", errOut)
	}
}
