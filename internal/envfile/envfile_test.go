package envfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func parseString(s string) (map[string]string, error) {
	return parse(strings.NewReader(s))
}

func writeEnv(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestParseValues(t *testing.T) {
	pairs, err := parseString(`
# comment
DECOMMENT_CONFIG=decomment.yaml
export DECOMMENT_OUT_DIR = "build/out dir"
DECOMMENT_EXCLUDE='vendor/**'
DECOMMENT_REPORT=report.json # trailing note
DECOMMENT_EMPTY=
DECOMMENT_CONFIG=override.yaml
`)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"DECOMMENT_CONFIG":  "override.yaml",
		"DECOMMENT_OUT_DIR": "build/out dir",
		"DECOMMENT_EXCLUDE": "vendor/**",
		"DECOMMENT_REPORT":  "report.json",
		"DECOMMENT_EMPTY":   "",
	}
	if len(pairs) != len(want) {
		t.Fatalf("got %v", pairs)
	}
	for k, v := range want {
		if pairs[k] != v {
			t.Fatalf("%s: got %q, want %q", k, pairs[k], v)
		}
	}
}

func TestParseHashInsideUnquotedValue(t *testing.T) {
	pairs, err := parseString("DECOMMENT_INCLUDE=src/#gen/*.c\n")
	if err != nil {
		t.Fatal(err)
	}
	if got := pairs["DECOMMENT_INCLUDE"]; got != "src/#gen/*.c" {
		t.Fatalf("got %q", got)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"NOEQUALS\n", "=value\n", "K=\"open\n", "K='open\n"} {
		if _, err := parseString(in); err == nil {
			t.Fatalf("expected error for %q", in)
		} else if !strings.Contains(err.Error(), "line 1") {
			t.Fatalf("error should name the line: %v", err)
		}
	}
}

func TestLoadAppliesOnlyPrefixedKeys(t *testing.T) {
	const key = "DECOMMENT_TEST_LOAD_NEW"
	const other = "ENVFILE_TEST_UNRELATED"
	os.Unsetenv(key)
	os.Unsetenv(other)
	t.Cleanup(func() {
		os.Unsetenv(key)
		os.Unsetenv(other)
	})

	applied, err := Load(writeEnv(t, key+"=yes\n"+other+"=no\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(applied) != 1 || applied[0] != key {
		t.Fatalf("applied = %v", applied)
	}
	if got := os.Getenv(key); got != "yes" {
		t.Fatalf("got %q", got)
	}
	if _, ok := os.LookupEnv(other); ok {
		t.Fatalf("%s should not have been set", other)
	}
}

func TestLoadDoesNotOverwriteExisting(t *testing.T) {
	const key = "DECOMMENT_TEST_NO_OVERWRITE"
	t.Setenv(key, "shell_value")

	applied, err := Load(writeEnv(t, key+"=env_value\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(applied) != 0 {
		t.Fatalf("applied = %v", applied)
	}
	if got := os.Getenv(key); got != "shell_value" {
		t.Fatalf("Load overwrote existing env var: got %q", got)
	}
}

func TestLoadMissingFileReturnsNil(t *testing.T) {
	applied, err := Load("/nonexistent/path/that/does/not/exist/.env")
	if err != nil || applied != nil {
		t.Fatalf("expected nil for missing file, got %v, %v", applied, err)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load(writeEnv(t, "DECOMMENT_X\n"))
	if err == nil || !strings.Contains(err.Error(), "envfile") {
		t.Fatalf("expected wrapped parse error, got %v", err)
	}
}
