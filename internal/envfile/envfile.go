// Package envfile applies DECOMMENT_* settings from a .env file to the process
// environment so env-backed CLI flags can be set per checkout.
package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Prefix is the only key prefix Load will apply.
const Prefix = "DECOMMENT_"

// Load reads KEY=VALUE lines from path and sets every DECOMMENT_* key that is
// not already present in the environment. Other keys are ignored. A missing
// file is not an error. The applied keys are returned sorted.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	pairs, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("envfile %s: %w", path, err)
	}

	var applied []string
	for key, value := range pairs {
		if !strings.HasPrefix(key, Prefix) {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return applied, fmt.Errorf("envfile setenv %s: %w", key, err)
		}
		applied = append(applied, key)
	}
	sort.Strings(applied)
	return applied, nil
}

// parse returns the key/value pairs in r. A later line wins over an earlier
// one with the same key.
func parse(r io.Reader) (map[string]string, error) {
	pairs := map[string]string{}
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		key, raw, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: no '=' found: %q", lineNum, line)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("line %d: empty key", lineNum)
		}
		value, err := parseValue(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		pairs[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pairs, nil
}

func parseValue(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	switch q := raw[0]; q {
	case '"', '\'':
		end := strings.IndexByte(raw[1:], q)
		if end < 0 {
			return "", fmt.Errorf("unterminated %c-quoted value", q)
		}
		return raw[1 : end+1], nil
	}
	if idx := strings.Index(raw, " #"); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw), nil
}
