// Package input loads JSON request bodies from inline text, files, or
// stdin.
package input

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/searchads/searchads/internal/value"
)

// ReadJSON interprets raw as, in order: "-" for stdin, an @-prefixed
// file path, a bare path to an existing file, or inline JSON.
func ReadJSON(raw string) (value.Value, error) {
	trimmed := strings.TrimSpace(raw)

	if trimmed == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return value.Value{}, fmt.Errorf("read stdin: %w", err)
		}
		return parse(data, "stdin")
	}
	if path, ok := strings.CutPrefix(trimmed, "@"); ok {
		return readFile(path)
	}
	if _, err := os.Stat(trimmed); err == nil {
		return readFile(trimmed)
	}

	v, err := value.Parse([]byte(trimmed))
	if err != nil {
		return value.Value{}, fmt.Errorf("invalid JSON input: %w", err)
	}
	return v, nil
}

func readFile(path string) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Value{}, fmt.Errorf("read json file %s: %w", path, err)
	}
	return parse(data, path)
}

func parse(data []byte, source string) (value.Value, error) {
	v, err := value.Parse(data)
	if err != nil {
		return value.Value{}, fmt.Errorf("invalid JSON in %s: %w", source, err)
	}
	return v, nil
}
