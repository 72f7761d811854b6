package iojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrNoInput is returned when no file is given and stdin is a terminal.
var ErrNoInput = errors.New("no input provided (stdin is a terminal); use -f or pipe JSON")

// FileReader decodes one JSON document of type T from the file named by its
// --file flag, or from stdin when the flag is empty.
type FileReader[T any] struct {
	path string
}

// Flag returns the --file flag bound to the reader.
func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to JSON file (reads from stdin if not provided)",
		TakesFile:   true,
		Destination: &fr.path,
	}
}

// Read decodes from the flag's file, falling back to stdin.
func (fr *FileReader[T]) Read(stdin io.Reader) (T, error) {
	if fr.path != "" {
		f, err := os.Open(fr.path)
		if err != nil {
			var zero T
			return zero, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		return Decode[T](f)
	}

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		var zero T
		return zero, ErrNoInput
	}
	return Decode[T](stdin)
}

// Decode reads a single JSON document from r. Unknown fields are rejected
// so a misspelled key fails instead of dropping its value.
func Decode[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, fmt.Errorf("decode JSON: %w", err)
	}
	return out, nil
}
